package cql

import (
	"math/big"
	"net"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestValueRoundTrip(t *testing.T) {
	id := uuid.New()
	testCases := []struct {
		typ ColumnType
		val interface{}
	}{
		{ColumnType{ID: idAscii}, "hello"},
		{ColumnType{ID: idVarchar}, "world"},
		{ColumnType{ID: idBlob}, []byte{0x01, 0x02, 0x03}},
		{ColumnType{ID: idBoolean}, true},
		{ColumnType{ID: idBoolean}, false},
		{ColumnType{ID: idInt}, int32(-123456)},
		{ColumnType{ID: idBigint}, int64(-9223372036854775808)},
		{ColumnType{ID: idFloat}, float32(1.5)},
		{ColumnType{ID: idDouble}, float64(-2.25)},
		{ColumnType{ID: idTimestamp}, time.UnixMilli(1700000000123).UTC()},
		{ColumnType{ID: idUUID}, id},
		{ColumnType{ID: idInet}, net.IPv4(10, 0, 0, 1).To4()},
		{ColumnType{ID: idVarint}, big.NewInt(-987654321)},
		{ColumnType{ID: idDecimal}, Decimal{Unscaled: big.NewInt(123456), Scale: 3}},
		{
			ColumnType{ID: idList, Elem: &ColumnType{ID: idInt}},
			[]interface{}{int32(1), int32(2), int32(3)},
		},
		{
			ColumnType{ID: idSet, Elem: &ColumnType{ID: idAscii}},
			[]interface{}{"a", "b"},
		},
		{
			ColumnType{ID: idMap, Key: &ColumnType{ID: idAscii}, Value: &ColumnType{ID: idInt}},
			[]mapEntry{{Key: "x", Value: int32(1)}, {Key: "y", Value: int32(2)}},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.typ.String(), func(t *testing.T) {
			raw, ok, err := encodeValue(tc.typ, tc.val)
			if err != nil {
				t.Fatal(err)
			}
			if !ok {
				t.Fatal("encodeValue reported null for a non-nil value")
			}
			got, err := decodeValue(tc.typ, raw)
			if err != nil {
				t.Fatal(err)
			}
			if d, ok := tc.val.(Decimal); ok {
				gd := got.(Decimal)
				if gd.Scale != d.Scale || gd.Unscaled.Cmp(d.Unscaled) != 0 {
					t.Fatalf("got %+v, want %+v", gd, d)
				}
				return
			}
			if !reflect.DeepEqual(got, tc.val) {
				t.Fatalf("got %#v, want %#v", got, tc.val)
			}
		})
	}
}

func TestEncodeValueNull(t *testing.T) {
	raw, ok, err := encodeValue(ColumnType{ID: idInt}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected null encoding")
	}
	if raw != nil {
		t.Fatal("expected nil bytes for null")
	}
}

func TestDecodeOptionRoundTripsCollections(t *testing.T) {
	listType := ColumnType{ID: idList, Elem: &ColumnType{ID: idInt}}
	w := newBodyWriter()
	encodeOption(w, listType)
	r := newBodyReader(w.bytesWritten())
	got := decodeOption(r)
	if r.err != nil {
		t.Fatal(r.err)
	}
	if got.String() != "list<int>" {
		t.Fatalf("got %s, want list<int>", got)
	}
}

func TestVarintSignEdgeCases(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 127, 128, -128, -129, 255, -256, 1 << 40, -(1 << 40)} {
		enc := encodeVarint(big.NewInt(n))
		dec := decodeVarint(enc)
		if dec.Int64() != n {
			t.Fatalf("varint %d round-tripped as %s (bytes %x)", n, dec, enc)
		}
	}
}
