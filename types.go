package cql

import (
	"fmt"
	"math/big"
	"net"
	"time"

	"github.com/google/uuid"
)

// columnTypeID is the [option id] ([short]) identifying a CQL type on the
// wire. List/Map/Set carry one or two nested ColumnTypes as their [option]
// payload, which is why ColumnType below is a tagged variant rather than a
// bare enum.
type columnTypeID uint16

const (
	idCustom    columnTypeID = 0x0000
	idAscii     columnTypeID = 0x0001
	idBigint    columnTypeID = 0x0002
	idBlob      columnTypeID = 0x0003
	idBoolean   columnTypeID = 0x0004
	idCounter   columnTypeID = 0x0005
	idDecimal   columnTypeID = 0x0006
	idDouble    columnTypeID = 0x0007
	idFloat     columnTypeID = 0x0008
	idInt       columnTypeID = 0x0009
	idText      columnTypeID = 0x000A
	idTimestamp columnTypeID = 0x000B
	idUUID      columnTypeID = 0x000C
	idVarchar   columnTypeID = 0x000D
	idVarint    columnTypeID = 0x000E
	idTimeUUID  columnTypeID = 0x000F
	idInet      columnTypeID = 0x0010
	idList      columnTypeID = 0x0020
	idMap       columnTypeID = 0x0021
	idSet       columnTypeID = 0x0022
)

// ColumnType is the decoded form of a [option]: a type id plus, for List,
// Map and Set, the nested element type(s). Custom additionally carries the
// server-side class name.
type ColumnType struct {
	ID     columnTypeID
	Custom string      // idCustom only
	Elem   *ColumnType // idList, idSet
	Key    *ColumnType // idMap
	Value  *ColumnType // idMap
}

func (t ColumnType) String() string {
	switch t.ID {
	case idCustom:
		return fmt.Sprintf("custom(%s)", t.Custom)
	case idList:
		return fmt.Sprintf("list<%s>", t.Elem)
	case idSet:
		return fmt.Sprintf("set<%s>", t.Elem)
	case idMap:
		return fmt.Sprintf("map<%s,%s>", t.Key, t.Value)
	default:
		if name, ok := typeIDNames[t.ID]; ok {
			return name
		}
		return fmt.Sprintf("unknown(0x%04X)", uint16(t.ID))
	}
}

var typeIDNames = map[columnTypeID]string{
	idAscii:     "ascii",
	idBigint:    "bigint",
	idBlob:      "blob",
	idBoolean:   "boolean",
	idCounter:   "counter",
	idDecimal:   "decimal",
	idDouble:    "double",
	idFloat:     "float",
	idInt:       "int",
	idText:      "text",
	idTimestamp: "timestamp",
	idUUID:      "uuid",
	idVarchar:   "varchar",
	idVarint:    "varint",
	idTimeUUID:  "timeuuid",
	idInet:      "inet",
}

// decodeOption reads a [option]: a [short] id followed by a type-dependent
// payload (nothing for scalars, a nested [option] for List/Set, two nested
// [option]s for Map, a [string] class name for Custom).
func decodeOption(r *bodyReader) ColumnType {
	id := columnTypeID(r.short())
	if r.err != nil {
		return ColumnType{}
	}
	switch id {
	case idCustom:
		return ColumnType{ID: id, Custom: r.string()}
	case idList, idSet:
		elem := decodeOption(r)
		return ColumnType{ID: id, Elem: &elem}
	case idMap:
		key := decodeOption(r)
		val := decodeOption(r)
		return ColumnType{ID: id, Key: &key, Value: &val}
	default:
		return ColumnType{ID: id}
	}
}

func encodeOption(w *bodyWriter, t ColumnType) {
	w.short(uint16(t.ID))
	switch t.ID {
	case idCustom:
		w.string(t.Custom)
	case idList, idSet:
		encodeOption(w, *t.Elem)
	case idMap:
		encodeOption(w, *t.Key)
		encodeOption(w, *t.Value)
	}
}

// decodeValue converts the raw [bytes] payload of a result column (already
// extracted and null-checked by the caller) into the Go representation
// named for this type in the value codec: net.IP for Inet, time.Time (UTC)
// for Timestamp, uuid.UUID for Uuid/TimeUuid, *big.Int for Varint, Decimal
// for Decimal, and the obvious native types for the rest. Collections
// recurse over their own [bytes]-delimited elements.
func decodeValue(t ColumnType, b []byte) (interface{}, error) {
	switch t.ID {
	case idAscii, idVarchar, idText:
		return string(b), nil
	case idBlob, idCustom:
		return b, nil
	case idBoolean:
		// historically some servers wrote a 4-byte boolean; both widths are
		// accepted, and only the last byte is examined (any non-zero value
		// reads as true).
		if len(b) != 1 && len(b) != 4 {
			return nil, errWireFormat("boolean: unexpected width %d", len(b))
		}
		return b[len(b)-1] != 0, nil
	case idInt:
		if len(b) != 4 {
			return nil, errWireFormat("int: unexpected width %d", len(b))
		}
		return int32(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])), nil
	case idBigint, idCounter:
		if len(b) != 8 {
			return nil, errWireFormat("bigint: unexpected width %d", len(b))
		}
		var v uint64
		for _, c := range b {
			v = v<<8 | uint64(c)
		}
		return int64(v), nil
	case idFloat:
		if len(b) != 4 {
			return nil, errWireFormat("float: unexpected width %d", len(b))
		}
		r := newBodyReader(b)
		return r.float4(), nil
	case idDouble:
		if len(b) != 8 {
			return nil, errWireFormat("double: unexpected width %d", len(b))
		}
		r := newBodyReader(b)
		return r.float8(), nil
	case idTimestamp:
		if len(b) != 8 {
			return nil, errWireFormat("timestamp: unexpected width %d", len(b))
		}
		var ms int64
		for _, c := range b {
			ms = ms<<8 | int64(c)
		}
		return time.UnixMilli(ms).UTC(), nil
	case idUUID, idTimeUUID:
		id, err := uuid.FromBytes(b)
		if err != nil {
			return nil, errWireFormat("uuid: %v", err)
		}
		return id, nil
	case idInet:
		if len(b) != 4 && len(b) != 16 {
			return nil, errWireFormat("inet: unexpected width %d", len(b))
		}
		return net.IP(b), nil
	case idVarint:
		return decodeVarint(b), nil
	case idDecimal:
		return decodeDecimal(b)
	case idList, idSet:
		return decodeCollectionElems(*t.Elem, b)
	case idMap:
		return decodeMapElems(*t.Key, *t.Value, b)
	default:
		return nil, errWireFormat("decode: unsupported type %s", t)
	}
}

// decodeCollectionElems parses the [int count][bytes elem]* body shared by
// List and Set.
func decodeCollectionElems(elem ColumnType, b []byte) ([]interface{}, error) {
	r := newBodyReader(b)
	n := r.int4()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]interface{}, 0, n)
	for i := int32(0); i < n; i++ {
		raw, ok := r.bytes()
		if r.err != nil {
			return nil, r.err
		}
		if !ok {
			out = append(out, nil)
			continue
		}
		v, err := decodeValue(elem, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type mapEntry struct {
	Key   interface{}
	Value interface{}
}

func decodeMapElems(key, val ColumnType, b []byte) ([]mapEntry, error) {
	r := newBodyReader(b)
	n := r.int4()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]mapEntry, 0, n)
	for i := int32(0); i < n; i++ {
		kraw, ok := r.bytes()
		if r.err != nil {
			return nil, r.err
		}
		var k interface{}
		if ok {
			kv, err := decodeValue(key, kraw)
			if err != nil {
				return nil, err
			}
			k = kv
		}
		vraw, ok := r.bytes()
		if r.err != nil {
			return nil, r.err
		}
		var v interface{}
		if ok {
			vv, err := decodeValue(val, vraw)
			if err != nil {
				return nil, err
			}
			v = vv
		}
		out = append(out, mapEntry{Key: k, Value: v})
	}
	return out, nil
}

// encodeValue is the inverse of decodeValue, used to marshal bound query
// parameters into their [bytes] wire payload. A nil v encodes as the
// protocol null regardless of t.
func encodeValue(t ColumnType, v interface{}) ([]byte, bool, error) {
	if v == nil {
		return nil, false, nil
	}
	switch t.ID {
	case idAscii, idVarchar, idText:
		s, ok := v.(string)
		if !ok {
			return nil, false, errUsage("encode: %s requires string, got %T", t, v)
		}
		return []byte(s), true, nil
	case idBlob, idCustom:
		b, ok := v.([]byte)
		if !ok {
			return nil, false, errUsage("encode: %s requires []byte, got %T", t, v)
		}
		return b, true, nil
	case idBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, false, errUsage("encode: boolean requires bool, got %T", v)
		}
		if b {
			return []byte{1}, true, nil
		}
		return []byte{0}, true, nil
	case idInt:
		n, ok := v.(int32)
		if !ok {
			return nil, false, errUsage("encode: int requires int32, got %T", v)
		}
		w := newBodyWriter()
		w.int4(n)
		return w.bytesWritten(), true, nil
	case idBigint, idCounter:
		n, ok := v.(int64)
		if !ok {
			return nil, false, errUsage("encode: %s requires int64, got %T", t, v)
		}
		w := newBodyWriter()
		w.int8(n)
		return w.bytesWritten(), true, nil
	case idFloat:
		f, ok := v.(float32)
		if !ok {
			return nil, false, errUsage("encode: float requires float32, got %T", v)
		}
		w := newBodyWriter()
		w.float4(f)
		return w.bytesWritten(), true, nil
	case idDouble:
		f, ok := v.(float64)
		if !ok {
			return nil, false, errUsage("encode: double requires float64, got %T", v)
		}
		w := newBodyWriter()
		w.float8(f)
		return w.bytesWritten(), true, nil
	case idTimestamp:
		t0, ok := v.(time.Time)
		if !ok {
			return nil, false, errUsage("encode: timestamp requires time.Time, got %T", v)
		}
		w := newBodyWriter()
		w.int8(t0.UnixMilli())
		return w.bytesWritten(), true, nil
	case idUUID, idTimeUUID:
		id, ok := v.(uuid.UUID)
		if !ok {
			return nil, false, errUsage("encode: %s requires uuid.UUID, got %T", t, v)
		}
		return id[:], true, nil
	case idInet:
		ip, ok := v.(net.IP)
		if !ok {
			return nil, false, errUsage("encode: inet requires net.IP, got %T", v)
		}
		if v4 := ip.To4(); v4 != nil {
			return v4, true, nil
		}
		return ip.To16(), true, nil
	case idVarint:
		n, ok := v.(*big.Int)
		if !ok {
			return nil, false, errUsage("encode: varint requires *big.Int, got %T", v)
		}
		return encodeVarint(n), true, nil
	case idDecimal:
		d, ok := v.(Decimal)
		if !ok {
			return nil, false, errUsage("encode: decimal requires cql.Decimal, got %T", v)
		}
		return encodeDecimal(d), true, nil
	case idList, idSet:
		vs, ok := v.([]interface{})
		if !ok {
			return nil, false, errUsage("encode: %s requires []interface{}, got %T", t, v)
		}
		b, err := encodeCollectionElems(*t.Elem, vs)
		if err != nil {
			return nil, false, err
		}
		return b, true, nil
	case idMap:
		entries, ok := v.([]mapEntry)
		if !ok {
			return nil, false, errUsage("encode: map requires []mapEntry, got %T", v)
		}
		b, err := encodeMapElems(*t.Key, *t.Value, entries)
		if err != nil {
			return nil, false, err
		}
		return b, true, nil
	default:
		return nil, false, errUsage("encode: unsupported type %s", t)
	}
}

// encodeCollectionElems is the inverse of decodeCollectionElems: it writes
// the [int count]([bytes elem])* body shared by List and Set.
func encodeCollectionElems(elem ColumnType, vs []interface{}) ([]byte, error) {
	w := newBodyWriter()
	w.int4(int32(len(vs)))
	for _, v := range vs {
		b, ok, err := encodeValue(elem, v)
		if err != nil {
			return nil, err
		}
		w.bytes(b, ok)
	}
	return w.bytesWritten(), nil
}

// encodeMapElems is the inverse of decodeMapElems: it writes the
// [int count]([bytes key][bytes value])* body of a Map.
func encodeMapElems(key, val ColumnType, entries []mapEntry) ([]byte, error) {
	w := newBodyWriter()
	w.int4(int32(len(entries)))
	for _, e := range entries {
		kb, kok, err := encodeValue(key, e.Key)
		if err != nil {
			return nil, err
		}
		w.bytes(kb, kok)
		vb, vok, err := encodeValue(val, e.Value)
		if err != nil {
			return nil, err
		}
		w.bytes(vb, vok)
	}
	return w.bytesWritten(), nil
}
