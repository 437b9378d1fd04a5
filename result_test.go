package cql

import (
	"testing"
)

// newTestRowSet builds a RowSet over rows already encoded in the
// [bytes]* form Next expects, without going through a full RESULT frame.
func newTestRowSet(columns []ColumnSpec, rowCount int32, body []byte) *RowSet {
	sess := &Session{state: stateReady}
	rs := &RowSet{meta: MetaData{Columns: columns}, r: newBodyReader(body), rowCount: rowCount, sess: sess}
	sess.reserve(rs)
	return rs
}

func TestRowSetNextRaisesExhaustedPastLastRow(t *testing.T) {
	w := newBodyWriter()
	w.bytes([]byte{0, 0, 0, 1}, true) // row 1: int 1
	w.bytes([]byte{0, 0, 0, 2}, true) // row 2: int 2
	cols := []ColumnSpec{{Name: "n", Type: ColumnType{ID: idInt}}}
	rs := newTestRowSet(cols, 2, w.bytesWritten())

	if !rs.Next() {
		t.Fatalf("row 1: Next() = false, want true")
	}
	if !rs.Next() {
		t.Fatalf("row 2: Next() = false, want true")
	}
	if rs.Next() {
		t.Fatal("Next() past the last row = true, want false")
	}
	if !IsExhaustedError(rs.Err()) {
		t.Fatalf("Err() = %v, want ExhaustedError", rs.Err())
	}
}

func TestRowSetEmptyIsImmediatelyExhausted(t *testing.T) {
	rs := newTestRowSet(nil, 0, nil)
	if rs.Next() {
		t.Fatal("Next() on empty RowSet = true, want false")
	}
	if !IsExhaustedError(rs.Err()) {
		t.Fatalf("Err() = %v, want ExhaustedError", rs.Err())
	}
}

func TestRowSetCloseTreatsExhaustionAsSuccess(t *testing.T) {
	rs := newTestRowSet(nil, 0, nil)
	rs.Next()
	if err := rs.Close(); err != nil {
		t.Fatalf("Close() after exhaustion = %v, want nil", err)
	}
}

func TestRowSetExhaustionReleasesSession(t *testing.T) {
	rs := newTestRowSet(nil, 0, nil)
	rs.Next()
	if rs.sess.reservedRS != nil {
		t.Fatal("session still reserved after RowSet exhausted")
	}
}
