package cql

import "reflect"

// resultKind is the [int] at the head of a RESULT frame body, naming which
// of the five shapes follows.
type resultKind int32

const (
	resultVoid         resultKind = 0x0001
	resultRows         resultKind = 0x0002
	resultSetKeyspace  resultKind = 0x0003
	resultPrepared     resultKind = 0x0004
	resultSchemaChange resultKind = 0x0005
)

// SchemaChangeEvent describes a RESULT(SchemaChange) body, also reused for
// the payload of a server-pushed SCHEMA_CHANGE EVENT.
type SchemaChangeEvent struct {
	Change   string // CREATED, UPDATED, DROPPED
	Keyspace string
	Table    string // empty for a keyspace-level change
}

// Result is the decoded response to a successful QUERY/EXECUTE/PREPARE.
// Exactly one of its fields besides Kind is meaningful, selected by Kind;
// Rows is nil unless Kind == resultRows, in which case the caller must
// eventually call Rows.Close.
type Result struct {
	Kind         resultKind
	SetKeyspace  string
	Prepared     *PreparedStatement
	SchemaChange *SchemaChangeEvent
	Rows         *RowSet
}

func decodeResult(sess *Session, r *bodyReader) (*Result, error) {
	kind := resultKind(r.int4())
	if r.err != nil {
		return nil, r.err
	}
	switch kind {
	case resultVoid:
		return &Result{Kind: kind}, nil
	case resultSetKeyspace:
		ks := r.string()
		if r.err != nil {
			return nil, r.err
		}
		return &Result{Kind: kind, SetKeyspace: ks}, nil
	case resultPrepared:
		ps, err := decodePrepared(r)
		if err != nil {
			return nil, err
		}
		return &Result{Kind: kind, Prepared: ps}, nil
	case resultSchemaChange:
		sc, err := decodeSchemaChange(r)
		if err != nil {
			return nil, err
		}
		return &Result{Kind: kind, SchemaChange: sc}, nil
	case resultRows:
		meta := decodeMetaData(r)
		count := r.int4()
		if r.err != nil {
			return nil, r.err
		}
		rs := &RowSet{meta: meta, r: r, rowCount: count, sess: sess}
		sess.reserve(rs)
		return &Result{Kind: kind, Rows: rs}, nil
	default:
		return nil, errWireFormat("result: unknown kind 0x%08X", uint32(kind))
	}
}

func decodeSchemaChange(r *bodyReader) (*SchemaChangeEvent, error) {
	change := r.string()
	ks := r.string()
	table := r.string()
	if r.err != nil {
		return nil, r.err
	}
	return &SchemaChangeEvent{Change: change, Keyspace: ks, Table: table}, nil
}

// RowSet is a lazy iterator over a Rows result. Rows are decoded one at a
// time from the already-buffered frame body as Next is called; nothing more
// is read from the wire. While a RowSet is open, the Session that produced
// it is reserved: issuing another request on the same Session before
// Close-ing or fully draining the RowSet is a usage error, matching the
// protocol's single-request-in-flight-per-stream-id discipline this client
// adopts for simplicity.
type RowSet struct {
	meta     MetaData
	r        *bodyReader
	rowCount int32
	rowsRead int32
	sess     *Session
	closed   bool
	cur      []interface{}
	err      error
}

// Columns reports the column metadata for this result set.
func (rs *RowSet) Columns() []ColumnSpec { return rs.meta.Columns }

// Next decodes the next row, if any, into the RowSet's current-row buffer
// for Scan. It returns false at end of the result set or on the first
// decode error, which Err then reports. Calling Next one past the last row
// returns false and sets Err to an ExhaustedError, distinguishing "ran out
// of rows" from "Next hasn't been called yet".
func (rs *RowSet) Next() bool {
	if rs.err != nil {
		return false
	}
	if rs.rowsRead >= rs.rowCount {
		rs.err = errExhausted()
		rs.release()
		return false
	}
	row := make([]interface{}, len(rs.meta.Columns))
	for i, col := range rs.meta.Columns {
		raw, ok := rs.r.bytes()
		if rs.r.err != nil {
			rs.err = rs.r.err
			return false
		}
		if !ok {
			row[i] = nil
			continue
		}
		v, err := decodeValue(col.Type, raw)
		if err != nil {
			rs.err = err
			return false
		}
		row[i] = v
	}
	rs.cur = row
	rs.rowsRead++
	return true
}

// Err reports the first error encountered decoding rows, or an
// ExhaustedError once the result set has been read past its last row.
func (rs *RowSet) Err() error { return rs.err }

// Scan copies the current row's columns into dest, which must contain one
// addressable pointer per column of a type assignable from that column's
// decoded Go value, or a pointer to such a type. A nil column sets the
// corresponding *dest to its zero value (nil for a pointer destination);
// callers that need to distinguish "null" from "zero value" should scan
// into a pointer type (e.g. a **string) and check for nil.
func (rs *RowSet) Scan(dest ...interface{}) error {
	if rs.cur == nil {
		return errUsage("Scan called before Next or after end of rows")
	}
	if len(dest) != len(rs.cur) {
		return errUsage("Scan: %d destinations for %d columns", len(dest), len(rs.cur))
	}
	for i, v := range rs.cur {
		target := reflect.ValueOf(dest[i])
		if target.Kind() != reflect.Ptr || target.IsNil() {
			return errUsage("Scan: destination %d is not a non-nil pointer", i)
		}
		elem := target.Elem()
		if v == nil {
			elem.Set(reflect.Zero(elem.Type()))
			continue
		}
		val := reflect.ValueOf(v)
		if elem.Kind() == reflect.Ptr && val.Type().AssignableTo(elem.Type().Elem()) {
			p := reflect.New(elem.Type().Elem())
			p.Elem().Set(val)
			elem.Set(p)
			continue
		}
		if !val.Type().AssignableTo(elem.Type()) {
			return errUsage("Scan: column %d is %s, destination is %s", i, val.Type(), elem.Type())
		}
		elem.Set(val)
	}
	return nil
}

// Close releases the Session reservation held by this RowSet. Calling
// Close after the RowSet is already exhausted or closed is a no-op, so
// callers can unconditionally `defer rows.Close()`. Running past the last
// row is the expected way a RowSet becomes exhausted, so Close reports that
// case as success; any other decode error is returned.
func (rs *RowSet) Close() error {
	rs.release()
	if IsExhaustedError(rs.err) {
		return nil
	}
	return rs.err
}

func (rs *RowSet) release() {
	if rs.closed {
		return
	}
	rs.closed = true
	rs.r.drain()
	rs.sess.release(rs)
}
