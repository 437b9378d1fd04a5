package cql

// query flags, v2 QUERY/EXECUTE body. This client documents them as a
// plain bitmask (not the ordinal-indexed enum some client libraries use)
// since that's what the wire actually carries.
const (
	flagValues              byte = 0x01
	flagSkipMetadata        byte = 0x02
	flagPageSize            byte = 0x04
	flagWithPagingState     byte = 0x08
	flagWithSerialConsistency byte = 0x10
)

// queryOptions carries the optional tail of a v2 QUERY/EXECUTE body. The
// zero value sends only the mandatory consistency level.
type queryOptions struct {
	Values            []interface{}
	ParamTypes        []ColumnType // required to encode Values; len must match
	PageSize          int32        // 0 means omitted
	PagingState       []byte       // nil means omitted
	SerialConsistency Consistency  // zero value (Any) means omitted
}

func (o queryOptions) flags() byte {
	var f byte
	if len(o.Values) > 0 {
		f |= flagValues
	}
	if o.PageSize > 0 {
		f |= flagPageSize
	}
	if o.PagingState != nil {
		f |= flagWithPagingState
	}
	if o.SerialConsistency.validSerial() {
		f |= flagWithSerialConsistency
	}
	return f
}

func encodeQueryOptionsTail(w *bodyWriter, o queryOptions) error {
	f := o.flags()
	w.byte1(f)
	if f&flagValues != 0 {
		if len(o.ParamTypes) != len(o.Values) {
			return errUsage("query: %d values but %d parameter types", len(o.Values), len(o.ParamTypes))
		}
		w.short(uint16(len(o.Values)))
		for i, v := range o.Values {
			raw, ok, err := encodeValue(o.ParamTypes[i], v)
			if err != nil {
				return err
			}
			w.bytes(raw, ok)
		}
	}
	if f&flagPageSize != 0 {
		w.int4(o.PageSize)
	}
	if f&flagWithPagingState != 0 {
		w.bytes(o.PagingState, true)
	}
	if f&flagWithSerialConsistency != 0 {
		w.short(uint16(o.SerialConsistency))
	}
	return nil
}

// buildQueryBodyV2 encodes a v2 QUERY body: [long string] query,
// [consistency], [query options tail].
func buildQueryBodyV2(query string, cl Consistency, o queryOptions) ([]byte, error) {
	w := newBodyWriter()
	w.longString(query)
	w.short(uint16(cl))
	if err := encodeQueryOptionsTail(w, o); err != nil {
		return nil, err
	}
	return w.bytesWritten(), nil
}

// buildQueryBodyV1 encodes a v1 QUERY body: [long string] query,
// [consistency]. v1 has no bound-value support in QUERY at all (only
// EXECUTE against a prepared statement accepts values), and no flags byte.
func buildQueryBodyV1(query string, cl Consistency) []byte {
	w := newBodyWriter()
	w.longString(query)
	w.short(uint16(cl))
	return w.bytesWritten()
}

// buildPrepareBody encodes a PREPARE body: [long string] query. Identical
// on v1 and v2.
func buildPrepareBody(query string) []byte {
	w := newBodyWriter()
	w.longString(query)
	return w.bytesWritten()
}

// buildExecuteBodyV2 encodes a v2 EXECUTE body: [short bytes] id,
// [consistency], [query options tail].
func buildExecuteBodyV2(id []byte, cl Consistency, o queryOptions) ([]byte, error) {
	w := newBodyWriter()
	w.shortBytes(id)
	w.short(uint16(cl))
	if err := encodeQueryOptionsTail(w, o); err != nil {
		return nil, err
	}
	return w.bytesWritten(), nil
}

// buildExecuteBodyV1 encodes a v1 EXECUTE body: [short bytes] id,
// [short] count, ([bytes] value)*, [consistency]. v1 puts the values
// immediately after the id with no flags byte and the consistency level
// last rather than first.
func buildExecuteBodyV1(id []byte, cl Consistency, o queryOptions) ([]byte, error) {
	if len(o.ParamTypes) != len(o.Values) {
		return nil, errUsage("execute: %d values but %d parameter types", len(o.Values), len(o.ParamTypes))
	}
	w := newBodyWriter()
	w.shortBytes(id)
	w.short(uint16(len(o.Values)))
	for i, v := range o.Values {
		raw, ok, err := encodeValue(o.ParamTypes[i], v)
		if err != nil {
			return nil, err
		}
		w.bytes(raw, ok)
	}
	w.short(uint16(cl))
	return w.bytesWritten(), nil
}

// buildStartupBody encodes a STARTUP body: a [string map] of options.
// CQL_VERSION is mandatory; COMPRESSION is included only when negotiated.
func buildStartupBody(compression Compression) []byte {
	opts := map[string]string{"CQL_VERSION": "3.0.0"}
	if compression != CompressionNone {
		opts["COMPRESSION"] = string(compression)
	}
	w := newBodyWriter()
	w.stringMap(opts)
	return w.bytesWritten()
}

// buildRegisterBody encodes a REGISTER body: a [string list] of event
// type names (TOPOLOGY_CHANGE, STATUS_CHANGE, SCHEMA_CHANGE).
func buildRegisterBody(eventTypes []string) []byte {
	w := newBodyWriter()
	w.stringList(eventTypes)
	return w.bytesWritten()
}
