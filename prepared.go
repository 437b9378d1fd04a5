package cql

// PreparedStatement is the result of Session.Prepare: a server-assigned id
// plus the bind-marker and result-column metadata needed to encode
// parameters for a later Execute. It is a plain value that any Session may
// pass to Execute, but its ID is scoped to the node that prepared it:
// executing it on a node that does not know the ID (or after the
// coordinator forgets it) fails with an Unprepared error, and the caller
// must prepare again.
type PreparedStatement struct {
	ID       []byte
	Params   MetaData
	Result   MetaData
	query    string
}

func decodePrepared(r *bodyReader) (*PreparedStatement, error) {
	id := r.shortBytes()
	params := decodeMetaData(r)
	var result MetaData
	if !r.atEnd() {
		result = decodeMetaData(r)
	}
	if r.err != nil {
		return nil, r.err
	}
	return &PreparedStatement{ID: id, Params: params, Result: result}, nil
}
