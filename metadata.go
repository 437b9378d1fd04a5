package cql

// flags on a RESULT Rows/Prepared metadata block.
const (
	metaGlobalTablesSpec uint32 = 0x0001
	metaHasMorePages     uint32 = 0x0002
	metaNoMetadata       uint32 = 0x0004
)

// ColumnSpec describes one column of a result set or a prepared statement's
// bind markers: its keyspace/table (omitted per-column when the
// global-tables-spec flag is set, in which case every ColumnSpec in the
// MetaData shares Keyspace/Table from the block header), its name, and its
// type.
type ColumnSpec struct {
	Keyspace string
	Table    string
	Name     string
	Type     ColumnType
}

// MetaData is the column/paging description at the head of a Rows result
// and of a Prepared result's two parameter/result blocks.
type MetaData struct {
	Columns     []ColumnSpec
	PagingState []byte // nil unless metaHasMorePages was set
}

// decodeMetaData reads a [metadata] block: flags, column count, a paging
// state when metaHasMorePages is set, optional global keyspace/table, then
// that many ColumnSpecs. When metaNoMetadata is set, no column specs follow
// and the returned MetaData has no Columns.
func decodeMetaData(r *bodyReader) MetaData {
	flags := r.uint4()
	count := r.int4()
	if r.err != nil {
		return MetaData{}
	}

	var pagingState []byte
	if flags&metaHasMorePages != 0 {
		b, ok := r.bytes()
		if ok {
			pagingState = b
		}
	}
	if flags&metaNoMetadata != 0 {
		return MetaData{PagingState: pagingState}
	}

	global := flags&metaGlobalTablesSpec != 0
	var globalKS, globalTable string
	if global {
		globalKS = r.string()
		globalTable = r.string()
	}

	cols := make([]ColumnSpec, count)
	for i := range cols {
		ks, table := globalKS, globalTable
		if !global {
			ks = r.string()
			table = r.string()
		}
		name := r.string()
		typ := decodeOption(r)
		cols[i] = ColumnSpec{Keyspace: ks, Table: table, Name: name, Type: typ}
	}
	return MetaData{Columns: cols, PagingState: pagingState}
}
