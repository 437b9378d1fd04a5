package cql

import (
	"encoding/binary"
	"math"
)

// bodyWriter assembles a frame body in memory. Unlike the frame header,
// whose length field must be known before anything is sent, a CQL frame body
// has no internal chunking: it is built up fully, then handed to the frame
// layer which stamps the final length and writes header+body in one shot.
type bodyWriter struct {
	buf []byte
}

func newBodyWriter() *bodyWriter {
	return &bodyWriter{buf: make([]byte, 0, 64)}
}

func (w *bodyWriter) bytesWritten() []byte {
	return w.buf
}

func (w *bodyWriter) raw(b []byte) {
	w.buf = append(w.buf, b...)
}

func (w *bodyWriter) byte1(v byte) {
	w.buf = append(w.buf, v)
}

func (w *bodyWriter) short(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.raw(b[:])
}

func (w *bodyWriter) int4(v int32) {
	w.uint4(uint32(v))
}

func (w *bodyWriter) uint4(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.raw(b[:])
}

func (w *bodyWriter) int8(v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	w.raw(b[:])
}

func (w *bodyWriter) float4(v float32) {
	w.uint4(math.Float32bits(v))
}

func (w *bodyWriter) float8(v float64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
	w.raw(b[:])
}

// [string]
func (w *bodyWriter) string(v string) {
	w.short(uint16(len(v)))
	w.raw([]byte(v))
}

// [long string]
func (w *bodyWriter) longString(v string) {
	w.int4(int32(len(v)))
	w.raw([]byte(v))
}

// [bytes]; ok=false writes the protocol null ([int]-1, no payload).
func (w *bodyWriter) bytes(v []byte, ok bool) {
	if !ok {
		w.int4(-1)
		return
	}
	w.int4(int32(len(v)))
	w.raw(v)
}

// [short bytes]
func (w *bodyWriter) shortBytes(v []byte) {
	w.short(uint16(len(v)))
	w.raw(v)
}

// [string list]
func (w *bodyWriter) stringList(v []string) {
	w.short(uint16(len(v)))
	for _, s := range v {
		w.string(s)
	}
}

// [string map]
func (w *bodyWriter) stringMap(v map[string]string) {
	w.short(uint16(len(v)))
	for k, val := range v {
		w.string(k)
		w.string(val)
	}
}

// [string multimap]
func (w *bodyWriter) stringMultimap(v map[string][]string) {
	w.short(uint16(len(v)))
	for k, vals := range v {
		w.string(k)
		w.stringList(vals)
	}
}
