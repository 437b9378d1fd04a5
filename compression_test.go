package cql

import (
	"bytes"
	"testing"
)

func TestSnappyCompressRoundTrip(t *testing.T) {
	body := bytes.Repeat([]byte("cql frame body "), 64)
	compressed, err := compress(CompressionSnappy, body)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(compressed, body) {
		t.Fatal("compressed output identical to input; compression did not run")
	}
	got, err := decompress(CompressionSnappy, compressed)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, body) {
		t.Fatal("decompressed body does not match original")
	}
}

func TestNoCompressionPassesThrough(t *testing.T) {
	body := []byte("uncompressed")
	out, err := compress(CompressionNone, body)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, body) {
		t.Fatal("CompressionNone must not modify the body")
	}
}

func TestLZ4NotImplemented(t *testing.T) {
	if _, err := compress(CompressionLZ4, []byte("x")); !IsWireFormatError(err) {
		t.Fatalf("expected WireFormatError for lz4 compress, got %v", err)
	}
	if _, err := decompress(CompressionLZ4, []byte("x")); !IsWireFormatError(err) {
		t.Fatalf("expected WireFormatError for lz4 decompress, got %v", err)
	}
}
