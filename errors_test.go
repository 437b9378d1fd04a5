package cql

import "testing"

func TestDecodeErrorUnavailable(t *testing.T) {
	w := newBodyWriter()
	w.int4(int32(codeUnavailable))
	w.string("not enough replicas")
	w.short(uint16(Quorum))
	w.int4(3)
	w.int4(1)

	err := decodeError(newBodyReader(w.bytesWritten()))
	ua, ok := err.(*Unavailable)
	if !ok {
		t.Fatalf("got %T, want *Unavailable", err)
	}
	if ua.Consistency != Quorum || ua.Required != 3 || ua.Alive != 1 {
		t.Fatalf("got %+v", ua)
	}
	if ua.Message != "not enough replicas" {
		t.Fatalf("got message %q", ua.Message)
	}
}

func TestDecodeErrorUnprepared(t *testing.T) {
	w := newBodyWriter()
	w.int4(int32(codeUnprepared))
	w.string("no such prepared statement")
	w.shortBytes([]byte{0xAB, 0xCD})

	err := decodeError(newBodyReader(w.bytesWritten()))
	up, ok := err.(*Unprepared)
	if !ok {
		t.Fatalf("got %T, want *Unprepared", err)
	}
	if len(up.UnknownID) != 2 || up.UnknownID[0] != 0xAB {
		t.Fatalf("got id %x", up.UnknownID)
	}
}

func TestDecodeErrorGenericServerError(t *testing.T) {
	w := newBodyWriter()
	w.int4(int32(codeServerError))
	w.string("boom")

	err := decodeError(newBodyReader(w.bytesWritten()))
	se, ok := err.(*ServerError)
	if !ok {
		t.Fatalf("got %T, want *ServerError", err)
	}
	if se.Message != "boom" {
		t.Fatalf("got message %q", se.Message)
	}
}

func TestWireFormatErrorHelpers(t *testing.T) {
	err := errWireFormat("short read: %d bytes", 3)
	if !IsWireFormatError(err) {
		t.Fatal("expected IsWireFormatError to report true")
	}
	if IsWireFormatError(errUsage("not a wire error")) {
		t.Fatal("expected IsWireFormatError to report false for UsageError")
	}
}

func TestValidateIdentifier(t *testing.T) {
	for _, name := range []string{"widgets", "Widgets_2", "a"} {
		if err := validateIdentifier(name); err != nil {
			t.Fatalf("validateIdentifier(%q): %v", name, err)
		}
	}
	for _, name := range []string{"", "bad-name", "bad name", `bad"name`, "bad;DROP TABLE x"} {
		err := validateIdentifier(name)
		if err == nil {
			t.Fatalf("validateIdentifier(%q): expected error", name)
		}
		if !IsInvalidArgumentError(err) {
			t.Fatalf("validateIdentifier(%q): got %T, want InvalidArgumentError", name, err)
		}
	}
}

func TestExhaustedErrorHelper(t *testing.T) {
	if !IsExhaustedError(errExhausted()) {
		t.Fatal("expected IsExhaustedError to report true")
	}
	if IsExhaustedError(errUsage("not exhausted")) {
		t.Fatal("expected IsExhaustedError to report false for UsageError")
	}
}
