package cql

import "fmt"

// header is the decoded frame header. The wire layout differs slightly
// between v1 and v2 (stream id is a signed byte in both, but v2 reserves
// more flag bits), so header carries the negotiated version to interpret
// itself correctly rather than duplicating parse logic per version.
type header struct {
	version  ProtocolVersion
	response bool
	flags    byte
	stream   int8
	op       opcode
	length   uint32
}

func (h header) compressed() bool { return h.flags&flagCompressed != 0 }
func (h header) traced() bool     { return h.flags&flagTracing != 0 }

// readFrame reads one complete frame from s: the 8-byte header plus exactly
// length bytes of body, decompressing the body if the header's compressed
// flag is set. It never returns a partially filled body -- any short read or
// malformed header surfaces as a WireFormatError and the caller must
// consider the Stream dead.
func readFrame(s Stream, version ProtocolVersion, algo Compression) (header, []byte, error) {
	var raw [8]byte
	if err := s.ReadFull(raw[:]); err != nil {
		return header{}, nil, err
	}

	versionByte := raw[0]
	response := versionByte&dirResponse != 0
	wireVersion := ProtocolVersion(versionByte &^ dirResponse)
	if !response {
		return header{}, nil, errWireFormat("frame header: expected response direction bit, got request")
	}
	if wireVersion != version {
		return header{}, nil, errWireFormat("frame header: version mismatch: negotiated %d, got %d", version, wireVersion)
	}

	h := header{
		version:  wireVersion,
		response: response,
		flags:    raw[1],
		stream:   int8(raw[2]),
		op:       opcode(raw[3]),
		length:   uint32(raw[4])<<24 | uint32(raw[5])<<16 | uint32(raw[6])<<8 | uint32(raw[7]),
	}
	if !h.op.validFor(version) {
		return header{}, nil, errWireFormat("frame header: opcode %s invalid for protocol v%d", h.op, version)
	}

	body := make([]byte, h.length)
	if h.length > 0 {
		if err := s.ReadFull(body); err != nil {
			return header{}, nil, err
		}
	}
	if h.compressed() {
		plain, err := decompress(algo, body)
		if err != nil {
			return header{}, nil, err
		}
		body = plain
	}
	return h, body, nil
}

// writeFrame assembles and writes a complete request frame: header followed
// by body, compressing body first when algo is not CompressionNone. The
// STARTUP frame is always sent with algo == CompressionNone, since
// compression isn't agreed until STARTUP's reply.
func writeFrame(s Stream, version ProtocolVersion, stream int8, op opcode, flags byte, algo Compression, body []byte) error {
	if algo != CompressionNone {
		compressed, err := compress(algo, body)
		if err != nil {
			return err
		}
		body = compressed
		flags |= flagCompressed
	}
	if int64(len(body)) >= 1<<31 {
		return errUsage("frame body of %d bytes exceeds the 2^31-1 byte limit", len(body))
	}

	out := make([]byte, 8+len(body))
	out[0] = byte(version) &^ dirResponse
	out[1] = flags
	out[2] = byte(stream)
	out[3] = byte(op)
	out[4] = byte(len(body) >> 24)
	out[5] = byte(len(body) >> 16)
	out[6] = byte(len(body) >> 8)
	out[7] = byte(len(body))
	copy(out[8:], body)

	if err := s.WriteAll(out); err != nil {
		return err
	}
	return nil
}

func (h header) String() string {
	return fmt.Sprintf("%s stream=%d len=%d", h.op, h.stream, h.length)
}
