package cql

import "github.com/klauspost/compress/s2"

// Compression names the STARTUP option value negotiated for the
// COMPRESSION key, and the transform applied to frame bodies once
// negotiation succeeds.
type Compression string

const (
	CompressionNone   Compression = ""
	CompressionSnappy Compression = "snappy"
	CompressionLZ4    Compression = "lz4"
)

func (a Compression) valid() bool {
	switch a {
	case CompressionNone, CompressionSnappy, CompressionLZ4:
		return true
	default:
		return false
	}
}

// compress returns the on-wire encoding of body under algo. A Session never
// compresses its STARTUP frame (the algorithm isn't agreed yet), so algo is
// always the DialOptions.Compression value the server accepted in reply to
// STARTUP.
func compress(algo Compression, body []byte) ([]byte, error) {
	switch algo {
	case CompressionNone:
		return body, nil
	case CompressionSnappy:
		return s2.EncodeSnappy(nil, body), nil
	case CompressionLZ4:
		// lz4 negotiates (so STARTUP can advertise it against a server that
		// requires it) but this client never offers it unprompted and never
		// emits an lz4-compressed body; see decompress below for the
		// matching read-side gap.
		return nil, errWireFormat("lz4 compression is negotiated but not implemented for outgoing frames")
	default:
		return nil, errWireFormat("unknown compression algorithm %q", string(algo))
	}
}

// decompress reverses compress. It is only reached for a response frame
// whose header has the compressed flag set, which only happens once a
// Session has itself negotiated algo -- so an lz4 frame here means the
// server ignored a STARTUP that never should have offered it, or algo was
// set without the corresponding encoder being available.
func decompress(algo Compression, body []byte) ([]byte, error) {
	switch algo {
	case CompressionNone:
		return body, nil
	case CompressionSnappy:
		out, err := s2.Decode(nil, body)
		if err != nil {
			return nil, errWireFormat("snappy decompress: %v", err)
		}
		return out, nil
	case CompressionLZ4:
		return nil, errWireFormat("lz4 decompression is not implemented")
	default:
		return nil, errWireFormat("unknown compression algorithm %q", string(algo))
	}
}
