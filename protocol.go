package cql

import "fmt"

// ProtocolVersion selects the opcode dialect, column-type table, and
// QUERY/EXECUTE body layout for a Session. It is a runtime property rather
// than a compile-time switch: a single binary can hold sessions of both
// versions at once.
type ProtocolVersion byte

const (
	ProtocolVersion1 ProtocolVersion = 1
	ProtocolVersion2 ProtocolVersion = 2
)

func (v ProtocolVersion) valid() bool {
	return v == ProtocolVersion1 || v == ProtocolVersion2
}

// direction bits of the frame header's version byte.
const (
	dirRequest  byte = 0x00
	dirResponse byte = 0x80
)

// opcode is the one-byte request/response discriminator in the frame
// header. Values 0x00..0x0C are shared between v1 and v2, except
// CREDENTIALS (0x04), which v2 drops; 0x0D..0x10 exist only in v2 (BATCH
// and the SASL-style auth exchange).
type opcode byte

const (
	opError        opcode = 0x00
	opStartup      opcode = 0x01
	opReady        opcode = 0x02
	opAuthenticate opcode = 0x03
	opCredentials  opcode = 0x04 // v1 only
	opOptions      opcode = 0x05
	opSupported    opcode = 0x06
	opQuery        opcode = 0x07
	opResult       opcode = 0x08
	opPrepare      opcode = 0x09
	opExecute      opcode = 0x0A
	opRegister     opcode = 0x0B
	opEvent        opcode = 0x0C
	opBatch        opcode = 0x0D // v2 only
	opAuthChallenge opcode = 0x0E // v2 only
	opAuthResponse  opcode = 0x0F // v2 only
	opAuthSuccess   opcode = 0x10 // v2 only
)

func (op opcode) validFor(v ProtocolVersion) bool {
	if op == opCredentials {
		return v == ProtocolVersion1
	}
	if op <= opEvent {
		return true
	}
	return v == ProtocolVersion2
}

func (op opcode) String() string {
	switch op {
	case opError:
		return "ERROR"
	case opStartup:
		return "STARTUP"
	case opReady:
		return "READY"
	case opAuthenticate:
		return "AUTHENTICATE"
	case opCredentials:
		return "CREDENTIALS"
	case opOptions:
		return "OPTIONS"
	case opSupported:
		return "SUPPORTED"
	case opQuery:
		return "QUERY"
	case opResult:
		return "RESULT"
	case opPrepare:
		return "PREPARE"
	case opExecute:
		return "EXECUTE"
	case opRegister:
		return "REGISTER"
	case opEvent:
		return "EVENT"
	case opBatch:
		return "BATCH"
	case opAuthChallenge:
		return "AUTH_CHALLENGE"
	case opAuthResponse:
		return "AUTH_RESPONSE"
	case opAuthSuccess:
		return "AUTH_SUCCESS"
	default:
		return fmt.Sprintf("opcode(0x%02X)", byte(op))
	}
}

// frame header flag bits.
const (
	flagCompressed byte = 0x01
	flagTracing    byte = 0x02
)

// eventStreamID is reserved by the protocol for server-pushed EVENT frames;
// it never appears as a client-assigned stream id.
const eventStreamID int8 = -1
