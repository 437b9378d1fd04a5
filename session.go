package cql

import (
	"context"
	"time"
)

// sessionState tracks where a Session sits in the protocol's connection
// lifecycle. Every state transition is one-directional; Closed is terminal.
type sessionState int32

const (
	stateFresh sessionState = iota
	stateNegotiating
	stateAuthenticating
	stateReady
	stateClosed
)

func (s sessionState) String() string {
	switch s {
	case stateFresh:
		return "fresh"
	case stateNegotiating:
		return "negotiating"
	case stateAuthenticating:
		return "authenticating"
	case stateReady:
		return "ready"
	case stateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// requestStreamID is the only stream id this client ever assigns: it issues
// one request at a time per Session and waits for the matching response, so
// there is no need to multiplex stream ids the way a pipelining client
// would. -1 is reserved by the protocol for server-pushed EVENT frames and
// is never used here.
const requestStreamID int8 = 0

// Session is a single negotiated connection to a CQL node. It is not safe
// for concurrent use: issuing a second request while a RowSet from an
// earlier one is still open is a UsageError, matching the one
// request-in-flight-at-a-time model above.
type Session struct {
	stream       Stream
	opts         DialOptions
	state        sessionState
	compression  Compression // active only once STARTUP succeeds
	reservedRS   *RowSet
	logger       Logger
	usedKeyspace string // cache of the last keyspace UseKeyspace switched to
}

// Dial opens a TCP connection to address and completes the STARTUP
// (and, if required, AUTHENTICATE) handshake. The returned Session is in
// stateReady on success.
func Dial(address string, opts DialOptions) (*Session, error) {
	opts = opts.withDefaults()
	if !opts.ProtocolVersion.valid() {
		return nil, errUsage("unsupported protocol version %d", opts.ProtocolVersion)
	}
	if opts.Compression != CompressionNone && !opts.Compression.valid() {
		return nil, errUsage("unsupported compression %q", string(opts.Compression))
	}

	tcp, err := DialTCP(address, opts.ConnectTimeout)
	if err != nil {
		return nil, err
	}

	sess := &Session{stream: tcp, opts: opts, logger: opts.Logger, state: stateNegotiating}
	if err := sess.startup(); err != nil {
		_ = tcp.Close()
		sess.state = stateClosed
		return nil, err
	}
	return sess, nil
}

func (s *Session) startup() error {
	body := buildStartupBody(s.opts.Compression)
	if err := writeFrame(s.stream, s.opts.ProtocolVersion, requestStreamID, opStartup, s.frameFlags(), CompressionNone, body); err != nil {
		return err
	}
	h, respBody, err := readFrame(s.stream, s.opts.ProtocolVersion, CompressionNone)
	if err != nil {
		return err
	}

	switch h.op {
	case opReady:
		s.compression = s.opts.Compression
		s.state = stateReady
		s.logger.Debugf("cql: session ready (v%d, compression=%q)", s.opts.ProtocolVersion, string(s.compression))
		return nil
	case opAuthenticate:
		r := newBodyReader(respBody)
		authName := r.string()
		if r.err != nil {
			return r.err
		}
		s.state = stateAuthenticating
		if err := s.authenticate(authName); err != nil {
			return err
		}
		s.compression = s.opts.Compression
		s.state = stateReady
		return nil
	case opError:
		return decodeError(newBodyReader(respBody))
	default:
		return errWireFormat("startup: unexpected response opcode %s", h.op)
	}
}

func (s *Session) frameFlags() byte {
	var f byte
	if s.opts.Tracing {
		f |= flagTracing
	}
	return f
}

// roundTrip writes one request frame and reads its response, applying the
// Session's negotiated compression. STARTUP is written by startup directly,
// uncompressed; the AUTHENTICATE exchange that follows it does go through
// roundTrip, and also runs uncompressed because s.compression is only set
// once the handshake has completed.
func (s *Session) roundTrip(op opcode, body []byte) (header, []byte, error) {
	if err := writeFrame(s.stream, s.opts.ProtocolVersion, requestStreamID, op, s.frameFlags(), s.compression, body); err != nil {
		s.fail()
		return header{}, nil, err
	}
	h, respBody, err := readFrame(s.stream, s.opts.ProtocolVersion, s.compression)
	if err != nil {
		s.fail()
		return header{}, nil, err
	}
	return h, respBody, nil
}

// fail transitions the Session to Closed after a frame could not be written
// or read (a WireFormatError or a transport error): the byte stream can no
// longer be trusted once framing has gone wrong. Errors raised while
// decoding an already-read body do not call it.
func (s *Session) fail() {
	s.state = stateClosed
	_ = s.stream.Close()
}

func (s *Session) checkAvailable() error {
	if s.state != stateReady {
		return errUsage("session is %s, not ready", s.state)
	}
	if s.reservedRS != nil {
		return errUsage("a RowSet from a previous request is still open; Close or exhaust it first")
	}
	return nil
}

func (s *Session) reserve(rs *RowSet) { s.reservedRS = rs }

func (s *Session) release(rs *RowSet) {
	if s.reservedRS == rs {
		s.reservedRS = nil
	}
}

// withDeadline applies ctx's deadline, if any, to the underlying stream for
// the duration of one request/response cycle.
func (s *Session) withDeadline(ctx context.Context) error {
	type deadliner interface{ SetDeadline(time.Time) error }
	d, ok := s.stream.(deadliner)
	if !ok {
		return nil
	}
	if dl, has := ctx.Deadline(); has {
		return d.SetDeadline(dl)
	}
	return d.SetDeadline(time.Time{})
}

// Query executes a non-prepared CQL statement with positional bound values.
// paramTypes must describe each value in values, in order; pass nil for
// both when the statement has no bind markers.
func (s *Session) Query(ctx context.Context, query string, cl Consistency, paramTypes []ColumnType, values ...interface{}) (*Result, error) {
	if err := s.checkAvailable(); err != nil {
		return nil, err
	}
	if err := s.withDeadline(ctx); err != nil {
		return nil, err
	}

	var body []byte
	var err error
	if s.opts.ProtocolVersion == ProtocolVersion1 {
		if len(values) > 0 {
			return nil, errUsage("protocol v1 QUERY does not support bound values; Prepare+Execute instead")
		}
		body = buildQueryBodyV1(query, cl)
	} else {
		body, err = buildQueryBodyV2(query, cl, queryOptions{Values: values, ParamTypes: paramTypes})
		if err != nil {
			return nil, err
		}
	}

	h, respBody, err := s.roundTrip(opQuery, body)
	if err != nil {
		return nil, err
	}
	return s.decodeResultFrame(h, respBody)
}

// Prepare registers query with the coordinator and returns a
// PreparedStatement for later repeated Execute calls.
func (s *Session) Prepare(ctx context.Context, query string) (*PreparedStatement, error) {
	if err := s.checkAvailable(); err != nil {
		return nil, err
	}
	if err := s.withDeadline(ctx); err != nil {
		return nil, err
	}
	h, respBody, err := s.roundTrip(opPrepare, buildPrepareBody(query))
	if err != nil {
		return nil, err
	}
	res, err := s.decodeResultFrame(h, respBody)
	if err != nil {
		return nil, err
	}
	if res.Kind != resultPrepared {
		return nil, errWireFormat("prepare: unexpected result kind 0x%08X", uint32(res.Kind))
	}
	res.Prepared.query = query
	return res.Prepared, nil
}

// Execute runs a previously Prepared statement with positional bound
// values, which must match ps.Params.Columns in count and type.
func (s *Session) Execute(ctx context.Context, ps *PreparedStatement, cl Consistency, values ...interface{}) (*Result, error) {
	if err := s.checkAvailable(); err != nil {
		return nil, err
	}
	if err := s.withDeadline(ctx); err != nil {
		return nil, err
	}
	paramTypes := make([]ColumnType, len(ps.Params.Columns))
	for i, c := range ps.Params.Columns {
		paramTypes[i] = c.Type
	}

	var body []byte
	var err error
	if s.opts.ProtocolVersion == ProtocolVersion1 {
		body, err = buildExecuteBodyV1(ps.ID, cl, queryOptions{Values: values, ParamTypes: paramTypes})
	} else {
		body, err = buildExecuteBodyV2(ps.ID, cl, queryOptions{Values: values, ParamTypes: paramTypes})
	}
	if err != nil {
		return nil, err
	}

	h, respBody, err := s.roundTrip(opExecute, body)
	if err != nil {
		return nil, err
	}
	return s.decodeResultFrame(h, respBody)
}

func (s *Session) decodeResultFrame(h header, body []byte) (*Result, error) {
	switch h.op {
	case opResult:
		return decodeResult(s, newBodyReader(body))
	case opError:
		return nil, decodeError(newBodyReader(body))
	default:
		return nil, errWireFormat("unexpected response opcode %s", h.op)
	}
}

// UseKeyspace switches the Session's current keyspace, equivalent to
// running "USE <name>" and discarding the RESULT(SetKeyspace) body. It is a
// no-op if name is already the cached used_keyspace -- the spec's
// compare-then-skip rule, so repeated UseKeyspace calls with the same name
// cost no round trip after the first.
func (s *Session) UseKeyspace(ctx context.Context, name string) error {
	if err := validateIdentifier(name); err != nil {
		return err
	}
	if s.usedKeyspace == name {
		return nil
	}
	res, err := s.Query(ctx, "USE "+quoteIdentifier(name), Any, nil)
	if err != nil {
		return err
	}
	if res.Kind != resultSetKeyspace {
		return errWireFormat("USE: unexpected result kind 0x%08X", uint32(res.Kind))
	}
	s.usedKeyspace = name
	return nil
}

func quoteIdentifier(name string) string {
	return `"` + name + `"`
}

// Options asks the server which STARTUP options it supports (compression
// algorithms, CQL versions), per §4.E. It may be called at any time a
// Session is ready; like every other request, it is rejected while a
// RowSet from an earlier request is still open.
func (s *Session) Options(ctx context.Context) (map[string][]string, error) {
	if err := s.checkAvailable(); err != nil {
		return nil, err
	}
	if err := s.withDeadline(ctx); err != nil {
		return nil, err
	}
	h, respBody, err := s.roundTrip(opOptions, nil)
	if err != nil {
		return nil, err
	}
	switch h.op {
	case opSupported:
		r := newBodyReader(respBody)
		supported := r.stringMultimap()
		if r.err != nil {
			return nil, r.err
		}
		return supported, nil
	case opError:
		return nil, decodeError(newBodyReader(respBody))
	default:
		return nil, errWireFormat("options: unexpected response opcode %s", h.op)
	}
}

// Close releases the underlying connection. It is safe to call more than
// once.
func (s *Session) Close() error {
	if s.state == stateClosed {
		return nil
	}
	s.state = stateClosed
	return s.stream.Close()
}
