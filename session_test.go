package cql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestSession builds a Session around a fakeStream without going
// through Dial's TCP connect, so the startup handshake can be driven from
// pre-scripted response bytes.
func newTestSession(opts DialOptions, serverBytes []byte) (*Session, *fakeStream) {
	s := newFakeStream(serverBytes)
	opts = opts.withDefaults()
	sess := &Session{stream: s, opts: opts, logger: opts.Logger, state: stateNegotiating}
	return sess, s
}

func TestStartupReady(t *testing.T) {
	resp := rawFrame(ProtocolVersion2, 0, requestStreamID, opReady, nil)
	sess, _ := newTestSession(DialOptions{}, resp)
	require.NoError(t, sess.startup())
	require.Equal(t, stateReady, sess.state)
}

func TestStartupErrorReturnsServerError(t *testing.T) {
	w := newBodyWriter()
	w.int4(int32(codeServerError))
	w.string("unsupported version")
	resp := rawFrame(ProtocolVersion2, 0, requestStreamID, opError, w.bytesWritten())
	sess, _ := newTestSession(DialOptions{}, resp)

	err := sess.startup()
	require.Error(t, err)
	require.IsType(t, &ServerError{}, err)
}

func TestStartupAuthenticateWithPassword(t *testing.T) {
	w := newBodyWriter()
	w.string("org.apache.cassandra.auth.PasswordAuthenticator")
	authenticateResp := rawFrame(ProtocolVersion2, 0, requestStreamID, opAuthenticate, w.bytesWritten())
	successResp := rawFrame(ProtocolVersion2, 0, requestStreamID, opAuthSuccess, nil)

	sess, stream := newTestSession(DialOptions{
		Authenticator: PasswordAuthenticator{Username: "alice", Password: "secret"},
	}, append(authenticateResp, successResp...))

	require.NoError(t, sess.startup())
	require.Equal(t, stateReady, sess.state)
	require.NotZero(t, stream.out.Len(), "expected client to have written request frames")
}

func TestQueryRejectsWhileRowSetOpen(t *testing.T) {
	sess, _ := newTestSession(DialOptions{}, nil)
	sess.state = stateReady
	sess.reservedRS = &RowSet{}

	_, err := sess.Query(context.Background(), "SELECT * FROM t", One, nil)
	require.Error(t, err)
	require.IsType(t, &UsageError{}, err)
}

func TestQueryDecodesVoidResult(t *testing.T) {
	w := newBodyWriter()
	w.int4(int32(resultVoid))
	resp := rawFrame(ProtocolVersion2, 0, requestStreamID, opResult, w.bytesWritten())
	sess, _ := newTestSession(DialOptions{}, resp)
	sess.state = stateReady

	res, err := sess.Query(context.Background(), "INSERT INTO t (a) VALUES (1)", One, nil)
	require.NoError(t, err)
	require.Equal(t, resultVoid, res.Kind)
}

func TestOptionsDecodesSupportedMultimap(t *testing.T) {
	w := newBodyWriter()
	w.stringMultimap(map[string][]string{"COMPRESSION": {"snappy", "lz4"}, "CQL_VERSION": {"3.0.0"}})
	resp := rawFrame(ProtocolVersion2, 0, requestStreamID, opSupported, w.bytesWritten())
	sess, _ := newTestSession(DialOptions{}, resp)
	sess.state = stateReady

	got, err := sess.Options(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"snappy", "lz4"}, got["COMPRESSION"])
	require.Equal(t, []string{"3.0.0"}, got["CQL_VERSION"])
}

func TestUseKeyspaceRejectsInvalidIdentifier(t *testing.T) {
	sess, _ := newTestSession(DialOptions{}, nil)
	sess.state = stateReady

	err := sess.UseKeyspace(context.Background(), "bad-name; DROP KEYSPACE x")
	require.Error(t, err)
	require.IsType(t, &InvalidArgumentError{}, err)
}

func TestUseKeyspaceSkipsRoundTripWhenAlreadyCurrent(t *testing.T) {
	sess, stream := newTestSession(DialOptions{}, nil)
	sess.state = stateReady
	sess.usedKeyspace = "app"

	err := sess.UseKeyspace(context.Background(), "app")
	require.NoError(t, err)
	require.Zero(t, stream.out.Len(), "expected no request written for an already-current keyspace")
}

func TestUseKeyspaceUpdatesCacheOnSuccess(t *testing.T) {
	w := newBodyWriter()
	w.int4(int32(resultSetKeyspace))
	w.string("app")
	resp := rawFrame(ProtocolVersion2, 0, requestStreamID, opResult, w.bytesWritten())
	sess, _ := newTestSession(DialOptions{}, resp)
	sess.state = stateReady

	require.NoError(t, sess.UseKeyspace(context.Background(), "app"))
	require.Equal(t, "app", sess.usedKeyspace)
}
