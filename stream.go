package cql

import (
	"crypto/tls"
	"io"
	"net"
	"time"
)

// Stream is the minimal byte-oriented duplex interface the frame layer
// needs: a length-known read, a full write, a close, and a connectedness
// query. It exists so the codec in this package never depends on net.Conn
// directly -- the transport is an external collaborator.
type Stream interface {
	ReadFull(buf []byte) error
	WriteAll(buf []byte) error
	Close() error
	Connected() bool
}

// TCPStream is the default Stream, wrapping a net.Conn. It enables TCP
// keepalive the way the teacher's Dial does for its replication connection,
// since a CQL session is similarly long-lived and benefits from detecting a
// half-open peer.
type TCPStream struct {
	conn   net.Conn
	closed bool
}

// DialTCP opens a TCP connection to address, applying connectTimeout if
// positive.
func DialTCP(address string, connectTimeout time.Duration) (*TCPStream, error) {
	dialer := net.Dialer{Timeout: connectTimeout}
	conn, err := dialer.Dial("tcp", address)
	if err != nil {
		return nil, err
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		if err := tc.SetKeepAlive(true); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}
	return &TCPStream{conn: conn}, nil
}

func (s *TCPStream) ReadFull(buf []byte) error {
	_, err := io.ReadFull(s.conn, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errWireFormat("short read: %v", err)
	}
	return err
}

func (s *TCPStream) WriteAll(buf []byte) error {
	_, err := s.conn.Write(buf)
	return err
}

func (s *TCPStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}

func (s *TCPStream) Connected() bool {
	return !s.closed
}

// SetDeadline applies a request-level deadline to the underlying net.Conn,
// per the concurrency model's requirement that timeouts wrap the whole
// request/response cycle rather than individual reads.
func (s *TCPStream) SetDeadline(t time.Time) error {
	return s.conn.SetDeadline(t)
}

// UpgradeTLS wraps the stream's connection in a TLS client, mirroring the
// teacher's opportunistic SSL upgrade (conn.go's upgradeSSL): CQL has no
// server-advertised "supports TLS" capability bit the way MySQL's CLIENT_SSL
// flag does, so the decision to upgrade is entirely the caller's. Dial does
// not call UpgradeTLS, and DialOptions has no TLS setting.
func (s *TCPStream) UpgradeTLS(cfg *tls.Config) {
	s.conn = tls.Client(s.conn, cfg)
}
