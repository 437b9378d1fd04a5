package cql

import "time"

// Authenticator answers a SASL-style challenge during AUTHENTICATE. Name is
// the authenticator class name the server sent in the AUTHENTICATE frame
// (e.g. "org.apache.cassandra.auth.PasswordAuthenticator"); Challenge
// returns the bytes to place in the next AUTH_RESPONSE/CREDENTIALS body.
type Authenticator interface {
	Challenge(name string) ([]byte, error)
}

// PasswordAuthenticator implements Authenticator for Cassandra's built-in
// PasswordAuthenticator, which expects a single response of the form
// "\x00username\x00password".
type PasswordAuthenticator struct {
	Username string
	Password string
}

func (a PasswordAuthenticator) Challenge(string) ([]byte, error) {
	buf := make([]byte, 0, len(a.Username)+len(a.Password)+2)
	buf = append(buf, 0)
	buf = append(buf, a.Username...)
	buf = append(buf, 0)
	buf = append(buf, a.Password...)
	return buf, nil
}

// DialOptions configures Dial. The zero value dials protocol v2, no
// compression, no tracing, no authentication, and a no-op Logger.
type DialOptions struct {
	ProtocolVersion ProtocolVersion
	ConnectTimeout  time.Duration
	Compression     Compression
	Tracing         bool
	Authenticator   Authenticator
	Logger          Logger
}

func (o DialOptions) withDefaults() DialOptions {
	if o.ProtocolVersion == 0 {
		o.ProtocolVersion = ProtocolVersion2
	}
	if o.Logger == nil {
		o.Logger = noopLogger{}
	}
	return o
}
