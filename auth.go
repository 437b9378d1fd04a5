package cql

// authenticate drives the AUTHENTICATE response to completion. authName is
// the authenticator class name the server sent; it is handed to the
// configured Authenticator so a single Authenticator implementation can
// branch on it if it needs to.
//
// v1 speaks a single round: CREDENTIALS carrying a [string map], answered
// with either READY or ERROR. v2 speaks a SASL-style exchange: AUTH_RESPONSE
// carrying [bytes], answered with AUTH_CHALLENGE (another round, same
// shape) or AUTH_SUCCESS (done, with an optional final token this client
// ignores) or ERROR.
func (s *Session) authenticate(authName string) error {
	if s.opts.Authenticator == nil {
		return errUsage("server requires authentication (%s) but no Authenticator was configured", authName)
	}

	token, err := s.opts.Authenticator.Challenge(authName)
	if err != nil {
		return err
	}

	if s.opts.ProtocolVersion == ProtocolVersion1 {
		body := encodeCredentials(token)
		h, respBody, err := s.roundTrip(opCredentials, body)
		if err != nil {
			return err
		}
		switch h.op {
		case opReady:
			return nil
		case opError:
			return decodeError(newBodyReader(respBody))
		default:
			return errWireFormat("authenticate: unexpected response opcode %s", h.op)
		}
	}

AuthExchange:
	for {
		w := newBodyWriter()
		w.bytes(token, true)
		h, respBody, err := s.roundTrip(opAuthResponse, w.bytesWritten())
		if err != nil {
			return err
		}
		switch h.op {
		case opAuthSuccess:
			break AuthExchange
		case opAuthChallenge:
			r := newBodyReader(respBody)
			challenge, _ := r.bytes()
			if r.err != nil {
				return r.err
			}
			token, err = s.opts.Authenticator.Challenge(authName)
			_ = challenge // this client's Authenticator is stateless across rounds
			if err != nil {
				return err
			}
		case opError:
			return decodeError(newBodyReader(respBody))
		default:
			return errWireFormat("authenticate: unexpected response opcode %s", h.op)
		}
	}
	return nil
}

// encodeCredentials builds a v1 CREDENTIALS body. token is expected to be
// the same "\x00user\x00pass" shape PasswordAuthenticator produces; v1 has
// no generic SASL token concept, so it is unpacked back into the
// credentials string map the wire format actually wants.
func encodeCredentials(token []byte) []byte {
	user, pass := splitPasswordToken(token)
	w := newBodyWriter()
	w.stringMap(map[string]string{"username": user, "password": pass})
	return w.bytesWritten()
}

func splitPasswordToken(token []byte) (user, pass string) {
	if len(token) == 0 || token[0] != 0 {
		return "", string(token)
	}
	rest := token[1:]
	for i, b := range rest {
		if b == 0 {
			return string(rest[:i]), string(rest[i+1:])
		}
	}
	return string(rest), ""
}
