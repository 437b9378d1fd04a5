package cql

import "go.uber.org/zap"

// Logger is the minimal structured-logging surface a Session calls into when
// its STARTUP handshake reaches READY and when an EVENT frame arrives on an
// unexpected stream id. It exists so
// this package never forces a logging library on a caller that doesn't want
// zap; ZapLogger adapts the library the rest of this module is built around.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// noopLogger is the default when DialOptions.Logger is nil.
type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{}) {}
func (noopLogger) Warnf(string, ...interface{})  {}
func (noopLogger) Errorf(string, ...interface{}) {}

// ZapLogger adapts a *zap.SugaredLogger to Logger.
type ZapLogger struct {
	S *zap.SugaredLogger
}

func NewZapLogger(s *zap.SugaredLogger) *ZapLogger { return &ZapLogger{S: s} }

func (z *ZapLogger) Debugf(format string, args ...interface{}) { z.S.Debugf(format, args...) }
func (z *ZapLogger) Warnf(format string, args ...interface{})  { z.S.Warnf(format, args...) }
func (z *ZapLogger) Errorf(format string, args ...interface{}) { z.S.Errorf(format, args...) }
