package report

import "go.uber.org/zap"

// Reporter receives the probe's diagnostic stream. The attempt loop and the
// executor talk to it; exit codes do not depend on it.
type Reporter interface {
	Info(msg string, fields ...zap.Field)
	Verbose(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Fail(msg string, fields ...zap.Field)
}

type zapReporter struct {
	l *zap.Logger
}

func NewZap(l *zap.Logger) Reporter {
	return &zapReporter{l: l}
}

func (r *zapReporter) Info(msg string, fields ...zap.Field)    { r.l.Info(msg, fields...) }
func (r *zapReporter) Verbose(msg string, fields ...zap.Field) { r.l.Debug(msg, fields...) }
func (r *zapReporter) Warn(msg string, fields ...zap.Field)    { r.l.Warn(msg, fields...) }
func (r *zapReporter) Fail(msg string, fields ...zap.Field)    { r.l.Error(msg, fields...) }

// Nop discards everything; used in tests.
type Nop struct{}

func (Nop) Info(string, ...zap.Field)    {}
func (Nop) Verbose(string, ...zap.Field) {}
func (Nop) Warn(string, ...zap.Field)    {}
func (Nop) Fail(string, ...zap.Field)    {}
