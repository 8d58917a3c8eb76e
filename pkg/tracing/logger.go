package tracing

import (
	"go.uber.org/zap"
)

// log adapts the sugared logger to jaeger.Logger
type log struct {
	l *zap.SugaredLogger
}

// Error implements error reporter required by jaeger client
func (l *log) Error(msg string) {
	if l.l == nil {
		return
	}
	l.l.Error(msg)
}

// Infof logs a message at info priority. Required by jaeger client
func (l *log) Infof(msg string, args ...interface{}) {
	if l.l == nil {
		return
	}
	l.l.Infof(msg, args...)
}
