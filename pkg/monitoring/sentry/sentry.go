// Package sentry forwards warn and error log entries to sentry through a zapcore.Core
package sentry

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
)

const flushTimeout = 2 * time.Second

// Config holds sentry config
type Config struct {
	AppName    string
	DSN        string
	Mock       bool
	ErrorLevel int8
}

type core struct {
	zapcore.LevelEnabler

	env     string
	appName string
	fields  map[string]interface{}
	capture func(*sentry.Event)
}

// InitSentry initializes the sentry client and returns a core to be teed into the logger.
// With Mock set, or no config at all, a no-op core is returned and sentry is never contacted.
func InitSentry(conf *Config, env string) (zapcore.Core, error) {
	if conf == nil || conf.Mock {
		return zapcore.NewNopCore(), nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         conf.DSN,
		Environment: env,
		ServerName:  conf.AppName,
	})
	if err != nil {
		return nil, errors.Wrap(err, "sentry initialization failed")
	}

	return newCore(zapcore.Level(conf.ErrorLevel), env, conf.AppName, captureEvent), nil
}

func captureEvent(event *sentry.Event) {
	sentry.CaptureEvent(event)
}

func newCore(level zapcore.Level, env, appName string, capture func(*sentry.Event)) *core {
	return &core{
		LevelEnabler: level,
		env:          env,
		appName:      appName,
		fields:       make(map[string]interface{}),
		capture:      capture,
	}
}

// Write sends the entry to sentry; call site and accumulated fields go into extra
func (c *core) Write(entry zapcore.Entry, fs []zapcore.Field) error {
	extra := make(map[string]interface{}, len(c.fields)+len(fs)+1)
	for k, v := range c.fields {
		extra[k] = v
	}
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fs {
		f.AddTo(enc)
	}
	for k, v := range enc.Fields {
		extra[k] = v
	}
	extra["caller"] = entry.Caller.String()

	c.capture(&sentry.Event{
		ServerName:  c.appName,
		Environment: c.env,
		Level:       sentryLevel(entry.Level),
		Message:     entry.Message,
		Logger:      entry.LoggerName,
		Transaction: entry.Stack,
		Extra:       extra,
	})
	return nil
}

func (c *core) With(fs []zapcore.Field) zapcore.Core {
	return c.with(fs)
}

func (c *core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) && zapcore.WarnLevel.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *core) Sync() error {
	sentry.Flush(flushTimeout)
	return nil
}

func (c *core) with(fs []zapcore.Field) *core {
	m := make(map[string]interface{}, len(c.fields)+len(fs))
	for k, v := range c.fields {
		m[k] = v
	}

	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fs {
		f.AddTo(enc)
	}
	for k, v := range enc.Fields {
		m[k] = v
	}

	return &core{
		LevelEnabler: c.LevelEnabler,
		env:          c.env,
		appName:      c.appName,
		fields:       m,
		capture:      c.capture,
	}
}

func sentryLevel(l zapcore.Level) sentry.Level {
	switch l {
	case zapcore.DebugLevel:
		return sentry.LevelDebug
	case zapcore.InfoLevel:
		return sentry.LevelInfo
	case zapcore.WarnLevel:
		return sentry.LevelWarning
	case zapcore.ErrorLevel:
		return sentry.LevelError
	default:
		return sentry.LevelFatal
	}
}
