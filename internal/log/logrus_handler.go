package log

// logrus_handler.go adapts slog's Handler interface to a logrus backend, for deployments
// standardized on logrus-shaped log aggregation instead of this package's native format.

import (
	"context"
	"io"
	"log/slog"

	"github.com/sirupsen/logrus"
)

// NewLogrusLogger returns a *Logger whose records are rendered by a *logrus.Logger writing to
// out. Levels below LogLevel's current value are still filtered by the slog frontend; logrus
// itself is configured to accept everything it is handed.
func NewLogrusLogger(out io.Writer) *Logger {
	lr := logrus.New()
	lr.SetOutput(out)
	lr.SetLevel(logrus.TraceLevel)
	lr.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	return slog.New(&logrusHandler{logger: lr})
}

// logrusHandler implements slog.Handler by forwarding each record as a logrus.Entry.
type logrusHandler struct {
	logger *logrus.Logger
	fields logrus.Fields
}

func (h *logrusHandler) Enabled(_ context.Context, level Level) bool {
	return level >= LogLevel.Level()
}

func (h *logrusHandler) Handle(_ context.Context, rec slog.Record) error {
	fields := make(logrus.Fields, len(h.fields)+rec.NumAttrs())

	for k, v := range h.fields {
		fields[k] = v
	}

	rec.Attrs(func(attr slog.Attr) bool {
		fields[attr.Key] = attr.Value.Resolve().Any()
		return true
	})

	entry := h.logger.WithFields(fields)
	if !rec.Time.IsZero() {
		entry = entry.WithTime(rec.Time)
	}

	entry.Log(logrusLevel(rec.Level), rec.Message)

	return nil
}

func (h *logrusHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := make(logrus.Fields, len(h.fields)+len(attrs))

	for k, v := range h.fields {
		fields[k] = v
	}

	for _, a := range attrs {
		fields[a.Key] = a.Value.Resolve().Any()
	}

	return &logrusHandler{logger: h.logger, fields: fields}
}

func (h *logrusHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	// logrus has no notion of attribute groups; the group name is kept only as an empty marker
	// field, and attributes added afterwards are not nested under it.
	fields := make(logrus.Fields, len(h.fields)+1)

	for k, v := range h.fields {
		fields[k] = v
	}

	fields[name] = struct{}{}

	return &logrusHandler{logger: h.logger, fields: fields}
}

func logrusLevel(level Level) logrus.Level {
	switch {
	case level >= Error:
		return logrus.ErrorLevel
	case level >= Warn:
		return logrus.WarnLevel
	case level >= Info:
		return logrus.InfoLevel
	default:
		return logrus.DebugLevel
	}
}
