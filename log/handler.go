// Package log provides structured logging (slog) routed to the host
// server's log sink. Install it as the default handler so teardown-path
// failures inside the SDK reach the host log as well:
//
//	slog.SetDefault(slog.New(log.NewHandler()))
package log

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/openinfer/triton-go/internal/native"
)

// Handler implements slog.Handler by forwarding leveled text records to the
// host's logging sink. Delivery is best-effort: a record the host rejects is
// dropped, never surfaced to the logging call site.
type Handler struct {
	opts  handlerConfig
	attrs []slog.Attr
	group string
}

// HandlerOption configures the Handler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	level slog.Level
}

func defaultHandlerConfig() handlerConfig {
	return handlerConfig{level: slog.LevelInfo}
}

// WithLevel sets the minimum level forwarded to the host. Records below it
// are filtered before the host is consulted.
func WithLevel(level slog.Level) HandlerOption {
	return func(c *handlerConfig) {
		c.level = level
	}
}

// NewHandler creates a Handler with the given options.
func NewHandler(opts ...HandlerOption) *Handler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Handler{opts: cfg}
}

// hostLevel maps a slog level to the host's level enumeration. Debug and
// below map to the host's verbose level.
func hostLevel(level slog.Level) uint32 {
	switch {
	case level >= slog.LevelError:
		return native.LogError
	case level >= slog.LevelWarn:
		return native.LogWarn
	case level >= slog.LevelInfo:
		return native.LogInfo
	default:
		return native.LogVerbose
	}
}

// Enabled reports whether records at the given level are forwarded. The
// host is consulted so disabled levels cost nothing to produce.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	if level < h.opts.level {
		return false
	}
	return native.Current().LogIsEnabled(hostLevel(level))
}

// Handle renders the record as one text line and forwards it with the
// source file and line recovered from the record's PC.
func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	level := hostLevel(record.Level)
	api := native.Current()
	if !api.LogIsEnabled(level) {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(record.Message)
	for _, attr := range h.attrs {
		writeAttr(&sb, "", attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		writeAttr(&sb, h.group, attr)
		return true
	})

	file, line := "", 0
	if record.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{record.PC}).Next()
		file, line = frame.File, frame.Line
	}

	api.LogMessage(level, file, line, sb.String())
	return nil
}

func writeAttr(sb *strings.Builder, group string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	fmt.Fprintf(sb, " %s=%v", key, attr.Value)
}

// WithAttrs returns a Handler that includes the given attributes on every
// record. Attributes pick up the group prefix in effect when they are added.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, attr := range attrs {
		if h.group != "" {
			attr.Key = h.group + "." + attr.Key
		}
		clone.attrs = append(clone.attrs, attr)
	}
	return &clone
}

// WithGroup returns a Handler that prefixes attribute keys with the group
// name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if clone.group != "" {
		clone.group += "." + name
	} else {
		clone.group = name
	}
	return &clone
}
