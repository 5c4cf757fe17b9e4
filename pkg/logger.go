package waveform

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

type Logger interface {
	Info(message string, module string)
	Error(string)
}

var logger Logger = NewLogger(os.Stdout, os.Stderr)

func SetLogger(l Logger) {
	logger = l
}

// SlogLogger writes info messages as bracketed text and errors as JSON.
type SlogLogger struct {
	InfoLog  *slog.Logger
	ErrorLog *slog.Logger
}

func NewLogger(stdout io.Writer, stderr io.Writer) SlogLogger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	return SlogLogger{
		InfoLog:  slog.New(NewHandler(stdout, opts)),
		ErrorLog: slog.New(slog.NewJSONHandler(stderr, opts)),
	}
}

func (l SlogLogger) Info(message string, module string) {
	l.InfoLog.Info(message, "module", module)
}

func (l SlogLogger) Error(message string) {
	l.ErrorLog.Error(message)
}

// Handler prints "[time] [value...] message" lines, dropping attribute keys.
type Handler struct {
	level slog.Leveler
	attrs []slog.Attr
	mu    *sync.Mutex
	out   io.Writer
}

func NewHandler(o io.Writer, opts *slog.HandlerOptions) *Handler {
	h := &Handler{level: slog.LevelInfo, mu: &sync.Mutex{}, out: o}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{level: h.level, attrs: append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...), mu: h.mu, out: h.out}
}

// Keys are not printed, so groups change nothing.
func (h *Handler) WithGroup(string) slog.Handler { return h }

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(r.Time.Format("[2006/01/02 15:04:05]"))
	value := func(a slog.Attr) bool {
		fmt.Fprintf(&sb, " [%s]", a.Value.Resolve().String())
		return true
	}
	for _, a := range h.attrs {
		value(a)
	}
	r.Attrs(value)
	sb.WriteString(" " + r.Message + "\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, sb.String())
	return err
}

func logInfo(level int, message string, module string) {
	if configuration.Verbosity >= level {
		logger.Info(message, module)
	}
}
