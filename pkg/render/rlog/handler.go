// Package rlog provides a small log/slog handler that renders records as
// single text lines tagged with whatever stage/worker attributes the
// renderer attached via slog.Logger.With, following the corpus's own
// slog-handler-building idiom.
package rlog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/jba/slog/withsupport"
)

// Options configures a StageHandler.
type Options struct {
	// Level reports the minimum level to log; nil means slog.LevelInfo.
	Level slog.Leveler
}

// StageHandler writes one line per record to out, guarded by a shared
// mutex so concurrent render workers can log without interleaving.
type StageHandler struct {
	opts Options
	mu   *sync.Mutex
	out  io.Writer
	with *withsupport.GroupOrAttrs
}

// New creates a StageHandler writing to out.
func New(out io.Writer, opts *Options) *StageHandler {
	h := &StageHandler{out: out, mu: &sync.Mutex{}}
	if opts != nil {
		h.opts = *opts
	}
	if h.opts.Level == nil {
		h.opts.Level = slog.LevelInfo
	}
	return h
}

// Enabled reports whether level is at or above the handler's configured
// level.
func (h *StageHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// WithGroup returns a handler that nests subsequent attrs under name.
func (h *StageHandler) WithGroup(name string) slog.Handler {
	return &StageHandler{opts: h.opts, mu: h.mu, out: h.out, with: h.with.WithGroup(name)}
}

// WithAttrs returns a handler with attrs permanently attached to every
// record it handles.
func (h *StageHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &StageHandler{opts: h.opts, mu: h.mu, out: h.out, with: h.with.WithAttrs(attrs)}
}

// Handle writes one line: time, level, message, then every attached and
// per-record attribute in "group.key=value" form.
func (h *StageHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer
	buf.WriteString(r.Time.Format(time.RFC3339))
	buf.WriteByte(' ')
	buf.WriteString(r.Level.String())
	buf.WriteByte(' ')
	buf.WriteString(r.Message)

	groups := h.with.Apply(func(groups []string, a slog.Attr) {
		writeAttr(&buf, groups, a)
	})
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&buf, groups, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

func writeAttr(buf *bytes.Buffer, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	buf.WriteByte(' ')
	for _, g := range groups {
		buf.WriteString(g)
		buf.WriteByte('.')
	}
	fmt.Fprintf(buf, "%s=%v", a.Key, a.Value)
}

var _ slog.Handler = (*StageHandler)(nil)
