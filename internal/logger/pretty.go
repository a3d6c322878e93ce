package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// Millisecond timestamps keep consecutive transfer steps distinguishable.
const prettyTimeFormat = "15:04:05.000"

// palette holds the escape sequences for each part of a line. The zero value
// prints plain text.
type palette struct {
	time  string
	attrs string
	bold  string
	reset string
	debug string
	info  string
	warn  string
	err   string
}

var (
	colorPalette = palette{
		time:  colorGray,
		attrs: colorCyan,
		bold:  colorBold,
		reset: colorReset,
		debug: colorGray,
		info:  colorBlue,
		warn:  colorYellow,
		err:   colorRed,
	}
	plainPalette = palette{}
)

func (p palette) level(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return p.err
	case level >= slog.LevelWarn:
		return p.warn
	case level >= slog.LevelInfo:
		return p.info
	default:
		return p.debug
	}
}

// paletteFor disables colors when NO_COLOR is set or when w is a file that
// is not a terminal, e.g. stderr redirected to a log file during long runs.
func paletteFor(w io.Writer) palette {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return plainPalette
	}
	if f, ok := w.(*os.File); ok {
		if st, err := f.Stat(); err == nil && st.Mode()&os.ModeCharDevice == 0 {
			return plainPalette
		}
	}
	return colorPalette
}

// PrettyHandler is a slog.Handler that formats records for a terminal:
// [TIME] LEVEL message key=value ...
type PrettyHandler struct {
	opts  slog.HandlerOptions
	w     io.Writer
	mu    *sync.Mutex
	pal   palette
	group string
	attrs []slog.Attr
}

// NewPrettyHandler creates a new PrettyHandler.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &PrettyHandler{
		opts: *opts,
		w:    w,
		mu:   &sync.Mutex{},
		pal:  paletteFor(w),
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle formats and writes a log record.
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	p := h.pal
	buf := make([]byte, 0, 256)

	// Timestamp
	buf = append(buf, p.time...)
	buf = append(buf, '[')
	buf = r.Time.AppendFormat(buf, prettyTimeFormat)
	buf = append(buf, ']')
	buf = append(buf, p.reset...)
	buf = append(buf, ' ')

	// Level, padded to the width of "ERROR"
	buf = append(buf, p.level(r.Level)...)
	buf = append(buf, p.bold...)
	buf = fmt.Appendf(buf, "%-5s", r.Level.String())
	buf = append(buf, p.reset...)
	buf = append(buf, ' ')

	// Message
	buf = append(buf, r.Message...)

	// Handler attrs first, then the record's own
	if n := len(h.attrs) + r.NumAttrs(); n > 0 {
		buf = append(buf, ' ')
		buf = append(buf, p.attrs...)
		sep := false
		emit := func(a slog.Attr) bool {
			if sep {
				buf = append(buf, ' ')
			}
			buf = appendAttr(buf, a, h.group)
			sep = true
			return true
		}
		for _, a := range h.attrs {
			emit(a)
		}
		r.Attrs(emit)
		buf = append(buf, p.reset...)
	}

	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

// WithAttrs returns a new handler with additional attributes.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.clone()
	c.attrs = append(c.attrs, attrs...)
	return c
}

// WithGroup returns a new handler with a group name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := h.clone()
	if c.group != "" {
		c.group += "." + name
	} else {
		c.group = name
	}
	return c
}

// clone shares the writer lock and copies the attrs so siblings never alias.
func (h *PrettyHandler) clone() *PrettyHandler {
	c := *h
	c.attrs = append([]slog.Attr(nil), h.attrs...)
	return &c
}

func appendAttr(buf []byte, attr slog.Attr, group string) []byte {
	if group != "" {
		buf = append(buf, group...)
		buf = append(buf, '.')
	}
	buf = append(buf, attr.Key...)
	buf = append(buf, '=')

	v := attr.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		// Quote strings that would break key=value parsing
		if s := v.String(); needsQuoting(s) {
			buf = fmt.Appendf(buf, "%q", s)
		} else {
			buf = append(buf, s...)
		}
	case slog.KindTime:
		buf = v.Time().AppendFormat(buf, time.RFC3339Nano)
	case slog.KindDuration:
		buf = append(buf, v.Duration().String()...)
	case slog.KindGroup:
		buf = append(buf, '{')
		for i, a := range v.Group() {
			if i > 0 {
				buf = append(buf, ' ')
			}
			buf = appendAttr(buf, a, "")
		}
		buf = append(buf, '}')
	default:
		buf = fmt.Append(buf, v.Any())
	}

	return buf
}

func needsQuoting(s string) bool {
	for _, c := range s {
		if c == ' ' || c == '\t' || c == '\n' || c == '"' {
			return true
		}
	}
	return false
}
