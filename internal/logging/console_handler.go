package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// consoleHandler writes one human-readable line per record:
//
//	2026-01-02T15:04:05Z WARN  patcher [patch faq] anchor not found key=value
//
// The component and the phase/page pair are lifted out of the attributes
// into the line prefix; everything else follows as key=value pairs.
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     slog.Level
	addSource bool
	group     string
	fields    []consoleField
}

type consoleField struct {
	key   string
	value slog.Value
}

func newConsoleHandler(w io.Writer, level slog.Level, addSource bool) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: level, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	fields := make([]consoleField, 0, len(h.fields)+record.NumAttrs())
	fields = append(fields, h.fields...)
	record.Attrs(func(attr slog.Attr) bool {
		fields = appendConsoleField(fields, h.group, attr)
		return true
	})

	var component, phase, page string
	rest := fields[:0]
	for _, f := range fields {
		switch f.key {
		case FieldComponent:
			component = f.value.String()
		case FieldPhase:
			phase = f.value.String()
		case FieldPageID:
			page = f.value.String()
		default:
			rest = append(rest, f)
		}
	}

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	var b strings.Builder
	b.WriteString(ts.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, " %-5s", levelLabel(record.Level))
	if component != "" {
		b.WriteString(" " + component)
	}
	if subject := strings.TrimSpace(phase + " " + page); subject != "" {
		b.WriteString(" [" + subject + "]")
	}
	b.WriteString(" " + record.Message)
	if h.addSource {
		if src := record.Source(); src != nil {
			fmt.Fprintf(&b, " (%s:%d)", filepath.Base(src.File), src.Line)
		}
	}
	for _, f := range rest {
		b.WriteString(" " + f.key + "=" + consoleValue(f.value))
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.fields = append([]consoleField(nil), h.fields...)
	for _, attr := range attrs {
		clone.fields = appendConsoleField(clone.fields, h.group, attr)
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.group = joinKey(h.group, name)
	return &clone
}

func appendConsoleField(dst []consoleField, group string, attr slog.Attr) []consoleField {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	if attr.Value.Kind() == slog.KindGroup {
		prefix := group
		if attr.Key != "" {
			prefix = joinKey(group, attr.Key)
		}
		for _, inner := range attr.Value.Group() {
			dst = appendConsoleField(dst, prefix, inner)
		}
		return dst
	}
	return append(dst, consoleField{key: joinKey(group, attr.Key), value: attr.Value})
}

func joinKey(prefix, key string) string {
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	default:
		return prefix + "." + key
	}
}

func consoleValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprint(v.Any())
		}
	default:
		s = v.String()
	}
	if s == "" || strings.ContainsAny(s, " =\"\t\n") {
		return strconv.Quote(s)
	}
	return s
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
