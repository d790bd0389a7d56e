package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

const DefaultTimeFormat = "2006.01.02|15:04:05.000"

// A slog handler that writes one human readable line per record:
// date|time|LEVEL|message|key=value, ...
type ReadableTextHandler struct {
	options ReadableTextHandlerOptions
	mu      *sync.Mutex
	out     io.Writer
	groups  []handlerGroup
}

type ReadableTextHandlerOptions struct {
	// The minimum level to write, defaults to info.
	Level slog.Leveler
	// The layout for the timestamp, defaults to DefaultTimeFormat.
	TimeFormat string
}

type handlerGroup struct {
	name  string
	attrs []slog.Attr
}

func NewReadableTextHandler(out io.Writer, options *ReadableTextHandlerOptions) *ReadableTextHandler {
	handler := &ReadableTextHandler{out: out, mu: &sync.Mutex{}}
	if options == nil {
		options = &ReadableTextHandlerOptions{}
	}
	handler.options = *options
	if handler.options.Level == nil {
		handler.options.Level = slog.LevelInfo
	}
	if handler.options.TimeFormat == "" {
		handler.options.TimeFormat = DefaultTimeFormat
	}
	// Create the root group
	handler.groups = []handlerGroup{{name: ""}}
	return handler
}

// Creates a logger that writes with the readable handler.
func NewLogger(out io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(NewReadableTextHandler(out, &ReadableTextHandlerOptions{Level: level}))
}

// Creates a logger that drops everything.
func NewDiscardLogger() *slog.Logger {
	return slog.New(NewReadableTextHandler(io.Discard, &ReadableTextHandlerOptions{Level: slog.LevelError + 1}))
}

func (h *ReadableTextHandler) Handle(ctx context.Context, record slog.Record) error {
	var sb strings.Builder
	if !record.Time.IsZero() {
		sb.WriteString(record.Time.Format(h.options.TimeFormat))
		sb.WriteString("|")
	}
	sb.WriteString(fmt.Sprintf("%s|%s", record.Level.String(), record.Message))

	// Attributes added by "With/WithGroup"
	attrStrings := []string{}
	groupPrefix := ""
	for _, g := range h.groups {
		if g.name != "" {
			groupPrefix += g.name + "."
		}
		for _, a := range g.attrs {
			attrStrings = append(attrStrings, buildAttributes(a, groupPrefix)...)
		}
	}
	// Attributes of the record itself
	record.Attrs(func(a slog.Attr) bool {
		attrStrings = append(attrStrings, buildAttributes(a, groupPrefix)...)
		return true
	})
	if len(attrStrings) > 0 {
		sb.WriteString("|")
		sb.WriteString(strings.Join(attrStrings, ", "))
	}
	sb.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, sb.String())
	return err
}

func (h *ReadableTextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.options.Level.Level()
}

func (h *ReadableTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := h.clone()
	h2.groups = append(h2.groups, handlerGroup{name: name})
	return h2
}

func (h *ReadableTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := h.clone()
	last := &h2.groups[len(h2.groups)-1]
	last.attrs = append(last.attrs[:len(last.attrs):len(last.attrs)], attrs...)
	return h2
}

func (h *ReadableTextHandler) clone() *ReadableTextHandler {
	h2 := *h
	h2.groups = make([]handlerGroup, len(h.groups))
	copy(h2.groups, h.groups)
	return &h2
}

func buildAttributes(a slog.Attr, groupPrefix string) []string {
	a.Value = a.Value.Resolve()
	// Ignore empty attributes
	if a.Equal(slog.Attr{}) {
		return nil
	}
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		if len(attrs) == 0 {
			return nil
		}
		if a.Key != "" {
			groupPrefix += a.Key + "."
		}
		attrStrings := []string{}
		for _, a := range attrs {
			attrStrings = append(attrStrings, buildAttributes(a, groupPrefix)...)
		}
		return attrStrings
	}
	return []string{fmt.Sprintf("%s%s=%s", groupPrefix, a.Key, formatValue(a.Value))}
}

// Quotes values that would break the line format.
func formatValue(value slog.Value) string {
	str := value.String()
	if str == "" || strings.ContainsAny(str, " |,=\n\r\t\"") {
		return strconv.Quote(str)
	}
	return str
}
