package promptline

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

// LogHandler is an slog.Handler that prints records through a Printer as
// "[LEVEL]: message key=value ...", so log lines land above the input line.
type LogHandler struct {
	p       *Printer
	level   slog.Leveler
	profile termenv.Profile

	pre    string // formatted attrs from WithAttrs
	prefix string // group prefix for attr keys
}

// NewLogHandler returns a handler printing through p at or above level.
// A nil level means slog.LevelInfo.
func NewLogHandler(p *Printer, level slog.Leveler) *LogHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &LogHandler{
		p:       p,
		level:   level,
		profile: p.ColorProfile(),
	}
}

func (h *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *LogHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(h.label(r.Level))
	sb.WriteByte(' ')
	sb.WriteString(r.Message)
	sb.WriteString(h.pre)
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&sb, h.prefix, a)
		return true
	})
	h.p.Print(sb.String())
	return nil
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var sb strings.Builder
	for _, a := range attrs {
		appendAttr(&sb, h.prefix, a)
	}
	h2 := *h
	h2.pre = h.pre + sb.String()
	return &h2
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

func (h *LogHandler) label(level slog.Level) string {
	var name, color string
	switch {
	case level >= slog.LevelError:
		name, color = "ERROR", "1"
	case level >= slog.LevelWarn:
		name, color = "WARNING", "3"
	case level >= slog.LevelInfo:
		name, color = "INFO", "4"
	default:
		name, color = "DEBUG", "8"
	}
	return h.profile.String("["+name+"]:").Foreground(h.profile.Color(color)).String()
}

func appendAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(sb, p, ga)
		}
		return
	}

	val := a.Value.String()
	if val == "" || strings.ContainsAny(val, " \t\"=") {
		val = strconv.Quote(val)
	}
	sb.WriteByte(' ')
	sb.WriteString(prefix)
	sb.WriteString(a.Key)
	sb.WriteByte('=')
	sb.WriteString(val)
}
