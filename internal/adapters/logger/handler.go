package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/inkdeck/internal/ui/output"
	"go.trai.ch/inkdeck/internal/ui/style"
)

// errKey is the attribute key under which Error hands the full error to the
// handler, which renders its cause chain instead of a flat message.
const errKey = "err"

// messager is the single-link message accessor implemented by zerr errors.
type messager interface {
	Message() string
}

// levelStyle pairs a line icon with its color for one log level.
type levelStyle struct {
	icon  string
	color lipgloss.Color
}

var levelStyles = map[slog.Level]levelStyle{
	slog.LevelWarn:  {icon: style.Warning, color: style.Yellow},
	slog.LevelError: {icon: style.Cross, color: style.Red},
}

// PrettyHandler is a slog.Handler producing human-readable, colored output.
type PrettyHandler struct {
	out    *termenv.Output
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// NewPrettyHandler creates a new PrettyHandler writing to the provided writer.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	level := &slog.LevelVar{}
	if opts != nil && opts.Level != nil {
		level.Set(opts.Level.Level())
	}

	return &PrettyHandler{
		out:   output.New(w),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and outputs the log record. A record carrying an error
// attribute is rendered as that error's cause chain.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	chosen, ok := levelStyles[r.Level]
	if !ok {
		chosen = levelStyle{color: style.Slate}
	}

	var parts []string
	if chosen.icon != "" {
		parts = append(parts, chosen.icon)
	}
	if r.Message != "" {
		parts = append(parts, r.Message)
	}

	var chain error
	collect := func(attr slog.Attr) {
		if err, isErr := attr.Value.Any().(error); isErr && attr.Key == errKey {
			chain = err
			return
		}
		parts = append(parts, h.attrKey(attr.Key)+"="+attr.Value.String())
	}
	for _, attr := range h.attrs {
		collect(attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		collect(attr)
		return true
	})

	body := strings.Join(parts, " ")
	if chain != nil {
		if body != "" {
			body += " "
		}
		body += causeChain(chain)
	}

	styled := h.out.String(body).Foreground(termenv.RGBColor(string(chosen.color)))
	_, err := h.out.WriteString(styled.String() + "\n")
	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)
	return &clone
}

// WithGroup returns a new Handler with the given group name appended to the
// key prefix.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.groups = append(h.groups[:len(h.groups):len(h.groups)], name)
	return &clone
}

// attrKey qualifies an attribute key with the open group path.
func (h *PrettyHandler) attrKey(key string) string {
	if len(h.groups) == 0 {
		return key
	}
	return strings.Join(h.groups, ".") + "." + key
}

// causeChain renders an error as its chain of messages, one link per line.
// Links without a message of their own (bare metadata wrappers) are skipped;
// the first error that does not expose a single-link message ends the walk
// with its full text.
func causeChain(err error) string {
	var messages []string
	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			messages = append(messages, current.Error())
			break
		}
		if msg := m.Message(); msg != "" {
			messages = append(messages, msg)
		}
		current = errors.Unwrap(current)
	}
	if len(messages) == 0 {
		messages = append(messages, err.Error())
	}

	lines := []string{"Error: " + messages[0]}
	for i, msg := range messages[1:] {
		if i == 0 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    → "+msg)
	}
	return strings.Join(lines, "\n")
}
