package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorPurple = "\033[35m"
	colorWhite  = "\033[37m"
)

// Handler renders slog records as colored single-line console output with the
// component name up front. The default text handler is too noisy for an
// operator tailing the bot and the API side by side.
type Handler struct {
	mu        sync.Mutex
	opts      *slog.HandlerOptions
	component string
	startTime time.Time
	attrs     []slog.Attr
	groups    []string
}

func NewHandler(component string) *Handler {
	return &Handler{
		opts:      &slog.HandlerOptions{Level: slog.LevelDebug},
		component: component,
		startTime: time.Now(),
	}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		opts:      h.opts,
		component: h.component,
		startTime: h.startTime,
		attrs:     append(append([]slog.Attr{}, h.attrs...), attrs...),
		groups:    h.groups,
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{
		opts:      h.opts,
		component: h.component,
		startTime: h.startTime,
		attrs:     h.attrs,
		groups:    append(append([]string{}, h.groups...), name),
	}
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var levelColor, levelText string
	switch r.Level {
	case slog.LevelDebug:
		levelColor = colorPurple
		levelText = "DEBUG"
	case slog.LevelInfo:
		levelColor = colorGreen
		levelText = "INFO"
	case slog.LevelWarn:
		levelColor = colorYellow
		levelText = "WARN"
	default:
		levelColor = colorRed
		levelText = "ERROR"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s%s ", colorWhite, time.Now().Format("15:04:05"), colorReset)
	fmt.Fprintf(&b, "%s[%-5s]%s ", levelColor, levelText, colorReset)
	if h.component != "" {
		fmt.Fprintf(&b, "%s%s%s ", colorCyan, h.component, colorReset)
	}
	b.WriteString(r.Message)

	prefix := strings.Join(h.groups, ".")
	writeAttr := func(a slog.Attr) bool {
		key := a.Key
		if prefix != "" {
			key = prefix + "." + key
		}
		fmt.Fprintf(&b, " %s%s%s=%v", colorWhite, key, colorReset, a.Value)
		return true
	}
	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(writeAttr)

	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Println(b.String())
	return nil
}

// Setup installs the handler as the process default logger and returns it.
func Setup(component string) *slog.Logger {
	log := slog.New(NewHandler(component))
	slog.SetDefault(log)
	return log
}
