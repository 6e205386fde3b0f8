package promptline

import (
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Console.
type Option func(*Console)

// WithPrompt sets the prompt drawn before the input line. A non-empty prompt
// is trimmed and followed by one space.
func WithPrompt(prompt string) Option {
	return func(c *Console) {
		c.prompt = normalizePrompt(prompt)
	}
}

// WithMode selects the worker or the cooperative loop. ModeWorker is the default.
func WithMode(mode Mode) Option {
	return func(c *Console) {
		c.mode = mode
	}
}

// WithLogger configures the structured logger. level is the LevelVar backing
// the logger's handler; the debug command toggles it. Without a LevelVar the
// debug command only warns.
func WithLogger(logger *slog.Logger, level *slog.LevelVar) Option {
	return func(c *Console) {
		c.logger = logger
		c.level = level
	}
}

// WithoutDefaults skips the built-in help, debug, exit and close commands.
func WithoutDefaults() Option {
	return func(c *Console) {
		c.defaults = false
	}
}

// WithPrinter configures the printer used for the input line and log output.
func WithPrinter(p *Printer) Option {
	return func(c *Console) {
		c.printer = p
	}
}

// WithBackend replaces the platform backend reading stdin.
func WithBackend(b Backend) Option {
	return func(c *Console) {
		c.backend = b
	}
}

// WithPollInterval sets how long the loop sleeps when no key is ready.
func WithPollInterval(d time.Duration) Option {
	return func(c *Console) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithHistory enables or disables up/down recall in the cooperative loop.
func WithHistory(enabled bool) Option {
	return func(c *Console) {
		c.history = enabled
	}
}

// WithMetrics registers command metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Console) {
		c.registerer = reg
	}
}

func normalizePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return ""
	}
	return prompt + " "
}
