package promptline

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the file form of the console options.
//
//	prompt: ">"
//	mode: cooperative
//	disable_defaults: false
//	log_level: info
//	poll_interval: 10ms
type Config struct {
	Prompt          string        `yaml:"prompt"`
	Mode            string        `yaml:"mode"`
	DisableDefaults bool          `yaml:"disable_defaults"`
	LogLevel        string        `yaml:"log_level"`
	PollInterval    time.Duration `yaml:"poll_interval"`
	History         *bool         `yaml:"history"`
}

func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return LoadConfig(f)
}

// ParseMode accepts "worker" or "cooperative"; empty means worker.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "worker":
		return ModeWorker, nil
	case "cooperative":
		return ModeCooperative, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// ParseLevel accepts slog level names plus "warning".
func ParseLevel(s string) (slog.Level, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if s == "" {
		return level, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, err
	}
	return level, nil
}

// Options converts the config into console options. A log level installs the
// default printer-backed logger at that level.
func (c Config) Options() ([]Option, error) {
	mode, err := ParseMode(c.Mode)
	if err != nil {
		return nil, err
	}
	opts := []Option{WithMode(mode)}

	if c.Prompt != "" {
		opts = append(opts, WithPrompt(c.Prompt))
	}
	if c.DisableDefaults {
		opts = append(opts, WithoutDefaults())
	}
	if c.PollInterval > 0 {
		opts = append(opts, WithPollInterval(c.PollInterval))
	}
	if c.History != nil {
		opts = append(opts, WithHistory(*c.History))
	}
	if c.LogLevel != "" {
		level, err := ParseLevel(c.LogLevel)
		if err != nil {
			return nil, err
		}
		opts = append(opts, withLevel(level))
	}
	return opts, nil
}

// withLevel sets the starting level of the default logger.
func withLevel(level slog.Level) Option {
	return func(c *Console) {
		if c.level == nil {
			c.level = new(slog.LevelVar)
		}
		c.level.Set(level)
	}
}
