package promptline

import (
	"log/slog"
	"os"
	"strconv"
	"sync"

	"golang.org/x/term"
)

const (
	// EnvFallback forces append-only fallback output when set to a true value.
	EnvFallback = "PROMPTLINE_FALLBACK"

	// EnvHostingMarker is exported by game-server hosting panels whose web
	// consoles are not real terminals.
	EnvHostingMarker = "P_SERVER_UUID"
)

// RawScope holds exclusive raw-mode control of one terminal file descriptor.
type RawScope struct {
	fd int

	lookupEnv  func(string) (string, bool)
	isTerminal func(fd int) bool
	makeRaw    func(fd int) (*term.State, error)
	restore    func(fd int, state *term.State) error

	mu       sync.Mutex
	saved    *term.State
	fallback bool
	logger   *slog.Logger
}

func NewRawScope(fd int) *RawScope {
	return &RawScope{
		fd:         fd,
		lookupEnv:  os.LookupEnv,
		isTerminal: term.IsTerminal,
		makeRaw:    makeRaw,
		restore:    term.Restore,
	}
}

// Enter disables canonical input, echo and signal generation. When the
// descriptor is not a terminal, or fallback is forced from the environment,
// the scope switches to fallback instead.
func (s *RawScope) Enter() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saved != nil {
		return nil
	}

	if forcedFallback(s.lookupEnv) || !s.isTerminal(s.fd) {
		s.fallback = true
		return nil
	}

	saved, err := s.makeRaw(s.fd)
	if err != nil {
		s.fallback = true
		return err
	}
	s.saved = saved
	s.fallback = false
	return nil
}

// Exit restores the attributes saved by Enter. A failed restore is logged at
// debug level and otherwise ignored.
func (s *RawScope) Exit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saved == nil {
		return
	}
	saved := s.saved
	s.saved = nil
	if err := s.restore(s.fd, saved); err != nil && s.logger != nil {
		s.logger.Debug("Terminal restore failed", "fd", s.fd, "err", err)
	}
}

func (s *RawScope) setLogger(logger *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
}

func (s *RawScope) Fallback() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fallback
}

// Entered reports whether raw mode is currently active.
func (s *RawScope) Entered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved != nil
}

func forcedFallback(lookup func(string) (string, bool)) bool {
	if v, ok := lookup(EnvFallback); ok && v != "" {
		if b, err := strconv.ParseBool(v); err != nil || b {
			return true
		}
	}
	v, ok := lookup(EnvHostingMarker)
	return ok && v != ""
}
