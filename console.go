package promptline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultPollInterval is the idle sleep between key polls.
	DefaultPollInterval = 10 * time.Millisecond

	// DefaultQueueSize is the number of submitted lines the worker can hold
	// while a command runs.
	DefaultQueueSize = 64
)

type Mode int

const (
	// ModeWorker reads keys on a dedicated goroutine and runs commands on a
	// second one, so a slow command never stalls key capture.
	ModeWorker Mode = iota

	// ModeCooperative reads, edits and dispatches on the goroutine that calls
	// Start. Commands block input while they run. Supports history recall.
	ModeCooperative
)

func (m Mode) String() string {
	if m == ModeCooperative {
		return "cooperative"
	}
	return "worker"
}

type State int32

const (
	StateIdle State = iota
	StateRunning
	StateClosing
	StateFailed
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateClosing:
		return "closing"
	case StateFailed:
		return "failed"
	default:
		return "stopped"
	}
}

// Console turns the terminal into a command prompt: it reads keys, keeps the
// input line drawn below log output, and dispatches submitted lines.
type Console struct {
	mode         Mode
	prompt       string
	history      bool
	defaults     bool
	pollInterval time.Duration
	registerer   prometheus.Registerer

	backend  Backend
	printer  *Printer
	logger   *slog.Logger
	level    *slog.LevelVar
	commands *Dispatcher
	editor   *editor

	// touched only by the command goroutine
	prevLevel slog.Level

	state   atomic.Int32
	started atomic.Bool
	done    chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	err    error
}

// New creates a console. By default it reads os.Stdin, prints to os.Stdout,
// runs in ModeWorker and registers the help, debug, exit and close commands.
func New(opts ...Option) (*Console, error) {
	c := &Console{
		mode:         ModeWorker,
		history:      true,
		defaults:     true,
		pollInterval: DefaultPollInterval,
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.printer == nil {
		c.printer = NewPrinter(os.Stdout)
	}
	if c.logger == nil {
		if c.level == nil {
			c.level = new(slog.LevelVar)
		}
		c.logger = slog.New(NewLogHandler(c.printer, c.level))
	}
	if c.backend == nil {
		c.backend = NewBackend(os.Stdin)
	}
	if lb, ok := c.backend.(interface{ setLogger(*slog.Logger) }); ok {
		lb.setLogger(c.logger)
	}

	var metrics *Metrics
	if c.registerer != nil {
		m, err := NewMetrics(c.registerer)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		metrics = m
	}
	c.commands = NewDispatcher(c.logger)
	c.commands.metrics = metrics

	var history *History
	if c.mode == ModeCooperative && c.history {
		history = &History{}
	}
	c.editor = newEditor(c.printer, c.prompt, history)

	if c.defaults {
		if err := c.registerDefaults(); err != nil {
			return nil, err
		}
	} else {
		c.logger.Warn("The default commands are disabled in the current instance")
	}
	return c, nil
}

// Register adds a command. See Dispatcher.Register.
func (c *Console) Register(name, description string, arity Arity, fn Func) error {
	return c.commands.Register(name, description, arity, fn)
}

// RegisterLegacy adds a command taking its arguments as one list.
//
// Deprecated: use Register.
func (c *Console) RegisterLegacy(name, description string, fn LegacyFunc) error {
	return c.commands.RegisterLegacy(name, description, fn)
}

func (c *Console) Dispatcher() *Dispatcher {
	return c.commands
}

func (c *Console) Printer() *Printer {
	return c.printer
}

func (c *Console) Logger() *slog.Logger {
	return c.logger
}

// Print writes msg above the input line.
func (c *Console) Print(msg string) {
	c.printer.Print(msg)
}

// Start runs the input loop. In ModeWorker it returns immediately; in
// ModeCooperative it blocks until the loop stops and returns the cause.
// Cancelling ctx stops the loop like the exit command.
func (c *Console) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()
	c.state.Store(int32(StateRunning))

	if c.mode == ModeWorker {
		go c.run(ctx, cancel)
		return nil
	}
	c.run(ctx, cancel)
	return c.Err()
}

// Close asks a running loop to stop. It does not wait; use Wait.
func (c *Console) Close() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Wait blocks until a started loop stops and returns the cause: nil for a
// graceful close, ErrInterrupted, ErrInputEnded or a read error.
func (c *Console) Wait() error {
	<-c.done
	return c.Err()
}

func (c *Console) Done() <-chan struct{} {
	return c.done
}

func (c *Console) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Console) State() State {
	return State(c.state.Load())
}

func (c *Console) Running() bool {
	return c.State() == StateRunning
}

func (c *Console) run(ctx context.Context, cancel context.CancelFunc) {
	var err error
	defer func() { c.stop(err) }()
	defer cancel()
	defer c.backend.Exit()

	if rawErr := c.backend.Enter(); rawErr != nil {
		c.logger.Debug("Raw mode unavailable, using fallback output", "err", rawErr)
	}
	c.printer.attach(c.editor, c.backend.Fallback())

	if c.mode == ModeCooperative {
		err = c.runCooperative(ctx)
	} else {
		err = c.runWorker(ctx)
	}
}

func (c *Console) stop(err error) {
	c.printer.detach()

	switch {
	case err == nil, errors.Is(err, ErrClosed), errors.Is(err, context.Canceled):
		c.state.Store(int32(StateClosing))
		c.logger.Info("Input handler exited")
		err = nil
	case errors.Is(err, ErrInterrupted):
		c.state.Store(int32(StateFailed))
		c.logger.Error("Input interrupted")
	case errors.Is(err, ErrInputEnded):
		c.state.Store(int32(StateFailed))
		c.logger.Error("Input ended unexpectedly")
	default:
		c.state.Store(int32(StateFailed))
		c.logger.Error("Input loop error", "err", err)
	}

	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
	c.state.Store(int32(StateStopped))
	close(c.done)
}

func (c *Console) runCooperative(ctx context.Context) error {
	for {
		c.editor.reprompt()
		line, err := c.readLine(ctx)
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}
		if c.editor.history != nil {
			c.editor.history.Push(line)
		}
		if err := c.commands.Dispatch(ctx, line); err != nil {
			return err
		}
	}
}

// runWorker hands submitted lines from the key reader to the command
// goroutine. Whichever side stops first cancels the other.
func (c *Console) runWorker(ctx context.Context) error {
	lines := make(chan string, DefaultQueueSize)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c.editor.reprompt()
		for {
			line, err := c.readLine(ctx)
			if err != nil {
				return err
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case line := <-lines:
				c.editor.hold()
				if err := c.commands.Dispatch(ctx, line); err != nil {
					return err
				}
				// Lines submitted during the command run before the prompt returns.
				if len(lines) == 0 {
					c.editor.reprompt()
				}
			}
		}
	})

	return g.Wait()
}

// readLine edits the input line until Enter and returns the submitted text.
func (c *Console) readLine(ctx context.Context) (string, error) {
	for {
		key, err := c.nextKey(ctx)
		if err != nil {
			return "", err
		}

		switch key.Kind {
		case KeyEnter:
			return c.editor.submit(), nil
		case KeyBackspace:
			c.editor.backspace()
		case KeyInterrupt:
			return "", ErrInterrupted
		case KeyUp:
			c.editor.recall(true)
		case KeyDown:
			c.editor.recall(false)
		case KeyPrintable:
			c.editor.insert(key.Rune)
		}
	}
}

// nextKey sleeps between polls until a key is ready.
func (c *Console) nextKey(ctx context.Context) (Key, error) {
	for !c.backend.HasInput() {
		select {
		case <-ctx.Done():
			return Key{}, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}

	key, err := NextKey(c.backend)
	if errors.Is(err, io.EOF) {
		return Key{}, ErrInputEnded
	}
	return key, err
}
