package promptline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

const defaultDescription = "A command"

// Func handles a command. Arguments are the space-separated tokens after
// the command name, already bound to the declared Arity.
type Func func(ctx context.Context, args ...string) error

// LegacyFunc receives all arguments as one list.
//
// Deprecated: use Func with Register.
type LegacyFunc func(args []string) error

// Command is one entry of the command table.
type Command struct {
	Name        string
	Description string
	Arity       Arity
	Legacy      bool

	run    Func
	legacy LegacyFunc
}

// Dispatcher maps lower-cased command names to handlers.
type Dispatcher struct {
	mu       sync.RWMutex
	commands map[string]*Command
	order    []string

	logger  *slog.Logger
	metrics *Metrics
}

func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(NewLogHandler(nil, nil))
	}
	return &Dispatcher{
		commands: make(map[string]*Command),
		logger:   logger,
	}
}

// Register adds a command. The name is lower-cased; names that are empty,
// contain a space, or are already registered are rejected.
func (d *Dispatcher) Register(name, description string, arity Arity, fn Func) error {
	if fn == nil {
		return fmt.Errorf("%w: %q has no handler", ErrInvalidName, name)
	}
	return d.add(&Command{Name: name, Description: description, Arity: arity, run: fn})
}

// RegisterLegacy adds a command whose handler takes the argument list as a
// whole. Every call logs a deprecation warning.
//
// Deprecated: use Register.
func (d *Dispatcher) RegisterLegacy(name, description string, fn LegacyFunc) error {
	if fn == nil {
		return fmt.Errorf("%w: %q has no handler", ErrInvalidName, name)
	}
	d.logger.Warn("RegisterLegacy is deprecated, use Register", "command", name)
	return d.add(&Command{Name: name, Description: description, Arity: Any(), Legacy: true, legacy: fn})
}

func (d *Dispatcher) add(cmd *Command) error {
	cmd.Name = strings.ToLower(cmd.Name)
	if cmd.Name == "" || strings.Contains(cmd.Name, " ") {
		return fmt.Errorf("%w: %q", ErrInvalidName, cmd.Name)
	}
	if cmd.Description == "" {
		cmd.Description = defaultDescription
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.commands[cmd.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateCommand, cmd.Name)
	}
	d.commands[cmd.Name] = cmd
	d.order = append(d.order, cmd.Name)
	return nil
}

func (d *Dispatcher) Lookup(name string) (Command, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	cmd, ok := d.commands[strings.ToLower(name)]
	if !ok {
		return Command{}, false
	}
	return *cmd, true
}

// Commands returns the table in registration order.
func (d *Dispatcher) Commands() []Command {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Command, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, *d.commands[name])
	}
	return out
}

// Call runs one command and returns its outcome unfiltered: ErrUnknownCommand,
// *ArityError, *HandlerError, ErrClosed or nil.
func (d *Dispatcher) Call(ctx context.Context, name string, args []string) error {
	cmd, ok := d.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	bound, ok := cmd.Arity.Bind(args)
	if !ok {
		return &ArityError{Command: cmd.Name, Arity: cmd.Arity, Got: len(args)}
	}
	return d.invoke(ctx, cmd, bound)
}

func (d *Dispatcher) invoke(ctx context.Context, cmd Command, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &HandlerError{Command: cmd.Name, Err: fmt.Errorf("panic: %v", r), Stack: debug.Stack()}
		}
	}()

	if cmd.Legacy {
		d.logger.Warn("Legacy command handlers are deprecated", "command", cmd.Name)
		err = cmd.legacy(args)
	} else {
		err = cmd.run(ctx, args...)
	}
	if err != nil && !errors.Is(err, ErrClosed) {
		err = &HandlerError{Command: cmd.Name, Err: err}
	}
	return err
}

// Dispatch parses a submitted line and runs the command it names. Unknown
// names, arity mismatches and handler failures are logged and contained;
// only ErrClosed is returned.
func (d *Dispatcher) Dispatch(ctx context.Context, line string) error {
	if line == "" {
		return nil
	}
	tokens := strings.Split(line, " ")
	name, args := strings.ToLower(tokens[0]), tokens[1:]

	start := time.Now()
	err := d.Call(ctx, name, args)

	var (
		arityErr   *ArityError
		handlerErr *HandlerError
		outcome    string
	)
	switch {
	case err == nil:
		outcome = outcomeOK
	case errors.Is(err, ErrClosed):
		d.metrics.observe(name, outcomeClosed, time.Since(start))
		return ErrClosed
	case errors.Is(err, ErrUnknownCommand):
		d.logger.Warn("Unknown command", "command", name)
		d.metrics.observe("", outcomeUnknown, 0)
		return nil
	case errors.As(err, &arityErr):
		outcome = outcomeArity
		d.logger.Warn("Argument error", "command", name, "err", err)
	case errors.As(err, &handlerErr):
		outcome = outcomeError
		d.logger.Error("An error occurred in command", "command", name, "err", handlerErr.Err)
		if handlerErr.Stack != nil {
			d.logger.Debug("Command panic stack", "command", name, "stack", string(handlerErr.Stack))
		}
	default:
		outcome = outcomeError
		d.logger.Error("An error occurred in command", "command", name, "err", err)
	}
	d.metrics.observe(name, outcome, time.Since(start))
	return nil
}
