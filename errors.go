package promptline

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by a command to stop the console gracefully. The
// built-in exit and close commands return it.
var ErrClosed = errors.New("console closed")

// ErrInterrupted is reported when the interrupt key (Ctrl+C) is read.
var ErrInterrupted = errors.New("input interrupted")

// ErrInputEnded is reported when the input stream reaches end of file.
var ErrInputEnded = errors.New("input ended unexpectedly")

// ErrInvalidName is returned when registering an empty name or one that
// contains a space.
var ErrInvalidName = errors.New("invalid command name")

// ErrDuplicateCommand is returned when a name is already registered,
// ignoring case.
var ErrDuplicateCommand = errors.New("command already registered")

// ErrUnknownCommand is returned by Call for names that are not registered.
var ErrUnknownCommand = errors.New("unknown command")

// ErrAlreadyStarted is returned by Start on a console that was started before.
var ErrAlreadyStarted = errors.New("console already started")

// ArityError reports arguments that cannot bind to a command's declared arity.
type ArityError struct {
	Command string
	Arity   Arity
	Got     int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("command %q takes %s, got %d", e.Command, e.Arity, e.Got)
}

// HandlerError wraps a failure raised inside a command handler, including a
// recovered panic.
type HandlerError struct {
	Command string
	Err     error

	// Stack is set when Err was recovered from a panic.
	Stack []byte
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("command %q: %v", e.Command, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}
