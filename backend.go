package promptline

import "time"

// escapeTimeout bounds how long a reader waits for the rest of an escape
// sequence before reporting a lone ESC.
const escapeTimeout = 50 * time.Millisecond

// KeySource delivers keys in the normalized alphabet.
//
// HasInput never blocks. ReadKey blocks until a key is available, so callers
// poll HasInput first unless they own a goroutine dedicated to reading.
type KeySource interface {
	HasInput() bool
	ReadKey() (rune, error)
}

// Backend is a KeySource that also owns the terminal mode for the duration of
// a loop. NewBackend picks the implementation for the running platform.
type Backend interface {
	KeySource

	// Enter switches the terminal to raw mode. It never fails hard: when raw
	// mode is unavailable the backend reports Fallback and the returned error
	// only describes why.
	Enter() error

	// Exit restores the terminal if Enter changed it. Safe to call repeatedly.
	Exit()

	Fallback() bool
}
