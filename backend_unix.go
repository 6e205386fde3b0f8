//go:build unix

package promptline

import (
	"io"
	"os"
	"time"
	"unicode/utf8"

	"golang.org/x/sys/unix"
)

// posixBackend reads bytes from a descriptor and resolves ESC [ sequences.
// Arrow keys are delivered as RuneSentinel followed by a queued direction
// letter, the same shape the native backend produces.
type posixBackend struct {
	*RawScope

	fd      int
	pending []byte
	queued  []rune
	timeout time.Duration
}

// NewBackend returns the backend for this platform reading from in.
func NewBackend(in *os.File) Backend {
	return newPosixBackend(int(in.Fd()))
}

func newPosixBackend(fd int) *posixBackend {
	return &posixBackend{
		RawScope: NewRawScope(fd),
		fd:       fd,
		timeout:  escapeTimeout,
	}
}

func (b *posixBackend) HasInput() bool {
	if len(b.queued) > 0 || len(b.pending) > 0 {
		return true
	}
	ready, err := b.poll(0)
	// Let ReadKey surface the error.
	return ready || err != nil
}

func (b *posixBackend) ReadKey() (rune, error) {
	if len(b.queued) > 0 {
		r := b.queued[0]
		b.queued = b.queued[1:]
		return r, nil
	}

	r, err := b.nextRune()
	if err != nil {
		return 0, err
	}

	switch r {
	case RuneEscape:
		return b.readEscape()
	case RuneSentinel:
		b.queued = append(b.queued, RuneSentinel)
		return RuneSentinel, nil
	}
	return normalizeRune(r), nil
}

func (b *posixBackend) readEscape() (rune, error) {
	if !b.ready() {
		return RuneEscape, nil
	}
	next, err := b.nextRune()
	if err != nil {
		return RuneEscape, nil
	}
	if next != '[' {
		if next == RuneSentinel {
			b.queued = append(b.queued, RuneSentinel, RuneSentinel)
		} else {
			b.queued = append(b.queued, normalizeRune(next))
		}
		return RuneEscape, nil
	}

	// CSI: parameters until a final letter or '~', at most 8 bytes in all.
	seq := make([]rune, 0, 6)
	for len(seq) < 6 {
		if !b.ready() {
			return RuneEscape, nil
		}
		c, err := b.nextRune()
		if err != nil {
			return RuneEscape, nil
		}
		seq = append(seq, c)
		if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c == '~' {
			break
		}
	}

	if len(seq) != 1 {
		return RuneEscape, nil
	}
	switch seq[0] {
	case 'A':
		b.queued = append(b.queued, DirUp)
	case 'B':
		b.queued = append(b.queued, DirDown)
	case 'C':
		b.queued = append(b.queued, DirRight)
	case 'D':
		b.queued = append(b.queued, DirLeft)
	default:
		return RuneEscape, nil
	}
	return RuneSentinel, nil
}

// ready reports whether another byte arrives within the escape timeout.
func (b *posixBackend) ready() bool {
	if len(b.pending) > 0 {
		return true
	}
	ok, err := b.poll(b.timeout)
	return ok && err == nil
}

func (b *posixBackend) poll(timeout time.Duration) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(b.fd), Events: unix.POLLIN}}
	for {
		n, err := unix.Poll(fds, int(timeout/time.Millisecond))
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return false, err
		}
		return n > 0, nil
	}
}

func (b *posixBackend) nextRune() (rune, error) {
	if len(b.pending) == 0 {
		if err := b.fill(); err != nil {
			return 0, err
		}
	}
	// A truncated sequence decodes as utf8.RuneError once the timeout passes.
	for b.pending[0] >= utf8.RuneSelf && !utf8.FullRune(b.pending) {
		if ok, err := b.poll(b.timeout); !ok || err != nil {
			break
		}
		if err := b.fill(); err != nil {
			break
		}
	}
	r, size := utf8.DecodeRune(b.pending)
	b.pending = b.pending[size:]
	return r, nil
}

func (b *posixBackend) fill() error {
	buf := make([]byte, 64)
	for {
		n, err := unix.Read(b.fd, buf)
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN {
			if _, err := b.poll(-time.Millisecond); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return io.EOF
		}
		b.pending = append(b.pending, buf[:n]...)
		return nil
	}
}
