//go:build unix

package promptline

import (
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// makeRaw clears ICANON, ECHO and ISIG only. Output post-processing stays on
// so a bare "\n" still returns the carriage.
func makeRaw(fd int) (*term.State, error) {
	saved, err := term.GetState(fd)
	if err != nil {
		return nil, err
	}

	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return nil, err
	}
	termios.Lflag &^= unix.ICANON | unix.ECHO | unix.ISIG
	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, termios); err != nil {
		return nil, err
	}
	return saved, nil
}
