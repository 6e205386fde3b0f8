//go:build windows

package promptline

import (
	"golang.org/x/sys/windows"
	"golang.org/x/term"
)

// makeRaw turns off processed, line and echo input so Ctrl+C arrives as a
// key instead of a console control event. Virtual terminal input stays off:
// _getwch reports arrows as 0xE0 pairs only without it.
func makeRaw(fd int) (*term.State, error) {
	saved, err := term.GetState(fd)
	if err != nil {
		return nil, err
	}

	var mode uint32
	h := windows.Handle(fd)
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return nil, err
	}
	if err := windows.SetConsoleMode(h, rawConsoleMode(mode)); err != nil {
		return nil, err
	}
	return saved, nil
}

func rawConsoleMode(mode uint32) uint32 {
	mode &^= windows.ENABLE_PROCESSED_INPUT | windows.ENABLE_LINE_INPUT | windows.ENABLE_ECHO_INPUT
	return mode &^ windows.ENABLE_VIRTUAL_TERMINAL_INPUT
}
