//go:build windows

package promptline

import (
	"bufio"
	"io"
	"os"

	"golang.org/x/sys/windows"
)

var (
	msvcrt     = windows.NewLazySystemDLL("msvcrt.dll")
	procKbhit  = msvcrt.NewProc("_kbhit")
	procGetwch = msvcrt.NewProc("_getwch")
)

type keyResult struct {
	r   rune
	err error
}

// nativeBackend reads wide characters from the console through the C
// runtime. The runtime already reports arrow keys as 0x00/0xE0 followed by
// the scan letter. When stdin is not a console, keys are pumped from the
// stream instead.
type nativeBackend struct {
	*RawScope

	in     io.Reader
	pumped chan keyResult
	peeked *keyResult
}

// NewBackend returns the backend for this platform reading from in.
func NewBackend(in *os.File) Backend {
	return &nativeBackend{
		RawScope: NewRawScope(int(in.Fd())),
		in:       in,
	}
}

func (b *nativeBackend) Enter() error {
	err := b.RawScope.Enter()
	if b.Fallback() && b.pumped == nil {
		b.pumped = make(chan keyResult, 64)
		go b.pump()
	}
	return err
}

func (b *nativeBackend) HasInput() bool {
	if b.pumped == nil {
		r, _, _ := procKbhit.Call()
		return r != 0
	}
	if b.peeked != nil {
		return true
	}
	select {
	case res := <-b.pumped:
		b.peeked = &res
		return true
	default:
		return false
	}
}

func (b *nativeBackend) ReadKey() (rune, error) {
	if b.pumped == nil {
		r, _, _ := procGetwch.Call()
		return normalizeRune(rune(uint16(r))), nil
	}
	if b.peeked != nil {
		res := *b.peeked
		b.peeked = nil
		return res.r, res.err
	}
	res := <-b.pumped
	return res.r, res.err
}

func (b *nativeBackend) pump() {
	reader := bufio.NewReader(b.in)
	var prev rune
	for {
		r, _, err := reader.ReadRune()
		if err != nil {
			b.pumped <- keyResult{err: err}
			return
		}
		// CRLF is one Enter.
		if r == '\n' && prev == '\r' {
			prev = r
			continue
		}
		prev = r
		b.pumped <- keyResult{r: normalizeRune(r)}
	}
}
