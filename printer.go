package promptline

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const fallbackWidth = 80

// Printer serializes every write to the terminal. While a console is attached
// each message is printed above the input line, and the prompt and the
// unsubmitted input are drawn again below it.
//
// A nil *Printer is usable and prints append-only to stdout.
type Printer struct {
	mu    sync.Mutex
	raw   io.Writer
	out   *bufio.Writer
	width func() int

	// guarded by mu
	plain bool
	line  *editor
}

func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		raw:   w,
		out:   bufio.NewWriter(w),
		width: func() int { return termWidth(w) },
	}
}

// Print writes msg followed by a newline.
func (p *Printer) Print(msg string) {
	if p == nil {
		fmt.Fprintln(os.Stdout, msg)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.plain || p.line == nil {
		p.out.WriteString(msg)
		p.out.WriteByte('\n')
		p.out.Flush()
		return
	}

	prompt, input := p.line.snapshot()
	p.clearLine()
	p.out.WriteString(msg)
	p.out.WriteByte('\n')
	p.out.WriteString(prompt)
	p.out.WriteString(input)
	p.out.Flush()
}

func (p *Printer) Println(a ...any) {
	p.Print(strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
}

func (p *Printer) Printf(format string, a ...any) {
	p.Print(strings.TrimSuffix(fmt.Sprintf(format, a...), "\n"))
}

// Write prints b as one message, so a Printer can back an slog handler or
// any other line-oriented writer.
func (p *Printer) Write(b []byte) (int, error) {
	p.Print(strings.TrimSuffix(string(b), "\n"))
	return len(b), nil
}

// Stream reads from r until closed (EOF) and prints each line.
func (p *Printer) Stream(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.Print(scanner.Text())
	}
	return scanner.Err()
}

// ColorProfile reports the color support of the underlying writer.
func (p *Printer) ColorProfile() termenv.Profile {
	if p == nil {
		return termenv.NewOutput(os.Stdout).EnvColorProfile()
	}
	return termenv.NewOutput(p.raw).EnvColorProfile()
}

// Plain reports whether output is append-only.
func (p *Printer) Plain() bool {
	if p == nil {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.plain || p.line == nil
}

func (p *Printer) attach(e *editor, plain bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.line = e
	p.plain = plain
}

func (p *Printer) detach() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.line = nil
	p.plain = false
}

// clearLine blanks the current row. Callers hold mu.
func (p *Printer) clearLine() {
	p.out.WriteByte('\r')
	p.out.WriteString(strings.Repeat(" ", max(p.width()-1, 0)))
	p.out.WriteByte('\r')
}

func termWidth(w io.Writer) int {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return fallbackWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}
