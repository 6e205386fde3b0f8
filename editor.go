package promptline

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// editor owns the unsubmitted input line. Every mutation and its echo happen
// under the printer lock, so the buffer always matches what is on screen.
type editor struct {
	p       *Printer
	prompt  string
	history *History

	// guarded by p.mu
	buf  []rune
	busy bool
}

func newEditor(p *Printer, prompt string, history *History) *editor {
	return &editor{p: p, prompt: prompt, history: history}
}

// snapshot returns what to redraw below printed output. Nothing is redrawn
// while a command runs. Callers hold p.mu.
func (e *editor) snapshot() (string, string) {
	if e.busy {
		return "", ""
	}
	return e.prompt, string(e.buf)
}

// echoing reports whether keystrokes are drawn. Callers hold p.mu.
func (e *editor) echoing() bool {
	return !e.p.plain && !e.busy
}

func (e *editor) insert(r rune) {
	e.p.mu.Lock()
	defer e.p.mu.Unlock()

	e.buf = append(e.buf, r)
	if e.echoing() {
		e.p.out.WriteRune(r)
		e.p.out.Flush()
	}
}

func (e *editor) backspace() {
	e.p.mu.Lock()
	defer e.p.mu.Unlock()

	if len(e.buf) == 0 {
		return
	}
	r := e.buf[len(e.buf)-1]
	e.buf = e.buf[:len(e.buf)-1]
	if e.echoing() {
		n := max(runewidth.RuneWidth(r), 1)
		back := strings.Repeat("\b", n)
		e.p.out.WriteString(back + strings.Repeat(" ", n) + back)
		e.p.out.Flush()
	}
}

// submit ends the line and returns it, leaving the buffer empty. The editor
// stays busy until the next reprompt: keys are still buffered but not drawn.
func (e *editor) submit() string {
	e.p.mu.Lock()
	defer e.p.mu.Unlock()

	line := string(e.buf)
	e.buf = nil
	if e.echoing() {
		e.p.out.WriteByte('\n')
		e.p.out.Flush()
	}
	e.busy = true
	return line
}

// replace swaps the buffer for s and redraws the whole line.
func (e *editor) replace(s string) {
	e.p.mu.Lock()
	defer e.p.mu.Unlock()

	e.buf = []rune(s)
	if e.echoing() {
		e.p.clearLine()
		e.p.out.WriteString(e.prompt)
		e.p.out.WriteString(s)
		e.p.out.Flush()
	}
}

// reprompt draws the prompt and any input typed so far at the start of the
// current row.
func (e *editor) reprompt() {
	e.p.mu.Lock()
	defer e.p.mu.Unlock()

	e.busy = false
	if e.p.plain {
		return
	}
	e.p.out.WriteString(e.prompt)
	e.p.out.WriteString(string(e.buf))
	e.p.out.Flush()
}

func (e *editor) recall(up bool) {
	if e.history == nil {
		return
	}
	var (
		entry string
		moved bool
	)
	if up {
		entry, moved = e.history.Up()
	} else {
		entry, moved = e.history.Down()
	}
	if moved {
		e.replace(entry)
	}
}

// hold hides the line for the duration of a command.
func (e *editor) hold() {
	e.p.mu.Lock()
	defer e.p.mu.Unlock()
	e.busy = true
}

func (e *editor) isBusy() bool {
	e.p.mu.Lock()
	defer e.p.mu.Unlock()
	return e.busy
}

func (e *editor) line() string {
	e.p.mu.Lock()
	defer e.p.mu.Unlock()
	return string(e.buf)
}
