package promptline

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var blank = "\r" + strings.Repeat(" ", fallbackWidth-1) + "\r"

func TestPrinter_RedrawsInputLine(t *testing.T) {
	out := &bytes.Buffer{}
	p := NewPrinter(out)
	e := newEditor(p, "> ", nil)
	p.attach(e, false)

	e.insert('h')
	e.insert('i')
	out.Reset()

	p.Print("log line")
	assert.Equal(t, blank+"log line\n> hi", out.String())
	assert.False(t, p.Plain())
}

func TestPrinter_BusySkipsPrompt(t *testing.T) {
	out := &bytes.Buffer{}
	p := NewPrinter(out)
	e := newEditor(p, "> ", nil)
	p.attach(e, false)

	e.insert('x')
	e.submit()
	out.Reset()

	p.Print("working")
	assert.Equal(t, blank+"working\n", out.String())
}

func TestPrinter_AppendOnly(t *testing.T) {
	out := &bytes.Buffer{}
	p := NewPrinter(out)

	p.Print("detached")
	assert.Equal(t, "detached\n", out.String())
	assert.True(t, p.Plain())

	e := newEditor(p, "> ", nil)
	p.attach(e, true)
	out.Reset()
	e.insert('a')
	p.Print("plain")
	assert.Equal(t, "plain\n", out.String(), "fallback mode neither echoes nor redraws")

	p.detach()
	out.Reset()
	p.Println("a", "b")
	p.Printf("n=%d\n", 3)
	assert.Equal(t, "a b\nn=3\n", out.String())
}

func TestPrinter_NilIsSafe(t *testing.T) {
	var p *Printer
	assert.NotPanics(t, func() {
		p.Print("nobody is listening")
	})
	assert.True(t, p.Plain())
}

func TestPrinter_WriteAndStream(t *testing.T) {
	out := &bytes.Buffer{}
	p := NewPrinter(out)

	n, err := p.Write([]byte("from writer\n"))
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	require.NoError(t, p.Stream(strings.NewReader("one\ntwo\n")))
	assert.Equal(t, "from writer\none\ntwo\n", out.String())
}

func TestPrinter_ConcurrentMessagesStayWhole(t *testing.T) {
	out := &syncBuffer{}
	p := NewPrinter(out)
	e := newEditor(p, "> ", nil)
	p.attach(e, false)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Print("message-body")
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, strings.Count(out.String(), blank+"message-body\n> "))
}
