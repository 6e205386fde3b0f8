package promptline

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// sliceSource replays runes and then reports io.EOF.
type sliceSource struct {
	keys []rune
}

func (s *sliceSource) HasInput() bool {
	return len(s.keys) > 0
}

func (s *sliceSource) ReadKey() (rune, error) {
	if len(s.keys) == 0 {
		return 0, io.EOF
	}
	r := s.keys[0]
	s.keys = s.keys[1:]
	return r, nil
}

// scriptBackend is a Backend fed by the test through Type.
type scriptBackend struct {
	mu       sync.Mutex
	keys     []rune
	eof      bool
	fallback bool
	entered  bool
	enters   int
	restores int
}

func (b *scriptBackend) Type(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.keys = append(b.keys, []rune(s)...)
}

func (b *scriptBackend) CloseInput() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.eof = true
}

func (b *scriptBackend) HasInput() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.keys) > 0 || b.eof
}

func (b *scriptBackend) ReadKey() (rune, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.keys) == 0 {
		return 0, io.EOF
	}
	r := b.keys[0]
	b.keys = b.keys[1:]
	return r, nil
}

func (b *scriptBackend) Enter() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enters++
	b.entered = !b.fallback
	return nil
}

func (b *scriptBackend) Exit() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.entered {
		b.entered = false
		b.restores++
	}
}

func (b *scriptBackend) Fallback() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fallback
}

func (b *scriptBackend) Restores() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.restores
}

// syncBuffer lets tests read output while the loop writes it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func newTestConsole(t *testing.T, mode Mode, opts ...Option) (*Console, *scriptBackend, *syncBuffer) {
	t.Helper()
	out := &syncBuffer{}
	b := &scriptBackend{}
	base := []Option{
		WithBackend(b),
		WithPrinter(NewPrinter(out)),
		WithMode(mode),
		WithPrompt(">"),
		WithPollInterval(time.Millisecond),
	}
	c, err := New(append(base, opts...)...)
	require.NoError(t, err)
	return c, b, out
}

func waitStopped(t *testing.T, c *Console) error {
	t.Helper()
	select {
	case <-c.Done():
		return c.Err()
	case <-time.After(2 * time.Second):
		t.Fatal("console did not stop")
		return nil
	}
}

// testContext returns a context canceled when the test finishes,
// mirroring testing.T.Context for toolchains that predate it.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
