package promptline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistory_PushCollapsesRepeats(t *testing.T) {
	var h History
	h.Push("ls")
	h.Push("ls")
	h.Push("")
	h.Push("pwd")
	h.Push("ls")

	assert.Equal(t, []string{"ls", "pwd", "ls"}, h.Entries())
	assert.Equal(t, 3, h.Index())
}

func TestHistory_Recall(t *testing.T) {
	var h History
	h.Push("L")
	h.Push("M")

	got, ok := h.Up()
	assert.True(t, ok)
	assert.Equal(t, "M", got)

	got, ok = h.Up()
	assert.True(t, ok)
	assert.Equal(t, "L", got)

	_, ok = h.Up()
	assert.False(t, ok, "cursor stays at the oldest entry")
	assert.Equal(t, 0, h.Index())

	got, ok = h.Down()
	assert.True(t, ok)
	assert.Equal(t, "M", got)

	got, ok = h.Down()
	assert.True(t, ok)
	assert.Equal(t, "", got, "live line reads as empty")
	assert.Equal(t, h.Len(), h.Index())

	_, ok = h.Down()
	assert.False(t, ok)
	assert.Equal(t, h.Len(), h.Index())
}

func TestHistory_EmptyRecall(t *testing.T) {
	var h History
	_, ok := h.Up()
	assert.False(t, ok)
	_, ok = h.Down()
	assert.False(t, ok)
}

func TestHistory_PushResetsCursor(t *testing.T) {
	var h History
	h.Push("a")
	h.Push("b")
	h.Up()
	h.Up()
	h.Push("b")

	assert.Equal(t, []string{"a", "b"}, h.Entries())
	assert.Equal(t, 2, h.Index())
}
