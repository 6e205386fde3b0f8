package promptline

// History is the list of submitted lines with a recall cursor. The cursor
// ranges over [0, Len()]; Len() means the live line is being edited.
// Recalling an entry never modifies it.
type History struct {
	entries []string
	index   int
}

// Push records a submitted line. Empty lines and immediate repeats are not
// stored. The cursor always returns to the live line.
func (h *History) Push(line string) {
	if line != "" && (len(h.entries) == 0 || h.entries[len(h.entries)-1] != line) {
		h.entries = append(h.entries, line)
	}
	h.index = len(h.entries)
}

// Up moves to the previous entry. It reports false at the oldest entry.
func (h *History) Up() (string, bool) {
	if h.index == 0 {
		return "", false
	}
	h.index--
	return h.entries[h.index], true
}

// Down moves toward the live line, which reads as empty. It reports false
// when already on the live line.
func (h *History) Down() (string, bool) {
	if h.index >= len(h.entries) {
		return "", false
	}
	h.index++
	if h.index == len(h.entries) {
		return "", true
	}
	return h.entries[h.index], true
}

func (h *History) Len() int {
	return len(h.entries)
}

func (h *History) Index() int {
	return h.index
}

func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}
