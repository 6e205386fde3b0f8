package promptline

import (
	"unicode"
	"unicode/utf8"
)

// Normalized key alphabet shared by every backend.
const (
	RuneEnter     = '\r'
	RuneBackspace = '\x08'
	RuneInterrupt = '\x03'
	RuneEscape    = '\x1b'

	// RuneSentinel prefixes a direction letter for arrow keys.
	RuneSentinel = '\xe0'

	DirUp    = 'H'
	DirDown  = 'P'
	DirLeft  = 'K'
	DirRight = 'M'
)

type KeyKind int

const (
	KeyOther KeyKind = iota
	KeyPrintable
	KeyEnter
	KeyBackspace
	KeyInterrupt
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

func (k KeyKind) String() string {
	switch k {
	case KeyPrintable:
		return "printable"
	case KeyEnter:
		return "enter"
	case KeyBackspace:
		return "backspace"
	case KeyInterrupt:
		return "interrupt"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	default:
		return "other"
	}
}

// Key is a single decoded keystroke. Rune is set for printable keys and for
// unmapped input.
type Key struct {
	Kind KeyKind
	Rune rune
}

// NextKey reads one logical key from src. Arrow keys consume the sentinel and
// the direction letter that follows it.
func NextKey(src KeySource) (Key, error) {
	r, err := src.ReadKey()
	if err != nil {
		return Key{}, err
	}

	switch r {
	case RuneEnter:
		return Key{Kind: KeyEnter}, nil
	case RuneBackspace:
		return Key{Kind: KeyBackspace}, nil
	case RuneInterrupt:
		return Key{Kind: KeyInterrupt}, nil
	case RuneSentinel, 0:
		dir, err := src.ReadKey()
		if err != nil {
			return Key{}, err
		}
		switch dir {
		case DirUp:
			return Key{Kind: KeyUp}, nil
		case DirDown:
			return Key{Kind: KeyDown}, nil
		case DirLeft:
			return Key{Kind: KeyLeft}, nil
		case DirRight:
			return Key{Kind: KeyRight}, nil
		case RuneSentinel:
			// doubled sentinel is a literal U+00E0
			return Key{Kind: KeyPrintable, Rune: RuneSentinel}, nil
		}
		return Key{Kind: KeyOther, Rune: dir}, nil
	}

	if r != utf8.RuneError && unicode.IsPrint(r) {
		return Key{Kind: KeyPrintable, Rune: r}, nil
	}
	return Key{Kind: KeyOther, Rune: r}, nil
}

// normalizeRune maps raw control characters onto the shared alphabet.
func normalizeRune(r rune) rune {
	switch r {
	case '\n':
		return RuneEnter
	case '\x7f':
		return RuneBackspace
	}
	return r
}
