package promptline

import "fmt"

// Arity declares how many arguments a command binds. Max < 0 means any
// number of trailing arguments.
type Arity struct {
	Min int
	Max int
}

// Exactly declares n positional arguments.
func Exactly(n int) Arity {
	return Arity{Min: n, Max: n}
}

// Between declares lo required arguments followed by optional ones, up to hi.
func Between(lo, hi int) Arity {
	return Arity{Min: lo, Max: hi}
}

// AtLeast declares n required arguments followed by any number of extra ones.
func AtLeast(n int) Arity {
	return Arity{Min: n, Max: -1}
}

// Any accepts every argument list.
func Any() Arity {
	return Arity{Max: -1}
}

func (a Arity) Variadic() bool {
	return a.Max < 0
}

// Bind truncates args to the declared maximum and reports whether the
// remaining arguments satisfy the minimum.
func (a Arity) Bind(args []string) ([]string, bool) {
	if !a.Variadic() && len(args) > a.Max {
		args = args[:a.Max]
	}
	return args, len(args) >= a.Min
}

func (a Arity) String() string {
	switch {
	case a.Variadic() && a.Min == 0:
		return "any number of arguments"
	case a.Variadic():
		return "at least " + plural(a.Min)
	case a.Min == a.Max:
		return plural(a.Min)
	default:
		return fmt.Sprintf("%d to %s", a.Min, plural(a.Max))
	}
}

func plural(n int) string {
	if n == 1 {
		return "1 argument"
	}
	return fmt.Sprintf("%d arguments", n)
}
