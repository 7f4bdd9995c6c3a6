package witchery

import "sort"

// Names is a set of identifier strings.
type Names map[string]bool

// NewNames builds a set from the given identifiers.
func NewNames(names ...string) Names {
	s := make(Names, len(names))
	for _, n := range names {
		s[n] = true
	}
	return s
}

// Add inserts name into the set.
func (s Names) Add(name string) { s[name] = true }

// Discard removes name if present.
func (s Names) Discard(name string) { delete(s, name) }

// Has reports membership.
func (s Names) Has(name string) bool { return s[name] }

// Union returns a new set containing every name from s and other.
func (s Names) Union(other Names) Names {
	out := make(Names, len(s)+len(other))
	for n := range s {
		out[n] = true
	}
	for n := range other {
		out[n] = true
	}
	return out
}

// Diff returns the names in s that are not in other.
func (s Names) Diff(other Names) Names {
	out := make(Names)
	for n := range s {
		if !other[n] {
			out[n] = true
		}
	}
	return out
}

// Sorted returns the names in lexical order.
func (s Names) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
