// Package pybuiltins carries a frozen snapshot of CPython's builtin
// namespace (the keys of builtins.__dict__ on a 3.11 interpreter). The
// analysis treats these identifiers as always resolvable when builtins are
// enabled; there is no live interpreter to ask, so the list is embedded.
package pybuiltins

import (
	_ "embed"
	"strings"
	"sync"
)

//go:embed builtins.txt
var raw string

var (
	once  sync.Once
	names map[string]bool
)

// Names returns the shared builtin-name set. The map is computed once per
// process and must be treated as read-only by callers.
func Names() map[string]bool {
	once.Do(func() {
		names = make(map[string]bool, 160)
		for _, line := range strings.Split(raw, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			names[line] = true
		}
	})
	return names
}
