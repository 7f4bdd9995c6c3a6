package witchery

import (
	"strings"
	"sync"
)

// ModuleResolver expands wildcard imports. Given the dotted module path of a
// `from module import *` statement, it returns the module's attribute names
// and whether the module could be resolved at all. An unresolvable module is
// an expected condition (the dependency is simply not available here) and
// contributes no names; resolvers must not panic or block on it.
//
// No resolver is installed by default, so analysis results do not depend on
// the environment unless the caller opts in. Whatever nondeterminism a
// resolver introduces (the same module resolving differently across
// environments) is the caller's to own.
type ModuleResolver interface {
	ModuleNames(module string) ([]string, bool)
}

// ModuleMap is a fixed-table ModuleResolver, mostly useful for embedding
// applications that know their own module surface, and for tests.
type ModuleMap map[string][]string

func (m ModuleMap) ModuleNames(module string) ([]string, bool) {
	names, ok := m[module]
	return names, ok
}

var (
	resolverMu sync.RWMutex
	resolver   ModuleResolver
)

// SetModuleResolver installs the process-wide wildcard-import resolver.
// Passing nil disables expansion again.
func SetModuleResolver(r ModuleResolver) {
	resolverMu.Lock()
	resolver = r
	resolverMu.Unlock()
}

// wildcardNames returns the public names a `from module import *` binds, or
// nothing when no resolver is installed or the module is unknown. Names with
// a leading underscore are not public and never bound by a wildcard.
func wildcardNames(module string) []string {
	resolverMu.RLock()
	r := resolver
	resolverMu.RUnlock()
	if r == nil {
		return nil
	}
	all, ok := r.ModuleNames(module)
	if !ok {
		return nil
	}
	public := make([]string, 0, len(all))
	for _, name := range all {
		if strings.HasPrefix(name, "_") {
			continue
		}
		public = append(public, name)
	}
	return public
}
