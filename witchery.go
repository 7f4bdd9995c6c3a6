// Package witchery analyzes and rewrites Python source at the syntax-tree
// level to support monkey-patching workflows: find the names a snippet uses
// but never defines, strip problematic constructs (specific variables,
// relative imports, type-checking-only blocks), or synthesize a placeholder
// object bound to every missing name so the snippet can run without
// NameErrors.
//
// The analysis is deliberately flat: there is no scope nesting, no
// control-flow sensitivity and no type inference. It over-approximates
// "defined" (imports, builtins) and under-approximates scoping, because its
// consumers only need to know whether a name is resolvable at all.
//
// Parsing is delegated to tree-sitter's Python grammar; rewrites are
// rendered by splicing byte-span edits into the original source, so the
// caller's formatting survives every pass.
package witchery

import (
	"go.uber.org/zap"

	"github.com/robinvandernoord/witchery/internal/logging"
)

// SetLogger installs a zap logger for the library's diagnostics. The library
// logs nothing until one is provided; passing nil restores the silent
// default.
func SetLogger(l *zap.Logger) {
	logging.SetLogger(l)
}
