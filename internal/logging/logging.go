// Package logging provides categorized diagnostic logging for the library.
// It is a no-op by default; embedding applications install a real zap logger
// with SetLogger. Recoverable analysis conditions surface here as warnings,
// per-pass tracing as debug messages.
package logging

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// Category names a library subsystem.
type Category string

const (
	CategoryParse   Category = "parse"   // source -> tree front end
	CategoryAnalyze Category = "analyze" // used/defined variable collection
	CategoryRewrite Category = "rewrite" // tree-to-tree transformation passes
)

var base atomic.Pointer[zap.Logger]

func init() {
	base.Store(zap.NewNop())
}

// SetLogger installs the logger backing all categories. Passing nil restores
// the no-op default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	base.Store(l)
}

// Get returns a sugared logger named after the category.
func Get(c Category) *zap.SugaredLogger {
	return base.Load().Named(string(c)).Sugar()
}

// AnalyzeDebug logs a debug message to the analyze category.
func AnalyzeDebug(format string, args ...interface{}) {
	Get(CategoryAnalyze).Debugf(format, args...)
}

// AnalyzeWarn logs a warning to the analyze category.
func AnalyzeWarn(format string, args ...interface{}) {
	Get(CategoryAnalyze).Warnf(format, args...)
}

// RewriteDebug logs a debug message to the rewrite category.
func RewriteDebug(format string, args ...interface{}) {
	Get(CategoryRewrite).Debugf(format, args...)
}

// RewriteWarn logs a warning to the rewrite category.
func RewriteWarn(format string, args ...interface{}) {
	Get(CategoryRewrite).Warnf(format, args...)
}

// ParseDebug logs a debug message to the parse category.
func ParseDebug(format string, args ...interface{}) {
	Get(CategoryParse).Debugf(format, args...)
}
