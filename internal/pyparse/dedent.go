package pyparse

import (
	"strings"
)

// Dedent strips the longest common leading whitespace from every line, the
// way Python's textwrap.dedent does, so indented snippets embedded in other
// text still parse as module-level code. Lines containing only whitespace
// are ignored when computing the margin and normalized to empty lines.
func Dedent(code string) string {
	lines := strings.Split(code, "\n")

	margin := ""
	first := true
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		indent := line[:len(line)-len(trimmed)]
		if first {
			margin = indent
			first = false
			continue
		}
		margin = commonPrefix(margin, indent)
		if margin == "" {
			return code
		}
	}
	if margin == "" {
		return code
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.TrimLeft(line, " \t") == "" {
			out[i] = ""
			continue
		}
		out[i] = strings.TrimPrefix(line, margin)
	}
	return strings.Join(out, "\n")
}

func commonPrefix(a, b string) string {
	max := len(a)
	if len(b) < max {
		max = len(b)
	}
	i := 0
	for i < max && a[i] == b[i] {
		i++
	}
	return a[:i]
}
