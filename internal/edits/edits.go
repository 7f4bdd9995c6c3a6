// Package edits implements the byte-span edit lists the rewrite passes
// produce and the applier that renders them back into source text. Each
// rewriter records its changes against the original source and applies them
// in one pass, so no tree or child list is ever mutated while it is being
// iterated.
package edits

import (
	"fmt"
	"sort"
	"strings"
)

// Edit replaces source[Start:End] with Text. A pure insertion has
// Start == End; a pure deletion has empty Text.
type Edit struct {
	Start uint32
	End   uint32
	Text  string
}

// List accumulates edits for a single rewrite pass.
type List struct {
	edits []Edit
}

// Replace substitutes the span [start, end) with text.
func (l *List) Replace(start, end uint32, text string) {
	l.edits = append(l.edits, Edit{Start: start, End: end, Text: text})
}

// Delete removes the span [start, end).
func (l *List) Delete(start, end uint32) {
	l.Replace(start, end, "")
}

// Insert places text at the given offset.
func (l *List) Insert(at uint32, text string) {
	l.Replace(at, at, text)
}

// Empty reports whether any edits were recorded.
func (l *List) Empty() bool { return len(l.edits) == 0 }

// Apply renders the edited source. Overlapping spans indicate a rewriter
// bug and are rejected rather than silently corrupting the output.
func (l *List) Apply(src []byte) ([]byte, error) {
	if len(l.edits) == 0 {
		out := make([]byte, len(src))
		copy(out, src)
		return out, nil
	}

	sorted := make([]Edit, len(l.edits))
	copy(sorted, l.edits)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var b strings.Builder
	cursor := uint32(0)
	for _, e := range sorted {
		if e.Start < cursor {
			return nil, fmt.Errorf("overlapping edits at byte %d", e.Start)
		}
		if int(e.End) > len(src) {
			return nil, fmt.Errorf("edit span [%d, %d) outside source of %d bytes", e.Start, e.End, len(src))
		}
		b.Write(src[cursor:e.Start])
		b.WriteString(e.Text)
		cursor = e.End
	}
	b.Write(src[cursor:])
	return []byte(b.String()), nil
}

// StatementSpan widens the span of a statement so its removal leaves no
// debris behind. A statement alone on its line(s) takes the whole lines,
// including the trailing newline; a statement sharing a line with others
// takes one adjacent semicolon separator instead.
func StatementSpan(src []byte, start, end uint32) (uint32, uint32) {
	lineStart := start
	for lineStart > 0 && src[lineStart-1] != '\n' {
		lineStart--
	}
	aloneLeft := true
	for i := lineStart; i < start; i++ {
		if src[i] != ' ' && src[i] != '\t' {
			aloneLeft = false
			break
		}
	}

	after := end
	for int(after) < len(src) && (src[after] == ' ' || src[after] == '\t') {
		after++
	}
	aloneRight := int(after) >= len(src) || src[after] == '\n' || src[after] == '#'

	if aloneLeft && aloneRight {
		lineEnd := end
		for int(lineEnd) < len(src) && src[lineEnd] != '\n' {
			lineEnd++
		}
		if int(lineEnd) < len(src) {
			lineEnd++ // consume the newline
		}
		return lineStart, lineEnd
	}

	// Mid-line statement: eat the separator that follows, or the one that
	// precedes when this is the last statement on the line.
	if int(after) < len(src) && src[after] == ';' {
		after++
		for int(after) < len(src) && src[after] == ' ' {
			after++
		}
		return start, after
	}
	before := start
	for before > lineStart && (src[before-1] == ' ' || src[before-1] == '\t') {
		before--
	}
	if before > lineStart && src[before-1] == ';' {
		return before - 1, end
	}
	return start, end
}
