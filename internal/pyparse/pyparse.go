// Package pyparse wraps the tree-sitter Python grammar behind the small
// surface the analysis and rewrite passes need: parsing with real syntax
// errors, source text access, and a pre-order walker.
//
// tree-sitter itself never fails on malformed input; it produces a tree
// containing ERROR or missing nodes instead. Parse hunts those down and
// turns the first one into a *SyntaxError so callers get the fail-fast
// behavior a regular parser would give them.
package pyparse

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrSyntax is the sentinel wrapped by every *SyntaxError.
var ErrSyntax = errors.New("invalid syntax")

// SyntaxError reports the position of the first unparsable construct.
// Line and Column are 1-based and 0-based respectively, matching how
// Python reports its own syntax errors.
type SyntaxError struct {
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid syntax at line %d, column %d", e.Line, e.Column)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Tree is one parsed snippet. It owns the underlying tree-sitter tree and
// must be Closed by the caller that obtained it.
type Tree struct {
	Source []byte
	tree   *sitter.Tree
}

// Parse parses Python source. A fresh parser is created per call, so Parse
// is safe for concurrent use.
func Parse(code string) (*Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	src := []byte(code)
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse python source: %w", err)
	}

	root := tree.RootNode()
	if root.HasError() {
		bad := firstProblem(root)
		if bad == nil {
			bad = root
		}
		serr := &SyntaxError{
			Line:   int(bad.StartPoint().Row) + 1,
			Column: int(bad.StartPoint().Column),
		}
		tree.Close()
		return nil, serr
	}

	return &Tree{Source: src, tree: tree}, nil
}

// Root returns the module node.
func (t *Tree) Root() *sitter.Node { return t.tree.RootNode() }

// Text returns the source text covered by n.
func (t *Tree) Text(n *sitter.Node) string {
	return string(t.Source[n.StartByte():n.EndByte()])
}

// Close releases the underlying tree. Nodes obtained from the tree must not
// be used afterwards.
func (t *Tree) Close() { t.tree.Close() }

// firstProblem locates the first ERROR or missing node in document order.
func firstProblem(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if !child.HasError() && !child.IsMissing() {
			continue
		}
		if found := firstProblem(child); found != nil {
			return found
		}
	}
	return nil
}
