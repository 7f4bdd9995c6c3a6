package pyparse

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Walk applies visit to n and then, depth-first and pre-order, to every
// named descendant. Mutating the tree during traversal is not supported;
// rewrite passes work on byte-span edit lists instead.
func Walk(n *sitter.Node, visit func(*sitter.Node)) {
	if n == nil {
		return
	}
	visit(n)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		Walk(n.NamedChild(i), visit)
	}
}

// NamedChildren returns the named children of n, minus comments. Comments
// are named nodes in the Python grammar but are never meaningful to the
// analysis or rewrite passes.
func NamedChildren(n *sitter.Node) []*sitter.Node {
	count := int(n.NamedChildCount())
	children := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		children = append(children, child)
	}
	return children
}
