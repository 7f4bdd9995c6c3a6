package witchery

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/robinvandernoord/witchery/internal/edits"
	"github.com/robinvandernoord/witchery/internal/logging"
	"github.com/robinvandernoord/witchery/internal/pyparse"
)

// Names conventionally bound to a database handle; RemoveSpecificVariables
// strips these when no explicit targets are given.
var DefaultRemoveTargets = []string{"db", "database"}

const (
	typeCheckingFlag     = "TYPE_CHECKING"
	typeCheckingSentinel = "typing"
)

type stmtAction int

const (
	keepStmt stmtAction = iota // keep and recurse into nested suites
	dropStmt                   // delete the statement
	skipStmt                   // keep; decide recorded its own edits
)

// rewriteBlock applies decide to every statement of owner's suite,
// recording edits rather than mutating anything, and recurses into the
// suites of kept statements. A nested suite whose statements are all
// dropped is replaced by a single `pass` so the surrounding structure
// stays parseable; a fully emptied module renders to nothing.
func rewriteBlock(t *pyparse.Tree, owner *sitter.Node, l *edits.List, decide func(*sitter.Node) stmtAction) {
	stmts := pyparse.NamedChildren(owner)
	actions := make([]stmtAction, len(stmts))
	kept := 0
	for i, s := range stmts {
		actions[i] = decide(s)
		if actions[i] != dropStmt {
			kept++
		}
	}

	if kept == 0 && len(stmts) > 0 {
		filler := "pass"
		if owner.Type() == "module" {
			filler = ""
		}
		l.Replace(owner.StartByte(), owner.EndByte(), filler)
		return
	}

	for i, s := range stmts {
		switch actions[i] {
		case dropStmt:
			start, end := edits.StatementSpan(t.Source, s.StartByte(), s.EndByte())
			l.Delete(start, end)
		case keepStmt:
			for _, block := range childBlocks(s) {
				rewriteBlock(t, block, l, decide)
			}
		}
	}
}

// childBlocks returns the suites directly owned by a statement (function
// and class bodies, branch and loop bodies), without descending into them.
func childBlocks(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	var visit func(m *sitter.Node)
	visit = func(m *sitter.Node) {
		for i := 0; i < int(m.NamedChildCount()); i++ {
			child := m.NamedChild(i)
			if child.Type() == "block" {
				out = append(out, child)
				continue
			}
			visit(child)
		}
	}
	visit(n)
	return out
}

// RemoveIfFalseyBlocks eliminates conditional dead code across whole
// if/elif/else chains. A branch guarded by a bare `TYPE_CHECKING` keeps its
// clause but gets a `pass` body; a branch guarded by `False` or
// `typing.TYPE_CHECKING` is removed - the whole statement when it is the
// leading `if`, just the clause when it is an `elif`. Other branches are
// left alone, though their bodies are still scanned recursively.
func RemoveIfFalseyBlocks(code string) (string, error) {
	tree, err := pyparse.Parse(code)
	if err != nil {
		return "", err
	}
	defer tree.Close()

	l := &edits.List{}
	var decide func(s *sitter.Node) stmtAction
	decide = func(s *sitter.Node) stmtAction {
		if s.Type() != "if_statement" {
			return keepStmt
		}
		cond := s.ChildByFieldName("condition")
		if cond == nil {
			return keepStmt
		}
		if isAlwaysFalse(tree, cond) {
			return dropStmt
		}
		if body := s.ChildByFieldName("consequence"); body != nil {
			if isTypeCheckingGuard(tree, cond) {
				l.Replace(body.StartByte(), body.EndByte(), "pass")
			} else {
				rewriteBlock(tree, body, l, decide)
			}
		}
		for _, clause := range pyparse.NamedChildren(s) {
			switch clause.Type() {
			case "elif_clause":
				rewriteElifClause(tree, clause, l, decide)
			case "else_clause":
				if body := clause.ChildByFieldName("body"); body != nil {
					rewriteBlock(tree, body, l, decide)
				}
			}
		}
		return skipStmt
	}
	rewriteBlock(tree, tree.Root(), l, decide)

	out, err := l.Apply(tree.Source)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// rewriteElifClause applies the branch policy to a single elif: a falsey
// condition deletes the clause, a bare TYPE_CHECKING neutralizes its body,
// anything else keeps the body and scans it.
func rewriteElifClause(t *pyparse.Tree, clause *sitter.Node, l *edits.List, decide func(*sitter.Node) stmtAction) {
	cond := clause.ChildByFieldName("condition")
	body := clause.ChildByFieldName("consequence")
	switch {
	case cond != nil && isAlwaysFalse(t, cond):
		start, end := edits.StatementSpan(t.Source, clause.StartByte(), clause.EndByte())
		l.Delete(start, end)
	case cond != nil && isTypeCheckingGuard(t, cond) && body != nil:
		l.Replace(body.StartByte(), body.EndByte(), "pass")
	default:
		if body != nil {
			rewriteBlock(t, body, l, decide)
		}
	}
}

func isTypeCheckingGuard(t *pyparse.Tree, cond *sitter.Node) bool {
	return cond.Type() == "identifier" && t.Text(cond) == typeCheckingFlag
}

func isAlwaysFalse(t *pyparse.Tree, cond *sitter.Node) bool {
	return cond.Type() == "false" || isTypingTypeChecking(t, cond)
}

func isTypingTypeChecking(t *pyparse.Tree, cond *sitter.Node) bool {
	if cond.Type() != "attribute" {
		return false
	}
	obj := cond.ChildByFieldName("object")
	attr := cond.ChildByFieldName("attribute")
	return obj != nil && attr != nil &&
		obj.Type() == "identifier" &&
		t.Text(obj) == typeCheckingSentinel &&
		t.Text(attr) == typeCheckingFlag
}

// RemoveSpecificVariables strips, from every suite at any depth, the
// assignments whose target is one of the given names, the function/class
// definitions carrying such a name, and the bare expression statements
// rooted in it (`db.commit()`). Defaults to the conventional database
// handle names when no targets are given.
func RemoveSpecificVariables(code string, toRemove ...string) (string, error) {
	if len(toRemove) == 0 {
		toRemove = DefaultRemoveTargets
	}
	targets := NewNames(toRemove...)

	tree, err := pyparse.Parse(code)
	if err != nil {
		return "", err
	}
	defer tree.Close()

	l := &edits.List{}
	decide := func(s *sitter.Node) stmtAction {
		switch s.Type() {
		case "expression_statement":
			children := pyparse.NamedChildren(s)
			if len(children) == 0 {
				return keepStmt
			}
			inner := children[0]
			if inner.Type() == "assignment" || inner.Type() == "augmented_assignment" {
				if assignsTo(tree, inner, targets) {
					return dropStmt
				}
				return keepStmt
			}
			if base := baseName(tree, inner); base != "" && targets.Has(base) {
				return dropStmt
			}
		case "function_definition", "class_definition":
			if name := s.ChildByFieldName("name"); name != nil && targets.Has(tree.Text(name)) {
				return dropStmt
			}
		case "decorated_definition":
			if def := s.ChildByFieldName("definition"); def != nil {
				if name := def.ChildByFieldName("name"); name != nil && targets.Has(tree.Text(name)) {
					return dropStmt
				}
			}
		}
		return keepStmt
	}
	rewriteBlock(tree, tree.Root(), l, decide)

	out, err := l.Apply(tree.Source)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// assignsTo reports whether any target in a (possibly chained) assignment
// is one of the given names. Only direct name targets count; tuple and
// subscript targets are not matched.
func assignsTo(t *pyparse.Tree, asgn *sitter.Node, targets Names) bool {
	for asgn != nil {
		if left := asgn.ChildByFieldName("left"); left != nil &&
			left.Type() == "identifier" && targets.Has(t.Text(left)) {
			return true
		}
		right := asgn.ChildByFieldName("right")
		if right == nil || right.Type() != "assignment" {
			return false
		}
		asgn = right
	}
	return false
}

// baseName peels calls, attribute accesses and subscripts off an expression
// until it reaches the leading identifier, or "" when there is none.
func baseName(t *pyparse.Tree, n *sitter.Node) string {
	for n != nil {
		switch n.Type() {
		case "identifier":
			return t.Text(n)
		case "call":
			n = n.ChildByFieldName("function")
		case "attribute":
			n = n.ChildByFieldName("object")
		case "subscript":
			n = n.ChildByFieldName("value")
		case "parenthesized_expression", "await":
			children := pyparse.NamedChildren(n)
			if len(children) == 0 {
				return ""
			}
			n = children[0]
		default:
			return ""
		}
	}
	return ""
}

// HasLocalImports reports whether any from-import in the tree, at any
// nesting depth, uses a relative level (a same-package import).
func HasLocalImports(code string) (bool, error) {
	tree, err := pyparse.Parse(code)
	if err != nil {
		return false, err
	}
	defer tree.Close()

	found := false
	pyparse.Walk(tree.Root(), func(n *sitter.Node) {
		if n.Type() != "import_from_statement" {
			return
		}
		if mod := n.ChildByFieldName("module_name"); mod != nil && mod.Type() == "relative_import" {
			found = true
		}
	})
	return found, nil
}

// RemoveImport removes every import of the named module, in any suite. A
// plain import statement only loses the matching alias and survives while
// other aliases remain; a `from module import ...` statement is dropped
// whole. An empty module name is a warned no-op, since "remove nothing" is
// what the caller asked for.
func RemoveImport(code string, moduleName string) (string, error) {
	if moduleName == "" {
		logging.RewriteWarn("RemoveImport called without a module name")
		return code, nil
	}

	tree, err := pyparse.Parse(code)
	if err != nil {
		return "", err
	}
	defer tree.Close()

	l := &edits.List{}
	decide := func(s *sitter.Node) stmtAction {
		switch s.Type() {
		case "import_statement":
			var remaining []string
			matched := false
			for _, child := range pyparse.NamedChildren(s) {
				switch child.Type() {
				case "dotted_name":
					if tree.Text(child) == moduleName {
						matched = true
					} else {
						remaining = append(remaining, tree.Text(child))
					}
				case "aliased_import":
					name := child.ChildByFieldName("name")
					if name != nil && tree.Text(name) == moduleName {
						matched = true
					} else {
						remaining = append(remaining, tree.Text(child))
					}
				}
			}
			if !matched {
				return keepStmt
			}
			if len(remaining) == 0 {
				return dropStmt
			}
			l.Replace(s.StartByte(), s.EndByte(), "import "+strings.Join(remaining, ", "))
			return skipStmt
		case "import_from_statement":
			if mod := s.ChildByFieldName("module_name"); mod != nil && tree.Text(mod) == moduleName {
				return dropStmt
			}
		case "future_import_statement":
			if moduleName == "__future__" {
				return dropStmt
			}
		}
		return keepStmt
	}
	rewriteBlock(tree, tree.Root(), l, decide)

	out, err := l.Apply(tree.Source)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// RemoveLocalImports drops every relative from-import anywhere in the tree.
// Absolute imports are untouched. Applying the pass twice yields the same
// result as applying it once.
func RemoveLocalImports(code string) (string, error) {
	tree, err := pyparse.Parse(code)
	if err != nil {
		return "", err
	}
	defer tree.Close()

	l := &edits.List{}
	decide := func(s *sitter.Node) stmtAction {
		if s.Type() != "import_from_statement" {
			return keepStmt
		}
		if mod := s.ChildByFieldName("module_name"); mod != nil && mod.Type() == "relative_import" {
			return dropStmt
		}
		return keepStmt
	}
	rewriteBlock(tree, tree.Root(), l, decide)

	out, err := l.Apply(tree.Source)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
