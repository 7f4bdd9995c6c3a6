package witchery

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/robinvandernoord/witchery/internal/logging"
	"github.com/robinvandernoord/witchery/internal/pybuiltins"
	"github.com/robinvandernoord/witchery/internal/pyparse"
)

// Diagnostic is a non-fatal condition encountered while collecting
// variables: the offending node was skipped and collection continued.
type Diagnostic struct {
	Line    int
	Column  int
	Message string
}

// Analysis is the result of a full used/defined variable pass.
type Analysis struct {
	Used        Names
	Defined     Names
	Diagnostics []Diagnostic
}

// nameContext mirrors Python's expression contexts: a name is read, bound,
// or unbound.
type nameContext int

const (
	ctxLoad nameContext = iota
	ctxStore
	ctxDel
)

// collector walks a parse tree and gathers name information into flat,
// whole-snippet sets. Deleting a name revokes an assignment-made definition
// but not an import or loop binding; that asymmetry is deliberate.
type collector struct {
	tree     *pyparse.Tree
	used     Names
	defined  Names
	imported Names
	loopVars Names
	diags    []Diagnostic
}

func newCollector(tree *pyparse.Tree) *collector {
	return &collector{
		tree:     tree,
		used:     make(Names),
		defined:  make(Names),
		imported: make(Names),
		loopVars: make(Names),
	}
}

// FindDefinedVariables parses code and returns every name defined through
// direct or annotated assignment, recursing through tuple-unpacking targets
// and attributing subscript targets to their base name. Loop variables,
// imports and function/class definitions are intentionally not included;
// use FindVariables for the full picture.
func FindDefinedVariables(code string) (Names, error) {
	tree, err := pyparse.Parse(code)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	c := newCollector(tree)
	pyparse.Walk(tree.Root(), func(n *sitter.Node) {
		if n.Type() != "assignment" {
			return
		}
		if left := n.ChildByFieldName("left"); left != nil {
			c.collectTarget(left)
		}
	})
	c.logDiagnostics()
	return c.defined, nil
}

// FindVariables returns the names code reads (used) and the names it makes
// resolvable (defined): assignments, imports, loop targets, and - when
// withBuiltins is set - the Python builtin namespace. Leading indentation is
// stripped before parsing so embedded snippets analyze cleanly. Malformed
// input surfaces as a *pyparse.SyntaxError.
func FindVariables(code string, withBuiltins bool) (used Names, defined Names, err error) {
	analysis, err := AnalyzeVariables(code, withBuiltins)
	if err != nil {
		return nil, nil, err
	}
	return analysis.Used, analysis.Defined, nil
}

// AnalyzeVariables is FindVariables with the accumulated diagnostics
// exposed instead of logged.
func AnalyzeVariables(code string, withBuiltins bool) (*Analysis, error) {
	tree, err := pyparse.Parse(pyparse.Dedent(code))
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	c := newCollector(tree)
	c.walk(tree.Root(), ctxLoad)

	defined := c.defined.Union(c.imported).Union(c.loopVars)
	if withBuiltins {
		for name := range pybuiltins.Names() {
			defined.Add(name)
		}
	}
	logging.AnalyzeDebug("analyzed %d bytes: %d used, %d defined, %d diagnostics",
		len(tree.Source), len(c.used), len(defined), len(c.diags))
	return &Analysis{Used: c.used, Defined: defined, Diagnostics: c.diags}, nil
}

// FindMissingVariables returns the names code references but never defines,
// builtins included in the defined side.
func FindMissingVariables(code string) (Names, error) {
	analysis, err := AnalyzeVariables(code, true)
	if err != nil {
		return nil, err
	}
	for _, d := range analysis.Diagnostics {
		logging.AnalyzeWarn("line %d: %s", d.Line, d.Message)
	}
	return analysis.Used.Diff(analysis.Defined), nil
}

// walk dispatches on the node kind, propagating the name context the way
// Python's own compiler assigns Load/Store/Del.
func (c *collector) walk(n *sitter.Node, ctx nameContext) {
	switch n.Type() {
	case "comment", "string_start", "string_content", "string_end", "escape_sequence":
		return

	case "identifier":
		c.record(n, ctx)

	case "attribute":
		// Only the object side holds names; the attribute itself is a
		// field selector, not a variable.
		if obj := n.ChildByFieldName("object"); obj != nil {
			c.walk(obj, ctxLoad)
		}

	case "subscript":
		// Subscripting reads the container even in store/delete position.
		for _, child := range pyparse.NamedChildren(n) {
			c.walk(child, ctxLoad)
		}

	case "assignment":
		if left := n.ChildByFieldName("left"); left != nil {
			c.walk(left, ctxStore)
			c.collectTarget(left)
		}
		if typ := n.ChildByFieldName("type"); typ != nil {
			c.walk(typ, ctxLoad)
		}
		if right := n.ChildByFieldName("right"); right != nil {
			c.walk(right, ctxLoad)
		}

	case "augmented_assignment":
		if left := n.ChildByFieldName("left"); left != nil {
			c.walk(left, ctxStore)
		}
		if right := n.ChildByFieldName("right"); right != nil {
			c.walk(right, ctxLoad)
		}

	case "named_expression":
		if name := n.ChildByFieldName("name"); name != nil {
			c.walk(name, ctxStore)
		}
		if value := n.ChildByFieldName("value"); value != nil {
			c.walk(value, ctxLoad)
		}

	case "pattern_list", "tuple_pattern", "list_pattern", "list_splat_pattern",
		"list_splat", "expression_list", "parenthesized_expression",
		"tuple", "list", "set", "as_pattern_target":
		for _, child := range pyparse.NamedChildren(n) {
			c.walk(child, ctx)
		}

	case "delete_statement":
		for _, child := range pyparse.NamedChildren(n) {
			c.walk(child, ctxDel)
		}

	case "for_statement":
		c.walkFor(n)

	case "for_in_clause":
		if left := n.ChildByFieldName("left"); left != nil {
			c.walk(left, ctxStore)
		}
		if right := n.ChildByFieldName("right"); right != nil {
			c.walk(right, ctxLoad)
		}
		for _, child := range pyparse.NamedChildren(n) {
			if isField(n, "left", child) || isField(n, "right", child) {
				continue
			}
			c.walk(child, ctxLoad)
		}

	case "as_pattern":
		children := pyparse.NamedChildren(n)
		if len(children) > 0 {
			c.walk(children[0], ctxLoad)
		}
		if alias := n.ChildByFieldName("alias"); alias != nil {
			// `except E as e` binds e as a raw string in the handler, not
			// as a name reference; only with/match targets store a name.
			if p := n.Parent(); p == nil || p.Type() != "except_clause" {
				c.walk(alias, ctxStore)
			}
		}

	case "keyword_argument":
		if value := n.ChildByFieldName("value"); value != nil {
			c.walk(value, ctxLoad)
		}

	case "function_definition":
		if params := n.ChildByFieldName("parameters"); params != nil {
			c.walkParameters(params)
		}
		if rt := n.ChildByFieldName("return_type"); rt != nil {
			c.walk(rt, ctxLoad)
		}
		if body := n.ChildByFieldName("body"); body != nil {
			c.walk(body, ctxLoad)
		}

	case "lambda":
		if params := n.ChildByFieldName("parameters"); params != nil {
			c.walkParameters(params)
		}
		if body := n.ChildByFieldName("body"); body != nil {
			c.walk(body, ctxLoad)
		}

	case "class_definition":
		if supers := n.ChildByFieldName("superclasses"); supers != nil {
			c.walk(supers, ctxLoad)
		}
		if body := n.ChildByFieldName("body"); body != nil {
			c.walk(body, ctxLoad)
		}

	case "import_statement":
		c.collectImport(n)

	case "import_from_statement", "future_import_statement":
		c.collectImportFrom(n)

	case "global_statement", "nonlocal_statement", "dotted_name":
		return

	default:
		for _, child := range pyparse.NamedChildren(n) {
			c.walk(child, ctxLoad)
		}
	}
}

func (c *collector) walkFor(n *sitter.Node) {
	left := n.ChildByFieldName("left")
	if left != nil {
		c.walk(left, ctxStore)
		if left.Type() == "identifier" {
			// Simple single-name loops are additionally tracked as loop
			// variables, which survive a later `del` of the same name.
			c.loopVars.Add(c.tree.Text(left))
		}
	}
	if right := n.ChildByFieldName("right"); right != nil {
		c.walk(right, ctxLoad)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		c.walk(body, ctxLoad)
	}
	if alt := n.ChildByFieldName("alternative"); alt != nil {
		c.walk(alt, ctxLoad)
	}
}

// walkParameters skips parameter names (they bind inside the function, not
// in this flat model) but still reads annotations and default values.
func (c *collector) walkParameters(params *sitter.Node) {
	for _, p := range pyparse.NamedChildren(params) {
		switch p.Type() {
		case "default_parameter":
			if value := p.ChildByFieldName("value"); value != nil {
				c.walk(value, ctxLoad)
			}
		case "typed_parameter":
			if typ := p.ChildByFieldName("type"); typ != nil {
				c.walk(typ, ctxLoad)
			}
		case "typed_default_parameter":
			if typ := p.ChildByFieldName("type"); typ != nil {
				c.walk(typ, ctxLoad)
			}
			if value := p.ChildByFieldName("value"); value != nil {
				c.walk(value, ctxLoad)
			}
		}
	}
}

func (c *collector) record(n *sitter.Node, ctx nameContext) {
	name := c.tree.Text(n)
	switch ctx {
	case ctxLoad:
		c.used.Add(name)
	case ctxStore:
		c.defined.Add(name)
	case ctxDel:
		// A deleted name is unresolved from here on, even though an
		// earlier definition existed. Flat-model approximation.
		c.defined.Discard(name)
	}
}

// collectTarget attributes an assignment target to the name(s) it defines:
// plain names directly, tuple unpacking recursively, subscript targets to
// the container's own name. A target shape we cannot inspect is skipped
// with a diagnostic rather than aborting the whole pass.
func (c *collector) collectTarget(n *sitter.Node) {
	defer func() {
		if r := recover(); r != nil {
			c.diag(n, fmt.Sprintf("could not inspect assignment target: %v", r))
			logging.AnalyzeWarn("skipping assignment target at line %d: %v", int(n.StartPoint().Row)+1, r)
		}
	}()

	switch n.Type() {
	case "identifier":
		c.defined.Add(c.tree.Text(n))
	case "subscript":
		if value := n.ChildByFieldName("value"); value != nil && value.Type() == "identifier" {
			c.defined.Add(c.tree.Text(value))
		}
	case "pattern_list", "tuple_pattern":
		for _, child := range pyparse.NamedChildren(n) {
			c.collectTarget(child)
		}
	}
}

func (c *collector) collectImport(n *sitter.Node) {
	for _, child := range pyparse.NamedChildren(n) {
		switch child.Type() {
		case "dotted_name":
			c.imported.Add(c.tree.Text(child))
		case "aliased_import":
			// `import numpy as np` binds np at runtime, but this model
			// credits the module's own name, matching the narrow "is the
			// module mentioned" question consumers ask.
			if name := child.ChildByFieldName("name"); name != nil {
				c.imported.Add(c.tree.Text(name))
			}
		}
	}
}

func (c *collector) collectImportFrom(n *sitter.Node) {
	mod := n.ChildByFieldName("module_name")
	modPath := ""
	switch {
	case n.Type() == "future_import_statement":
		modPath = "__future__"
	case mod != nil && mod.Type() == "relative_import":
		for _, child := range pyparse.NamedChildren(mod) {
			if child.Type() == "dotted_name" {
				modPath = c.tree.Text(child)
			}
		}
	case mod != nil:
		modPath = c.tree.Text(mod)
	}
	if modPath == "" {
		// `from . import x` carries no module name in this flat model.
		return
	}

	wildcard := false
	for _, child := range pyparse.NamedChildren(n) {
		if mod != nil && child.Equal(mod) {
			continue
		}
		switch child.Type() {
		case "wildcard_import":
			wildcard = true
		case "aliased_import":
			target := child.ChildByFieldName("alias")
			if target == nil {
				target = child.ChildByFieldName("name")
			}
			if target != nil {
				c.imported.Add(c.tree.Text(target))
			}
		case "dotted_name", "identifier":
			c.imported.Add(c.tree.Text(child))
		}
	}

	if wildcard {
		for _, name := range wildcardNames(modPath) {
			c.imported.Add(name)
		}
	}
}

func (c *collector) diag(n *sitter.Node, msg string) {
	d := Diagnostic{Message: msg}
	if n != nil {
		d.Line = int(n.StartPoint().Row) + 1
		d.Column = int(n.StartPoint().Column)
	}
	c.diags = append(c.diags, d)
}

func (c *collector) logDiagnostics() {
	for _, d := range c.diags {
		logging.AnalyzeWarn("line %d: %s", d.Line, d.Message)
	}
}

// isField reports whether child occupies the given field of parent.
func isField(parent *sitter.Node, field string, child *sitter.Node) bool {
	f := parent.ChildByFieldName(field)
	return f != nil && f.Equal(child)
}
