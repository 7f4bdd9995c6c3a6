package witchery

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/robinvandernoord/witchery/internal/edits"
	"github.com/robinvandernoord/witchery/internal/logging"
	"github.com/robinvandernoord/witchery/internal/pyparse"
)

// DefaultCallArgs is the argument list assumed when a call hint names a
// function without spelling out its arguments; callers conventionally omit
// the implicit database handle.
var DefaultCallArgs = []string{"db"}

// FindFunctionToCall resolves a call hint ("main" or "main(1, 2)") against
// code: it returns the leading identifier if a function with that exact name
// is defined anywhere in the tree, or "" when there is none.
func FindFunctionToCall(code string, functionCallHint string) (string, error) {
	functionName, _, _ := strings.Cut(functionCallHint, "(")

	tree, err := pyparse.Parse(code)
	if err != nil {
		return "", err
	}
	defer tree.Close()

	found := false
	pyparse.Walk(tree.Root(), func(n *sitter.Node) {
		if n.Type() != "function_definition" {
			return
		}
		if name := n.ChildByFieldName("name"); name != nil && tree.Text(name) == functionName {
			found = true
		}
	})
	if !found {
		return "", nil
	}
	return functionName, nil
}

// ExtractFunctionDetails splits a call hint into a function name and its
// argument source texts. A bare name, or a call with zero arguments, yields
// the provided default arguments; an unparsable hint yields ("", nil)
// rather than an error.
func ExtractFunctionDetails(functionCall string, defaultArgs []string) (string, []string) {
	functionName, _, hasParens := strings.Cut(functionCall, "(")
	if !hasParens {
		return functionName, append([]string(nil), defaultArgs...)
	}

	tree, err := pyparse.Parse(functionCall)
	if err != nil {
		logging.RewriteDebug("unparsable call hint %q: %v", functionCall, err)
		return "", nil
	}
	defer tree.Close()

	var call *sitter.Node
	pyparse.Walk(tree.Root(), func(n *sitter.Node) {
		if call == nil && n.Type() == "call" {
			call = n
		}
	})
	if call == nil {
		return "", nil
	}

	var positional []string
	if argList := call.ChildByFieldName("arguments"); argList != nil {
		for _, arg := range pyparse.NamedChildren(argList) {
			if arg.Type() == "keyword_argument" || arg.Type() == "dictionary_splat" {
				continue
			}
			positional = append(positional, tree.Text(arg))
		}
	}
	if len(positional) == 0 {
		return functionName, append([]string(nil), defaultArgs...)
	}

	if fn := call.ChildByFieldName("function"); fn != nil && fn.Type() == "identifier" {
		functionName = tree.Text(fn)
	}
	return functionName, positional
}

// AddFunctionCall inserts a call statement immediately after the first
// top-level definition of the hinted function, or after every one of them
// when multiple is set (redefinition/override patterns). The call's
// arguments come from the hint itself or, failing that, from args.
func AddFunctionCall(code string, functionCall string, args []string, multiple bool) (string, error) {
	functionName, callArgs := ExtractFunctionDetails(functionCall, args)
	if functionName == "" {
		return "", fmt.Errorf("no callable function in hint %q", functionCall)
	}

	tree, err := pyparse.Parse(code)
	if err != nil {
		return "", err
	}
	defer tree.Close()

	callStmt := "\n" + functionName + "(" + strings.Join(callArgs, ", ") + ")"

	l := &edits.List{}
	for _, stmt := range pyparse.NamedChildren(tree.Root()) {
		def := stmt
		if def.Type() == "decorated_definition" {
			if inner := def.ChildByFieldName("definition"); inner != nil {
				def = inner
			}
		}
		if def.Type() != "function_definition" {
			continue
		}
		name := def.ChildByFieldName("name")
		if name == nil || tree.Text(name) != functionName {
			continue
		}
		l.Insert(stmt.EndByte(), callStmt)
		if !multiple {
			break
		}
	}

	out, err := l.Apply(tree.Source)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
