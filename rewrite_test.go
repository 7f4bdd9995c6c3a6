package witchery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveIfFalseyBlocks_TypeCheckingNeutralized(t *testing.T) {
	code := "if TYPE_CHECKING:\n    import os\nx = 1\n"
	out, err := RemoveIfFalseyBlocks(code)
	require.NoError(t, err)
	assert.Equal(t, "if TYPE_CHECKING:\n    pass\nx = 1\n", out)
}

func TestRemoveIfFalseyBlocks_TypeCheckingKeepsElse(t *testing.T) {
	code := "if TYPE_CHECKING:\n    a = 1\nelse:\n    b = 2\n"
	out, err := RemoveIfFalseyBlocks(code)
	require.NoError(t, err)
	assert.Equal(t, "if TYPE_CHECKING:\n    pass\nelse:\n    b = 2\n", out)
}

func TestRemoveIfFalseyBlocks_IfFalseDropped(t *testing.T) {
	code := "if False:\n    dead = 1\nx = 1\n"
	out, err := RemoveIfFalseyBlocks(code)
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", out)
}

func TestRemoveIfFalseyBlocks_TypingAttributeDropped(t *testing.T) {
	code := "import typing\nif typing.TYPE_CHECKING:\n    from a import B\nx = 1\n"
	out, err := RemoveIfFalseyBlocks(code)
	require.NoError(t, err)
	assert.Equal(t, "import typing\nx = 1\n", out)
}

func TestRemoveIfFalseyBlocks_Nested(t *testing.T) {
	code := "def f():\n    if False:\n        dead = 1\n    return 2\n"
	out, err := RemoveIfFalseyBlocks(code)
	require.NoError(t, err)
	assert.Equal(t, "def f():\n    return 2\n", out)
}

func TestRemoveIfFalseyBlocks_ElifFalseDropped(t *testing.T) {
	code := "if cond:\n    x = 1\nelif False:\n    dead = 1\n"
	out, err := RemoveIfFalseyBlocks(code)
	require.NoError(t, err)
	assert.Equal(t, "if cond:\n    x = 1\n", out)
}

func TestRemoveIfFalseyBlocks_ElifTypeCheckingNeutralized(t *testing.T) {
	code := "if cond:\n    x = 1\nelif TYPE_CHECKING:\n    import os\nelse:\n    y = 2\n"
	out, err := RemoveIfFalseyBlocks(code)
	require.NoError(t, err)
	assert.Equal(t, "if cond:\n    x = 1\nelif TYPE_CHECKING:\n    pass\nelse:\n    y = 2\n", out)
}

func TestRemoveIfFalseyBlocks_ElifTypingAttributeDropped(t *testing.T) {
	code := "import typing\nif cond:\n    x = 1\nelif typing.TYPE_CHECKING:\n    dead = 1\nelse:\n    y = 2\n"
	out, err := RemoveIfFalseyBlocks(code)
	require.NoError(t, err)
	assert.Equal(t, "import typing\nif cond:\n    x = 1\nelse:\n    y = 2\n", out)
}

func TestRemoveIfFalseyBlocks_DeadCodeInsideBranches(t *testing.T) {
	code := "if cond:\n    if False:\n        dead = 1\n    x = 1\nelif other:\n    if False:\n        dead = 2\n    y = 2\nelse:\n    if False:\n        dead = 3\n    z = 3\n"
	out, err := RemoveIfFalseyBlocks(code)
	require.NoError(t, err)
	assert.Equal(t, "if cond:\n    x = 1\nelif other:\n    y = 2\nelse:\n    z = 3\n", out)
}

func TestRemoveIfFalseyBlocks_WholeModuleDropped(t *testing.T) {
	out, err := RemoveIfFalseyBlocks("if False:\n    dead = 1\n")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestRemoveIfFalseyBlocks_OrdinaryIfUntouched(t *testing.T) {
	code := "if cond:\n    x = 1\nelse:\n    y = 2\n"
	out, err := RemoveIfFalseyBlocks(code)
	require.NoError(t, err)
	assert.Equal(t, code, out)
}

func TestRemoveIfFalseyBlocks_SyntaxError(t *testing.T) {
	_, err := RemoveIfFalseyBlocks("if False\n    broken")
	assert.Error(t, err)
}

func TestRemoveSpecificVariables_Defaults(t *testing.T) {
	code := `db = DAL()
db.define_table('person')
database = connect()
other = 1
print(other)
`
	out, err := RemoveSpecificVariables(code)
	require.NoError(t, err)
	assert.NotContains(t, out, "db")
	assert.NotContains(t, out, "database")
	assert.Contains(t, out, "other = 1")
	assert.Contains(t, out, "print(other)")
}

func TestRemoveSpecificVariables_MidLineStatements(t *testing.T) {
	out, err := RemoveSpecificVariables("db = Connect(); db.query(); keep = 1", "db")
	require.NoError(t, err)
	assert.Equal(t, "keep = 1", out)
}

func TestRemoveSpecificVariables_ChainedAssignment(t *testing.T) {
	out, err := RemoveSpecificVariables("x = db = DAL()\ny = 2\n", "db")
	require.NoError(t, err)
	assert.Equal(t, "y = 2\n", out)
}

func TestRemoveSpecificVariables_Definitions(t *testing.T) {
	code := `def db():
    pass

class database:
    pass

@decorated
def db():
    pass

def keep_me():
    pass
`
	out, err := RemoveSpecificVariables(code)
	require.NoError(t, err)
	assert.NotContains(t, out, "def db")
	assert.NotContains(t, out, "class database")
	assert.NotContains(t, out, "@decorated")
	assert.Contains(t, out, "def keep_me():")
}

func TestRemoveSpecificVariables_EmptiedBlockGetsPass(t *testing.T) {
	code := "def setup():\n    db = connect()\n    db.migrate()\n"
	out, err := RemoveSpecificVariables(code, "db")
	require.NoError(t, err)
	assert.Equal(t, "def setup():\n    pass\n", out)
}

func TestRemoveSpecificVariables_AnnotatedAndAugmented(t *testing.T) {
	out, err := RemoveSpecificVariables("db: DAL = DAL()\nx = 1\n", "db")
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", out)

	out, err = RemoveSpecificVariables("db += 1\nx = 1\n", "db")
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", out)
}

func TestRemoveSpecificVariables_EmptiedModule(t *testing.T) {
	out, err := RemoveSpecificVariables("db = DAL()\ndb.commit()\n", "db")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestRemoveSpecificVariables_ExpressionUsages(t *testing.T) {
	// attribute chains, subscripts and awaits all peel back to the base name
	code := `db.tables["person"].drop()
await db.close()
(db).commit()
unrelated.call()
`
	out, err := RemoveSpecificVariables(code, "db")
	require.NoError(t, err)
	assert.Equal(t, "unrelated.call()\n", out)
}

func TestRemoveSpecificVariables_TupleTargetsNotMatched(t *testing.T) {
	code := "db, other = setup()\n"
	out, err := RemoveSpecificVariables(code, "db")
	require.NoError(t, err)
	assert.Equal(t, code, out)
}

func TestHasLocalImports(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"from .helpers import thing\n", true},
		{"from ..pkg import thing\n", true},
		{"from os import path\n", false},
		{"import sys\n", false},
		{"def f():\n    from . import sibling\n", true},
	}
	for _, tc := range cases {
		got, err := HasLocalImports(tc.code)
		require.NoError(t, err, tc.code)
		assert.Equal(t, tc.want, got, tc.code)
	}
}

func TestRemoveImport_PlainImport(t *testing.T) {
	out, err := RemoveImport("import os, sys\n", "os")
	require.NoError(t, err)
	assert.Equal(t, "import sys\n", out)
}

func TestRemoveImport_WholeStatement(t *testing.T) {
	out, err := RemoveImport("import os\nx = 1\n", "os")
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", out)
}

func TestRemoveImport_AliasedImport(t *testing.T) {
	out, err := RemoveImport("import numpy as np, sys\n", "numpy")
	require.NoError(t, err)
	assert.Equal(t, "import sys\n", out)

	out, err = RemoveImport("import os as o, sys\n", "sys")
	require.NoError(t, err)
	assert.Equal(t, "import os as o\n", out)
}

func TestRemoveImport_FromImport(t *testing.T) {
	out, err := RemoveImport("from os import path\nx = 1\n", "os")
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", out)
}

func TestRemoveImport_Future(t *testing.T) {
	out, err := RemoveImport("from __future__ import annotations\nx = 1\n", "__future__")
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", out)
}

func TestRemoveImport_EmptyNameIsNoop(t *testing.T) {
	code := "import os\n"
	out, err := RemoveImport(code, "")
	require.NoError(t, err)
	assert.Equal(t, code, out)
}

func TestRemoveImport_NestedEmptiedBlock(t *testing.T) {
	out, err := RemoveImport("def f():\n    import os\n", "os")
	require.NoError(t, err)
	assert.Equal(t, "def f():\n    pass\n", out)
}

func TestRemoveImport_UnrelatedUntouched(t *testing.T) {
	code := "import sys\nfrom json import loads\n"
	out, err := RemoveImport(code, "os")
	require.NoError(t, err)
	assert.Equal(t, code, out)
}

func TestRemoveLocalImports(t *testing.T) {
	code := `from .local import thing
from os import path
import sys
`
	out, err := RemoveLocalImports(code)
	require.NoError(t, err)
	assert.Equal(t, "from os import path\nimport sys\n", out)

	// already clean input comes back unchanged
	again, err := RemoveLocalImports(out)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestRemoveLocalImports_Nested(t *testing.T) {
	out, err := RemoveLocalImports("def f():\n    from . import sibling\n    return sibling\n")
	require.NoError(t, err)
	assert.Equal(t, "def f():\n    return sibling\n", out)
}

func TestRewrittenOutputStillParses(t *testing.T) {
	code := `import typing
from .local import secret

if typing.TYPE_CHECKING:
    from os import path

db = DAL()


def migrate():
    db.commit()


def main():
    print("hello")
`
	out, err := RemoveIfFalseyBlocks(code)
	require.NoError(t, err)
	out, err = RemoveLocalImports(out)
	require.NoError(t, err)
	out, err = RemoveSpecificVariables(out)
	require.NoError(t, err)

	_, _, err = FindVariables(out, true)
	require.NoError(t, err, "rewritten source should still parse:\n%s", out)
	assert.False(t, strings.Contains(out, "db"))
	assert.Contains(t, out, "def main():")
}
