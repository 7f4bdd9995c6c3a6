package witchery

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const callFixture = `def main(db):
    pass


def other():
    pass
`

func TestFindFunctionToCall(t *testing.T) {
	name, err := FindFunctionToCall(callFixture, "main")
	require.NoError(t, err)
	assert.Equal(t, "main", name)

	name, err = FindFunctionToCall(callFixture, "main(1, 2)")
	require.NoError(t, err)
	assert.Equal(t, "main", name)

	name, err = FindFunctionToCall(callFixture, "missing")
	require.NoError(t, err)
	assert.Equal(t, "", name)
}

func TestFindFunctionToCall_Method(t *testing.T) {
	code := "class App:\n    def run(self):\n        pass\n"
	name, err := FindFunctionToCall(code, "run()")
	require.NoError(t, err)
	assert.Equal(t, "run", name)
}

func TestExtractFunctionDetails(t *testing.T) {
	cases := []struct {
		hint     string
		wantName string
		wantArgs []string
	}{
		{"main", "main", []string{"db"}},
		{"main()", "main", []string{"db"}},
		{"main(1, 2)", "main", []string{"1", "2"}},
		{"main(arg)", "main", []string{"arg"}},
		{`main("first", 'second')`, "main", []string{`"first"`, `'second'`}},
		{"main(pos, key=1)", "main", []string{"pos"}},
		{"main(**extra)", "main", []string{"db"}},
		{"syntax_error(", "", nil},
	}
	for _, tc := range cases {
		name, args := ExtractFunctionDetails(tc.hint, DefaultCallArgs)
		assert.Equal(t, tc.wantName, name, tc.hint)
		if diff := cmp.Diff(tc.wantArgs, args); diff != "" {
			t.Errorf("args mismatch for %q (-want +got):\n%s", tc.hint, diff)
		}
	}
}

func TestExtractFunctionDetails_CopiesDefaults(t *testing.T) {
	defaults := []string{"db"}
	_, args := ExtractFunctionDetails("main", defaults)
	args[0] = "mutated"
	assert.Equal(t, "db", defaults[0])
}

func TestAddFunctionCall(t *testing.T) {
	code := "def main(db):\n    pass\n\nother = 1\n"
	out, err := AddFunctionCall(code, "main", DefaultCallArgs, false)
	require.NoError(t, err)
	assert.Equal(t, "def main(db):\n    pass\nmain(db)\n\nother = 1\n", out)
}

func TestAddFunctionCall_HintArguments(t *testing.T) {
	code := "def main(a, b):\n    pass\n"
	out, err := AddFunctionCall(code, "main(1, 2)", DefaultCallArgs, false)
	require.NoError(t, err)
	assert.Equal(t, "def main(a, b):\n    pass\nmain(1, 2)\n", out)
}

func TestAddFunctionCall_Decorated(t *testing.T) {
	code := "@deco\ndef main(db):\n    pass\n"
	out, err := AddFunctionCall(code, "main()", DefaultCallArgs, false)
	require.NoError(t, err)
	assert.Equal(t, "@deco\ndef main(db):\n    pass\nmain(db)\n", out)
}

func TestAddFunctionCall_Multiple(t *testing.T) {
	code := "def f(db):\n    pass\n\ndef f(db):\n    pass\n"

	single, err := AddFunctionCall(code, "f", DefaultCallArgs, false)
	require.NoError(t, err)
	assert.Equal(t, "def f(db):\n    pass\nf(db)\n\ndef f(db):\n    pass\n", single)

	both, err := AddFunctionCall(code, "f", DefaultCallArgs, true)
	require.NoError(t, err)
	assert.Equal(t, "def f(db):\n    pass\nf(db)\n\ndef f(db):\n    pass\nf(db)\n", both)
}

func TestAddFunctionCall_UnusableHint(t *testing.T) {
	_, err := AddFunctionCall(callFixture, "syntax_error(", DefaultCallArgs, false)
	assert.Error(t, err)
}

func TestAddFunctionCall_UndefinedFunctionLeavesCodeAlone(t *testing.T) {
	out, err := AddFunctionCall(callFixture, "nonexistent", DefaultCallArgs, false)
	require.NoError(t, err)
	assert.Equal(t, callFixture, out)
}

func TestAddFunctionCall_OutputParses(t *testing.T) {
	out, err := AddFunctionCall(callFixture, "main", DefaultCallArgs, false)
	require.NoError(t, err)
	_, _, err = FindVariables(out, true)
	require.NoError(t, err)
}
