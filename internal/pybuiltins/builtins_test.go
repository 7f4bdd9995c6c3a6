package pybuiltins

import "testing"

func TestNames(t *testing.T) {
	names := Names()

	for _, want := range []string{"print", "len", "range", "True", "None", "ValueError", "__name__"} {
		if !names[want] {
			t.Errorf("expected builtin %q", want)
		}
	}
	if names["not_a_builtin"] {
		t.Error("unexpected entry not_a_builtin")
	}
	if names[""] {
		t.Error("blank lines must not produce entries")
	}
}

func TestNamesIsStable(t *testing.T) {
	if len(Names()) != len(Names()) {
		t.Error("repeated calls should return the same set")
	}
}
