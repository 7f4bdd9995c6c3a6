package witchery

import (
	"fmt"
	"strings"
)

// emptyClassSource is the Python definition of the placeholder value: falsy,
// textually empty, and absorbing every attribute access, item access, call
// and descriptor lookup by returning itself. Iteration yields the instance
// exactly once so `set(empty)` and friends terminate. `__add__` is
// deliberately asymmetric: only `empty + x` folds away into `x`.
const emptyClassSource = `class Empty:
    """
    Placeholder that absorbs any interaction and yields itself.

    Safe to bind to unresolved names: chained attribute or item access,
    calls and iteration all keep working without raising.
    """

    def __init__(self, *_: Any, **__: Any) -> None:
        """Accepts and ignores any arguments."""

    def __bool__(self) -> bool:
        """Falsy, so it can be or-ed away."""
        return False

    def __getattribute__(self, _: str) -> Self:
        return self

    def __getitem__(self, _: Any) -> Self:
        return self

    def __get__(self, *_: Any) -> Self:
        """Used as a property on another class."""
        return self

    def __call__(self, *_: Any, **__: Any) -> Self:
        return self

    def __iter__(self) -> typing.Generator[Self, Any, None]:
        """Yields exactly one item: the instance itself."""
        yield self

    def __str__(self) -> str:
        return ""

    def __repr__(self) -> str:
        return ""

    def __add__(self, other: T) -> T:
        """empty + [] == []"""
        return other`

// GenerateMagicCode emits a self-contained Python fragment that defines the
// placeholder type, constructs one shared instance, and binds every missing
// name to it. Executing the fragment after the analyzed snippet makes each
// of those names resolvable. Bindings are emitted in sorted order so the
// output is deterministic.
func GenerateMagicCode(missingVars Names) string {
	var b strings.Builder
	b.WriteString("import typing; from typing import Any; ")
	b.WriteString("from typing_extensions import Self; ")
	b.WriteString("T = typing.TypeVar('T', bound=Any); ")
	b.WriteString("\n")
	b.WriteString(emptyClassSource)
	b.WriteString("\n\nempty = Empty()\n")
	for _, name := range missingVars.Sorted() {
		fmt.Fprintf(&b, "%s = empty; ", name)
	}
	return b.String()
}
