package scope_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/bfmac/lang/parser"
	"github.com/mna/bfmac/lang/scope"
	"github.com/mna/bfmac/lang/token"
)

func build(t *testing.T, root string, files map[string]string) (*scope.Scope, error) {
	t.Helper()
	fset := token.NewFileSet()
	prog, err := parser.ParseFile(fset, root, []byte(files[root]))
	require.NoError(t, err)
	read := func(path string) ([]byte, error) {
		src, ok := files[path]
		if !ok {
			return nil, fmt.Errorf("no such file %q", path)
		}
		return []byte(src), nil
	}
	return scope.Build(fset, prog, ".", read)
}

func TestBuildCollectsFramesAndMacros(t *testing.T) {
	s, err := build(t, "root.bfm", map[string]string{
		"root.bfm": `
			frame F { a b }
			macro inc(x) { x + }
			using F { inc(a) }
		`,
	})
	require.NoError(t, err)
	require.Contains(t, s.Frames, "F")
	require.Contains(t, s.Macros, "inc")
	require.Len(t, s.Usings, 1)
}

func TestBuildFollowsIncludes(t *testing.T) {
	s, err := build(t, "root.bfm", map[string]string{
		"root.bfm":   `include "common.bfm"` + "\n" + `using F { a }`,
		"common.bfm": `frame F { a b }`,
	})
	require.NoError(t, err)
	assert.Contains(t, s.Frames, "F")
}

func TestBuildDedupsRepeatedInclude(t *testing.T) {
	s, err := build(t, "root.bfm", map[string]string{
		"root.bfm": `include "common.bfm"` + "\n" +
			`include "common.bfm"` + "\n" +
			`using F { a }`,
		"common.bfm": `frame F { a }`,
	})
	require.NoError(t, err)
	assert.Len(t, s.Frames, 1)
}

func TestBuildRejectsDuplicateFrame(t *testing.T) {
	_, err := build(t, "root.bfm", map[string]string{
		"root.bfm": `frame F { a }` + "\n" + `frame F { b }`,
	})
	require.Error(t, err)
}

func TestBuildRejectsDuplicateMacro(t *testing.T) {
	_, err := build(t, "root.bfm", map[string]string{
		"root.bfm": `macro m() { + }` + "\n" + `macro m() { - }`,
	})
	require.Error(t, err)
}

func TestBuildRejectsMissingInclude(t *testing.T) {
	_, err := build(t, "root.bfm", map[string]string{
		"root.bfm": `include "missing.bfm"`,
	})
	require.Error(t, err)
}
