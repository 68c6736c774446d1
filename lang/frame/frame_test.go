package frame_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/bfmac/lang/ast"
	"github.com/mna/bfmac/lang/frame"
	"github.com/mna/bfmac/lang/parser"
	"github.com/mna/bfmac/lang/scope"
	"github.com/mna/bfmac/lang/token"
)

func buildScope(t *testing.T, src string) *scope.Scope {
	t.Helper()
	fset := token.NewFileSet()
	prog, err := parser.ParseFile(fset, "test.bfm", []byte(src))
	require.NoError(t, err)
	sc, err := scope.Build(fset, prog, ".", func(string) ([]byte, error) { return nil, nil })
	require.NoError(t, err)
	return sc
}

func TestFromDefinitionSimpleLayout(t *testing.T) {
	sc := buildScope(t, `frame F { a b c }`)
	f, err := frame.FromDefinition(sc.Frames["F"], sc)
	require.NoError(t, err)
	assert.Equal(t, 3, f.Size())

	_, idx, ok := f.Slot(&ast.Path{Idents: []*ast.Identifier{{Name: "b"}}})
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestFromDefinitionSubFrame(t *testing.T) {
	sc := buildScope(t, `
		frame Pair { x y }
		frame Wrap { p : Pair q }
	`)
	f, err := frame.FromDefinition(sc.Frames["Wrap"], sc)
	require.NoError(t, err)
	assert.Equal(t, 3, f.Size())

	_, idx, ok := f.Slot(&ast.Path{Idents: []*ast.Identifier{{Name: "p"}, {Name: "y"}}})
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, idx, ok = f.Slot(&ast.Path{Idents: []*ast.Identifier{{Name: "q"}}})
	require.True(t, ok)
	assert.Equal(t, 2, idx)
}

func TestFromDefinitionDetectsDirectCycle(t *testing.T) {
	sc := buildScope(t, `frame F { p : F }`)
	_, err := frame.FromDefinition(sc.Frames["F"], sc)
	require.Error(t, err)
}

func TestFromDefinitionDetectsTransitiveCycle(t *testing.T) {
	sc := buildScope(t, `
		frame A { b : B }
		frame B { a : A }
	`)
	_, err := frame.FromDefinition(sc.Frames["A"], sc)
	require.Error(t, err)
}

func TestFromDefinitionAllowsDiamondNonCycle(t *testing.T) {
	sc := buildScope(t, `
		frame Pair { x y }
		frame Wrap { p : Pair q : Pair }
	`)
	f, err := frame.FromDefinition(sc.Frames["Wrap"], sc)
	require.NoError(t, err)
	assert.Equal(t, 4, f.Size())
}

func TestFromDefinitionMissingSubFrame(t *testing.T) {
	sc := buildScope(t, `frame F { p : Missing }`)
	_, err := frame.FromDefinition(sc.Frames["F"], sc)
	require.Error(t, err)
}

func TestMacroFrameBindsSlotAndSubFrameAndBlock(t *testing.T) {
	sc := buildScope(t, `
		frame Pair { x y }
		frame F { a p : Pair }
		macro m(s, pp : Pair, block body) { s + }
		using F { m(a, p, { + }) }
	`)
	caller, err := frame.FromDefinition(sc.Frames["F"], sc)
	require.NoError(t, err)

	using := sc.Usings[0]
	call := using.Body.Instrs[0].(*ast.MacroInvokeInstr)
	mf, err := frame.MacroFrame(caller, sc.Macros["m"], call.Args)
	require.NoError(t, err)

	lk, err := mf.Lookup(&ast.Path{Idents: []*ast.Identifier{{Name: "s"}}})
	require.NoError(t, err)
	assert.Equal(t, 0, lk.Index)

	_, idx, ok := mf.Slot(&ast.Path{Idents: []*ast.Identifier{{Name: "pp"}}})
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	lk, err = mf.Lookup(&ast.Path{Idents: []*ast.Identifier{{Name: "body"}}})
	require.NoError(t, err)
	assert.True(t, lk.IsBlock)
	assert.Same(t, caller, lk.Captured)
}

func TestMacroFrameArityMismatch(t *testing.T) {
	sc := buildScope(t, `
		frame F { a }
		macro m(x) { x + }
		using F { m(a) }
	`)
	caller, err := frame.FromDefinition(sc.Frames["F"], sc)
	require.NoError(t, err)
	_, err = frame.MacroFrame(caller, sc.Macros["m"], nil)
	require.Error(t, err)
}

func TestMacroFrameSubFrameMismatch(t *testing.T) {
	sc := buildScope(t, `
		frame Pair { x y }
		frame Other { x y }
		frame F { a p : Pair }
		macro m(pp : Other) { + }
		using F { m(p) }
	`)
	caller, err := frame.FromDefinition(sc.Frames["F"], sc)
	require.NoError(t, err)
	using := sc.Usings[0]
	call := using.Body.Instrs[0].(*ast.MacroInvokeInstr)
	_, err = frame.MacroFrame(caller, sc.Macros["m"], call.Args)
	require.Error(t, err)
}
