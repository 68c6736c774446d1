package emitter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/bfmac/lang/emitter"
	"github.com/mna/bfmac/lang/parser"
	"github.com/mna/bfmac/lang/report"
	"github.com/mna/bfmac/lang/scope"
	"github.com/mna/bfmac/lang/token"
)

func compile(t *testing.T, src string) (string, error) {
	t.Helper()
	fset := token.NewFileSet()
	prog, err := parser.ParseFile(fset, "test.bfm", []byte(src))
	require.NoError(t, err)
	sc, err := scope.Build(fset, prog, ".", nil)
	require.NoError(t, err)
	return emitter.CompileProgram(fset, sc, false)
}

func TestEmitMinimumAccess(t *testing.T) {
	out, err := compile(t, `
		frame F { a b c }
		using F { b }
	`)
	require.NoError(t, err)
	assert.Equal(t, ">\n", out)
}

func TestEmitMoveWithinFrame(t *testing.T) {
	out, err := compile(t, `
		frame F { a b c }
		using F { c + a - }
	`)
	require.NoError(t, err)
	assert.Equal(t, ">>+<<-\n", out)
}

func TestEmitLoopDisciplineValid(t *testing.T) {
	out, err := compile(t, `
		frame F { x y }
		using F { x [ - ] }
	`)
	require.NoError(t, err)
	assert.Equal(t, "[-]\n", out)
}

func TestEmitLoopDisciplineInvalid(t *testing.T) {
	out, err := compile(t, `
		frame F { x y }
		using F { x [ y - ] }
	`)
	require.Error(t, err)
	assert.Equal(t, "[>-]\n", out)

	var el report.ErrorList
	require.ErrorAs(t, err, &el)
	require.Len(t, el, 1)
	assert.Contains(t, el[0].Msg, "same pointer")
}

func TestEmitMacroBlockArgumentCapturesCallerFrame(t *testing.T) {
	// Each inline of body starts from wherever the previous instruction in
	// the macro left the pointer, not from a. The first inline runs from a
	// (offset 0) and ends at b (offset 1); the second starts at b and must
	// move back to a before advancing to b again.
	out, err := compile(t, `
		frame F { a b }
		macro twice(block body) { body body }
		using F { twice({ a + b + }) }
	`)
	require.NoError(t, err)
	assert.Equal(t, "+>+<+>+\n", out)
}

func TestEmitSubFrameAccess(t *testing.T) {
	out, err := compile(t, `
		frame Pair { x y }
		frame Wrap { p : Pair q }
		using Wrap { p.y + q - }
	`)
	require.NoError(t, err)
	assert.Equal(t, ">+>-\n", out)
}

func TestEmitEmptyProgram(t *testing.T) {
	out, err := compile(t, ``)
	require.NoError(t, err)
	assert.Equal(t, "\n", out)
}

func TestEmitEmptyFrameSize(t *testing.T) {
	out, err := compile(t, `
		frame F { }
		using F { }
	`)
	require.NoError(t, err)
	assert.Equal(t, "\n", out)
}

func TestEmitMacroZeroParameters(t *testing.T) {
	out, err := compile(t, `
		frame F { a }
		macro zero() { a + }
		using F { zero() }
	`)
	require.NoError(t, err)
	assert.Equal(t, "+\n", out)
}

func TestEmitNestedUsingSwitchesFrame(t *testing.T) {
	out, err := compile(t, `
		frame F { a b }
		frame G { x y z }
		using F { b using G { z } }
	`)
	require.NoError(t, err)
	// b is at offset 1 in F; entering "using G" starts a fresh region at
	// offset 0 there, moves to z (offset 2, ">>"), and the inner region's
	// own net advance (2) folds back into F's outer frame_offset, though
	// nothing in F is accessed afterwards here.
	assert.Equal(t, ">>>\n", out)
}

func TestEmitMovingBlockTransparency(t *testing.T) {
	out, err := compile(t, `
		frame F { a b }
		using F { a moving { > > > < < < } b }
	`)
	require.NoError(t, err)
	// moving block leaves raw motion untouched and does not perturb
	// frame_offset: the subsequent "b" still computes its move from a.
	assert.Equal(t, ">>><<<>\n", out)
}

func TestEmitTwoUsingsIndependentOffsets(t *testing.T) {
	out, err := compile(t, `
		frame F { a b }
		using F { b }
		using F { b }
	`)
	require.NoError(t, err)
	assert.Equal(t, ">>\n", out)
}

func TestEmitUnknownFrameIsFatal(t *testing.T) {
	_, err := compile(t, `using Missing { + }`)
	require.Error(t, err)
	var el report.ErrorList
	assert.False(t, errorsAsErrorList(err, &el))
}

func TestEmitUnknownVariableIsReported(t *testing.T) {
	out, err := compile(t, `
		frame F { a }
		using F { missing }
	`)
	require.Error(t, err)
	assert.Equal(t, "\n", out)
}

func TestEmitUnknownMacroIsReported(t *testing.T) {
	out, err := compile(t, `
		frame F { a }
		using F { a missing() }
	`)
	require.Error(t, err)
	assert.Equal(t, "\n", out)
}

func TestEmitRawMotionOutsideMovingBlockIsReported(t *testing.T) {
	out, err := compile(t, `
		frame F { a }
		using F { > }
	`)
	require.Error(t, err)
	assert.Equal(t, "\n", out)
}

func TestEmitVariableInsideMovingBlockIsReported(t *testing.T) {
	_, err := compile(t, `
		frame F { a }
		using F { moving { a } }
	`)
	require.Error(t, err)
}

func TestEmitMacroArityMismatchIsFatal(t *testing.T) {
	_, err := compile(t, `
		frame F { a }
		macro m(x) { x + }
		using F { m() }
	`)
	require.Error(t, err)
	var el report.ErrorList
	assert.False(t, errorsAsErrorList(err, &el))
}

func TestEmitSubFrameMismatchIsReported(t *testing.T) {
	out, err := compile(t, `
		frame Pair { x y }
		frame Other { x y }
		frame F { p : Pair }
		macro m(s : Other) { + }
		using F { m(p) }
	`)
	require.Error(t, err)
	assert.Equal(t, "\n", out)
}

func errorsAsErrorList(err error, target *report.ErrorList) bool {
	el, ok := err.(report.ErrorList)
	if ok {
		*target = el
	}
	return ok
}
