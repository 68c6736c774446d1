package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mna/bfmac/lang/token"
)

func TestFilePositionFirstLine(t *testing.T) {
	fset := token.NewFileSet()
	f := fset.AddFile("a.bfm", 20)

	pos := f.Pos(0)
	p := f.Position(pos)
	assert.Equal(t, "a.bfm", p.Filename)
	assert.Equal(t, 1, p.Line)
	assert.Equal(t, 1, p.Column)

	pos = f.Pos(5)
	p = f.Position(pos)
	assert.Equal(t, 1, p.Line)
	assert.Equal(t, 6, p.Column)
}

func TestFilePositionAfterAddLine(t *testing.T) {
	// "abc\ndef\nghi", lines start at offsets 0, 4, 8.
	fset := token.NewFileSet()
	f := fset.AddFile("a.bfm", 11)
	f.AddLine(4)
	f.AddLine(8)

	p := f.Position(f.Pos(0))
	assert.Equal(t, 1, p.Line)
	assert.Equal(t, 1, p.Column)

	p = f.Position(f.Pos(3))
	assert.Equal(t, 1, p.Line)
	assert.Equal(t, 4, p.Column)

	p = f.Position(f.Pos(4))
	assert.Equal(t, 2, p.Line)
	assert.Equal(t, 1, p.Column)

	p = f.Position(f.Pos(6))
	assert.Equal(t, 2, p.Line)
	assert.Equal(t, 3, p.Column)

	p = f.Position(f.Pos(8))
	assert.Equal(t, 3, p.Line)
	assert.Equal(t, 1, p.Column)

	p = f.Position(f.Pos(10))
	assert.Equal(t, 3, p.Line)
	assert.Equal(t, 3, p.Column)
}

func TestFileAddLineIgnoresOutOfOrderAndDuplicate(t *testing.T) {
	fset := token.NewFileSet()
	f := fset.AddFile("a.bfm", 11)
	f.AddLine(4)
	f.AddLine(4) // duplicate, ignored
	f.AddLine(2) // out of order, ignored
	f.AddLine(8)

	p := f.Position(f.Pos(9))
	assert.Equal(t, 3, p.Line)
	assert.Equal(t, 2, p.Column)
}

func TestFileAddLineIgnoresOffsetAtOrPastSize(t *testing.T) {
	fset := token.NewFileSet()
	f := fset.AddFile("a.bfm", 5)
	f.AddLine(5) // == size, ignored
	f.AddLine(6) // > size, ignored

	p := f.Position(f.Pos(4))
	assert.Equal(t, 1, p.Line)
}

func TestFileOffsetClampsOutOfRangePos(t *testing.T) {
	fset := token.NewFileSet()
	f := fset.AddFile("a.bfm", 5)

	assert.Equal(t, 5, f.Offset(f.Pos(-1)))
	assert.Equal(t, 5, f.Offset(token.Pos(f.Base()+100)))
}

func TestFileSetPositionAcrossMultipleFiles(t *testing.T) {
	fset := token.NewFileSet()
	a := fset.AddFile("a.bfm", 4)
	b := fset.AddFile("b.bfm", 4)

	pa := fset.Position(a.Pos(2))
	assert.Equal(t, "a.bfm", pa.Filename)

	pb := fset.Position(b.Pos(2))
	assert.Equal(t, "b.bfm", pb.Filename)
}

func TestFileSetPositionUnknownPosIsZeroValue(t *testing.T) {
	fset := token.NewFileSet()
	fset.AddFile("a.bfm", 4)

	p := fset.Position(token.NoPos)
	assert.False(t, p.IsValid())
	assert.Equal(t, "-", p.String())
}

func TestPositionStringFormatting(t *testing.T) {
	p := token.Position{Filename: "a.bfm", Line: 3, Column: 7}
	assert.Equal(t, "a.bfm:3:7", p.String())

	p = token.Position{Filename: "a.bfm", Line: 3}
	assert.Equal(t, "a.bfm:3", p.String())

	p = token.Position{}
	assert.False(t, p.IsValid())
	assert.Equal(t, "-", p.String())
}
