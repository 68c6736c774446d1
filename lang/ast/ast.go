// Package ast defines the abstract syntax tree produced by the parser: frame
// and macro definitions, using-blocks, and the instructions that make up a
// block's body. Every node carries a byte-offset Span; Block additionally
// carries the path of the file it was parsed from, stamped on after parsing
// (see StampFile) so the parser itself never needs to know file paths.
package ast

import (
	"github.com/mna/bfmac/lang/token"
)

// Node is implemented by every AST node.
type Node interface {
	// Span reports the byte range covered by the node.
	Span() (start, end token.Pos)

	// Walk visits the node's children, if any, with v.
	Walk(v Visitor)
}

// Definition is a top-level Program entry: Include, FrameDef, MacroDef or
// UsingDef.
type Definition interface {
	Node
	definition()
}

// Instruction is one statement inside a Block.
type Instruction interface {
	Node
	instruction()
}

// Argument is a macro-call argument: either a VariableArg (a dotted path
// into the caller's frame) or a BlockArg (inline code, captured as a
// closure over the caller's frame).
type Argument interface {
	Node
	argument()
}

// SlotDef is one entry in a FrameDef's slot list: VariableSlot or SubFrameSlot.
type SlotDef interface {
	Node
	slotDef()
}

// Param is one formal parameter in a MacroDef's parameter list: SlotParam,
// SubFrameParam or BlockParam.
type Param interface {
	Node
	param()
}

// Program is an ordered sequence of top-level definitions, the result of
// parsing one source file (includes are merged into a Scope later, not
// here: the parser only ever sees a single file at a time).
type Program struct {
	Defs []Definition
}

func (p *Program) Span() (start, end token.Pos) {
	if len(p.Defs) == 0 {
		return token.NoPos, token.NoPos
	}
	start, _ = p.Defs[0].Span()
	_, end = p.Defs[len(p.Defs)-1].Span()
	return start, end
}

func (p *Program) Walk(v Visitor) {
	for _, d := range p.Defs {
		Walk(v, d)
	}
}

// Identifier is a name plus the span it was written at.
type Identifier struct {
	Name  string
	Start token.Pos
}

func (id *Identifier) Span() (start, end token.Pos) {
	return id.Start, id.Start + token.Pos(len(id.Name))
}
func (id *Identifier) Walk(_ Visitor) {}

func (id *Identifier) String() string { return id.Name }

// Path is a dotted identifier chain such as a.b.c, naming a slot (possibly
// nested inside sub-frames) relative to some frame.
type Path struct {
	Idents []*Identifier
}

func (p *Path) Span() (start, end token.Pos) {
	start, _ = p.Idents[0].Span()
	_, end = p.Idents[len(p.Idents)-1].Span()
	return start, end
}
func (p *Path) Walk(v Visitor) {
	for _, id := range p.Idents {
		Walk(v, id)
	}
}

func (p *Path) String() string {
	s := p.Idents[0].Name
	for _, id := range p.Idents[1:] {
		s += "." + id.Name
	}
	return s
}
