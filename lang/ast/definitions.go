package ast

import "github.com/mna/bfmac/lang/token"

// Include requests that another file be parsed and merged into the scope.
type Include struct {
	Keyword token.Pos
	Path    string
	PathEnd token.Pos // end of the string literal (for span purposes)
}

func (n *Include) Span() (start, end token.Pos) { return n.Keyword, n.PathEnd }
func (n *Include) Walk(_ Visitor)                {}
func (n *Include) definition()                   {}

// FrameDef declares a named memory layout.
type FrameDef struct {
	Keyword token.Pos
	Name    *Identifier
	Lbrace  token.Pos
	Slots   []SlotDef
	Rbrace  token.Pos
}

func (n *FrameDef) Span() (start, end token.Pos) { return n.Keyword, n.Rbrace + 1 }
func (n *FrameDef) Walk(v Visitor) {
	Walk(v, n.Name)
	for _, s := range n.Slots {
		Walk(v, s)
	}
}
func (n *FrameDef) definition() {}

// VariableSlot is a single-cell slot in a FrameDef.
type VariableSlot struct {
	Name *Identifier
}

func (n *VariableSlot) Span() (start, end token.Pos) { return n.Name.Span() }
func (n *VariableSlot) Walk(v Visitor)                { Walk(v, n.Name) }
func (n *VariableSlot) slotDef()                      {}

// SubFrameSlot is a nested-frame slot in a FrameDef, e.g. `p : Pair`.
type SubFrameSlot struct {
	Name  *Identifier
	Frame *Identifier
}

func (n *SubFrameSlot) Span() (start, end token.Pos) {
	start, _ = n.Name.Span()
	_, end = n.Frame.Span()
	return start, end
}
func (n *SubFrameSlot) Walk(v Visitor) {
	Walk(v, n.Name)
	Walk(v, n.Frame)
}
func (n *SubFrameSlot) slotDef() {}

// MacroDef declares a named, parameterized, reusable block of instructions.
type MacroDef struct {
	Keyword token.Pos
	Name    *Identifier
	Lparen  token.Pos
	Params  []Param
	Rparen  token.Pos
	Body    *Block
}

func (n *MacroDef) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.Keyword, end
}
func (n *MacroDef) Walk(v Visitor) {
	Walk(v, n.Name)
	for _, p := range n.Params {
		Walk(v, p)
	}
	Walk(v, n.Body)
}
func (n *MacroDef) definition() {}

// SlotParam expects a Variable argument naming any slot.
type SlotParam struct {
	Name *Identifier
}

func (n *SlotParam) Span() (start, end token.Pos) { return n.Name.Span() }
func (n *SlotParam) Walk(v Visitor)                { Walk(v, n.Name) }
func (n *SlotParam) param()                        {}

// SubFrameParam expects a Variable argument whose slot carries a sub-frame
// named exactly Frame.
type SubFrameParam struct {
	Name  *Identifier
	Frame *Identifier
}

func (n *SubFrameParam) Span() (start, end token.Pos) {
	start, _ = n.Name.Span()
	_, end = n.Frame.Span()
	return start, end
}
func (n *SubFrameParam) Walk(v Visitor) {
	Walk(v, n.Name)
	Walk(v, n.Frame)
}
func (n *SubFrameParam) param() {}

// BlockParam expects a Block argument (inline, deferred code).
type BlockParam struct {
	Keyword token.Pos
	Name    *Identifier
}

func (n *BlockParam) Span() (start, end token.Pos) {
	_, end = n.Name.Span()
	return n.Keyword, end
}
func (n *BlockParam) Walk(v Visitor) { Walk(v, n.Name) }
func (n *BlockParam) param()         {}

// UsingDef fixes a frame for the duration of a block; it is both a
// top-level Definition (an emission entry point) and, nested, an
// Instruction (a region switching the active frame mid-block).
type UsingDef struct {
	Keyword token.Pos
	Frame   *Identifier
	Body    *Block
}

func (n *UsingDef) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.Keyword, end
}
func (n *UsingDef) Walk(v Visitor) {
	Walk(v, n.Frame)
	Walk(v, n.Body)
}
func (n *UsingDef) definition()  {}
func (n *UsingDef) instruction() {}
