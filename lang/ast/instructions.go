package ast

import "github.com/mna/bfmac/lang/token"

// Block is an ordered sequence of instructions, spanning the braces that
// delimit it. File is stamped onto every block reachable from a parsed
// Program by StampFile, after parsing completes.
type Block struct {
	Lbrace, Rbrace token.Pos
	Instrs         []Instruction
	File           string
}

func (n *Block) Span() (start, end token.Pos) { return n.Lbrace, n.Rbrace + 1 }
func (n *Block) Walk(v Visitor) {
	for _, i := range n.Instrs {
		Walk(v, i)
	}
}

// AddInstr is the BF '+' atom.
type AddInstr struct{ Pos token.Pos }

// SubtractInstr is the BF '-' atom.
type SubtractInstr struct{ Pos token.Pos }

// InputInstr is the BF ',' atom.
type InputInstr struct{ Pos token.Pos }

// OutputInstr is the BF '.' atom.
type OutputInstr struct{ Pos token.Pos }

// OpenLoopInstr is the BF '[' atom.
type OpenLoopInstr struct{ Pos token.Pos }

// CloseLoopInstr is the BF ']' atom.
type CloseLoopInstr struct{ Pos token.Pos }

// LeftInstr is a raw '<' pointer motion, legal only inside a MovingBlock.
type LeftInstr struct{ Pos token.Pos }

// RightInstr is a raw '>' pointer motion, legal only inside a MovingBlock.
type RightInstr struct{ Pos token.Pos }

func (n *AddInstr) Span() (start, end token.Pos)      { return n.Pos, n.Pos + 1 }
func (n *AddInstr) Walk(_ Visitor)                    {}
func (n *AddInstr) instruction()                      {}
func (n *SubtractInstr) Span() (start, end token.Pos) { return n.Pos, n.Pos + 1 }
func (n *SubtractInstr) Walk(_ Visitor)                {}
func (n *SubtractInstr) instruction()                  {}
func (n *InputInstr) Span() (start, end token.Pos) { return n.Pos, n.Pos + 1 }
func (n *InputInstr) Walk(_ Visitor)                {}
func (n *InputInstr) instruction()                  {}
func (n *OutputInstr) Span() (start, end token.Pos) { return n.Pos, n.Pos + 1 }
func (n *OutputInstr) Walk(_ Visitor)                {}
func (n *OutputInstr) instruction()                  {}
func (n *OpenLoopInstr) Span() (start, end token.Pos) { return n.Pos, n.Pos + 1 }
func (n *OpenLoopInstr) Walk(_ Visitor)                {}
func (n *OpenLoopInstr) instruction()                  {}
func (n *CloseLoopInstr) Span() (start, end token.Pos) { return n.Pos, n.Pos + 1 }
func (n *CloseLoopInstr) Walk(_ Visitor)                {}
func (n *CloseLoopInstr) instruction()                  {}
func (n *LeftInstr) Span() (start, end token.Pos) { return n.Pos, n.Pos + 1 }
func (n *LeftInstr) Walk(_ Visitor)                {}
func (n *LeftInstr) instruction()                  {}
func (n *RightInstr) Span() (start, end token.Pos) { return n.Pos, n.Pos + 1 }
func (n *RightInstr) Walk(_ Visitor)                {}
func (n *RightInstr) instruction()                  {}

// MovingBlockInstr is an inner block where raw pointer motion is permitted but
// frame-aware access (Variable, MacroInvoke) is forbidden.
type MovingBlockInstr struct {
	Keyword token.Pos
	Body    *Block
}

func (n *MovingBlockInstr) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.Keyword, end
}
func (n *MovingBlockInstr) Walk(v Visitor) { Walk(v, n.Body) }
func (n *MovingBlockInstr) instruction()   {}

// VariableInstr moves the tape pointer to the slot named by Path.
type VariableInstr struct {
	Path *Path
}

func (n *VariableInstr) Span() (start, end token.Pos) { return n.Path.Span() }
func (n *VariableInstr) Walk(v Visitor)                { Walk(v, n.Path) }
func (n *VariableInstr) instruction()                  {}

// MacroInvokeInstr invokes a macro by name with the given arguments.
type MacroInvokeInstr struct {
	Name   *Identifier
	Lparen token.Pos
	Args   []Argument
	Rparen token.Pos
}

func (n *MacroInvokeInstr) Span() (start, end token.Pos) {
	start, _ = n.Name.Span()
	return start, n.Rparen + 1
}
func (n *MacroInvokeInstr) Walk(v Visitor) {
	Walk(v, n.Name)
	for _, a := range n.Args {
		Walk(v, a)
	}
}
func (n *MacroInvokeInstr) instruction() {}

// VariableArg is a macro-call argument naming a slot in the caller's frame.
type VariableArg struct {
	Path *Path
}

func (n *VariableArg) Span() (start, end token.Pos) { return n.Path.Span() }
func (n *VariableArg) Walk(v Visitor)                { Walk(v, n.Path) }
func (n *VariableArg) argument()                     {}

// BlockArg is a macro-call argument that is inline code, captured as a
// closure over the caller's frame.
type BlockArg struct {
	Body *Block
}

func (n *BlockArg) Span() (start, end token.Pos) { return n.Body.Span() }
func (n *BlockArg) Walk(v Visitor)                { Walk(v, n.Body) }
func (n *BlockArg) argument()                     {}

// StampFile sets File on block and every block reachable from it (moving
// blocks, nested using-blocks, and block arguments of macro invocations),
// so that later phases can attribute spans back to a source file without
// the parser itself needing to track file paths.
func StampFile(block *Block, file string) {
	block.File = file
	for _, instr := range block.Instrs {
		switch i := instr.(type) {
		case *MovingBlockInstr:
			StampFile(i.Body, file)
		case *UsingDef:
			StampFile(i.Body, file)
		case *MacroInvokeInstr:
			for _, a := range i.Args {
				if ba, ok := a.(*BlockArg); ok {
					StampFile(ba.Body, file)
				}
			}
		}
	}
}

// StampProgramFile stamps file onto every block reachable from p's
// top-level definitions (macro bodies and using-blocks).
func StampProgramFile(p *Program, file string) {
	for _, d := range p.Defs {
		switch def := d.(type) {
		case *MacroDef:
			StampFile(def.Body, file)
		case *UsingDef:
			StampFile(def.Body, file)
		}
	}
}
