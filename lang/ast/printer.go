package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/mna/bfmac/lang/token"
)

// label returns a short, human-readable description of n, used by Printer.
func label(n Node) string {
	switch n := n.(type) {
	case *Program:
		return "program"
	case *Include:
		return fmt.Sprintf("include %q", n.Path)
	case *FrameDef:
		return "frame " + n.Name.Name
	case *VariableSlot:
		return "slot " + n.Name.Name
	case *SubFrameSlot:
		return fmt.Sprintf("slot %s : %s", n.Name.Name, n.Frame.Name)
	case *MacroDef:
		return "macro " + n.Name.Name
	case *SlotParam:
		return "param " + n.Name.Name
	case *SubFrameParam:
		return fmt.Sprintf("param %s : %s", n.Name.Name, n.Frame.Name)
	case *BlockParam:
		return "param block " + n.Name.Name
	case *UsingDef:
		return "using " + n.Frame.Name
	case *Block:
		return fmt.Sprintf("block {%d}", len(n.Instrs))
	case *AddInstr:
		return "+"
	case *SubtractInstr:
		return "-"
	case *InputInstr:
		return ","
	case *OutputInstr:
		return "."
	case *OpenLoopInstr:
		return "["
	case *CloseLoopInstr:
		return "]"
	case *LeftInstr:
		return "<"
	case *RightInstr:
		return ">"
	case *MovingBlockInstr:
		return "moving"
	case *VariableInstr:
		return "var " + n.Path.String()
	case *MacroInvokeInstr:
		return fmt.Sprintf("call %s(%d)", n.Name.Name, len(n.Args))
	case *VariableArg:
		return "arg " + n.Path.String()
	case *BlockArg:
		return "arg block"
	case *Identifier:
		return n.Name
	case *Path:
		return n.String()
	default:
		return fmt.Sprintf("%T", n)
	}
}

// Printer pretty-prints an AST as an indented tree, one node per line,
// optionally prefixed with its source position.
type Printer struct {
	Output io.Writer
	Pos    token.PosMode
	File   *token.File
}

func (p *Printer) Print(n Node) error {
	pp := &printer{w: p.Output, pos: p.Pos, file: p.File}
	Walk(pp, n)
	return pp.err
}

type printer struct {
	w     io.Writer
	pos   token.PosMode
	file  *token.File
	depth int
	err   error
}

func (p *printer) Visit(n Node, dir VisitDirection) Visitor {
	if dir == VisitExit || p.err != nil {
		p.depth--
		return nil
	}
	p.depth++
	p.printNode(n, p.depth-1)
	return p
}

func (p *printer) printNode(n Node, indent int) {
	if p.err != nil {
		return
	}
	prefix := strings.Repeat(". ", indent)
	if p.pos != token.PosNone && p.file != nil {
		start, end := n.Span()
		_, p.err = fmt.Fprintf(p.w, "%s[%s:%s] %s\n", prefix,
			token.FormatPos(p.pos, p.file, start), token.FormatPos(p.pos, p.file, end), label(n))
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", prefix, label(n))
}
