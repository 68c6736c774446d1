// Package frame implements the frame resolver: converting a frame
// definition into a symbol table of absolute tape indices, and binding a
// macro's formal parameters to caller-supplied arguments to produce the
// frame in effect inside a macro body.
package frame

import (
	"fmt"

	"github.com/dolthub/swiss"

	"github.com/mna/bfmac/lang/ast"
	"github.com/mna/bfmac/lang/scope"
)

// Kind distinguishes the two symbol variants a Frame can hold.
type Kind int

const (
	// SlotKind is a tape cell (or nested sub-frame region).
	SlotKind Kind = iota
	// BlockKind is a block argument bound to a macro's block parameter.
	BlockKind
)

// Symbol is one entry in a Frame's symbol table.
type Symbol struct {
	Kind Kind

	// valid when Kind == SlotKind
	Index int
	Sub   *Frame // non-nil if this slot is itself a sub-frame

	// valid when Kind == BlockKind
	Block    *ast.Block
	Captured *Frame // the frame active at the macro's call site
}

// Frame is a resolved symbol table: names mapped to slots (absolute tape
// index, optional sub-frame) or to captured block arguments.
type Frame struct {
	Name    string
	symbols *swiss.Map[string, Symbol]
}

func newFrame(name string) *Frame {
	return &Frame{Name: name, symbols: swiss.NewMap[string, Symbol](8)}
}

// Size returns the frame's size in tape cells: the maximum, over every
// slot symbol, of the slot's index plus its sub-frame's size (or 1 for a
// plain variable slot). Block symbols do not occupy tape cells.
func (f *Frame) Size() int {
	max := 0
	f.symbols.Iter(func(_ string, sym Symbol) bool {
		if sym.Kind != SlotKind {
			return false
		}
		sz := sym.Index + 1
		if sym.Sub != nil {
			sz = sym.Index + sym.Sub.Size()
		}
		if sz > max {
			max = sz
		}
		return false
	})
	return max
}

// FromDefinition resolves def into a Frame, looking up any sub-frame names
// against sc. Sub-frame cycles (direct or transitive) are reported as a
// fatal error rather than recursing indefinitely.
func FromDefinition(def *ast.FrameDef, sc *scope.Scope) (*Frame, error) {
	return fromDefinition(def, sc, map[string]bool{})
}

func fromDefinition(def *ast.FrameDef, sc *scope.Scope, visiting map[string]bool) (*Frame, error) {
	name := def.Name.Name
	if visiting[name] {
		return nil, fmt.Errorf("frame %q refers to itself through a sub-frame cycle", name)
	}
	visiting[name] = true
	defer delete(visiting, name)

	f := newFrame(name)
	index := 0
	for _, slotDef := range def.Slots {
		switch sd := slotDef.(type) {
		case *ast.VariableSlot:
			f.symbols.Put(sd.Name.Name, Symbol{Kind: SlotKind, Index: index})
			index++

		case *ast.SubFrameSlot:
			subDef, ok := sc.Frames[sd.Frame.Name]
			if !ok {
				return nil, fmt.Errorf("no frame %q found", sd.Frame.Name)
			}
			sub, err := fromDefinition(subDef, sc, visiting)
			if err != nil {
				return nil, err
			}
			f.symbols.Put(sd.Name.Name, Symbol{Kind: SlotKind, Index: index, Sub: sub})
			index += sub.Size()

		default:
			return nil, fmt.Errorf("frame %q: unknown slot definition %T", name, slotDef)
		}
	}
	return f, nil
}

// Slot descends path through f's symbol table, resolving each component to
// a slot (never a block argument). It returns the leaf slot symbol and the
// absolute tape index accumulated from every ancestor's own index, or ok
// == false if any component does not name a slot or a path continues past
// a plain variable (no sub-frame to descend into).
func (f *Frame) Slot(path *ast.Path) (sym Symbol, absIndex int, ok bool) {
	cur := f
	for i, id := range path.Idents {
		s, found := cur.symbols.Get(id.Name)
		if !found || s.Kind != SlotKind {
			return Symbol{}, 0, false
		}
		absIndex += s.Index
		sym = s
		if i < len(path.Idents)-1 {
			if s.Sub == nil {
				return Symbol{}, 0, false
			}
			cur = s.Sub
		}
	}
	return sym, absIndex, true
}

// Lookup is the result of resolving a Variable instruction's path: either
// a plain slot at an absolute tape index, or a captured block argument to
// be inlined at the use site against its own captured frame.
type Lookup struct {
	IsBlock bool

	Index int
	Sub   *Frame

	Block    *ast.Block
	Captured *Frame
}

// Lookup resolves path for use at a Variable instruction site. If the
// head names a block argument, path must have exactly one component
// (dotting into a block argument is an error); otherwise it delegates to
// Slot.
func (f *Frame) Lookup(path *ast.Path) (Lookup, error) {
	head := path.Idents[0]
	if s, ok := f.symbols.Get(head.Name); ok && s.Kind == BlockKind {
		if len(path.Idents) > 1 {
			return Lookup{}, fmt.Errorf("%q is a block argument, it cannot be dotted into", head.Name)
		}
		return Lookup{IsBlock: true, Block: s.Block, Captured: s.Captured}, nil
	}
	sym, idx, ok := f.Slot(path)
	if !ok {
		return Lookup{}, fmt.Errorf("no variable %q found", path.String())
	}
	return Lookup{Index: idx, Sub: sym.Sub}, nil
}

// BindError is returned by MacroFrame when a parameter cannot be bound to
// its argument. Fatal is true for conditions the emitter cannot recover
// from within the current invocation (arity mismatch, or a Slot/SubFrame
// parameter given a block argument or vice versa) and false for a
// variable argument that names no slot in the caller's frame or a
// sub-frame name mismatch, which the emitter treats as reported: it skips
// this invocation and keeps emitting the rest of the block.
type BindError struct {
	Fatal bool
	Msg   string
}

func (e *BindError) Error() string { return e.Msg }

// MacroFrame builds the symbol table in effect inside macro's body for one
// invocation, binding each formal parameter to the corresponding
// call-site argument against caller, the frame active at the call site.
func MacroFrame(caller *Frame, macro *ast.MacroDef, args []ast.Argument) (*Frame, error) {
	if len(macro.Params) != len(args) {
		return nil, &BindError{Fatal: true, Msg: fmt.Sprintf(
			"macro %q expects %d argument(s), got %d", macro.Name.Name, len(macro.Params), len(args))}
	}

	f := newFrame(macro.Name.Name)
	for i, param := range macro.Params {
		arg := args[i]
		switch p := param.(type) {
		case *ast.SlotParam:
			va, ok := arg.(*ast.VariableArg)
			if !ok {
				return nil, &BindError{Fatal: true, Msg: fmt.Sprintf(
					"parameter %q expects a variable argument, not a block", p.Name.Name)}
			}
			sym, idx, ok := caller.Slot(va.Path)
			if !ok {
				return nil, &BindError{Fatal: false, Msg: fmt.Sprintf("no variable %q found", va.Path.String())}
			}
			f.symbols.Put(p.Name.Name, Symbol{Kind: SlotKind, Index: idx, Sub: sym.Sub})

		case *ast.SubFrameParam:
			va, ok := arg.(*ast.VariableArg)
			if !ok {
				return nil, &BindError{Fatal: true, Msg: fmt.Sprintf(
					"parameter %q expects a variable argument, not a block", p.Name.Name)}
			}
			sym, idx, ok := caller.Slot(va.Path)
			if !ok {
				return nil, &BindError{Fatal: false, Msg: fmt.Sprintf("no variable %q found", va.Path.String())}
			}
			if sym.Sub == nil || sym.Sub.Name != p.Frame.Name {
				return nil, &BindError{Fatal: false, Msg: fmt.Sprintf(
					"parameter %q expects a sub-frame %q", p.Name.Name, p.Frame.Name)}
			}
			f.symbols.Put(p.Name.Name, Symbol{Kind: SlotKind, Index: idx, Sub: sym.Sub})

		case *ast.BlockParam:
			ba, ok := arg.(*ast.BlockArg)
			if !ok {
				return nil, &BindError{Fatal: true, Msg: fmt.Sprintf(
					"parameter %q expects a block argument, not a variable", p.Name.Name)}
			}
			f.symbols.Put(p.Name.Name, Symbol{Kind: BlockKind, Block: ba.Body, Captured: caller})

		default:
			return nil, &BindError{Fatal: true, Msg: fmt.Sprintf(
				"macro %q: unknown parameter kind %T", macro.Name.Name, param)}
		}
	}
	return f, nil
}
