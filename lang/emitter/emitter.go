// Package emitter implements the three mutually recursive emission modes
// that turn a resolved Scope's using-regions into a linear brainfuck
// stream: frame-aware emission (tracking a frame_offset so variable
// access compiles to the minimal run of '<'/'>'), raw moving-block
// emission, and the using-region entry point that ties a frame to a
// block.
package emitter

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mna/bfmac/lang/ast"
	"github.com/mna/bfmac/lang/frame"
	"github.com/mna/bfmac/lang/report"
	"github.com/mna/bfmac/lang/scope"
	"github.com/mna/bfmac/lang/token"
)

// Emitter walks using-regions against a Scope, accumulating reported
// (non-fatal) diagnostics while writing brainfuck to an internal buffer.
// A fatal condition (unknown using-frame, macro arity/kind mismatch,
// sub-frame cycle) aborts emission of the current file entirely and is
// returned as a plain error, distinct from the accumulated ErrorList.
type Emitter struct {
	fset     *token.FileSet
	scope    *scope.Scope
	errors   report.ErrorList
	out      bytes.Buffer
	comments bool
}

// New creates an Emitter over sc, resolving positions against fset. When
// withComments is true, macro and using boundaries are annotated with
// "# name" comment lines in the output (ignored by every BF interpreter).
func New(fset *token.FileSet, sc *scope.Scope, withComments bool) *Emitter {
	return &Emitter{fset: fset, scope: sc, comments: withComments}
}

// Errors returns the accumulated reported diagnostics. A non-nil, non-empty
// result means emission completed but should be treated as a failure.
func (e *Emitter) Errors() report.ErrorList { return e.errors }

func (e *Emitter) report(pos token.Pos, msg string) {
	e.errors.Add(e.fset.Position(pos), msg)
}

// CompileProgram emits BF for every top-level using-region in sc (including
// those contributed by included files, already merged into sc.Usings), in
// program order, to a single combined stream followed by a trailing
// newline. A fatal error aborts with no output; otherwise the output is
// always returned, even if reported errors occurred, per the "surface as
// many diagnostics as possible" policy.
func CompileProgram(fset *token.FileSet, sc *scope.Scope, withComments bool) (string, error) {
	e := New(fset, sc, withComments)
	for _, using := range sc.Usings {
		if _, err := e.EmitUsing(using); err != nil {
			return "", err
		}
	}
	e.out.WriteByte('\n')
	return e.out.String(), e.errors.Err()
}

// EmitUsing opens a fresh top-level Frame for using.Frame and emits its
// block in frame-aware mode starting at offset 0. An unknown frame name,
// or a sub-frame cycle discovered while resolving it, is fatal.
func (e *Emitter) EmitUsing(using *ast.UsingDef) (int, error) {
	def, ok := e.scope.Frames[using.Frame.Name]
	if !ok {
		return 0, fmt.Errorf("no frame %q found", using.Frame.Name)
	}
	fr, err := frame.FromDefinition(def, e.scope)
	if err != nil {
		return 0, err
	}
	if e.comments {
		fmt.Fprintf(&e.out, "\n# using %s\n", using.Frame.Name)
	}
	return e.emit(fr, 0, using.Body)
}

// emit is the frame-aware mode: it tracks frame_offset, the tape cell
// currently under the pointer expressed in fr's coordinates, and a stack
// of offsets at each unclosed '['. It returns the frame_offset at block
// exit, so callers (nested using-regions, macro invocations, block
// arguments) can account for any net pointer advance.
func (e *Emitter) emit(fr *frame.Frame, offset int, block *ast.Block) (int, error) {
	var loopStack []int

	for _, instr := range block.Instrs {
		switch ins := instr.(type) {
		case *ast.AddInstr:
			e.out.WriteByte('+')
		case *ast.SubtractInstr:
			e.out.WriteByte('-')
		case *ast.InputInstr:
			e.out.WriteByte(',')
		case *ast.OutputInstr:
			e.out.WriteByte('.')

		case *ast.OpenLoopInstr:
			loopStack = append(loopStack, offset)
			e.out.WriteByte('[')

		case *ast.CloseLoopInstr:
			if len(loopStack) == 0 {
				e.report(ins.Pos, "too many closing brackets")
			} else {
				start := loopStack[len(loopStack)-1]
				loopStack = loopStack[:len(loopStack)-1]
				if start != offset {
					e.report(ins.Pos, "must exit a loop at the same pointer that you entered")
				}
			}
			e.out.WriteByte(']')

		case *ast.LeftInstr:
			e.report(ins.Pos, "can only use manual pointer movement inside a moving block")
		case *ast.RightInstr:
			e.report(ins.Pos, "can only use manual pointer movement inside a moving block")

		case *ast.MovingBlockInstr:
			if err := e.emitMoving(ins.Body); err != nil {
				return offset, err
			}

		case *ast.UsingDef:
			adv, err := e.EmitUsing(ins)
			if err != nil {
				return offset, err
			}
			offset += adv

		case *ast.VariableInstr:
			lk, err := fr.Lookup(ins.Path)
			if err != nil {
				start, _ := ins.Path.Span()
				e.report(start, err.Error())
				continue
			}
			if lk.IsBlock {
				newOffset, err := e.emit(lk.Captured, offset, lk.Block)
				if err != nil {
					return offset, err
				}
				offset = newOffset
			} else {
				e.move(offset, lk.Index)
				offset = lk.Index
			}

		case *ast.MacroInvokeInstr:
			macroDef, ok := e.scope.Macros[ins.Name.Name]
			if !ok {
				e.report(ins.Name.Start, fmt.Sprintf("no macro %q found", ins.Name.Name))
				continue
			}
			bodyFrame, err := frame.MacroFrame(fr, macroDef, ins.Args)
			if err != nil {
				var be *frame.BindError
				if errors.As(err, &be) && !be.Fatal {
					e.report(ins.Name.Start, be.Msg)
					continue
				}
				return offset, err
			}
			if e.comments {
				fmt.Fprintf(&e.out, "\n\n# %s\n", ins.Name.Name)
			}
			newOffset, err := e.emit(bodyFrame, offset, macroDef.Body)
			if err != nil {
				return offset, err
			}
			offset = newOffset
		}
	}

	if len(loopStack) > 0 {
		_, end := block.Span()
		e.report(end, "too many open brackets")
	}
	return offset, nil
}

// move emits the minimal run of '<' or '>' to go from the tape cell "from"
// to "to", both expressed in the same frame's coordinates.
func (e *Emitter) move(from, to int) {
	switch {
	case to > from:
		for i := 0; i < to-from; i++ {
			e.out.WriteByte('>')
		}
	case to < from:
		for i := 0; i < from-to; i++ {
			e.out.WriteByte('<')
		}
	}
}

// emitMoving is the raw mode used inside a MovingBlock: BF atoms are
// emitted verbatim and bracket balance is tracked locally, but frame-aware
// access (Variable, MacroInvoke) is an error, since the compiler has lost
// track of the pointer's position the moment it enters a moving block.
func (e *Emitter) emitMoving(block *ast.Block) error {
	depth := 0

	for _, instr := range block.Instrs {
		switch ins := instr.(type) {
		case *ast.AddInstr:
			e.out.WriteByte('+')
		case *ast.SubtractInstr:
			e.out.WriteByte('-')
		case *ast.InputInstr:
			e.out.WriteByte(',')
		case *ast.OutputInstr:
			e.out.WriteByte('.')
		case *ast.LeftInstr:
			e.out.WriteByte('<')
		case *ast.RightInstr:
			e.out.WriteByte('>')

		case *ast.OpenLoopInstr:
			depth++
			e.out.WriteByte('[')

		case *ast.CloseLoopInstr:
			if depth == 0 {
				e.report(ins.Pos, "too many closing brackets")
			} else {
				depth--
			}
			e.out.WriteByte(']')

		case *ast.MovingBlockInstr:
			if err := e.emitMoving(ins.Body); err != nil {
				return err
			}

		case *ast.UsingDef:
			if _, err := e.EmitUsing(ins); err != nil {
				return err
			}

		case *ast.VariableInstr:
			start, _ := ins.Path.Span()
			e.report(start, "cannot access variables from inside a moving block")

		case *ast.MacroInvokeInstr:
			e.report(ins.Name.Start, "cannot access macros from inside a moving block")
		}
	}

	if depth > 0 {
		_, end := block.Span()
		e.report(end, "too many open brackets")
	}
	return nil
}
