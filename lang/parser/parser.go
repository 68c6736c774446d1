// Package parser implements the recursive-descent parser that transforms
// macro-language source into an *ast.Program.
package parser

import (
	"errors"
	"fmt"

	"github.com/mna/bfmac/lang/ast"
	"github.com/mna/bfmac/lang/report"
	"github.com/mna/bfmac/lang/scanner"
	"github.com/mna/bfmac/lang/token"
)

// ParseFile parses the source of a single file, adding it to fset under
// filename, and returns the resulting Program. A non-nil error is always a
// report.ErrorList. Includes named by the program are not resolved here;
// that is the scope builder's job.
func ParseFile(fset *token.FileSet, filename string, src []byte) (*ast.Program, error) {
	var p parser
	p.init(fset, filename, src)
	prog := p.parseProgram()
	ast.StampProgramFile(prog, filename)
	p.errors.Sort()
	return prog, p.errors.Err()
}

// errBailout is panicked by expect on the first fatal syntax error and
// recovered at the parseProgram level: a file with a syntax error anywhere
// in it fails to parse entirely, it is not partially compiled.
var errBailout = errors.New("parser bailout")

type parser struct {
	scanner scanner.Scanner
	errors  report.ErrorList
	file    *token.File

	tok token.Token // current lookahead token
}

func (p *parser) init(fset *token.FileSet, filename string, src []byte) {
	p.file = fset.AddFile(filename, len(src))
	p.scanner.Init(p.file, src, p.errors.Add)
	p.advance()
}

func (p *parser) advance() {
	p.tok = p.scanner.Scan()
}

func (p *parser) pos() token.Pos { return p.tok.Span.Start }

func (p *parser) error(pos token.Pos, msg string) {
	p.errors.Add(p.file.Position(pos), msg)
}

// expect consumes the current token if it has kind k and returns its
// position, otherwise it records an error and unwinds parsing of the
// current file via errBailout.
func (p *parser) expect(k token.Kind) token.Pos {
	pos := p.pos()
	if p.tok.Kind != k {
		p.error(pos, fmt.Sprintf("expected %s, found %s", k, describe(p.tok)))
		panic(errBailout)
	}
	p.advance()
	return pos
}

func describe(t token.Token) string {
	if t.Lit != "" {
		return fmt.Sprintf("%q", t.Lit)
	}
	return t.Kind.String()
}

func (p *parser) parseIdent() *ast.Identifier {
	pos := p.pos()
	if p.tok.Kind != token.IDENT {
		p.error(pos, fmt.Sprintf("expected identifier, found %s", describe(p.tok)))
		panic(errBailout)
	}
	name := p.tok.Lit
	p.advance()
	return &ast.Identifier{Name: name, Start: pos}
}

func (p *parser) parseProgram() (prog *ast.Program) {
	prog = &ast.Program{}
	defer func() {
		if r := recover(); r != nil {
			if r != errBailout {
				panic(r)
			}
		}
	}()
	for p.tok.Kind != token.EOF {
		prog.Defs = append(prog.Defs, p.parseDefinition())
	}
	return prog
}

func (p *parser) parseDefinition() ast.Definition {
	switch p.tok.Kind {
	case token.INCLUDE:
		return p.parseInclude()
	case token.FRAME:
		return p.parseFrameDef()
	case token.MACRO:
		return p.parseMacroDef()
	case token.USING:
		return p.parseUsingDef()
	default:
		p.error(p.pos(), fmt.Sprintf("expected include, frame, macro or using, found %s", describe(p.tok)))
		panic(errBailout)
	}
}

func (p *parser) parseInclude() *ast.Include {
	kw := p.expect(token.INCLUDE)
	pos := p.pos()
	if p.tok.Kind != token.STRING {
		p.error(pos, fmt.Sprintf("expected string literal, found %s", describe(p.tok)))
		panic(errBailout)
	}
	path := p.tok.Lit
	end := p.tok.Span.End
	p.advance()
	return &ast.Include{Keyword: kw, Path: path, PathEnd: end}
}

func (p *parser) parseFrameDef() *ast.FrameDef {
	kw := p.expect(token.FRAME)
	name := p.parseIdent()
	lbrace := p.expect(token.LBRACE)
	var slots []ast.SlotDef
	for p.tok.Kind != token.RBRACE {
		slots = append(slots, p.parseSlotDef())
	}
	rbrace := p.expect(token.RBRACE)
	return &ast.FrameDef{Keyword: kw, Name: name, Lbrace: lbrace, Slots: slots, Rbrace: rbrace}
}

func (p *parser) parseSlotDef() ast.SlotDef {
	name := p.parseIdent()
	if p.tok.Kind == token.COLON {
		p.advance()
		frame := p.parseIdent()
		return &ast.SubFrameSlot{Name: name, Frame: frame}
	}
	return &ast.VariableSlot{Name: name}
}

func (p *parser) parseMacroDef() *ast.MacroDef {
	kw := p.expect(token.MACRO)
	name := p.parseIdent()
	lparen := p.expect(token.LPAREN)
	var params []ast.Param
	if p.tok.Kind != token.RPAREN {
		params = append(params, p.parseParam())
		for p.tok.Kind == token.COMMA {
			p.advance()
			params = append(params, p.parseParam())
		}
	}
	rparen := p.expect(token.RPAREN)
	body := p.parseBlock()
	return &ast.MacroDef{Keyword: kw, Name: name, Lparen: lparen, Params: params, Rparen: rparen, Body: body}
}

func (p *parser) parseParam() ast.Param {
	if p.tok.Kind == token.BLOCK {
		kw := p.pos()
		p.advance()
		name := p.parseIdent()
		return &ast.BlockParam{Keyword: kw, Name: name}
	}
	name := p.parseIdent()
	if p.tok.Kind == token.COLON {
		p.advance()
		frame := p.parseIdent()
		return &ast.SubFrameParam{Name: name, Frame: frame}
	}
	return &ast.SlotParam{Name: name}
}

func (p *parser) parseUsingDef() *ast.UsingDef {
	kw := p.expect(token.USING)
	frame := p.parseIdent()
	body := p.parseBlock()
	return &ast.UsingDef{Keyword: kw, Frame: frame, Body: body}
}

func (p *parser) parseBlock() *ast.Block {
	lbrace := p.expect(token.LBRACE)
	var instrs []ast.Instruction
	for p.tok.Kind != token.RBRACE {
		instrs = append(instrs, p.parseInstruction())
	}
	rbrace := p.expect(token.RBRACE)
	return &ast.Block{Lbrace: lbrace, Rbrace: rbrace, Instrs: instrs}
}

func (p *parser) parseInstruction() ast.Instruction {
	switch p.tok.Kind {
	case token.PLUS:
		pos := p.pos()
		p.advance()
		return &ast.AddInstr{Pos: pos}
	case token.MINUS:
		pos := p.pos()
		p.advance()
		return &ast.SubtractInstr{Pos: pos}
	case token.COMMA:
		pos := p.pos()
		p.advance()
		return &ast.InputInstr{Pos: pos}
	case token.DOT:
		pos := p.pos()
		p.advance()
		return &ast.OutputInstr{Pos: pos}
	case token.LBRACK:
		pos := p.pos()
		p.advance()
		return &ast.OpenLoopInstr{Pos: pos}
	case token.RBRACK:
		pos := p.pos()
		p.advance()
		return &ast.CloseLoopInstr{Pos: pos}
	case token.LT:
		pos := p.pos()
		p.advance()
		return &ast.LeftInstr{Pos: pos}
	case token.GT:
		pos := p.pos()
		p.advance()
		return &ast.RightInstr{Pos: pos}
	case token.MOVING:
		kw := p.pos()
		p.advance()
		body := p.parseBlock()
		return &ast.MovingBlockInstr{Keyword: kw, Body: body}
	case token.USING:
		return p.parseUsingDef()
	case token.IDENT:
		return p.parsePathOrCall()
	default:
		p.error(p.pos(), fmt.Sprintf("expected an instruction, found %s", describe(p.tok)))
		panic(errBailout)
	}
}

// parsePathOrCall parses either a dotted variable path (a.b.c) or a macro
// invocation (name(args)); both start with an identifier, disambiguated by
// whether '(' follows the first identifier.
func (p *parser) parsePathOrCall() ast.Instruction {
	first := p.parseIdent()
	if p.tok.Kind == token.LPAREN {
		lparen := p.expect(token.LPAREN)
		var args []ast.Argument
		if p.tok.Kind != token.RPAREN {
			args = append(args, p.parseArgument())
			for p.tok.Kind == token.COMMA {
				p.advance()
				args = append(args, p.parseArgument())
			}
		}
		rparen := p.expect(token.RPAREN)
		return &ast.MacroInvokeInstr{Name: first, Lparen: lparen, Args: args, Rparen: rparen}
	}
	path := p.parsePathTail(first)
	return &ast.VariableInstr{Path: path}
}

func (p *parser) parsePathTail(first *ast.Identifier) *ast.Path {
	idents := []*ast.Identifier{first}
	for p.tok.Kind == token.DOT {
		p.advance()
		idents = append(idents, p.parseIdent())
	}
	return &ast.Path{Idents: idents}
}

func (p *parser) parseArgument() ast.Argument {
	if p.tok.Kind == token.LBRACE {
		return &ast.BlockArg{Body: p.parseBlock()}
	}
	first := p.parseIdent()
	return &ast.VariableArg{Path: p.parsePathTail(first)}
}
