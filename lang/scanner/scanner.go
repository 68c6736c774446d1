// Package scanner implements the lexer that turns macro-language source
// text into a stream of token.Token values for the parser to consume.
package scanner

import (
	"unicode"
	"unicode/utf8"

	"github.com/mna/bfmac/lang/token"
)

// ErrorHandler is called by the scanner for every lexical error encountered.
type ErrorHandler func(pos token.Position, msg string)

// Scanner tokenizes a single source file.
type Scanner struct {
	file *token.File
	src  []byte
	err  ErrorHandler

	off   int  // byte offset of cur
	rdOff int  // byte offset of the rune following cur
	cur   rune // current rune, or -1 at EOF
}

// Init prepares s to scan src, which must be the same length as file.Size().
// Lexical errors are reported through errHandler.
func (s *Scanner) Init(file *token.File, src []byte, errHandler ErrorHandler) {
	s.file = file
	s.src = src
	s.err = errHandler
	s.rdOff = 0
	s.readRune()
}

func (s *Scanner) pos(off int) token.Pos { return s.file.Pos(off) }

func (s *Scanner) error(off int, msg string) {
	if s.err != nil {
		s.err(s.file.Position(s.pos(off)), msg)
	}
}

// readRune loads the rune at s.rdOff into s.cur and advances s.rdOff past
// it, without regard for line tracking; advance wraps it with that.
func (s *Scanner) readRune() {
	if s.rdOff >= len(s.src) {
		s.off = len(s.src)
		s.cur = -1
		return
	}
	r, sz := utf8.DecodeRune(s.src[s.rdOff:])
	s.off = s.rdOff
	s.cur = r
	s.rdOff += sz
}

// advance consumes the current rune and loads the next one into s.cur.
func (s *Scanner) advance() {
	if s.cur == '\n' {
		s.file.AddLine(s.rdOff)
	}
	s.readRune()
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

// Scan returns the next token in the source. At end of input, it returns an
// EOF token forever after.
func (s *Scanner) Scan() token.Token {
	for {
		for isSpace(s.cur) {
			s.advance()
		}
		if s.cur == '#' {
			for s.cur != '\n' && s.cur != -1 {
				s.advance()
			}
			continue
		}
		break
	}

	start := s.off
	mk := func(k token.Kind) token.Token {
		return token.Token{Kind: k, Span: token.Span{Start: s.pos(start), End: s.pos(s.off)}}
	}

	switch {
	case s.cur == -1:
		return mk(token.EOF)

	case isIdentStart(s.cur):
		for isIdentPart(s.cur) {
			s.advance()
		}
		lit := string(s.src[start:s.off])
		return token.Token{Kind: token.Lookup(lit), Span: token.Span{Start: s.pos(start), End: s.pos(s.off)}, Lit: lit}

	case s.cur == '"':
		return s.scanString(start)

	default:
		r := s.cur
		s.advance()
		switch r {
		case '+':
			return mk(token.PLUS)
		case '-':
			return mk(token.MINUS)
		case '<':
			return mk(token.LT)
		case '>':
			return mk(token.GT)
		case ',':
			return mk(token.COMMA)
		case '.':
			return mk(token.DOT)
		case '[':
			return mk(token.LBRACK)
		case ']':
			return mk(token.RBRACK)
		case '{':
			return mk(token.LBRACE)
		case '}':
			return mk(token.RBRACE)
		case '(':
			return mk(token.LPAREN)
		case ')':
			return mk(token.RPAREN)
		case ':':
			return mk(token.COLON)
		default:
			s.error(start, "illegal character "+string(r))
			return mk(token.ILLEGAL)
		}
	}
}

func (s *Scanner) scanString(start int) token.Token {
	s.advance() // consume opening quote
	var lit []byte
	for s.cur != '"' {
		if s.cur == -1 || s.cur == '\n' {
			s.error(start, "string literal not terminated")
			break
		}
		lit = utf8.AppendRune(lit, s.cur)
		s.advance()
	}
	if s.cur == '"' {
		s.advance()
	}
	return token.Token{
		Kind: token.STRING,
		Span: token.Span{Start: s.pos(start), End: s.pos(s.off)},
		Lit:  string(lit),
	}
}
