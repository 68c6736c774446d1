// Package bfwriter implements the brainfuck pretty-printer: a post-pass
// that folds adjacent pointer-motion and cell-change runs into the
// minimal equivalent run, then writes the result wrapped at 80 columns
// with a trailing newline. It is purely cosmetic — the compiler's own
// output is already correct brainfuck without it.
package bfwriter

import (
	"bufio"
	"io"
)

const lineWidth = 80

// isInstruction reports whether b is one of the eight brainfuck commands.
func isInstruction(b byte) bool {
	switch b {
	case '+', '-', '<', '>', ',', '.', '[', ']':
		return true
	default:
		return false
	}
}

// Parse strips src down to the eight significant brainfuck characters,
// discarding whitespace, comments and any other byte.
func Parse(src []byte) string {
	buf := make([]byte, 0, len(src))
	for _, b := range src {
		if isInstruction(b) {
			buf = append(buf, b)
		}
	}
	return string(buf)
}

// Simplify folds every maximal run of '+'/'-' and every maximal run of
// '<'/'>' into the minimal run with the same net effect: a run is tracked
// as a signed count (Add/Right positive, Subtract/Left negative) and
// resolved into that many '+' or '-' (respectively '>' or '<') the moment
// an instruction of a different family is encountered. "+-+" folds to "+",
// not "+-+" or "" — the two families are tracked independently so that
// "+>-" is unaffected (move and change never cancel each other).
func Simplify(code string) string {
	out := make([]byte, 0, len(code))
	var move, change int

	resolveMove := func() {
		for ; move > 0; move-- {
			out = append(out, '>')
		}
		for ; move < 0; move++ {
			out = append(out, '<')
		}
	}
	resolveChange := func() {
		for ; change > 0; change-- {
			out = append(out, '+')
		}
		for ; change < 0; change++ {
			out = append(out, '-')
		}
	}

	for i := 0; i < len(code); i++ {
		switch code[i] {
		case '<':
			resolveChange()
			move--
		case '>':
			resolveChange()
			move++
		case '+':
			resolveMove()
			change++
		case '-':
			resolveMove()
			change--
		default:
			resolveMove()
			resolveChange()
			out = append(out, code[i])
		}
	}
	resolveMove()
	resolveChange()
	return string(out)
}

// Format writes code to w, wrapping at 80 columns and adding a trailing
// newline, without otherwise altering the instruction stream.
func Format(w io.Writer, code string) error {
	bw := bufio.NewWriter(w)
	column := 0
	for i := 0; i < len(code); i++ {
		if err := bw.WriteByte(code[i]); err != nil {
			return err
		}
		column++
		if column >= lineWidth {
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
			column = 0
		}
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	return bw.Flush()
}
