// Package report implements the compiler's diagnostics: an error list that
// accumulates "reported" (non-fatal) errors during scanning, parsing and
// emission, and a source-snippet printer used to present them to the user.
//
// The shape mirrors the standard library's go/scanner.ErrorList (sorted,
// multi-error accumulation with a single combined Error() string) but is not
// a straight alias of it: go/scanner.Error is hard-wired to go/token.Position,
// and this module's token.Position is a distinct type (our Pos is relative to
// a FileSet built from macro-language sources, not Go sources), so the types
// are incompatible at the field level. Re-implementing the same small,
// well-understood shape is cheaper and clearer than bridging the two.
package report

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mna/bfmac/lang/token"
)

// Error is a single positioned diagnostic.
type Error struct {
	Pos token.Position
	Msg string
}

func (e Error) Error() string {
	if e.Pos.IsValid() {
		return e.Pos.String() + ": " + e.Msg
	}
	return e.Msg
}

// ErrorList accumulates errors reported while processing a file. The zero
// value is an empty, ready-to-use list.
type ErrorList []*Error

// Add appends an error at the given position to the list.
func (l *ErrorList) Add(pos token.Position, msg string) {
	*l = append(*l, &Error{Pos: pos, Msg: msg})
}

// Len, Swap and Less implement sort.Interface, ordering by filename then
// line then column.
func (l ErrorList) Len() int      { return len(l) }
func (l ErrorList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }
func (l ErrorList) Less(i, j int) bool {
	pi, pj := l[i].Pos, l[j].Pos
	if pi.Filename != pj.Filename {
		return pi.Filename < pj.Filename
	}
	if pi.Line != pj.Line {
		return pi.Line < pj.Line
	}
	return pi.Column < pj.Column
}

// Sort sorts the list in place by position.
func (l ErrorList) Sort() { sort.Sort(l) }

// Err returns l as an error if it is non-empty, or nil otherwise. The
// returned error's Error() method lists every entry, one per line.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	for i, e := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Error())
	}
	return b.String()
}

// PrintError writes err to w, one entry per line, expanding an ErrorList
// into its individual entries.
func PrintError(w *os.File, err error) {
	if el, ok := err.(ErrorList); ok {
		for _, e := range el {
			fmt.Fprintln(w, e)
		}
		return
	}
	fmt.Fprintln(w, err)
}

// Snippet prints a single diagnostic message, in the form used throughout
// the compiler: a blank line, then "file:line <source line text>", then
// "Error: <message>". If pos has no valid file/line (e.g. the span could
// not be attributed to any source file), it prints "Error in unknown
// location: <message>" instead.
//
// readSource is used to fetch the full text of pos.Filename; it is a
// parameter (rather than a hardcoded os.ReadFile) so callers can supply an
// in-memory source for files that have already been read once.
func Snippet(w *os.File, pos token.Position, message string, readSource func(name string) ([]byte, error)) {
	if !pos.IsValid() || pos.Filename == "" {
		fmt.Fprintf(w, "Error in unknown location: %s\n", message)
		return
	}

	src, err := readSource(pos.Filename)
	if err != nil {
		fmt.Fprintf(w, "Error in invalid file %q: %s\n", pos.Filename, message)
		return
	}

	line := sourceLine(src, pos.Line)
	fmt.Fprintf(w, "\n%s:%d %s\n", pos.Filename, pos.Line, line)
	fmt.Fprintf(w, "Error: %s\n", message)
}

// sourceLine returns the 1-based line-th line of src, without its trailing
// newline, or "" if src has fewer lines than line.
func sourceLine(src []byte, line int) string {
	if line < 1 {
		return ""
	}
	lines := strings.Split(string(src), "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}
