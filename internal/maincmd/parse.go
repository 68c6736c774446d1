package maincmd

import (
	"context"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/bfmac/lang/ast"
	"github.com/mna/bfmac/lang/parser"
	"github.com/mna/bfmac/lang/report"
	"github.com/mna/bfmac/lang/token"
)

// Parse implements the "parse" command: parse each file independently and
// print its syntax tree.
func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFiles(ctx, stdio, args...)
}

// ParseFiles parses each file in files independently (includes are not
// followed; that is scope.Build's job) and prints the resulting AST to
// stdio.Stdout. Parsing continues across files after an error; the
// combined error, if any, is returned at the end.
func ParseFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	fset := token.NewFileSet()
	var errs report.ErrorList

	for _, name := range files {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		src, err := os.ReadFile(name)
		if err != nil {
			errs.Add(token.Position{Filename: name}, err.Error())
			continue
		}

		prog, perr := parser.ParseFile(fset, name, src)
		if perr != nil {
			if el, ok := perr.(report.ErrorList); ok {
				errs = append(errs, el...)
			} else {
				errs.Add(token.Position{Filename: name}, perr.Error())
			}
		}
		if prog == nil {
			continue
		}

		printer := ast.Printer{Output: stdio.Stdout, Pos: token.PosLong, File: fileFor(fset, prog)}
		if err := printer.Print(prog); err != nil {
			errs.Add(token.Position{Filename: name}, err.Error())
		}
	}

	if err := errs.Err(); err != nil {
		report.PrintError(stdio.Stderr, err)
		return err
	}
	return nil
}

// fileFor returns the token.File covering prog's span, or nil for an empty
// program (no file to annotate positions against).
func fileFor(fset *token.FileSet, prog *ast.Program) *token.File {
	start, _ := prog.Span()
	if !start.IsValid() {
		return nil
	}
	return fset.File(start)
}
