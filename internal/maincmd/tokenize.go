package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/bfmac/lang/report"
	"github.com/mna/bfmac/lang/scanner"
	"github.com/mna/bfmac/lang/token"
)

// Tokenize implements the "tokenize" command: print every file's token
// stream, one token per line.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(ctx, stdio, args...)
}

// TokenizeFiles scans each file in files independently and prints its
// tokens to stdio.Stdout. Scanning continues across files even after a
// lexical error; the combined error, if any, is returned at the end.
func TokenizeFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
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

		file := fset.AddFile(name, len(src))
		var sc scanner.Scanner
		sc.Init(file, src, func(pos token.Position, msg string) { errs.Add(pos, msg) })

		for {
			tok := sc.Scan()
			fmt.Fprintf(stdio.Stdout, "%s: %s", token.FormatPos(token.PosLong, file, tok.Span.Start), tok.Kind)
			if tok.Lit != "" {
				fmt.Fprintf(stdio.Stdout, " %q", tok.Lit)
			}
			fmt.Fprintln(stdio.Stdout)
			if tok.Kind == token.EOF {
				break
			}
		}
	}

	if err := errs.Err(); err != nil {
		report.PrintError(stdio.Stderr, err)
		return err
	}
	return nil
}
