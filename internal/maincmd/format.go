package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/bfmac/lang/bfwriter"
)

// Format implements the "format" command: pretty-print a raw brainfuck
// file by folding redundant runs and wrapping at 80 columns.
func (c *Cmd) Format(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return FormatFile(ctx, stdio, args[0])
}

// FormatFile reads name, strips it to its brainfuck instructions, folds
// redundant runs, and writes the column-wrapped result to stdio.Stdout.
func FormatFile(ctx context.Context, stdio mainer.Stdio, name string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	src, err := os.ReadFile(name)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	code := bfwriter.Simplify(bfwriter.Parse(src))
	if err := bfwriter.Format(stdio.Stdout, code); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	return nil
}
