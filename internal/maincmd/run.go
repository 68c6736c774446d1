package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/mna/mainer"

	"github.com/mna/bfmac/internal/bfrun"
	"github.com/mna/bfmac/lang/bfwriter"
)

// runEnvDefaults holds the tape defaults applied when the corresponding
// --tape-size/--wrap-left flag was not given on the command line.
type runEnvDefaults struct {
	TapeSize int  `env:"TAPE_SIZE" envDefault:"30000"`
	WrapLeft bool `env:"WRAP_LEFT" envDefault:"false"`
}

// Run implements the "run" command: interpret a brainfuck file.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	var defaults runEnvDefaults
	if err := env.ParseWithOptions(&defaults, env.Options{Prefix: "BFMAC_"}); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	opts := bfrun.Options{TapeSize: defaults.TapeSize, WrapLeft: defaults.WrapLeft}
	if c.flags["tape-size"] {
		opts.TapeSize = c.TapeSize
	}
	if c.flags["wrap-left"] {
		opts.WrapLeft = c.WrapLeft
	}

	return RunFile(ctx, stdio, args[0], opts)
}

// RunFile reads name, strips it to its brainfuck instructions, and
// interprets it with opts, reading "," input from stdio.Stdin and writing
// "." output to stdio.Stdout.
func RunFile(ctx context.Context, stdio mainer.Stdio, name string, opts bfrun.Options) error {
	src, err := os.ReadFile(name)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	code := bfwriter.Parse(src)
	m := bfrun.New(opts)
	if err := m.Run(ctx, code, stdio.Stdin, stdio.Stdout); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	return nil
}
