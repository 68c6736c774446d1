package maincmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mna/mainer"
	"gopkg.in/yaml.v3"

	"github.com/mna/bfmac/lang/bfwriter"
	"github.com/mna/bfmac/lang/emitter"
	"github.com/mna/bfmac/lang/parser"
	"github.com/mna/bfmac/lang/report"
	"github.com/mna/bfmac/lang/scope"
	"github.com/mna/bfmac/lang/token"
)

// Compile implements the "compile" command: resolve a single root file's
// frames, macros and using-blocks (following its includes) and emit
// brainfuck to stdout.
func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return CompileFile(ctx, stdio, args[0], c.WithComments, c.Pretty, c.Report)
}

// CompileFile parses name, builds its scope (following includes relative
// to name's directory), and emits brainfuck to stdio.Stdout. A fatal
// compiler error aborts with no output; reported diagnostics do not
// suppress output, matching the rest of the pipeline's policy of surfacing
// as many problems as possible in one pass.
//
// When pretty is true, the emitted code is run through bfwriter's
// simplifier and 80-column formatter before being printed. When
// reportFormat is "yaml", a summary of every reported diagnostic is
// printed to stdio.Stderr as YAML after the brainfuck output.
func CompileFile(ctx context.Context, stdio mainer.Stdio, name string, withComments, pretty bool, reportFormat string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	src, err := os.ReadFile(name)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	fset := token.NewFileSet()
	prog, perr := parser.ParseFile(fset, name, src)
	if perr != nil {
		report.PrintError(stdio.Stderr, perr)
		return perr
	}

	sc, serr := scope.Build(fset, prog, filepath.Dir(name), nil)
	if serr != nil {
		fmt.Fprintln(stdio.Stderr, serr)
		return serr
	}

	code, eerr := emitter.CompileProgram(fset, sc, withComments)
	var diags report.ErrorList
	if eerr != nil {
		if el, ok := eerr.(report.ErrorList); ok {
			diags = el
		} else {
			fmt.Fprintln(stdio.Stderr, eerr)
			return eerr
		}
	}

	if pretty {
		code = bfwriter.Simplify(bfwriter.Parse([]byte(code)))
		var buf bytes.Buffer
		if err := bfwriter.Format(&buf, code); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
		code = buf.String()
	}
	fmt.Fprint(stdio.Stdout, code)

	if reportFormat == "yaml" {
		if err := writeDiagReport(stdio, name, diags); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
	}

	if len(diags) > 0 {
		return diags
	}
	return nil
}

type diagReport struct {
	File   string      `yaml:"file"`
	Errors []diagEntry `yaml:"errors,omitempty"`
}

type diagEntry struct {
	Pos     string `yaml:"pos"`
	Message string `yaml:"message"`
}

func writeDiagReport(stdio mainer.Stdio, name string, diags report.ErrorList) error {
	rep := diagReport{File: name}
	for _, d := range diags {
		rep.Errors = append(rep.Errors, diagEntry{Pos: d.Pos.String(), Message: d.Msg})
	}
	enc := yaml.NewEncoder(stdio.Stderr)
	defer enc.Close()
	return enc.Encode(rep)
}
