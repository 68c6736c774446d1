// Package maincmd implements the bfmac command-line tool: a thin layer over
// the lang/* compiler packages and internal/bfrun, wired together with
// github.com/mna/mainer the same way the teacher program wires its own
// compiler phases.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"
)

const binName = "bfmac"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> <path>...
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> <path>...
       %[1]s -h|--help
       %[1]s -v|--version

Compiler and interpreter for the bfmac macro language, which compiles to
classic brainfuck.

The <command> can be one of:
       tokenize                  Scan the given files and print their
                                 token stream.
       parse                     Parse the given files and print the
                                 resulting syntax tree.
       compile                  Resolve a single root file's frames,
                                 macros and using-blocks, and emit
                                 brainfuck.
       format                   Pretty-print a brainfuck file: fold
                                 redundant runs and wrap at 80 columns.
       run                      Interpret a brainfuck file.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.

Valid flag options for the <compile> command are:
       --with-comments           Annotate using/macro boundaries with
                                 "# name" comments in the output.
       --pretty                  Simplify and column-wrap the emitted
                                 brainfuck, as "format" would.
       --report string           Print a diagnostics summary in the
                                 given format ("yaml" is the only
                                 supported value) to stderr.

Valid flag options for the <run> command are:
       --tape-size int           Bound the tape to this many cells (0
                                 means unbounded growth). May also be
                                 set via BFMAC_TAPE_SIZE.
       --wrap-left               Wrap to the tape's last cell instead
                                 of erroring when moving left of cell
                                 0. May also be set via BFMAC_WRAP_LEFT.

More information on the bfmac repository:
       https://github.com/mna/bfmac
`, binName)
)

// Cmd is the bfmac command, driven by github.com/mna/mainer.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	WithComments bool   `flag:"with-comments"`
	Pretty       bool   `flag:"pretty"`
	Report       string `flag:"report"`

	TapeSize int  `flag:"tape-size"`
	WrapLeft bool `flag:"wrap-left"`

	args  []string
	flags map[string]bool
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string) {
	c.args = args
}

func (c *Cmd) SetFlags(flags map[string]bool) {
	c.flags = flags
}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	cmdName := c.args[0]

	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	if len(c.args[1:]) == 0 {
		return fmt.Errorf("%s: at least one file must be provided", cmdName)
	}
	if (cmdName == "compile" || cmdName == "format" || cmdName == "run") && len(c.args[1:]) != 1 {
		return fmt.Errorf("%s: exactly one file must be provided", cmdName)
	}

	if c.flags["with-comments"] && cmdName != "compile" {
		return fmt.Errorf("%s: invalid flag 'with-comments'", cmdName)
	}
	if c.flags["pretty"] && cmdName != "compile" {
		return fmt.Errorf("%s: invalid flag 'pretty'", cmdName)
	}
	if c.flags["report"] && cmdName != "compile" {
		return fmt.Errorf("%s: invalid flag 'report'", cmdName)
	}
	if c.Report != "" && c.Report != "yaml" {
		return fmt.Errorf("compile: unsupported --report format %q", c.Report)
	}
	if (c.flags["tape-size"] || c.flags["wrap-left"]) && cmdName != "run" {
		return fmt.Errorf("%s: invalid flag for this command", cmdName)
	}

	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   true,
		EnvPrefix: strings.ToUpper(binName) + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success

	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
		// each command takes care of printing its own errors
		return mainer.Failure
	}
	return mainer.Success
}

// buildCmds reflects over v's methods, keeping only those whose signature
// matches a command: (context.Context, mainer.Stdio, []string) error.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
