// Package scope implements the scope builder: it walks a parsed Program,
// follows include directives, and collects every frame and macro
// definition reachable from the root file into two name-keyed tables.
package scope

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mna/bfmac/lang/ast"
	"github.com/mna/bfmac/lang/parser"
	"github.com/mna/bfmac/lang/token"
)

// Scope holds every frame and macro definition reachable from a root
// program, plus the top-level using-regions to emit. It is built once and
// never mutated afterwards.
type Scope struct {
	Frames   map[string]*ast.FrameDef
	Macros   map[string]*ast.MacroDef
	Usings   []*ast.UsingDef
	includes map[string]bool
}

// Reader supplies the text of an included file. It exists so tests and the
// CLI can both drive the scope builder without hardcoding os.ReadFile.
type Reader func(path string) ([]byte, error)

// ReadFile is the default Reader, backed by the filesystem.
func ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// Build walks prog (already parsed from rootFile, located in baseDir) and
// every file it transitively includes, returning the merged Scope. A
// non-nil error is always fatal: duplicate frame/macro names, an unknown
// include target, or a parse error in an included file.
func Build(fset *token.FileSet, prog *ast.Program, baseDir string, read Reader) (*Scope, error) {
	s := &Scope{
		Frames:   map[string]*ast.FrameDef{},
		Macros:   map[string]*ast.MacroDef{},
		includes: map[string]bool{},
	}
	if read == nil {
		read = ReadFile
	}
	if err := s.addProgram(fset, prog, baseDir, read); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scope) addProgram(fset *token.FileSet, prog *ast.Program, baseDir string, read Reader) error {
	for _, def := range prog.Defs {
		switch d := def.(type) {
		case *ast.Include:
			if err := s.addInclude(fset, d, baseDir, read); err != nil {
				return err
			}
		case *ast.FrameDef:
			if _, ok := s.Frames[d.Name.Name]; ok {
				return fmt.Errorf("multiple definitions of frame %q", d.Name.Name)
			}
			s.Frames[d.Name.Name] = d
		case *ast.MacroDef:
			if _, ok := s.Macros[d.Name.Name]; ok {
				return fmt.Errorf("multiple definitions of macro %q", d.Name.Name)
			}
			s.Macros[d.Name.Name] = d
		case *ast.UsingDef:
			s.Usings = append(s.Usings, d)
		}
	}
	return nil
}

func (s *Scope) addInclude(fset *token.FileSet, inc *ast.Include, baseDir string, read Reader) error {
	key := filepath.Clean(inc.Path)
	if s.includes[key] {
		return nil
	}
	s.includes[key] = true

	path := inc.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	src, err := read(path)
	if err != nil {
		return fmt.Errorf("include %q: %w", inc.Path, err)
	}

	incProg, err := parser.ParseFile(fset, path, src)
	if err != nil {
		return fmt.Errorf("include %q: %w", inc.Path, err)
	}
	return s.addProgram(fset, incProg, filepath.Dir(path), read)
}
