package parser

import (
	"fmt"
	"go/ast"
	goparser "go/parser"
	"go/token"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/cmmoran/buildergen/internal/model"
)

// Parser holds state/results of a parse run.
type Parser struct {
	Opts Options

	Fset       *token.FileSet
	RawStructs RawStructs

	// imports holds the alias → path map of every file a struct came from.
	imports map[*ast.File]importSet
	// pkgNames maps import paths to the package names the loader reported.
	pkgNames map[string]string
	dirs    map[string]string // pkgPath → directory
	names   map[string]string // pkgPath → package name
	order   []string          // pkgPaths in load order
}

type RawStructs []*model.RawStruct

func (x RawStructs) Find(name string) *model.RawStruct {
	for _, s := range x {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// ByPackage returns the structs declared in pkgPath in source order.
func (x RawStructs) ByPackage(pkgPath string) RawStructs {
	var out RawStructs
	for _, s := range x {
		if s.PkgPath == pkgPath {
			out = append(out, s)
		}
	}
	return out
}

// New executes the parser with opts.
func New(opts ...Option) (*Parser, error) {
	o := NewOptions()
	for _, fn := range opts {
		fn(o)
	}

	return NewWithOpts(o)
}

func NewWithOpts(opts *Options, excludeByTagsStrings ...string) (*Parser, error) {
	if err := opts.Normalize(excludeByTagsStrings...); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	p := &Parser{
		Opts:       *opts,
		Fset:       token.NewFileSet(),
		RawStructs: make(RawStructs, 0),
		imports:    make(map[*ast.File]importSet),
		pkgNames:   make(map[string]string),
		dirs:       make(map[string]string),
		names:      make(map[string]string),
	}

	return p, nil
}

// Parse loads the configured package patterns and collects every struct
// selected for generation.
func (p *Parser) Parse() error {
	pkgs, err := packages.Load(&packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax | packages.NeedModule,
		Dir:  p.Opts.InDir,
		Fset: p.Fset,
		ParseFile: func(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
			return goparser.ParseFile(fset, filename, src, goparser.ParseComments|goparser.SkipObjectResolution)
		},
	}, p.Opts.Patterns...)
	if err != nil {
		return fmt.Errorf("load packages: %w", err)
	}

	p.loadImportNames()

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			// Syntax is still usable for type errors; only a missing parse
			// is fatal for a package.
			slog.Warn("package loaded with errors", "pkg", pkg.PkgPath, "err", e.Msg)
		}
		if len(pkg.Syntax) == 0 {
			continue
		}
		for _, file := range pkg.Syntax {
			fileName := p.Fset.Position(file.Pos()).Filename
			if shouldSkipFile(p.Opts.InDir, fileName, &p.Opts) {
				slog.Debug("skipping file", "file", fileName)
				continue
			}
			p.collectStructs(pkg.PkgPath, fileName, file)
		}
	}

	p.warnUnmatchedTypes()
	return nil
}

// ParseSource collects structs from a single in-memory file that belongs to
// pkgPath.
func (p *Parser) ParseSource(filename, pkgPath string, src []byte) error {
	file, err := goparser.ParseFile(p.Fset, filename, src, goparser.ParseComments|goparser.SkipObjectResolution)
	if err != nil {
		return fmt.Errorf("parse %s: %w", filename, err)
	}
	p.collectStructs(pkgPath, filename, file)
	return nil
}

func (p *Parser) collectStructs(pkgPath, fileName string, file *ast.File) {
	if _, ok := p.dirs[pkgPath]; !ok {
		p.dirs[pkgPath] = filepath.Dir(fileName)
		p.names[pkgPath] = file.Name.Name
		p.order = append(p.order, pkgPath)
	}

	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}

		for _, spec := range gen.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}

			// A grouped declaration's doc belongs to the group, not to each type.
			docs := []*ast.CommentGroup{ts.Doc}
			if !gen.Lparen.IsValid() {
				docs = append(docs, gen.Doc)
			}
			marked := hasDirective(docs...)
			listed := slices.Contains(p.Opts.Types, ts.Name.Name)
			if !marked && !listed {
				continue
			}

			st, ok := ts.Type.(*ast.StructType)
			if !ok || ts.Assign.IsValid() {
				slog.Warn("not a struct type, skipping", "type", ts.Name.Name, "file", fileName)
				continue
			}

			raw := &model.RawStruct{
				Name:      ts.Name.Name,
				Comment:   commentText(docs...),
				Directive: marked,
				TypeParams: func() []string {
					if ts.TypeParams == nil {
						return nil
					}
					var out []string
					for _, fp := range ts.TypeParams.List {
						for _, n := range fp.Names {
							out = append(out, n.Name)
						}
					}
					return out
				}(),
				Fields:   []*model.RawField{},
				PkgPath:  pkgPath,
				PkgName:  file.Name.Name,
				File:     file,
				FileName: fileName,
			}

			for _, fld := range st.Fields.List {
				raw.Fields = append(raw.Fields, parseRawFields(fld)...)
			}

			if _, ok := p.imports[file]; !ok {
				p.imports[file] = fileImports(file, p.pkgNames)
			}
			p.RawStructs = append(p.RawStructs, raw)
		}
	}
}

// loadImportNames asks the loader for the real name of every package the
// patterns import. Import paths do not always end in the package name
// (k8s.io/api/core/v1 is package v1). On failure names fall back to guessing.
func (p *Parser) loadImportNames() {
	pkgs, err := packages.Load(&packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedDeps,
		Dir:  p.Opts.InDir,
	}, p.Opts.Patterns...)
	if err != nil {
		slog.Warn("could not resolve imported package names", "err", err)
		return
	}
	maps.Copy(p.pkgNames, importNames(pkgs))
}

// importNames collects import path → package name from the direct imports
// of pkgs.
func importNames(pkgs []*packages.Package) map[string]string {
	out := make(map[string]string)
	for _, pkg := range pkgs {
		for path, imp := range pkg.Imports {
			if imp != nil && imp.Name != "" {
				out[path] = imp.Name
			}
		}
	}
	return out
}

func (p *Parser) warnUnmatchedTypes() {
	for _, name := range p.Opts.Types {
		if p.RawStructs.Find(name) == nil {
			slog.Warn("requested type not found", "type", name)
		}
	}
}

func parseRawFields(f *ast.Field) []*model.RawField {
	if f == nil {
		return nil
	}

	comment := commentText(f.Doc, f.Comment)

	// Embedded field: the name comes from the type expression.
	// e.g., `AuditModel` or `*AuditModel`
	if len(f.Names) == 0 {
		name := embeddedFieldName(f.Type)
		return []*model.RawField{{
			Name:       name,
			IsEmbedded: true,
			IsExport:   ast.IsExported(name),
			TypeExpr:   f.Type,
			TagLit:     f.Tag,
			Comment:    comment,
		}}
	}

	// X, Y string
	out := make([]*model.RawField, 0, len(f.Names))
	for _, id := range f.Names {
		out = append(out, &model.RawField{
			Name:     id.Name,
			IsExport: ast.IsExported(id.Name),
			TypeExpr: f.Type,
			TagLit:   f.Tag,
			Comment:  comment,
		})
	}
	return out
}

// helpers
func embeddedFieldName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.StarExpr:
		return embeddedFieldName(t.X)
	case *ast.IndexExpr:
		return embeddedFieldName(t.X)
	case *ast.IndexListExpr:
		return embeddedFieldName(t.X)
	}
	return ""
}

func hasDirective(groups ...*ast.CommentGroup) bool {
	for _, cg := range groups {
		if cg == nil {
			continue
		}
		for _, c := range cg.List {
			if isDirective(c.Text) {
				return true
			}
		}
	}
	return false
}

func isDirective(text string) bool {
	t := strings.TrimPrefix(text, "//")
	return t != text && strings.TrimSpace(t) == Directive
}

// commentText joins comment groups into plain text, dropping the generation
// directive line.
func commentText(groups ...*ast.CommentGroup) string {
	var b strings.Builder
	for _, cg := range groups {
		if cg == nil {
			continue
		}
		for _, c := range cg.List {
			if isDirective(c.Text) {
				continue
			}
			txt := strings.TrimSpace(strings.Trim(strings.TrimPrefix(strings.TrimPrefix(c.Text, "//"), "/*"), "*/"))
			b.WriteString(txt)
			b.WriteString("\n")
		}
	}
	return strings.TrimSpace(b.String())
}
