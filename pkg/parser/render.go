package parser

import (
	"bytes"
	"errors"
	"path/filepath"

	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/buildergen/internal/generator"
	"github.com/cmmoran/buildergen/internal/model"
)

// GeneratedFile is the rendered builder file of one package.
type GeneratedFile struct {
	Dir     string
	PkgPath string
	PkgName string
	Path    string   // Dir joined with the output file name
	Types   []string // source structs, in declaration order
	Policy  generator.Policy
	File    *jen.File
}

// Bytes renders the file as gofmt'ed Go source.
func (g *GeneratedFile) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := g.File.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateBuilderFiles parses, builds schemas and synthesizes one file per
// package. Any schema error anywhere aborts the whole run.
func (p *Parser) GenerateBuilderFiles() ([]*GeneratedFile, error) {
	pkgs, err := p.BuildSchemas()
	if err != nil {
		return nil, err
	}
	cfg, err := p.Opts.GeneratorConfig()
	if err != nil {
		return nil, err
	}
	return GenerateFiles(pkgs, cfg, p.Opts.OutFile)
}

// GenerateFiles synthesizes the builders of every package. Packages without
// schemas produce no file.
func GenerateFiles(pkgs []*model.Package, cfg generator.Config, outFile string) ([]*GeneratedFile, error) {
	var (
		errs []error
		out  []*GeneratedFile
	)
	for _, pkg := range pkgs {
		if len(pkg.Schemas) == 0 {
			continue
		}
		units := make([]*generator.Unit, 0, len(pkg.Schemas))
		types := make([]string, 0, len(pkg.Schemas))
		for _, s := range pkg.Schemas {
			u, err := generator.Synthesize(s, cfg)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			units = append(units, u)
			types = append(types, s.Name)
		}
		out = append(out, &GeneratedFile{
			Dir:     pkg.Dir,
			PkgPath: pkg.PkgPath,
			PkgName: pkg.PkgName,
			Path:    filepath.Join(pkg.Dir, outFile),
			Types:   types,
			Policy:  cfg.Policy,
			File:    generator.Render(pkg.PkgPath, pkg.PkgName, units...),
		})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}
