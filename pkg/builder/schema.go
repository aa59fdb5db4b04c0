// Package builder synthesizes builder source from schemas that were not read
// from Go code: YAML documents or values constructed by the caller.
package builder

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/cmmoran/buildergen/internal/generator"
	"github.com/cmmoran/buildergen/internal/model"
	"github.com/cmmoran/buildergen/pkg/parser"
)

// Field is one struct field. Type is Go type source text, qualified with the
// aliases declared in Schema.Imports. A nil Modifier means no builder tag.
type Field struct {
	Name     string  `yaml:"name" json:"name" validate:"required"`
	Type     string  `yaml:"type" json:"type" validate:"required"`
	Modifier *string `yaml:"modifier,omitempty" json:"modifier,omitempty"`
	Comment  string  `yaml:"comment,omitempty" json:"comment,omitempty"`
	Omit     bool    `yaml:"omit,omitempty" json:"omit,omitempty"`
}

type Type struct {
	Name    string  `yaml:"name" json:"name" validate:"required"`
	Comment string  `yaml:"comment,omitempty" json:"comment,omitempty"`
	Fields  []Field `yaml:"fields" json:"fields" validate:"dive"`
}

// Schema describes the structs of one package.
type Schema struct {
	Package    string            `yaml:"package" json:"package" validate:"required"`
	ImportPath string            `yaml:"import_path,omitempty" json:"import_path,omitempty"`
	Imports    map[string]string `yaml:"imports,omitempty" json:"imports,omitempty"`
	Types      []Type            `yaml:"types" json:"types" validate:"required,min=1,dive"`
}

// Config selects naming and the Build policy. Zero values take the defaults:
// suffix Builder, factory prefix New, policy error.
type Config struct {
	Suffix        string
	FactoryPrefix string
	Policy        string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadSchemas decodes every YAML document in r.
func LoadSchemas(r io.Reader) ([]*Schema, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var out []*Schema
	for {
		s := &Schema{}
		err := dec.Decode(s)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode schema: %w", err)
		}
		if err = s.Validate(); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, errors.New("no schema documents")
	}
	return out, nil
}

func (s *Schema) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid schema for package %q: %w", s.Package, err)
	}
	return nil
}

// Schemas converts s into builder schemas, resolving every field type.
func (s *Schema) Schemas() ([]*model.BuilderSchema, error) {
	pkgPath := s.ImportPath
	if pkgPath == "" {
		pkgPath = s.Package
	}

	var errs []error
	out := make([]*model.BuilderSchema, 0, len(s.Types))
	for _, t := range s.Types {
		bs := &model.BuilderSchema{
			Name:    t.Name,
			PkgPath: pkgPath,
			PkgName: s.Package,
			Comment: t.Comment,
			Fields:  make([]*model.FieldSchema, 0, len(t.Fields)),
		}
		for _, f := range t.Fields {
			ref, err := parser.ParseTypeExpr(f.Type, s.Imports)
			if err != nil {
				errs = append(errs, &generator.SchemaError{Type: t.Name, Field: f.Name, Err: err})
				continue
			}
			bs.Fields = append(bs.Fields, &model.FieldSchema{
				Name:     f.Name,
				Type:     ref,
				Modifier: f.Modifier,
				Comment:  f.Comment,
				Omit:     f.Omit,
			})
		}
		out = append(out, bs)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// Synthesize renders the builders of every type in s as one formatted Go
// file. Nothing is returned when any type has a schema error.
func Synthesize(s *Schema, cfg Config) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	gc, err := cfg.generatorConfig()
	if err != nil {
		return nil, err
	}
	schemas, err := s.Schemas()
	if err != nil {
		return nil, err
	}

	pkg := &model.Package{
		PkgPath: schemas[0].PkgPath,
		PkgName: s.Package,
		Schemas: schemas,
	}
	files, err := parser.GenerateFiles([]*model.Package{pkg}, gc, parser.NewOptions().OutFile)
	if err != nil {
		return nil, err
	}
	return files[0].Bytes()
}

func (c Config) generatorConfig() (generator.Config, error) {
	p, err := generator.ParsePolicy(c.Policy)
	if err != nil {
		return generator.Config{}, err
	}
	d := generator.DefaultConfig()
	gc := generator.Config{Suffix: c.Suffix, FactoryPrefix: c.FactoryPrefix, Policy: p}
	if gc.Suffix == "" {
		gc.Suffix = d.Suffix
	}
	if gc.FactoryPrefix == "" {
		gc.FactoryPrefix = d.FactoryPrefix
	}
	return gc, nil
}
