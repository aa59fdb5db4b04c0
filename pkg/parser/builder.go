package parser

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"log/slog"
	"reflect"
	"strconv"

	"github.com/jinzhu/inflection"

	"github.com/cmmoran/buildergen/internal/generator"
	"github.com/cmmoran/buildergen/internal/model"
)

// SchemaBuilder turns collected RawStructs into BuilderSchemas grouped by
// package. It resolves field types, reads modifiers and applies the
// tag filters and auto-each option.
type SchemaBuilder struct {
	parser *Parser
	opts   *Options
	raws   RawStructs
}

// NewSchemaBuilder initializes a SchemaBuilder with options, raw structs and
// the parser holding their import tables.
func NewSchemaBuilder(opts *Options, raws RawStructs, parser *Parser) *SchemaBuilder {
	return &SchemaBuilder{
		parser: parser,
		opts:   opts,
		raws:   raws,
	}
}

// BuildSchemas is a convenience wrapper around NewSchemaBuilder(...).BuildAll.
func (p *Parser) BuildSchemas() ([]*model.Package, error) {
	return NewSchemaBuilder(&p.Opts, p.RawStructs, p).BuildAll()
}

// BuildAll converts every raw struct. Schema errors from all structs are
// joined; when there is any error no package is returned.
func (b *SchemaBuilder) BuildAll() ([]*model.Package, error) {
	var (
		errs []error
		out  []*model.Package
	)

	for _, pkgPath := range b.parser.order {
		raws := b.raws.ByPackage(pkgPath)
		if len(raws) == 0 {
			continue
		}
		pkg := &model.Package{
			PkgPath: pkgPath,
			PkgName: b.parser.names[pkgPath],
			Dir:     b.parser.dirs[pkgPath],
		}
		for _, raw := range raws {
			s, err := b.Build(raw)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			pkg.Schemas = append(pkg.Schemas, s)
		}
		out = append(out, pkg)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// Build converts one raw struct.
func (b *SchemaBuilder) Build(raw *model.RawStruct) (*model.BuilderSchema, error) {
	if len(raw.TypeParams) > 0 {
		return nil, &generator.SchemaError{Type: raw.Name, Err: generator.ErrGenericType}
	}

	imports := b.parser.imports[raw.File]
	s := &model.BuilderSchema{
		Name:    raw.Name,
		PkgPath: raw.PkgPath,
		PkgName: raw.PkgName,
		Comment: raw.Comment,
		Fields:  make([]*model.FieldSchema, 0, len(raw.Fields)),
	}

	for _, rf := range raw.Fields {
		if rf == nil || rf.Name == "_" {
			continue
		}
		fs, err := b.resolveRawField(raw.Name, rf, imports)
		if err != nil {
			return nil, err
		}
		s.Fields = append(s.Fields, fs)
	}

	if b.opts.AutoEach {
		applyAutoEach(s)
	}
	return s, nil
}

func (b *SchemaBuilder) resolveRawField(typeName string, rf *model.RawField, imports importSet) (*model.FieldSchema, error) {
	if rf.Name == "" {
		return nil, &generator.SchemaError{Type: typeName, Err: unsupported(rf.TypeExpr)}
	}

	t, err := typeRefFromExpr(rf.TypeExpr, imports)
	if err != nil {
		return nil, &generator.SchemaError{Type: typeName, Field: rf.Name, Err: err}
	}

	tag, err := tagFromLit(rf.TagLit)
	if err != nil {
		return nil, &generator.SchemaError{Type: typeName, Field: rf.Name, Err: err}
	}

	fs := &model.FieldSchema{
		Name:     rf.Name,
		Type:     t,
		Tag:      tag,
		Comment:  rf.Comment,
		Embedded: rf.IsEmbedded,
		Omit:     shouldOmitField(tag, b.opts),
	}
	if v, ok := tag.Lookup(generator.ModifierTag); ok {
		fs.Modifier = &v
	}

	if fs.Modifier != nil && t.IsPtr() {
		slog.Warn("modifier on optional field is ignored", "type", typeName, "field", rf.Name, "modifier", *fs.Modifier)
	}

	return fs, nil
}

// applyAutoEach gives repeated fields without a modifier an accumulator named
// after the singular of the field. Names already used by a setter, an
// explicit accumulator or Build are left alone.
func applyAutoEach(s *model.BuilderSchema) {
	taken := map[string]struct{}{"Build": {}}
	for _, fs := range s.Fields {
		if fs.Omit {
			continue
		}
		taken[generator.ExportName(fs.Name)] = struct{}{}
		if fs.Modifier != nil {
			if each, err := generator.ParseModifier(*fs.Modifier); err == nil {
				taken[generator.ExportName(each)] = struct{}{}
			}
		}
	}

	for _, fs := range s.Fields {
		if fs.Omit || fs.Modifier != nil || !fs.Type.IsSlice() {
			continue
		}
		each := autoEachName(fs.Name)
		if each == "" {
			continue
		}
		if _, ok := taken[generator.ExportName(each)]; ok {
			slog.Debug("auto-each name already in use, skipping", "type", s.Name, "field", fs.Name, "each", each)
			continue
		}
		taken[generator.ExportName(each)] = struct{}{}
		m := "each=" + each
		fs.Modifier = &m
	}
}

// autoEachName returns the singular of a repeated field name, or "" when the
// name has no distinct singular form.
func autoEachName(field string) string {
	singular := inflection.Singular(field)
	if singular == field || !token.IsIdentifier(singular) {
		return ""
	}
	return singular
}

func tagFromLit(lit *ast.BasicLit) (reflect.StructTag, error) {
	if lit == nil {
		return "", nil
	}
	raw, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", fmt.Errorf("malformed struct tag %s: %w", lit.Value, err)
	}
	return reflect.StructTag(raw), nil
}
