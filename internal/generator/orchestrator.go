package generator

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/buildergen/internal/model"
)

// HeaderComment marks every rendered file as generated.
const HeaderComment = "Code generated by buildergen. DO NOT EDIT."

// Unit is the synthesized builder for one struct: its type, factory,
// setters, extractors and Build method, ready to be rendered.
type Unit struct {
	Schema  *model.BuilderSchema
	Builder string
	Factory string
	Policy  Policy

	fields []*field
	decls  []jen.Code
}

// field is a classified FieldSchema with the names of everything generated
// for it. An empty setter means the accumulator took over its name.
type field struct {
	schema      *model.FieldSchema
	class       model.Classification
	slot        string
	setter      string
	accumulator string
	extractor   string
}

func (f *field) declaredType() jen.Code {
	c, _ := typeCode(f.schema.Type)
	return c
}

func (f *field) elemType() jen.Code {
	c, _ := typeCode(f.class.Elem)
	return c
}

// Setters lists the generated setter method names in emission order.
func (u *Unit) Setters() []string {
	var out []string
	for _, f := range u.fields {
		if f.setter != "" {
			out = append(out, f.setter)
		}
		if f.accumulator != "" {
			out = append(out, f.accumulator)
		}
	}
	return out
}

// Kinds maps each builder field name to its classification.
func (u *Unit) Kinds() map[string]model.FieldKind {
	out := make(map[string]model.FieldKind, len(u.fields))
	for _, f := range u.fields {
		out[f.schema.Name] = f.class.Kind
	}
	return out
}

// Synthesize classifies every field of schema and, only when all of them are
// valid, produces the builder unit. On error nothing is returned.
func Synthesize(schema *model.BuilderSchema, cfg Config) (*Unit, error) {
	cfg = cfg.normalize()
	if schema == nil || schema.Name == "" {
		return nil, fmt.Errorf("%w: schema without a type name", ErrUnsupportedType)
	}

	u := &Unit{
		Schema:  schema,
		Builder: schema.Name + cfg.Suffix,
		Factory: cfg.FactoryPrefix + schema.Name + cfg.Suffix,
		Policy:  cfg.Policy,
	}

	fields, err := plan(schema)
	if err != nil {
		return nil, err
	}
	u.fields = fields

	u.decls = append(u.decls, u.builderType(), u.factory())
	for _, f := range fields {
		u.decls = append(u.decls, setters(u.Builder, f)...)
	}
	u.decls = append(u.decls, u.build())
	for _, f := range fields {
		u.decls = append(u.decls, extractor(u.Builder, f))
	}

	return u, nil
}

// plan classifies the fields and assigns every generated name, rejecting the
// schema on the first invalid modifier, unsupported type or name collision.
func plan(schema *model.BuilderSchema) ([]*field, error) {
	owners := map[string]string{buildName: "Build method"}
	claim := func(f *model.FieldSchema, name, what string) error {
		if prev, ok := owners[name]; ok {
			return &SchemaError{
				Type:  schema.Name,
				Field: f.Name,
				Err:   fmt.Errorf("%w: %s %q is already used by %s", ErrNameCollision, what, name, prev),
			}
		}
		owners[name] = fmt.Sprintf("%s of %s", what, f.Name)
		return nil
	}

	out := make([]*field, 0, len(schema.Fields))
	for _, fs := range schema.Fields {
		if fs == nil || fs.Omit {
			continue
		}

		class, err := Classify(fs.Type, fs.Modifier)
		if err != nil {
			return nil, &SchemaError{Type: schema.Name, Field: fs.Name, Err: err}
		}
		if _, err = typeCode(fs.Type); err != nil {
			return nil, &SchemaError{Type: schema.Name, Field: fs.Name, Err: err}
		}

		f := &field{
			schema:    fs,
			class:     class,
			slot:      slotName(fs.Name, schema.Name),
			setter:    ExportName(fs.Name),
			extractor: extractorName(fs.Name),
		}
		if class.Kind == model.KindRepeated && class.Accumulator != "" {
			f.accumulator = ExportName(class.Accumulator)
			if f.accumulator == f.setter {
				f.setter = ""
			}
		}

		if err = claim(fs, f.slot, "slot"); err != nil {
			return nil, err
		}
		if f.setter != "" {
			if err = claim(fs, f.setter, "setter"); err != nil {
				return nil, err
			}
		}
		if f.accumulator != "" {
			if err = claim(fs, f.accumulator, "accumulator"); err != nil {
				return nil, err
			}
		}
		if err = claim(fs, f.extractor, "extractor"); err != nil {
			return nil, err
		}

		out = append(out, f)
	}
	return out, nil
}

func (u *Unit) builderType() jen.Code {
	lines := []string{
		fmt.Sprintf("%s accumulates field values for %s and validates them in Build.", u.Builder, u.Schema.Name),
		fmt.Sprintf("Build does not consume the builder. A %s is not safe for concurrent use.", u.Builder),
	}
	return withDoc(lines, jen.Type().Id(u.Builder).Struct(storageFields(u.fields)...))
}

func (u *Unit) factory() jen.Code {
	lines := []string{fmt.Sprintf("%s returns a %s with every field unset.", u.Factory, u.Builder)}
	return withDoc(lines, jen.Func().Id(u.Factory).Params().Op("*").Id(u.Builder).Block(
		jen.Return(defaultValue(u.Builder, u.fields)),
	))
}

func (u *Unit) build() jen.Code {
	target := jen.Op("&").Id(u.Schema.Name).Values(jen.DictFunc(func(d jen.Dict) {
		for _, f := range u.fields {
			d[jen.Id(f.schema.Name)] = fieldValue(f)
		}
	}))

	fn := jen.Func().Params(jen.Id(receiver).Op("*").Id(u.Builder)).Id(buildName).Params()
	var lines []string
	switch u.Policy {
	case PolicySoft:
		lines = []string{
			fmt.Sprintf("%s returns a new %s, or nil when a required field is unset.", buildName, u.Schema.Name),
		}
		fn = fn.Op("*").Id(u.Schema.Name).BlockFunc(func(g *jen.Group) {
			requiredChecks(g, u.Builder, u.Policy, u.fields)
			g.Return(target)
		})
	case PolicyLoud:
		lines = []string{
			fmt.Sprintf("%s returns a new %s. It panics when a required field is unset.", buildName, u.Schema.Name),
		}
		fn = fn.Op("*").Id(u.Schema.Name).BlockFunc(func(g *jen.Group) {
			requiredChecks(g, u.Builder, u.Policy, u.fields)
			g.Return(target)
		})
	default:
		lines = []string{
			fmt.Sprintf("%s returns a new %s, or an error naming every required field that is unset.", buildName, u.Schema.Name),
		}
		fn = fn.Params(jen.Op("*").Id(u.Schema.Name), jen.Error()).BlockFunc(func(g *jen.Group) {
			requiredChecks(g, u.Builder, u.Policy, u.fields)
			g.Return(target, jen.Nil())
		})
	}
	return withDoc(lines, fn)
}

// Render assembles units into one generated file of package pkgName.
func Render(pkgPath, pkgName string, units ...*Unit) *jen.File {
	f := jen.NewFilePathName(pkgPath, pkgName)
	f.HeaderComment(HeaderComment)
	for _, u := range units {
		for _, d := range u.decls {
			f.Add(d)
			f.Line()
		}
	}
	return f
}

func withDoc(lines []string, decl *jen.Statement) *jen.Statement {
	s := jen.Null()
	for _, l := range lines {
		if l == "" {
			l = "//"
		}
		s.Comment(l).Line()
	}
	return s.Add(decl)
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}
