package generator

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/buildergen/internal/model"
)

// setters emits the methods that store a field value. Required and optional
// fields get one setter; repeated fields get a bulk setter and, when an
// accumulator is configured, an element setter. An accumulator named like
// the field replaces the bulk setter.
func setters(builder string, f *field) []jen.Code {
	var out []jen.Code

	switch f.class.Kind {
	case model.KindRequired:
		out = append(out, setterFunc(builder, f.setter, f.class.Elem,
			doc(f, fmt.Sprintf("%s sets the required %s field.", f.setter, f.schema.Name)),
			jen.Id(receiver).Dot(f.slot).Op("=").Op("&").Id(argument),
		))

	case model.KindOptional:
		out = append(out, setterFunc(builder, f.setter, f.class.Elem,
			doc(f, fmt.Sprintf("%s sets the optional %s field.", f.setter, f.schema.Name)),
			jen.Id("p").Op(":=").Op("&").Id(argument),
			jen.Id(receiver).Dot(f.slot).Op("=").Op("&").Id("p"),
		))

	case model.KindRepeated:
		if f.setter != "" {
			out = append(out, setterFunc(builder, f.setter, f.schema.Type,
				doc(f, fmt.Sprintf("%s replaces the %s collection with a copy of v.", f.setter, f.schema.Name)),
				jen.Id("c").Op(":=").Append(jen.Index().Add(f.elemType()).Values(), jen.Id(argument).Op("...")),
				jen.Id(receiver).Dot(f.slot).Op("=").Op("&").Id("c"),
			))
		}
		if f.accumulator != "" {
			out = append(out, setterFunc(builder, f.accumulator, f.class.Elem,
				doc(f, fmt.Sprintf("%s appends one element to the %s collection.", f.accumulator, f.schema.Name)),
				jen.If(jen.Id(receiver).Dot(f.slot).Op("==").Nil()).Block(
					jen.Id(receiver).Dot(f.slot).Op("=").Op("&").Index().Add(f.elemType()).Values(),
				),
				jen.Op("*").Id(receiver).Dot(f.slot).Op("=").Append(jen.Op("*").Id(receiver).Dot(f.slot), jen.Id(argument)),
			))
		}
	}

	return out
}

// setterFunc emits
//
//	func (b *Builder) name(v T) *Builder { body...; return b }
func setterFunc(builder, name string, arg *model.TypeRef, comments []string, body ...jen.Code) jen.Code {
	argType, _ := typeCode(arg)
	body = append(body, jen.Return(jen.Id(receiver)))
	return withDoc(comments, jen.Func().
		Params(jen.Id(receiver).Op("*").Id(builder)).
		Id(name).
		Params(jen.Id(argument).Add(argType)).
		Op("*").Id(builder).
		Block(body...))
}

func doc(f *field, first string) []string {
	lines := []string{first}
	if f.schema.Comment != "" {
		lines = append(lines, "")
		lines = append(lines, splitLines(f.schema.Comment)...)
	}
	return lines
}
