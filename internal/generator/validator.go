package generator

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/buildergen/internal/model"
)

// extractor emits the helper Build uses to read a slot. Extractors copy what
// they return, so Build never hands out builder storage and the builder
// stays usable afterwards.
//
//	required: (v T, ok bool), ok is false when the slot is unset
//	optional: *T, nil when unset or set to nil
//	repeated: []T, empty (never nil) when unset
func extractor(builder string, f *field) jen.Code {
	slot := jen.Id(receiver).Dot(f.slot)
	fn := jen.Func().Params(jen.Id(receiver).Op("*").Id(builder)).Id(f.extractor).Params()

	switch f.class.Kind {
	case model.KindRequired:
		return fn.Params(jen.Id(argument).Add(f.elemType()), jen.Id("ok").Bool()).Block(
			jen.If(slot.Clone().Op("==").Nil()).Block(
				jen.Return(jen.Id(argument), jen.False()),
			),
			jen.Return(jen.Op("*").Add(slot.Clone()), jen.True()),
		)

	case model.KindOptional:
		return fn.Op("*").Add(f.elemType()).Block(
			jen.If(slot.Clone().Op("==").Nil().Op("||").Op("*").Add(slot.Clone()).Op("==").Nil()).Block(
				jen.Return(jen.Nil()),
			),
			jen.Id(argument).Op(":=").Op("**").Add(slot.Clone()),
			jen.Return(jen.Op("&").Id(argument)),
		)

	default:
		return fn.Index().Add(f.elemType()).Block(
			jen.If(slot.Clone().Op("==").Nil()).Block(
				jen.Return(jen.Index().Add(f.elemType()).Values()),
			),
			jen.Return(jen.Append(jen.Index().Add(f.elemType()).Values(), jen.Op("*").Add(slot.Clone()).Op("..."))),
		)
	}
}

// requiredChecks emits, for every required field in declaration order, the
// extraction into a local and the policy-specific reaction to an unset slot.
// Checks run before the target value is constructed.
func requiredChecks(g *jen.Group, builder string, policy Policy, fields []*field) {
	required := make([]*field, 0, len(fields))
	for _, f := range fields {
		if f.class.Kind == model.KindRequired {
			required = append(required, f)
		}
	}
	if len(required) == 0 {
		return
	}

	if policy == PolicyError {
		g.Var().Id("missing").Index().String()
	}
	for _, f := range required {
		g.List(jen.Id(f.slot), jen.Id("ok")).Op(":=").Id(receiver).Dot(f.extractor).Call()
		switch policy {
		case PolicySoft:
			g.If(jen.Op("!").Id("ok")).Block(jen.Return(jen.Nil()))
		case PolicyLoud:
			g.If(jen.Op("!").Id("ok")).Block(
				jen.Panic(jen.Lit(fmt.Sprintf("%s: required field %s is not set", builder, f.schema.Name))),
			)
		default:
			g.If(jen.Op("!").Id("ok")).Block(
				jen.Id("missing").Op("=").Append(jen.Id("missing"), jen.Lit(f.schema.Name)),
			)
		}
	}
	if policy == PolicyError {
		g.If(jen.Len(jen.Id("missing")).Op(">").Lit(0)).Block(
			jen.Return(jen.Nil(), jen.Qual("fmt", "Errorf").Call(
				jen.Lit(builder+": missing required field(s): %s"),
				jen.Qual("strings", "Join").Call(jen.Id("missing"), jen.Lit(", ")),
			)),
		)
	}
}

// fieldValue is the expression Build assigns to a target field.
func fieldValue(f *field) jen.Code {
	if f.class.Kind == model.KindRequired {
		return jen.Id(f.slot)
	}
	return jen.Id(receiver).Dot(f.extractor).Call()
}
