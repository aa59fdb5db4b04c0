package generator

import (
	"github.com/dave/jennifer/jen"
)

// slotType wraps the declared type in one pointer level so that every slot,
// whatever its kind, has the same absent value: nil. Optional fields end up
// as **T and repeated fields as *[]T.
func slotType(f *field) jen.Code {
	return jen.Op("*").Add(f.declaredType())
}

// storageFields emits the builder struct body.
func storageFields(fields []*field) []jen.Code {
	out := make([]jen.Code, 0, len(fields))
	for _, f := range fields {
		out = append(out, jen.Id(f.slot).Add(slotType(f)))
	}
	return out
}

// defaultValue emits the literal of a fresh builder with every slot unset.
func defaultValue(builder string, fields []*field) jen.Code {
	return jen.Op("&").Id(builder).Values(jen.DictFunc(func(d jen.Dict) {
		for _, f := range fields {
			d[jen.Id(f.slot)] = jen.Nil()
		}
	}))
}
