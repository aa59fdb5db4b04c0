package generator

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/buildergen/internal/model"
)

// typeCode converts a TypeRef into jen code. Qualified types go through
// jen.Qual so the rendered file imports exactly what it uses.
func typeCode(t *model.TypeRef) (jen.Code, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: missing type", ErrUnsupportedType)
	}

	switch t.Kind {
	case model.KindIdent:
		return jen.Id(t.Name), nil

	case model.KindQualified:
		if t.PkgPath == "" {
			return nil, fmt.Errorf("%w: %s.%s: package %q has no import path", ErrUnsupportedType, t.Pkg, t.Name, t.Pkg)
		}
		return jen.Qual(t.PkgPath, t.Name), nil

	case model.KindPointer:
		elem, err := typeCode(t.Elem)
		if err != nil {
			return nil, err
		}
		return jen.Op("*").Add(elem), nil

	case model.KindSlice:
		elem, err := typeCode(t.Elem)
		if err != nil {
			return nil, err
		}
		return jen.Index().Add(elem), nil

	case model.KindArray:
		elem, err := typeCode(t.Elem)
		if err != nil {
			return nil, err
		}
		return jen.Index(jen.Id(t.Len)).Add(elem), nil

	case model.KindMap:
		key, err := typeCode(t.Key)
		if err != nil {
			return nil, err
		}
		elem, err := typeCode(t.Elem)
		if err != nil {
			return nil, err
		}
		return jen.Map(key).Add(elem), nil

	case model.KindChan:
		elem, err := typeCode(t.Elem)
		if err != nil {
			return nil, err
		}
		switch t.Dir {
		case model.ChanSend:
			return jen.Chan().Op("<-").Add(elem), nil
		case model.ChanRecv:
			return jen.Op("<-").Chan().Add(elem), nil
		}
		return jen.Chan().Add(elem), nil

	case model.KindGeneric:
		base, err := typeCode(t.Elem)
		if err != nil {
			return nil, err
		}
		args := make([]jen.Code, 0, len(t.Args))
		for _, a := range t.Args {
			ac, err := typeCode(a)
			if err != nil {
				return nil, err
			}
			args = append(args, ac)
		}
		return jen.Add(base).Types(args...), nil

	case model.KindInterface:
		if t.Name != "" {
			return jen.Id(t.Name), nil
		}
		return jen.Interface(), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}
