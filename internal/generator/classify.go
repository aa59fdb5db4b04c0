package generator

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/cmmoran/buildergen/internal/model"
)

// ModifierTag is the struct tag key holding a field modifier.
const ModifierTag = "builder"

const modifierEach = "each"

// Classify derives the FieldKind of a field from the textual shape of its
// declared type and its modifier. No type resolution takes place: a named
// slice type or an alias of a pointer is Required.
//
//	*T  → Optional(T), a modifier is ignored
//	[]T → Repeated(T), with the `each` accumulator name when given
//	T   → Required(T), a modifier is an error
//
// A modifier that does not parse fails regardless of the type.
func Classify(declared *model.TypeRef, modifier *string) (model.Classification, error) {
	var each string
	if modifier != nil {
		name, err := ParseModifier(*modifier)
		if err != nil {
			return model.Classification{}, err
		}
		each = name
	}

	if declared == nil {
		return model.Classification{}, fmt.Errorf("%w: missing type", ErrUnsupportedType)
	}

	switch declared.Kind {
	case model.KindPointer:
		return model.Classification{Kind: model.KindOptional, Elem: declared.Elem}, nil
	case model.KindSlice:
		return model.Classification{Kind: model.KindRepeated, Elem: declared.Elem, Accumulator: each}, nil
	case model.KindInvalid:
		return model.Classification{}, fmt.Errorf("%w: %s", ErrUnsupportedType, declared)
	}

	if modifier != nil {
		return model.Classification{}, fmt.Errorf("%w: %q on %s", ErrModifierOnScalar, *modifier, declared)
	}
	return model.Classification{Kind: model.KindRequired, Elem: declared}, nil
}

// ParseModifier parses the single recognized modifier form, each=<name>,
// and returns the accumulator name. Spaces around '=' are allowed and the
// name may be single or double quoted.
func ParseModifier(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if strings.Contains(s, ",") {
		return "", fmt.Errorf("%w: %q: only one modifier is allowed", ErrUnrecognizedModifier, raw)
	}

	key, val, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(key) != modifierEach {
		return "", fmt.Errorf("%w: %q: want each=<name>", ErrUnrecognizedModifier, raw)
	}

	val = unquote(strings.TrimSpace(val))
	if !token.IsIdentifier(val) {
		return "", fmt.Errorf("%w: %q: %q is not an identifier", ErrUnrecognizedModifier, raw, val)
	}
	return val, nil
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}
