package generator

import (
	"errors"
	"fmt"
)

var (
	ErrUnrecognizedModifier = errors.New("unrecognized modifier")
	ErrModifierOnScalar     = errors.New("modifier on non-collection field")
	ErrNameCollision        = errors.New("name collision")
	ErrUnsupportedType      = errors.New("unsupported field type")
	ErrGenericType          = errors.New("generic struct types are not supported")
)

// SchemaError reports an author mistake in a struct declaration. It always
// aborts generation of the whole file.
type SchemaError struct {
	Type  string
	Field string
	Err   error
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("%s.%s: %v", e.Type, e.Field, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
