package model

// FieldKind is the classification of a field that decides how its builder
// slot is stored, set and unwrapped.
type FieldKind int

const (
	KindRequired FieldKind = iota
	KindOptional
	KindRepeated
)

func (k FieldKind) String() string {
	switch k {
	case KindRequired:
		return "required"
	case KindOptional:
		return "optional"
	case KindRepeated:
		return "repeated"
	}
	return "unknown"
}

// Classification is the derived FieldKind plus the element type. For
// KindRequired Elem is the declared type itself; for KindOptional and
// KindRepeated it is the pointer or slice element.
type Classification struct {
	Kind        FieldKind
	Elem        *TypeRef
	Accumulator string // `each` name as written, KindRepeated only
}
