package model

import (
	"strings"
)

type Kind int

const (
	KindInvalid   Kind = iota
	KindIdent          // string, int, User, T
	KindQualified      // uuid.UUID
	KindPointer        // *T
	KindSlice          // []T
	KindArray          // [N]T
	KindMap            // map[K]V
	KindChan           // chan T, <-chan T, chan<- T
	KindGeneric        // Page[T], pkg.Pair[K, V]
	KindInterface      // any, interface{}
)

type ChanDir int

const (
	ChanBoth ChanDir = iota
	ChanSend
	ChanRecv
)

// TypeRef is the syntactic shape of a declared type. It records what was
// written, not what the type resolves to: an alias of a pointer type is a
// KindIdent like any other named type.
type TypeRef struct {
	Kind    Kind
	PkgPath string   // import path for KindQualified, "" for local or builtin
	Pkg     string   // package alias as written at the use site
	Name    string   // "string", "UUID", "MyType"
	Len     string   // array length expression, KindArray only
	Elem    *TypeRef // Ptr, Slice, Array, Map value, Chan; generic base
	Key     *TypeRef // map key
	Args    []*TypeRef
	Dir     ChanDir
}

func (t *TypeRef) IsPtr() bool   { return t != nil && t.Kind == KindPointer }
func (t *TypeRef) IsSlice() bool { return t != nil && t.Kind == KindSlice }

// String renders the type as Go source text using the package aliases seen at
// the declaration site.
func (t *TypeRef) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *TypeRef) write(b *strings.Builder) {
	if t == nil {
		b.WriteString("<nil>")
		return
	}
	switch t.Kind {
	case KindIdent:
		b.WriteString(t.Name)
	case KindQualified:
		if t.Pkg != "" {
			b.WriteString(t.Pkg)
			b.WriteByte('.')
		}
		b.WriteString(t.Name)
	case KindPointer:
		b.WriteByte('*')
		t.Elem.write(b)
	case KindSlice:
		b.WriteString("[]")
		t.Elem.write(b)
	case KindArray:
		b.WriteByte('[')
		b.WriteString(t.Len)
		b.WriteByte(']')
		t.Elem.write(b)
	case KindMap:
		b.WriteString("map[")
		t.Key.write(b)
		b.WriteByte(']')
		t.Elem.write(b)
	case KindChan:
		switch t.Dir {
		case ChanSend:
			b.WriteString("chan<- ")
		case ChanRecv:
			b.WriteString("<-chan ")
		default:
			b.WriteString("chan ")
		}
		t.Elem.write(b)
	case KindGeneric:
		t.Elem.write(b)
		b.WriteByte('[')
		for i, a := range t.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.write(b)
		}
		b.WriteByte(']')
	case KindInterface:
		if t.Name != "" {
			b.WriteString(t.Name)
		} else {
			b.WriteString("interface{}")
		}
	default:
		b.WriteString("UNKNOWN")
	}
}

// Clone deep-copies a TypeRef graph.
func (t *TypeRef) Clone() *TypeRef {
	if t == nil {
		return nil
	}
	c := *t
	c.Elem = t.Elem.Clone()
	c.Key = t.Key.Clone()
	if t.Args != nil {
		c.Args = make([]*TypeRef, len(t.Args))
		for i, a := range t.Args {
			c.Args[i] = a.Clone()
		}
	}
	return &c
}

// Ident returns a local or builtin named type.
func Ident(name string) *TypeRef { return &TypeRef{Kind: KindIdent, Name: name} }

// Qualified returns a type imported from pkgPath, written as alias.name.
func Qualified(pkgPath, alias, name string) *TypeRef {
	return &TypeRef{Kind: KindQualified, PkgPath: pkgPath, Pkg: alias, Name: name}
}

func PointerTo(elem *TypeRef) *TypeRef { return &TypeRef{Kind: KindPointer, Elem: elem} }
func SliceOf(elem *TypeRef) *TypeRef   { return &TypeRef{Kind: KindSlice, Elem: elem} }
