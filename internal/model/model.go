package model

import (
	"go/ast"
	"reflect"
)

type RawField struct {
	Name       string        // Go identifier; for embedded fields the type name
	Comment    string        // top‐of‐field comment
	TypeExpr   ast.Expr      // AST for the type (pointer, slice, selector, …)
	TagLit     *ast.BasicLit // the raw `\`…\`` literal
	IsExport   bool          // ast.IsExported(Name)
	IsEmbedded bool
}

type RawStruct struct {
	Name       string // type name
	Comment    string
	Directive  bool // doc comment carries the generation directive
	TypeParams []string
	Fields     []*RawField
	PkgPath    string    // e.g. "github.com/you/project/model"
	PkgName    string    // e.g. "model"
	File       *ast.File // to lookup imports for type resolution
	FileName   string
}

// FieldSchema describes one struct field feeding code synthesis.
type FieldSchema struct {
	Name     string
	Type     *TypeRef
	Modifier *string // raw `builder` tag value, nil when the tag is absent
	Tag      reflect.StructTag
	Comment  string
	Embedded bool
	Omit     bool // left out of the builder; keeps its zero value on Build
}

// BuilderSchema is the ordered field list of one source struct. It is built
// once per generation request and not modified afterwards.
type BuilderSchema struct {
	Name    string
	PkgPath string
	PkgName string
	Comment string
	Fields  []*FieldSchema
}

// Field returns the field named name, or nil.
func (s *BuilderSchema) Field(name string) *FieldSchema {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Package groups the schemas of one Go package; each Package becomes one
// generated file in Dir.
type Package struct {
	PkgPath string
	PkgName string
	Dir     string
	Schemas []*BuilderSchema
}
