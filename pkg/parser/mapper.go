package parser

import (
	"fmt"
	"go/ast"
	goparser "go/parser"
	"go/types"
	"path"
	"regexp"
	"strings"

	"github.com/cmmoran/buildergen/internal/generator"
	"github.com/cmmoran/buildergen/internal/model"
)

// importSet maps the package aliases visible in one file to import paths.
type importSet map[string]string

// fileImports builds the alias → path map for a file. Explicit names win,
// then names reported by the loader; otherwise the package name is guessed
// from the path.
func fileImports(file *ast.File, names map[string]string) importSet {
	out := importSet{}
	for _, imp := range file.Imports {
		p := strings.Trim(imp.Path.Value, "`\"")
		var alias string
		if imp.Name != nil {
			if imp.Name.Name == "_" || imp.Name.Name == "." {
				continue
			}
			alias = imp.Name.Name
		} else if n := names[p]; n != "" {
			alias = n
		} else {
			alias = guessPackageName(p)
		}
		out[alias] = p
	}
	return out
}

var majorVersion = regexp.MustCompile(`^v[0-9]+$`)

// guessPackageName applies the usual import path conventions:
// gopkg.in/yaml.v3 → yaml, github.com/x/y/v2 → y, github.com/x/go-cmp → cmp.
func guessPackageName(importPath string) string {
	elems := strings.Split(importPath, "/")
	name := path.Base(importPath)
	if majorVersion.MatchString(name) && len(elems) > 1 {
		name = elems[len(elems)-2]
	}
	if i := strings.Index(name, ".v"); i > 0 {
		name = name[:i]
	}
	name = strings.TrimPrefix(name, "go-")
	name = strings.TrimSuffix(name, "-go")
	return strings.ReplaceAll(name, "-", "")
}

// typeRefFromExpr converts a field type expression into its syntactic
// TypeRef. Only shapes a builder can store are accepted; function types,
// struct literals and non-empty interface literals are rejected.
func typeRefFromExpr(expr ast.Expr, imports importSet) (*model.TypeRef, error) {
	switch t := expr.(type) {
	case *ast.Ident:
		if t.Name == "any" {
			return &model.TypeRef{Kind: model.KindInterface, Name: "any"}, nil
		}
		return model.Ident(t.Name), nil

	case *ast.SelectorExpr:
		pkg, ok := t.X.(*ast.Ident)
		if !ok {
			return nil, unsupported(expr)
		}
		p, ok := imports[pkg.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s: package %q is not imported", generator.ErrUnsupportedType, types.ExprString(expr), pkg.Name)
		}
		return model.Qualified(p, pkg.Name, t.Sel.Name), nil

	case *ast.StarExpr:
		elem, err := typeRefFromExpr(t.X, imports)
		if err != nil {
			return nil, err
		}
		return model.PointerTo(elem), nil

	case *ast.ArrayType:
		elem, err := typeRefFromExpr(t.Elt, imports)
		if err != nil {
			return nil, err
		}
		if t.Len == nil {
			return model.SliceOf(elem), nil
		}
		if _, ok := t.Len.(*ast.Ellipsis); ok {
			return nil, unsupported(expr)
		}
		return &model.TypeRef{Kind: model.KindArray, Len: types.ExprString(t.Len), Elem: elem}, nil

	case *ast.MapType:
		key, err := typeRefFromExpr(t.Key, imports)
		if err != nil {
			return nil, err
		}
		val, err := typeRefFromExpr(t.Value, imports)
		if err != nil {
			return nil, err
		}
		return &model.TypeRef{Kind: model.KindMap, Key: key, Elem: val}, nil

	case *ast.ChanType:
		elem, err := typeRefFromExpr(t.Value, imports)
		if err != nil {
			return nil, err
		}
		dir := model.ChanBoth
		switch t.Dir {
		case ast.SEND:
			dir = model.ChanSend
		case ast.RECV:
			dir = model.ChanRecv
		}
		return &model.TypeRef{Kind: model.KindChan, Elem: elem, Dir: dir}, nil

	case *ast.IndexExpr:
		return genericRef(t.X, []ast.Expr{t.Index}, imports)

	case *ast.IndexListExpr:
		return genericRef(t.X, t.Indices, imports)

	case *ast.InterfaceType:
		if t.Methods == nil || len(t.Methods.List) == 0 {
			return &model.TypeRef{Kind: model.KindInterface}, nil
		}

	case *ast.ParenExpr:
		return typeRefFromExpr(t.X, imports)
	}

	return nil, unsupported(expr)
}

func genericRef(base ast.Expr, args []ast.Expr, imports importSet) (*model.TypeRef, error) {
	b, err := typeRefFromExpr(base, imports)
	if err != nil {
		return nil, err
	}
	ref := &model.TypeRef{Kind: model.KindGeneric, Elem: b, Args: make([]*model.TypeRef, 0, len(args))}
	for _, a := range args {
		ar, err := typeRefFromExpr(a, imports)
		if err != nil {
			return nil, err
		}
		ref.Args = append(ref.Args, ar)
	}
	return ref, nil
}

func unsupported(expr ast.Expr) error {
	return fmt.Errorf("%w: %s", generator.ErrUnsupportedType, types.ExprString(expr))
}

// ParseTypeExpr parses type source text, as found in schema files, into a
// TypeRef resolved against imports (alias → import path).
func ParseTypeExpr(src string, imports map[string]string) (*model.TypeRef, error) {
	expr, err := goparser.ParseExpr(strings.TrimSpace(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", generator.ErrUnsupportedType, src, err)
	}
	return typeRefFromExpr(expr, importSet(imports))
}
