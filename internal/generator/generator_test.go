package generator

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/buildergen/internal/model"
)

const testPkgPath = "example.com/app/user"

func fieldOf(name string, t *model.TypeRef, modifier ...string) *model.FieldSchema {
	f := &model.FieldSchema{Name: name, Type: t}
	if len(modifier) > 0 {
		f.Modifier = &modifier[0]
	}
	return f
}

func schemaOf(name string, fields ...*model.FieldSchema) *model.BuilderSchema {
	return &model.BuilderSchema{Name: name, PkgPath: testPkgPath, PkgName: "user", Fields: fields}
}

func userSchema() *model.BuilderSchema {
	return schemaOf("User",
		fieldOf("Name", model.Ident("string")),
		fieldOf("Age", model.PointerTo(model.Ident("uint32"))),
		fieldOf("Tags", model.SliceOf(model.Ident("string")), "each=tag"),
	)
}

func render(t *testing.T, units ...*Unit) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Render(testPkgPath, "user", units...).Render(&buf))
	return buf.String()
}

// funcNames lists the functions of src as Name or Recv.Name in source order.
func funcNames(t *testing.T, src string) []string {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "builder_gen.go", src, 0)
	require.NoError(t, err)

	var out []string
	for _, d := range f.Decls {
		fn, ok := d.(*ast.FuncDecl)
		if !ok {
			continue
		}
		name := fn.Name.Name
		if fn.Recv != nil {
			recv := fn.Recv.List[0].Type.(*ast.StarExpr).X.(*ast.Ident).Name
			name = recv + "." + name
		}
		out = append(out, name)
	}
	return out
}

func TestSynthesizeUser(t *testing.T) {
	u, err := Synthesize(userSchema(), DefaultConfig())
	require.NoError(t, err)

	require.Equal(t, "UserBuilder", u.Builder)
	require.Equal(t, "NewUserBuilder", u.Factory)
	require.Equal(t, []string{"Name", "Age", "Tags", "Tag"}, u.Setters())
	require.Equal(t, map[string]model.FieldKind{
		"Name": model.KindRequired,
		"Age":  model.KindOptional,
		"Tags": model.KindRepeated,
	}, u.Kinds())

	src := render(t, u)
	want := []string{
		"NewUserBuilder",
		"UserBuilder.Name",
		"UserBuilder.Age",
		"UserBuilder.Tags",
		"UserBuilder.Tag",
		"UserBuilder.Build",
		"UserBuilder.extractName",
		"UserBuilder.extractAge",
		"UserBuilder.extractTags",
	}
	require.Empty(t, cmp.Diff(want, funcNames(t, src)))

	for _, s := range []string{
		"// " + HeaderComment,
		"name *string",
		"age  **uint32",
		"tags *[]string",
		"func (b *UserBuilder) Age(v uint32) *UserBuilder {",
		"func (b *UserBuilder) Tags(v []string) *UserBuilder {",
		"func (b *UserBuilder) Tag(v string) *UserBuilder {",
		"func (b *UserBuilder) Build() (*User, error) {",
		`missing = append(missing, "Name")`,
		"func (b *UserBuilder) extractName() (v string, ok bool) {",
		"return append([]string{}, *b.tags...)",
	} {
		require.Contains(t, src, s)
	}
}

func TestSynthesizeAccumulatorNamedLikeField(t *testing.T) {
	u, err := Synthesize(schemaOf("User",
		fieldOf("Name", model.Ident("string")),
		fieldOf("Tags", model.SliceOf(model.Ident("string")), "each=tags"),
	), DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, []string{"Name", "Tags"}, u.Setters())

	src := render(t, u)
	require.Contains(t, src, "func (b *UserBuilder) Tags(v string) *UserBuilder {")
	require.NotContains(t, src, "Tags(v []string)")
	require.Contains(t, src, "*b.tags = append(*b.tags, v)")
}

func TestSynthesizePolicies(t *testing.T) {
	tests := []struct {
		policy  Policy
		want    []string
		notWant []string
	}{
		{
			policy: PolicyError,
			want: []string{
				"func (b *UserBuilder) Build() (*User, error) {",
				"var missing []string",
				`return nil, fmt.Errorf("UserBuilder: missing required field(s): %s", strings.Join(missing, ", "))`,
				`missing = append(missing, "Email")`,
			},
		},
		{
			policy:  PolicySoft,
			want:    []string{"func (b *UserBuilder) Build() *User {", "return nil"},
			notWant: []string{"missing", "panic(", `"fmt"`},
		},
		{
			policy: PolicyLoud,
			want: []string{
				"func (b *UserBuilder) Build() *User {",
				`panic("UserBuilder: required field Name is not set")`,
				`panic("UserBuilder: required field Email is not set")`,
			},
			notWant: []string{"missing", `"fmt"`},
		},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			s := userSchema()
			s.Fields = append(s.Fields, fieldOf("Email", model.Ident("string")))
			u, err := Synthesize(s, Config{Policy: tt.policy})
			require.NoError(t, err)

			src := render(t, u)
			for _, w := range tt.want {
				require.Contains(t, src, w)
			}
			for _, w := range tt.notWant {
				require.NotContains(t, src, w)
			}
		})
	}
}

func TestSynthesizeWithoutRequiredFields(t *testing.T) {
	u, err := Synthesize(schemaOf("Filter",
		fieldOf("Limit", model.PointerTo(model.Ident("int"))),
		fieldOf("IDs", model.SliceOf(model.Ident("int64"))),
	), DefaultConfig())
	require.NoError(t, err)

	src := render(t, u)
	require.NotContains(t, src, "missing")
	require.NotContains(t, src, `"fmt"`)
	require.Contains(t, src, "ids   *[]int64")
	require.Contains(t, src, "return &Filter{")
}

func TestSynthesizeNamingAndImports(t *testing.T) {
	u, err := Synthesize(schemaOf("Event",
		fieldOf("ID", model.Qualified("github.com/google/uuid", "uuid", "UUID")),
		fieldOf("Type", model.Ident("string")),
		fieldOf("Event", model.Ident("string")),
		fieldOf("Len", model.Ident("int")),
		fieldOf("URLPath", model.PointerTo(model.Ident("string"))),
		fieldOf("Labels", &model.TypeRef{Kind: model.KindMap, Key: model.Ident("string"), Elem: model.Ident("string")}),
		fieldOf("Window", &model.TypeRef{Kind: model.KindArray, Len: "2", Elem: model.Qualified("time", "time", "Time")}),
	), Config{Suffix: "Factory", FactoryPrefix: "Make"})
	require.NoError(t, err)
	require.Equal(t, "EventFactory", u.Builder)
	require.Equal(t, "MakeEventFactory", u.Factory)

	src := render(t, u)
	for _, s := range []string{
		`"github.com/google/uuid"`,
		`"time"`,
		"id         *uuid.UUID",
		"typeValue  *string",
		"eventValue *string",
		"lenValue   *int",
		"urlPath    **string",
		"labels     *map[string]string",
		"window     *[2]time.Time",
		"func MakeEventFactory() *EventFactory {",
		"func (b *EventFactory) ID(v uuid.UUID) *EventFactory {",
	} {
		require.Contains(t, src, s)
	}
}

func TestSynthesizeOmittedField(t *testing.T) {
	s := userSchema()
	s.Fields = append(s.Fields, &model.FieldSchema{Name: "Secret", Type: model.Ident("string"), Omit: true})

	u, err := Synthesize(s, DefaultConfig())
	require.NoError(t, err)
	require.NotContains(t, u.Kinds(), "Secret")
	require.NotContains(t, render(t, u), "Secret")
}

func TestSynthesizeErrors(t *testing.T) {
	tests := []struct {
		name      string
		fields    []*model.FieldSchema
		wantErr   error
		wantField string
	}{
		{
			name:      "modifier on required field",
			fields:    []*model.FieldSchema{fieldOf("Name", model.Ident("string"), "each=n")},
			wantErr:   ErrModifierOnScalar,
			wantField: "Name",
		},
		{
			name:      "unrecognized modifier",
			fields:    []*model.FieldSchema{fieldOf("Tags", model.SliceOf(model.Ident("string")), "size=3")},
			wantErr:   ErrUnrecognizedModifier,
			wantField: "Tags",
		},
		{
			name:      "unrecognized modifier on optional field",
			fields:    []*model.FieldSchema{fieldOf("Age", model.PointerTo(model.Ident("int")), "each")},
			wantErr:   ErrUnrecognizedModifier,
			wantField: "Age",
		},
		{
			name: "accumulator collides with another setter",
			fields: []*model.FieldSchema{
				fieldOf("Tags", model.SliceOf(model.Ident("string")), "each=name"),
				fieldOf("Name", model.Ident("string")),
			},
			wantErr:   ErrNameCollision,
			wantField: "Name",
		},
		{
			name:      "setter named Build",
			fields:    []*model.FieldSchema{fieldOf("Build", model.Ident("string"))},
			wantErr:   ErrNameCollision,
			wantField: "Build",
		},
		{
			name:      "accumulator named Build",
			fields:    []*model.FieldSchema{fieldOf("Steps", model.SliceOf(model.Ident("string")), "each=build")},
			wantErr:   ErrNameCollision,
			wantField: "Steps",
		},
		{
			name: "slots collide",
			fields: []*model.FieldSchema{
				fieldOf("Name", model.Ident("string")),
				fieldOf("name", model.Ident("string")),
			},
			wantErr:   ErrNameCollision,
			wantField: "name",
		},
		{
			name:      "unsupported type",
			fields:    []*model.FieldSchema{fieldOf("Fn", &model.TypeRef{})},
			wantErr:   ErrUnsupportedType,
			wantField: "Fn",
		},
		{
			name:      "qualified type without import path",
			fields:    []*model.FieldSchema{fieldOf("ID", model.PointerTo(model.Qualified("", "uuid", "UUID")))},
			wantErr:   ErrUnsupportedType,
			wantField: "ID",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := Synthesize(schemaOf("User", tt.fields...), DefaultConfig())
			require.Nil(t, u)
			require.ErrorIs(t, err, tt.wantErr)

			var se *SchemaError
			require.ErrorAs(t, err, &se)
			require.Equal(t, "User", se.Type)
			require.Equal(t, tt.wantField, se.Field)
		})
	}
}

func TestSynthesizeRejectsUnnamedSchema(t *testing.T) {
	_, err := Synthesize(&model.BuilderSchema{}, DefaultConfig())
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestRenderMultipleUnits(t *testing.T) {
	a, err := Synthesize(userSchema(), DefaultConfig())
	require.NoError(t, err)
	b, err := Synthesize(schemaOf("Group", fieldOf("Members", model.SliceOf(model.Ident("User")), "each=member")), DefaultConfig())
	require.NoError(t, err)

	names := funcNames(t, render(t, a, b))
	require.Contains(t, names, "NewUserBuilder")
	require.Contains(t, names, "NewGroupBuilder")
	require.Contains(t, names, "GroupBuilder.Member")
}
