package generator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmmoran/buildergen/internal/model"
)

func strPtr(s string) *string { return &s }

func TestClassify(t *testing.T) {
	str := model.Ident("string")
	tests := []struct {
		name     string
		declared *model.TypeRef
		modifier *string
		want     model.Classification
		wantErr  error
	}{
		{name: "required", declared: str, want: model.Classification{Kind: model.KindRequired, Elem: str}},
		{name: "optional", declared: model.PointerTo(str), want: model.Classification{Kind: model.KindOptional, Elem: str}},
		{name: "repeated", declared: model.SliceOf(str), want: model.Classification{Kind: model.KindRepeated, Elem: str}},
		{
			name:     "repeated with accumulator",
			declared: model.SliceOf(str),
			modifier: strPtr("each=tag"),
			want:     model.Classification{Kind: model.KindRepeated, Elem: str, Accumulator: "tag"},
		},
		{
			name:     "optional ignores modifier",
			declared: model.PointerTo(str),
			modifier: strPtr("each=x"),
			want:     model.Classification{Kind: model.KindOptional, Elem: str},
		},
		{
			name:     "pointer to slice is optional",
			declared: model.PointerTo(model.SliceOf(str)),
			want:     model.Classification{Kind: model.KindOptional, Elem: model.SliceOf(str)},
		},
		{
			name:     "slice of pointers is repeated",
			declared: model.SliceOf(model.PointerTo(str)),
			want:     model.Classification{Kind: model.KindRepeated, Elem: model.PointerTo(str)},
		},
		{
			name:     "map is required",
			declared: &model.TypeRef{Kind: model.KindMap, Key: str, Elem: str},
			want:     model.Classification{Kind: model.KindRequired, Elem: &model.TypeRef{Kind: model.KindMap, Key: str, Elem: str}},
		},
		{
			name:     "named slice type is required",
			declared: model.Ident("Strings"),
			want:     model.Classification{Kind: model.KindRequired, Elem: model.Ident("Strings")},
		},
		{name: "modifier on required", declared: str, modifier: strPtr("each=x"), wantErr: ErrModifierOnScalar},
		{name: "empty modifier on required", declared: str, modifier: strPtr(""), wantErr: ErrUnrecognizedModifier},
		{name: "bad modifier on optional", declared: model.PointerTo(str), modifier: strPtr("every=x"), wantErr: ErrUnrecognizedModifier},
		{name: "missing type", wantErr: ErrUnsupportedType},
		{name: "invalid type", declared: &model.TypeRef{}, wantErr: ErrUnsupportedType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.declared, tt.modifier)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseModifier(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "each=tag", want: "tag"},
		{raw: " each = tag ", want: "tag"},
		{raw: `each="tag"`, want: "tag"},
		{raw: "each='tag'", want: "tag"},
		{raw: "each=Tag", want: "Tag"},
		{raw: "each=", wantErr: true},
		{raw: "each", wantErr: true},
		{raw: "size=3", wantErr: true},
		{raw: "each=1tag", wantErr: true},
		{raw: "each=tag,each=x", wantErr: true},
		{raw: "each=tag-name", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseModifier(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnrecognizedModifier)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNames(t *testing.T) {
	tests := []struct {
		field, target string
		slot          string
		setter        string
	}{
		{field: "Name", target: "User", slot: "name", setter: "Name"},
		{field: "ID", target: "User", slot: "id", setter: "ID"},
		{field: "IDs", target: "User", slot: "ids", setter: "IDs"},
		{field: "URLPath", target: "User", slot: "urlPath", setter: "URLPath"},
		{field: "tags", target: "User", slot: "tags", setter: "Tags"},
		{field: "Type", target: "User", slot: "typeValue", setter: "Type"},
		{field: "OK", target: "User", slot: "okValue", setter: "OK"},
		{field: "Missing", target: "User", slot: "missingValue", setter: "Missing"},
		{field: "String", target: "User", slot: "stringValue", setter: "String"},
		{field: "User", target: "User", slot: "userValue", setter: "User"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			require.Equal(t, tt.slot, slotName(tt.field, tt.target))
			require.Equal(t, tt.setter, ExportName(tt.field))
			require.Equal(t, "extract"+tt.setter, extractorName(tt.field))
		})
	}
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": PolicyError, "error": PolicyError, " Soft ": PolicySoft, "LOUD": PolicyLoud} {
		got, err := ParsePolicy(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParsePolicy("strict")
	require.Error(t, err)
}
