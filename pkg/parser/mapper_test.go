package parser

import (
	goparser "go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmmoran/buildergen/internal/generator"
	"github.com/cmmoran/buildergen/internal/model"
)

func TestParseTypeExpr(ttt *testing.T) {
	imports := map[string]string{"uuid": "github.com/google/uuid", "sql": "database/sql"}
	tests := []struct {
		src      string
		wantKind model.Kind
		wantText string
		wantErr  bool
	}{
		{src: "string", wantKind: model.KindIdent, wantText: "string"},
		{src: "any", wantKind: model.KindInterface, wantText: "any"},
		{src: "interface{}", wantKind: model.KindInterface, wantText: "interface{}"},
		{src: "uuid.UUID", wantKind: model.KindQualified, wantText: "uuid.UUID"},
		{src: "*sql.NullString", wantKind: model.KindPointer, wantText: "*sql.NullString"},
		{src: "[]*User", wantKind: model.KindSlice, wantText: "[]*User"},
		{src: "[4]byte", wantKind: model.KindArray, wantText: "[4]byte"},
		{src: "[N + 1]int", wantKind: model.KindArray, wantText: "[N + 1]int"},
		{src: "map[string][]int", wantKind: model.KindMap, wantText: "map[string][]int"},
		{src: "chan int", wantKind: model.KindChan, wantText: "chan int"},
		{src: "<-chan int", wantKind: model.KindChan, wantText: "<-chan int"},
		{src: "chan<- int", wantKind: model.KindChan, wantText: "chan<- int"},
		{src: "Page[User]", wantKind: model.KindGeneric, wantText: "Page[User]"},
		{src: "Pair[string, uuid.UUID]", wantKind: model.KindGeneric, wantText: "Pair[string, uuid.UUID]"},
		{src: " (*int) ", wantKind: model.KindPointer, wantText: "*int"},
		{src: "func()", wantErr: true},
		{src: "struct{}", wantErr: true},
		{src: "interface{ M() }", wantErr: true},
		{src: "[]", wantErr: true},
	}
	for _, tt := range tests {
		ttt.Run(tt.src, func(t *testing.T) {
			got, err := ParseTypeExpr(tt.src, imports)
			if tt.wantErr {
				require.ErrorIs(t, err, generator.ErrUnsupportedType)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantKind, got.Kind)
			require.Equal(t, tt.wantText, got.String())
		})
	}
}

func TestParseTypeExprResolvesImports(t *testing.T) {
	got, err := ParseTypeExpr("map[uuid.UUID]*sql.NullString", map[string]string{
		"uuid": "github.com/google/uuid",
		"sql":  "database/sql",
	})
	require.NoError(t, err)
	require.Equal(t, "github.com/google/uuid", got.Key.PkgPath)
	require.Equal(t, "database/sql", got.Elem.Elem.PkgPath)

}

func TestParseTypeExprRejectsUnknownPackage(t *testing.T) {
	for _, src := range []string{"decimal.Decimal", "[]*decimal.Decimal", "map[string]v1.Pod"} {
		_, err := ParseTypeExpr(src, map[string]string{"uuid": "github.com/google/uuid"})
		require.ErrorIs(t, err, generator.ErrUnsupportedType, src)
	}
}

func TestFileImportsPrefersLoaderNames(t *testing.T) {
	file, err := goparser.ParseFile(token.NewFileSet(), "p.go", `package p

import (
	"k8s.io/api/core/v1"
	meta "k8s.io/apimachinery/pkg/apis/meta/v1"
	"github.com/google/uuid"
	_ "embed"
)
`, goparser.ImportsOnly)
	require.NoError(t, err)

	got := fileImports(file, map[string]string{
		"k8s.io/api/core/v1":                   "v1",
		"k8s.io/apimachinery/pkg/apis/meta/v1": "v1",
	})
	require.Equal(t, importSet{
		"v1":   "k8s.io/api/core/v1",
		"meta": "k8s.io/apimachinery/pkg/apis/meta/v1",
		"uuid": "github.com/google/uuid",
	}, got)
}

func TestGuessPackageName(t *testing.T) {
	for path, want := range map[string]string{
		"time":                                   "time",
		"github.com/google/uuid":                 "uuid",
		"gopkg.in/yaml.v3":                       "yaml",
		"github.com/google/go-github/v74":        "github",
		"github.com/go-playground/validator/v10": "validator",
		"github.com/google/go-cmp/cmp":           "cmp",
		"github.com/mattn/go-sqlite3":            "sqlite3",
	} {
		require.Equal(t, want, guessPackageName(path), path)
	}
}
