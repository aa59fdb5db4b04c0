package generate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/buildergen/pkg/manifest"
	"github.com/cmmoran/buildergen/pkg/parser"
)

const exampleDir = "../../../examples/user"

func TestGenerateExample(t *testing.T) {
	fs := afero.NewMemMapFs()
	opts := parser.NewOptions()
	parser.WithInDir(exampleDir)(opts)
	parser.WithManifest("/out/buildergen.yaml")(opts)

	files, err := Generate(fs, opts)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "github.com/cmmoran/buildergen/examples/user", files[0].PkgPath)

	got, err := afero.ReadFile(fs, files[0].Path)
	require.NoError(t, err)
	want, err := os.ReadFile(filepath.Join(exampleDir, "builder_gen.go"))
	require.NoError(t, err)
	require.Equal(t, string(want), string(got))

	m, err := manifest.Load(fs, "/out/buildergen.yaml")
	require.NoError(t, err)
	require.Len(t, m.Entries, 1)
	e := m.Entries[0]
	require.Equal(t, "builder_gen.go", e.File)
	require.Equal(t, []string{"User"}, e.Types)
	require.Equal(t, "error", e.Policy)
	require.Equal(t, manifest.Checksum(want), e.Checksum)
}

func TestGenerateNothingSelected(t *testing.T) {
	fs := afero.NewMemMapFs()
	opts := parser.NewOptions()
	parser.WithInDir("../../manifest")(opts)

	files, err := Generate(fs, opts)
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestWriteUpdatesManifestEntries(t *testing.T) {
	fs := afero.NewMemMapFs()
	src := []byte(`package m

//buildergen:generate
type T struct{ A string }
`)
	p, err := parser.New(parser.WithPolicy("loud"))
	require.NoError(t, err)
	require.NoError(t, p.ParseSource("/repo/m/m.go", "example.com/m", src))
	files, err := p.GenerateBuilderFiles()
	require.NoError(t, err)

	require.NoError(t, Write(fs, "/repo", "/repo/buildergen.yaml", files...))
	require.NoError(t, Write(fs, "/repo", "/repo/buildergen.yaml", files...))

	exists, err := afero.Exists(fs, "/repo/m/builder_gen.go")
	require.NoError(t, err)
	require.True(t, exists)

	m, err := manifest.Load(fs, "/repo/buildergen.yaml")
	require.NoError(t, err)
	require.Len(t, m.Entries, 1)
	require.Equal(t, "m/builder_gen.go", m.Entries[0].File)
	require.Equal(t, "example.com/m", m.Entries[0].Package)
	require.Equal(t, "loud", m.Entries[0].Policy)
}

func TestRelPath(t *testing.T) {
	require.Equal(t, "a/b.go", RelPath("/repo", "/repo/a/b.go"))
	require.Equal(t, "../x/b.go", RelPath("/repo", "/x/b.go"))
}
