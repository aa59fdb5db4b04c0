package manifest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingManifest(t *testing.T) {
	m, err := Load(afero.NewMemMapFs(), "/nope.yaml")
	require.NoError(t, err)
	require.Equal(t, &Manifest{Version: Version}, m)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := &Manifest{Version: Version}
	m.AddEntry(Entry{Package: "example.com/b", File: "b/builder_gen.go", Types: []string{"B"}, Policy: "soft", Checksum: Checksum([]byte("b"))})
	m.AddEntry(Entry{Package: "example.com/a", File: "a/builder_gen.go", Types: []string{"A1", "A2"}, Policy: "error", Checksum: Checksum([]byte("a"))})
	require.NoError(t, m.Save(fs, "/repo/.buildergen/manifest.yaml"))

	got, err := Load(fs, "/repo/.buildergen/manifest.yaml")
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(m, got))
	require.Equal(t, "a/builder_gen.go", got.Entries[0].File)
}

func TestAddEntryReplacesSameFile(t *testing.T) {
	m := &Manifest{}
	m.AddEntry(Entry{File: "x.go", Types: []string{"A"}})
	m.AddEntry(Entry{File: "x.go", Types: []string{"A", "B"}})

	require.Len(t, m.Entries, 1)
	e, ok := m.Entry("x.go")
	require.True(t, ok)
	require.Equal(t, []string{"A", "B"}, e.Types)

	_, ok = m.Entry("y.go")
	require.False(t, ok)
}

func TestLoadRejects(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad.yaml", []byte("entries: {"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/future.yaml", []byte("version: 99\n"), 0o644))

	_, err := Load(fs, "/bad.yaml")
	require.ErrorContains(t, err, "unmarshal manifest")
	_, err = Load(fs, "/future.yaml")
	require.ErrorContains(t, err, "newer than supported")
}

func TestChecksum(t *testing.T) {
	require.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Checksum(nil))
}
