package verify

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/cmmoran/buildergen/pkg/action/generate"
	"github.com/cmmoran/buildergen/pkg/manifest"
	"github.com/cmmoran/buildergen/pkg/parser"
)

// Drift describes a generated file whose on-disk content no longer matches.
type Drift struct {
	Path   string
	Reason string
	Diff   string // -disk +generated
}

func (d Drift) String() string {
	if d.Diff == "" {
		return fmt.Sprintf("%s: %s", d.Path, d.Reason)
	}
	return fmt.Sprintf("%s: %s\n%s", d.Path, d.Reason, d.Diff)
}

// Verify regenerates the builder files in memory and compares them with fs.
func Verify(fs afero.Fs, opts *parser.Options, excludeByTags ...string) ([]Drift, error) {
	files, err := generate.Render(opts, excludeByTags...)
	if err != nil {
		return nil, err
	}
	return Compare(fs, files...)
}

// Compare reports every file whose content on fs differs from the rendered
// one, including files that are missing.
func Compare(fs afero.Fs, files ...*parser.GeneratedFile) ([]Drift, error) {
	var drifts []Drift
	for _, f := range files {
		want, err := f.Bytes()
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", f.Path, err)
		}
		got, err := afero.ReadFile(fs, f.Path)
		if errors.Is(err, os.ErrNotExist) {
			drifts = append(drifts, Drift{Path: f.Path, Reason: "not generated"})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Path, err)
		}
		if diff := cmp.Diff(string(got), string(want)); diff != "" {
			drifts = append(drifts, Drift{Path: f.Path, Reason: "out of date", Diff: diff})
		}
	}
	return drifts, nil
}

// CompareManifest reports recorded files whose content on fs no longer
// matches the checksum written at generation time. Paths in the manifest are
// resolved against root.
func CompareManifest(fs afero.Fs, root, manifestPath string) ([]Drift, error) {
	m, err := manifest.Load(fs, manifestPath)
	if err != nil {
		return nil, err
	}

	var drifts []Drift
	for _, e := range m.Entries {
		p := filepath.Join(root, filepath.FromSlash(e.File))
		data, err := afero.ReadFile(fs, p)
		if errors.Is(err, os.ErrNotExist) {
			drifts = append(drifts, Drift{Path: p, Reason: "recorded in manifest but missing"})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		if sum := manifest.Checksum(data); sum != e.Checksum {
			drifts = append(drifts, Drift{Path: p, Reason: "edited after generation"})
		}
	}
	return drifts, nil
}
