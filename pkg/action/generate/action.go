package generate

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/cmmoran/buildergen/pkg/manifest"
	"github.com/cmmoran/buildergen/pkg/parser"
)

// Render loads the configured packages and renders their builder files
// without writing anything.
func Render(opts *parser.Options, excludeByTags ...string) ([]*parser.GeneratedFile, error) {
	par, err := parser.NewWithOpts(opts, excludeByTags...)
	if err != nil {
		return nil, err
	}
	if err = par.Parse(); err != nil {
		return nil, err
	}
	files, err := par.GenerateBuilderFiles()
	if err != nil {
		return nil, err
	}
	*opts = par.Opts
	return files, nil
}

// Generate renders and writes the builder file of every selected package,
// recording them in the manifest when opts.Manifest is set.
func Generate(fs afero.Fs, opts *parser.Options, excludeByTags ...string) ([]*parser.GeneratedFile, error) {
	files, err := Render(opts, excludeByTags...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		slog.Warn("no structs selected for generation", "dir", opts.InDir, "patterns", opts.Patterns)
		return nil, nil
	}
	if err = Write(fs, opts.InDir, opts.Manifest, files...); err != nil {
		return nil, err
	}
	return files, nil
}

// Write renders every file first and writes only when all of them rendered.
// Manifest entries record file paths relative to root.
func Write(fs afero.Fs, root, manifestPath string, files ...*parser.GeneratedFile) error {
	contents := make([][]byte, len(files))
	for i, f := range files {
		data, err := f.Bytes()
		if err != nil {
			return fmt.Errorf("render %s: %w", f.Path, err)
		}
		contents[i] = data
	}

	for i, f := range files {
		if err := fs.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", filepath.Dir(f.Path), err)
		}
		if err := afero.WriteFile(fs, f.Path, contents[i], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.Path, err)
		}
		slog.Info("wrote builders", "file", f.Path, "types", f.Types)
	}

	if manifestPath == "" {
		return nil
	}

	m, err := manifest.Load(fs, manifestPath)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for i, f := range files {
		m.AddEntry(manifest.Entry{
			Package:   f.PkgPath,
			File:      RelPath(root, f.Path),
			Types:     f.Types,
			Policy:    string(f.Policy),
			Checksum:  manifest.Checksum(contents[i]),
			Generated: now,
		})
	}
	return m.Save(fs, manifestPath)
}

// RelPath returns path relative to root in slash form, or path itself when it
// is not below root.
func RelPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
