package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const Version = 1

// Entry represents one generated builder file in the manifest.
type Entry struct {
	Package   string    `yaml:"package" json:"package"`
	File      string    `yaml:"file" json:"file"`
	Types     []string  `yaml:"types" json:"types"`
	Policy    string    `yaml:"policy" json:"policy"`
	Checksum  string    `yaml:"checksum" json:"checksum"`
	Generated time.Time `yaml:"generated" json:"generated"`
}

// Manifest tracks the files written by generate runs.
type Manifest struct {
	Version int     `yaml:"version" json:"version"`
	Entries []Entry `yaml:"entries" json:"entries"`
}

// Load reads a manifest from the provided path. If the file does not exist,
// an empty manifest is returned.
func Load(fs afero.Fs, path string) (*Manifest, error) {
	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return &Manifest{Version: Version}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	if m.Version > Version {
		return nil, fmt.Errorf("manifest version %d is newer than supported version %d", m.Version, Version)
	}
	if m.Version == 0 {
		m.Version = Version
	}

	return &m, nil
}

// Save writes the manifest to the provided path, creating parent directories as needed.
func (m *Manifest) Save(fs afero.Fs, path string) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// AddEntry records a generated file, replacing an existing entry for the
// same file. Entries stay sorted by file.
func (m *Manifest) AddEntry(e Entry) {
	if i := slices.IndexFunc(m.Entries, func(x Entry) bool { return x.File == e.File }); i >= 0 {
		m.Entries[i] = e
		return
	}

	m.Entries = append(m.Entries, e)
	slices.SortFunc(m.Entries, func(a, b Entry) int { return strings.Compare(a.File, b.File) })
}

// Entry returns the entry recorded for file, if present.
func (m *Manifest) Entry(file string) (Entry, bool) {
	for _, e := range m.Entries {
		if e.File == file {
			return e, true
		}
	}
	return Entry{}, false
}

// Checksum is the hex sha256 of generated file contents.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
