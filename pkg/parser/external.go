package parser

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

var ErrNoModule = errors.New("no go.mod found")

// FindGoModDir walks up from dir until it finds go.mod.
func FindGoModDir(dir string) (string, error) {
	from, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if _, err = os.Stat(filepath.Join(from, "go.mod")); err == nil {
			return from, nil
		}
		parent := filepath.Dir(from)
		if parent == from {
			return "", fmt.Errorf("%w above %s", ErrNoModule, dir)
		}
		from = parent
	}
}

// ModulePath reads the module path declared in modDir/go.mod.
func ModulePath(modDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(modDir, "go.mod"))
	if err != nil {
		return "", err
	}
	mf, err := modfile.Parse("go.mod", data, nil)
	if err != nil {
		return "", err
	}
	if mf.Module == nil {
		return "", fmt.Errorf("%s/go.mod has no module directive", modDir)
	}
	return mf.Module.Mod.Path, nil
}

// ImportPathForDir derives the import path of the package in dir from the
// enclosing module.
func ImportPathForDir(dir string) (string, error) {
	modDir, err := FindGoModDir(dir)
	if err != nil {
		return "", err
	}
	modPath, err := ModulePath(modDir)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(modDir, abs)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return modPath, nil
	}
	return path.Join(modPath, filepath.ToSlash(rel)), nil
}
