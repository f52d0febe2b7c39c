// Package project reads a vane.toml manifest: the package name and the
// entry source files a "vanec build" with no explicit path should compile.
// Single-package scope only, with no multi-module dependency graph.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest is the decoded [package] section of a vane.toml.
type Manifest struct {
	Root   string
	Config struct {
		Package struct {
			Name  string   `toml:"name"`
			Entry []string `toml:"entry"`
		} `toml:"package"`
	}
}

// FindManifest walks up from startDir looking for vane.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "vane.toml")
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, true, nil
		} else if !errors.Is(statErr, os.ErrNotExist) {
			return "", false, fmt.Errorf("stat %q: %w", candidate, statErr)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Load finds and decodes the vane.toml manifest rooted at or above
// startDir. ok is false (with a nil error) when no manifest exists.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	var m Manifest
	if _, err := toml.DecodeFile(path, &m.Config); err != nil {
		return nil, false, fmt.Errorf("%s: %w", path, err)
	}
	m.Root = filepath.Dir(path)
	return &m, true, nil
}

// EntryFiles resolves the manifest's entry list to absolute paths.
func (m *Manifest) EntryFiles() []string {
	files := make([]string, 0, len(m.Config.Package.Entry))
	for _, e := range m.Config.Package.Entry {
		if filepath.IsAbs(e) {
			files = append(files, e)
			continue
		}
		files = append(files, filepath.Join(m.Root, e))
	}
	return files
}
