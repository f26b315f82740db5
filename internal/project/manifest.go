// Package project locates and decodes the abibind.toml manifest that pins
// per-project generation settings. Command-line flags override the manifest.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file the project root is identified by.
const ManifestName = "abibind.toml"

// PackageConfig names the generated package for single-file runs.
type PackageConfig struct {
	Name string `toml:"name"`
}

// GenerateConfig holds generation settings.
type GenerateConfig struct {
	// OutDir is where generated packages are placed in batch mode.
	OutDir string `toml:"out_dir"`
	// Runtime overrides the runtime collaborator import path.
	Runtime string `toml:"runtime"`
	// Jobs limits batch parallelism; 0 means GOMAXPROCS.
	Jobs int `toml:"jobs"`
}

// Config is the decoded manifest body.
type Config struct {
	Package  PackageConfig  `toml:"package"`
	Generate GenerateConfig `toml:"generate"`
}

// Manifest is a loaded abibind.toml plus where it was found.
type Manifest struct {
	Root   string // directory containing the manifest
	Path   string // full path to the manifest file
	Config Config
}

// FindManifest walks up from startDir to locate abibind.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &Manifest{
		Root:   filepath.Dir(path),
		Path:   path,
		Config: cfg,
	}, nil
}

// LoadNearest finds and decodes the closest manifest above startDir.
func LoadNearest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}
