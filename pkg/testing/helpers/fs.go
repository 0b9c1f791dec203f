// Guessfilename
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Guessfilename.
//
// Guessfilename is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Guessfilename is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Guessfilename.  If not, see <http://www.gnu.org/licenses/>.

package helpers

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/ZaparooProject/guessfilename/pkg/config"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

// FSHelper provides utilities for filesystem mocking in tests
type FSHelper struct {
	Fs afero.Fs
}

// NewMemoryFS creates a new in-memory filesystem for testing
func NewMemoryFS() *FSHelper {
	return &FSHelper{
		Fs: afero.NewMemMapFs(),
	}
}

// NewOSFS creates a filesystem helper using the real filesystem (for integration tests)
func NewOSFS() *FSHelper {
	return &FSHelper{
		Fs: afero.NewOsFs(),
	}
}

func (h *FSHelper) writeTOML(path string, v any) error {
	data, err := toml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	return h.WriteFile(path, data)
}

// CreateConfigFile writes vals as a guessfilename.toml file at path.
//
//nolint:gocritic // config struct copied for immutability
func (h *FSHelper) CreateConfigFile(path string, vals config.Values) error {
	return h.writeTOML(path, vals)
}

// CreateRuleFile writes rules as a keyword rule file named name in dir.
func (h *FSHelper) CreateRuleFile(dir, name string, rules ...config.KeywordRule) error {
	vals := config.Values{Keywords: config.Keywords{Rule: rules}}
	return h.writeTOML(filepath.Join(dir, name), vals)
}

// CreateFiles creates empty files with the given names in dir.
func (h *FSHelper) CreateFiles(dir string, names ...string) error {
	for _, name := range names {
		if err := h.WriteFile(filepath.Join(dir, name), nil); err != nil {
			return err
		}
	}
	return nil
}

// CreateDirectoryStructure creates a directory tree. A string or []byte
// value is a file with that content, a nested map is a directory and nil
// is an empty directory.
func (h *FSHelper) CreateDirectoryStructure(structure map[string]any) error {
	return h.createStructureRecursive("", structure)
}

func (h *FSHelper) createStructureRecursive(basePath string, structure map[string]any) error {
	for name, content := range structure {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			if err := h.WriteFile(fullPath, []byte(v)); err != nil {
				return err
			}
		case []byte:
			if err := h.WriteFile(fullPath, v); err != nil {
				return err
			}
		case map[string]any:
			if err := h.Fs.MkdirAll(fullPath, 0o750); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", fullPath, err)
			}
			if err := h.createStructureRecursive(fullPath, v); err != nil {
				return err
			}
		case nil:
			if err := h.Fs.MkdirAll(fullPath, 0o750); err != nil {
				return fmt.Errorf("failed to create empty directory %s: %w", fullPath, err)
			}
		default:
			return fmt.Errorf("unsupported entry %s of type %T", fullPath, content)
		}
	}
	return nil
}

// FileExists checks if a file exists
func (h *FSHelper) FileExists(path string) bool {
	exists, err := afero.Exists(h.Fs, path)
	if err != nil {
		return false
	}
	return exists
}

// WriteFile writes content to path, creating parent directories.
func (h *FSHelper) WriteFile(path string, content []byte) error {
	if err := h.Fs.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for file %s: %w", path, err)
	}
	if err := afero.WriteFile(h.Fs, path, content, 0o600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

// ListFiles returns the sorted names of the entries in dir.
func (h *FSHelper) ListFiles(dir string) ([]string, error) {
	files, err := afero.ReadDir(h.Fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	names := make([]string, len(files))
	for i, file := range files {
		names[i] = file.Name()
	}
	slices.Sort(names)
	return names, nil
}
