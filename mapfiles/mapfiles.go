// Package mapfiles bundles sample maps and resolves map files on disk
// before falling back to the bundled copies.
package mapfiles

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/milk9111/worldmap/object"
	"github.com/milk9111/worldmap/worldmap"
)

//go:embed *.wmap *.omap
var SamplesFS embed.FS

// Load reads name from disk when it exists there, otherwise from the
// bundled sample with the same base name. Disk errors other than a missing
// file are returned as is.
func Load(name string) ([]byte, error) {
	data, err := ReadDisk(name)
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		return data, err
	}
	data, err = fs.ReadFile(SamplesFS, filepath.ToSlash(filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("read map %s: %w", name, err)
	}
	return data, nil
}

// ReadDisk reads name from disk only.
func ReadDisk(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read map %s: %w", name, err)
	}
	return data, nil
}

// Samples lists the bundled files with the given extension, sorted.
func Samples(ext string) []string {
	entries, err := fs.ReadDir(SamplesFS, ".")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if strings.EqualFold(filepath.Ext(e.Name()), ext) {
			out = append(out, e.Name())
		}
	}
	slices.Sort(out)
	return out
}

// LoadWorld imports a world map file into m and returns its metadata.
func LoadWorld(name string, m *worldmap.Map) (map[string]string, error) {
	data, err := Load(name)
	if err != nil {
		return nil, err
	}
	meta, err := m.Import(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("import world map %s: %w", name, err)
	}
	return meta, nil
}

// LoadObject imports an object file into o and returns its metadata.
func LoadObject(name string, o *object.Object) (map[string]string, error) {
	data, err := Load(name)
	if err != nil {
		return nil, err
	}
	meta, err := o.Import(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("import object %s: %w", name, err)
	}
	return meta, nil
}

// Save writes data to path, creating parent directories.
func Save(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write map %s: %w", path, err)
	}
	return nil
}
