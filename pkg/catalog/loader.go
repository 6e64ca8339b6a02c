package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads a catalog from a mounted ConfigMap directory. A missing file
// yields an empty slice rather than an error: a server with no prompts still
// mounts a catalog, just one whose prompts.json the operator wrote as an
// empty array or never wrote at all.
func Load(dir string) (*Catalog, error) {
	catalog := &Catalog{}

	if err := loadFile(dir, FileTools, &catalog.Tools); err != nil {
		return nil, err
	}
	if err := loadFile(dir, FilePrompts, &catalog.Prompts); err != nil {
		return nil, err
	}
	if err := loadFile(dir, FileResources, &catalog.Resources); err != nil {
		return nil, err
	}
	return catalog, nil
}

func loadFile(dir, name string, out any) error {
	path := filepath.Join(dir, name)
	// #nosec G304 -- path is the pod's own catalog mount.
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}
