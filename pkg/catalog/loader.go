package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader produces a catalog snapshot from some ingestion source.
// The discovery core is agnostic to where records come from (fixtures,
// CSV exports, a live API) as long as the snapshot fields are populated.
type Loader interface {
	Load(ctx context.Context) (Snapshot, error)
}

// FileLoader reads a catalog snapshot from a YAML fixture file.
type FileLoader struct {
	path string
}

// NewFileLoader creates a loader for the given fixture path.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

// Load implements Loader.
func (l *FileLoader) Load(_ context.Context) (Snapshot, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read catalog file: %w", err)
	}

	var snapshot Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("parse catalog file: %w", err)
	}

	if err := validateSnapshot(&snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("validate catalog: %w", err)
	}

	return snapshot, nil
}

// validateSnapshot rejects snapshots with duplicate or missing identifiers.
// Cross-references to unknown ids are tolerated; lookups skip them.
func validateSnapshot(s *Snapshot) error {
	seen := make(map[string]struct{})
	check := func(kind, id string) error {
		if id == "" {
			return fmt.Errorf("%s with empty id", kind)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
		return nil
	}

	for i := range s.Applications {
		if err := check("application", s.Applications[i].ID); err != nil {
			return err
		}
	}
	for i := range s.DataSources {
		if err := check("datasource", s.DataSources[i].ID); err != nil {
			return err
		}
	}
	for i := range s.Tables {
		if err := check("table", s.Tables[i].ID); err != nil {
			return err
		}
		for j := range s.Tables[i].Columns {
			if err := check("column", s.Tables[i].Columns[j].ID); err != nil {
				return err
			}
		}
	}
	return nil
}
