// Package catalog holds the in-memory catalog of applications, datasources,
// tables and columns. The store is populated once at startup and treated as
// read-only for the lifetime of the process, so reads need no locking.
package catalog

import (
	"sort"

	"github.com/datalens-io/datalens-engine/pkg/apperrors"
	"github.com/datalens-io/datalens-engine/pkg/models"
)

// Snapshot is the full catalog content as produced by a Loader.
type Snapshot struct {
	Applications []models.Application `yaml:"applications"`
	DataSources  []models.DataSource  `yaml:"datasources"`
	Tables       []models.Table       `yaml:"tables"`
}

// ColumnRef is a column together with its owning table, used when scoring
// columns flattened across all tables.
type ColumnRef struct {
	Table  *models.Table
	Column *models.Column
}

// Store provides indexed read access over a loaded Snapshot.
type Store struct {
	snapshot Snapshot

	appsByID    map[string]*models.Application
	sourcesByID map[string]*models.DataSource
	tablesByID  map[string]*models.Table
}

// NewStore indexes a snapshot for lookup. The snapshot must not be mutated
// after being handed to the store.
func NewStore(snapshot Snapshot) *Store {
	s := &Store{
		snapshot:    snapshot,
		appsByID:    make(map[string]*models.Application, len(snapshot.Applications)),
		sourcesByID: make(map[string]*models.DataSource, len(snapshot.DataSources)),
		tablesByID:  make(map[string]*models.Table, len(snapshot.Tables)),
	}
	for i := range snapshot.Applications {
		s.appsByID[snapshot.Applications[i].ID] = &snapshot.Applications[i]
	}
	for i := range snapshot.DataSources {
		s.sourcesByID[snapshot.DataSources[i].ID] = &snapshot.DataSources[i]
	}
	for i := range snapshot.Tables {
		s.tablesByID[snapshot.Tables[i].ID] = &snapshot.Tables[i]
	}
	return s
}

// Snapshot returns the underlying catalog content.
func (s *Store) Snapshot() Snapshot {
	return s.snapshot
}

// Applications returns all applications in load order.
func (s *Store) Applications() []models.Application {
	return s.snapshot.Applications
}

// DataSources returns all datasources in load order.
func (s *Store) DataSources() []models.DataSource {
	return s.snapshot.DataSources
}

// Tables returns all tables in load order.
func (s *Store) Tables() []models.Table {
	return s.snapshot.Tables
}

// Columns returns every column across all tables, flattened in table order.
func (s *Store) Columns() []ColumnRef {
	var refs []ColumnRef
	for i := range s.snapshot.Tables {
		t := &s.snapshot.Tables[i]
		for j := range t.Columns {
			refs = append(refs, ColumnRef{Table: t, Column: &t.Columns[j]})
		}
	}
	return refs
}

// Application looks up an application by id.
func (s *Store) Application(id string) (*models.Application, error) {
	app, ok := s.appsByID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return app, nil
}

// DataSource looks up a datasource by id.
func (s *Store) DataSource(id string) (*models.DataSource, error) {
	ds, ok := s.sourcesByID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return ds, nil
}

// Table looks up a table by id.
func (s *Store) Table(id string) (*models.Table, error) {
	t, ok := s.tablesByID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return t, nil
}

// DataSourcesForApplication resolves an application's connected datasources.
// Unknown references are skipped rather than failing the whole lookup.
func (s *Store) DataSourcesForApplication(appID string) []models.DataSource {
	app, ok := s.appsByID[appID]
	if !ok {
		return nil
	}
	var sources []models.DataSource
	for _, id := range app.DataSourceIDs {
		if ds, ok := s.sourcesByID[id]; ok {
			sources = append(sources, *ds)
		}
	}
	return sources
}

// DataSourceForTable resolves the datasource a table lives in.
func (s *Store) DataSourceForTable(tableID string) (*models.DataSource, error) {
	t, ok := s.tablesByID[tableID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	ds, ok := s.sourcesByID[t.DataSourceID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return ds, nil
}

// TablesForDataSource returns all tables belonging to a datasource.
func (s *Store) TablesForDataSource(dsID string) []models.Table {
	var tables []models.Table
	for i := range s.snapshot.Tables {
		if s.snapshot.Tables[i].DataSourceID == dsID {
			tables = append(tables, s.snapshot.Tables[i])
		}
	}
	return tables
}

// SensitiveTables returns all tables that are sensitive in the aggregate
// sense: explicitly flagged or holding at least one sensitive column.
func (s *Store) SensitiveTables() []models.Table {
	var tables []models.Table
	for i := range s.snapshot.Tables {
		if s.snapshot.Tables[i].IsSensitive() {
			tables = append(tables, s.snapshot.Tables[i])
		}
	}
	return tables
}

// TotalEntityCount counts every application, datasource, table and column.
func (s *Store) TotalEntityCount() int {
	n := len(s.snapshot.Applications) + len(s.snapshot.DataSources) + len(s.snapshot.Tables)
	for i := range s.snapshot.Tables {
		n += len(s.snapshot.Tables[i].Columns)
	}
	return n
}

// Categories returns the distinct application categories, sorted.
func (s *Store) Categories() []string {
	seen := make(map[string]struct{})
	var categories []string
	for i := range s.snapshot.Applications {
		c := s.snapshot.Applications[i].Category
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}
