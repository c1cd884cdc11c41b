package models

// EntityKind identifies which catalog collection a record belongs to.
type EntityKind string

const (
	KindApplication EntityKind = "application"
	KindDataSource  EntityKind = "datasource"
	KindTable       EntityKind = "table"
	KindColumn      EntityKind = "column"
)

// Application represents a catalogued business application.
type Application struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Category      string   `json:"category" yaml:"category"`
	Description   string   `json:"description" yaml:"description"`
	Tags          []string `json:"tags" yaml:"tags"`
	Technologies  []string `json:"technologies" yaml:"technologies"`
	DataSourceIDs []string `json:"datasource_ids" yaml:"datasource_ids"`
	Environment   string   `json:"environment" yaml:"environment"`
}

// DataSource represents an external data connection registered in the catalog.
type DataSource struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Type        string   `json:"type" yaml:"type"` // "postgres", "mysql", "s3", etc.
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags" yaml:"tags"`
	Department  string   `json:"department" yaml:"department"`
	Owner       string   `json:"owner" yaml:"owner"`
	RecordCount int64    `json:"record_count" yaml:"record_count"`
}

// Table represents a table discovered within a datasource.
type Table struct {
	ID           string   `json:"id" yaml:"id"`
	DataSourceID string   `json:"datasource_id" yaml:"datasource_id"`
	Name         string   `json:"name" yaml:"name"`
	Schema       string   `json:"schema" yaml:"schema"`
	Description  string   `json:"description" yaml:"description"`
	Tags         []string `json:"tags" yaml:"tags"`
	Sensitive    bool     `json:"sensitive" yaml:"sensitive"`
	Columns      []Column `json:"columns" yaml:"columns"`
}

// Column represents a single column of a catalogued table.
type Column struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"` // declared SQL type
	Description string `json:"description" yaml:"description"`
	Nullable    bool   `json:"nullable" yaml:"nullable"`
	PrimaryKey  bool   `json:"primary_key" yaml:"primary_key"`
	Sensitive   bool   `json:"sensitive" yaml:"sensitive"`
}

// IsSensitive reports whether the table must be treated as sensitive.
// Sensitivity aggregates upward: a table holding even one sensitive column
// is sensitive regardless of its own flag.
func (t *Table) IsSensitive() bool {
	if t.Sensitive {
		return true
	}
	for i := range t.Columns {
		if t.Columns[i].Sensitive {
			return true
		}
	}
	return false
}

// QualifiedName returns the schema-qualified table name.
func (t *Table) QualifiedName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}
