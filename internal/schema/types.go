// Package schema defines the data model emitted for parsed CMS tables.
//
// A Mapping is the nested structure consumed by the DDL generator:
// table name → ordered columns (type, description, index and source
// annotations), primary key, and named composite indices. The YAML
// rendering of a Mapping is the pipeline's primary output format.
//
// Usage:
//
//	m := schema.Mapping{"mbsf_abcd_2019": table}
//	data, err := m.Encode()
//	if err != nil { ... }
//	os.WriteFile("mbsf_abcd_2019.yaml", data, 0o644)
package schema

// SQL type names shared by type inference and DDL generation.
const (
	TypeVarchar = "VARCHAR"
	TypeInt     = "INT"
	TypeNumeric = "NUMERIC"
	TypeDate    = "DATE"
	TypeSerial  = "SERIAL"
)

// Mapping is the top-level output model: table name → table definition.
type Mapping map[string]Table

// Table is the definition of one database table.
type Table struct {
	// Columns preserves the declared column order. Each entry is a
	// single-key mapping of column name to definition.
	Columns []ColumnEntry `yaml:"columns"`

	// PrimaryKey lists the key columns in constraint order.
	PrimaryKey []string `yaml:"primary_key,omitempty"`

	// Indices holds named composite indices (e.g. "primary").
	// Single-column indices are flagged on the column itself.
	Indices map[string]Index `yaml:"indices,omitempty"`
}

// ColumnEntry is a one-key mapping of column name to its definition.
// A slice of entries keeps column order, which a plain map would lose.
type ColumnEntry map[string]Column

// Entry builds a ColumnEntry for the given name and definition.
func Entry(name string, col Column) ColumnEntry {
	return ColumnEntry{name: col}
}

// Get returns the entry's column name and definition.
// An empty entry yields ("", Column{}).
func (e ColumnEntry) Get() (string, Column) {
	for name, col := range e {
		return name, col
	}
	return "", Column{}
}

// Column is the output definition of a single column.
type Column struct {
	Type        string     `yaml:"type"`
	Description string     `yaml:"description,omitempty"`
	Index       *IndexFlag `yaml:"index,omitempty"`
	Source      *Source    `yaml:"source,omitempty"`
}

// IndexFlag marks a column as indexed. It renders as a bare `true`,
// or as `{required_before_loading_data: true}` for indices that must
// exist before bulk loading (the provenance file-name column).
type IndexFlag struct {
	RequiredBeforeLoad bool
}

// Source annotation kinds.
const (
	SourceGenerated = "generated" // computed by the storage engine
	SourceFile      = "file"      // populated with the input file name
)

// Source describes how a column's value originates when it is not read
// from the data rows.
type Source struct {
	Type string `yaml:"type"`
	Code string `yaml:"code,omitempty"`
}

// Index is a composite index over several columns.
type Index struct {
	Columns []string `yaml:"columns"`
}
