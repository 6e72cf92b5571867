// Package ddl renders CREATE TABLE and CREATE INDEX statements from a
// schema mapping and applies them to a live database.
//
// Statement generation is split around the bulk-load step: the table
// and its preload indices (flagged required_before_loading_data, which
// incremental loaders query) come first, remaining indices are deferred
// until the data is in.
//
// Usage:
//
//	stmts, err := ddl.Statements(mapping, ddl.DialectPostgres)
//	if err != nil { ... }
//	if err := ddl.Apply(ctx, db, stmts); err != nil { ... }
//	if err := ddl.Verify(ctx, db, mapping); err != nil { ... }
package ddl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/openmedex/ftsmeta/internal/errs"
	"github.com/openmedex/ftsmeta/internal/schema"
)

// CreateTable renders the CREATE TABLE statement for one table.
// Generated columns carry their expression verbatim from the mapping.
func CreateTable(name string, t schema.Table, d Dialect) (string, error) {
	if len(t.Columns) == 0 {
		return "", errs.New(errs.ErrKindInvalidInput,
			"table has no columns: "+name)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (", d.Quote(name))
	for i, entry := range t.Columns {
		colName, col := entry.Get()
		if colName == "" {
			return "", errs.Newf(errs.ErrKindInvalidInput,
				"table %s: column %d has no name", name, i)
		}
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "\n    %s %s", d.Quote(colName), d.columnType(col.Type))
		if col.Source != nil && col.Source.Type == schema.SourceGenerated && col.Source.Code != "" {
			b.WriteString(" " + col.Source.Code)
		}
	}
	if len(t.PrimaryKey) > 0 {
		quoted := make([]string, len(t.PrimaryKey))
		for i, c := range t.PrimaryKey {
			quoted[i] = d.Quote(c)
		}
		fmt.Fprintf(&b, ",\n    PRIMARY KEY (%s)", strings.Join(quoted, ", "))
	}
	b.WriteString("\n)")
	return b.String(), nil
}

// PreloadIndexes renders the indices that must exist before bulk
// loading. Loaders query the provenance column to resume partial loads,
// so these are created together with the table.
func PreloadIndexes(name string, t schema.Table, d Dialect) []string {
	var stmts []string
	for _, entry := range t.Columns {
		colName, col := entry.Get()
		if col.Index != nil && col.Index.RequiredBeforeLoad {
			stmts = append(stmts, createIndex(name, colName, d, colName))
		}
	}
	return stmts
}

// DeferredIndexes renders the remaining indices: plain indexed columns
// and named composite indices. These are cheaper to build after the
// data is loaded.
func DeferredIndexes(name string, t schema.Table, d Dialect) []string {
	var stmts []string
	for _, entry := range t.Columns {
		colName, col := entry.Get()
		if col.Index != nil && !col.Index.RequiredBeforeLoad {
			stmts = append(stmts, createIndex(name, colName, d, colName))
		}
	}
	composite := make([]string, 0, len(t.Indices))
	for idxName := range t.Indices {
		composite = append(composite, idxName)
	}
	sort.Strings(composite)
	for _, idxName := range composite {
		stmts = append(stmts, createIndex(name, idxName, d, t.Indices[idxName].Columns...))
	}
	return stmts
}

// Statements renders the full DDL for every table of the mapping in
// table-name order: CREATE TABLE, preload indices, deferred indices.
func Statements(m schema.Mapping, d Dialect) ([]string, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	var stmts []string
	for _, name := range names {
		t := m[name]
		create, err := CreateTable(name, t, d)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, create)
		stmts = append(stmts, PreloadIndexes(name, t, d)...)
		stmts = append(stmts, DeferredIndexes(name, t, d)...)
	}
	return stmts, nil
}

func createIndex(table, idx string, d Dialect, columns ...string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = d.Quote(c)
	}
	return fmt.Sprintf("CREATE INDEX %s ON %s (%s)",
		d.Quote(table+"_"+idx+"_idx"), d.Quote(table), strings.Join(quoted, ", "))
}
