package ddl

import (
	"context"
	"sort"

	"github.com/openmedex/ftsmeta/internal/database"
	"github.com/openmedex/ftsmeta/internal/errs"
	"github.com/openmedex/ftsmeta/internal/schema"
)

// Apply executes the statements in one transaction and rolls back on
// the first failure, so a half-created table never survives.
func Apply(ctx context.Context, db database.DB, stmts []string) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				return errs.Wrap(errs.ErrKindQueryFailed,
					"rollback after failed statement", rbErr)
			}
			return err
		}
	}
	return tx.Commit(ctx)
}

// Verify checks every table of the mapping against the live database:
// the table must exist, hold the same number of columns, and name them
// in the same order. Type spellings differ per backend (postgres
// reports "character varying" for VARCHAR), so types are not compared.
func Verify(ctx context.Context, db database.DB, m schema.Mapping) error {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		t := m[name]
		live, err := db.ListColumns(ctx, name)
		if err != nil {
			return err
		}
		if len(live) == 0 {
			return errs.New(errs.ErrKindNotFound,
				"table does not exist: "+name)
		}
		if len(live) != len(t.Columns) {
			return errs.Newf(errs.ErrKindSchemaMismatch,
				"table %s has %d columns, mapping defines %d",
				name, len(live), len(t.Columns))
		}
		for i, entry := range t.Columns {
			colName, _ := entry.Get()
			if live[i].Name != colName {
				return errs.Newf(errs.ErrKindSchemaMismatch,
					"table %s, position %d: live column is %s, mapping defines %s",
					name, i+1, live[i].Name, colName)
			}
		}
	}
	return nil
}
