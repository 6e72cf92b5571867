package ddl

import (
	"strings"

	"github.com/openmedex/ftsmeta/internal/errs"
	"github.com/openmedex/ftsmeta/internal/schema"
)

// Dialect selects the SQL flavor statements are rendered in.
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectMySQL
)

func (d Dialect) String() string {
	switch d {
	case DialectPostgres:
		return "postgres"
	case DialectMySQL:
		return "mysql"
	default:
		return "unknown"
	}
}

// ParseDialect resolves a dialect from its configuration name.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(s) {
	case "postgres", "postgresql":
		return DialectPostgres, nil
	case "mysql":
		return DialectMySQL, nil
	default:
		return DialectPostgres, errs.New(errs.ErrKindInvalidInput,
			"unknown SQL dialect: "+s)
	}
}

// Quote wraps a SQL identifier in the dialect's quoting style: ANSI
// double quotes for postgres, backticks for MySQL. CMS column names are
// upper case, so quoting keeps postgres from folding them.
func (d Dialect) Quote(name string) string {
	if d == DialectMySQL {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// columnType maps a mapping type to the dialect's spelling. MySQL has
// no SERIAL with postgres semantics; it becomes INT AUTO_INCREMENT.
func (d Dialect) columnType(t string) string {
	if d == DialectMySQL && strings.EqualFold(t, schema.TypeSerial) {
		return "INT AUTO_INCREMENT"
	}
	return t
}
