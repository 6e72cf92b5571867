package fts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openmedex/ftsmeta/internal/errs"
	"github.com/openmedex/ftsmeta/internal/fwf"
	"github.com/openmedex/ftsmeta/internal/schema"
)

// ColumnKind discriminates parsed columns from derived alias columns.
type ColumnKind int

const (
	ColumnKindPlain ColumnKind = iota
	ColumnKindAlias
)

// Column is the normalized definition of one table column.
//
// Width is kept as the literal text of the width field: medicare files
// encode a decimal scale there ("8.2"), and parsing it into a float
// would round the stated precision.
type Column struct {
	Kind    ColumnKind
	Order   int
	Name    string
	Type    string
	Format  string // CMS format code ("9.2", "S9"); empty when absent
	Width   string
	Label   string
	IsInput bool

	// Medicare layouts carry explicit record positions.
	LongName string
	Start    int
	End      int

	// Alias columns reference the physical column they mirror.
	Target string
}

// NewAlias derives a generated column named name from source. The alias
// shares the source's order and type attributes but is computed by the
// storage engine rather than read from input data.
func NewAlias(name string, source Column) Column {
	return Column{
		Kind:    ColumnKindAlias,
		Order:   source.Order,
		Name:    name,
		Type:    source.Type,
		Format:  source.Format,
		Width:   source.Width,
		Label:   source.Label,
		IsInput: false,
		Target:  source.Name,
	}
}

// compareFields lists the fields reconciliation compares, in order.
// Record positions and long names are deliberately absent: files that
// agree on the fields below describe the same column. Target is empty
// for plain columns, so one list covers both kinds.
func (c Column) compareFields() []any {
	return []any{c.Kind, c.Order, c.Name, c.Type, c.Format, c.Width, c.Label, c.IsInput, c.Target}
}

// Equal reports whether two columns agree on every compared field.
func (c Column) Equal(o Column) bool {
	a, b := c.compareFields(), o.compareFields()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (c Column) String() string {
	return fmt.Sprintf("%d: %s [%s]", c.Order, c.Name, c.Type)
}

// formatInfo is the decomposition of a CMS format code or width field.
type formatInfo struct {
	numeric  bool
	width    int
	scale    int
	hasScale bool
}

// analyzeFormat derives numeric capability, integer width, and decimal
// scale from the format code, falling back to the width field when no
// format is present. A leading non-digit format character flags the
// field as not numeric-capable and is stripped.
func (c Column) analyzeFormat() formatInfo {
	info := formatInfo{numeric: true}
	text := c.Format
	if text != "" {
		if text[0] < '0' || text[0] > '9' {
			info.numeric = false
			text = text[1:]
		}
	} else {
		text = c.Width
	}
	info.width, info.scale, info.hasScale = parseWidthSpec(text)
	return info
}

// parseWidthSpec splits "9.2" into width 9 and scale 2. Both parts are
// read from the literal text.
func parseWidthSpec(text string) (width, scale int, hasScale bool) {
	intPart, fraction, hasDot := strings.Cut(text, ".")
	if w, err := strconv.Atoi(intPart); err == nil {
		width = w
	}
	if hasDot && fraction != "" {
		if s, err := strconv.Atoi(fraction); err == nil {
			scale, hasScale = s, true
		}
	}
	return width, scale, hasScale
}

// SQLType infers the SQL type for the column:
//
//	SERIAL      → SERIAL (passthrough)
//	CHAR        → VARCHAR(width)
//	NUM         → VARCHAR(width) when not numeric-capable,
//	              NUMERIC(width,scale) with a scale, INT otherwise
//	DATE        → DATE
//	anything else fails with an unknown-column-type error.
func (c Column) SQLType() (string, error) {
	t := strings.ToUpper(c.Type)
	if t == schema.TypeSerial {
		return t, nil
	}

	info := c.analyzeFormat()
	switch t {
	case "CHAR":
		return fmt.Sprintf("%s(%d)", schema.TypeVarchar, info.width), nil
	case "NUM":
		if !info.numeric {
			return fmt.Sprintf("%s(%d)", schema.TypeVarchar, info.width), nil
		}
		if info.hasScale {
			return fmt.Sprintf("%s(%d,%d)", schema.TypeNumeric, info.width, info.scale), nil
		}
		return schema.TypeInt, nil
	case schema.TypeDate:
		return schema.TypeDate, nil
	}
	return "", errs.New(errs.ErrKindUnknownColumnType, "unexpected column type: "+t)
}

// fwfColumn projects the column into a decode descriptor entry starting
// at byte offset pos.
func (c Column) fwfColumn(pos int) fwf.Column {
	info := c.analyzeFormat()
	return fwf.Column{
		Name:  c.Name,
		Type:  c.Type,
		Order: c.Order,
		Start: pos,
		Width: info.width,
		Scale: info.scale,
	}
}
