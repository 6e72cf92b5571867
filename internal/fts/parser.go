// Package fts parses CMS File Transfer Summary documents into a
// normalized column-metadata model.
//
// An FTS document is line-oriented text: optional "key: value" metadata
// lines, a divider line whose space-separated dash runs define the field
// widths of the column table, the column-definition lines themselves,
// and a terminator (blank line, "Note:" prefix, or an end divider).
//
// A Parser is built for one logical table and one source family
// (medicare or medicaid). Every file fed to it is parsed with the
// family's strategy and post-processing hook; the first file's columns
// become the canonical model and all later files must reconcile against
// it exactly. The finalized Table projects to a schema mapping for DDL
// generation and to a decode descriptor for fixed-width readers.
//
// Usage:
//
//	p, err := fts.NewMedicare("medpar", fts.DefaultConventions(), log)
//	if err != nil { ... }
//	f, _ := os.Open("2015/medpar_2015.fts")
//	if err := p.ReadFile("2015/medpar_2015.fts", f); err != nil { ... }
//	mapping, err := p.Table().Mapping()
package fts

import (
	"io"
	"strings"

	"github.com/openmedex/ftsmeta/internal/errs"
	"github.com/openmedex/ftsmeta/internal/logger"
)

// Divider lines start with a dash run and contain one long inner run;
// short dash runs also appear inside ordinary text, so both checks are
// needed to avoid false positives.
const (
	dividerPrefix = "---"
	dividerRun    = "------------------"
)

// Column-table terminators.
const (
	noteMarker = "Note:"
	endMarker  = "End"
)

// Table is the accumulated metadata model for one logical table.
type Table struct {
	// Name is the output table name (medicare: type plus year
	// directory; medicaid: the table type itself).
	Name   string
	Family Family
	// Type is the table-type token the parser was built for.
	Type string

	// Columns in declared order: parsed columns first, then synthetic
	// and alias columns appended by the post-processing hook.
	Columns []Column

	// PrimaryKey lists the key columns in constraint order.
	PrimaryKey []string
	// Indices names the single-column indices.
	Indices []string
	// Composite holds named multi-column indices (e.g. "primary").
	Composite map[string][]string

	// Metadata holds the "key: value" header pairs, accumulated across
	// every file parsed into this table.
	Metadata map[string]string
}

// fileModel is the outcome of parsing and post-processing one file.
type fileModel struct {
	columns   []Column
	pk        []string
	indices   []string
	composite map[string][]string
}

// strategy customizes the parse driver for one source family.
type strategy interface {
	family() Family
	// layout is the attribute template of column-definition lines.
	layout() Layout
	// tableName derives the logical table name from the file path.
	tableName(path string) string
	// pattern is the discovery glob for this family and table type.
	pattern() string
	// build assembles a column from one line's converted fields.
	build(f Fields) Column
	// finalize runs the post-processing hook over the columns read
	// from path: synthetic columns, key detection, index derivation.
	finalize(path string, cols []Column) (fileModel, error)
}

// Parser drives FTS parsing for one logical table. It is not safe for
// concurrent use; independent tables get independent parsers.
type Parser struct {
	strat strategy
	log   *logger.Logger
	table *Table
	files int
}

func newParser(typ string, strat strategy, log *logger.Logger) *Parser {
	if log == nil {
		log = logger.Nop()
	}
	return &Parser{
		strat: strat,
		log:   log,
		table: &Table{
			Family:   strat.family(),
			Type:     typ,
			Metadata: make(map[string]string),
		},
	}
}

// Table returns the model accumulated so far. Columns are nil until
// the first successful ReadFile.
func (p *Parser) Table() *Table {
	return p.table
}

// Pattern returns the discovery glob for this parser's table type.
func (p *Parser) Pattern() string {
	return p.strat.pattern()
}

// ReadFile parses one FTS document. The first successful call fixes the
// canonical column model; later calls reconcile against it and fail
// with a reconciliation conflict on any divergence. Metadata pairs
// accumulate across calls, later files winning on key collision.
func (p *Parser) ReadFile(path string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "read "+path, err)
	}
	lines := splitLines(string(data))

	// Scanning-metadata state: accumulate "key: value" pairs until the
	// divider line fixes the field-width template.
	divider := -1
	for i, line := range lines {
		if strings.HasPrefix(line, dividerPrefix) && strings.Contains(line, dividerRun) {
			divider = i
			break
		}
		if k, v, ok := strings.Cut(line, ":"); ok {
			p.table.Metadata[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}

	// The divider needs at least one metadata line before it and one
	// column line after it.
	if divider < 1 || divider > len(lines)-2 {
		return errs.Newf(errs.ErrKindMissingDivider,
			"column definitions are not found in %s", path)
	}

	reader, err := NewLineReader(p.strat.layout(), lines[divider])
	if err != nil {
		return errs.Wrap(errs.ErrKindColumnCountMismatch, "divider in "+path, err)
	}

	// Reading-columns state: one column per line until a terminator.
	var cols []Column
	for i := divider + 1; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			break
		}
		if strings.HasPrefix(line, noteMarker) {
			break
		}
		if strings.HasPrefix(line, "-") && strings.Contains(line, endMarker) {
			break
		}

		fields := reader.Read(line)
		for _, w := range fields.Warnings() {
			p.log.WarnWith("attribute conversion failed", map[string]interface{}{
				"file": path,
				"line": i + 1,
				"warn": w,
			})
		}
		cols = append(cols, p.strat.build(fields))
	}

	model, err := p.strat.finalize(path, cols)
	if err != nil {
		return err
	}

	if p.table.Columns == nil {
		p.table.Name = p.strat.tableName(path)
		p.table.Columns = model.columns
		p.table.PrimaryKey = model.pk
		p.table.Indices = model.indices
		p.table.Composite = model.composite
		p.files++
		p.log.InfoWith("adopted canonical column model", map[string]interface{}{
			"table":   p.table.Name,
			"file":    path,
			"columns": len(model.columns),
		})
		return nil
	}

	if err := p.reconcile(path, model.columns); err != nil {
		return err
	}
	p.files++
	p.log.InfoWith("reconciled against canonical column model", map[string]interface{}{
		"table": p.table.Name,
		"file":  path,
	})
	return nil
}

// reconcile validates cols against the canonical model position by
// position. Count and pairwise structural equality must both hold.
func (p *Parser) reconcile(path string, cols []Column) error {
	if len(cols) != len(p.table.Columns) {
		return errs.Newf(errs.ErrKindReconciliationConflict,
			"reconciliation required for table %s: %s defines %d columns, canonical model has %d",
			p.table.Name, path, len(cols), len(p.table.Columns))
	}
	for i := range cols {
		if !cols[i].Equal(p.table.Columns[i]) {
			return errs.Newf(errs.ErrKindReconciliationConflict,
				"reconciliation required for table %s: %s, column %s",
				p.table.Name, path, cols[i])
		}
	}
	return nil
}

// newFileColumn is the provenance column appended to every table: the
// name of the original file each record was loaded from.
func newFileColumn(order int) Column {
	return Column{
		Kind:   ColumnKindPlain,
		Order:  order,
		Name:   FileColumn,
		Type:   "CHAR",
		Format: "128",
		Width:  "128",
		Label:  "RESDAC original file name",
	}
}

// newRecordColumn is the auto-incremented record id column.
func newRecordColumn(order int) Column {
	return Column{
		Kind:  ColumnKindPlain,
		Order: order,
		Name:  RecordColumn,
		Type:  "SERIAL",
		Label: "Record number in the file",
	}
}

// splitLines splits text into lines, tolerating CRLF endings. FTS files
// come from mainframe transfers and arrive with either convention. A
// trailing newline does not produce a phantom empty line.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
