package fts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openmedex/ftsmeta/internal/errs"
	"github.com/openmedex/ftsmeta/internal/fwf"
	"github.com/openmedex/ftsmeta/internal/schema"
)

// Mapping projects the finalized model into the schema mapping consumed
// by the DDL generator. It is a pure read: no table state changes.
func (t *Table) Mapping() (schema.Mapping, error) {
	cols := make([]schema.ColumnEntry, 0, len(t.Columns))
	for _, c := range t.Columns {
		entry, err := t.columnEntry(c)
		if err != nil {
			return nil, err
		}
		cols = append(cols, entry)
	}

	table := schema.Table{
		Columns:    cols,
		PrimaryKey: t.PrimaryKey,
	}
	if len(t.Composite) > 0 {
		table.Indices = make(map[string]schema.Index, len(t.Composite))
		for name, columns := range t.Composite {
			table.Indices[name] = schema.Index{Columns: columns}
		}
	}

	return schema.Mapping{t.Name: table}, nil
}

func (t *Table) columnEntry(c Column) (schema.ColumnEntry, error) {
	sqlType, err := c.SQLType()
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindUnknownColumnType,
			fmt.Sprintf("table %s, column %s", t.Name, c.Name), err)
	}

	col := schema.Column{
		Type:        sqlType,
		Description: c.Label,
	}
	switch {
	case c.Kind == ColumnKindAlias:
		col.Index = &schema.IndexFlag{}
		col.Source = &schema.Source{
			Type: schema.SourceGenerated,
			Code: fmt.Sprintf("GENERATED ALWAYS AS (%s) STORED", c.Target),
		}
	case c.Name == FileColumn && !c.IsInput:
		col.Index = &schema.IndexFlag{RequiredBeforeLoad: true}
		col.Source = &schema.Source{Type: schema.SourceFile}
	case contains(t.Indices, c.Name):
		col.Index = &schema.IndexFlag{}
	}

	return schema.Entry(c.Name, col), nil
}

// FWFMeta projects the model into a decode descriptor for the
// fixed-width data file at dataPath. Only input columns appear, in
// declared order, with byte offsets accumulated from zero; synthetic
// and alias columns are never part of the physical record.
func (t *Table) FWFMeta(dataPath string) (*fwf.Meta, error) {
	raw, ok := t.Metadata[MetaRecordLength]
	if !ok {
		return nil, errs.Newf(errs.ErrKindMissingRecordLength,
			"record length is undefined for table %s", t.Name)
	}
	recordLen, err := metaInt(raw)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput,
			fmt.Sprintf("record length for table %s", t.Name), err)
	}

	meta := &fwf.Meta{
		Path:         dataPath,
		RecordLength: recordLen,
	}
	if v, ok := t.Metadata[MetaFileSize]; ok {
		n, err := metaInt(v)
		if err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput,
				fmt.Sprintf("file size for table %s", t.Name), err)
		}
		meta.FileSize = int64(n)
	}
	if v, ok := t.Metadata[MetaRows]; ok {
		n, err := metaInt(v)
		if err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput,
				fmt.Sprintf("row count for table %s", t.Name), err)
		}
		meta.Rows = n
	}

	pos := 0
	for _, c := range t.Columns {
		if !c.IsInput {
			continue
		}
		col := c.fwfColumn(pos)
		meta.Columns = append(meta.Columns, col)
		pos = col.End()
	}
	return meta, nil
}

// metaInt parses a numeric metadata value. FTS headers group digits
// with commas ("57,600").
func metaInt(v string) (int, error) {
	return strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(v), ",", ""))
}
