package fts

import (
	"fmt"
	"path"
	"strings"

	"github.com/openmedex/ftsmeta/internal/errs"
	"github.com/openmedex/ftsmeta/internal/logger"
)

// NewMedicare returns a parser for one medicare table. fileType must be
// one of the conventions' known medicare types; the table is described
// by a single per-year file and its name joins the type with the year
// directory, e.g. "medpar_2015".
func NewMedicare(fileType string, conv Conventions, log *logger.Logger) (*Parser, error) {
	typ := strings.ToLower(fileType)
	if !contains(conv.MedicareFileTypes, typ) {
		return nil, errs.New(errs.ErrKindUnsupportedFileType,
			"unsupported medicare file type: "+fileType)
	}
	return newParser(typ, &medicare{typ: typ, conv: conv}, log), nil
}

// medicare parses per-year medicare extracts. Column-definition lines
// carry seven attributes: order, long name, short name, type, 1-based
// start position, width (possibly fractional, encoding a decimal
// scale), and description.
type medicare struct {
	typ  string
	conv Conventions
}

func (m *medicare) family() Family {
	return FamilyMedicare
}

func (m *medicare) layout() Layout {
	return Layout{Convs: []AttrConv{
		ConvInt,    // order
		ConvText,   // long name
		ConvText,   // short name
		ConvText,   // type
		ConvInt,    // start position, 1-based
		ConvNumber, // width, kept literal to preserve the scale
		ConvText,   // description
	}}
}

func (m *medicare) pattern() string {
	return fmt.Sprintf(m.conv.MedicarePattern, m.typ)
}

// tableName joins the file type with the year directory the file sits
// in: "2015/medpar_2015.fts" names the table "medpar_2015".
func (m *medicare) tableName(p string) string {
	ydir := path.Base(path.Dir(p))
	if ydir == "." || ydir == "/" {
		return m.typ
	}
	return m.typ + "_" + ydir
}

func (m *medicare) build(f Fields) Column {
	c := Column{
		Kind:     ColumnKindPlain,
		Order:    f.Int(0),
		LongName: f.Text(1),
		Name:     f.Text(2),
		Type:     f.Text(3),
		Width:    f.Text(5),
		Label:    f.Text(6),
		IsInput:  true,
		Start:    f.Int(4) - 1,
	}
	w, _, _ := parseWidthSpec(c.Width)
	c.End = c.Start + w
	return c
}

// finalize appends the provenance and record columns, detects the
// semantic key columns, injects alias columns where the physical name
// differs from the canonical one, and derives the index set.
func (m *medicare) finalize(path string, cols []Column) (fileModel, error) {
	cols = append(cols, newFileColumn(len(cols)+1))
	cols = append(cols, newRecordColumn(len(cols)+1))

	found, err := m.detectKeys(path, cols)
	if err != nil {
		return fileModel{}, err
	}

	indices := append([]string(nil), m.conv.CommonIndices...)
	var primary []string
	for _, key := range m.conv.KeyColumns {
		c, ok := found[key.Name]
		if !ok {
			continue
		}
		if contains(m.conv.RequiredKeys, key.Name) {
			primary = append(primary, key.Name)
		} else if m.strict() && contains(m.conv.StrictIndexKeys, key.Name) {
			primary = append(primary, key.Name)
		}
		if strings.ToUpper(c.Name) == key.Name {
			indices = append(indices, key.Name)
		} else {
			cols = append(cols, NewAlias(key.Name, c))
		}
	}

	return fileModel{
		columns:   cols,
		pk:        []string{FileColumn, RecordColumn},
		indices:   indices,
		composite: map[string][]string{"primary": primary},
	}, nil
}

// detectKeys matches every column name against the conventions' key
// synonym sets. Each key may resolve at most once, and every required
// key must resolve.
func (m *medicare) detectKeys(path string, cols []Column) (map[string]Column, error) {
	found := make(map[string]Column)
	for _, c := range cols {
		for _, key := range m.conv.KeyColumns {
			if !key.matches(c.Name) {
				continue
			}
			if prev, ok := found[key.Name]; ok {
				return nil, errs.Newf(errs.ErrKindDuplicateKeyCandidate,
					"duplicate candidate for key %s in %s: %s and %s",
					key.Name, path, prev.Name, c.Name)
			}
			found[key.Name] = c
		}
	}

	for _, key := range m.requiredKeys() {
		if _, ok := found[key]; !ok {
			return nil, errs.Newf(errs.ErrKindMissingKeyColumn,
				"missing %s column for %s in %s", key, m.typ, path)
		}
	}
	return found, nil
}

// requiredKeys lists the keys this table type must resolve. Strict
// types (the mbsf_ab prefix) require every key in the conventions.
func (m *medicare) requiredKeys() []string {
	required := append([]string(nil), m.conv.RequiredKeys...)
	if !m.strict() {
		return required
	}
	for _, k := range m.conv.KeyColumns {
		if !contains(required, k.Name) {
			required = append(required, k.Name)
		}
	}
	return required
}

func (m *medicare) strict() bool {
	return m.conv.StrictKeyPrefix != "" && strings.HasPrefix(m.typ, m.conv.StrictKeyPrefix)
}
