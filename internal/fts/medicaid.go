package fts

import (
	"fmt"
	"strings"

	"github.com/openmedex/ftsmeta/internal/errs"
	"github.com/openmedex/ftsmeta/internal/logger"
)

// NewMedicaid returns a parser for one medicaid table type ("ps" for
// personal summary, "ip" for inpatient admissions in the default
// conventions). Several maxdata files may describe the same table; they
// are reconciled against the first one parsed.
func NewMedicaid(tableType string, conv Conventions, log *logger.Logger) (*Parser, error) {
	typ := strings.ToLower(tableType)
	spec, ok := conv.MedicaidTables[typ]
	if !ok {
		return nil, errs.New(errs.ErrKindUnsupportedFileType,
			"unsupported medicaid table type: "+tableType)
	}
	return newParser(typ, &medicaid{typ: typ, spec: spec, conv: conv}, log), nil
}

// medicaid parses maxdata extracts. Column-definition lines carry six
// attributes: order, name, type, format code, width, and label. Keys
// and indices are fixed per table type by the conventions.
type medicaid struct {
	typ  string
	spec MedicaidTable
	conv Conventions
}

func (m *medicaid) family() Family {
	return FamilyMedicaid
}

func (m *medicaid) layout() Layout {
	return Layout{Convs: []AttrConv{
		ConvInt,  // order
		ConvText, // name
		ConvText, // type
		ConvText, // format code
		ConvInt,  // width
		ConvText, // label
	}}
}

func (m *medicaid) pattern() string {
	return fmt.Sprintf(m.conv.MedicaidPattern, m.typ)
}

// tableName is the table type itself; all years of one medicaid type
// land in a single logical table.
func (m *medicaid) tableName(string) string {
	return m.typ
}

func (m *medicaid) build(f Fields) Column {
	return Column{
		Kind:    ColumnKindPlain,
		Order:   f.Int(0),
		Name:    f.Text(1),
		Type:    f.Text(2),
		Format:  f.Text(3),
		Width:   f.Text(4),
		Label:   f.Text(5),
		IsInput: true,
	}
}

// finalize appends the provenance column (and, for table types keyed by
// it, the record column); keys and indices come from the conventions.
func (m *medicaid) finalize(_ string, cols []Column) (fileModel, error) {
	cols = append(cols, newFileColumn(len(cols)+1))
	if m.spec.AddRecord {
		cols = append(cols, newRecordColumn(len(cols)+1))
	}

	indices := append([]string(nil), m.conv.CommonIndices...)
	indices = append(indices, m.conv.MedicaidIndices...)
	indices = append(indices, m.spec.Indices...)

	return fileModel{
		columns: cols,
		pk:      append([]string(nil), m.spec.PrimaryKey...),
		indices: indices,
	}, nil
}
