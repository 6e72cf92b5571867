package fts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmedex/ftsmeta/internal/errs"
	"github.com/openmedex/ftsmeta/internal/schema"
)

func parsedMedpar(t *testing.T) *Table {
	t.Helper()
	p := newMedparParser(t)
	require.NoError(t,
		p.ReadFile("2015/medpar_2015.fts", strings.NewReader(mcrDoc(medparColumns()...))))
	return p.Table()
}

func TestTableMapping(t *testing.T) {
	mapping, err := parsedMedpar(t).Mapping()
	require.NoError(t, err)
	require.Contains(t, mapping, "medpar_2015")

	table := mapping["medpar_2015"]
	require.Len(t, table.Columns, 6)

	name, bene := table.Columns[0].Get()
	assert.Equal(t, "BENE_ID", name)
	assert.Equal(t, "VARCHAR(15)", bene.Type)
	assert.Equal(t, "Encrypted beneficiary identifier", bene.Description)
	require.NotNil(t, bene.Index)
	assert.False(t, bene.Index.RequiredBeforeLoad)
	assert.Nil(t, bene.Source)

	_, yr := table.Columns[1].Get()
	assert.Equal(t, "INT", yr.Type)
	assert.Nil(t, yr.Index)

	_, pmt := table.Columns[2].Get()
	assert.Equal(t, "NUMERIC(8,2)", pmt.Type)

	name, file := table.Columns[3].Get()
	assert.Equal(t, "FILE", name)
	assert.Equal(t, "VARCHAR(128)", file.Type)
	require.NotNil(t, file.Index)
	assert.True(t, file.Index.RequiredBeforeLoad)
	require.NotNil(t, file.Source)
	assert.Equal(t, schema.SourceFile, file.Source.Type)

	_, record := table.Columns[4].Get()
	assert.Equal(t, "SERIAL", record.Type)

	name, year := table.Columns[5].Get()
	assert.Equal(t, "YEAR", name)
	assert.Equal(t, "INT", year.Type)
	require.NotNil(t, year.Index)
	require.NotNil(t, year.Source)
	assert.Equal(t, schema.SourceGenerated, year.Source.Type)
	assert.Equal(t, "GENERATED ALWAYS AS (MEDPAR_YR_NUM) STORED", year.Source.Code)

	assert.Equal(t, []string{"FILE", "RECORD"}, table.PrimaryKey)
	require.Contains(t, table.Indices, "primary")
	assert.Equal(t, []string{"BENE_ID", "YEAR"}, table.Indices["primary"].Columns)
}

func TestTableMappingEncodesToYAML(t *testing.T) {
	mapping, err := parsedMedpar(t).Mapping()
	require.NoError(t, err)

	data, err := mapping.Encode()
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "medpar_2015:")
	assert.Contains(t, out, "required_before_loading_data: true")
	assert.Contains(t, out, "GENERATED ALWAYS AS (MEDPAR_YR_NUM) STORED")

	// The document round-trips.
	decoded, err := schema.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, mapping, decoded)
}

func TestTableMappingStrictAliases(t *testing.T) {
	p, err := NewMedicare("mbsf_ab", DefaultConventions(), nil)
	require.NoError(t, err)
	require.NoError(t,
		p.ReadFile("2008/mbsf_ab_2008.fts", strings.NewReader(mcrDoc(mbsfColumns()...))))

	mapping, err := p.Table().Mapping()
	require.NoError(t, err)
	table := mapping["mbsf_ab_2008"]
	require.Len(t, table.Columns, 9)

	// Aliases project as indexed generated columns mirroring their
	// physical target.
	name, zip := table.Columns[8].Get()
	assert.Equal(t, "ZIP", name)
	assert.Equal(t, "VARCHAR(9)", zip.Type)
	require.NotNil(t, zip.Index)
	assert.False(t, zip.Index.RequiredBeforeLoad)
	require.NotNil(t, zip.Source)
	assert.Equal(t, schema.SourceGenerated, zip.Source.Type)
	assert.Equal(t, "GENERATED ALWAYS AS (ZIP_CD) STORED", zip.Source.Code)

	_, state := table.Columns[6].Get()
	require.NotNil(t, state.Source)
	assert.Equal(t, "GENERATED ALWAYS AS (STATE_CD) STORED", state.Source.Code)

	require.Contains(t, table.Indices, "primary")
	assert.Equal(t, []string{"BENE_ID", "STATE", "YEAR"}, table.Indices["primary"].Columns)
}

func TestTableMappingDeterministic(t *testing.T) {
	doc := mcrDoc(medparColumns()...)

	encode := func() string {
		p := newMedparParser(t)
		require.NoError(t, p.ReadFile("2015/medpar_2015.fts", strings.NewReader(doc)))
		mapping, err := p.Table().Mapping()
		require.NoError(t, err)
		data, err := mapping.Encode()
		require.NoError(t, err)
		return string(data)
	}

	// Fresh parsers over the same document agree byte for byte.
	first := encode()
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, encode())
	}
}

func TestTableMappingUnknownType(t *testing.T) {
	table := &Table{
		Name: "medpar_2015",
		Columns: []Column{
			{Kind: ColumnKindPlain, Order: 1, Name: "BLOB_COL", Type: "BLOB", Width: "4"},
		},
	}

	_, err := table.Mapping()
	require.Error(t, err)
	assert.True(t, errs.IsUnknownColumnType(err))
	assert.Contains(t, err.Error(), "medpar_2015")
	assert.Contains(t, err.Error(), "BLOB_COL")
}

func TestTableFWFMeta(t *testing.T) {
	meta, err := parsedMedpar(t).FWFMeta("2015/medpar_2015.dat")
	require.NoError(t, err)

	assert.Equal(t, "2015/medpar_2015.dat", meta.Path)
	assert.Equal(t, 27, meta.RecordLength)
	assert.Equal(t, int64(57600), meta.FileSize)
	assert.Equal(t, 1024, meta.Rows)

	// Only input columns appear; FILE, RECORD and the alias do not.
	require.Len(t, meta.Columns, 3)
	assert.Equal(t, "BENE_ID", meta.Columns[0].Name)
	assert.Equal(t, 0, meta.Columns[0].Start)
	assert.Equal(t, 15, meta.Columns[0].Width)
	assert.Equal(t, "MEDPAR_YR_NUM", meta.Columns[1].Name)
	assert.Equal(t, 15, meta.Columns[1].Start)
	assert.Equal(t, "PMT_AMT", meta.Columns[2].Name)
	assert.Equal(t, 19, meta.Columns[2].Start)
	assert.Equal(t, 8, meta.Columns[2].Width)
	assert.Equal(t, 2, meta.Columns[2].Scale)
	assert.Equal(t, 27, meta.Columns[2].End())
}

func TestTableFWFMetaOffsets(t *testing.T) {
	table := &Table{
		Name:     "t",
		Metadata: map[string]string{MetaRecordLength: "15"},
		Columns: []Column{
			{Kind: ColumnKindPlain, Order: 1, Name: "A", Type: "CHAR", Width: "1", IsInput: true},
			{Kind: ColumnKindPlain, Order: 2, Name: "B", Type: "CHAR", Width: "5", IsInput: true},
			{Kind: ColumnKindPlain, Order: 3, Name: "C", Type: "NUM", Width: "9", IsInput: true},
			newRecordColumn(4),
		},
	}

	meta, err := table.FWFMeta("t.dat")
	require.NoError(t, err)

	// Offsets accumulate from zero regardless of declared positions.
	require.Len(t, meta.Columns, 3)
	starts := []int{meta.Columns[0].Start, meta.Columns[1].Start, meta.Columns[2].Start}
	assert.Equal(t, []int{0, 1, 6}, starts)
	ends := []int{meta.Columns[0].End(), meta.Columns[1].End(), meta.Columns[2].End()}
	assert.Equal(t, []int{1, 6, 15}, ends)
}

func TestTableFWFMetaMissingRecordLength(t *testing.T) {
	table := &Table{Name: "medpar_2015", Metadata: map[string]string{}}

	_, err := table.FWFMeta("medpar_2015.dat")
	require.Error(t, err)
	assert.True(t, errs.IsMissingRecordLength(err))
	assert.Contains(t, err.Error(), "medpar_2015")
}

func TestTableFWFMetaInvalidNumbers(t *testing.T) {
	tests := []struct {
		name string
		meta map[string]string
	}{
		{
			name: "record length not numeric",
			meta: map[string]string{MetaRecordLength: "n/a"},
		},
		{
			name: "row count not numeric",
			meta: map[string]string{MetaRecordLength: "27", MetaRows: "unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &Table{Name: "t", Metadata: tt.meta}
			_, err := table.FWFMeta("t.dat")
			require.Error(t, err)
			assert.True(t, errs.IsInvalidInput(err))
		})
	}
}

func TestTableFWFMetaOptionalFields(t *testing.T) {
	// Size and row count headers are optional; only record length is
	// mandatory.
	table := &Table{
		Name:     "t",
		Metadata: map[string]string{MetaRecordLength: "1,024"},
	}

	meta, err := table.FWFMeta("t.dat")
	require.NoError(t, err)
	assert.Equal(t, 1024, meta.RecordLength)
	assert.Zero(t, meta.FileSize)
	assert.Zero(t, meta.Rows)
}
