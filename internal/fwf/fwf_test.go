package fwf

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmedex/ftsmeta/internal/errs"
)

func TestColumn_End(t *testing.T) {
	c := Column{Start: 6, Width: 9}
	assert.Equal(t, 15, c.End())
}

func TestMeta_Encode(t *testing.T) {
	m := &Meta{
		Path:         "medpar_2015.dat",
		RecordLength: 15,
		Rows:         2,
		Columns: []Column{
			{Name: "A", Type: "CHAR", Order: 1, Start: 0, Width: 1},
			{Name: "B", Type: "NUM", Order: 2, Start: 1, Width: 5, Scale: 2},
		},
	}

	data, err := m.Encode()
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "record_length: 15")
	assert.Contains(t, text, "name: A")
	assert.Contains(t, text, "scale: 2")
	// Scale 0 is omitted, not rendered.
	assert.Equal(t, 1, strings.Count(text, "scale:"))

	back, err := DecodeMeta(data)
	require.NoError(t, err)
	assert.Equal(t, m, back)
}

func TestReader_Read(t *testing.T) {
	meta := &Meta{
		RecordLength: 15,
		Columns: []Column{
			{Name: "SEX", Start: 0, Width: 1},
			{Name: "ZIP", Start: 1, Width: 5},
			{Name: "AMT", Start: 6, Width: 9},
		},
	}
	data := "M02138   123.45\n" +
		"F3012999999.99 \n"

	r := NewReader(meta, strings.NewReader(data))

	fields, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"M", "02138", "123.45"}, fields)
	assert.Equal(t, 1, r.Record())

	fields, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"F", "30129", "99999.99"}, fields)
	assert.Equal(t, 2, r.Record())

	_, err = r.Read()
	assert.Equal(t, io.EOF, err)
}

func TestReader_RecordLengthMismatch(t *testing.T) {
	meta := &Meta{
		RecordLength: 10,
		Columns:      []Column{{Name: "A", Start: 0, Width: 10}},
	}

	r := NewReader(meta, strings.NewReader("short\n"))

	_, err := r.Read()
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
	assert.Contains(t, err.Error(), "record 1")
}
