package fts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmedex/ftsmeta/internal/errs"
)

func TestNewLineReader(t *testing.T) {
	layout := Layout{Convs: []AttrConv{ConvInt, ConvText, ConvNumber}}
	reader, err := NewLineReader(layout, "--- ----- ---------")
	require.NoError(t, err)

	require.Len(t, reader.attrs, 3)
	assert.Equal(t, Attribute{Start: 0, End: 3, Conv: ConvInt}, reader.attrs[0])
	assert.Equal(t, Attribute{Start: 4, End: 9, Conv: ConvText}, reader.attrs[1])
	// The last span is open-ended to tolerate long trailing text.
	assert.Equal(t, Attribute{Start: 10, End: -1, Conv: ConvNumber}, reader.attrs[2])
}

func TestNewLineReaderCountMismatch(t *testing.T) {
	layout := Layout{Convs: []AttrConv{ConvInt, ConvText}}
	_, err := NewLineReader(layout, "--- ----- ---------")
	require.Error(t, err)
	assert.True(t, errs.IsColumnCountMismatch(err))
	assert.Contains(t, err.Error(), "3 fields")
	assert.Contains(t, err.Error(), "expects 2")
}

func TestNewLineReaderTrailingWhitespace(t *testing.T) {
	layout := Layout{Convs: []AttrConv{ConvInt, ConvText}}
	_, err := NewLineReader(layout, "--- ----- \t")
	require.NoError(t, err)
}

func TestLineReaderRead(t *testing.T) {
	layout := Layout{Convs: []AttrConv{ConvInt, ConvText, ConvNumber, ConvText}}
	reader, err := NewLineReader(layout, "--- -------- ------ ----------")
	require.NoError(t, err)

	fields := reader.Read("  7 BENE_ID    12.2  Encrypted beneficiary id")

	assert.Equal(t, 7, fields.Int(0))
	assert.True(t, fields.OK(0))
	assert.Equal(t, "BENE_ID", fields.Text(1))
	assert.Equal(t, "12.2", fields.Text(2))
	assert.True(t, fields.OK(2))
	// Open-ended last attribute reads past the template width.
	assert.Equal(t, "Encrypted beneficiary id", fields.Text(3))
	assert.Empty(t, fields.Warnings())
}

func TestLineReaderReadConversionFailures(t *testing.T) {
	layout := Layout{Convs: []AttrConv{ConvInt, ConvNumber, ConvText}}
	reader, err := NewLineReader(layout, "--- ----- -----")
	require.NoError(t, err)

	tests := []struct {
		name     string
		line     string
		wantInt  int
		wantNum  string
		warnings int
	}{
		{
			name:     "unparseable values null out with warnings",
			line:     "ABC x.y.z text",
			wantInt:  0,
			wantNum:  "",
			warnings: 2,
		},
		{
			name:     "empty spans null out silently",
			line:     "          text",
			wantInt:  0,
			wantNum:  "",
			warnings: 0,
		},
		{
			name:     "valid values convert",
			line:     " 12  9.25 text",
			wantInt:  12,
			wantNum:  "9.25",
			warnings: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := reader.Read(tt.line)
			assert.Equal(t, tt.wantInt, fields.Int(0))
			assert.Equal(t, tt.wantNum, fields.Text(1))
			assert.Len(t, fields.Warnings(), tt.warnings)
		})
	}
}

func TestLineReaderReadShortLine(t *testing.T) {
	layout := Layout{Convs: []AttrConv{ConvText, ConvText, ConvText}}
	reader, err := NewLineReader(layout, "----- ----- -----")
	require.NoError(t, err)

	// A line shorter than the template yields empty trailing fields.
	fields := reader.Read("ABC")
	assert.Equal(t, "ABC", fields.Text(0))
	assert.Equal(t, "", fields.Text(1))
	assert.Equal(t, "", fields.Text(2))
}

func TestConvNumberKeepsLiteralText(t *testing.T) {
	layout := Layout{Convs: []AttrConv{ConvNumber}}
	reader, err := NewLineReader(layout, strings.Repeat("-", 6))
	require.NoError(t, err)

	// The width field may encode a decimal scale; conversion must not
	// normalize "8.20" into a float and lose the stated precision.
	fields := reader.Read("  8.20")
	assert.Equal(t, "8.20", fields.Text(0))
	assert.True(t, fields.OK(0))
}
