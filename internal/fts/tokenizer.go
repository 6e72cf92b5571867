package fts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openmedex/ftsmeta/internal/errs"
)

// AttrConv selects the conversion applied to one sub-field of a
// column-definition line.
type AttrConv int

const (
	// ConvText keeps the trimmed text.
	ConvText AttrConv = iota
	// ConvInt parses a decimal integer.
	ConvInt
	// ConvNumber validates a numeric literal but keeps it as text, so
	// an encoded decimal scale ("12.2") survives verbatim.
	ConvNumber
)

// Attribute is one sub-field span within a column-definition line.
// End < 0 reads to the end of the line; the last attribute is always
// open-ended to tolerate variable-length trailing text.
type Attribute struct {
	Start int
	End   int
	Conv  AttrConv
}

// Layout fixes the attribute count and conversions of a column family.
type Layout struct {
	Convs []AttrConv
}

// LineReader slices column-definition lines by the width template of
// an FTS divider line.
type LineReader struct {
	attrs []Attribute
}

// NewLineReader builds a reader from the divider's space-separated
// dash runs. The run count must equal the layout's attribute count.
func NewLineReader(layout Layout, divider string) (*LineReader, error) {
	fields := strings.Split(strings.TrimRight(divider, " \t"), " ")
	if len(fields) != len(layout.Convs) {
		return nil, errs.Newf(errs.ErrKindColumnCountMismatch,
			"divider defines %d fields, column layout expects %d",
			len(fields), len(layout.Convs))
	}

	attrs := make([]Attribute, len(fields))
	pos := 0
	for i, f := range fields {
		attrs[i] = Attribute{Start: pos, End: pos + len(f), Conv: layout.Convs[i]}
		pos += len(f) + 1
	}
	attrs[len(attrs)-1].End = -1

	return &LineReader{attrs: attrs}, nil
}

// Fields holds the converted sub-fields of one column-definition line.
// A conversion that cannot produce a value leaves the zero value and,
// when the raw text was non-empty, adds a warning — a malformed
// attribute never aborts the line.
type Fields struct {
	texts    []string
	ints     []int
	ok       []bool
	warnings []string
}

// Text returns the i-th attribute as trimmed text.
func (f Fields) Text(i int) string { return f.texts[i] }

// Int returns the i-th attribute's integer value, 0 when unparsed.
func (f Fields) Int(i int) int { return f.ints[i] }

// OK reports whether the i-th attribute's conversion succeeded.
func (f Fields) OK(i int) bool { return f.ok[i] }

// Warnings lists the conversions that failed on non-empty text.
func (f Fields) Warnings() []string { return f.warnings }

// Read slices line into the template's spans, trims each, and applies
// the per-attribute conversion.
func (r *LineReader) Read(line string) Fields {
	n := len(r.attrs)
	f := Fields{
		texts: make([]string, n),
		ints:  make([]int, n),
		ok:    make([]bool, n),
	}

	for i, a := range r.attrs {
		text := strings.TrimSpace(span(line, a.Start, a.End))

		switch a.Conv {
		case ConvText:
			f.texts[i] = text
			f.ok[i] = true

		case ConvInt:
			v, err := strconv.Atoi(text)
			if err != nil {
				if text != "" {
					f.warnings = append(f.warnings,
						fmt.Sprintf("attribute %d: %q is not an integer", i, text))
				}
				continue
			}
			f.ints[i] = v
			f.texts[i] = text
			f.ok[i] = true

		case ConvNumber:
			if text == "" {
				continue
			}
			if _, err := strconv.ParseFloat(text, 64); err != nil {
				f.warnings = append(f.warnings,
					fmt.Sprintf("attribute %d: %q is not a number", i, text))
				continue
			}
			f.texts[i] = text
			f.ok[i] = true
		}
	}
	return f
}

// span returns line[start:end] with saturated bounds; end < 0 reads to
// the end of the line.
func span(line string, start, end int) string {
	if start >= len(line) {
		return ""
	}
	if end < 0 || end > len(line) {
		end = len(line)
	}
	return line[start:end]
}
