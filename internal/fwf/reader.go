package fwf

import (
	"bufio"
	"io"
	"strings"

	"github.com/openmedex/ftsmeta/internal/errs"
)

// maxRecordSize bounds a single record line. CMS extracts stay well
// under this; anything larger is a corrupt file.
const maxRecordSize = 1024 * 1024

// Reader yields records of a fixed-width file as trimmed field values,
// sliced according to the descriptor's column offsets.
type Reader struct {
	meta    *Meta
	scanner *bufio.Scanner
	record  int
}

// NewReader returns a Reader over r driven by the descriptor meta.
func NewReader(meta *Meta, r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxRecordSize)
	return &Reader{meta: meta, scanner: sc}
}

// Read returns the next record's field values in column order.
// It returns io.EOF after the last record. A record whose length
// disagrees with the descriptor fails the read.
func (r *Reader) Read() ([]string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, "read fixed-width record", err)
		}
		return nil, io.EOF
	}
	r.record++

	line := r.scanner.Text()
	if len(line) != r.meta.RecordLength {
		return nil, errs.Newf(errs.ErrKindInvalidInput,
			"record %d: length %d does not match declared record length %d",
			r.record, len(line), r.meta.RecordLength)
	}

	fields := make([]string, len(r.meta.Columns))
	for i, col := range r.meta.Columns {
		start, end := col.Start, col.End()
		if start > len(line) {
			start = len(line)
		}
		if end > len(line) {
			end = len(line)
		}
		fields[i] = strings.TrimSpace(line[start:end])
	}
	return fields, nil
}

// Record reports the 1-based number of the record returned by the
// last successful Read.
func (r *Reader) Record() int {
	return r.record
}
