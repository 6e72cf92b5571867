// Package fwf describes fixed-width data files and reads their records.
//
// Meta is the decode descriptor produced from a parsed FTS document: the
// record length plus, per input column, its byte offset, width, and
// optional decimal scale. Reader consumes a Meta to slice raw records
// into field values.
package fwf

import (
	"go.yaml.in/yaml/v3"
)

// Column locates one field inside a fixed-width record.
type Column struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Order int    `yaml:"order"`
	Start int    `yaml:"start"`
	Width int    `yaml:"width"`
	Scale int    `yaml:"scale,omitempty"` // decimal digits, 0 when not fractional
}

// End returns the byte offset one past the column's last byte.
func (c Column) End() int {
	return c.Start + c.Width
}

// Meta is the full decode descriptor for one fixed-width file.
type Meta struct {
	Path         string   `yaml:"path,omitempty"`
	RecordLength int      `yaml:"record_length"`
	FileSize     int64    `yaml:"file_size,omitempty"`
	Rows         int      `yaml:"rows,omitempty"`
	Columns      []Column `yaml:"columns"`
}

// Encode renders the descriptor as YAML.
func (m *Meta) Encode() ([]byte, error) {
	return yaml.Marshal(m)
}

// DecodeMeta parses a YAML descriptor produced by Encode.
func DecodeMeta(data []byte) (*Meta, error) {
	var m Meta
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
