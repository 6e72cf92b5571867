package schema

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// Encode renders the mapping as YAML. Map keys are emitted sorted, so
// the output is deterministic across runs.
func (m Mapping) Encode() ([]byte, error) {
	return yaml.Marshal(m)
}

// Decode parses a YAML document produced by Encode.
func Decode(data []byte) (Mapping, error) {
	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode schema mapping: %w", err)
	}
	return m, nil
}

// Merge copies every table from other into m. Later tables win on
// name collision.
func (m Mapping) Merge(other Mapping) {
	for name, table := range other {
		m[name] = table
	}
}

// MarshalYAML renders the flag as `true`, or as a one-key mapping when
// the index must exist before data loading.
func (f IndexFlag) MarshalYAML() (interface{}, error) {
	if f.RequiredBeforeLoad {
		return map[string]bool{"required_before_loading_data": true}, nil
	}
	return true, nil
}

// UnmarshalYAML accepts both renderings of the flag.
func (f *IndexFlag) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var b bool
		if err := value.Decode(&b); err != nil {
			return fmt.Errorf("index flag: %w", err)
		}
		f.RequiredBeforeLoad = false
		return nil
	case yaml.MappingNode:
		var m struct {
			Required bool `yaml:"required_before_loading_data"`
		}
		if err := value.Decode(&m); err != nil {
			return fmt.Errorf("index flag: %w", err)
		}
		f.RequiredBeforeLoad = m.Required
		return nil
	default:
		return fmt.Errorf("index flag: unexpected YAML node kind %d", value.Kind)
	}
}
