package schema

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/spektr-org/seguros/engine"
)

// ============================================================================
// SCHEMA — Fixed shape of the policyholder dataset
// ============================================================================
// One entry per CSV column, in file order: source name, display name, kind,
// and for categorical columns the value recode table. The table ships
// embedded (insurance.yaml) and is a compile-time constant of the program.
// ============================================================================

//go:embed insurance.yaml
var insuranceYAML []byte

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string   `yaml:"name" json:"name"`
	Version     string   `yaml:"version,omitempty" json:"version,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Columns     []Column `yaml:"columns" json:"columns"`
}

// Column describes one source column and how it is presented.
type Column struct {
	Key     string            `yaml:"key" json:"key"`         // header in the source file
	Display string            `yaml:"display" json:"display"` // presentation name
	Kind    engine.ColumnKind `yaml:"kind" json:"kind"`
	Type    string            `yaml:"type" json:"type"` // "int", "float", "string"
	Unit    string            `yaml:"unit,omitempty" json:"unit,omitempty"`
	Values  map[string]string `yaml:"values,omitempty" json:"values,omitempty"` // source value → display value
}

// Parse decodes a YAML schema and checks it for internal consistency.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Insurance returns the built-in policyholder schema.
func Insurance() *Config {
	cfg, err := Parse(insuranceYAML)
	if err != nil {
		// embedded asset; only a broken build gets here
		panic(err)
	}
	return cfg
}

func (c *Config) validate() error {
	if len(c.Columns) == 0 {
		return fmt.Errorf("schema %q has no columns", c.Name)
	}
	seen := make(map[string]bool, len(c.Columns))
	for _, col := range c.Columns {
		if col.Key == "" || col.Display == "" {
			return fmt.Errorf("schema %q: column needs both key and display name", c.Name)
		}
		if seen[col.Key] {
			return fmt.Errorf("schema %q: duplicate column %q", c.Name, col.Key)
		}
		seen[col.Key] = true
		switch col.Kind {
		case engine.KindDimension:
		case engine.KindMeasure:
			if len(col.Values) > 0 {
				return fmt.Errorf("schema %q: numeric column %q cannot carry value recodes", c.Name, col.Key)
			}
		default:
			return fmt.Errorf("schema %q: column %q has unknown kind %q", c.Name, col.Key, col.Kind)
		}
	}
	return nil
}

// Column returns the column with the given source key.
func (c *Config) Column(key string) (Column, bool) {
	for _, col := range c.Columns {
		if col.Key == key {
			return col, true
		}
	}
	return Column{}, false
}

// ByDisplay returns the column with the given display name.
func (c *Config) ByDisplay(display string) (Column, bool) {
	for _, col := range c.Columns {
		if col.Display == display {
			return col, true
		}
	}
	return Column{}, false
}

// Keys returns all source column keys in file order.
func (c *Config) Keys() []string {
	keys := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		keys[i] = col.Key
	}
	return keys
}

// Renames returns the source → display column name map.
func (c *Config) Renames() map[string]string {
	m := make(map[string]string, len(c.Columns))
	for _, col := range c.Columns {
		m[col.Key] = col.Display
	}
	return m
}

// Meta converts a column to frame metadata under its source key.
func (col Column) Meta() engine.ColumnMeta {
	return engine.ColumnMeta{
		Name:    col.Key,
		Kind:    col.Kind,
		Integer: col.Type == "int",
	}
}

// Recode maps a source value to its display value. ok is false when the
// value is not in the recode table.
func (col Column) Recode(value string) (string, bool) {
	v, ok := col.Values[value]
	return v, ok
}

// IsDisplayValue reports whether value is already one of the column's
// display values.
func (col Column) IsDisplayValue(value string) bool {
	for _, v := range col.Values {
		if v == value {
			return true
		}
	}
	return false
}
