package config

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/veildb/veil/pkg/consts"
	"gopkg.in/yaml.v3"
)

type (
	// Target describes the anonymization rule for a single table column.
	Target struct {
		// Kind is the registered anonymizer kind used for this column
		Kind string

		// Table is the name of the table this target belongs to
		Table string

		// Name is the column name
		Name string

		// Options holds strategy-specific settings (salt, pattern, value, ...)
		Options map[string]any
	}

	// Table is an ordered collection of targets for one database table.
	Table struct {
		// Name is the table name as it appears in the database
		Name string

		// Targets are the configured columns in document order
		Targets []*Target

		index map[string]*Target
	}

	// Config represents the anonymization rules for one database.
	//
	// Tables and their targets preserve the order they appear in veil.yaml.
	// That order is the default processing order during an anonymization run,
	// so it is kept explicitly rather than relying on Go map iteration.
	Config struct {
		// Driver is the database/sql driver name (postgres, mysql, sqlite3)
		Driver string

		// DSN is the default connection string, overridable via --dsn
		DSN string

		// Seed is an optional SQL file executed when starting a dev sandbox
		Seed string

		// Tables holds the configured tables in document order
		Tables []*Table

		index map[string]*Table
	}
)

// rawConfig mirrors the YAML document shape. Tables is kept as a raw node so
// that mapping order can be preserved while decoding.
type rawConfig struct {
	Driver string    `yaml:"driver,omitempty"`
	DSN    string    `yaml:"dsn,omitempty"`
	Seed   string    `yaml:"seed,omitempty"`
	Tables yaml.Node `yaml:"tables"`
}

// LoadConfig parses an anonymization configuration from the provided io.Reader.
//
// The function expects YAML-formatted data mapping table names to column names
// to anonymization rules. Table and column order from the document is
// preserved. If no driver is specified, it defaults to DefaultDriver.
//
// Strategy options may be nested under an options key or written inline
// alongside kind; both of these configure the same target:
//
//	email: {kind: static, value: "redacted"}
//	email: {kind: static, options: {value: "redacted"}}
//
// Example:
//
//	yamlData := `
//	driver: postgres
//	tables:
//	  users:
//	    email:
//	      kind: hash
//	      options: {salt: s3cr3t}
//	`
//
//	cfg, err := config.LoadConfig(strings.NewReader(yamlData))
//	if err != nil {
//		panic(err)
//	}
//
//	fmt.Printf("Configured tables: %d\n", cfg.Count())
func LoadConfig(r io.Reader) (*Config, error) {
	var raw rawConfig
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal anonymization config")
	}

	cfg := &Config{
		Driver: raw.Driver,
		DSN:    raw.DSN,
		Seed:   raw.Seed,
		index:  make(map[string]*Table),
	}

	if cfg.Driver == "" {
		cfg.Driver = consts.DefaultDriver
	}

	if err := cfg.decodeTables(&raw.Tables); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadConfigFile loads an anonymization configuration from the specified file
// path. This is a convenience function that opens the file and calls LoadConfig.
//
// Example:
//
//	cfg, err := config.LoadConfigFile("veil.yaml")
//	if err != nil {
//		log.Fatal("Failed to load config:", err)
//	}
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadConfig(f)
}

// decodeTables walks the raw tables node pairwise (key node, value node) so
// that document order survives decoding.
func (c *Config) decodeTables(node *yaml.Node) error {
	if node.Kind == 0 || node.IsZero() {
		return nil
	}

	if node.Kind != yaml.MappingNode {
		return errors.New("tables must be a mapping of table name to columns")
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if _, ok := c.index[name]; ok {
			return errors.Errorf("table %q configured more than once", name)
		}

		table := &Table{Name: name, index: make(map[string]*Target)}
		if err := table.decodeTargets(node.Content[i+1]); err != nil {
			return err
		}

		c.Tables = append(c.Tables, table)
		c.index[name] = table
	}

	return nil
}

func (t *Table) decodeTargets(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.Errorf("table %q must map column names to rules", t.Name)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if _, ok := t.index[name]; ok {
			return errors.Errorf("target %q.%q configured more than once", t.Name, name)
		}

		var raw map[string]any
		if err := node.Content[i+1].Decode(&raw); err != nil {
			return errors.Wrapf(err, "failed to decode target %q.%q", t.Name, name)
		}

		kind, _ := raw["kind"].(string)
		if kind == "" {
			return errors.Errorf("target %q.%q is missing an anonymizer kind", t.Name, name)
		}

		options := make(map[string]any)
		if nested, ok := raw["options"].(map[string]any); ok {
			for k, v := range nested {
				options[k] = v
			}
		}
		for k, v := range raw {
			if k == "kind" || k == "options" {
				continue
			}
			options[k] = v
		}
		if len(options) == 0 {
			options = nil
		}

		target := &Target{
			Kind:    kind,
			Table:   t.Name,
			Name:    name,
			Options: options,
		}

		t.Targets = append(t.Targets, target)
		t.index[name] = target
	}

	return nil
}

// Count returns the number of configured tables.
func (c *Config) Count() int {
	return len(c.Tables)
}

// Table returns the configuration for the named table, if present.
func (c *Config) Table(name string) (*Table, bool) {
	t, ok := c.index[name]
	return t, ok
}

// Target returns the configuration for the named column, if present.
func (t *Table) Target(name string) (*Target, bool) {
	tgt, ok := t.index[name]
	return tgt, ok
}

// TargetNames returns the configured column names in document order.
func (t *Table) TargetNames() []string {
	names := make([]string, 0, len(t.Targets))
	for _, tgt := range t.Targets {
		names = append(names, tgt.Name)
	}
	return names
}
