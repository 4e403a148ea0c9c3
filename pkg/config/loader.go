package config

import (
	"sync"

	"github.com/pkg/errors"
)

// Loader provides lazy, cached access to the anonymization configuration.
//
// The file is read and parsed on first use and the result is held for the
// lifetime of the loader, so a single run always sees one consistent view of
// the rules even if the file changes on disk mid-run.
//
// Example:
//
//	loader := config.NewLoader("veil.yaml")
//
//	count, err := loader.Count()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%d tables configured\n", count)
type Loader struct {
	path string
	once sync.Once
	cfg  *Config
	err  error
}

// NewLoader creates a loader for the configuration file at path. The file is
// not touched until the first call that needs it.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load parses the configuration file, caching the result. Subsequent calls
// return the cached configuration (or the cached failure).
func (l *Loader) Load() (*Config, error) {
	l.once.Do(func() {
		l.cfg, l.err = LoadConfigFile(l.path)
	})

	return l.cfg, l.err
}

// Count returns the number of configured tables, loading the configuration if
// necessary.
func (l *Loader) Count() (int, error) {
	cfg, err := l.Load()
	if err != nil {
		return 0, err
	}

	return cfg.Count(), nil
}

// AllTargets returns every configured table with its column names, in
// document order.
func (l *Loader) AllTargets() ([]*Table, error) {
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}

	return cfg.Tables, nil
}

// ResolveTargets resolves the named columns of a table to their full target
// descriptors, in the order the names are given. Every name must exist in the
// configuration.
func (l *Loader) ResolveTargets(table string, names []string) ([]*Target, error) {
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}

	t, ok := cfg.Table(table)
	if !ok {
		return nil, errors.Errorf("table %q is not configured", table)
	}

	targets := make([]*Target, 0, len(names))
	for _, name := range names {
		tgt, ok := t.Target(name)
		if !ok {
			return nil, errors.Errorf("target %q.%q is not configured", table, name)
		}
		targets = append(targets, tgt)
	}

	return targets, nil
}
