package engine

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/veildb/veil/pkg/config"
)

// ErrFiltersExclusive is returned when both --only and --exclude filters are
// supplied for the same run.
var ErrFiltersExclusive = errors.New("only and exclude target filters are mutually exclusive")

type (
	// PlanEntry is the resolved work list for one table: which columns to
	// anonymize, in order.
	PlanEntry struct {
		Table   string
		Targets []string
	}

	// Plan is the ordered table work list for one anonymization run. It is
	// built fresh per invocation and never persisted.
	Plan []*PlanEntry
)

// selector is a parsed target filter: a bare table name ("users") or a
// qualified column ("users.email").
type selector struct {
	table  string
	target string
}

func parseSelector(raw string) (selector, error) {
	table, target, qualified := strings.Cut(raw, ".")
	if table == "" || (qualified && target == "") {
		return selector{}, errors.Errorf("malformed target selector %q (want TABLE or TABLE.TARGET)", raw)
	}

	return selector{table: table, target: target}, nil
}

func parseSelectors(raw []string) ([]selector, error) {
	selectors := make([]selector, 0, len(raw))
	for _, r := range raw {
		s, err := parseSelector(r)
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, s)
	}
	return selectors, nil
}

// BuildPlan computes the table/column work list for one run.
//
// With only filters, tables appear in filter order: a bare table name selects
// every configured column of that table, a qualified selector appends the one
// column, de-duplicated. Without filters the full configuration is used,
// minus any excluded tables ("users") or columns ("users.email"). Supplying
// both filter lists is a usage error.
//
// Every plan entry is validated against the configuration; tables left with
// no columns are dropped from the plan.
func BuildPlan(cfg *config.Config, excluded, only []string) (Plan, error) {
	if len(excluded) > 0 && len(only) > 0 {
		return nil, errors.WithStack(ErrFiltersExclusive)
	}

	if len(only) > 0 {
		return buildOnlyPlan(cfg, only)
	}

	return buildExclusionPlan(cfg, excluded)
}

func buildOnlyPlan(cfg *config.Config, only []string) (Plan, error) {
	selectors, err := parseSelectors(only)
	if err != nil {
		return nil, err
	}

	var plan Plan
	entries := make(map[string]*PlanEntry)
	seen := make(map[string]map[string]bool)

	entry := func(table string) *PlanEntry {
		e, ok := entries[table]
		if !ok {
			e = &PlanEntry{Table: table}
			entries[table] = e
			seen[table] = make(map[string]bool)
			plan = append(plan, e)
		}
		return e
	}

	add := func(e *PlanEntry, target string) {
		if !seen[e.Table][target] {
			seen[e.Table][target] = true
			e.Targets = append(e.Targets, target)
		}
	}

	for _, s := range selectors {
		table, ok := cfg.Table(s.table)
		if !ok {
			return nil, errors.Errorf("table %q is not configured", s.table)
		}

		e := entry(s.table)

		// A bare table name selects every configured column.
		if s.target == "" {
			for _, name := range table.TargetNames() {
				add(e, name)
			}
			continue
		}

		if _, ok := table.Target(s.target); !ok {
			return nil, errors.Errorf("target %q.%q is not configured", s.table, s.target)
		}
		add(e, s.target)
	}

	return plan, nil
}

func buildExclusionPlan(cfg *config.Config, excluded []string) (Plan, error) {
	selectors, err := parseSelectors(excluded)
	if err != nil {
		return nil, err
	}

	excludedTables := make(map[string]bool)
	excludedTargets := make(map[string]bool)
	for _, s := range selectors {
		if s.target == "" {
			excludedTables[s.table] = true
		} else {
			excludedTargets[s.table+"."+s.target] = true
		}
	}

	var plan Plan
	for _, table := range cfg.Tables {
		if excludedTables[table.Name] {
			continue
		}

		entry := &PlanEntry{Table: table.Name}
		for _, name := range table.TargetNames() {
			if excludedTargets[table.Name+"."+name] {
				continue
			}
			entry.Targets = append(entry.Targets, name)
		}

		if len(entry.Targets) > 0 {
			plan = append(plan, entry)
		}
	}

	return plan, nil
}

// TargetCount returns the total number of planned columns across all tables.
func (p Plan) TargetCount() int {
	var n int
	for _, e := range p {
		n += len(e.Targets)
	}
	return n
}
