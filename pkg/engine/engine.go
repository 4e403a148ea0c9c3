package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"iter"
	"strings"

	"github.com/pkg/errors"
	"github.com/veildb/veil/pkg/anonymizer"
	"github.com/veildb/veil/pkg/config"
	"github.com/veildb/veil/pkg/db"
)

type (
	// ConfigSource provides lazy access to the anonymization rules.
	// *config.Loader is the production implementation.
	ConfigSource interface {
		Load() (*config.Config, error)
		Count() (int, error)
		ResolveTargets(table string, names []string) ([]*config.Target, error)
	}

	// Factory resolves a target's configured kind to a strategy instance.
	// *anonymizer.Registry is the production implementation.
	Factory interface {
		Create(target *config.Target, conn db.Conn) (anonymizer.Anonymizer, error)
	}

	// Engine orchestrates an anonymization run: it computes the plan,
	// drives each table's strategy lifecycle, executes the UPDATE
	// statements, and reports timed progress as a lazy event stream.
	//
	// One engine instance drives one run at a time; it is not safe for
	// concurrent invocation on the same connection.
	//
	// Example usage:
	//
	//	eng := engine.New(engine.Config{
	//		Source:  config.NewLoader("veil.yaml"),
	//		Conn:    conn,
	//		Factory: anonymizer.Default(),
	//	})
	//
	//	events, err := eng.Anonymize(ctx, engine.Options{})
	//	if err != nil {
	//		log.Fatal(err)
	//	}
	//
	//	for line, err := range events {
	//		if err != nil {
	//			log.Fatal(err)
	//		}
	//		fmt.Println(line)
	//	}
	Engine struct {
		source  ConfigSource
		conn    db.Conn
		factory Factory
	}

	// Config contains the collaborators for creating a new Engine.
	Config struct {
		// Source provides the anonymization rules
		Source ConfigSource

		// Conn is the database connection shared by the engine and every
		// strategy instance
		Conn db.Conn

		// Factory resolves anonymizer kinds to strategy instances
		Factory Factory
	}

	// Options control a single anonymization run.
	Options struct {
		// Excluded drops tables ("users") or columns ("users.email") from
		// the plan. Mutually exclusive with Only.
		Excluded []string

		// Only restricts the plan to the listed tables/columns, in filter
		// order. Mutually exclusive with Excluded.
		Only []string

		// PerColumn executes one UPDATE per column instead of one combined
		// UPDATE per table.
		PerColumn bool
	}
)

// New creates an engine with the provided collaborators.
func New(cfg Config) *Engine {
	return &Engine{
		source:  cfg.Source,
		conn:    cfg.Conn,
		factory: cfg.Factory,
	}
}

// Count returns the number of configured tables, loading the configuration
// if necessary.
func (e *Engine) Count() (int, error) {
	return e.source.Count()
}

// Anonymize runs the anonymization plan and returns a lazy, single-pass
// stream of progress lines.
//
// Nothing touches the database until the caller starts ranging over the
// stream, and each advance performs exactly as much work as needed to
// produce the next line. A failure terminates the stream: the error is the
// final element. Abandoning iteration stops the run; the table in flight is
// still cleaned up, tables not yet reached are never started.
//
// Filter validation happens synchronously, before the stream is returned and
// before any database access.
func (e *Engine) Anonymize(ctx context.Context, opts Options) (iter.Seq2[string, error], error) {
	if len(opts.Excluded) > 0 && len(opts.Only) > 0 {
		return nil, errors.WithStack(ErrFiltersExclusive)
	}

	if _, err := parseSelectors(opts.Excluded); err != nil {
		return nil, err
	}
	if _, err := parseSelectors(opts.Only); err != nil {
		return nil, err
	}

	return func(yield func(string, error) bool) {
		cfg, err := e.source.Load()
		if err != nil {
			yield("", err)
			return
		}

		plan, err := BuildPlan(cfg, opts.Excluded, opts.Only)
		if err != nil {
			yield("", err)
			return
		}

		for i, entry := range plan {
			if !e.runTable(ctx, yield, entry, i+1, len(plan), opts.PerColumn) {
				return
			}
		}
	}, nil
}

// runTable drives one table's full cycle: build all strategies, initialize,
// mutate, and clean up. It reports whether iteration should continue.
func (e *Engine) runTable(ctx context.Context, yield func(string, error) bool, entry *PlanEntry, idx, total int, perColumn bool) bool {
	tableTimer := startTimer()

	targets, err := e.source.ResolveTargets(entry.Table, entry.Targets)
	if err != nil {
		yield("", err)
		return false
	}

	// Every strategy is constructed before anything runs, so a construction
	// failure aborts the table before partial initialization.
	strategies := make([]anonymizer.Anonymizer, 0, len(targets))
	for _, tgt := range targets {
		strategy, err := e.factory.Create(tgt, e.conn)
		if err != nil {
			yield("", err)
			return false
		}
		strategies = append(strategies, strategy)
	}

	// emit tracks whether the consumer is still listening. Once yield
	// returns false no further events may be produced and no further work
	// may start, but the table's cleanup still runs.
	live := true
	emit := func(line string) bool {
		if live {
			live = yield(line, nil)
		}
		return live
	}

	var runErr error
	func() {
		defer func() {
			emit("  cleaning...")
			cleanTimer := startTimer()
			if err := cleanAll(ctx, strategies); err != nil {
				runErr = stderrors.Join(runErr, err)
			}
			emit("  " + cleanTimer.summary())
		}()

		if !emit(tableHeader(idx, total, entry)) {
			return
		}

		emit("  initializing...")
		initTimer := startTimer()
		for i, strategy := range strategies {
			if err := strategy.Init(ctx); err != nil {
				runErr = errors.Wrapf(err, "failed to initialize %q.%q", entry.Table, entry.Targets[i])
				return
			}
		}
		if !emit("  " + initTimer.summary()) {
			return
		}

		if perColumn {
			runErr = e.mutatePerColumn(ctx, emit, entry, strategies)
		} else {
			runErr = e.mutateCombined(ctx, emit, entry, strategies)
		}
	}()

	emit(fmt.Sprintf("table %q %s", entry.Table, tableTimer.summary()))

	if runErr != nil {
		if live {
			yield("", runErr)
		}
		return false
	}

	return live
}

// mutateCombined builds one UPDATE for the whole table, letting every
// strategy contribute to the shared builder, and executes it once.
func (e *Engine) mutateCombined(ctx context.Context, emit func(string) bool, entry *PlanEntry, strategies []anonymizer.Anonymizer) error {
	builder := e.conn.Update(entry.Table)
	for i, strategy := range strategies {
		if err := strategy.Apply(builder); err != nil {
			return errors.Wrapf(err, "failed to build mutation for %q.%q", entry.Table, entry.Targets[i])
		}
	}

	query, err := builder.ToSQL()
	if err != nil {
		return err
	}

	n, err := e.conn.Exec(ctx, query)
	if err != nil {
		return errors.Wrapf(err, "failed to anonymize table %q", entry.Table)
	}

	emit(fmt.Sprintf("  updated %d rows", n))
	return nil
}

// mutatePerColumn builds and immediately executes a dedicated UPDATE per
// strategy, isolating failures and lock scope to a single column.
func (e *Engine) mutatePerColumn(ctx context.Context, emit func(string) bool, entry *PlanEntry, strategies []anonymizer.Anonymizer) error {
	for i, strategy := range strategies {
		if !emit(fmt.Sprintf("  anonymizing %d/%d: %q.%q...", i+1, len(strategies), entry.Table, entry.Targets[i])) {
			return nil
		}
		columnTimer := startTimer()

		builder := e.conn.Update(entry.Table)
		if err := strategy.Apply(builder); err != nil {
			return errors.Wrapf(err, "failed to build mutation for %q.%q", entry.Table, entry.Targets[i])
		}

		query, err := builder.ToSQL()
		if err != nil {
			return err
		}

		n, err := e.conn.Exec(ctx, query)
		if err != nil {
			return errors.Wrapf(err, "failed to anonymize %q.%q", entry.Table, entry.Targets[i])
		}

		emit(fmt.Sprintf("  %s, %d rows", columnTimer.summary(), n))
	}

	return nil
}

// cleanAll calls Clean on every strategy, in order. A failing Clean does not
// stop the remaining ones; failures are collected and reported together.
func cleanAll(ctx context.Context, strategies []anonymizer.Anonymizer) error {
	var errs []error
	for _, strategy := range strategies {
		if err := strategy.Clean(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

func tableHeader(idx, total int, entry *PlanEntry) string {
	quoted := make([]string, 0, len(entry.Targets))
	for _, t := range entry.Targets {
		quoted = append(quoted, fmt.Sprintf("%q", t))
	}

	return fmt.Sprintf("table %d/%d: %q (%s)", idx, total, entry.Table, strings.Join(quoted, ", "))
}
