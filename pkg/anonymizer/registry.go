package anonymizer

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/veildb/veil/pkg/config"
	"github.com/veildb/veil/pkg/db"
)

// ErrUnknownKind is returned by Create when a target names an anonymizer
// kind that was never registered.
var ErrUnknownKind = errors.New("unknown anonymizer kind")

// Registry resolves anonymizer kinds to strategy constructors.
//
// Registration is validated eagerly: an empty kind or nil constructor is
// rejected at registration time rather than surfacing when a configuration
// first references it.
//
// Example:
//
//	registry := anonymizer.NewRegistry()
//	if err := registry.Register("rot13", newRot13); err != nil {
//		log.Fatal(err)
//	}
//
//	strategy, err := registry.Create(target, conn)
type Registry struct {
	kinds map[string]Constructor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]Constructor)}
}

// Default returns a registry with all built-in strategies registered.
func Default() *Registry {
	r := NewRegistry()
	r.mustRegister("static", newStatic)
	r.mustRegister("null", newNull)
	r.mustRegister("hash", newHash)
	r.mustRegister("mask", newMask)
	r.mustRegister("shuffle", newShuffle)
	return r
}

// Register adds a constructor for the given kind. Registering an empty kind,
// a nil constructor, or a kind that is already present is an error.
func (r *Registry) Register(kind string, c Constructor) error {
	if kind == "" {
		return errors.New("anonymizer kind must not be empty")
	}

	if c == nil {
		return errors.Errorf("constructor for kind %q must not be nil", kind)
	}

	if _, ok := r.kinds[kind]; ok {
		return errors.Errorf("anonymizer kind %q already registered", kind)
	}

	r.kinds[kind] = c
	return nil
}

func (r *Registry) mustRegister(kind string, c Constructor) {
	if err := r.Register(kind, c); err != nil {
		panic(err)
	}
}

// Create instantiates the strategy configured for the target, bound to the
// given connection. The database is not touched.
func (r *Registry) Create(target *config.Target, conn db.Conn) (Anonymizer, error) {
	c, ok := r.kinds[target.Kind]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownKind, "%q (target %q.%q)", target.Kind, target.Table, target.Name)
	}

	strategy, err := c(Binding{Target: target, Conn: conn})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %q anonymizer for %q.%q", target.Kind, target.Table, target.Name)
	}

	return strategy, nil
}

// Kinds returns the registered kind names, sorted.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.kinds))
	for kind := range r.kinds {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
