package catalog

import (
	"sort"

	"github.com/open-cogeval/cogeval/internal/apperr"
)

// Registry is the source of truth for what each level tests: a static,
// declarative set of TestLevel records, immutable after construction.
// No I/O is performed by a Registry.
type Registry struct {
	levels map[LevelID]TestLevel
	order  []LevelID
}

// NewRegistry builds a Registry from the given levels. Levels are
// retained in the order given, as returned by All; duplicate ids overwrite
// earlier entries but keep the original position.
func NewRegistry(levels ...TestLevel) *Registry {
	r := &Registry{levels: make(map[LevelID]TestLevel, len(levels))}
	for _, lvl := range levels {
		if _, exists := r.levels[lvl.ID]; !exists {
			r.order = append(r.order, lvl.ID)
		}
		r.levels[lvl.ID] = lvl
	}
	return r
}

// Get looks up a level by id. Returns a ConfigurationError if the id is
// not registered — any custom level used by a caller MUST have been
// registered first; there is no implicit fallback.
func (r *Registry) Get(id LevelID) (TestLevel, error) {
	lvl, ok := r.levels[id]
	if !ok {
		return TestLevel{}, apperr.NewConfigurationError("catalog", "unknown level: "+string(id))
	}
	return lvl, nil
}

// All returns every registered level in catalog (registration) order.
func (r *Registry) All() []TestLevel {
	out := make([]TestLevel, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.levels[id])
	}
	return out
}

// IDs returns every registered level id, sorted for deterministic
// display purposes (catalog order is preserved by All; this is a
// convenience for callers that just need a sorted id list).
func (r *Registry) IDs() []LevelID {
	out := make([]LevelID, 0, len(r.levels))
	for id := range r.levels {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Select returns the registered levels matching ids, in the order ids
// was given (not catalog order). Returns a ConfigurationError on the
// first unknown id.
func (r *Registry) Select(ids []LevelID) ([]TestLevel, error) {
	out := make([]TestLevel, 0, len(ids))
	for _, id := range ids {
		lvl, err := r.Get(id)
		if err != nil {
			return nil, err
		}
		out = append(out, lvl)
	}
	return out, nil
}
