// Package state models the pipeline stage definitions owned by the commerce
// platform. Definitions are read-only to this service: they are fetched per
// operation batch and resolved through a Catalog that maps opaque platform ids
// to stable keys and display names.
package state

import (
	"pizzatools/internal/core/domain/model/kernel"
)

// State is one pipeline stage definition as the platform stores it.
// The key is the stable human token ("in-oven"); the id is the opaque
// identifier every order's state reference points at.
type State struct {
	ID      kernel.UUID `json:"id"`
	Key     string      `json:"key"`
	Name    string      `json:"name"`
	Initial bool        `json:"initial"`
}

// Info is the display projection of a state, attached to order read models.
type Info struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

// UnknownInfo is the placeholder attached to orders whose state reference
// cannot be resolved, either because the catalog load degraded or the order
// points at a definition this service has never seen. State names are
// cosmetic, so an unresolved state is a degraded condition, not a failure.
var UnknownInfo = Info{Name: "Unknown", Key: "unknown"}

// Catalog is an in-memory two-way index over a set of state definitions.
// It is built once per operation batch; staleness is bounded by one request.
type Catalog struct {
	states []State
	byID   map[kernel.UUID]State
	byKey  map[string]State
}

// NewCatalog builds a catalog from the given definitions. Duplicate keys keep
// the first definition seen, matching the platform's own uniqueness guarantee.
func NewCatalog(states []State) Catalog {
	c := Catalog{
		states: make([]State, 0, len(states)),
		byID:   make(map[kernel.UUID]State, len(states)),
		byKey:  make(map[string]State, len(states)),
	}
	for _, s := range states {
		if _, exists := c.byKey[s.Key]; exists {
			continue
		}
		c.states = append(c.states, s)
		c.byID[s.ID] = s
		c.byKey[s.Key] = s
	}
	return c
}

// EmptyCatalog returns a catalog with no definitions. Store adapters return it
// when the definition fetch fails, so callers degrade to UnknownInfo instead of
// aborting the whole request.
func EmptyCatalog() Catalog {
	return NewCatalog(nil)
}

// ByID resolves a platform state id to its definition.
func (c Catalog) ByID(id kernel.UUID) (State, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// ByKey resolves a stable state key to its definition.
func (c Catalog) ByKey(key string) (State, bool) {
	s, ok := c.byKey[key]
	return s, ok
}

// InfoFor returns the display projection for a state id, falling back to
// UnknownInfo when the id does not resolve.
func (c Catalog) InfoFor(id kernel.UUID) Info {
	if s, ok := c.byID[id]; ok {
		return Info{Name: s.Name, Key: s.Key}
	}
	return UnknownInfo
}

// States returns the definitions in insertion order. Used by cache adapters to
// serialize the catalog.
func (c Catalog) States() []State {
	out := make([]State, len(c.states))
	copy(out, c.states)
	return out
}

// IsEmpty reports whether the catalog holds no definitions, which signals a
// degraded catalog load.
func (c Catalog) IsEmpty() bool {
	return len(c.states) == 0
}
