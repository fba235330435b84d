// Package ident validates entity identifiers and remaps legacy ones to
// canonical UUIDs.
package ident

import (
	"regexp"
	"sort"

	"github.com/google/uuid"
)

var uuidPattern = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// IsUUID reports whether s is a canonical version 1-5 UUID.
func IsUUID(s string) bool {
	return uuidPattern.MatchString(s)
}

// New returns a fresh random UUID.
func New() string {
	return uuid.NewString()
}

// Remapper rewrites non-UUID ids for the duration of one load pass.
// The same legacy id always maps to the same new UUID.
type Remapper struct {
	gen     func() string
	mapping map[string]string
}

// NewRemapper returns a Remapper that generates ids with New.
func NewRemapper() *Remapper {
	return &Remapper{gen: New, mapping: make(map[string]string)}
}

// Map returns id unchanged if it is already a UUID, otherwise its stable
// replacement.
func (r *Remapper) Map(id string) string {
	if IsUUID(id) {
		return id
	}
	if mapped, ok := r.mapping[id]; ok {
		return mapped
	}
	mapped := r.gen()
	r.mapping[id] = mapped
	return mapped
}

// Lookup returns the replacement for a legacy id already seen by Map.
func (r *Remapper) Lookup(id string) (string, bool) {
	mapped, ok := r.mapping[id]
	return mapped, ok
}

// Remapped returns a copy of every old->new pair, in no particular order.
func (r *Remapper) Remapped() map[string]string {
	out := make(map[string]string, len(r.mapping))
	for k, v := range r.mapping {
		out[k] = v
	}
	return out
}

// Legacy returns the remapped legacy ids in sorted order.
func (r *Remapper) Legacy() []string {
	ids := make([]string, 0, len(r.mapping))
	for k := range r.mapping {
		ids = append(ids, k)
	}
	sort.Strings(ids)
	return ids
}
