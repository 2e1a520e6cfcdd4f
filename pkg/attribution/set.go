package attribution

import (
	"sort"
)

// Set holds at most one attribution per lane identity. Same-lane
// attributions cannot be active at the same offset, so keying by ID is
// lossless for coverage sets.
type Set struct {
	byID map[string]Attribution
}

func NewSet(attrs ...Attribution) *Set {
	r := &Set{byID: map[string]Attribution{}}
	for _, a := range attrs {
		r.Insert(a)
	}
	return r
}

func (r *Set) Insert(a Attribution) {
	if a == nil {
		return
	}
	r.byID[a.ID()] = a
}

func (r *Set) Delete(a Attribution) {
	if a == nil {
		return
	}
	delete(r.byID, a.ID())
}

func (r *Set) Has(a Attribution) bool {
	if a == nil {
		return false
	}
	_, ok := r.byID[a.ID()]
	return ok
}

func (r *Set) Len() int { return len(r.byID) }

// List returns the members ordered by lane identity, or nil when empty.
func (r *Set) List() []Attribution {
	if len(r.byID) == 0 {
		return nil
	}
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	attrs := make([]Attribution, 0, len(ids))
	for _, id := range ids {
		attrs = append(attrs, r.byID[id])
	}
	return attrs
}

func (r *Set) Clone() *Set {
	c := &Set{byID: make(map[string]Attribution, len(r.byID))}
	for id, a := range r.byID {
		c.byID[id] = a
	}
	return c
}
