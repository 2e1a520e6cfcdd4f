package marktable

import (
	"fmt"

	"github.com/henderiw/marktable/pkg/attribution"
)

// AddAttribution applies a across [start, end] inclusive, coalescing with
// existing mergeable spans of the same attribution. A negative or inverted
// range is silently ignored. Overlap with a same-lane attribution that
// refuses to merge returns a *ConflictError and leaves the table unchanged.
func (r *table) AddAttribution(a attribution.Attribution, start, end int64) error {
	if a == nil {
		return fmt.Errorf("attribution is required")
	}
	r.m.Lock()
	defer r.m.Unlock()

	return r.add(a, start, end)
}

func (r *table) add(a attribution.Attribution, start, end int64) error {
	if start < 0 || start > end {
		return nil
	}
	for _, existing := range r.distinctAttributions() {
		if existing.ID() != a.ID() || !r.presentWithin(existing, start, end) {
			continue
		}
		if existing.CanMergeWith(a) && a.CanMergeWith(existing) {
			continue
		}
		return &ConflictError{
			Existing:      existing,
			New:           a,
			ConflictStart: r.firstPresentOffset(existing, start, end),
		}
	}
	// A span already covering the whole range leaves nothing to do; falling
	// through would insert an end cap inside it.
	if s, e, ok := r.coverage(start, a); ok && s.Offset <= start && e.Offset >= end {
		return nil
	}
	r.log.V(1).Info("add attribution", "attribution", a, "start", start, "end", end)

	if !r.hasAt(start, a) {
		r.insert(StartMarker(a, start))
	}
	// Absorb every boundary marker of a inside the target range. An end
	// sitting exactly at start belongs to the span being extended and is
	// absorbed too; a start exactly at start never is.
	var deleted []Marker
	kept := r.markers[:0]
	for _, m := range r.markers {
		if m.Offset >= start && m.Offset <= end && a.Equal(m.Attribution) &&
			!(m.Offset == start && m.Kind == Start) {
			deleted = append(deleted, m)
			continue
		}
		kept = append(kept, m)
	}
	r.markers = kept
	if len(deleted) == 0 || deleted[len(deleted)-1].Kind == End {
		r.insert(EndMarker(a, end))
	}
	return nil
}

// RemoveAttribution removes a from [start, end] inclusive, capping the
// surviving portions of any span reaching into the range from either side.
// Unlike AddAttribution, a negative or inverted range is an error.
func (r *table) RemoveAttribution(a attribution.Attribution, start, end int64) error {
	if a == nil {
		return fmt.Errorf("attribution is required")
	}
	r.m.Lock()
	defer r.m.Unlock()

	return r.remove(a, start, end)
}

func (r *table) remove(a attribution.Attribution, start, end int64) error {
	if start < 0 || start > end {
		return &InvalidRangeError{Start: start, End: end}
	}
	if !r.presentWithin(a, start, end) {
		return nil
	}
	r.log.V(1).Info("remove attribution", "attribution", a, "start", start, "end", end)

	// Cap both boundaries before deleting the interior. Both conditions are
	// evaluated first: inserting the head cap would hide the tail coverage
	// from the second lookup.
	capHead := start > 0 && r.hasAt(start-1, a) && !r.hasMarker(a, start-1, End)
	capTail := r.hasAt(end+1, a) && !r.hasMarker(a, end+1, Start)
	if capHead {
		r.insert(EndMarker(a, start-1))
	}
	if capTail {
		r.insert(StartMarker(a, end+1))
	}
	kept := r.markers[:0]
	for _, m := range r.markers {
		if m.Offset >= start && m.Offset <= end && a.Equal(m.Attribution) {
			continue
		}
		kept = append(kept, m)
	}
	r.markers = kept
	return nil
}

func (r *table) hasMarker(a attribution.Attribution, offset int64, kind Kind) bool {
	for _, m := range r.markers {
		if m.Offset > offset {
			break
		}
		if m.Offset == offset && m.Kind == kind && a.Equal(m.Attribution) {
			return true
		}
	}
	return false
}

// ToggleAttribution removes a from [start, end] when a single span of a
// covers the whole range without a break, and adds it otherwise.
func (r *table) ToggleAttribution(a attribution.Attribution, start, end int64) error {
	if a == nil {
		return fmt.Errorf("attribution is required")
	}
	r.m.Lock()
	defer r.m.Unlock()

	if r.continuous(a, start, end) {
		return r.remove(a, start, end)
	}
	return r.add(a, start, end)
}

func (r *table) continuous(a attribution.Attribution, start, end int64) bool {
	si := -1
	for i := len(r.markers) - 1; i >= 0; i-- {
		m := r.markers[i]
		if m.Offset > start || m.Kind != Start || !a.Equal(m.Attribution) {
			continue
		}
		si = i
		break
	}
	if si < 0 {
		return false
	}
	for i := si + 1; i < len(r.markers); i++ {
		m := r.markers[i]
		if !a.Equal(m.Attribution) {
			continue
		}
		if m.Kind == Start {
			corruptf("attribution %v has consecutive starts at offsets %d and %d",
				a, r.markers[si].Offset, m.Offset)
		}
		return m.Offset >= end
	}
	corruptf("attribution %v has a start at offset %d with no matching end",
		a, r.markers[si].Offset)
	return false
}
