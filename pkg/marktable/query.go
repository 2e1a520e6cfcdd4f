package marktable

import (
	"github.com/henderiw/marktable/pkg/attribution"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/util/sets"
)

func (r *table) HasAttributionAt(offset int64, a attribution.Attribution) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.hasAt(offset, a)
}

func (r *table) hasAt(offset int64, a attribution.Attribution) bool {
	start, end, ok := r.coverage(offset, a)
	return ok && start.Offset <= offset && offset <= end.Offset
}

// coverage locates the nearest start marker at-or-before offset, optionally
// restricted to one attribution, and that attribution's end marker. A start
// with no matching end is a broken invariant and panics.
func (r *table) coverage(offset int64, a attribution.Attribution) (Marker, Marker, bool) {
	if offset < 0 {
		return Marker{}, Marker{}, false
	}
	si := -1
	for i := len(r.markers) - 1; i >= 0; i-- {
		m := r.markers[i]
		if m.Offset > offset || m.Kind != Start {
			continue
		}
		if a != nil && !a.Equal(m.Attribution) {
			continue
		}
		si = i
		break
	}
	if si < 0 {
		return Marker{}, Marker{}, false
	}
	start := r.markers[si]
	for i := si + 1; i < len(r.markers); i++ {
		m := r.markers[i]
		if m.Kind != End || !start.Attribution.Equal(m.Attribution) {
			continue
		}
		return start, m, true
	}
	corruptf("attribution %v has a start at offset %d with no matching end",
		start.Attribution, start.Offset)
	return Marker{}, Marker{}, false
}

func (r *table) ExpandToSpan(a attribution.Attribution, offset int64) (Span, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.expand(a, offset)
}

func (r *table) expand(a attribution.Attribution, offset int64) (Span, error) {
	if a == nil {
		return Span{}, &AbsentAttributionError{Offset: offset}
	}
	start, end, ok := r.coverage(offset, a)
	if !ok || offset > end.Offset {
		return Span{}, &AbsentAttributionError{Attribution: a, Offset: offset}
	}
	return Span{Attribution: start.Attribution, Start: start.Offset, End: end.Offset}, nil
}

func (r *table) AllAttributionsAt(offset int64) *attribution.Set {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.allAt(offset)
}

func (r *table) allAt(offset int64) *attribution.Set {
	set := attribution.NewSet()
	for _, a := range r.distinctAttributions() {
		if r.hasAt(offset, a) {
			set.Insert(a)
		}
	}
	return set
}

func (r *table) HasAttributionsWithin(attrs []attribution.Attribution, start, end int64) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	pending := sets.New[int]()
	for i := range attrs {
		pending.Insert(i)
	}
	for offset := start; offset <= end && pending.Len() > 0; offset++ {
		for _, i := range pending.UnsortedList() {
			if r.hasAt(offset, attrs[i]) {
				pending.Delete(i)
			}
		}
	}
	return pending.Len() == 0
}

func (r *table) MatchingAttributionsWithin(attrs []attribution.Attribution, start, end int64) []attribution.Attribution {
	r.m.RLock()
	defer r.m.RUnlock()

	ids := sets.New[string]()
	for _, a := range attrs {
		if a != nil {
			ids.Insert(a.ID())
		}
	}
	var matched []attribution.Attribution
	for _, a := range r.distinctAttributions() {
		if ids.Has(a.ID()) && r.presentWithin(a, start, end) {
			matched = append(matched, a)
		}
	}
	return matched
}

// presentWithin reports whether a covers at least one offset in
// [start, end]: either a marker of a lies inside the range, or a span of a
// already covers the range start.
func (r *table) presentWithin(a attribution.Attribution, start, end int64) bool {
	for _, m := range r.markers {
		if m.Offset > end {
			break
		}
		if m.Offset >= start && a.Equal(m.Attribution) {
			return true
		}
	}
	return r.hasAt(start, a)
}

// firstPresentOffset returns the first offset in [start, end] covered by a,
// or -1 when a is absent from the range.
func (r *table) firstPresentOffset(a attribution.Attribution, start, end int64) int64 {
	if r.hasAt(start, a) {
		return start
	}
	for _, m := range r.markers {
		if m.Offset > end {
			break
		}
		if m.Offset >= start && a.Equal(m.Attribution) {
			return m.Offset
		}
	}
	return -1
}

func (r *table) SpansInRange(filter Filter, start, end int64, resizeToFit bool) []Span {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.spansInRange(filter, start, end, resizeToFit)
}

func (r *table) spansInRange(filter Filter, start, end int64, resizeToFit bool) []Span {
	var spans []Span
	for offset := start; offset <= end; offset++ {
		for _, a := range r.allAt(offset).List() {
			if filter != nil && !filter(a) {
				continue
			}
			span, err := r.expand(a, offset)
			if err != nil {
				continue
			}
			if resizeToFit {
				span = span.Constrain(start, end)
			}
			dup := false
			for _, s := range spans {
				if s.Equal(span) {
					dup = true
					break
				}
			}
			if !dup {
				spans = append(spans, span)
			}
		}
	}
	return spans
}

func (r *table) SpansByLabel(selector labels.Selector, start, end int64) []Span {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.spansInRange(func(a attribution.Attribution) bool {
		l, ok := a.(attribution.Labeled)
		return ok && selector.Matches(l.Labels())
	}, start, end, false)
}
