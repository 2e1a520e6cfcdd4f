package marktable

import (
	"sync"

	"github.com/henderiw/marktable/pkg/attribution"
	"k8s.io/apimachinery/pkg/util/sets"
)

// PushBack shifts every marker by offset. A uniform shift preserves both
// the order and the alternation invariant, so no rebalancing is needed.
func (r *table) PushBack(offset int64) {
	r.m.Lock()
	defer r.m.Unlock()

	r.log.V(1).Info("push attributions back", "offset", offset)
	for i := range r.markers {
		r.markers[i].Offset += offset
	}
}

// Contract removes the window [startOffset, startOffset+count) from the
// offset axis. Markers inside the window are dropped; for every attribution
// left with an unmatched dropped start a start is reinserted at the window
// start, and for an unmatched dropped end an end is reinserted just before
// it. Markers past the window shift back by count.
func (r *table) Contract(startOffset, count int64) {
	if count <= 0 {
		return
	}
	r.m.Lock()
	defer r.m.Unlock()

	r.log.V(1).Info("contract attributions", "startOffset", startOffset, "count", count)

	type balance struct {
		attr      attribution.Attribution
		openStart bool
		openEnd   bool
	}
	var balances []*balance
	find := func(a attribution.Attribution) *balance {
		for _, b := range balances {
			if b.attr.Equal(a) {
				return b
			}
		}
		b := &balance{attr: a}
		balances = append(balances, b)
		return b
	}

	endExclusive := startOffset + count
	kept := r.markers[:0]
	for _, m := range r.markers {
		switch {
		case m.Offset < startOffset:
			kept = append(kept, m)
		case m.Offset < endExclusive:
			b := find(m.Attribution)
			switch {
			case m.Kind == Start:
				b.openStart = true
			case b.openStart:
				// a dropped start/end pair cancels out
				b.openStart = false
			default:
				b.openEnd = true
			}
		default:
			m.Offset -= count
			kept = append(kept, m)
		}
	}
	r.markers = kept
	for _, b := range balances {
		if b.openStart {
			r.insert(StartMarker(b.attr, startOffset))
		}
		if b.openEnd {
			r.insert(EndMarker(b.attr, max(startOffset-1, 0)))
		}
	}
}

// CopyRegion extracts [startOffset, endOffset] as a new table whose offset
// 0 corresponds to startOffset. Spans still open at either boundary get a
// synthesized start at 0 or end at endOffset-startOffset. A negative
// endOffset selects the last marker offset.
func (r *table) CopyRegion(startOffset, endOffset int64) Table {
	r.m.RLock()
	defer r.m.RUnlock()

	if endOffset < 0 {
		endOffset = r.lastOffset()
	}
	c := &table{
		m:   new(sync.RWMutex),
		log: r.log,
	}

	type boundary struct {
		attr       attribution.Attribution
		openBefore bool
		afterSeen  bool
		afterLast  Kind
		openAfter  bool
	}
	var boundaries []*boundary
	find := func(a attribution.Attribution) *boundary {
		for _, b := range boundaries {
			if b.attr.Equal(a) {
				return b
			}
		}
		b := &boundary{attr: a}
		boundaries = append(boundaries, b)
		return b
	}

	for _, m := range r.markers {
		switch {
		case m.Offset < startOffset:
			b := find(m.Attribution)
			switch {
			case m.Kind == Start && b.openBefore:
				corruptf("attribution %v has consecutive starts before offset %d", m.Attribution, startOffset)
			case m.Kind == End && !b.openBefore:
				corruptf("attribution %v has an unmatched end at offset %d", m.Attribution, m.Offset)
			}
			b.openBefore = m.Kind == Start
		case m.Offset <= endOffset:
			c.insert(Marker{Attribution: m.Attribution, Offset: m.Offset - startOffset, Kind: m.Kind})
		default:
			b := find(m.Attribution)
			if !b.afterSeen {
				b.afterSeen = true
				b.openAfter = m.Kind == End
			} else if b.afterLast == m.Kind {
				corruptf("attribution %v has consecutive %s markers past offset %d",
					m.Attribution, m.Kind, endOffset)
			}
			b.afterLast = m.Kind
		}
	}
	for _, b := range boundaries {
		if b.openBefore {
			c.insert(StartMarker(b.attr, 0))
		}
		if b.openAfter {
			c.insert(EndMarker(b.attr, endOffset-startOffset))
		}
	}
	return c
}

// AddAt appends other's markers after this table's, with other's offset 0
// landing at index. An end at index-1 paired with a start at index for the
// same attribution marks two spans touching across the seam; both markers
// are removed so the spans fuse.
func (r *table) AddAt(other Table, index int64) error {
	otherMarkers := other.Markers()

	r.m.Lock()
	defer r.m.Unlock()

	if index < 0 || (len(r.markers) > 0 && index <= r.lastOffset()) {
		return &IndexOverlapError{Index: index, LastOffset: r.lastOffset()}
	}
	r.log.V(1).Info("add table at", "index", index, "markers", len(otherMarkers))

	for _, m := range otherMarkers {
		m.Offset += index
		r.markers = append(r.markers, m)
	}

	drop := sets.New[int]()
	for i, m := range r.markers {
		if m.Offset != index-1 || m.Kind != End || drop.Has(i) {
			continue
		}
		for j, n := range r.markers {
			if drop.Has(j) || n.Offset != index || n.Kind != Start || !m.Attribution.Equal(n.Attribution) {
				continue
			}
			drop.Insert(i)
			drop.Insert(j)
			break
		}
	}
	if drop.Len() > 0 {
		kept := r.markers[:0]
		for i, m := range r.markers {
			if drop.Has(i) {
				continue
			}
			kept = append(kept, m)
		}
		r.markers = kept
	}
	return nil
}
