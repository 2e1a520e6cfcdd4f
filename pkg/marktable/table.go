package marktable

import (
	"sort"
	"sync"

	"github.com/go-logr/logr"
	"github.com/henderiw/marktable/pkg/attribution"
	"k8s.io/apimachinery/pkg/labels"
)

// Filter selects attributions during range queries.
type Filter func(a attribution.Attribution) bool

// Table maintains an ordered list of attribution span markers over a
// discrete offset axis. For every attribution the markers alternate
// start, end, start, end in offset order; every mutating method
// re-establishes that invariant before returning.
type Table interface {
	// Insert places a marker at its sorted position. The caller must not
	// insert a marker that duplicates an existing one.
	Insert(m Marker)
	// Markers returns a copy of the marker list in table order.
	Markers() []Marker
	Count() int
	// LastOffset returns the offset of the last marker, or 0 when empty.
	LastOffset() int64
	Iterate() *Iterator

	// HasAttributionAt reports whether the attribution covers the offset.
	// A nil attribution matches the nearest span of any attribution.
	HasAttributionAt(offset int64, a attribution.Attribution) bool
	// ExpandToSpan returns the full span of a containing offset.
	ExpandToSpan(a attribution.Attribution, offset int64) (Span, error)
	// AllAttributionsAt returns every attribution covering the offset.
	AllAttributionsAt(offset int64) *attribution.Set
	// HasAttributionsWithin reports whether every given attribution covers
	// at least one offset in [start, end].
	HasAttributionsWithin(attrs []attribution.Attribution, start, end int64) bool
	// MatchingAttributionsWithin returns the attributions present in
	// [start, end] whose lane identity matches any of the given ones.
	MatchingAttributionsWithin(attrs []attribution.Attribution, start, end int64) []attribution.Attribution
	// SpansInRange returns the deduplicated spans of every attribution
	// passing the filter that covers an offset in [start, end]. With
	// resizeToFit the returned spans are clipped to the range.
	SpansInRange(filter Filter, start, end int64, resizeToFit bool) []Span
	// SpansByLabel returns the spans in [start, end] whose attribution
	// carries labels matching the selector.
	SpansByLabel(selector labels.Selector, start, end int64) []Span

	AddAttribution(a attribution.Attribution, start, end int64) error
	RemoveAttribution(a attribution.Attribution, start, end int64) error
	ToggleAttribution(a attribution.Attribution, start, end int64) error

	// PushBack shifts every marker by offset.
	PushBack(offset int64)
	// Contract removes the window [startOffset, startOffset+count) from the
	// offset axis and shifts everything after it back by count.
	Contract(startOffset, count int64)
	// CopyRegion extracts [startOffset, endOffset] as a new table re-based
	// at offset 0. A negative endOffset selects the last marker offset.
	CopyRegion(startOffset, endOffset int64) Table
	// AddAt appends another table's markers such that its offset 0 lands
	// at index, fusing spans that touch across the seam.
	AddAt(other Table, index int64) error

	// Collapse flattens all lanes into a gapless ordered partition of
	// [0, contentLength-1].
	Collapse(contentLength int64) []MultiSpan
}

// New creates a table from the given markers, re-sorted into table order.
// The markers must already satisfy the alternation invariant; the
// constructor does not validate it.
func New(init []Marker) Table {
	return NewWithLogger(logr.Discard(), init)
}

// NewWithLogger is New with a diagnostics sink attached. Logging is purely
// observational and never changes behavior.
func NewWithLogger(log logr.Logger, init []Marker) Table {
	r := &table{
		m:   new(sync.RWMutex),
		log: log,
	}
	r.markers = append(r.markers, init...)
	sortMarkers(r.markers)
	return r
}

type table struct {
	m       *sync.RWMutex
	markers []Marker
	log     logr.Logger
}

func (r *table) Insert(m Marker) {
	r.m.Lock()
	defer r.m.Unlock()

	r.insert(m)
}

func (r *table) insert(m Marker) {
	i := sort.Search(len(r.markers), func(i int) bool {
		return compareMarkers(r.markers[i], m) > 0
	})
	r.markers = append(r.markers, Marker{})
	copy(r.markers[i+1:], r.markers[i:])
	r.markers[i] = m
}

func (r *table) Markers() []Marker {
	r.m.RLock()
	defer r.m.RUnlock()

	markers := make([]Marker, len(r.markers))
	copy(markers, r.markers)
	return markers
}

func (r *table) Count() int {
	r.m.RLock()
	defer r.m.RUnlock()

	return len(r.markers)
}

func (r *table) LastOffset() int64 {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.lastOffset()
}

func (r *table) lastOffset() int64 {
	if len(r.markers) == 0 {
		return 0
	}
	return r.markers[len(r.markers)-1].Offset
}

func (r *table) Iterate() *Iterator {
	return &Iterator{current: -1, markers: r.Markers()}
}

// distinctAttributions returns the structurally distinct attributions
// appearing anywhere in the table, in first-appearance order.
func (r *table) distinctAttributions() []attribution.Attribution {
	var distinct []attribution.Attribution
	for _, m := range r.markers {
		if m.Kind != Start {
			continue
		}
		dup := false
		for _, a := range distinct {
			if a.Equal(m.Attribution) {
				dup = true
				break
			}
		}
		if !dup {
			distinct = append(distinct, m.Attribution)
		}
	}
	return distinct
}
