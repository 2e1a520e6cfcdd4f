package marktable

import (
	"errors"
	"testing"

	"github.com/henderiw/marktable/pkg/attribution"
	"github.com/tj/assert"
	"k8s.io/apimachinery/pkg/labels"
)

func TestHasAttributionAt(t *testing.T) {
	cases := map[string]struct {
		init   []Marker
		offset int64
		attr   attribution.Attribution
		want   bool
	}{
		"Inside": {
			init:   []Marker{StartMarker(bold, 3), EndMarker(bold, 7)},
			offset: 5,
			attr:   bold,
			want:   true,
		},
		"AtStart": {
			init:   []Marker{StartMarker(bold, 3), EndMarker(bold, 7)},
			offset: 3,
			attr:   bold,
			want:   true,
		},
		"AtEnd": {
			init:   []Marker{StartMarker(bold, 3), EndMarker(bold, 7)},
			offset: 7,
			attr:   bold,
			want:   true,
		},
		"PastEnd": {
			init:   []Marker{StartMarker(bold, 3), EndMarker(bold, 7)},
			offset: 8,
			attr:   bold,
			want:   false,
		},
		"BeforeStart": {
			init:   []Marker{StartMarker(bold, 3), EndMarker(bold, 7)},
			offset: 2,
			attr:   bold,
			want:   false,
		},
		"NegativeOffset": {
			init:   []Marker{StartMarker(bold, 3), EndMarker(bold, 7)},
			offset: -1,
			attr:   bold,
			want:   false,
		},
		"OtherAttribution": {
			init:   []Marker{StartMarker(bold, 3), EndMarker(bold, 7)},
			offset: 5,
			attr:   italic,
			want:   false,
		},
		"LaterSpan": {
			init: []Marker{
				StartMarker(bold, 0), EndMarker(bold, 2),
				StartMarker(bold, 8), EndMarker(bold, 10),
			},
			offset: 9,
			attr:   bold,
			want:   true,
		},
		"AnyAttribution": {
			init:   []Marker{StartMarker(bold, 3), EndMarker(bold, 7)},
			offset: 5,
			attr:   nil,
			want:   true,
		},
		// unfiltered lookups consult only the nearest start, so a longer
		// span hidden behind a nearer short one is not seen
		"AnyAttributionNearestOnly": {
			init: []Marker{
				StartMarker(bold, 0),
				StartMarker(italic, 2), EndMarker(italic, 3),
				EndMarker(bold, 9),
			},
			offset: 5,
			attr:   nil,
			want:   false,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r := New(tc.init)
			assert.Equal(t, tc.want, r.HasAttributionAt(tc.offset, tc.attr))
		})
	}
}

func TestHasAttributionAtOpenEnded(t *testing.T) {
	r := New([]Marker{StartMarker(bold, 3)})

	defer func() {
		rec := recover()
		if rec == nil {
			t.Fatalf("expected corruption panic")
		}
		if _, ok := rec.(*CorruptionError); !ok {
			t.Fatalf("expected *CorruptionError, got %v", rec)
		}
	}()
	r.HasAttributionAt(5, bold)
}

func TestExpandToSpan(t *testing.T) {
	cases := map[string]struct {
		init        []Marker
		attr        attribution.Attribution
		offset      int64
		want        Span
		expectedErr bool
	}{
		"Covered": {
			init:   []Marker{StartMarker(bold, 2), EndMarker(bold, 8)},
			attr:   bold,
			offset: 5,
			want:   Span{Attribution: bold, Start: 2, End: 8},
		},
		"NotCovered": {
			init:        []Marker{StartMarker(bold, 2), EndMarker(bold, 8)},
			attr:        bold,
			offset:      9,
			expectedErr: true,
		},
		"AbsentAttribution": {
			init:        []Marker{StartMarker(bold, 2), EndMarker(bold, 8)},
			attr:        italic,
			offset:      5,
			expectedErr: true,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r := New(tc.init)
			span, err := r.ExpandToSpan(tc.attr, tc.offset)
			if tc.expectedErr {
				var absentErr *AbsentAttributionError
				assert.True(t, errors.As(err, &absentErr))
				return
			}
			assert.NoError(t, err)
			assert.True(t, tc.want.Equal(span))
		})
	}
}

func TestAllAttributionsAt(t *testing.T) {
	r := New([]Marker{
		StartMarker(bold, 0), EndMarker(bold, 9),
		StartMarker(italic, 2), EndMarker(italic, 5),
	})

	cases := map[string]struct {
		offset int64
		want   []string
	}{
		"Both":    {offset: 3, want: []string{"bold", "italic"}},
		"BoldEnd": {offset: 9, want: []string{"bold"}},
		"None":    {offset: 10, want: nil},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var ids []string
			for _, a := range r.AllAttributionsAt(tc.offset).List() {
				ids = append(ids, a.ID())
			}
			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestHasAttributionsWithin(t *testing.T) {
	r := New([]Marker{
		StartMarker(bold, 0), EndMarker(bold, 3),
		StartMarker(italic, 5), EndMarker(italic, 8),
	})

	cases := map[string]struct {
		attrs []attribution.Attribution
		start int64
		end   int64
		want  bool
	}{
		"AllPresent":    {attrs: []attribution.Attribution{bold, italic}, start: 2, end: 6, want: true},
		"OneMissing":    {attrs: []attribution.Attribution{bold, italic}, start: 4, end: 4, want: false},
		"SingleCovered": {attrs: []attribution.Attribution{italic}, start: 6, end: 6, want: true},
		"EmptySet":      {attrs: nil, start: 0, end: 9, want: true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.HasAttributionsWithin(tc.attrs, tc.start, tc.end))
		})
	}
}

func TestMatchingAttributionsWithin(t *testing.T) {
	linkA := attribution.New("link", labels.Set{"href": "https://a"})
	linkB := attribution.New("link", labels.Set{"href": "https://b"})
	r := New([]Marker{
		StartMarker(linkA, 0), EndMarker(linkA, 3),
		StartMarker(bold, 1), EndMarker(bold, 6),
	})

	// identity match only: a link with a different href still matches the lane
	matched := r.MatchingAttributionsWithin([]attribution.Attribution{linkB}, 0, 6)
	assert.Len(t, matched, 1)
	assert.True(t, matched[0].Equal(linkA))

	matched = r.MatchingAttributionsWithin([]attribution.Attribution{linkB}, 4, 6)
	assert.Len(t, matched, 0)
}

func TestSpansInRange(t *testing.T) {
	r := New([]Marker{
		StartMarker(bold, 0), EndMarker(bold, 9),
		StartMarker(italic, 4), EndMarker(italic, 12),
	})

	cases := map[string]struct {
		filter      Filter
		start       int64
		end         int64
		resizeToFit bool
		want        []Span
	}{
		"All": {
			start: 2, end: 5,
			want: []Span{
				{Attribution: bold, Start: 0, End: 9},
				{Attribution: italic, Start: 4, End: 12},
			},
		},
		"Clipped": {
			start: 2, end: 5, resizeToFit: true,
			want: []Span{
				{Attribution: bold, Start: 2, End: 5},
				{Attribution: italic, Start: 4, End: 5},
			},
		},
		"Filtered": {
			filter: func(a attribution.Attribution) bool { return a.ID() == "italic" },
			start:  2, end: 5,
			want: []Span{{Attribution: italic, Start: 4, End: 12}},
		},
		"Empty": {
			start: 13, end: 20,
			want: nil,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := r.SpansInRange(tc.filter, tc.start, tc.end, tc.resizeToFit)
			assert.Equal(t, len(tc.want), len(got))
			for i := range tc.want {
				assert.True(t, tc.want[i].Equal(got[i]))
			}
		})
	}
}

func TestSpansByLabel(t *testing.T) {
	link := attribution.New("link", labels.Set{"href": "a.example.com"})
	r := New([]Marker{
		StartMarker(bold, 0), EndMarker(bold, 9),
		StartMarker(link, 4), EndMarker(link, 6),
	})

	selector, err := labels.Parse("href=a.example.com")
	assert.NoError(t, err)

	spans := r.SpansByLabel(selector, 0, 9)
	assert.Len(t, spans, 1)
	assert.True(t, spans[0].Equal(Span{Attribution: link, Start: 4, End: 6}))
}
