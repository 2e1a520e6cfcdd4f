package marktable

import (
	"github.com/henderiw/marktable/pkg/attribution"
)

// Span is the inclusive range covered by one attribution, reconstructed
// from a start/end marker pair. Spans are plain values; they hold no
// reference back to the table they were derived from.
type Span struct {
	Attribution attribution.Attribution
	Start       int64
	End         int64
}

// Constrain clips the span to [start, end]. It affects the returned view
// only, never the stored markers.
func (r Span) Constrain(start, end int64) Span {
	if r.Start < start {
		r.Start = start
	}
	if r.End > end {
		r.End = end
	}
	return r
}

func (r Span) Equal(other Span) bool {
	return r.Start == other.Start &&
		r.End == other.End &&
		r.Attribution != nil && r.Attribution.Equal(other.Attribution)
}

// MultiSpan is one segment of the collapsed view: an inclusive range
// together with every attribution active on it. Produced only by Collapse,
// never stored.
type MultiSpan struct {
	Attributions []attribution.Attribution
	Start        int64
	End          int64
}
