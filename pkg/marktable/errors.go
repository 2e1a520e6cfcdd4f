package marktable

import (
	"fmt"

	"github.com/henderiw/marktable/pkg/attribution"
)

// InvalidRangeError is returned by RemoveAttribution for a negative or
// inverted range. AddAttribution treats the same condition as a silent
// no-op; the asymmetry is deliberate.
type InvalidRangeError struct {
	Start int64
	End   int64
}

func (r *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: start %d, end %d", r.Start, r.End)
}

// ConflictError is returned by AddAttribution when the new attribution
// overlaps an existing same-lane attribution that refuses to merge.
type ConflictError struct {
	Existing      attribution.Attribution
	New           attribution.Attribution
	ConflictStart int64
}

func (r *ConflictError) Error() string {
	return fmt.Sprintf("attribution %v cannot merge with %v present at offset %d",
		r.New, r.Existing, r.ConflictStart)
}

// AbsentAttributionError is returned by ExpandToSpan when the attribution
// does not cover the given offset.
type AbsentAttributionError struct {
	Attribution attribution.Attribution
	Offset      int64
}

func (r *AbsentAttributionError) Error() string {
	return fmt.Sprintf("attribution %v is not present at offset %d", r.Attribution, r.Offset)
}

// IndexOverlapError is returned by AddAt when the splice index does not lie
// strictly past the receiver's last marker.
type IndexOverlapError struct {
	Index      int64
	LastOffset int64
}

func (r *IndexOverlapError) Error() string {
	return fmt.Sprintf("index %d must be greater than the last marker offset %d", r.Index, r.LastOffset)
}

// CorruptionError reports a broken marker invariant: an unmatched start or
// end, or consecutive same-kind markers for one attribution. These states
// are unreachable through the public API; the table panics rather than
// returning them, since the caller cannot recover a corrupted table.
type CorruptionError struct {
	Msg string
}

func (r *CorruptionError) Error() string {
	return "marker table corrupted: " + r.Msg
}

func corruptf(format string, args ...any) {
	panic(&CorruptionError{Msg: fmt.Sprintf(format, args...)})
}
