package marktable

import (
	"fmt"
	"sort"

	"github.com/henderiw/marktable/pkg/attribution"
)

type Kind int

const (
	Start Kind = iota
	End
)

func (k Kind) String() string {
	switch k {
	case Start:
		return "start"
	case End:
		return "end"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Marker is one boundary point of an attribution span.
type Marker struct {
	Attribution attribution.Attribution
	Offset      int64
	Kind        Kind
}

func StartMarker(a attribution.Attribution, offset int64) Marker {
	return Marker{Attribution: a, Offset: offset, Kind: Start}
}

func EndMarker(a attribution.Attribution, offset int64) Marker {
	return Marker{Attribution: a, Offset: offset, Kind: End}
}

// Equal reports structural marker equality: offset, kind and attribution.
func (r Marker) Equal(other Marker) bool {
	return r.Offset == other.Offset &&
		r.Kind == other.Kind &&
		r.Attribution != nil && r.Attribution.Equal(other.Attribution)
}

func (r Marker) String() string {
	return fmt.Sprintf("%v %s@%d", r.Attribution, r.Kind, r.Offset)
}

// compareMarkers establishes the total marker order: offset ascending, and
// at equal offsets a start sorts before an end so spans never appear
// inverted to a linear scan.
func compareMarkers(a, b Marker) int {
	if a.Offset != b.Offset {
		if a.Offset < b.Offset {
			return -1
		}
		return 1
	}
	if a.Kind != b.Kind {
		if a.Kind == Start {
			return -1
		}
		return 1
	}
	return 0
}

func sortMarkers(markers []Marker) {
	sort.SliceStable(markers, func(i, j int) bool {
		return compareMarkers(markers[i], markers[j]) < 0
	})
}
