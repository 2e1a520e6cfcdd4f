package attribution

import (
	"k8s.io/apimachinery/pkg/labels"
)

// Attribution is a label applied to a range of a document, e.g. bold or a
// hyperlink. Attributions sharing an ID occupy the same lane: their spans
// may never overlap each other, while spans of different IDs overlap freely.
type Attribution interface {
	// ID returns the lane identity used for same-lane grouping.
	ID() string
	// Equal reports full structural equality, not just identity.
	Equal(other Attribution) bool
	// CanMergeWith reports whether two same-lane attributions may be
	// treated as one continuous span. It must be reflexive.
	CanMergeWith(other Attribution) bool
}

// Labeled is implemented by attributions carrying a label set, allowing
// selector based queries.
type Labeled interface {
	Attribution
	Labels() labels.Set
}

// New returns a label backed attribution. Two attributions are equal when
// both id and label set match; they are mergeable under the same condition,
// so parameterized attributions with differing labels refuse to merge.
func New(id string, set labels.Set) Attribution {
	return attribution{
		id:     id,
		labels: set,
	}
}

type attribution struct {
	id     string
	labels labels.Set
}

func (r attribution) ID() string { return r.id }

func (r attribution) Labels() labels.Set { return r.labels }

func (r attribution) Equal(other Attribution) bool {
	if other == nil || r.id != other.ID() {
		return false
	}
	l, ok := other.(Labeled)
	if !ok {
		return false
	}
	return labels.Equals(r.labels, l.Labels())
}

func (r attribution) CanMergeWith(other Attribution) bool {
	return r.Equal(other)
}

func (r attribution) String() string {
	if len(r.labels) == 0 {
		return r.id
	}
	return r.id + "{" + r.labels.String() + "}"
}
