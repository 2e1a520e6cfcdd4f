package marktable

import (
	"github.com/henderiw/marktable/pkg/attribution"
)

// Collapse sweeps the marker list once and flattens every lane into an
// ordered, gapless partition of [0, contentLength-1]; each segment carries
// the full set of attributions active on it.
func (r *table) Collapse(contentLength int64) []MultiSpan {
	r.m.RLock()
	defer r.m.RUnlock()

	if contentLength <= 0 {
		return nil
	}
	if len(r.markers) == 0 || r.markers[0].Offset >= contentLength {
		return []MultiSpan{{Start: 0, End: contentLength - 1}}
	}

	var segments []MultiSpan
	active := attribution.NewSet()
	curStart := int64(0)
	commit := func(end int64) {
		segments = append(segments, MultiSpan{
			Attributions: active.List(),
			Start:        curStart,
			End:          end,
		})
	}
	for _, m := range r.markers {
		if m.Offset >= contentLength {
			break
		}
		if m.Kind == Start {
			if m.Offset > curStart {
				commit(m.Offset - 1)
				curStart = m.Offset
			}
			active.Insert(m.Attribution)
		} else {
			if m.Offset >= curStart {
				commit(m.Offset)
				curStart = m.Offset + 1
			}
			active.Delete(m.Attribution)
		}
	}
	if len(segments) == 0 || segments[len(segments)-1].End < contentLength-1 {
		commit(contentLength - 1)
	}
	return segments
}
