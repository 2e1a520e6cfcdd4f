package marktable

// Iterator walks a snapshot of the marker list in table order.
type Iterator struct {
	current int
	markers []Marker
}

func (r *Iterator) Next() bool {
	r.current++
	return r.current < len(r.markers)
}

func (r *Iterator) Marker() Marker {
	return r.markers[r.current]
}
