package styletable

import (
	"github.com/go-logr/logr"
	"github.com/henderiw/marktable/pkg/attribution"
	"github.com/henderiw/marktable/pkg/marktable"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/selection"
)

// Style constructors for common rich-text lanes. Flag styles merge freely
// with themselves; parameterized styles such as links only merge when their
// parameters match, so two different hrefs cannot fuse into one span.
func Bold() attribution.Attribution   { return attribution.New("bold", nil) }
func Italic() attribution.Attribution { return attribution.New("italic", nil) }
func Strike() attribution.Attribution { return attribution.New("strike", nil) }

func Link(href string) attribution.Attribution {
	return attribution.New("link", labels.Set{"href": href})
}

func Anchor(name string) attribution.Attribution {
	return attribution.New("anchor", labels.Set{"name": name})
}

// StyleTable is a rich-text style layer over a marker table: styles occupy
// lanes over character offsets and the collapsed segments feed a renderer.
type StyleTable interface {
	Apply(style attribution.Attribution, start, end int64) error
	Clear(style attribution.Attribution, start, end int64) error
	Toggle(style attribution.Attribution, start, end int64) error

	StylesAt(offset int64) []attribution.Attribution
	Styled(style attribution.Attribution, offset int64) bool
	// Links returns every link span overlapping [start, end].
	Links(start, end int64) []marktable.Span
	// Segments returns the collapsed view over content of length n.
	Segments(n int64) []marktable.MultiSpan

	// ShiftRight makes room for count characters prepended to the content.
	ShiftRight(count int64)
	// DeleteText drops the styles of count characters removed at offset.
	DeleteText(offset, count int64)
	// Extract returns the styles of [start, end] as a new table, re-based
	// at 0 for the extracted content.
	Extract(start, end int64) StyleTable
	// Append splices another document's styles after this one, with the
	// other document starting at index.
	Append(other StyleTable, index int64) error

	Table() marktable.Table
}

func New() StyleTable {
	return NewWithLogger(logr.Discard())
}

func NewWithLogger(log logr.Logger) StyleTable {
	return &styleTable{
		table: marktable.NewWithLogger(log, nil),
	}
}

type styleTable struct {
	table marktable.Table
}

func (r *styleTable) Apply(style attribution.Attribution, start, end int64) error {
	return r.table.AddAttribution(style, start, end)
}

func (r *styleTable) Clear(style attribution.Attribution, start, end int64) error {
	return r.table.RemoveAttribution(style, start, end)
}

func (r *styleTable) Toggle(style attribution.Attribution, start, end int64) error {
	return r.table.ToggleAttribution(style, start, end)
}

func (r *styleTable) StylesAt(offset int64) []attribution.Attribution {
	return r.table.AllAttributionsAt(offset).List()
}

func (r *styleTable) Styled(style attribution.Attribution, offset int64) bool {
	return r.table.HasAttributionAt(offset, style)
}

func (r *styleTable) Links(start, end int64) []marktable.Span {
	req, err := labels.NewRequirement("href", selection.Exists, nil)
	if err != nil {
		return nil
	}
	return r.table.SpansByLabel(labels.NewSelector().Add(*req), start, end)
}

func (r *styleTable) Segments(n int64) []marktable.MultiSpan {
	return r.table.Collapse(n)
}

func (r *styleTable) ShiftRight(count int64) {
	r.table.PushBack(count)
}

func (r *styleTable) DeleteText(offset, count int64) {
	r.table.Contract(offset, count)
}

func (r *styleTable) Extract(start, end int64) StyleTable {
	return &styleTable{table: r.table.CopyRegion(start, end)}
}

func (r *styleTable) Append(other StyleTable, index int64) error {
	return r.table.AddAt(other.Table(), index)
}

func (r *styleTable) Table() marktable.Table {
	return r.table
}
