// Package report turns normalized inventory data into styled multi-section
// report documents.
package report

import "sort"

// Kind selects how a section's rows are laid out.
type Kind int

const (
	// Tabular renders rows under a column header, preserving upstream order.
	Tabular Kind = iota
	// PropertyPivot transposes a single entity into property/value pairs.
	PropertyPivot
)

// Row is one display row. Cells align with the section's Columns for tabular
// sections; pivot sections use two cells per row (property, value).
type Row []string

// Section is a titled unit of a report document. Sections are owned by the
// document that holds them; renderers never mutate them.
type Section struct {
	Title      string
	Index      int
	Kind       Kind
	Columns    []string
	Rows       []Row
	Highlights []HighlightRule
}

// Pivot builds a property-pivot section from ordered property/value pairs.
func Pivot(title string, index int, pairs [][2]string) Section {
	rows := make([]Row, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, Row{p[0], p[1]})
	}
	return Section{
		Title:   title,
		Index:   index,
		Kind:    PropertyPivot,
		Columns: []string{"Property", "Value"},
		Rows:    rows,
	}
}

// Document is a complete report: an ordered set of sections under a common
// name prefix. It is built once per pipeline run and discarded after its
// artifacts are emitted.
type Document struct {
	Prefix   string
	Sections []Section
}

func NewDocument(prefix string) *Document {
	return &Document{Prefix: prefix}
}

// Add appends a section and keeps the declared ordering by index.
func (d *Document) Add(sections ...Section) {
	d.Sections = append(d.Sections, sections...)
	sort.SliceStable(d.Sections, func(i, j int) bool {
		return d.Sections[i].Index < d.Sections[j].Index
	})
}
