package domain

import "strconv"

// FileSummary describes one annotated document known to the store.
type FileSummary struct {
	FileName    string
	Annotations int
	Pages       int
}

// LineItemGroup holds the annotations of one line item row.
type LineItemGroup struct {
	Number      string
	Annotations []Annotation
}

// GroupedAnnotations is the display grouping of a document's annotations.
type GroupedAnnotations struct {
	FileName  string
	Meta      []Annotation
	LineItems []LineItemGroup

	// Unclassified holds legacy selection annotations.
	Unclassified []Annotation
}

// Len returns the total number of annotations in the grouping.
func (g *GroupedAnnotations) Len() int {
	n := len(g.Meta) + len(g.Unclassified)
	for i := range g.LineItems {
		n += len(g.LineItems[i].Annotations)
	}
	return n
}

// LineItemLess orders line item numbers: integers numerically and first,
// everything else lexically after them.
func LineItemLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
