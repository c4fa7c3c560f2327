package export

import (
	"strconv"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
)

// Cells returns the values of one annotation in domain.ExportColumns order.
// Pages are 1-based and absent optionals are empty strings.
func Cells(a domain.Annotation) []string {
	cells := make([]string, 0, len(domain.ExportColumns))

	id := ""
	if a.ID != nil {
		id = strconv.FormatInt(*a.ID, 10)
	}
	date := ""
	if a.StandardizedDate != nil {
		date = *a.StandardizedDate
	}
	isMultipage, position, mpType, group := "false", "", "", ""
	if a.Multipage != nil {
		isMultipage = "true"
		position = strconv.Itoa(a.Multipage.Position)
		mpType = string(a.Multipage.Type)
		group = a.Multipage.GroupID
	}

	cells = append(cells,
		id,
		a.FileName,
		strconv.Itoa(a.Page+1),
		string(a.Type),
		a.Field,
		a.LineItemNumber,
		Coord(a.Rect.X0),
		Coord(a.Rect.Y0),
		Coord(a.Rect.X1),
		Coord(a.Rect.Y1),
		a.Text,
		date,
		isMultipage,
		position,
		mpType,
		group,
	)
	return cells
}

// Coord formats a coordinate with the fewest digits that round-trip.
func Coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
