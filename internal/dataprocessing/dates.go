package dataprocessing

import (
	"strings"
	"time"

	"claimrecon/pkg/contracts/domain"
)

// dateLayouts are tried in order when a text cell has to be read as a date.
// The mm-dd-yy form is what excelize renders for the built-in short date format.
var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04",
	"01/02/2006 15:04:05",
	"1/2/2006 3:04 PM",
	"1/2/2006 3:04:05 PM",
	"01-02-06",
	"1-2-06",
	"01/02/06",
	"1/2/06",
	"02-Jan-2006",
	"2-Jan-06",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate reads a date from free text using the known export layouts.
func ParseDate(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CellDate returns the instant held by a cell. Date cells answer directly;
// other non-empty cells are parsed from their text.
func CellDate(c domain.Cell) (time.Time, bool) {
	switch c.Kind {
	case domain.CellDate:
		return c.Time, true
	case domain.CellEmpty:
		return time.Time{}, false
	default:
		return ParseDate(c.Text)
	}
}

// CanonicalDate renders a cell as YYYY-MM-DD when it holds a date and falls
// back to the trimmed text otherwise.
func CanonicalDate(c domain.Cell) string {
	if t, ok := CellDate(c); ok {
		return t.Format(time.DateOnly)
	}
	return strings.TrimSpace(c.Text)
}
