package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CellKind identifies which value a Cell carries.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
	CellDate
)

// String returns the lower-case name of the kind
func (k CellKind) String() string {
	switch k {
	case CellString:
		return "string"
	case CellNumber:
		return "number"
	case CellDate:
		return "date"
	default:
		return "empty"
	}
}

// Cell is a single spreadsheet value. Text always holds the value as it was
// displayed in the source file; Number and Time are set for numeric and date
// cells respectively.
type Cell struct {
	Kind   CellKind
	Text   string
	Number decimal.Decimal
	Time   time.Time
}

// EmptyCell returns the empty-string sentinel used for absent values.
func EmptyCell() Cell {
	return Cell{Kind: CellEmpty}
}

// StringCell returns a text cell. Blank text yields an empty cell.
func StringCell(text string) Cell {
	if strings.TrimSpace(text) == "" {
		return EmptyCell()
	}
	return Cell{Kind: CellString, Text: text}
}

// NumberCell returns a numeric cell. If text is blank the canonical decimal
// representation is used as display text.
func NumberCell(d decimal.Decimal, text string) Cell {
	if text == "" {
		text = d.String()
	}
	return Cell{Kind: CellNumber, Text: text, Number: d}
}

// DateCell returns a date cell. If text is blank the ISO date is used.
func DateCell(t time.Time, text string) Cell {
	if text == "" {
		text = t.Format(time.DateOnly)
	}
	return Cell{Kind: CellDate, Text: text, Time: t}
}

// IsEmpty reports whether the cell holds no value
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// String returns the display text of the cell
func (c Cell) String() string {
	return c.Text
}

// Decimal returns the numeric value of the cell. String cells are parsed
// after removing thousands separators; empty and non-numeric cells report false.
func (c Cell) Decimal() (decimal.Decimal, bool) {
	switch c.Kind {
	case CellNumber:
		return c.Number, true
	case CellString:
		d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(c.Text), ",", ""))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

// maxExactDigits is the most significant decimal digits a float64 holds.
const maxExactDigits = 15

// IsCodeText reports whether numeric-looking text is a code whose digits must
// be kept verbatim: a zero-padded integer part such as "00123", or more digits
// than a float64 carries exactly.
func IsCodeText(text string) bool {
	s := strings.TrimLeft(strings.TrimSpace(text), "+-")
	intPart, _, _ := strings.Cut(s, ".")
	if len(intPart) > 1 && intPart[0] == '0' {
		return true
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits > maxExactDigits
}

// MarshalJSON renders numbers as JSON numbers and everything else as text.
// Numbers displayed as codes keep their display text.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellNumber:
		if !IsCodeText(c.Text) {
			return json.Marshal(json.Number(c.Number.String()))
		}
	case CellEmpty:
		return []byte(`""`), nil
	}
	return json.Marshal(c.Text)
}
