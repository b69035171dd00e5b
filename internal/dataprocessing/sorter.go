package dataprocessing

import (
	"slices"
	"strings"

	"claimrecon/pkg/contracts/domain"
)

// CompareKind selects how two cells of a sort column are ordered.
type CompareKind int

const (
	// CompareText orders by case-insensitive text.
	CompareText CompareKind = iota
	// CompareNumeric orders numeric-like values by value; non-numeric values
	// sort after numeric ones and among themselves as text.
	CompareNumeric
	// CompareDate orders by instant. Values that cannot be read as dates
	// sort after every date and among themselves as text.
	CompareDate
)

// SortKey is one column of a multi-key sort, ascending.
type SortKey struct {
	Column  int
	Compare CompareKind
}

// CanonicalSortKeys returns Payer Name, Medicaid ID, Visit Date for the given
// headers, skipping any column the headers lack.
func CanonicalSortKeys(headers []string) []SortKey {
	return presentKeys(
		SortKey{Column: indexOf(headers, ColPayerName), Compare: CompareText},
		SortKey{Column: indexOf(headers, ColMedicaidID), Compare: CompareText},
		SortKey{Column: indexOf(headers, ColVisitDate), Compare: CompareDate},
	)
}

func presentKeys(keys ...SortKey) []SortKey {
	out := keys[:0]
	for _, k := range keys {
		if k.Column >= 0 {
			out = append(out, k)
		}
	}
	return out
}

// SortRows returns a stably sorted copy of rows. The first key that differs
// decides the order; rows that tie on every key keep their input order.
func SortRows(rows []domain.Row, keys []SortKey) []domain.Row {
	out := slices.Clone(rows)
	if len(keys) == 0 {
		return out
	}
	slices.SortStableFunc(out, func(a, b domain.Row) int {
		for _, k := range keys {
			if c := CompareCells(cellAt(a, k.Column), cellAt(b, k.Column), k.Compare); c != 0 {
				return c
			}
		}
		return 0
	})
	return out
}

// CompareCells orders two cells under the given comparator kind.
func CompareCells(a, b domain.Cell, kind CompareKind) int {
	switch kind {
	case CompareNumeric:
		da, okA := a.Decimal()
		db, okB := b.Decimal()
		if c, decided := compareAvailability(okA, okB); decided {
			if okA && okB {
				return da.Cmp(db)
			}
			return c
		}
	case CompareDate:
		ta, okA := CellDate(a)
		tb, okB := CellDate(b)
		if c, decided := compareAvailability(okA, okB); decided {
			if okA && okB {
				return ta.Compare(tb)
			}
			return c
		}
	}
	return compareText(a.Text, b.Text)
}

// compareAvailability orders parsed values before unparsed ones. It reports
// decided=false only when neither side parsed.
func compareAvailability(okA, okB bool) (int, bool) {
	switch {
	case okA && okB:
		return 0, true
	case okA:
		return -1, true
	case okB:
		return 1, true
	default:
		return 0, false
	}
}

func compareText(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func cellAt(row domain.Row, idx int) domain.Cell {
	if idx < 0 || idx >= len(row) {
		return domain.EmptyCell()
	}
	return row[idx]
}

func indexOf(headers []string, name string) int {
	return slices.Index(headers, name)
}
