package dataprocessing

import (
	"strings"

	"github.com/shopspring/decimal"

	"claimrecon/pkg/contracts/domain"
)

// groupKeySeparator joins group key parts. The ASCII unit separator does not
// occur in exported spreadsheet text.
const groupKeySeparator = "\x1f"

// GroupKeyFunc derives the group key of a row.
type GroupKeyFunc func(domain.Row) string

// NewGroupKeyFunc builds the billing-unit key extractor for the given headers:
// Medicaid ID, member first and last name, HCPCS, modifiers and the visit date
// normalised to YYYY-MM-DD.
func NewGroupKeyFunc(headers []string) GroupKeyFunc {
	idx := make([]int, len(GroupKeyColumns))
	for i, col := range GroupKeyColumns {
		idx[i] = indexOf(headers, col)
	}
	dateIdx := indexOf(headers, ColVisitDate)

	return func(row domain.Row) string {
		parts := make([]string, len(idx))
		for i, p := range idx {
			c := cellAt(row, p)
			if p == dateIdx {
				parts[i] = CanonicalDate(c)
			} else {
				parts[i] = c.Text
			}
		}
		return strings.Join(parts, groupKeySeparator)
	}
}

// GroupAggregate holds the totals of one group.
type GroupAggregate struct {
	Key        string
	UnitsTotal decimal.Decimal
	LastIndex  int
	Size       int
}

// Aggregates is the read-only result of one grouping pass.
type Aggregates struct {
	groups  map[string]GroupAggregate
	order   []string
	rowKeys []string
}

// Aggregate walks rows once, summing the units column per group key and
// remembering the index of the last row seen for each key. Rows must already
// be in canonical order: a key that reappears after another key has
// intervened is still treated as one group, so only its final occurrence
// is marked last and the total spans both blocks.
func Aggregate(rows []domain.Row, key GroupKeyFunc, unitsCol int) *Aggregates {
	a := &Aggregates{
		groups:  make(map[string]GroupAggregate),
		rowKeys: make([]string, len(rows)),
	}
	for i, row := range rows {
		k := key(row)
		a.rowKeys[i] = k

		g, seen := a.groups[k]
		if !seen {
			g = GroupAggregate{Key: k, UnitsTotal: decimal.Zero}
			a.order = append(a.order, k)
		}
		if units, ok := cellAt(row, unitsCol).Decimal(); ok {
			g.UnitsTotal = g.UnitsTotal.Add(units)
		}
		g.LastIndex = i
		g.Size++
		a.groups[k] = g
	}
	return a
}

// Len returns the number of distinct groups
func (a *Aggregates) Len() int {
	return len(a.order)
}

// Group returns the aggregate for key
func (a *Aggregates) Group(key string) (GroupAggregate, bool) {
	g, ok := a.groups[key]
	return g, ok
}

// KeyOf returns the group key of row i
func (a *Aggregates) KeyOf(i int) string {
	return a.rowKeys[i]
}

// IsLast reports whether row i is the last recorded row of its group.
func (a *Aggregates) IsLast(i int) bool {
	return a.groups[a.rowKeys[i]].LastIndex == i
}

// TotalCells returns the Billable Units Total column: the group total on the
// last row of each group and an empty cell everywhere else.
func (a *Aggregates) TotalCells() []domain.Cell {
	out := make([]domain.Cell, len(a.rowKeys))
	for i, k := range a.rowKeys {
		if a.IsLast(i) {
			out[i] = domain.NumberCell(a.groups[k].UnitsTotal, "")
		} else {
			out[i] = domain.EmptyCell()
		}
	}
	return out
}
