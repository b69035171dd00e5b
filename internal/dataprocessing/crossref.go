package dataprocessing

import (
	"strings"

	"github.com/shopspring/decimal"

	"claimrecon/pkg/contracts/domain"
)

// ClaimLookup maps Visit ID to the Claim Units of the claim search export.
type ClaimLookup struct {
	units map[string]domain.Cell
}

// BuildClaimLookup indexes the claim dataset by Visit ID. A repeated Visit ID
// keeps the value of its last row. Rows without a Visit ID are skipped.
func BuildClaimLookup(claims *domain.Dataset) *ClaimLookup {
	l := &ClaimLookup{units: make(map[string]domain.Cell)}
	if claims == nil {
		return l
	}
	visitCol := claims.ColumnIndex(ColVisitID)
	unitsCol := claims.ColumnIndex(ColClaimUnits)
	for _, row := range claims.Rows {
		id := visitKey(cellAt(row, visitCol))
		if id == "" {
			continue
		}
		l.units[id] = cellAt(row, unitsCol)
	}
	return l
}

// Lookup returns the Claim Units recorded for a Visit ID
func (l *ClaimLookup) Lookup(visitID string) (domain.Cell, bool) {
	c, ok := l.units[visitID]
	return c, ok
}

// Len returns the number of distinct Visit IDs
func (l *ClaimLookup) Len() int {
	return len(l.units)
}

func visitKey(c domain.Cell) string {
	return strings.TrimSpace(c.Text)
}

// CrossReference is the outcome of resolving every primary row against the
// claim lookup.
type CrossReference struct {
	priorClaims []domain.Cell
	priorSums   map[string]decimal.Decimal
	resolved    int
}

// ResolvePriorClaims looks up each row's Visit ID. Matched rows get the claim
// units as their Prior Claim and add them to their group's prior-claim sum;
// unmatched rows get an empty Prior Claim and contribute nothing.
func ResolvePriorClaims(rows []domain.Row, visitCol int, lookup *ClaimLookup, agg *Aggregates) *CrossReference {
	x := &CrossReference{
		priorClaims: make([]domain.Cell, len(rows)),
		priorSums:   make(map[string]decimal.Decimal),
	}
	for i, row := range rows {
		id := visitKey(cellAt(row, visitCol))
		units, ok := domain.Cell{}, false
		if id != "" {
			units, ok = lookup.Lookup(id)
		}
		if !ok {
			x.priorClaims[i] = domain.EmptyCell()
			continue
		}

		x.priorClaims[i] = units
		x.resolved++
		if d, numeric := units.Decimal(); numeric {
			key := agg.KeyOf(i)
			x.priorSums[key] = x.priorSums[key].Add(d)
		}
	}
	return x
}

// PriorClaimCells returns the Prior Claim column
func (x *CrossReference) PriorClaimCells() []domain.Cell {
	return append([]domain.Cell(nil), x.priorClaims...)
}

// PriorSum returns the summed claim units for a group; zero when nothing resolved.
func (x *CrossReference) PriorSum(key string) decimal.Decimal {
	return x.priorSums[key]
}

// Resolved returns how many rows matched a claim
func (x *CrossReference) Resolved() int {
	return x.resolved
}
