package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func deriveFor(accepted, claims [][]string) (*Aggregates, *CrossReference, *Flags) {
	a := textDataset(AcceptedColumns, accepted...)
	c := textDataset(ClaimColumns, claims...)
	sorted := SortRows(a.Rows, CanonicalSortKeys(a.Headers))
	agg := Aggregate(sorted, NewGroupKeyFunc(a.Headers), a.ColumnIndex(ColBillableUnits))
	xref := ResolvePriorClaims(sorted, a.ColumnIndex(ColVisitID), BuildClaimLookup(c), agg)
	return agg, xref, DeriveFlags(agg, xref)
}

func TestDeriveFlags_PossibleIffEqual(t *testing.T) {
	tests := []struct {
		name       string
		claimUnits []string
		want       string
	}{
		{name: "equal sums", claimUnits: []string{"2", "3"}, want: PossibleNo},
		{name: "equal after scale", claimUnits: []string{"2.00", "3.0"}, want: PossibleNo},
		{name: "short", claimUnits: []string{"2", "2"}, want: PossibleYes},
		{name: "over", claimUnits: []string{"4", "3"}, want: PossibleYes},
		{name: "nothing resolved", claimUnits: nil, want: PossibleYes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var claims [][]string
			for i, u := range tt.claimUnits {
				claims = append(claims, claimRow([]string{"V1", "V2"}[i], u))
			}
			agg, xref, flags := deriveFor([][]string{
				acceptedRow("P", "M1", "A", "B", "V1", "2024-01-01", "99213", "", "2"),
				acceptedRow("P", "M1", "A", "B", "V2", "2024-01-01", "99213", "", "3"),
			}, claims)

			key := agg.KeyOf(0)
			g, _ := agg.Group(key)
			assert.Equal(t, g.UnitsTotal.Equal(xref.PriorSum(key)), flags.GroupPossible(key) == PossibleNo)
			assert.Equal(t, tt.want, flags.GroupPossible(key))
			assert.Equal(t, []string{tt.want, tt.want}, flags.Possible())
		})
	}
}

func TestDeriveFlags_GroupValueOnEveryRow(t *testing.T) {
	agg, _, flags := deriveFor([][]string{
		acceptedRow("P", "M1", "A", "B", "V1", "2024-01-01", "99213", "", "2"),
		acceptedRow("P", "M1", "A", "B", "V2", "2024-01-01", "99213", "", "3"),
		acceptedRow("P", "M2", "C", "D", "V3", "2024-01-01", "99213", "", "1"),
		acceptedRow("P", "M2", "C", "D", "V4", "2024-01-01", "99213", "", "1"),
	}, [][]string{
		claimRow("V1", "5"),
		claimRow("V3", "1"),
	})

	possible := flags.Possible()
	confirmed := flags.Confirmed()
	for i := range possible {
		assert.Equal(t, flags.GroupPossible(agg.KeyOf(i)), possible[i])
		assert.Equal(t, ConfirmedFor(possible[i]), confirmed[i])
	}
	assert.Equal(t, []string{PossibleNo, PossibleNo, PossibleYes, PossibleYes}, possible)
	assert.Equal(t, []string{"", "", ConfirmedReview, ConfirmedReview}, confirmed)
	assert.Equal(t, 2, flags.ReviewCount())
}

func TestConfirmedFor(t *testing.T) {
	assert.Equal(t, ConfirmedReview, ConfirmedFor(PossibleYes))
	assert.Equal(t, ConfirmedReview, ConfirmedFor("maybe"))
	assert.Equal(t, "", ConfirmedFor(PossibleNo))
	assert.Equal(t, "", ConfirmedFor(""))
}
