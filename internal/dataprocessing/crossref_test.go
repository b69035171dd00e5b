package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildClaimLookup_LastWriteWins(t *testing.T) {
	claims := textDataset(ClaimColumns,
		claimRow("V1", "2"),
		claimRow("V2", "4"),
		claimRow("V1", "9"),
		claimRow("", "100"),
	)

	lookup := BuildClaimLookup(claims)

	assert.Equal(t, 2, lookup.Len())
	units, ok := lookup.Lookup("V1")
	require.True(t, ok)
	assert.Equal(t, "9", units.Text)
	_, ok = lookup.Lookup("")
	assert.False(t, ok)
}

func TestBuildClaimLookup_NilDataset(t *testing.T) {
	assert.Equal(t, 0, BuildClaimLookup(nil).Len())
}

func TestResolvePriorClaims(t *testing.T) {
	accepted := textDataset(AcceptedColumns,
		acceptedRow("P", "M1", "A", "B", "V1", "2024-01-01", "99213", "", "2"),
		acceptedRow("P", "M1", "A", "B", "V2", "2024-01-01", "99213", "", "3"),
		acceptedRow("P", "M1", "A", "B", "", "2024-01-01", "99213", "", "1"),
		acceptedRow("P", "M2", "C", "D", "V9", "2024-01-01", "99213", "", "1"),
	)
	claims := textDataset(ClaimColumns,
		claimRow("V1", "2"),
		claimRow(" V2 ", "1.5"),
		claimRow("V4", "8"),
	)

	agg := Aggregate(accepted.Rows, NewGroupKeyFunc(accepted.Headers), accepted.ColumnIndex(ColBillableUnits))
	xref := ResolvePriorClaims(accepted.Rows, accepted.ColumnIndex(ColVisitID), BuildClaimLookup(claims), agg)

	prior := xref.PriorClaimCells()
	assert.Equal(t, "2", prior[0].Text)
	assert.Equal(t, "1.5", prior[1].Text)
	assert.True(t, prior[2].IsEmpty(), "blank visit id never resolves")
	assert.True(t, prior[3].IsEmpty(), "unresolved visit id is empty")
	assert.Equal(t, 2, xref.Resolved())

	assert.Equal(t, "3.5", xref.PriorSum(agg.KeyOf(0)).String())
	assert.True(t, xref.PriorSum(agg.KeyOf(3)).IsZero())
}
