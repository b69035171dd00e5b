package testutil

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// AcceptedHeader is the column row of an accepted-visits export
const AcceptedHeader = "Payer Name,Medicaid ID,Member First Name,Member Last Name,Visit ID,Visit Date,HCPCS,Modifiers,Billable Units,Caregiver Name,Invoice Number"

// ClaimHeader is the column row of a claim-search export
const ClaimHeader = "Visit ID,Claim Number,Claim Units,Claim Status,Billed Date"

// AcceptedCSV has one medicaid group of two visits, V1 (2 units) and V2
// (3 units), on the same date and service code.
const AcceptedCSV = AcceptedHeader + `
Medicaid Plan,M1,A,B,V1,2024-01-01,99213,,2,,
Medicaid Plan,M1,A,B,V2,2024-01-01,99213,,3,,
`

// ClaimCSV returns a claim search with a single claim against V2. With
// units below 5 the group in AcceptedCSV is short and both visits are
// flagged for review.
func ClaimCSV(units string) string {
	return fmt.Sprintf("%s\nV2,C-1,%s,Paid,\n", ClaimHeader, units)
}

// XLSX builds an in-memory workbook whose first sheet holds rows.
func XLSX(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}
