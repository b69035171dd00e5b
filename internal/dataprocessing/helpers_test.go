package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"claimrecon/pkg/contracts/domain"
)

// textDataset builds a dataset from plain text rows, typing cells the same
// way text sources are typed during extraction.
func textDataset(headers []string, rows ...[]string) *domain.Dataset {
	ds := &domain.Dataset{Headers: headers}
	for _, r := range rows {
		row := make(domain.Row, len(headers))
		for i := range headers {
			if i < len(r) {
				row[i] = inferCell(r[i])
			} else {
				row[i] = domain.EmptyCell()
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds
}

// acceptedRow returns a row in AcceptedColumns order.
func acceptedRow(payer, medicaid, first, last, visitID, date, hcpcs, modifiers, units string) []string {
	return []string{payer, medicaid, first, last, visitID, date, hcpcs, modifiers, units, "", ""}
}

func claimRow(visitID, units string) []string {
	return []string{visitID, "C-" + visitID, units, "Paid", ""}
}

// buildWorkbook writes rows to the first sheet of a new workbook and returns
// the encoded bytes.
func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func texts(row domain.Row) []string {
	return row.Texts()
}
