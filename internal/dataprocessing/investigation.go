package dataprocessing

import (
	"strings"

	"claimrecon/pkg/contracts/domain"
)

// AssembleInvestigation builds the investigation tab from the annotated
// accepted visits. Rows flagged for review with non-zero billable units are
// kept, padded with the blank reviewer columns, ordered by payer then
// Medicaid ID, and preceded by a payer header at each new payer and a
// medicaid header at each new member within a payer.
func AssembleInvestigation(accepted *domain.Dataset) domain.Tab {
	headers := concatColumns(accepted.Headers, InvestigationColumns)
	tab := domain.Tab{
		ID:      domain.TabInvestigation,
		Title:   domain.TitleInvestigation,
		Headers: headers,
		Rows:    []domain.ReportLine{},
	}

	confirmedCol := accepted.ColumnIndex(ColConfirmed)
	unitsCol := accepted.ColumnIndex(ColBillableUnits)
	payerCol := accepted.ColumnIndex(ColPayerName)
	medicaidCol := accepted.ColumnIndex(ColMedicaidID)

	var flagged []domain.Row
	for _, row := range accepted.Rows {
		if cellAt(row, confirmedCol).Text != ConfirmedReview {
			continue
		}
		units, ok := cellAt(row, unitsCol).Decimal()
		if !ok || units.IsZero() {
			continue
		}
		out := make(domain.Row, 0, len(headers))
		out = append(out, row...)
		for range InvestigationColumns {
			out = append(out, domain.EmptyCell())
		}
		flagged = append(flagged, out)
	}

	flagged = SortRows(flagged, presentKeys(
		SortKey{Column: payerCol, Compare: CompareText},
		SortKey{Column: medicaidCol, Compare: CompareText},
	))

	var (
		started         bool
		currentPayer    string
		currentMedicaid string
		medicaidOpen    bool
	)
	for _, row := range flagged {
		payer := cellAt(row, payerCol).Text
		medicaid := cellAt(row, medicaidCol).Text

		if !started || !strings.EqualFold(payer, currentPayer) {
			tab.Rows = append(tab.Rows, domain.GroupHeader{Group: domain.GroupPayer, Label: payer})
			currentPayer = payer
			medicaidOpen = false
			started = true
		}
		if !medicaidOpen || !strings.EqualFold(medicaid, currentMedicaid) {
			tab.Rows = append(tab.Rows, domain.GroupHeader{Group: domain.GroupMedicaid, Label: medicaid})
			currentMedicaid = medicaid
			medicaidOpen = true
		}
		tab.Rows = append(tab.Rows, domain.DataRow{Values: row})
	}
	return tab
}
