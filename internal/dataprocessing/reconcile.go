package dataprocessing

import (
	"claimrecon/pkg/contracts/domain"
)

// Reconciliation is the output of the sequential stages for one run.
type Reconciliation struct {
	Accepted      domain.Tab
	Claim         domain.Tab
	Investigation domain.Tab
	Summary       domain.RunSummary
}

// Tabs returns the tabs in display order
func (r *Reconciliation) Tabs() []domain.Tab {
	return []domain.Tab{r.Accepted, r.Claim, r.Investigation}
}

// Reconcile runs sort, grouping, cross-reference, flag derivation and report
// assembly over two extracted datasets. Inputs are not modified.
func Reconcile(accepted, claims *domain.Dataset) *Reconciliation {
	sorted := SortRows(accepted.Rows, CanonicalSortKeys(accepted.Headers))

	agg := Aggregate(sorted, NewGroupKeyFunc(accepted.Headers), accepted.ColumnIndex(ColBillableUnits))
	lookup := BuildClaimLookup(claims)
	xref := ResolvePriorClaims(sorted, accepted.ColumnIndex(ColVisitID), lookup, agg)
	flags := DeriveFlags(agg, xref)

	annotated := Annotate(accepted.Headers, sorted, agg, xref, flags)
	investigation := AssembleInvestigation(annotated)

	r := &Reconciliation{
		Accepted:      datasetTab(domain.TabAccepted, domain.TitleAccepted, annotated),
		Claim:         datasetTab(domain.TabClaim, domain.TitleClaim, claims),
		Investigation: investigation,
		Summary: domain.RunSummary{
			AcceptedRows:   len(sorted),
			ClaimRows:      claims.Len(),
			Groups:         agg.Len(),
			ResolvedVisits: xref.Resolved(),
			ReviewRows:     flags.ReviewCount(),
		},
	}
	for _, line := range investigation.Rows {
		if line.Kind() == domain.LineKindGroupHeader {
			r.Summary.GroupHeaders++
		} else {
			r.Summary.InvestigationRows++
		}
	}
	return r
}

// Annotate returns new rows carrying the reconciliation columns after the
// original projection: total, prior claim, possible, confirmed and a blank
// Other column.
func Annotate(headers []string, sorted []domain.Row, agg *Aggregates, xref *CrossReference, flags *Flags) *domain.Dataset {
	totals := agg.TotalCells()
	prior := xref.PriorClaimCells()
	possible := flags.Possible()
	confirmed := flags.Confirmed()

	out := &domain.Dataset{
		Headers: concatColumns(headers, AnnotationColumns),
		Rows:    make([]domain.Row, len(sorted)),
	}
	for i, row := range sorted {
		r := make(domain.Row, 0, len(out.Headers))
		r = append(r, row...)
		r = append(r,
			totals[i],
			prior[i],
			domain.StringCell(possible[i]),
			domain.StringCell(confirmed[i]),
			domain.EmptyCell(),
		)
		out.Rows[i] = r
	}
	return out
}

func datasetTab(id, title string, ds *domain.Dataset) domain.Tab {
	tab := domain.Tab{ID: id, Title: title, Rows: []domain.ReportLine{}}
	if ds == nil {
		return tab
	}
	tab.Headers = append([]string(nil), ds.Headers...)
	for _, row := range ds.Rows {
		tab.Rows = append(tab.Rows, domain.DataRow{Values: row})
	}
	return tab
}
