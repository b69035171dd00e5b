// Package dataprocessing turns two spreadsheet exports, accepted visits and
// claim search results, into the three tabs of a reconciliation report.
//
// # Pipeline
//
// Reconcile runs the stages in a fixed order over already extracted data:
//
//  1. Sort the accepted visits by payer, medicaid id and visit date
//     (SortRows with CanonicalSortKeys)
//  2. Sum billable units per group of member, service code, modifiers and
//     visit date (Aggregate over GroupKeyColumns)
//  3. Look up each visit id in the claim search and sum the claimed units
//     per group (BuildClaimLookup, ResolvePriorClaims)
//  4. Mark groups whose claimed units differ from the billable total
//     (DeriveFlags)
//  5. Append the annotation columns to every visit row (Annotate)
//  6. Build the investigation tab of flagged rows with payer and medicaid
//     group headers (AssembleInvestigation)
//
// Every stage is a pure function of its inputs. Rows keep their sorted order
// from stage 1 onward, so the last row of each group is where group totals
// are reported.
//
// # Extraction
//
// Extractor reads .xlsx (excelize), legacy .xls (xlsReader) and .csv
// uploads into a domain.Dataset projected onto a fixed column list. Missing
// columns come back empty rather than failing; unreadable input wraps
// ErrMalformedInput.
//
//	ex := dataprocessing.NewExtractor(logger)
//	accepted, err := ex.Extract(ctx, src, dataprocessing.AcceptedColumns)
//	...
//	r := dataprocessing.Reconcile(accepted, claims)
//	tabs := r.Tabs()
//
// Unit arithmetic uses shopspring/decimal so fractional billable units sum
// exactly.
package dataprocessing
