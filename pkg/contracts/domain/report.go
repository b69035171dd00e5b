package domain

import (
	"encoding/json"
	"time"
)

// LineKind distinguishes data rows from group markers in a tab.
type LineKind string

const (
	LineKindData        LineKind = "data"
	LineKindGroupHeader LineKind = "group_header"
)

// GroupKind is the level of a group header in the investigation report.
type GroupKind string

const (
	GroupPayer    GroupKind = "payer"
	GroupMedicaid GroupKind = "medicaid"
)

// ReportLine is either a DataRow or a GroupHeader.
type ReportLine interface {
	Kind() LineKind
	// Cells returns the row as it should be laid out in a grid of the given width
	Cells(width int) Row
}

// DataRow carries a full record.
type DataRow struct {
	Values Row
}

// Kind implements ReportLine
func (DataRow) Kind() LineKind { return LineKindData }

// Cells implements ReportLine. Short rows are padded with empty cells.
func (d DataRow) Cells(width int) Row {
	if len(d.Values) >= width {
		return d.Values
	}
	out := make(Row, width)
	copy(out, d.Values)
	for i := len(d.Values); i < width; i++ {
		out[i] = EmptyCell()
	}
	return out
}

// MarshalJSON implements json.Marshaler
func (d DataRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  LineKind `json:"type"`
		Cells Row      `json:"cells"`
	}{LineKindData, d.Values})
}

// GroupHeader marks the start of a payer or medicaid block. It carries no
// data; only its label is shown in the first column.
type GroupHeader struct {
	Group GroupKind
	Label string
}

// Kind implements ReportLine
func (GroupHeader) Kind() LineKind { return LineKindGroupHeader }

// Cells implements ReportLine
func (g GroupHeader) Cells(width int) Row {
	if width < 1 {
		width = 1
	}
	out := make(Row, width)
	for i := range out {
		out[i] = EmptyCell()
	}
	out[0] = StringCell(g.Label)
	return out
}

// MarshalJSON implements json.Marshaler
func (g GroupHeader) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  LineKind  `json:"type"`
		Group GroupKind `json:"group"`
		Label string    `json:"label"`
	}{LineKindGroupHeader, g.Group, g.Label})
}

// Tab identifiers and titles shown to the user
const (
	TabAccepted      = "accepted"
	TabClaim         = "claim"
	TabInvestigation = "investigation"

	TitleAccepted      = "Accepted_Visits"
	TitleClaim         = "Claim_Search"
	TitleInvestigation = "CLAIMS FOR INVESTIGATION"
)

// Tab is one named table handed to the renderer.
type Tab struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Headers []string     `json:"headers"`
	Rows    []ReportLine `json:"rows"`
}

// DataRows returns only the data rows of the tab
func (t *Tab) DataRows() []DataRow {
	var out []DataRow
	for _, line := range t.Rows {
		if d, ok := line.(DataRow); ok {
			out = append(out, d)
		}
	}
	return out
}

// Result is the output of one reconciliation run.
type Result struct {
	RunID   string     `json:"run_id"`
	Tabs    []Tab      `json:"tabs"`
	Summary RunSummary `json:"summary"`
}

// Tab returns the tab with the given id or nil
func (r *Result) Tab(id string) *Tab {
	for i := range r.Tabs {
		if r.Tabs[i].ID == id {
			return &r.Tabs[i]
		}
	}
	return nil
}

// RunSummary reports counts gathered while reconciling.
type RunSummary struct {
	AcceptedRows      int           `json:"accepted_rows"`
	ClaimRows         int           `json:"claim_rows"`
	Groups            int           `json:"groups"`
	ResolvedVisits    int           `json:"resolved_visits"`
	ReviewRows        int           `json:"review_rows"`
	InvestigationRows int           `json:"investigation_rows"`
	GroupHeaders      int           `json:"group_headers"`
	ProcessingTime    time.Duration `json:"processing_time"`
}
