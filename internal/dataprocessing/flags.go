package dataprocessing

// Flags holds the derived Possible and Confirmed columns.
type Flags struct {
	byGroup   map[string]string
	possible  []string
	confirmed []string
}

// DeriveFlags compares each group's billable units total with its prior
// claim sum. Equal sums mark the group "NO", anything else "YES"; the group
// value is copied to every row before Confirmed is derived row by row.
func DeriveFlags(agg *Aggregates, xref *CrossReference) *Flags {
	f := &Flags{
		byGroup:   make(map[string]string, agg.Len()),
		possible:  make([]string, len(agg.rowKeys)),
		confirmed: make([]string, len(agg.rowKeys)),
	}

	for _, key := range agg.order {
		g := agg.groups[key]
		if g.UnitsTotal.Equal(xref.PriorSum(key)) {
			f.byGroup[key] = PossibleNo
		} else {
			f.byGroup[key] = PossibleYes
		}
	}

	for i, key := range agg.rowKeys {
		f.possible[i] = f.byGroup[key]
	}
	for i, p := range f.possible {
		f.confirmed[i] = ConfirmedFor(p)
	}
	return f
}

// ConfirmedFor returns "Review" for any non-empty Possible other than "NO".
func ConfirmedFor(possible string) string {
	if possible != "" && possible != PossibleNo {
		return ConfirmedReview
	}
	return ""
}

// GroupPossible returns the flag of a group
func (f *Flags) GroupPossible(key string) string {
	return f.byGroup[key]
}

// Possible returns the per-row Possible column
func (f *Flags) Possible() []string {
	return append([]string(nil), f.possible...)
}

// Confirmed returns the per-row Confirmed column
func (f *Flags) Confirmed() []string {
	return append([]string(nil), f.confirmed...)
}

// ReviewCount returns how many rows are marked for review
func (f *Flags) ReviewCount() int {
	n := 0
	for _, c := range f.confirmed {
		if c == ConfirmedReview {
			n++
		}
	}
	return n
}
