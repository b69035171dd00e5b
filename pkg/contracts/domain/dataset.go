package domain

// Row is one record of a dataset, aligned positionally with its headers.
type Row []Cell

// Texts returns the display text of every cell
func (r Row) Texts() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.Text
	}
	return out
}

// Dataset is a tabular extract: ordered headers and rows of exactly
// len(Headers) cells each.
type Dataset struct {
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// ColumnIndex returns the position of the named header or -1.
func (d *Dataset) ColumnIndex(name string) int {
	for i, h := range d.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Len returns the number of data rows
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}
