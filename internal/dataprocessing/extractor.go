package dataprocessing

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"claimrecon/pkg/contracts/domain"
)

// Format is the container format of an uploaded spreadsheet.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
)

var (
	zipSignature = []byte{0x50, 0x4B, 0x03, 0x04}
	oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	utf8BOM      = []byte{0xEF, 0xBB, 0xBF}
)

// DetectFormat picks the reader for an upload from its extension, falling
// back to the leading bytes when the extension is unknown.
func DetectFormat(filename string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".xls":
		return FormatXLS
	case ".csv", ".txt":
		return FormatCSV
	}
	switch {
	case bytes.HasPrefix(data, zipSignature):
		return FormatXLSX
	case bytes.HasPrefix(data, oleSignature):
		return FormatXLS
	default:
		return FormatCSV
	}
}

// Source is one uploaded file.
type Source struct {
	Name string
	Data []byte
}

// Extractor turns raw spreadsheet bytes into a projected Dataset.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates a new extractor
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger.With(slog.String("component", "extractor"))}
}

// Extract reads the first sheet of src and projects it onto columns. An
// empty column list keeps every column in file order. Requested columns that
// the file lacks come back as empty cells in every row.
func (e *Extractor) Extract(ctx context.Context, src Source, columns []string) (*domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(src.Data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrMalformedInput, src.Name)
	}

	format := DetectFormat(src.Name, src.Data)
	grid, err := readGrid(format, src.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src.Name, err)
	}

	ds := Project(grid, columns)

	e.logger.DebugContext(ctx, "spreadsheet extracted",
		slog.String("file", src.Name),
		slog.String("format", string(format)),
		slog.Int("columns", len(ds.Headers)),
		slog.Int("rows", len(ds.Rows)))

	return ds, nil
}

type gridReader func(data []byte) ([][]domain.Cell, error)

var formatReaders = map[Format]gridReader{
	FormatXLSX: readXLSX,
	FormatXLS:  readXLS,
	FormatCSV:  readCSV,
}

// readGrid runs the reader for format. A reader that panics on damaged
// bytes is reported as malformed input.
func readGrid(format Format, data []byte) (grid [][]domain.Cell, err error) {
	defer func() {
		if r := recover(); r != nil {
			grid, err = nil, fmt.Errorf("%w: %s reader failed: %v", ErrMalformedInput, format, r)
		}
	}()

	read, ok := formatReaders[format]
	if !ok {
		read = readCSV
	}
	return read(data)
}

// Project builds a Dataset from a raw grid whose first row holds the headers.
// Header matching is exact and case-sensitive; when a requested header is
// duplicated in the file its first occurrence wins. With no requested
// columns every file column is kept in place, duplicates included.
func Project(grid [][]domain.Cell, columns []string) *domain.Dataset {
	if len(grid) == 0 {
		return &domain.Dataset{Headers: append([]string(nil), columns...)}
	}

	fileHeaders := make([]string, len(grid[0]))
	for i, c := range grid[0] {
		fileHeaders[i] = c.Text
	}

	var idx []int
	if len(columns) == 0 {
		columns = fileHeaders
		idx = make([]int, len(columns))
		for i := range idx {
			idx[i] = i
		}
	} else {
		position := make(map[string]int, len(fileHeaders))
		for i, h := range fileHeaders {
			if _, seen := position[h]; !seen {
				position[h] = i
			}
		}
		idx = make([]int, len(columns))
		for i, col := range columns {
			if p, ok := position[col]; ok {
				idx[i] = p
			} else {
				idx[i] = -1
			}
		}
	}

	ds := &domain.Dataset{
		Headers: append([]string(nil), columns...),
		Rows:    make([]domain.Row, 0, len(grid)-1),
	}
	for _, raw := range grid[1:] {
		row := make(domain.Row, len(columns))
		for i, p := range idx {
			if p >= 0 && p < len(raw) {
				row[i] = raw[p]
			} else {
				row[i] = domain.EmptyCell()
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds
}

// readXLSX reads the first sheet with both formatted and raw values so that
// date-formatted serial numbers can be recognised as dates.
func readXLSX(data []byte) ([][]domain.Cell, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformedInput)
	}
	sheet := sheets[0]

	formatted, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if len(formatted) == 0 {
		return nil, fmt.Errorf("%w: sheet %q has no rows", ErrMalformedInput, sheet)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	grid := make([][]domain.Cell, len(formatted))
	for i, row := range formatted {
		cells := make([]domain.Cell, len(row))
		for j, text := range row {
			rawText := text
			if i < len(raw) && j < len(raw[i]) {
				rawText = raw[i][j]
			}
			cells[j] = classifyXLSXCell(text, rawText, date1904)
			if cells[j].Kind == domain.CellNumber && storedAsText(f, sheet, j+1, i+1) {
				cells[j] = domain.StringCell(text)
			}
		}
		grid[i] = cells
	}
	return grid, nil
}

// storedAsText reports whether the cell at (col, row) is a string cell in
// the workbook, whatever its text looks like.
func storedAsText(f *excelize.File, sheet string, col, row int) bool {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return false
	}
	typ, err := f.GetCellType(sheet, name)
	if err != nil {
		return false
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return true
	default:
		return false
	}
}

func classifyXLSXCell(text, raw string, date1904 bool) domain.Cell {
	if strings.TrimSpace(text) == "" {
		return domain.EmptyCell()
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || domain.IsCodeText(raw) {
		return domain.StringCell(text)
	}
	if text != raw {
		if _, looksLikeDate := ParseDate(text); looksLikeDate {
			serial, _ := d.Float64()
			if t, err := excelize.ExcelDateToTime(serial, date1904); err == nil {
				return domain.DateCell(t, text)
			}
		}
	}
	return domain.NumberCell(d, text)
}

// readXLS reads a legacy BIFF workbook. The reader only opens files by
// path, so the upload is spooled to a temporary file first.
func readXLS(data []byte) ([][]domain.Cell, error) {
	tmp, err := os.CreateTemp("", "claimrecon-*.xls")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("%w: spooling workbook: %v", ErrMalformedInput, err)
	}

	book, err := xls.OpenFile(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if book.GetNumberSheets() == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformedInput)
	}
	sheet, err := book.GetSheet(0)
	if err != nil || sheet == nil {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformedInput)
	}

	var grid [][]domain.Cell
	for _, row := range sheet.GetRows() {
		cols := row.GetCols()
		cells := make([]domain.Cell, len(cols))
		for j, col := range cols {
			if col == nil {
				cells[j] = domain.EmptyCell()
				continue
			}
			cells[j] = inferCell(col.GetString())
		}
		grid = append(grid, cells)
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("%w: first sheet has no rows", ErrMalformedInput)
	}
	return grid, nil
}

func readCSV(data []byte) ([][]domain.Cell, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: file has no rows", ErrMalformedInput)
	}

	grid := make([][]domain.Cell, len(records))
	for i, rec := range records {
		cells := make([]domain.Cell, len(rec))
		for j, text := range rec {
			if i == 0 {
				// headers are matched verbatim
				cells[j] = domain.Cell{Kind: domain.CellString, Text: text}
				continue
			}
			cells[j] = inferCell(text)
		}
		grid[i] = cells
	}
	return grid, nil
}

// inferCell types a value from a text-only source.
func inferCell(text string) domain.Cell {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return domain.EmptyCell()
	}
	if d, err := decimal.NewFromString(trimmed); err == nil {
		if domain.IsCodeText(trimmed) {
			return domain.StringCell(text)
		}
		return domain.NumberCell(d, text)
	}
	if t, ok := ParseDate(trimmed); ok {
		return domain.DateCell(t, text)
	}
	return domain.StringCell(text)
}
