package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"claimrecon/pkg/contracts/domain"
)

// Built-in number format 14 is the locale short date.
const shortDateNumFmt = 14

// WorkbookWriter renders a reconciliation result as an xlsx workbook with
// one sheet per tab.
type WorkbookWriter struct {
	logger *slog.Logger
}

// NewWorkbookWriter creates a workbook writer
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{logger: logger}
}

type workbookStyles struct {
	header   int
	payer    int
	medicaid int
	date     int
}

// Write encodes tabs into a workbook and writes it to out.
func (w *WorkbookWriter) Write(out io.Writer, tabs []domain.Tab) error {
	f, err := w.Build(tabs)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteFile saves the workbook to path.
func (w *WorkbookWriter) WriteFile(path string, tabs []domain.Tab) error {
	f, err := w.Build(tabs)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	w.logger.Info("Wrote workbook",
		slog.String("file_path", path),
		slog.Int("sheets", len(tabs)))
	return nil
}

// Build creates the in-memory workbook. The caller must close it.
func (w *WorkbookWriter) Build(tabs []domain.Tab) (*excelize.File, error) {
	if len(tabs) == 0 {
		return nil, fmt.Errorf("no tabs to export")
	}

	f := excelize.NewFile()
	styles, err := newWorkbookStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	for i, tab := range tabs {
		name := sheetName(tab.Title)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to name sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to add sheet %q: %w", name, err)
		}

		if err := writeSheet(f, name, tab, styles); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	var (
		s   workbookStyles
		err error
	)
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	}); err != nil {
		return s, err
	}
	if s.payer, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#FCE4D6"}},
	}); err != nil {
		return s, err
	}
	if s.medicaid, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Italic: true},
	}); err != nil {
		return s, err
	}
	if s.date, err = f.NewStyle(&excelize.Style{NumFmt: shortDateNumFmt}); err != nil {
		return s, err
	}
	return s, nil
}

func writeSheet(f *excelize.File, sheet string, tab domain.Tab, styles workbookStyles) error {
	width := len(tab.Headers)
	if width == 0 {
		return nil
	}

	headers := make([]interface{}, width)
	for i, h := range tab.Headers {
		headers[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	if err := setRowStyle(f, sheet, 1, width, styles.header); err != nil {
		return err
	}

	for i, line := range tab.Rows {
		rowNum := i + 2
		switch l := line.(type) {
		case domain.GroupHeader:
			if err := writeGroupHeader(f, sheet, rowNum, width, l, styles); err != nil {
				return err
			}
		default:
			if err := writeDataRow(f, sheet, rowNum, line.Cells(width), styles); err != nil {
				return err
			}
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeGroupHeader(f *excelize.File, sheet string, rowNum, width int, h domain.GroupHeader, styles workbookStyles) error {
	first, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetCellStr(sheet, first, h.Label); err != nil {
		return err
	}
	style := styles.medicaid
	if h.Group == domain.GroupPayer {
		style = styles.payer
	}
	if width > 1 {
		last, err := excelize.CoordinatesToCellName(width, rowNum)
		if err != nil {
			return err
		}
		if err := f.MergeCell(sheet, first, last); err != nil {
			return err
		}
	}
	return setRowStyle(f, sheet, rowNum, width, style)
}

func writeDataRow(f *excelize.File, sheet string, rowNum int, cells domain.Row, styles workbookStyles) error {
	for col, c := range cells {
		if c.IsEmpty() {
			continue
		}
		name, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return err
		}
		switch c.Kind {
		case domain.CellNumber:
			if domain.IsCodeText(c.Text) {
				err = f.SetCellStr(sheet, name, c.Text)
			} else {
				err = f.SetCellValue(sheet, name, c.Number.InexactFloat64())
			}
		case domain.CellDate:
			if err = f.SetCellValue(sheet, name, c.Time); err == nil {
				err = f.SetCellStyle(sheet, name, name, styles.date)
			}
		default:
			err = f.SetCellStr(sheet, name, c.Text)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func setRowStyle(f *excelize.File, sheet string, rowNum, width, style int) error {
	first, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(width, rowNum)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}
