package exporter

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"claimrecon/pkg/contracts/domain"
)

// Exporter writes reconciliation results to files or buffers.
type Exporter struct {
	csv      *CSVWriter
	workbook *WorkbookWriter
	logger   *slog.Logger
}

// NewExporter creates an exporter with CSV and workbook writers.
func NewExporter(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		csv:      NewCSVWriter(logger),
		workbook: NewWorkbookWriter(logger),
		logger:   logger,
	}
}

// Render encodes tabs in the given format. CSV holds exactly one tab.
func (e *Exporter) Render(tabs []domain.Tab, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatCSV:
		if len(tabs) != 1 {
			return nil, fmt.Errorf("csv export needs exactly one tab, got %d", len(tabs))
		}
		if err := e.csv.WriteTab(&buf, tabs[0], WriteOptions{BOMPrefix: true}); err != nil {
			return nil, err
		}
	case FormatXLSX:
		if err := e.workbook.Write(&buf, tabs); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	return buf.Bytes(), nil
}

// ExportToDir writes the result under dir and returns the created paths.
// xlsx produces one workbook; csv produces one file per tab.
func (e *Exporter) ExportToDir(dir string, result *domain.Result, format Format) ([]string, error) {
	if result == nil || len(result.Tabs) == 0 {
		return nil, fmt.Errorf("nothing to export")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	switch format {
	case FormatXLSX:
		path := filepath.Join(dir, FileName(result.RunID, "", format))
		if err := e.workbook.WriteFile(path, result.Tabs); err != nil {
			return nil, err
		}
		return []string{path}, nil
	case FormatCSV:
		paths := make([]string, 0, len(result.Tabs))
		for _, tab := range result.Tabs {
			path := filepath.Join(dir, FileName(result.RunID, tab.ID, format))
			if err := e.csv.WriteTabFile(path, tab); err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
		return paths, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// FileName builds the download name for a run, optionally scoped to one tab.
func FileName(runID, tabID string, format Format) string {
	parts := []string{"reconciliation"}
	if runID != "" {
		parts = append(parts, shortID(runID))
	}
	if tabID != "" {
		parts = append(parts, tabID)
	}
	return strings.Join(parts, "_") + format.Extension()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
