package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"claimrecon/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter renders one tab as CSV
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteTab writes the tab headers followed by every line. Group headers
// become a row holding only their label in the first column.
func (w *CSVWriter) WriteTab(out io.Writer, tab domain.Tab, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)
	width := len(tab.Headers)

	if width > 0 {
		if err := writer.Write(tab.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, line := range tab.Rows {
		if err := writer.Write(lineRecord(line, width)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteTabFile writes the tab to filePath, creating parent directories.
func (w *CSVWriter) WriteTabFile(filePath string, tab domain.Tab) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := w.WriteTab(file, tab, WriteOptions{BOMPrefix: true}); err != nil {
		return err
	}

	w.logger.Info("Wrote CSV file",
		slog.String("file_path", filePath),
		slog.String("tab", tab.ID),
		slog.Int("record_count", len(tab.Rows)))
	return file.Close()
}
