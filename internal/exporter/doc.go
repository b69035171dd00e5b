// Package exporter renders reconciliation tabs to disk or to HTTP responses.
//
// Two formats are supported. xlsx writes every tab as its own worksheet,
// with a frozen header row and group headers merged across the sheet width.
// csv writes a single tab per file and prefixes it with a UTF-8 BOM so that
// Excel detects the encoding.
//
// Example usage:
//
//	exp := exporter.NewExporter(logger)
//	paths, err := exp.ExportToDir("out", result, exporter.FormatXLSX)
package exporter
