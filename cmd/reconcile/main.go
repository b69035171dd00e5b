// Command reconcile runs one reconciliation from the command line and writes
// the result tabs to an output directory.
//
//	reconcile -accepted visits.xlsx -claim claims.xls -out reports -format xlsx
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"claimrecon/internal/config"
	"claimrecon/internal/dataprocessing"
	"claimrecon/internal/exporter"
	"claimrecon/internal/infrastructure"
	"claimrecon/internal/services"
	"claimrecon/internal/validation"
)

type options struct {
	accepted string
	claim    string
	outDir   string
	format   exporter.Format
	verbose  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "reconcile: %v\n", err)
		return 1
	}

	// stdout carries the written paths, so logs go to stderr
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelInfo
	}
	logger := infrastructure.NewJSONLogger(stderr, &slog.HandlerOptions{Level: level})

	paths, err := reconcileFiles(ctx, cfg, opts, logger)
	if err != nil {
		logger.Error("Reconciliation failed", slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "reconcile: %v\n", err)
		return 1
	}

	for _, p := range paths {
		fmt.Fprintln(stdout, p)
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("reconcile", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	var format string
	fs.StringVar(&opts.accepted, "accepted", "", "accepted visits spreadsheet (.xlsx, .xls or .csv)")
	fs.StringVar(&opts.claim, "claim", "", "claim search spreadsheet (.xlsx, .xls or .csv)")
	fs.StringVar(&opts.outDir, "out", ".", "output directory for the report files")
	fs.BoolVar(&opts.verbose, "v", false, "log progress to stderr")
	fs.StringVar(&format, "format", string(exporter.FormatXLSX), "output format: xlsx or csv")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if opts.accepted == "" || opts.claim == "" {
		return opts, fmt.Errorf("both -accepted and -claim are required")
	}

	f, err := exporter.ParseFormat(format)
	if err != nil {
		return opts, err
	}
	opts.format = f
	return opts, nil
}

func reconcileFiles(ctx context.Context, cfg *config.Config, opts options, logger *slog.Logger) ([]string, error) {
	validator := validation.NewFileValidator(logger, cfg.Reconcile.AllowedExtensions, cfg.Reconcile.MaxUploadBytes)
	if err := validator.ValidateOutputDirectory(opts.outDir); err != nil {
		return nil, err
	}

	accepted, err := readSource(validator, opts.accepted)
	if err != nil {
		return nil, err
	}
	claim, err := readSource(validator, opts.claim)
	if err != nil {
		return nil, err
	}

	svc := services.NewReconcileService(validator, logger, services.WithRunTimeout(cfg.Reconcile.RunTimeout))
	result, err := svc.Run(ctx, accepted, claim)
	if err != nil {
		return nil, err
	}

	logger.Info("Reconciliation complete",
		slog.String("run_id", result.RunID),
		slog.Int("review_rows", result.Summary.ReviewRows),
		slog.Int("investigation_rows", result.Summary.InvestigationRows))

	return exporter.NewExporter(logger).ExportToDir(opts.outDir, result, opts.format)
}

func readSource(validator *validation.FileValidator, path string) (dataprocessing.Source, error) {
	if err := validator.ValidateSpreadsheetFile(path); err != nil {
		return dataprocessing.Source{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return dataprocessing.Source{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return dataprocessing.Source{Name: path, Data: data}, nil
}
