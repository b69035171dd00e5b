package validation

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Sentinel errors returned by the validators
var (
	ErrEmptyFile            = errors.New("file is empty")
	ErrFileTooLarge         = errors.New("file exceeds size limit")
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	ErrSignatureMismatch    = errors.New("file content does not match its extension")
	ErrTemporaryFile        = errors.New("file is a temporary office lock file")
)

var (
	zipSignature = []byte{0x50, 0x4B, 0x03, 0x04}
	oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// FileValidator checks spreadsheet inputs before they reach the extractor,
// both for uploads and for files named on the command line.
type FileValidator struct {
	logger            *slog.Logger
	allowedExtensions []string
	maxBytes          int64
}

// NewFileValidator creates a new file validator. A non-positive maxBytes
// disables the size check.
func NewFileValidator(logger *slog.Logger, allowedExtensions []string, maxBytes int64) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	exts := make([]string, 0, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		exts = append(exts, strings.ToLower(ext))
	}
	return &FileValidator{
		logger:            logger.With(slog.String("component", "file_validator")),
		allowedExtensions: exts,
		maxBytes:          maxBytes,
	}
}

// MaxBytes returns the configured upload limit
func (v *FileValidator) MaxBytes() int64 {
	return v.maxBytes
}

// ValidateUpload checks an in-memory upload: name, size and leading bytes.
func (v *FileValidator) ValidateUpload(name string, data []byte) error {
	if err := v.validateName(name); err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("%s: %w", name, ErrEmptyFile)
	}
	if v.maxBytes > 0 && int64(len(data)) > v.maxBytes {
		return fmt.Errorf("%s: %w (%d > %d bytes)", name, ErrFileTooLarge, len(data), v.maxBytes)
	}

	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".xlsx", ".xlsm":
		if !bytes.HasPrefix(data, zipSignature) {
			return fmt.Errorf("%s: %w", name, ErrSignatureMismatch)
		}
	case ".xls":
		if !bytes.HasPrefix(data, oleSignature) {
			return fmt.Errorf("%s: %w", name, ErrSignatureMismatch)
		}
	case ".csv":
		if bytes.HasPrefix(data, zipSignature) || bytes.HasPrefix(data, oleSignature) {
			return fmt.Errorf("%s: %w", name, ErrSignatureMismatch)
		}
	}

	v.logger.Debug("Upload validated",
		slog.String("file", name),
		slog.Int("size", len(data)))
	return nil
}

// ValidateSpreadsheetFile checks that path names a readable spreadsheet with
// an allowed extension. Content checks happen in ValidateUpload once read.
func (v *FileValidator) ValidateSpreadsheetFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}
	return v.validateName(path)
}

func (v *FileValidator) validateName(name string) error {
	if strings.HasPrefix(filepath.Base(name), "~$") {
		v.logger.Warn("Rejected temporary office file",
			slog.String("file", name))
		return fmt.Errorf("%s: %w", name, ErrTemporaryFile)
	}

	ext := strings.ToLower(filepath.Ext(name))
	if len(v.allowedExtensions) > 0 && !slices.Contains(v.allowedExtensions, ext) {
		v.logger.Warn("Rejected file extension",
			slog.String("file", name),
			slog.String("extension", ext))
		return fmt.Errorf("%s: %w %q", name, ErrUnsupportedExtension, ext)
	}
	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	if v.maxBytes > 0 && info.Size() > v.maxBytes {
		return fmt.Errorf("%s: %w (%d > %d bytes)", path, ErrFileTooLarge, info.Size(), v.maxBytes)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	return nil
}
