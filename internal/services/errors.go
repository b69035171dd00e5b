package services

import "errors"

// ErrMissingInput is returned when a run is started without both files
var ErrMissingInput = errors.New("both accepted and claim files are required")
