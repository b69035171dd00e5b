package dataprocessing

import "errors"

// ErrMalformedInput is returned when an upload cannot be read as a
// spreadsheet: unreadable bytes, no sheets, or an empty first sheet.
var ErrMalformedInput = errors.New("malformed input")
