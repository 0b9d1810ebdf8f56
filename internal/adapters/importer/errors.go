package importer

import "errors"

// Sentinel kinds for import errors.
var (
	ErrInvalidWorkbook = errors.New("invalid workbook")
	ErrEmptySheet      = errors.New("empty sheet")
	ErrMissingColumn   = errors.New("missing column")
	ErrTooManyRows     = errors.New("too many rows")
	ErrInvalidCell     = errors.New("invalid cell")
)
