package corpus

import "errors"

var (
	// ErrUnsupportedFormat is returned when no reader accepts a file.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)
