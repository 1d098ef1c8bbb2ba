package pages

import "errors"

var (
	// ErrUnsupportedSource is returned when a path is neither a directory
	// nor a PDF file.
	ErrUnsupportedSource = errors.New("unsupported page source")

	// ErrUnknownSortOrder is returned for a sort order other than lexical
	// or natural.
	ErrUnknownSortOrder = errors.New("unknown sort order")

	// ErrNoPageImage is returned when a PDF page embeds no image.
	ErrNoPageImage = errors.New("pdf page has no image")
)
