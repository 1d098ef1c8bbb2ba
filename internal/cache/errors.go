package cache

import "errors"

// ErrNotFound is returned when a database or record does not exist.
var ErrNotFound = errors.New("not found")
