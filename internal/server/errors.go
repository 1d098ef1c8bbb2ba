package server

import "errors"

var (
	// ErrEmptyBody is returned when a compare request has no body.
	ErrEmptyBody = errors.New("request body is empty")

	// ErrHistoryDisabled is returned by the history routes when the server
	// runs without the cache database.
	ErrHistoryDisabled = errors.New("history is disabled: start the server with --cache")
)
