package domain

import "errors"

// Error taxonomy for workspace and assistant operations. All of these are
// expected, recoverable conditions reported to the caller as typed results;
// none should abort the process. Match with errors.Is.
var (
	// ErrNotFound: operation on a path that has no entry.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists: name collision on create or rename.
	ErrAlreadyExists = errors.New("already exists")

	// ErrBusy: a second assistant request was issued while one is in flight.
	// The caller must retry after completion; requests are not queued.
	ErrBusy = errors.New("assistant is busy")

	// ErrTransport: network or HTTP failure reaching the AI backend.
	ErrTransport = errors.New("transport error")

	// ErrProtocol: malformed or empty AI response payload.
	ErrProtocol = errors.New("protocol error")
)
