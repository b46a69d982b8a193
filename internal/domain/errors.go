package domain

import "errors"

// Sentinel errors for snapshot validation.
var (
	ErrMissingBoard     = errors.New("domain: snapshot has no board info")
	ErrCountMismatch    = errors.New("domain: metadata count does not match array length")
	ErrDanglingEndpoint = errors.New("domain: connector references an item not in the snapshot")
	ErrUnexpectedType   = errors.New("domain: type field holds an unexpected value")
	ErrMissingID        = errors.New("domain: resource has an empty id")
)
