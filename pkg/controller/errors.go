package controller

import "errors"

var (
	// ErrRejected indicates a request that is dropped without any response
	ErrRejected = errors.New("request rejected")

	// ErrInvalidParameter indicates a malformed parameter on a request that does answer errors
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrUnknownRequest indicates a request kind with no handler
	ErrUnknownRequest = errors.New("unknown request")

	// ErrNoHistory indicates the event store is not configured
	ErrNoHistory = errors.New("history not available")
)
