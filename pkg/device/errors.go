package device

import "errors"

var (
	// ErrInvalidMode indicates a chime type outside the known patterns
	ErrInvalidMode = errors.New("invalid chime type")

	// ErrInvalidAction indicates an action other than start or stop
	ErrInvalidAction = errors.New("invalid chime action")
)
