package params

import "errors"

// Sentinel errors for validation failures. All are client-input errors;
// handlers match with errors.Is and translate to 4xx responses.
var (
	ErrMissingRequired   = errors.New("missing required parameter")
	ErrTypeMismatch      = errors.New("parameter type mismatch")
	ErrInvalidJSON       = errors.New("parameter is not valid JSON")
	ErrValueNotAllowed   = errors.New("parameter value not allowed")
	ErrOutOfRange        = errors.New("parameter value out of range")
	ErrNoValidParameters = errors.New("no valid parameters found")
	ErrUnknownDataType   = errors.New("unknown parameter data type")
)
