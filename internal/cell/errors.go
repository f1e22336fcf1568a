package cell

import "errors"

// ErrInvalidArgument indicates a caller passed a value outside a recognized
// vocabulary, such as an unknown DisableCause token or a malformed cell
// identity. Queries fail fast instead of guessing so a caller bug cannot
// masquerade as healthy cell state.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrDeserialization indicates a stored cell record could not be turned back
// into a live cell: a required field was missing or a value was malformed.
var ErrDeserialization = errors.New("invalid cell record")
