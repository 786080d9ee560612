package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrNoCourierAvailable indicates that no eligible courier was found within the
// delivery radius. Handlers map it to 404 together with the computed client distance.
var ErrNoCourierAvailable = errors.New("no courier available")

// ErrDependency indicates that an external collaborator (store, push service) failed.
var ErrDependency = errors.New("dependency failure")
