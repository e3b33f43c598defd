package modred

import "github.com/pkg/errors"

// ErrInvalidModulus is returned when an engine is constructed
// with a modulus it cannot reduce by.
var ErrInvalidModulus = errors.New("invalid modulus")
