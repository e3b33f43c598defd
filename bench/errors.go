package bench

import "github.com/pkg/errors"

// ErrReductionMismatch is returned when an engine's output disagrees with
// the reference engine. A mismatch invalidates the whole run.
var ErrReductionMismatch = errors.New("reduction mismatch")
