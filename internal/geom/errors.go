package geom

import (
	"errors"
	"fmt"
)

// ErrPrecondition matches every *PreconditionError via errors.Is.
var ErrPrecondition = errors.New("geom: input precondition failed")

// PreconditionError reports an object whose mesh cannot be extracted:
// not a mesh, no active color layer, or broken loop structure.
type PreconditionError struct {
	Object string
	Err    error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("geom: %s: %v", e.Object, e.Err)
}

func (e *PreconditionError) Unwrap() error { return e.Err }

func (e *PreconditionError) Is(target error) bool { return target == ErrPrecondition }

var errSingularMatrix = errors.New("world matrix is not invertible")
