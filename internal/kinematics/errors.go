package kinematics

import (
	"errors"
	"fmt"
)

// Graph errors.
var (
	// ErrWouldCycle indicates the requested parent is the entity itself or
	// one of its descendants.
	ErrWouldCycle = errors.New("kinematics: reparent would create a cycle")

	// ErrIllegalOperation indicates an attempt to reparent or destroy World.
	ErrIllegalOperation = errors.New("kinematics: illegal operation on world frame")
)

// GraphError wraps a rejected graph mutation with the names involved.
type GraphError struct {
	Op      string
	Entity  string
	Parent  string
	Wrapped error
}

func (e *GraphError) Error() string {
	if e.Parent == "" {
		return fmt.Sprintf("%s %q: %v", e.Op, e.Entity, e.Wrapped)
	}
	return fmt.Sprintf("%s %q under %q: %v", e.Op, e.Entity, e.Parent, e.Wrapped)
}

func (e *GraphError) Unwrap() error {
	return e.Wrapped
}
