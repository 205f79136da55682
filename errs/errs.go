// Package errs holds the error taxonomy shared by the editor packages.
// Callers test for a category with errors.Is against the sentinels below;
// the typed errors carry the detail.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned for malformed input at an API boundary,
	// such as a position vector with the wrong number of components.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrFlowMismatch is returned when a flow notification does not match the
	// open flow, or comes from a mode that no longer holds the host's grant.
	ErrFlowMismatch = errors.New("flow mismatch")

	// ErrFlowAlreadyActive is returned when a flow is started while another is open.
	ErrFlowAlreadyActive = errors.New("flow already active")

	// ErrUnknownMode is returned when a mode is not part of the host's mode table.
	ErrUnknownMode = errors.New("unknown mode")

	// ErrNotFound is returned when a model entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfig is returned when the editor configuration fails validation.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrEmitDepth is the panic value used when emissions nest too deeply on one emitter.
	ErrEmitDepth = errors.New("event emission nested too deeply")
)

// FlowError describes a rejected flow notification.
type FlowError struct {
	// Op is the rejected operation ("start", "end", "abort", "lock", "unlock").
	Op string
	// Want is the flow that is currently open, empty when none is.
	Want string
	// Got is the flow name the caller passed.
	Got string
	// Err is ErrFlowMismatch or ErrFlowAlreadyActive.
	Err error
}

func (e *FlowError) Error() string {
	switch {
	case e.Want == "" && e.Got == "":
		return fmt.Sprintf("%s flow: %v", e.Op, e.Err)
	case e.Want == "":
		return fmt.Sprintf("%s flow %q: %v (no flow open)", e.Op, e.Got, e.Err)
	default:
		return fmt.Sprintf("%s flow %q: %v (open flow %q)", e.Op, e.Got, e.Err, e.Want)
	}
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a missing entity by kind and id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// Is implements errors.Is support.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFound creates a NotFoundError.
func NewNotFound(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}
