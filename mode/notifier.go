package mode

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/milk9111/worldmap/errs"
)

var errNilNotifier = fmt.Errorf("nil notifier: %w", errs.ErrInvalidArgument)

// Notifier is the capability a mode receives on activation. It is the only
// way to start and end flows, and it stops working once the host has
// deactivated the mode it was minted for.
type Notifier struct {
	host  *Host
	mode  string
	token string
}

func newNotifier(h *Host, mode string) *Notifier {
	return &Notifier{host: h, mode: mode, token: uuid.NewString()}
}

// Token returns the capability token for Host.LockUIMode and UnlockUIMode.
func (n *Notifier) Token() string {
	if n == nil {
		return ""
	}
	return n.token
}

// Mode returns the name of the mode the notifier was minted for.
func (n *Notifier) Mode() string {
	if n == nil {
		return ""
	}
	return n.mode
}

// Valid reports whether the host still honours this notifier.
func (n *Notifier) Valid() bool {
	return n != nil && n.host != nil && n.host.holds(n.token)
}

// StartFlow opens a flow and locks the host. It fails with ErrFlowMismatch
// when the notifier is stale and ErrFlowAlreadyActive when a flow is open.
func (n *Notifier) StartFlow(name string) error {
	if n == nil || n.host == nil {
		return &errs.FlowError{Op: "start", Got: name, Err: errs.ErrFlowMismatch}
	}
	return n.host.startFlow(n.token, name)
}

// EndFlow closes the open flow and unlocks the host. name must match the
// open flow.
func (n *Notifier) EndFlow(name string) error {
	if n == nil || n.host == nil {
		return &errs.FlowError{Op: "end", Got: name, Err: errs.ErrFlowMismatch}
	}
	return n.host.finishFlow(n.token, "end", name)
}

// AbortFlow cancels the open flow and unlocks the host. name must match
// the open flow.
func (n *Notifier) AbortFlow(name string) error {
	if n == nil || n.host == nil {
		return &errs.FlowError{Op: "abort", Got: name, Err: errs.ErrFlowMismatch}
	}
	return n.host.finishFlow(n.token, "abort", name)
}

// CurrentFlow returns the open flow, or "" when none is open or the
// notifier is stale.
func (n *Notifier) CurrentFlow() string {
	if !n.Valid() {
		return ""
	}
	return n.host.flow
}
