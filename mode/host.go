package mode

import (
	"fmt"
	"math"

	"github.com/milk9111/worldmap/errs"
	"github.com/milk9111/worldmap/event"
	"github.com/rs/zerolog"
)

// State is the host state.
type State int

const (
	StateIdle State = iota
	StateActive
	StateLocked
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateLocked:
		return "locked"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Renderer receives frame calls. *render.Bridge implements it.
type Renderer interface {
	Frame(isPostCall bool, alpha float64)
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithRenderer sets the render bridge frame calls are forwarded to.
func WithRenderer(r Renderer) HostOption {
	return func(h *Host) { h.renderer = r }
}

// WithHostLogger sets the host logger.
func WithHostLogger(l zerolog.Logger) HostOption {
	return func(h *Host) { h.log = l }
}

// Host owns the mode table and the active mode. It emits ModeChanged,
// FlowStarted, FlowEnded and FlowAborted.
//
// Host is not safe for concurrent use; all calls come from the UI loop.
type Host struct {
	event.Emitter

	modes  []Mode
	byName map[string]Mode

	active        Mode
	grant         *Notifier
	locked        bool
	flow          string
	transitioning bool

	epoch uint64
	queue []Input

	renderer Renderer
	log      zerolog.Logger
}

// NewHost creates an Idle host over a fixed mode table.
func NewHost(modes []Mode, opts ...HostOption) (*Host, error) {
	h := &Host{
		byName: make(map[string]Mode, len(modes)),
		log:    zerolog.Nop(),
	}
	for _, m := range modes {
		if m == nil {
			return nil, fmt.Errorf("nil mode in table: %w", errs.ErrInvalidArgument)
		}
		name := m.Name()
		if name == "" {
			return nil, fmt.Errorf("mode with empty name: %w", errs.ErrInvalidArgument)
		}
		if _, dup := h.byName[name]; dup {
			return nil, fmt.Errorf("duplicate mode %q: %w", name, errs.ErrInvalidArgument)
		}
		h.byName[name] = m
		h.modes = append(h.modes, m)
	}
	for _, o := range opts {
		o(h)
	}
	return h, nil
}

// Modes returns the mode names in table order.
func (h *Host) Modes() []string {
	names := make([]string, len(h.modes))
	for i, m := range h.modes {
		names[i] = m.Name()
	}
	return names
}

// Mode returns the mode registered under name, or nil.
func (h *Host) Mode(name string) Mode {
	return h.byName[name]
}

// Active returns the active mode, or nil while Idle.
func (h *Host) Active() Mode { return h.active }

// ActiveName returns the active mode name, or "" while Idle.
func (h *Host) ActiveName() string {
	if h.active == nil {
		return ""
	}
	return h.active.Name()
}

func (h *Host) Locked() bool { return h.locked }

// CurrentFlow returns the open flow name, or "".
func (h *Host) CurrentFlow() string { return h.flow }

func (h *Host) State() State {
	switch {
	case h.active == nil:
		return StateIdle
	case h.locked:
		return StateLocked
	default:
		return StateActive
	}
}

// ChangeModeByName looks the mode up in the table. An empty name means Idle.
func (h *Host) ChangeModeByName(name string) error {
	if name == "" {
		return h.ChangeMode(nil)
	}
	m, ok := h.byName[name]
	if !ok {
		return fmt.Errorf("mode %q: %w", name, errs.ErrUnknownMode)
	}
	return h.ChangeMode(m)
}

// ChangeMode switches to m, or to Idle when m is nil. Switching to the
// active mode is a no-op. While the host is locked, or while a switch is
// already in progress, the request is ignored without an error.
//
// The old mode is fully deactivated before m is activated. A flow the old
// mode left open is aborted, its notifier is revoked and queued input is
// dropped.
func (h *Host) ChangeMode(m Mode) error {
	if m != nil && h.byName[m.Name()] != m {
		return fmt.Errorf("mode %q: %w", m.Name(), errs.ErrUnknownMode)
	}
	if m == h.active {
		return nil
	}
	if h.transitioning {
		h.log.Debug().Str("target", nameOf(m)).Msg("mode change ignored during transition")
		return nil
	}
	if h.locked {
		h.log.Debug().
			Str("active", h.ActiveName()).
			Str("target", nameOf(m)).
			Str("flow", h.flow).
			Msg("mode change rejected while locked")
		return nil
	}

	h.transitioning = true
	defer func() { h.transitioning = false }()

	from := h.ActiveName()
	if old := h.active; old != nil {
		old.Deactivate()
		h.releaseGrant(old.Name())
		h.active = nil
	}

	if m != nil {
		n := newNotifier(h, m.Name())
		h.grant = n
		h.active = m
		if err := m.Activate(n); err != nil {
			m.Deactivate()
			h.releaseGrant(m.Name())
			h.active = nil
			h.Emit(event.ModeChanged{From: from})
			return fmt.Errorf("activate %s: %w", m.Name(), err)
		}
	}

	h.log.Debug().Str("from", from).Str("to", nameOf(m)).Msg("mode changed")
	h.Emit(event.ModeChanged{From: from, To: nameOf(m)})
	return nil
}

// releaseGrant aborts a flow left open by the outgoing mode, revokes its
// notifier and invalidates queued input.
func (h *Host) releaseGrant(modeName string) {
	if h.flow != "" {
		flow := h.flow
		h.flow = ""
		h.locked = false
		h.log.Debug().Str("mode", modeName).Str("flow", flow).Msg("flow aborted by deactivation")
		h.Emit(event.FlowAborted{Flow: flow, Mode: modeName})
	}
	h.locked = false
	h.grant = nil
	h.epoch++
	h.queue = nil
}

// LockUIMode locks the host. token must belong to the active mode.
func (h *Host) LockUIMode(token string) error {
	if !h.holds(token) {
		return &errs.FlowError{Op: "lock", Err: errs.ErrFlowMismatch}
	}
	h.locked = true
	return nil
}

// UnlockUIMode unlocks the host. token must belong to the active mode.
func (h *Host) UnlockUIMode(token string) error {
	if !h.holds(token) {
		return &errs.FlowError{Op: "unlock", Err: errs.ErrFlowMismatch}
	}
	h.locked = false
	return nil
}

func (h *Host) holds(token string) bool {
	return h.grant != nil && token != "" && h.grant.token == token
}

func (h *Host) startFlow(token, name string) error {
	if !h.holds(token) {
		return &errs.FlowError{Op: "start", Want: h.flow, Got: name, Err: errs.ErrFlowMismatch}
	}
	if name == "" {
		return fmt.Errorf("start flow: empty name: %w", errs.ErrInvalidArgument)
	}
	if h.flow != "" {
		return &errs.FlowError{Op: "start", Want: h.flow, Got: name, Err: errs.ErrFlowAlreadyActive}
	}
	h.flow = name
	h.locked = true
	h.log.Debug().Str("mode", h.grant.mode).Str("flow", name).Msg("flow started")
	h.Emit(event.FlowStarted{Flow: name, Mode: h.grant.mode})
	return nil
}

func (h *Host) finishFlow(token, op, name string) error {
	if !h.holds(token) || h.flow == "" || h.flow != name {
		return &errs.FlowError{Op: op, Want: h.flow, Got: name, Err: errs.ErrFlowMismatch}
	}
	modeName := h.grant.mode
	h.flow = ""
	h.locked = false
	if op == "abort" {
		h.log.Debug().Str("mode", modeName).Str("flow", name).Msg("flow aborted")
		h.Emit(event.FlowAborted{Flow: name, Mode: modeName})
		return nil
	}
	h.log.Debug().Str("mode", modeName).Str("flow", name).Msg("flow ended")
	h.Emit(event.FlowEnded{Flow: name, Mode: modeName})
	return nil
}

// Dispatch routes in to the active mode immediately. It is a no-op while Idle.
func (h *Host) Dispatch(in Input) {
	m := h.active
	if m == nil {
		return
	}
	switch in.Kind {
	case InputPointerDown:
		m.PointerDown(in.Pointer)
	case InputPointerMove:
		m.PointerMove(in.Pointer)
	case InputPointerUp:
		m.PointerUp(in.Pointer)
	case InputKeyPress:
		m.KeyPress(in.Key)
	default:
		h.log.Warn().Stringer("kind", in.Kind).Msg("unknown input kind")
	}
}

// Enqueue stamps in with the current activation and queues it for Pump.
func (h *Host) Enqueue(in Input) {
	in.epoch = h.epoch
	h.queue = append(h.queue, in)
}

// Pending returns the number of queued inputs.
func (h *Host) Pending() int { return len(h.queue) }

// Pump delivers queued input in order. Entries queued before the last mode
// change are dropped rather than delivered to the new mode.
func (h *Host) Pump() {
	for len(h.queue) > 0 {
		in := h.queue[0]
		h.queue = h.queue[1:]
		if in.epoch != h.epoch {
			continue
		}
		h.Dispatch(in)
	}
	h.queue = nil
}

// Render is the per-frame hook. Only post-update calls reach the renderer.
func (h *Host) Render(isPostCall bool, alpha float64) {
	if !isPostCall || h.renderer == nil {
		return
	}
	if math.IsNaN(alpha) {
		alpha = 0
	}
	h.renderer.Frame(true, math.Max(0, math.Min(1, alpha)))
}

func nameOf(m Mode) string {
	if m == nil {
		return ""
	}
	return m.Name()
}
