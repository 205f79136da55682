package mode

import (
	"github.com/milk9111/worldmap/geom"
	"github.com/milk9111/worldmap/handler"
	"github.com/rs/zerolog"
)

// Mode is one interaction tool. A mode is constructed once and activated
// and deactivated by the Host as the user switches tools.
type Mode interface {
	// Name returns the unique mode identifier (e.g., "location", "path").
	Name() string

	// Activate attaches the mode's listeners. n is the capability the mode
	// uses to open and close flows until it is deactivated.
	Activate(n *Notifier) error

	// Deactivate detaches everything Activate attached and discards an open
	// flow. Calling it on an inactive mode is a no-op.
	Deactivate()

	PointerDown(ev PointerEvent)
	PointerMove(ev PointerEvent)
	PointerUp(ev PointerEvent)
	KeyPress(ev KeyEvent)
}

// Viewport is the camera context a mode projects through. The render
// bridge implements it.
type Viewport interface {
	handler.Projector
	ProjectToWorld(s geom.Vec2) geom.Vec3
	// Track keeps h reprojected while the camera moves.
	Track(h *handler.Handler) (untrack func())
}

// Option configures the shared part of a concrete mode.
type Option func(*base)

// WithLogger sets the mode logger.
func WithLogger(l zerolog.Logger) Option {
	return func(b *base) { b.log = l }
}

// WithThreshold sets the pointer hit radius in screen units.
func WithThreshold(r float64) Option {
	return func(b *base) {
		if r > 0 {
			b.threshold = r
		}
	}
}

// base carries the activation state common to the concrete modes and
// no-op input handlers they override as needed.
type base struct {
	name      string
	n         *Notifier
	flow      string
	threshold float64
	log       zerolog.Logger
}

func newBase(name string, opts []Option) base {
	b := base{name: name, threshold: handler.DefaultThreshold, log: zerolog.Nop()}
	for _, o := range opts {
		o(&b)
	}
	b.log = b.log.With().Str("mode", name).Logger()
	return b
}

func (b *base) Name() string { return b.name }

// Active reports whether the mode is between Activate and Deactivate.
func (b *base) Active() bool { return b.n != nil }

func (b *base) PointerDown(PointerEvent) {}
func (b *base) PointerMove(PointerEvent) {}
func (b *base) PointerUp(PointerEvent)   {}
func (b *base) KeyPress(KeyEvent)        {}

func (b *base) attach(n *Notifier) error {
	if n == nil {
		return errNilNotifier
	}
	b.n = n
	return nil
}

func (b *base) startFlow(name string) bool {
	if err := b.n.StartFlow(name); err != nil {
		b.log.Warn().Err(err).Msg("flow not started")
		return false
	}
	b.flow = name
	return true
}

func (b *base) endFlow() {
	if b.flow == "" {
		return
	}
	if err := b.n.EndFlow(b.flow); err != nil {
		b.log.Warn().Err(err).Msg("flow not ended")
	}
	b.flow = ""
}

// abortFlow is safe after the host revoked the notifier; the host has then
// already aborted the flow on its side.
func (b *base) abortFlow() {
	if b.flow == "" {
		return
	}
	if b.n.Valid() {
		if err := b.n.AbortFlow(b.flow); err != nil {
			b.log.Warn().Err(err).Msg("flow not aborted")
		}
	}
	b.flow = ""
}

func (b *base) detach() {
	b.n = nil
	b.flow = ""
}
