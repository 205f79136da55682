package event

import (
	"github.com/google/uuid"
	"github.com/milk9111/worldmap/errs"
)

// MaxEmitDepth bounds nested emissions on a single emitter.
const MaxEmitDepth = 64

// Token identifies one listener registration on an emitter.
type Token uint64

// Listener receives an emitted event.
type Listener func(Event)

// Source is anything listeners can be attached to.
type Source interface {
	On(name Name, fn Listener) Token
	Off(name Name, tok Token)
}

type registration struct {
	token   Token
	fn      Listener
	removed bool
}

// Emitter keeps ordered listener lists per event name. The zero value is
// ready to use. Emitter is not safe for concurrent use.
type Emitter struct {
	next      Token
	listeners map[Name][]*registration
	depth     int
}

// On registers fn for name and returns a token for Off. Registering the same
// function twice yields two registrations.
func (e *Emitter) On(name Name, fn Listener) Token {
	if fn == nil {
		return 0
	}
	if e.listeners == nil {
		e.listeners = make(map[Name][]*registration)
	}
	e.next++
	e.listeners[name] = append(e.listeners[name], &registration{token: e.next, fn: fn})
	return e.next
}

// Off removes the registration identified by tok. Unknown tokens are ignored.
func (e *Emitter) Off(name Name, tok Token) {
	regs := e.listeners[name]
	for i, r := range regs {
		if r.token != tok {
			continue
		}
		// an emission in progress holds its own snapshot; flag it so that
		// snapshot skips the listener too
		r.removed = true
		e.listeners[name] = append(regs[:i:i], regs[i+1:]...)
		if len(e.listeners[name]) == 0 {
			delete(e.listeners, name)
		}
		return
	}
}

// Emit delivers ev to the listeners registered for ev.Name() at the moment
// Emit is called. A panicking listener propagates to the caller.
func (e *Emitter) Emit(ev Event) {
	if ev == nil {
		return
	}
	regs := e.listeners[ev.Name()]
	if len(regs) == 0 {
		return
	}
	if e.depth >= MaxEmitDepth {
		panic(errs.ErrEmitDepth)
	}
	e.depth++
	defer func() { e.depth-- }()

	snapshot := make([]*registration, len(regs))
	copy(snapshot, regs)
	for _, r := range snapshot {
		if r.removed {
			continue
		}
		r.fn(ev)
	}
}

// ListenerCount returns the number of registrations for name.
func (e *Emitter) ListenerCount(name Name) int {
	return len(e.listeners[name])
}

// TotalListeners returns the number of registrations across all names.
func (e *Emitter) TotalListeners() int {
	n := 0
	for _, regs := range e.listeners {
		n += len(regs)
	}
	return n
}

// Listen registers a typed listener; the event name comes from T.
func Listen[T Event](src Source, fn func(T)) Token {
	var zero T
	return src.On(zero.Name(), func(ev Event) {
		if typed, ok := ev.(T); ok {
			fn(typed)
		}
	})
}

// Entity is an Emitter with an opaque identity.
type Entity struct {
	Emitter
	id string
}

// NewEntity returns an Entity with a fresh random id.
func NewEntity() Entity {
	return Entity{id: uuid.NewString()}
}

// NewEntityWithID returns an Entity with a caller-chosen id, used when
// restoring entities from a map file.
func NewEntityWithID(id string) Entity {
	if id == "" {
		id = uuid.NewString()
	}
	return Entity{id: id}
}

// ID returns the entity identity.
func (e *Entity) ID() string {
	return e.id
}
