// Package gfx is the backend-neutral drawing model: named layers of items in
// world space, owned by a System the render bridge advances once per frame.
// The ebiten front end walks the layers and draws them.
package gfx

import (
	"image/color"
	"slices"

	"github.com/milk9111/worldmap/geom"
)

// Item is a drawable in a layer.
type Item interface {
	// Bounds returns the world-space points the item covers, used for
	// projection and culling.
	Bounds() []geom.Vec3
}

// Marker is a filled circle with an optional label.
type Marker struct {
	At     geom.Vec3
	Radius float64
	Color  color.RGBA
	Label  string
	// Ring draws an outline instead of a fill.
	Ring bool
}

func (m Marker) Bounds() []geom.Vec3 { return []geom.Vec3{m.At} }

// Polyline is a sequence of connected points.
type Polyline struct {
	Points []geom.Vec3
	Width  float64
	Color  color.RGBA
	Closed bool
}

func (p Polyline) Bounds() []geom.Vec3 { return p.Points }

// Image is an encoded image drawn with its top-left corner at a world
// position, or with its centre there when Centered is set. Screen images
// ignore the camera and are drawn at the viewport origin.
type Image struct {
	Name     string
	Data     []byte
	At       geom.Vec3
	Screen   bool
	Centered bool
	Alpha    float64
}

func (i Image) Bounds() []geom.Vec3 { return []geom.Vec3{i.At} }

// Box is an axis-aligned footprint with a height, used for primitives.
type Box struct {
	At     geom.Vec3
	Size   [2]float64
	Color  color.RGBA
	Filled bool
}

func (b Box) Bounds() []geom.Vec3 {
	return []geom.Vec3{
		b.At,
		b.At.Add(geom.V3(b.Size[0], 0, 0)),
		b.At.Add(geom.V3(b.Size[0], 0, b.Size[1])),
		b.At.Add(geom.V3(0, 0, b.Size[1])),
	}
}

// Layer keeps items in insertion order, keyed by id.
type Layer struct {
	name    string
	visible bool
	order   []string
	items   map[string]Item
}

func newLayer(name string) *Layer {
	return &Layer{name: name, visible: true, items: make(map[string]Item)}
}

func (l *Layer) Name() string { return l.name }

func (l *Layer) Visible() bool { return l.visible }

func (l *Layer) SetVisible(v bool) { l.visible = v }

// Put inserts or replaces the item under id. Replacing keeps the position.
func (l *Layer) Put(id string, it Item) {
	if _, ok := l.items[id]; !ok {
		l.order = append(l.order, id)
	}
	l.items[id] = it
}

// Remove deletes the item under id and reports whether it existed.
func (l *Layer) Remove(id string) bool {
	if _, ok := l.items[id]; !ok {
		return false
	}
	delete(l.items, id)
	l.order = slices.DeleteFunc(l.order, func(s string) bool { return s == id })
	return true
}

func (l *Layer) Get(id string) (Item, bool) {
	it, ok := l.items[id]
	return it, ok
}

// Each visits items in insertion order.
func (l *Layer) Each(fn func(id string, it Item)) {
	for _, id := range l.order {
		fn(id, l.items[id])
	}
}

func (l *Layer) Len() int { return len(l.order) }

// IDs returns the item ids in insertion order.
func (l *Layer) IDs() []string { return slices.Clone(l.order) }

func (l *Layer) Clear() {
	l.order = nil
	clear(l.items)
}

// System owns the layer stack and the frame clock.
type System struct {
	layers  []*Layer
	bg      color.RGBA
	alpha   float64
	frames  uint64
	onFrame []func(alpha float64)
}

// NewSystem creates an empty system with a dark background.
func NewSystem() *System {
	return &System{bg: color.RGBA{R: 0x20, G: 0x20, B: 0x28, A: 0xff}}
}

// NewLayer appends a layer drawn above the existing ones. Asking for an
// existing name returns that layer.
func (s *System) NewLayer(name string) *Layer {
	if l := s.Layer(name); l != nil {
		return l
	}
	l := newLayer(name)
	s.layers = append(s.layers, l)
	return l
}

// Layer returns the named layer or nil.
func (s *System) Layer(name string) *Layer {
	for _, l := range s.layers {
		if l.name == name {
			return l
		}
	}
	return nil
}

// Layers returns the layers bottom to top.
func (s *System) Layers() []*Layer { return slices.Clone(s.layers) }

func (s *System) SetBgColor(c color.RGBA) { s.bg = c }

func (s *System) BgColor() color.RGBA { return s.bg }

// OnFrame registers a hook run on every Render.
func (s *System) OnFrame(fn func(alpha float64)) {
	if fn != nil {
		s.onFrame = append(s.onFrame, fn)
	}
}

// Render advances one frame with interpolation factor alpha.
func (s *System) Render(alpha float64) {
	s.alpha = alpha
	s.frames++
	for _, fn := range s.onFrame {
		fn(alpha)
	}
}

// Alpha returns the interpolation factor of the last frame.
func (s *System) Alpha() float64 { return s.alpha }

// Frames returns how many frames were rendered.
func (s *System) Frames() uint64 { return s.frames }
