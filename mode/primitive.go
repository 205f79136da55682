package mode

import (
	"math"

	"github.com/milk9111/worldmap/gfx"
	"github.com/milk9111/worldmap/object"
	"golang.org/x/image/colornames"
)

const NamePrimitive = "primitive"

const previewItem = "preview"

// HeightFunc reads the height control. It returns NaN when the control is
// empty, in which case the grid's X cell size is used.
type HeightFunc func() float64

// PrimitiveMode places grid-snapped primitives with the left button and
// removes them with the right button.
type PrimitiveMode struct {
	base

	obj    *object.Object
	layer  *gfx.Layer
	height HeightFunc
}

// NewPrimitiveMode creates the mode. height may be nil.
func NewPrimitiveMode(obj *object.Object, layer *gfx.Layer, height HeightFunc, opts ...Option) *PrimitiveMode {
	return &PrimitiveMode{
		base:   newBase(NamePrimitive, opts),
		obj:    obj,
		layer:  layer,
		height: height,
	}
}

func (m *PrimitiveMode) Activate(n *Notifier) error {
	return m.attach(n)
}

func (m *PrimitiveMode) Deactivate() {
	if !m.Active() {
		return
	}
	m.layer.Clear()
	m.detach()
}

func (m *PrimitiveMode) PointerMove(ev PointerEvent) {
	if !m.Active() {
		return
	}
	at := m.obj.Grid.Place(ev.World, m.currentHeight())
	m.layer.Put(previewItem, gfx.Box{At: at, Size: m.obj.Grid.CellSize(), Color: colornames.Slategray})
}

func (m *PrimitiveMode) PointerDown(ev PointerEvent) {
	if !m.Active() {
		return
	}
	switch ev.Button {
	case ButtonLeft:
		at := m.obj.Grid.Place(ev.World, m.currentHeight())
		p, err := m.obj.AddPrimitive(at)
		if err != nil {
			m.log.Warn().Err(err).Msg("place primitive")
			return
		}
		cx, cz := m.obj.Grid.Cell(at)
		m.log.Debug().Str("id", p.ID).Int("cell_x", cx).Int("cell_z", cz).Msg("placed primitive")
	case ButtonRight:
		if p, ok := m.obj.PrimitiveAt(ev.World); ok {
			_ = m.obj.RemovePrimitive(p.ID)
		}
	}
}

func (m *PrimitiveMode) currentHeight() float64 {
	if m.height == nil {
		return math.NaN()
	}
	return m.height()
}
