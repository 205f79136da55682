package editor

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/milk9111/worldmap/config"
	"github.com/milk9111/worldmap/errs"
	"github.com/milk9111/worldmap/event"
	"github.com/milk9111/worldmap/geom"
	"github.com/milk9111/worldmap/gfx"
	"github.com/milk9111/worldmap/mode"
	"github.com/milk9111/worldmap/object"
	"github.com/milk9111/worldmap/viewport"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/colornames"
	_ "golang.org/x/image/webp"
)

// Layer names of the object editor, bottom to top.
const (
	LayerGrid       = "grid"
	LayerImages     = "images"
	LayerPrimitives = "primitives"
	LayerPreview    = "primitive-preview"
	LayerOutline    = "layer-outline"
)

// ObjectEditor edits an object: image layers on the ground plane and
// primitives placed on a grid.
type ObjectEditor struct {
	core

	Model *object.Object

	Primitive *mode.PrimitiveMode
	Layer     *mode.LayerMode

	height float64

	gridLayer, imageLayer, primLayer *gfx.Layer
}

// NewObjectEditor builds the object editor from cfg. The view is top-down.
func NewObjectEditor(cfg config.Config, opts ...Option) (*ObjectEditor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	oc := cfg.Object

	e := &ObjectEditor{
		Model:  object.New(oc.CellSize[0], oc.CellSize[1]),
		height: math.NaN(),
	}
	cam := viewport.New(float64(oc.Width), float64(oc.Height),
		viewport.WithProjection(viewport.TopDown),
		viewport.WithZoom(cfg.Camera.Zoom))
	e.init("object", object.FileExt, cfg, o.log, oc.Tools, e.Model, cam)
	e.Graphics.SetBgColor(oc.BackgroundColor())

	e.gridLayer = e.Graphics.NewLayer(LayerGrid)
	e.imageLayer = e.Graphics.NewLayer(LayerImages)
	e.primLayer = e.Graphics.NewLayer(LayerPrimitives)

	modeOpts := []mode.Option{mode.WithLogger(e.log), mode.WithThreshold(cfg.Handler.Threshold)}
	e.Primitive = mode.NewPrimitiveMode(e.Model, e.Graphics.NewLayer(LayerPreview), e.Height, modeOpts...)
	e.Layer = mode.NewLayerMode(e.Model, e.Graphics.NewLayer(LayerOutline), modeOpts...)

	if err := e.startHost([]mode.Mode{e.Primitive, e.Layer}); err != nil {
		return nil, err
	}
	e.syncScene()
	e.drawGrid()
	return e, nil
}

func (e *ObjectEditor) syncScene() {
	event.Subscribe(&e.subs, e.Model.Grid, func(event.CellSizeChanged) { e.drawGrid() })
	event.Subscribe(&e.subs, e.Model, func(ev event.LayerAdded) { e.drawImage(ev.ID) })
	event.Subscribe(&e.subs, e.Model, func(ev event.LayerMoved) { e.drawImage(ev.ID) })
	event.Subscribe(&e.subs, e.Model, func(ev event.EntityAdded) {
		if ev.Kind != event.KindPrimitive {
			return
		}
		if p, ok := e.Model.Primitive(ev.ID); ok {
			e.primLayer.Put(p.ID, gfx.Box{At: p.Position, Size: p.Size, Color: colornames.Steelblue, Filled: true})
		}
	})
	event.Subscribe(&e.subs, e.Model, func(ev event.EntityRemoved) {
		e.imageLayer.Remove(ev.ID)
		e.primLayer.Remove(ev.ID)
	})
}

func (e *ObjectEditor) drawImage(id string) {
	l, ok := e.Model.Layer(id)
	if !ok {
		return
	}
	e.imageLayer.Put(id, gfx.Image{Name: l.Name, Data: l.Data, At: geom.V3(l.Position.X, 0, l.Position.Y), Alpha: 1})
}

// drawGrid covers the viewport around the origin with cell lines.
func (e *ObjectEditor) drawGrid() {
	e.gridLayer.Clear()
	cell := e.Model.Grid.CellSize()
	w, h := e.Camera.Size()
	halfX := math.Ceil(w/2/cell[0]) * cell[0]
	halfZ := math.Ceil(h/2/cell[1]) * cell[1]
	n := 0
	for x := -halfX; x <= halfX; x += cell[0] {
		e.gridLayer.Put(fmt.Sprintf("x%d", n), gfx.Polyline{
			Points: []geom.Vec3{geom.V3(x, 0, -halfZ), geom.V3(x, 0, halfZ)},
			Width:  1,
			Color:  colornames.Lightgray,
		})
		n++
	}
	n = 0
	for z := -halfZ; z <= halfZ; z += cell[1] {
		e.gridLayer.Put(fmt.Sprintf("z%d", n), gfx.Polyline{
			Points: []geom.Vec3{geom.V3(-halfX, 0, z), geom.V3(halfX, 0, z)},
			Width:  1,
			Color:  colornames.Lightgray,
		})
		n++
	}
}

// SetCellSize changes the grid cell. Non-positive or NaN sizes are ignored
// and reported as false.
func (e *ObjectEditor) SetCellSize(x, z float64) bool {
	return e.Model.Grid.SetCellSize(x, z)
}

// SetHeight sets the primitive height. NaN clears it, after which
// primitives take the grid's X cell size as height.
func (e *ObjectEditor) SetHeight(v float64) {
	if math.IsInf(v, 0) {
		v = math.NaN()
	}
	e.height = v
}

// Height returns the primitive height, NaN when unset.
func (e *ObjectEditor) Height() float64 { return e.height }

// AddLayer adds an image layer sized to the decoded image, at the origin.
func (e *ObjectEditor) AddLayer(name string, data []byte) (object.Layer, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return object.Layer{}, fmt.Errorf("add layer %s: %w: %v", name, errs.ErrInvalidArgument, err)
	}
	return e.Model.AddLayer(name, data, geom.Vec2{X: float64(cfg.Width), Y: float64(cfg.Height)})
}
