// Package object is the model of the object editor: a placement grid, a
// stack of image layers and the primitives placed on the grid.
package object

import (
	"fmt"
	"image/color"
	"slices"

	"github.com/google/uuid"
	"github.com/milk9111/worldmap/errs"
	"github.com/milk9111/worldmap/event"
	"github.com/milk9111/worldmap/geom"
	"github.com/milk9111/worldmap/grid"
)

// DefaultBackgroundColor is the object editor canvas colour.
var DefaultBackgroundColor = color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}

// Layer is an image placed on the ground plane. Position is its top-left
// corner in X/Z and Size its extent.
type Layer struct {
	ID       string
	Name     string
	Data     []byte
	Position geom.Vec2
	Size     geom.Vec2
}

// Contains reports whether p (X/Z) lies inside the layer.
func (l Layer) Contains(p geom.Vec2) bool {
	return p.X >= l.Position.X && p.X < l.Position.X+l.Size.X &&
		p.Y >= l.Position.Y && p.Y < l.Position.Y+l.Size.Y
}

// Primitive is a box placed on the grid. Position.Y is its height.
type Primitive struct {
	ID       string
	Position geom.Vec3
	Size     [2]float64
}

// Object is the object-editor model.
type Object struct {
	event.Emitter

	Grid *grid.Grid

	layers     map[string]*Layer
	layerOrder []string
	prims      map[string]*Primitive
	primOrder  []string
}

// New returns an empty object with the given grid cell size.
func New(cellX, cellZ float64) *Object {
	return &Object{
		Grid:   grid.New(cellX, cellZ),
		layers: make(map[string]*Layer),
		prims:  make(map[string]*Primitive),
	}
}

// AddLayer puts a new layer on top of the stack and emits LayerAdded.
func (o *Object) AddLayer(name string, data []byte, size geom.Vec2) (Layer, error) {
	if name == "" {
		return Layer{}, fmt.Errorf("layer name is empty: %w", errs.ErrInvalidArgument)
	}
	if size.X <= 0 || size.Y <= 0 {
		return Layer{}, fmt.Errorf("layer %q size %v: %w", name, size, errs.ErrInvalidArgument)
	}
	l := &Layer{ID: uuid.NewString(), Name: name, Data: slices.Clone(data), Size: size}
	o.insertLayer(l)
	return copyLayer(l), nil
}

func (o *Object) insertLayer(l *Layer) {
	o.layers[l.ID] = l
	o.layerOrder = append(o.layerOrder, l.ID)
	o.Emit(event.LayerAdded{ID: l.ID, File: l.Name})
}

// MoveLayer sets the layer position and emits LayerMoved.
func (o *Object) MoveLayer(id string, pos geom.Vec2) error {
	l, ok := o.layers[id]
	if !ok {
		return errs.NewNotFound(string(event.KindLayer), id)
	}
	l.Position = pos
	o.Emit(event.LayerMoved{ID: id, Position: pos})
	return nil
}

// RemoveLayer deletes a layer and emits EntityRemoved.
func (o *Object) RemoveLayer(id string) error {
	if _, ok := o.layers[id]; !ok {
		return errs.NewNotFound(string(event.KindLayer), id)
	}
	delete(o.layers, id)
	o.layerOrder = slices.DeleteFunc(o.layerOrder, func(s string) bool { return s == id })
	o.Emit(event.EntityRemoved{ID: id, Kind: event.KindLayer})
	return nil
}

func (o *Object) Layer(id string) (Layer, bool) {
	l, ok := o.layers[id]
	if !ok {
		return Layer{}, false
	}
	return copyLayer(l), true
}

// Layers returns the layers bottom to top.
func (o *Object) Layers() []Layer {
	out := make([]Layer, 0, len(o.layerOrder))
	for _, id := range o.layerOrder {
		out = append(out, copyLayer(o.layers[id]))
	}
	return out
}

// LayerAt returns the topmost layer containing p.
func (o *Object) LayerAt(p geom.Vec2) (Layer, bool) {
	for i := len(o.layerOrder) - 1; i >= 0; i-- {
		l := o.layers[o.layerOrder[i]]
		if l.Contains(p) {
			return copyLayer(l), true
		}
	}
	return Layer{}, false
}

// AddPrimitive places a primitive at an already snapped position, sized to
// the current grid cell, and emits EntityAdded.
func (o *Object) AddPrimitive(pos geom.Vec3) (Primitive, error) {
	if !pos.Finite() {
		return Primitive{}, fmt.Errorf("primitive position %v: %w", pos, errs.ErrInvalidArgument)
	}
	p := &Primitive{ID: uuid.NewString(), Position: pos, Size: o.Grid.CellSize()}
	o.insertPrimitive(p)
	return *p, nil
}

func (o *Object) insertPrimitive(p *Primitive) {
	o.prims[p.ID] = p
	o.primOrder = append(o.primOrder, p.ID)
	o.Emit(event.EntityAdded{ID: p.ID, Kind: event.KindPrimitive})
}

// RemovePrimitive deletes a primitive and emits EntityRemoved.
func (o *Object) RemovePrimitive(id string) error {
	if _, ok := o.prims[id]; !ok {
		return errs.NewNotFound(string(event.KindPrimitive), id)
	}
	delete(o.prims, id)
	o.primOrder = slices.DeleteFunc(o.primOrder, func(s string) bool { return s == id })
	o.Emit(event.EntityRemoved{ID: id, Kind: event.KindPrimitive})
	return nil
}

func (o *Object) Primitive(id string) (Primitive, bool) {
	p, ok := o.prims[id]
	if !ok {
		return Primitive{}, false
	}
	return *p, true
}

// Primitives returns primitives in placement order.
func (o *Object) Primitives() []Primitive {
	out := make([]Primitive, 0, len(o.primOrder))
	for _, id := range o.primOrder {
		out = append(out, *o.prims[id])
	}
	return out
}

// PrimitiveAt returns the primitive whose footprint contains p on X/Z.
func (o *Object) PrimitiveAt(p geom.Vec3) (Primitive, bool) {
	for i := len(o.primOrder) - 1; i >= 0; i-- {
		pr := o.prims[o.primOrder[i]]
		if p.X >= pr.Position.X && p.X < pr.Position.X+pr.Size[0] &&
			p.Z >= pr.Position.Z && p.Z < pr.Position.Z+pr.Size[1] {
			return *pr, true
		}
	}
	return Primitive{}, false
}

// Clear removes every layer and primitive.
func (o *Object) Clear() {
	for _, id := range slices.Clone(o.primOrder) {
		_ = o.RemovePrimitive(id)
	}
	for _, id := range slices.Clone(o.layerOrder) {
		_ = o.RemoveLayer(id)
	}
}

func copyLayer(l *Layer) Layer {
	out := *l
	out.Data = slices.Clone(l.Data)
	return out
}
