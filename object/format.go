package object

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"

	"github.com/milk9111/worldmap/errs"
	"github.com/milk9111/worldmap/geom"
)

// FileExt is the extension of serialized objects.
const FileExt = ".omap"

// FormatVersion is the only version Import accepts.
const FormatVersion = 1

type fileObject struct {
	Version    int               `json:"version"`
	Meta       map[string]string `json:"meta,omitempty"`
	CellSize   [2]float64        `json:"cell_size"`
	Layers     []fileLayer       `json:"layers"`
	Primitives []filePrimitive   `json:"primitives"`
}

type fileLayer struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Data     []byte     `json:"data,omitempty"`
	Position [2]float64 `json:"position"`
	Size     [2]float64 `json:"size"`
}

type filePrimitive struct {
	ID       string     `json:"id"`
	Position [3]float64 `json:"position"`
	Size     [2]float64 `json:"size"`
}

// Serialize encodes the object with meta in the header.
func (o *Object) Serialize(meta map[string]string) ([]byte, error) {
	f := fileObject{
		Version:    FormatVersion,
		Meta:       maps.Clone(meta),
		CellSize:   o.Grid.CellSize(),
		Layers:     make([]fileLayer, 0, len(o.layerOrder)),
		Primitives: make([]filePrimitive, 0, len(o.primOrder)),
	}
	for _, id := range o.layerOrder {
		l := o.layers[id]
		f.Layers = append(f.Layers, fileLayer{
			ID: l.ID, Name: l.Name, Data: l.Data,
			Position: [2]float64{l.Position.X, l.Position.Y},
			Size:     [2]float64{l.Size.X, l.Size.Y},
		})
	}
	for _, id := range o.primOrder {
		p := o.prims[id]
		f.Primitives = append(f.Primitives, filePrimitive{
			ID:       p.ID,
			Position: [3]float64{p.Position.X, p.Position.Y, p.Position.Z},
			Size:     p.Size,
		})
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal object: %w", err)
	}
	return data, nil
}

// Import replaces the object with the stream content after validating all
// of it. The grid emits CellSizeChanged when the size differs; layers and
// primitives are announced with LayerAdded and EntityAdded.
func (o *Object) Import(r io.Reader) (map[string]string, error) {
	var f fileObject
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode object: %w", err)
	}
	if f.Version != FormatVersion {
		return nil, fmt.Errorf("object version %d: %w", f.Version, errs.ErrInvalidArgument)
	}
	seen := make(map[string]bool)
	layers := make([]*Layer, 0, len(f.Layers))
	for _, fl := range f.Layers {
		if fl.ID == "" || seen[fl.ID] {
			return nil, fmt.Errorf("layer id %q missing or duplicated: %w", fl.ID, errs.ErrInvalidArgument)
		}
		seen[fl.ID] = true
		layers = append(layers, &Layer{
			ID: fl.ID, Name: fl.Name, Data: fl.Data,
			Position: geom.Vec2{X: fl.Position[0], Y: fl.Position[1]},
			Size:     geom.Vec2{X: fl.Size[0], Y: fl.Size[1]},
		})
	}
	prims := make([]*Primitive, 0, len(f.Primitives))
	for _, fp := range f.Primitives {
		if fp.ID == "" || seen[fp.ID] {
			return nil, fmt.Errorf("primitive id %q missing or duplicated: %w", fp.ID, errs.ErrInvalidArgument)
		}
		seen[fp.ID] = true
		pos, err := geom.Vec3FromSlice(fp.Position[:])
		if err != nil {
			return nil, fmt.Errorf("primitive %s: %w", fp.ID, err)
		}
		prims = append(prims, &Primitive{ID: fp.ID, Position: pos, Size: fp.Size})
	}

	o.Clear()
	if f.CellSize != o.Grid.CellSize() {
		o.Grid.SetCellSize(f.CellSize[0], f.CellSize[1])
	}
	for _, l := range layers {
		o.insertLayer(l)
	}
	for _, p := range prims {
		o.insertPrimitive(p)
	}
	return f.Meta, nil
}
