package editor

import (
	"encoding/json"
	"fmt"

	"github.com/milk9111/worldmap/config"
	"github.com/milk9111/worldmap/errs"
	"github.com/milk9111/worldmap/event"
	"github.com/milk9111/worldmap/geom"
	"github.com/milk9111/worldmap/gfx"
	"github.com/milk9111/worldmap/grid"
	"github.com/milk9111/worldmap/mode"
	"github.com/milk9111/worldmap/viewport"
	"github.com/milk9111/worldmap/worldmap"
	"golang.org/x/image/colornames"
)

// Layer names of the world-map editor, bottom to top.
const (
	LayerMap            = "map"
	LayerPaths          = "paths"
	LayerLocations      = "locations"
	LayerPathDraft      = "path-draft"
	LayerLocationGizmos = "location-gizmos"
	LayerDeleteHover    = "delete-hover"
	LayerSelection      = "selection"
)

const backgroundItem = "background"

const locationRadius = 6

// WorldMapEditor edits a world map of locations joined by paths over an
// optional background image.
type WorldMapEditor struct {
	core

	Model *worldmap.Map
	Grid  *grid.Grid

	Location *mode.LocationMode
	PathTool *mode.PathMode
	Delete   *mode.DeleteMode
	Edit     *mode.EditMode

	mapLayer, pathsLayer, locationsLayer *gfx.Layer
}

// NewWorldMapEditor builds the editor from cfg. It starts Idle with the
// camera centred on the origin.
func NewWorldMapEditor(cfg config.Config, opts ...Option) (*WorldMapEditor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	wc := cfg.World

	e := &WorldMapEditor{
		Model: worldmap.New(),
		Grid:  grid.New(wc.CellSize[0], wc.CellSize[1]),
	}
	cam := viewport.New(float64(wc.Width), float64(wc.Height),
		viewport.WithProjection(projection(wc.Projection)),
		viewport.WithZoom(cfg.Camera.Zoom))
	e.init("worldmap", worldmap.FileExt, cfg, o.log, wc.Tools, e.Model, cam)

	bg := wc.BackgroundColor()
	e.Model.SetBackgroundColor(bg)
	e.Graphics.SetBgColor(bg)

	e.mapLayer = e.Graphics.NewLayer(LayerMap)
	e.pathsLayer = e.Graphics.NewLayer(LayerPaths)
	e.locationsLayer = e.Graphics.NewLayer(LayerLocations)

	modeOpts := []mode.Option{mode.WithLogger(e.log), mode.WithThreshold(cfg.Handler.Threshold)}
	e.PathTool = mode.NewPathMode(e.Model, e.Graphics.NewLayer(LayerPathDraft), e.Bridge, modeOpts...)
	e.Location = mode.NewLocationMode(e.Model, e.Graphics.NewLayer(LayerLocationGizmos), e.Bridge, e.Grid, modeOpts...)
	e.Delete = mode.NewDeleteMode(e.Model, e.Graphics.NewLayer(LayerDeleteHover), e.Bridge, modeOpts...)
	e.Edit = mode.NewEditMode(e.Model, e.Graphics.NewLayer(LayerSelection), e.Bridge, o.panel, modeOpts...)

	if err := e.startHost([]mode.Mode{e.Location, e.PathTool, e.Delete, e.Edit}); err != nil {
		return nil, err
	}
	e.syncScene()
	return e, nil
}

// syncScene mirrors model entities and the background into the scene layers.
func (e *WorldMapEditor) syncScene() {
	event.Subscribe(&e.subs, e.Model, func(ev event.EntityAdded) { e.draw(ev.ID, ev.Kind) })
	event.Subscribe(&e.subs, e.Model, func(ev event.EntityChanged) { e.draw(ev.ID, ev.Kind) })
	event.Subscribe(&e.subs, e.Model, func(ev event.EntityRemoved) {
		e.locationsLayer.Remove(ev.ID)
		e.pathsLayer.Remove(ev.ID)
	})
	event.Subscribe(&e.subs, e.Model, func(ev event.BackgroundSet) {
		e.Graphics.SetBgColor(e.Model.BackgroundColor())
		e.mapLayer.Put(backgroundItem, gfx.Image{Name: ev.File, Data: ev.Data, Centered: true, Alpha: 1})
	})
	event.Subscribe(&e.subs, e.Model, func(event.BackgroundCleared) {
		e.Graphics.SetBgColor(e.Model.BackgroundColor())
		e.mapLayer.Remove(backgroundItem)
	})
}

func (e *WorldMapEditor) draw(id string, kind event.Kind) {
	switch kind {
	case event.KindLocation:
		loc, ok := e.Model.Location(id)
		if !ok {
			return
		}
		e.locationsLayer.Put(id, gfx.Marker{
			At:     loc.Position,
			Radius: locationRadius,
			Color:  colornames.Lightgreen,
			Label:  loc.Name,
		})
	case event.KindPath:
		p, ok := e.Model.Path(id)
		if !ok {
			return
		}
		e.pathsLayer.Put(id, gfx.Polyline{
			Points: append([]geom.Vec3(nil), p.Waypoints...),
			Width:  2,
			Color:  colornames.Wheat,
		})
	}
}

// SetBackground sets the map background image.
func (e *WorldMapEditor) SetBackground(name string, data []byte) {
	e.Model.SetBackground(name, data)
}

// ClearBackground removes the background image.
func (e *WorldMapEditor) ClearBackground() {
	e.Model.ClearBackground()
}

type clipboardEntity struct {
	ID         string            `json:"id"`
	Kind       event.Kind        `json:"kind"`
	Properties map[string]string `json:"properties"`
}

// CopySelection encodes the entity selected in the edit mode as JSON.
func (e *WorldMapEditor) CopySelection() ([]byte, error) {
	id, kind, ok := e.Edit.Selected()
	if !ok {
		return nil, fmt.Errorf("copy selection: nothing selected: %w", errs.ErrInvalidArgument)
	}
	props, err := e.Model.Properties(id)
	if err != nil {
		return nil, fmt.Errorf("copy selection: %w", err)
	}
	data, err := json.MarshalIndent(clipboardEntity{ID: id, Kind: kind, Properties: props}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("copy selection: %w", err)
	}
	return data, nil
}
