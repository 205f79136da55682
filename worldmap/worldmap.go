// Package worldmap is the world-map model edited by the map modes:
// locations, the paths between them and a background image.
package worldmap

import (
	"fmt"
	"image/color"
	"maps"
	"slices"

	"github.com/google/uuid"
	"github.com/milk9111/worldmap/errs"
	"github.com/milk9111/worldmap/event"
	"github.com/milk9111/worldmap/geom"
)

// PropName is the property key that maps to an entity's Name.
const PropName = "name"

// DefaultBackgroundColor is used for new maps.
var DefaultBackgroundColor = color.RGBA{R: 0x2b, G: 0x2b, B: 0x3a, A: 0xff}

// Location is a named point of interest on the map.
type Location struct {
	ID       string
	Name     string
	Position geom.Vec3
	Props    map[string]string
}

// Path is a polyline of waypoints. From and To name the locations its first
// and last waypoints are attached to, if any.
type Path struct {
	ID        string
	Name      string
	Waypoints []geom.Vec3
	From      string
	To        string
	Props     map[string]string
}

// Background is the image drawn under the map.
type Background struct {
	Name string
	Data []byte
}

// Map holds the world-map entities and emits an event for every change.
// The getters return copies.
type Map struct {
	event.Emitter

	bgColor    color.RGBA
	background *Background

	locations map[string]*Location
	locOrder  []string
	paths     map[string]*Path
	pathOrder []string
	seq       int
}

// New returns an empty map.
func New() *Map {
	return &Map{
		bgColor:   DefaultBackgroundColor,
		locations: make(map[string]*Location),
		paths:     make(map[string]*Path),
	}
}

func (m *Map) BackgroundColor() color.RGBA { return m.bgColor }

func (m *Map) SetBackgroundColor(c color.RGBA) { m.bgColor = c }

// Background returns the background image, if one is set.
func (m *Map) Background() (Background, bool) {
	if m.background == nil {
		return Background{}, false
	}
	return Background{Name: m.background.Name, Data: slices.Clone(m.background.Data)}, true
}

// SetBackground replaces the background image and emits BackgroundSet.
func (m *Map) SetBackground(name string, data []byte) {
	m.background = &Background{Name: name, Data: slices.Clone(data)}
	m.Emit(event.BackgroundSet{File: name, Data: slices.Clone(data)})
}

// ClearBackground removes the background and emits BackgroundCleared.
func (m *Map) ClearBackground() {
	m.background = nil
	m.Emit(event.BackgroundCleared{})
}

// AddLocation creates a location at p and emits EntityAdded.
func (m *Map) AddLocation(p geom.Vec3) Location {
	m.seq++
	loc := &Location{
		ID:       uuid.NewString(),
		Name:     fmt.Sprintf("Location %d", m.seq),
		Position: p,
		Props:    map[string]string{},
	}
	m.insertLocation(loc)
	return copyLocation(loc)
}

func (m *Map) insertLocation(loc *Location) {
	m.locations[loc.ID] = loc
	m.locOrder = append(m.locOrder, loc.ID)
	m.Emit(event.EntityAdded{ID: loc.ID, Kind: event.KindLocation})
}

// Location returns a copy of the location with the given id.
func (m *Map) Location(id string) (Location, bool) {
	loc, ok := m.locations[id]
	if !ok {
		return Location{}, false
	}
	return copyLocation(loc), true
}

// Locations returns every location in creation order.
func (m *Map) Locations() []Location {
	out := make([]Location, 0, len(m.locOrder))
	for _, id := range m.locOrder {
		out = append(out, copyLocation(m.locations[id]))
	}
	return out
}

// MoveLocation moves a location. Path endpoints attached to it follow.
func (m *Map) MoveLocation(id string, p geom.Vec3) error {
	loc, ok := m.locations[id]
	if !ok {
		return errs.NewNotFound(string(event.KindLocation), id)
	}
	loc.Position = p
	m.Emit(event.EntityChanged{ID: id, Kind: event.KindLocation})
	for _, pid := range slices.Clone(m.pathOrder) {
		path := m.paths[pid]
		if path == nil || len(path.Waypoints) == 0 {
			continue
		}
		changed := false
		if path.From == id {
			path.Waypoints[0] = p
			changed = true
		}
		if path.To == id {
			path.Waypoints[len(path.Waypoints)-1] = p
			changed = true
		}
		if changed {
			m.Emit(event.EntityChanged{ID: pid, Kind: event.KindPath})
		}
	}
	return nil
}

// RemoveLocation deletes a location and detaches the paths that ended on it.
func (m *Map) RemoveLocation(id string) error {
	if _, ok := m.locations[id]; !ok {
		return errs.NewNotFound(string(event.KindLocation), id)
	}
	delete(m.locations, id)
	m.locOrder = slices.DeleteFunc(m.locOrder, func(s string) bool { return s == id })
	m.Emit(event.EntityRemoved{ID: id, Kind: event.KindLocation})
	for _, pid := range slices.Clone(m.pathOrder) {
		path := m.paths[pid]
		if path == nil || (path.From != id && path.To != id) {
			continue
		}
		if path.From == id {
			path.From = ""
		}
		if path.To == id {
			path.To = ""
		}
		m.Emit(event.EntityChanged{ID: pid, Kind: event.KindPath})
	}
	return nil
}

// AddPath creates an empty path and emits EntityAdded.
func (m *Map) AddPath() Path {
	m.seq++
	path := &Path{
		ID:    uuid.NewString(),
		Name:  fmt.Sprintf("Path %d", m.seq),
		Props: map[string]string{},
	}
	m.insertPath(path)
	return copyPath(path)
}

func (m *Map) insertPath(path *Path) {
	m.paths[path.ID] = path
	m.pathOrder = append(m.pathOrder, path.ID)
	m.Emit(event.EntityAdded{ID: path.ID, Kind: event.KindPath})
}

// AppendWaypoint adds p to the end of the path. attach names the location p
// was snapped to, or is empty. The first attached waypoint sets From; every
// later waypoint rewrites To.
func (m *Map) AppendWaypoint(id string, p geom.Vec3, attach string) error {
	path, ok := m.paths[id]
	if !ok {
		return errs.NewNotFound(string(event.KindPath), id)
	}
	if attach != "" {
		if _, ok := m.locations[attach]; !ok {
			return errs.NewNotFound(string(event.KindLocation), attach)
		}
	}
	path.Waypoints = append(path.Waypoints, p)
	if len(path.Waypoints) == 1 {
		path.From = attach
	} else {
		path.To = attach
	}
	m.Emit(event.EntityChanged{ID: id, Kind: event.KindPath})
	return nil
}

// Path returns a copy of the path with the given id.
func (m *Map) Path(id string) (Path, bool) {
	path, ok := m.paths[id]
	if !ok {
		return Path{}, false
	}
	return copyPath(path), true
}

// Paths returns every path in creation order.
func (m *Map) Paths() []Path {
	out := make([]Path, 0, len(m.pathOrder))
	for _, id := range m.pathOrder {
		out = append(out, copyPath(m.paths[id]))
	}
	return out
}

// RemovePath deletes a path and emits EntityRemoved.
func (m *Map) RemovePath(id string) error {
	if _, ok := m.paths[id]; !ok {
		return errs.NewNotFound(string(event.KindPath), id)
	}
	delete(m.paths, id)
	m.pathOrder = slices.DeleteFunc(m.pathOrder, func(s string) bool { return s == id })
	m.Emit(event.EntityRemoved{ID: id, Kind: event.KindPath})
	return nil
}

// Lookup reports the kind of the entity with the given id.
func (m *Map) Lookup(id string) (event.Kind, bool) {
	if _, ok := m.locations[id]; ok {
		return event.KindLocation, true
	}
	if _, ok := m.paths[id]; ok {
		return event.KindPath, true
	}
	return "", false
}

// Remove deletes a location or a path by id.
func (m *Map) Remove(id string) error {
	kind, ok := m.Lookup(id)
	if !ok {
		return errs.NewNotFound("entity", id)
	}
	if kind == event.KindLocation {
		return m.RemoveLocation(id)
	}
	return m.RemovePath(id)
}

// Properties returns the editable properties of an entity, name included.
func (m *Map) Properties(id string) (map[string]string, error) {
	name, props, ok := m.propsOf(id)
	if !ok {
		return nil, errs.NewNotFound("entity", id)
	}
	out := maps.Clone(props)
	if out == nil {
		out = map[string]string{}
	}
	out[PropName] = name
	return out, nil
}

// SetProperty writes one property and emits EntityChanged. The "name" key
// renames the entity.
func (m *Map) SetProperty(id, key, value string) error {
	if key == "" {
		return fmt.Errorf("empty property key: %w", errs.ErrInvalidArgument)
	}
	kind, ok := m.Lookup(id)
	if !ok {
		return errs.NewNotFound("entity", id)
	}
	switch kind {
	case event.KindLocation:
		loc := m.locations[id]
		if key == PropName {
			loc.Name = value
		} else {
			loc.Props[key] = value
		}
	case event.KindPath:
		path := m.paths[id]
		if key == PropName {
			path.Name = value
		} else {
			path.Props[key] = value
		}
	}
	m.Emit(event.EntityChanged{ID: id, Kind: kind})
	return nil
}

// DeleteProperty removes a free-form property. The name cannot be deleted.
func (m *Map) DeleteProperty(id, key string) error {
	if key == PropName {
		return fmt.Errorf("property %q cannot be deleted: %w", key, errs.ErrInvalidArgument)
	}
	_, props, ok := m.propsOf(id)
	if !ok {
		return errs.NewNotFound("entity", id)
	}
	if _, exists := props[key]; !exists {
		return nil
	}
	delete(props, key)
	kind, _ := m.Lookup(id)
	m.Emit(event.EntityChanged{ID: id, Kind: kind})
	return nil
}

// Clear removes every entity and the background.
func (m *Map) Clear() {
	for _, id := range slices.Clone(m.pathOrder) {
		_ = m.RemovePath(id)
	}
	for _, id := range slices.Clone(m.locOrder) {
		_ = m.RemoveLocation(id)
	}
	if m.background != nil {
		m.ClearBackground()
	}
	m.seq = 0
}

func (m *Map) propsOf(id string) (string, map[string]string, bool) {
	if loc, ok := m.locations[id]; ok {
		return loc.Name, loc.Props, true
	}
	if path, ok := m.paths[id]; ok {
		return path.Name, path.Props, true
	}
	return "", nil, false
}

func copyLocation(l *Location) Location {
	out := *l
	out.Props = maps.Clone(l.Props)
	return out
}

func copyPath(p *Path) Path {
	out := *p
	out.Waypoints = slices.Clone(p.Waypoints)
	out.Props = maps.Clone(p.Props)
	return out
}
