package worldmap

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"

	"github.com/milk9111/worldmap/errs"
	"github.com/milk9111/worldmap/geom"
	"github.com/milk9111/worldmap/gfx"
)

// FileExt is the extension of serialized world maps.
const FileExt = ".wmap"

// FormatVersion is the only version Import accepts.
const FormatVersion = 1

type fileMap struct {
	Version         int               `json:"version"`
	Meta            map[string]string `json:"meta,omitempty"`
	BackgroundColor string            `json:"background_color"`
	Background      *fileBackground   `json:"background,omitempty"`
	Locations       []fileLocation    `json:"locations"`
	Paths           []filePath        `json:"paths"`
}

type fileBackground struct {
	Name string `json:"name"`
	// Data is base64 in JSON.
	Data []byte `json:"data"`
}

type fileLocation struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Position [3]float64        `json:"position"`
	Props    map[string]string `json:"props,omitempty"`
}

type filePath struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Waypoints [][3]float64      `json:"waypoints"`
	From      string            `json:"from,omitempty"`
	To        string            `json:"to,omitempty"`
	Props     map[string]string `json:"props,omitempty"`
}

// Serialize encodes the map. meta is stored verbatim in the file header.
func (m *Map) Serialize(meta map[string]string) ([]byte, error) {
	f := fileMap{
		Version:         FormatVersion,
		Meta:            maps.Clone(meta),
		BackgroundColor: gfx.FormatColor(m.bgColor),
		Locations:       make([]fileLocation, 0, len(m.locOrder)),
		Paths:           make([]filePath, 0, len(m.pathOrder)),
	}
	if m.background != nil {
		f.Background = &fileBackground{Name: m.background.Name, Data: m.background.Data}
	}
	for _, id := range m.locOrder {
		loc := m.locations[id]
		f.Locations = append(f.Locations, fileLocation{
			ID:       loc.ID,
			Name:     loc.Name,
			Position: [3]float64{loc.Position.X, loc.Position.Y, loc.Position.Z},
			Props:    loc.Props,
		})
	}
	for _, id := range m.pathOrder {
		path := m.paths[id]
		fp := filePath{ID: path.ID, Name: path.Name, From: path.From, To: path.To, Props: path.Props}
		fp.Waypoints = make([][3]float64, 0, len(path.Waypoints))
		for _, w := range path.Waypoints {
			fp.Waypoints = append(fp.Waypoints, [3]float64{w.X, w.Y, w.Z})
		}
		f.Paths = append(f.Paths, fp)
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal world map: %w", err)
	}
	return data, nil
}

// Import replaces the map content with the stream. The stream is fully
// decoded and validated before anything changes. Afterwards the map emits
// BackgroundSet or BackgroundCleared followed by one EntityAdded per
// location and path. It returns the header metadata.
func (m *Map) Import(r io.Reader) (map[string]string, error) {
	var f fileMap
	dec := json.NewDecoder(r)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode world map: %w", err)
	}
	if f.Version != FormatVersion {
		return nil, fmt.Errorf("world map version %d: %w", f.Version, errs.ErrInvalidArgument)
	}
	bg := DefaultBackgroundColor
	if f.BackgroundColor != "" {
		c, err := gfx.ParseColor(f.BackgroundColor)
		if err != nil {
			return nil, err
		}
		bg = c
	}

	locs := make([]*Location, 0, len(f.Locations))
	seen := make(map[string]bool)
	for _, fl := range f.Locations {
		if fl.ID == "" || seen[fl.ID] {
			return nil, fmt.Errorf("location id %q missing or duplicated: %w", fl.ID, errs.ErrInvalidArgument)
		}
		seen[fl.ID] = true
		pos, err := geom.Vec3FromSlice(fl.Position[:])
		if err != nil {
			return nil, fmt.Errorf("location %s: %w", fl.ID, err)
		}
		props := maps.Clone(fl.Props)
		if props == nil {
			props = map[string]string{}
		}
		locs = append(locs, &Location{ID: fl.ID, Name: fl.Name, Position: pos, Props: props})
	}
	paths := make([]*Path, 0, len(f.Paths))
	for _, fp := range f.Paths {
		if fp.ID == "" || seen[fp.ID] {
			return nil, fmt.Errorf("path id %q missing or duplicated: %w", fp.ID, errs.ErrInvalidArgument)
		}
		seen[fp.ID] = true
		path := &Path{ID: fp.ID, Name: fp.Name, From: fp.From, To: fp.To, Props: maps.Clone(fp.Props)}
		if path.Props == nil {
			path.Props = map[string]string{}
		}
		for _, w := range fp.Waypoints {
			p, err := geom.Vec3FromSlice(w[:])
			if err != nil {
				return nil, fmt.Errorf("path %s: %w", fp.ID, err)
			}
			path.Waypoints = append(path.Waypoints, p)
		}
		paths = append(paths, path)
	}
	// endpoints referring to unknown locations are dropped
	for _, path := range paths {
		if !isLocation(locs, path.From) {
			path.From = ""
		}
		if !isLocation(locs, path.To) {
			path.To = ""
		}
	}

	m.Clear()
	m.bgColor = bg
	if f.Background != nil {
		m.SetBackground(f.Background.Name, f.Background.Data)
	} else {
		m.ClearBackground()
	}
	for _, loc := range locs {
		m.insertLocation(loc)
	}
	for _, path := range paths {
		m.insertPath(path)
	}
	m.seq = len(locs) + len(paths)
	return f.Meta, nil
}

func isLocation(locs []*Location, id string) bool {
	if id == "" {
		return false
	}
	for _, l := range locs {
		if l.ID == id {
			return true
		}
	}
	return false
}
