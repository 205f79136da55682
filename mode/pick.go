package mode

import (
	"github.com/milk9111/worldmap/event"
	"github.com/milk9111/worldmap/geom"
	"github.com/milk9111/worldmap/handler"
	"github.com/milk9111/worldmap/worldmap"
)

// pickLocation returns the topmost location whose projected position is
// within r of screen.
func pickLocation(m *worldmap.Map, proj handler.Projector, screen geom.Vec2, r float64) (worldmap.Location, bool) {
	locs := m.Locations()
	for i := len(locs) - 1; i >= 0; i-- {
		if proj.ProjectToScreen(locs[i].Position).Dist(screen) <= r {
			return locs[i], true
		}
	}
	return worldmap.Location{}, false
}

// pickPath returns the topmost path with a projected segment within r of screen.
func pickPath(m *worldmap.Map, proj handler.Projector, screen geom.Vec2, r float64) (worldmap.Path, bool) {
	paths := m.Paths()
	for i := len(paths) - 1; i >= 0; i-- {
		pts := paths[i].Waypoints
		if len(pts) == 1 && proj.ProjectToScreen(pts[0]).Dist(screen) <= r {
			return paths[i], true
		}
		for j := 1; j < len(pts); j++ {
			a, b := proj.ProjectToScreen(pts[j-1]), proj.ProjectToScreen(pts[j])
			if geom.SegmentDist(screen, a, b) <= r {
				return paths[i], true
			}
		}
	}
	return worldmap.Path{}, false
}

// pickEntity prefers locations over paths, which are drawn beneath them.
func pickEntity(m *worldmap.Map, proj handler.Projector, screen geom.Vec2, r float64) (string, event.Kind) {
	if loc, ok := pickLocation(m, proj, screen, r); ok {
		return loc.ID, event.KindLocation
	}
	if p, ok := pickPath(m, proj, screen, r); ok {
		return p.ID, event.KindPath
	}
	return "", ""
}
