// Package grid holds the placement grid and its snap rule.
package grid

import (
	"math"

	"github.com/milk9111/worldmap/event"
	"github.com/milk9111/worldmap/geom"
)

// DefaultCellSize is used when no cell size is configured.
const DefaultCellSize = 32

// Grid is the active placement grid. CellSize[0] spans the X axis and
// CellSize[1] the Z axis of the ground plane.
type Grid struct {
	event.Emitter
	cell [2]float64
}

// New returns a grid with the given cell size. Invalid sizes fall back to
// DefaultCellSize.
func New(x, z float64) *Grid {
	g := &Grid{cell: [2]float64{DefaultCellSize, DefaultCellSize}}
	if valid(x) {
		g.cell[0] = x
	}
	if valid(z) {
		g.cell[1] = z
	}
	return g
}

// CellSize returns the current cell size.
func (g *Grid) CellSize() [2]float64 {
	return g.cell
}

// SetCellSize replaces the cell size and emits CellSizeChanged. Values that
// are not positive finite numbers are ignored and false is returned.
func (g *Grid) SetCellSize(x, z float64) bool {
	if !valid(x) || !valid(z) {
		return false
	}
	g.cell = [2]float64{x, z}
	g.Emit(event.CellSizeChanged{CellSize: g.cell})
	return true
}

// Snap floors X and Z to the cell they fall in. Y is left untouched.
func (g *Grid) Snap(p geom.Vec3) geom.Vec3 {
	return geom.Vec3{
		X: math.Floor(p.X/g.cell[0]) * g.cell[0],
		Y: p.Y,
		Z: math.Floor(p.Z/g.cell[1]) * g.cell[1],
	}
}

// Place snaps p and sets its height. A NaN height means the height control
// is unset and the X cell size is used instead.
func (g *Grid) Place(p geom.Vec3, height float64) geom.Vec3 {
	s := g.Snap(p)
	if math.IsNaN(height) || math.IsInf(height, 0) {
		height = g.cell[0]
	}
	s.Y = height
	return s
}

// Cell returns the integer cell coordinates p falls in.
func (g *Grid) Cell(p geom.Vec3) (int, int) {
	return int(math.Floor(p.X / g.cell[0])), int(math.Floor(p.Z / g.cell[1]))
}

func valid(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
