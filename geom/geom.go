// Package geom holds the small vector types shared by the editor.
package geom

import (
	"fmt"
	"math"

	"github.com/milk9111/worldmap/errs"
)

// Vec3 is a world/map-space position. Y is the vertical (height) axis; the
// ground plane is X/Z.
type Vec3 struct {
	X, Y, Z float64
}

// Vec2 is a screen-space position.
type Vec2 struct {
	X, Y float64
}

// V3 builds a Vec3.
func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// Vec3FromSlice validates a raw 3-component vector. Wrong arity or a
// non-finite component is rejected with errs.ErrInvalidArgument.
func Vec3FromSlice(p []float64) (Vec3, error) {
	if len(p) != 3 {
		return Vec3{}, fmt.Errorf("position needs 3 components, got %d: %w", len(p), errs.ErrInvalidArgument)
	}
	for i, c := range p {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return Vec3{}, fmt.Errorf("position component %d is %v: %w", i, c, errs.ErrInvalidArgument)
		}
	}
	return Vec3{X: p[0], Y: p[1], Z: p[2]}, nil
}

// Slice returns the vector as a fresh []float64.
func (v Vec3) Slice() []float64 { return []float64{v.X, v.Y, v.Z} }

// Finite reports whether every component is a finite number.
func (v Vec3) Finite() bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Dist returns the euclidean distance between two screen points.
func (v Vec2) Dist(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// SegmentDist returns the distance from p to the segment a-b.
func SegmentDist(p, a, b Vec2) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Dist(Vec2{a.X + t*dx, a.Y + t*dy})
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
