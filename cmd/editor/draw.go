package main

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/worldmap/geom"
	"github.com/milk9111/worldmap/gfx"
)

// imageCache keeps decoded layer images keyed by name and content hash.
type imageCache struct {
	images map[string]*ebiten.Image
	failed map[string]bool
}

func newImageCache() *imageCache {
	return &imageCache{images: make(map[string]*ebiten.Image), failed: make(map[string]bool)}
}

func (c *imageCache) get(name string, data []byte) *ebiten.Image {
	h := fnv.New64a()
	_, _ = h.Write(data)
	key := fmt.Sprintf("%s:%x", name, h.Sum64())
	if img, ok := c.images[key]; ok {
		return img
	}
	if c.failed[key] {
		return nil
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		c.failed[key] = true
		return nil
	}
	img := ebiten.NewImageFromImage(src)
	c.images[key] = img
	return img
}

func (g *EditorGame) project(p geom.Vec3) (float32, float32) {
	s := g.cam.ProjectToScreen(p)
	return float32(s.X), float32(s.Y)
}

func (g *EditorGame) drawItem(screen *ebiten.Image, it gfx.Item) {
	switch v := it.(type) {
	case gfx.Marker:
		x, y := g.project(v.At)
		if v.Ring {
			vector.StrokeCircle(screen, x, y, float32(v.Radius), 2, v.Color, true)
		} else {
			vector.DrawFilledCircle(screen, x, y, float32(v.Radius), v.Color, true)
		}
		if v.Label != "" {
			g.drawLabel(screen, v.Label, x+float32(v.Radius)+4, y-8, color.White)
		}
	case gfx.Polyline:
		g.drawPolyline(screen, v.Points, v.Closed, float32(v.Width), v.Color)
	case gfx.Box:
		pts := v.Bounds()
		if v.Filled {
			g.fillBounds(screen, pts, v.Color)
		}
		g.drawPolyline(screen, pts, true, 1, v.Color)
	case gfx.Image:
		g.drawImage(screen, v)
	}
}

func (g *EditorGame) drawPolyline(screen *ebiten.Image, pts []geom.Vec3, closed bool, width float32, c color.RGBA) {
	if len(pts) < 2 {
		return
	}
	if width <= 0 {
		width = 1
	}
	for i := 1; i < len(pts); i++ {
		x0, y0 := g.project(pts[i-1])
		x1, y1 := g.project(pts[i])
		vector.StrokeLine(screen, x0, y0, x1, y1, width, c, true)
	}
	if closed {
		x0, y0 := g.project(pts[len(pts)-1])
		x1, y1 := g.project(pts[0])
		vector.StrokeLine(screen, x0, y0, x1, y1, width, c, true)
	}
}

// fillBounds fills the screen rectangle around pts.
func (g *EditorGame) fillBounds(screen *ebiten.Image, pts []geom.Vec3, c color.RGBA) {
	minX, minY := float32(math.MaxFloat32), float32(math.MaxFloat32)
	maxX, maxY := -minX, -minY
	for _, p := range pts {
		x, y := g.project(p)
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	fill := c
	fill.A = 0x80
	vector.DrawFilledRect(screen, minX, minY, maxX-minX, maxY-minY, fill, false)
}

func (g *EditorGame) drawImage(screen *ebiten.Image, v gfx.Image) {
	img := g.images.get(v.Name, v.Data)
	if img == nil {
		return
	}
	zoom := g.cam.Zoom()
	op := &ebiten.DrawImageOptions{}
	if v.Centered {
		b := img.Bounds()
		op.GeoM.Translate(-float64(b.Dx())/2, -float64(b.Dy())/2)
	}
	if !v.Screen {
		op.GeoM.Scale(zoom, zoom)
		x, y := g.project(v.At)
		op.GeoM.Translate(float64(x), float64(y))
	}
	if v.Alpha > 0 && v.Alpha < 1 {
		op.ColorScale.ScaleAlpha(float32(v.Alpha))
	}
	screen.DrawImage(img, op)
}

func (g *EditorGame) drawLabel(screen *ebiten.Image, s string, x, y float32, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, *g.ui.fontFace, op)
}
