package viewport

import (
	"math"
	"testing"

	"github.com/milk9111/worldmap/event"
	"github.com/milk9111/worldmap/geom"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestProjectToScreen(t *testing.T) {
	cases := []struct {
		name string
		cam  *Camera
		p    geom.Vec3
		want geom.Vec2
	}{
		{"iso_origin_centred", New(800, 600), geom.V3(0, 0, 0), geom.Vec2{X: 400, Y: 300}},
		{"iso_x_axis", New(0, 0), geom.V3(10, 0, 0), geom.Vec2{X: 10, Y: 5}},
		{"iso_height_lifts", New(0, 0), geom.V3(0, 4, 0), geom.Vec2{X: 0, Y: -4}},
		{"iso_zoomed", New(0, 0, WithZoom(2)), geom.V3(10, 0, 10), geom.Vec2{X: 0, Y: 20}},
		{"top_down", New(100, 100, WithProjection(TopDown)), geom.V3(3, 9, 4), geom.Vec2{X: 53, Y: 54}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.cam.ProjectToScreen(c.p)
			if !near(got.X, c.want.X) || !near(got.Y, c.want.Y) {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestProjectRoundTrip(t *testing.T) {
	for _, proj := range []Projection{Isometric, TopDown} {
		t.Run(proj.String(), func(t *testing.T) {
			cam := New(1280, 720, WithProjection(proj), WithZoom(1.5))
			cam.SetPosition(40, -25)
			for _, p := range []geom.Vec3{geom.V3(0, 0, 0), geom.V3(50, 0, 70), geom.V3(-12.5, 0, 300)} {
				back := cam.ProjectToWorld(cam.ProjectToScreen(p))
				if !near(back.X, p.X) || !near(back.Z, p.Z) || back.Y != 0 {
					t.Fatalf("round trip of %v gave %v", p, back)
				}
			}
		})
	}
}

func TestCameraEmitsChanges(t *testing.T) {
	cam := New(100, 100)
	var got []event.CameraChanged
	event.Listen(cam, func(ev event.CameraChanged) { got = append(got, ev) })

	cam.SetPosition(1, 2)
	cam.Move(10, 0)
	cam.SetZoom(0)
	cam.SetZoom(2)
	cam.Resize(100, 100)
	cam.Resize(200, 100)

	if len(got) != 4 {
		t.Fatalf("expected 4 camera events, got %d: %v", len(got), got)
	}
	if got[1].X != 11 {
		t.Fatalf("expected move to x=11, got %v", got[1].X)
	}
	if got[2].Zoom != 2 {
		t.Fatalf("expected zoom 2, got %v", got[2].Zoom)
	}
}

func TestScrollToCentre(t *testing.T) {
	cam := New(100, 100)
	cam.SetPosition(100, -50)
	cam.Center(DefaultScrollDuration)
	if !cam.Scrolling() {
		t.Fatalf("expected scroll to be running")
	}
	for i := 0; i < 100 && cam.Scrolling(); i++ {
		cam.Update(1.0 / 60)
	}
	if cam.Scrolling() {
		t.Fatalf("scroll did not finish")
	}
	if x, y := cam.Position(); !near(x, 0) || !near(y, 0) {
		t.Fatalf("expected camera at origin, got (%v, %v)", x, y)
	}
}
