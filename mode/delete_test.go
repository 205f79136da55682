package mode

import (
	"testing"

	"github.com/milk9111/worldmap/geom"
)

func TestDeleteMode(t *testing.T) {
	cases := []struct {
		name     string
		press    PointerEvent
		wantLocs int
		wantPath int
	}{
		{"location", at(2, 2), 0, 1},
		{"path_segment", at(50, 103), 1, 0},
		{"empty", at(300, 300), 1, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newWorldFixture(t)
			f.model.AddLocation(geom.V3(0, 0, 0))
			p := f.model.AddPath()
			_ = f.model.AppendWaypoint(p.ID, geom.V3(0, 0, 100), "")
			_ = f.model.AppendWaypoint(p.ID, geom.V3(100, 0, 100), "")
			f.use(t, f.del)

			f.host.Dispatch(PointerDown(c.press))
			if got := len(f.model.Locations()); got != c.wantLocs {
				t.Fatalf("expected %d locations, got %d", c.wantLocs, got)
			}
			if got := len(f.model.Paths()); got != c.wantPath {
				t.Fatalf("expected %d paths, got %d", c.wantPath, got)
			}
			if f.host.Locked() {
				t.Fatalf("delete must not lock the host")
			}
		})
	}
}

func TestDeleteHover(t *testing.T) {
	f := newWorldFixture(t)
	f.model.AddLocation(geom.V3(0, 0, 0))
	f.use(t, f.del)
	layer := f.sys.Layer("delete-hover")

	f.host.Dispatch(PointerMove(at(1, 1)))
	if _, ok := layer.Get(hoverItem); !ok {
		t.Fatalf("no hover highlight over a location")
	}
	f.host.Dispatch(PointerMove(at(200, 200)))
	if layer.Len() != 0 {
		t.Fatalf("hover highlight kept off target")
	}
	f.host.Dispatch(PointerMove(at(1, 1)))
	_ = f.host.ChangeMode(nil)
	if layer.Len() != 0 {
		t.Fatalf("hover layer not cleared on deactivation")
	}
	f.del.Deactivate()
}
