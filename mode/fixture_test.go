package mode

import (
	"testing"

	"github.com/milk9111/worldmap/event"
	"github.com/milk9111/worldmap/geom"
	"github.com/milk9111/worldmap/gfx"
	"github.com/milk9111/worldmap/grid"
	"github.com/milk9111/worldmap/render"
	"github.com/milk9111/worldmap/viewport"
	"github.com/milk9111/worldmap/worldmap"
)

// at builds a pointer event for a top-down camera with a zero-size viewport,
// where screen coordinates equal world X/Z.
func at(x, z float64) PointerEvent {
	return PointerEvent{World: geom.V3(x, 0, z), Screen: geom.Vec2{X: x, Y: z}}
}

func click(x, z float64, clicks int) PointerEvent {
	ev := at(x, z)
	ev.Clicks = clicks
	return ev
}

type recordingPanel struct {
	calls []string
	shown map[string]string
}

func (p *recordingPanel) Open() { p.calls = append(p.calls, "open") }
func (p *recordingPanel) Show(id string, kind event.Kind, props map[string]string) {
	p.calls = append(p.calls, "show")
	p.shown = props
}
func (p *recordingPanel) Clear() { p.calls = append(p.calls, "clear"); p.shown = nil }
func (p *recordingPanel) Close() { p.calls = append(p.calls, "close") }

type worldFixture struct {
	model  *worldmap.Map
	sys    *gfx.System
	cam    *viewport.Camera
	bridge *render.Bridge
	host   *Host
	panel  *recordingPanel

	location *LocationMode
	path     *PathMode
	del      *DeleteMode
	edit     *EditMode

	flows []event.Event
}

func newWorldFixture(t *testing.T) *worldFixture {
	t.Helper()
	f := &worldFixture{
		model: worldmap.New(),
		sys:   gfx.NewSystem(),
		cam:   viewport.New(0, 0, viewport.WithProjection(viewport.TopDown)),
		panel: &recordingPanel{},
	}
	f.bridge = render.NewBridge(f.sys, f.cam)
	f.location = NewLocationMode(f.model, f.sys.NewLayer("location-gizmos"), f.bridge, grid.New(32, 32))
	f.path = NewPathMode(f.model, f.sys.NewLayer("path-draft"), f.bridge)
	f.del = NewDeleteMode(f.model, f.sys.NewLayer("delete-hover"), f.bridge)
	f.edit = NewEditMode(f.model, f.sys.NewLayer("selection"), f.bridge, f.panel)
	h, err := NewHost([]Mode{f.location, f.path, f.del, f.edit}, WithRenderer(f.bridge))
	if err != nil {
		t.Fatalf("NewHost: %v", err)
	}
	f.host = h
	for _, n := range []event.Name{event.NameFlowStarted, event.NameFlowEnded, event.NameFlowAborted} {
		h.On(n, func(ev event.Event) { f.flows = append(f.flows, ev) })
	}
	return f
}

func (f *worldFixture) use(t *testing.T, m Mode) {
	t.Helper()
	if err := f.host.ChangeMode(m); err != nil {
		t.Fatalf("ChangeMode(%s): %v", m.Name(), err)
	}
	if f.host.Active() != m {
		t.Fatalf("expected %s active, got %q", m.Name(), f.host.ActiveName())
	}
}

func (f *worldFixture) modelListeners() int {
	return f.model.TotalListeners()
}
