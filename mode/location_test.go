package mode

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/milk9111/worldmap/event"
	"github.com/milk9111/worldmap/geom"
	"github.com/milk9111/worldmap/gfx"
)

func TestLocationPlacementSnaps(t *testing.T) {
	f := newWorldFixture(t)
	f.use(t, f.location)

	f.host.Dispatch(PointerDown(at(50, 70)))

	locs := f.model.Locations()
	if len(locs) != 1 {
		t.Fatalf("expected one location, got %d", len(locs))
	}
	if locs[0].Position != geom.V3(32, 0, 64) {
		t.Fatalf("expected snapped position (32, 0, 64), got %v", locs[0].Position)
	}
	h, ok := f.location.Handler(locs[0].ID)
	if !ok || !h.IsEnabled() {
		t.Fatalf("expected an enabled handler for the new location")
	}
	if diff := cmp.Diff([]event.Direction{event.DirX, event.DirZ}, h.Directions()); diff != "" {
		t.Fatalf("directions mismatch (-want +got):\n%s", diff)
	}
	it, ok := f.sys.Layer("location-gizmos").Get(locs[0].ID)
	if !ok || it.(gfx.Marker).At != geom.V3(32, 0, 64) {
		t.Fatalf("gizmo missing or misplaced: %v", it)
	}
	if f.host.Locked() {
		t.Fatalf("placement must not lock the host")
	}
}

func TestLocationDrag(t *testing.T) {
	f := newWorldFixture(t)
	loc := f.model.AddLocation(geom.V3(32, 0, 64))
	f.use(t, f.location)

	f.host.Dispatch(PointerDown(at(35, 66)))
	if f.host.CurrentFlow() != FlowDragLocation || !f.host.Locked() {
		t.Fatalf("expected drag flow, got %q", f.host.CurrentFlow())
	}
	if id, ok := f.location.Dragging(); !ok || id != loc.ID {
		t.Fatalf("expected %s dragged", loc.ID)
	}
	if len(f.model.Locations()) != 1 {
		t.Fatalf("pressing a handler must not add a location")
	}

	if err := f.host.ChangeMode(f.path); err != nil || f.host.Active() != f.location {
		t.Fatalf("switch during drag should be ignored: %v", err)
	}

	f.host.Dispatch(PointerMove(at(100, 100)))
	f.host.Dispatch(PointerUp(at(100, 100)))

	got, _ := f.model.Location(loc.ID)
	if got.Position != geom.V3(96, 0, 96) {
		t.Fatalf("expected (96, 0, 96), got %v", got.Position)
	}
	h, _ := f.location.Handler(loc.ID)
	if pos, _ := h.Position(); pos != got.Position {
		t.Fatalf("handler did not follow the model: %v", pos)
	}
	want := []event.Event{
		event.FlowStarted{Flow: FlowDragLocation, Mode: NameLocation},
		event.FlowEnded{Flow: FlowDragLocation, Mode: NameLocation},
	}
	if diff := cmp.Diff(want, f.flows); diff != "" {
		t.Fatalf("flow events mismatch (-want +got):\n%s", diff)
	}
	if f.host.Locked() {
		t.Fatalf("host still locked after drag")
	}
}

func TestLocationDragEscapeRestores(t *testing.T) {
	f := newWorldFixture(t)
	loc := f.model.AddLocation(geom.V3(0, 0, 0))
	f.use(t, f.location)
	f.host.Dispatch(PointerDown(at(0, 0)))
	f.host.Dispatch(PointerMove(at(64, 64)))
	f.host.Dispatch(KeyPress(KeyEscape))

	if got, _ := f.model.Location(loc.ID); got.Position != (geom.Vec3{}) {
		t.Fatalf("escape did not restore the location: %v", got.Position)
	}
	if f.host.Locked() {
		t.Fatalf("host still locked after escape")
	}
	if f.flows[len(f.flows)-1] != (event.FlowAborted{Flow: FlowDragLocation, Mode: NameLocation}) {
		t.Fatalf("expected FlowAborted last, got %v", f.flows)
	}
}

func TestLocationDeactivateMidDrag(t *testing.T) {
	f := newWorldFixture(t)
	before := f.modelListeners()
	loc := f.model.AddLocation(geom.V3(0, 0, 0))
	f.use(t, f.location)
	f.host.Dispatch(PointerDown(at(0, 0)))
	f.host.Dispatch(PointerMove(at(64, 64)))

	f.location.Deactivate()
	f.location.Deactivate()

	if got, _ := f.model.Location(loc.ID); got.Position != (geom.Vec3{}) {
		t.Fatalf("deactivation kept the partial move: %v", got.Position)
	}
	if f.host.Locked() || f.host.CurrentFlow() != "" {
		t.Fatalf("host still in flow after deactivation")
	}
	if f.modelListeners() != before {
		t.Fatalf("listeners leaked: %d before, %d after", before, f.modelListeners())
	}
	if f.sys.Layer("location-gizmos").Len() != 0 {
		t.Fatalf("gizmo layer not cleared")
	}
	if f.bridge.Tracked() != 0 {
		t.Fatalf("handlers still tracked by the bridge")
	}
	if _, ok := f.location.Handler(loc.ID); ok {
		t.Fatalf("handlers survived deactivation")
	}
}

func TestLocationHandlersFollowModel(t *testing.T) {
	f := newWorldFixture(t)
	f.use(t, f.location)
	loc := f.model.AddLocation(geom.V3(10, 0, 10))
	if _, ok := f.location.Handler(loc.ID); !ok {
		t.Fatalf("no handler for a location added while active")
	}
	_ = f.model.RemoveLocation(loc.ID)
	if _, ok := f.location.Handler(loc.ID); ok {
		t.Fatalf("handler kept after the location was removed")
	}
	if f.bridge.Tracked() != 0 {
		t.Fatalf("removed handler still tracked")
	}
}

func TestLocationGizmoFollowsCamera(t *testing.T) {
	f := newWorldFixture(t)
	loc := f.model.AddLocation(geom.V3(10, 0, 10))
	f.use(t, f.location)
	h, _ := f.location.Handler(loc.ID)
	f.cam.SetPosition(10, 10)
	if h.ScreenPosition() != (geom.Vec2{}) {
		t.Fatalf("handler not reprojected, screen %v", h.ScreenPosition())
	}
	// the old screen spot no longer hits
	f.host.Dispatch(PointerDown(PointerEvent{World: geom.V3(20, 0, 20), Screen: geom.Vec2{X: 10, Y: 10}}))
	if _, dragging := f.location.Dragging(); dragging {
		t.Fatalf("stale screen position was hit")
	}
}
