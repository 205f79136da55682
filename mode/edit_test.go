package mode

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/milk9111/worldmap/errs"
	"github.com/milk9111/worldmap/event"
	"github.com/milk9111/worldmap/geom"
)

func TestEditSelectAndWriteBack(t *testing.T) {
	f := newWorldFixture(t)
	loc := f.model.AddLocation(geom.V3(0, 0, 0))
	var sel []event.SelectionChanged
	event.Listen(f.edit, func(ev event.SelectionChanged) { sel = append(sel, ev) })
	f.use(t, f.edit)

	f.host.Dispatch(PointerDown(at(1, 1)))
	if id, kind, ok := f.edit.Selected(); !ok || id != loc.ID || kind != event.KindLocation {
		t.Fatalf("expected %s selected, got %q %q", loc.ID, id, kind)
	}
	if f.panel.shown["name"] != loc.Name {
		t.Fatalf("panel shows %v", f.panel.shown)
	}

	if err := f.edit.SetProperty("name", "Harbor"); err != nil {
		t.Fatalf("SetProperty: %v", err)
	}
	if f.panel.shown["name"] != "Harbor" {
		t.Fatalf("panel not refreshed after write: %v", f.panel.shown)
	}
	if err := f.edit.SetProperty("dock", "3"); err != nil {
		t.Fatalf("SetProperty: %v", err)
	}
	if err := f.edit.DeleteProperty("dock"); err != nil {
		t.Fatalf("DeleteProperty: %v", err)
	}
	if _, ok := f.panel.shown["dock"]; ok {
		t.Fatalf("panel still shows deleted property: %v", f.panel.shown)
	}
	if err := f.edit.DeleteProperty("name"); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument deleting name, got %v", err)
	}
	if got, _ := f.model.Location(loc.ID); got.Position != (geom.Vec3{}) {
		t.Fatalf("edit mode changed geometry")
	}

	f.host.Dispatch(KeyPress(KeyEscape))
	if _, _, ok := f.edit.Selected(); ok {
		t.Fatalf("escape did not deselect")
	}
	if err := f.edit.SetProperty("name", "x"); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument without selection, got %v", err)
	}
	if err := f.edit.DeleteProperty("name"); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument without selection, got %v", err)
	}

	_ = f.host.ChangeMode(nil)
	wantCalls := []string{"open", "show", "show", "show", "show", "clear", "close"}
	if diff := cmp.Diff(wantCalls, f.panel.calls); diff != "" {
		t.Fatalf("panel calls mismatch (-want +got):\n%s", diff)
	}
	wantSel := []event.SelectionChanged{{ID: loc.ID, Kind: event.KindLocation}, {}}
	if diff := cmp.Diff(wantSel, sel); diff != "" {
		t.Fatalf("selection events mismatch (-want +got):\n%s", diff)
	}
	if f.modelListeners() != 0 {
		t.Fatalf("listeners leaked: %d", f.modelListeners())
	}
}

func TestEditSelectionRemoved(t *testing.T) {
	f := newWorldFixture(t)
	p := f.model.AddPath()
	_ = f.model.AppendWaypoint(p.ID, geom.V3(0, 0, 0), "")
	_ = f.model.AppendWaypoint(p.ID, geom.V3(100, 0, 0), "")
	f.use(t, f.edit)

	f.host.Dispatch(PointerDown(at(50, 4)))
	if id, kind, _ := f.edit.Selected(); id != p.ID || kind != event.KindPath {
		t.Fatalf("expected path selected, got %q", id)
	}
	_ = f.model.Remove(p.ID)
	if _, _, ok := f.edit.Selected(); ok {
		t.Fatalf("removed entity still selected")
	}
	if f.sys.Layer("selection").Len() != 0 {
		t.Fatalf("selection highlight kept")
	}
}

func TestEditClickEmptyDeselects(t *testing.T) {
	f := newWorldFixture(t)
	loc := f.model.AddLocation(geom.V3(0, 0, 0))
	f.use(t, f.edit)
	if err := f.edit.Select(loc.ID); err != nil {
		t.Fatalf("Select: %v", err)
	}
	f.host.Dispatch(PointerDown(at(300, 300)))
	if _, _, ok := f.edit.Selected(); ok {
		t.Fatalf("click on empty space kept the selection")
	}
	if err := f.edit.Select("missing"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
