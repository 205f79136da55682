package editor

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/milk9111/worldmap/config"
	"github.com/milk9111/worldmap/errs"
	"github.com/milk9111/worldmap/event"
	"github.com/milk9111/worldmap/geom"
	"github.com/milk9111/worldmap/gfx"
	"github.com/milk9111/worldmap/mode"
	"github.com/rs/zerolog"
)

func newWorld(t *testing.T, opts ...Option) *WorldMapEditor {
	t.Helper()
	cfg := config.Default()
	cfg.World.Projection = "top-down"
	e, err := NewWorldMapEditor(cfg, opts...)
	if err != nil {
		t.Fatalf("NewWorldMapEditor: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

// press clicks at a world position and pumps the queue.
func press(c *core, p geom.Vec3, clicks int) {
	screen := c.Bridge.ProjectToScreen(p)
	c.Pointer(mode.InputPointerDown, screen, mode.ButtonLeft, clicks, false)
	c.Pointer(mode.InputPointerUp, screen, mode.ButtonLeft, clicks, false)
	c.Update(0)
}

func TestNewWorldMapEditorRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.World.Width = 0
	if _, err := NewWorldMapEditor(cfg); !errors.Is(err, errs.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestWorldStartsIdleWithLayers(t *testing.T) {
	e := newWorld(t)
	if e.Host.State() != mode.StateIdle {
		t.Fatalf("expected idle, got %v", e.Host.State())
	}
	var names []string
	for _, l := range e.Graphics.Layers() {
		names = append(names, l.Name())
	}
	want := []string{LayerMap, LayerPaths, LayerLocations, LayerPathDraft, LayerLocationGizmos, LayerDeleteHover, LayerSelection}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("layers mismatch (-want +got):\n%s", diff)
	}
	if e.Graphics.BgColor() != config.Default().World.BackgroundColor() {
		t.Fatalf("unexpected background %v", e.Graphics.BgColor())
	}
}

func TestWorldToolHotkeys(t *testing.T) {
	e := newWorld(t)
	cases := []struct {
		key  rune
		want string
	}{
		{'1', mode.NameLocation},
		{'2', mode.NamePath},
		{'3', mode.NameDelete},
		{'4', mode.NameEdit},
	}
	for _, c := range cases {
		e.HandleKey(c.key)
		if got := e.Host.ActiveName(); got != c.want {
			t.Errorf("key %q: active = %q, want %q", c.key, got, c.want)
		}
	}
	if err := e.SelectTool("lasso"); !errors.Is(err, errs.ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
}

func TestWorldCameraKeys(t *testing.T) {
	cases := []struct {
		key    rune
		wx, wy float64
	}{
		{'w', 0, -10},
		{'S', 0, 10},
		{'a', -10, 0},
		{'d', 10, 0},
	}
	for _, c := range cases {
		t.Run(string(c.key), func(t *testing.T) {
			e := newWorld(t)
			e.HandleKey(c.key)
			if x, y := e.Camera.Position(); x != c.wx || y != c.wy {
				t.Fatalf("camera at (%v, %v), want (%v, %v)", x, y, c.wx, c.wy)
			}
		})
	}

	t.Run("center", func(t *testing.T) {
		e := newWorld(t)
		e.HandleKey('d')
		e.HandleKey('c')
		if !e.Camera.Scrolling() {
			t.Fatal("expected a scroll tween")
		}
		e.Update(1)
		if x, y := e.Camera.Position(); x != 0 || y != 0 {
			t.Fatalf("camera at (%v, %v) after recentring", x, y)
		}
	})
}

func TestWorldPlaceLocationMirrorsScene(t *testing.T) {
	e := newWorld(t)
	e.HandleKey('1')
	press(&e.core, geom.V3(50, 0, 70), 1)

	locs := e.Model.Locations()
	if len(locs) != 1 {
		t.Fatalf("expected one location, got %d", len(locs))
	}
	if locs[0].Position != geom.V3(32, 0, 64) {
		t.Fatalf("location not snapped: %v", locs[0].Position)
	}
	layer := e.Graphics.Layer(LayerLocations)
	it, ok := layer.Get(locs[0].ID)
	if !ok || it.(gfx.Marker).At != locs[0].Position || it.(gfx.Marker).Label != locs[0].Name {
		t.Fatalf("scene marker missing or stale: %v", it)
	}

	if err := e.Model.Remove(locs[0].ID); err != nil {
		t.Fatal(err)
	}
	if layer.Len() != 0 {
		t.Fatal("marker kept after removal")
	}
}

func TestWorldLockedToolSwitch(t *testing.T) {
	e := newWorld(t)
	e.HandleKey('2')
	press(&e.core, geom.V3(0, 0, 0), 1)
	if !e.Host.Locked() {
		t.Fatal("expected the path flow to lock the host")
	}

	e.HandleKey('1')
	if e.Host.ActiveName() != mode.NamePath {
		t.Fatalf("switch allowed while locked: %q", e.Host.ActiveName())
	}

	e.HandleKey(mode.KeyEscape)
	e.Update(0)
	if e.Host.Locked() || len(e.Model.Paths()) != 0 {
		t.Fatal("escape should discard the draft and unlock")
	}
	e.HandleKey('1')
	if e.Host.ActiveName() != mode.NameLocation {
		t.Fatalf("switch after unlock failed: %q", e.Host.ActiveName())
	}
}

func TestWorldDrawsPaths(t *testing.T) {
	e := newWorld(t)
	e.HandleKey('2')
	press(&e.core, geom.V3(0, 0, 0), 1)
	press(&e.core, geom.V3(100, 0, 0), 1)
	press(&e.core, geom.V3(100, 0, 0), 2)

	paths := e.Model.Paths()
	if len(paths) != 1 {
		t.Fatalf("expected one path, got %d", len(paths))
	}
	it, ok := e.Graphics.Layer(LayerPaths).Get(paths[0].ID)
	if !ok {
		t.Fatal("path not drawn")
	}
	if diff := cmp.Diff(paths[0].Waypoints, it.(gfx.Polyline).Points); diff != "" {
		t.Fatalf("polyline mismatch (-want +got):\n%s", diff)
	}
}

func TestWorldBackground(t *testing.T) {
	e := newWorld(t)
	layer := e.Graphics.Layer(LayerMap)

	e.SetBackground("coast.png", []byte{1, 2, 3})
	it, ok := layer.Get(backgroundItem)
	if !ok {
		t.Fatal("background not drawn")
	}
	img := it.(gfx.Image)
	if img.Name != "coast.png" || !img.Centered {
		t.Fatalf("unexpected background item %+v", img)
	}

	e.ClearBackground()
	if layer.Len() != 0 {
		t.Fatal("background kept after clear")
	}
}

func TestWorldSaveOpenReload(t *testing.T) {
	dir := t.TempDir()
	src := newWorld(t)
	src.HandleKey('1')
	press(&src.core, geom.V3(0, 0, 0), 1)

	path, err := src.Save(filepath.Join(dir, "coast"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Ext(path) != ".wmap" {
		t.Fatalf("extension not added: %s", path)
	}

	dst := newWorld(t)
	meta, err := dst.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if meta["editor"] != "worldmap" || len(dst.Model.Locations()) != 1 {
		t.Fatalf("unexpected open result: %v, %d locations", meta, len(dst.Model.Locations()))
	}
	if got := len(dst.Graphics.Layer(LayerLocations).IDs()); got != 1 {
		t.Fatalf("scene not rebuilt on open: %d markers", got)
	}

	if changed, err := dst.Reload(path); err != nil || changed {
		t.Fatalf("reload of an unchanged file: %v, %v", changed, err)
	}

	press(&src.core, geom.V3(96, 0, 96), 1)
	if _, err := src.Save(""); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if changed, err := dst.Reload(path); err != nil || !changed {
		t.Fatalf("expected reload: %v, %v", changed, err)
	}
	if len(dst.Model.Locations()) != 2 {
		t.Fatalf("expected 2 locations after reload, got %d", len(dst.Model.Locations()))
	}

	// a reload during a flow waits for the flow to finish
	dst.HandleKey('2')
	press(&dst.core, geom.V3(-200, 0, -200), 1)
	press(&src.core, geom.V3(-96, 0, 96), 1)
	if _, err := src.Save(""); err != nil {
		t.Fatal(err)
	}
	if changed, _ := dst.Reload(path); changed {
		t.Fatal("reload applied while locked")
	}
	dst.HandleKey(mode.KeyEscape)
	dst.Update(0)
	if len(dst.Model.Locations()) != 3 {
		t.Fatalf("deferred reload not applied: %d locations", len(dst.Model.Locations()))
	}
}

func TestWorldReloadOfRemovedSampleNamedFile(t *testing.T) {
	e := newWorld(t)
	e.HandleKey('1')
	press(&e.core, geom.V3(0, 0, 0), 1)
	path, err := e.Save(filepath.Join(t.TempDir(), "harbor.wmap"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if e.Path() != path {
		t.Fatalf("Path() = %q, want %q", e.Path(), path)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	if changed, err := e.Reload(path); err == nil || changed {
		t.Fatalf("expected a failed reload, got %v, %v", changed, err)
	}
	if got := len(e.Model.Locations()); got != 1 {
		t.Fatalf("model replaced by the bundled sample: %d locations", got)
	}
}

func TestWorldCopySelection(t *testing.T) {
	e := newWorld(t)
	if _, err := e.CopySelection(); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}

	loc := e.Model.AddLocation(geom.V3(64, 0, 64))
	if err := e.Model.SetProperty(loc.ID, "region", "coast"); err != nil {
		t.Fatal(err)
	}
	e.HandleKey('4')
	press(&e.core, loc.Position, 1)

	data, err := e.CopySelection()
	if err != nil {
		t.Fatalf("CopySelection: %v", err)
	}
	var got clipboardEntity
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	want := clipboardEntity{
		ID:         loc.ID,
		Kind:       event.KindLocation,
		Properties: map[string]string{"name": loc.Name, "region": "coast"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("clipboard mismatch (-want +got):\n%s", diff)
	}
}

func TestWorldLogsFlows(t *testing.T) {
	var buf bytes.Buffer
	e := newWorld(t, WithLogger(zerolog.New(&buf)))
	e.HandleKey('1')
	loc := e.Model.AddLocation(geom.V3(0, 0, 0))
	screen := e.Bridge.ProjectToScreen(loc.Position)
	e.Pointer(mode.InputPointerDown, screen, mode.ButtonLeft, 1, false)
	e.Pointer(mode.InputPointerUp, screen, mode.ButtonLeft, 1, false)
	e.Update(0)

	out := buf.String()
	for _, msg := range []string{"switched mode", "starting flow", "ending flow", mode.FlowDragLocation} {
		if !strings.Contains(out, msg) {
			t.Errorf("log lacks %q:\n%s", msg, out)
		}
	}
}

func TestWorldFrame(t *testing.T) {
	e := newWorld(t)
	e.Frame(false, 0.5)
	if e.Graphics.Frames() != 0 {
		t.Fatal("pre-update call reached the graphics system")
	}
	e.Frame(true, 3)
	if e.Graphics.Frames() != 1 || e.Graphics.Alpha() != 1 {
		t.Fatalf("expected one frame at alpha 1, got %d at %v", e.Graphics.Frames(), e.Graphics.Alpha())
	}
}
