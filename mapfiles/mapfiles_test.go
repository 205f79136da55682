package mapfiles

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/milk9111/worldmap/geom"
	"github.com/milk9111/worldmap/object"
	"github.com/milk9111/worldmap/worldmap"
)

func TestSamples(t *testing.T) {
	cases := []struct {
		ext  string
		want []string
	}{
		{worldmap.FileExt, []string{"harbor.wmap"}},
		{object.FileExt, []string{"crate.omap"}},
		{".json", nil},
	}
	for _, c := range cases {
		t.Run(c.ext, func(t *testing.T) {
			if diff := cmp.Diff(c.want, Samples(c.ext)); diff != "" {
				t.Fatalf("samples mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadWorldSample(t *testing.T) {
	m := worldmap.New()
	meta, err := LoadWorld("harbor.wmap", m)
	if err != nil {
		t.Fatalf("LoadWorld: %v", err)
	}
	if meta["editor"] != "worldmap" {
		t.Fatalf("unexpected meta %v", meta)
	}
	if got := len(m.Locations()); got != 3 {
		t.Fatalf("expected 3 locations, got %d", got)
	}
	p, ok := m.Path("path-shore")
	if !ok || p.From != "loc-harbor" || p.To != "loc-lighthouse" || len(p.Waypoints) != 3 {
		t.Fatalf("unexpected path %+v", p)
	}
}

func TestLoadObjectSample(t *testing.T) {
	o := object.New(16, 16)
	if _, err := LoadObject("crate.omap", o); err != nil {
		t.Fatalf("LoadObject: %v", err)
	}
	if o.Grid.CellSize() != [2]float64{32, 32} {
		t.Fatalf("cell size not imported: %v", o.Grid.CellSize())
	}
	if len(o.Primitives()) != 3 || len(o.Layers()) != 1 {
		t.Fatalf("unexpected content: %d primitives, %d layers", len(o.Primitives()), len(o.Layers()))
	}
}

func TestDiskOverridesSample(t *testing.T) {
	m := worldmap.New()
	m.AddLocation(geom.V3(1, 2, 3))
	data, err := m.Serialize(map[string]string{"editor": "disk"})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "nested", "harbor.wmap")
	if err := Save(path, data); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := worldmap.New()
	meta, err := LoadWorld(path, loaded)
	if err != nil {
		t.Fatalf("LoadWorld: %v", err)
	}
	if meta["editor"] != "disk" || len(loaded.Locations()) != 1 {
		t.Fatalf("expected the disk copy, got meta %v and %d locations", meta, len(loaded.Locations()))
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load("nowhere.wmap"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestLoadFallback(t *testing.T) {
	dir := t.TempDir()
	unreadable := filepath.Join(dir, "unreadable", "harbor.wmap")
	if err := os.MkdirAll(unreadable, 0o755); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "harbor.wmap")

	cases := []struct {
		name    string
		read    func(string) ([]byte, error)
		path    string
		wantErr bool
	}{
		{"load_missing_uses_sample", Load, missing, false},
		{"load_unreadable_fails", Load, unreadable, true},
		{"disk_missing_fails", ReadDisk, missing, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			data, err := c.read(c.path)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got %d bytes", len(data))
				}
				return
			}
			if err != nil || len(data) == 0 {
				t.Fatalf("expected sample bytes, got %v", err)
			}
		})
	}
}
