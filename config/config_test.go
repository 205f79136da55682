package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/milk9111/worldmap/errs"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
world:
  width: 800
  background: "#101010"
camera:
  step: 25
log:
  level: debug
  format: json
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Default()
	want.World.Width = 800
	want.World.Background = "#101010"
	want.Camera.Step = 25
	want.Log = LogConfig{Level: "debug", Format: "json"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.World.BackgroundColor(); got != (color.RGBA{0x10, 0x10, 0x10, 0xff}) {
		t.Fatalf("unexpected background %v", got)
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("empty input should yield defaults (-want +got):\n%s", diff)
	}
}

func TestParseInvalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown_key", "world:\n  colour: red\n", "colour"},
		{"bad_yaml", "world: [", "decode"},
		{"zero_width", "world:\n  width: 0\n", "world size"},
		{"bad_color", "object:\n  background: nope\n", "object background"},
		{"projection", "world:\n  projection: oblique\n", "projection"},
		{"cell", "object:\n  cell_size: [0, 32]\n", "object cell size"},
		{"reserved_hotkey", "world:\n  tools:\n    w: location\n", "reserved"},
		{"long_hotkey", "world:\n  tools:\n    ab: location\n", "single character"},
		{"step", "camera:\n  step: -1\n", "camera step"},
		{"threshold", "handler:\n  threshold: -2\n", "threshold"},
		{"level", "log:\n  level: loud\n", "log level"},
		{"format", "log:\n  format: xml\n", "log format"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse([]byte(c.yaml))
			if !errors.Is(err, errs.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), c.want) {
				t.Fatalf("expected %q in %q", c.want, err.Error())
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "editor.yaml")
	if err := os.WriteFile(path, []byte("handler:\n  threshold: 6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Handler.Threshold != 6 {
		t.Fatalf("expected threshold 6, got %v", cfg.Handler.Threshold)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
	cfg, err = LoadFile("")
	if err != nil || cfg.Camera.Step != 10 {
		t.Fatalf("empty path should give defaults, got %v %v", cfg, err)
	}
}

func TestToolFor(t *testing.T) {
	tools := Default().World.Tools
	cases := []struct {
		key  rune
		want string
		ok   bool
	}{
		{'1', "location", true},
		{'4', "edit", true},
		{'9', "", false},
	}
	for _, c := range cases {
		got, ok := ToolFor(tools, c.key)
		if got != c.want || ok != c.ok {
			t.Errorf("ToolFor(%q) = %q, %v; want %q, %v", c.key, got, ok, c.want, c.ok)
		}
	}
	if got, ok := ToolFor(map[string]string{"P": "path"}, 'p'); !ok || got != "path" {
		t.Errorf("ToolFor should fold case, got %q %v", got, ok)
	}
}
