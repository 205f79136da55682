// Package config loads the editor settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/milk9111/worldmap/errs"
	"github.com/milk9111/worldmap/gfx"
	"github.com/milk9111/worldmap/viewport"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Keys the editors keep for the camera. Tool hotkeys may not use them.
const reservedKeys = "wasdc"

// Config is the full editor configuration.
type Config struct {
	World   WorldConfig   `yaml:"world"`
	Object  ObjectConfig  `yaml:"object"`
	Camera  CameraConfig  `yaml:"camera"`
	Handler HandlerConfig `yaml:"handler"`
	Log     LogConfig     `yaml:"log"`
}

// WorldConfig configures the world-map editor.
type WorldConfig struct {
	Width      int               `yaml:"width"`
	Height     int               `yaml:"height"`
	Background string            `yaml:"background"`
	Projection string            `yaml:"projection"`
	CellSize   [2]float64        `yaml:"cell_size"`
	Tools      map[string]string `yaml:"tools"`
}

// ObjectConfig configures the object editor.
type ObjectConfig struct {
	Width      int               `yaml:"width"`
	Height     int               `yaml:"height"`
	Background string            `yaml:"background"`
	CellSize   [2]float64        `yaml:"cell_size"`
	Tools      map[string]string `yaml:"tools"`
}

type CameraConfig struct {
	// Step is how far one W/A/S/D press moves the camera, in screen pixels.
	Step float64 `yaml:"step"`
	// ScrollDuration is the length of the recentre tween in seconds.
	ScrollDuration float64 `yaml:"scroll_duration"`
	Zoom           float64 `yaml:"zoom"`
}

type HandlerConfig struct {
	Threshold float64 `yaml:"threshold"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Format is "auto", "console" or "json".
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		World: WorldConfig{
			Width:      1024,
			Height:     768,
			Background: "#2b2b3a",
			Projection: "isometric",
			CellSize:   [2]float64{32, 32},
			Tools: map[string]string{
				"1": "location",
				"2": "path",
				"3": "delete",
				"4": "edit",
			},
		},
		Object: ObjectConfig{
			Width:      600,
			Height:     600,
			Background: "#f0f0f0",
			CellSize:   [2]float64{32, 32},
			Tools: map[string]string{
				"1": "primitive",
				"2": "layer",
			},
		},
		Camera: CameraConfig{
			Step:           10,
			ScrollDuration: viewport.DefaultScrollDuration,
			Zoom:           1,
		},
		Handler: HandlerConfig{Threshold: 10},
		Log:     LogConfig{Level: "info", Format: "auto"},
	}
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w: %w", errs.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads and parses a YAML file. A missing path yields the defaults.
func LoadFile(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting in one error.
func (c Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.World.Width <= 0 || c.World.Height <= 0 {
		add("world size %dx%d must be positive", c.World.Width, c.World.Height)
	}
	if _, err := gfx.ParseColor(c.World.Background); err != nil {
		add("world background: %v", err)
	}
	if c.World.Projection != "isometric" && c.World.Projection != "top-down" {
		add("world projection %q must be isometric or top-down", c.World.Projection)
	}
	if !validCell(c.World.CellSize) {
		add("world cell size %v must be positive", c.World.CellSize)
	}
	if err := validTools(c.World.Tools); err != nil {
		add("world tools: %v", err)
	}

	if c.Object.Width <= 0 || c.Object.Height <= 0 {
		add("object size %dx%d must be positive", c.Object.Width, c.Object.Height)
	}
	if _, err := gfx.ParseColor(c.Object.Background); err != nil {
		add("object background: %v", err)
	}
	if !validCell(c.Object.CellSize) {
		add("object cell size %v must be positive", c.Object.CellSize)
	}
	if err := validTools(c.Object.Tools); err != nil {
		add("object tools: %v", err)
	}

	if !(c.Camera.Step > 0) {
		add("camera step %v must be positive", c.Camera.Step)
	}
	if !(c.Camera.ScrollDuration >= 0) {
		add("camera scroll duration %v must not be negative", c.Camera.ScrollDuration)
	}
	if !(c.Camera.Zoom > 0) {
		add("camera zoom %v must be positive", c.Camera.Zoom)
	}
	if !(c.Handler.Threshold >= 0) {
		add("handler threshold %v must not be negative", c.Handler.Threshold)
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		add("log level %q: %v", c.Log.Level, err)
	}
	switch c.Log.Format {
	case "auto", "console", "json":
	default:
		add("log format %q must be auto, console or json", c.Log.Format)
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", errs.ErrInvalidConfig, strings.Join(problems, "; "))
}

func validCell(c [2]float64) bool {
	return c[0] > 0 && c[1] > 0
}

func validTools(tools map[string]string) error {
	for key, name := range tools {
		if utf8.RuneCountInString(key) != 1 {
			return fmt.Errorf("hotkey %q must be a single character", key)
		}
		if strings.Contains(reservedKeys, strings.ToLower(key)) {
			return fmt.Errorf("hotkey %q is reserved for the camera", key)
		}
		if name == "" {
			return fmt.Errorf("hotkey %q has no mode", key)
		}
	}
	return nil
}

// BackgroundColor returns the parsed world background.
func (w WorldConfig) BackgroundColor() color.RGBA {
	c, _ := gfx.ParseColor(w.Background)
	return c
}

// BackgroundColor returns the parsed object background.
func (o ObjectConfig) BackgroundColor() color.RGBA {
	c, _ := gfx.ParseColor(o.Background)
	return c
}

// ToolFor returns the mode bound to key, matching case-insensitively.
func ToolFor(tools map[string]string, key rune) (string, bool) {
	if name, ok := tools[string(key)]; ok {
		return name, true
	}
	for k, name := range tools {
		if strings.EqualFold(k, string(key)) {
			return name, true
		}
	}
	return "", false
}
