// Package editor assembles the world-map and object editors: model,
// camera, graphics layers, render bridge and the mode host, plus the key
// and pointer routing the front end feeds.
package editor

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"unicode"

	"github.com/milk9111/worldmap/config"
	"github.com/milk9111/worldmap/event"
	"github.com/milk9111/worldmap/geom"
	"github.com/milk9111/worldmap/gfx"
	"github.com/milk9111/worldmap/mapfiles"
	"github.com/milk9111/worldmap/mode"
	"github.com/milk9111/worldmap/render"
	"github.com/milk9111/worldmap/viewport"
	"github.com/rs/zerolog"
)

// Option configures an editor.
type Option func(*options)

type options struct {
	log   zerolog.Logger
	panel mode.PropertiesPanel
}

// WithLogger sets the editor logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithPanel sets the properties panel used by the edit mode.
func WithPanel(p mode.PropertiesPanel) Option {
	return func(o *options) { o.panel = p }
}

func buildOptions(opts []Option) options {
	o := options{log: zerolog.Nop()}
	for _, fn := range opts {
		fn(&o)
	}
	if o.panel == nil {
		o.panel = nopPanel{}
	}
	return o
}

type nopPanel struct{}

func (nopPanel) Open()                                      {}
func (nopPanel) Show(string, event.Kind, map[string]string) {}
func (nopPanel) Clear()                                     {}
func (nopPanel) Close()                                     {}

// document is a model that round-trips through a map file.
type document interface {
	Serialize(meta map[string]string) ([]byte, error)
	Import(r io.Reader) (map[string]string, error)
}

// core is the part both editors share.
type core struct {
	name  string
	ext   string
	cfg   config.Config
	log   zerolog.Logger
	tools map[string]string
	doc   document

	Camera   *viewport.Camera
	Graphics *gfx.System
	Bridge   *render.Bridge
	Host     *mode.Host

	subs      event.Subscriptions
	path      string
	lastSaved []byte
	pending   string
}

func (c *core) init(name, ext string, cfg config.Config, log zerolog.Logger, tools map[string]string, doc document, cam *viewport.Camera) {
	c.name = name
	c.ext = ext
	c.cfg = cfg
	c.log = log.With().Str("editor", name).Logger()
	c.tools = tools
	c.doc = doc
	c.Camera = cam
	c.Graphics = gfx.NewSystem()
	c.Bridge = render.NewBridge(c.Graphics, cam)
}

func (c *core) startHost(modes []mode.Mode) error {
	h, err := mode.NewHost(modes, mode.WithRenderer(c.Bridge), mode.WithHostLogger(c.log))
	if err != nil {
		return fmt.Errorf("%s editor: %w", c.name, err)
	}
	c.Host = h
	event.Subscribe(&c.subs, h, func(ev event.FlowStarted) {
		c.log.Info().Str("flow", ev.Flow).Str("mode", ev.Mode).Msg("starting flow")
	})
	event.Subscribe(&c.subs, h, func(ev event.FlowEnded) {
		c.log.Info().Str("flow", ev.Flow).Str("mode", ev.Mode).Msg("ending flow")
	})
	event.Subscribe(&c.subs, h, func(ev event.FlowAborted) {
		c.log.Info().Str("flow", ev.Flow).Str("mode", ev.Mode).Msg("aborting flow")
	})
	event.Subscribe(&c.subs, h, func(ev event.ModeChanged) {
		c.log.Info().Str("from", ev.From).Str("to", ev.To).Msg("switched mode")
	})
	return nil
}

// SelectTool switches to the named mode. A switch rejected because a flow
// holds the lock is not an error; the active mode stays and the caller
// should resync its tool buttons to ActiveName.
func (c *core) SelectTool(name string) error {
	if err := c.Host.ChangeModeByName(name); err != nil {
		return err
	}
	if c.Host.ActiveName() != name {
		c.log.Debug().Str("tool", name).Str("active", c.Host.ActiveName()).Msg("tool switch rejected")
	}
	return nil
}

// HandleKey routes one key press: W/A/S/D move the camera, C recentres it,
// tool hotkeys switch modes and everything else goes to the active mode.
// The front end must not call it while a text field has focus.
func (c *core) HandleKey(key rune) {
	step := c.cfg.Camera.Step
	switch unicode.ToLower(key) {
	case 'w':
		c.Camera.Move(0, -step)
		return
	case 's':
		c.Camera.Move(0, step)
		return
	case 'a':
		c.Camera.Move(-step, 0)
		return
	case 'd':
		c.Camera.Move(step, 0)
		return
	case 'c':
		c.Camera.Center(float32(c.cfg.Camera.ScrollDuration))
		return
	}
	if name, ok := config.ToolFor(c.tools, key); ok {
		if err := c.SelectTool(name); err != nil {
			c.log.Warn().Err(err).Str("tool", name).Msg("select tool")
		}
		return
	}
	c.Host.Enqueue(mode.KeyPress(key))
}

// Pointer queues a pointer event given in viewport pixels.
func (c *core) Pointer(kind mode.InputKind, screen geom.Vec2, button mode.Button, clicks int, shift bool) {
	ev := mode.PointerEvent{
		World:  c.Bridge.ProjectToWorld(screen),
		Screen: screen,
		Button: button,
		Clicks: clicks,
		Shift:  shift,
	}
	switch kind {
	case mode.InputPointerDown:
		c.Host.Enqueue(mode.PointerDown(ev))
	case mode.InputPointerMove:
		c.Host.Enqueue(mode.PointerMove(ev))
	case mode.InputPointerUp:
		c.Host.Enqueue(mode.PointerUp(ev))
	}
}

// Update advances the camera tween, delivers queued input and applies a
// deferred reload once no flow holds the lock.
func (c *core) Update(dt float32) {
	c.Camera.Update(dt)
	c.Host.Pump()
	if c.pending != "" && !c.Host.Locked() {
		path := c.pending
		c.pending = ""
		if _, err := c.Reload(path); err != nil {
			c.log.Warn().Err(err).Str("path", path).Msg("reload")
		}
	}
}

// Frame forwards a frame call to the host.
func (c *core) Frame(isPostCall bool, alpha float64) {
	c.Host.Render(isPostCall, alpha)
}

// Path returns the file the editor saves to.
func (c *core) Path() string { return c.path }

func (c *core) defaultPath() string {
	if c.path != "" {
		return c.path
	}
	return "untitled" + c.ext
}

// Export serializes the model with the editor header.
func (c *core) Export() ([]byte, error) {
	return c.doc.Serialize(map[string]string{"editor": c.name})
}

// Save writes the model to path, or to the current file when path is empty.
func (c *core) Save(path string) (string, error) {
	if path == "" {
		path = c.defaultPath()
	}
	if filepath.Ext(path) == "" {
		path += c.ext
	}
	data, err := c.Export()
	if err != nil {
		return "", err
	}
	if err := mapfiles.Save(path, data); err != nil {
		return "", err
	}
	c.path = path
	c.lastSaved = data
	c.log.Info().Str("path", path).Msg("saved")
	return path, nil
}

// Open imports path, from disk or the bundled samples, and makes it the
// current file.
func (c *core) Open(path string) (map[string]string, error) {
	data, err := mapfiles.Load(path)
	if err != nil {
		return nil, err
	}
	meta, err := c.doc.Import(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	c.path = path
	c.lastSaved = data
	c.log.Info().Str("path", path).Msg("opened")
	return meta, nil
}

// Reload re-imports path after it changed on disk. Changes matching the
// last save or open are ignored. While a flow holds the lock the reload is
// deferred to the next Update. It reports whether the model was replaced.
func (c *core) Reload(path string) (bool, error) {
	if c.Host.Locked() {
		c.pending = path
		return false, nil
	}
	data, err := mapfiles.ReadDisk(path)
	if err != nil {
		return false, err
	}
	if bytes.Equal(data, c.lastSaved) {
		return false, nil
	}
	if _, err := c.doc.Import(bytes.NewReader(data)); err != nil {
		return false, fmt.Errorf("reload %s: %w", path, err)
	}
	c.lastSaved = data
	c.log.Info().Str("path", path).Msg("reloaded")
	return true, nil
}

// Close leaves the active mode and detaches everything from the camera.
func (c *core) Close() {
	_ = c.Host.ChangeMode(nil)
	c.subs.Release()
	c.Bridge.Close()
}

func projection(name string) viewport.Projection {
	if name == "top-down" {
		return viewport.TopDown
	}
	return viewport.Isometric
}
