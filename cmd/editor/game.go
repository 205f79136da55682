package main

import (
	"path/filepath"
	"time"

	ebuiinput "github.com/ebitenui/ebitenui/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/worldmap/editor"
	"github.com/milk9111/worldmap/geom"
	"github.com/milk9111/worldmap/gfx"
	"github.com/milk9111/worldmap/mode"
	"github.com/milk9111/worldmap/viewport"
	"github.com/milk9111/worldmap/watch"
	"github.com/rs/zerolog"
	"golang.design/x/clipboard"
)

const (
	doubleClickWindow = 400 * time.Millisecond
	doubleClickSlop   = 4.0
)

// session is the editor the game drives.
type session interface {
	HandleKey(key rune)
	Pointer(kind mode.InputKind, screen geom.Vec2, button mode.Button, clicks int, shift bool)
	Update(dt float32)
	Frame(isPostCall bool, alpha float64)
	SelectTool(name string) error
	Save(path string) (string, error)
	Reload(path string) (bool, error)
	Path() string
	Close()
}

var (
	_ session = (*editor.WorldMapEditor)(nil)
	_ session = (*editor.ObjectEditor)(nil)
)

type clickState struct {
	at     time.Time
	pos    geom.Vec2
	button mode.Button
	count  int
}

// EditorGame is the ebiten game wrapping one editor session.
type EditorGame struct {
	ses     session
	sys     *gfx.System
	cam     *viewport.Camera
	host    *mode.Host
	ui      *editorUI
	watcher *watch.Watcher
	log     zerolog.Logger

	// copySelection is nil for editors without a selection.
	copySelection func() ([]byte, error)
	clipboardOK   bool

	images    *imageCache
	lastMouse geom.Vec2
	click     clickState
	width     int
	height    int
}

var mouseButtons = []struct {
	eb ebiten.MouseButton
	b  mode.Button
}{
	{ebiten.MouseButtonLeft, mode.ButtonLeft},
	{ebiten.MouseButtonRight, mode.ButtonRight},
	{ebiten.MouseButtonMiddle, mode.ButtonMiddle},
}

func (g *EditorGame) Update() error {
	g.ses.Frame(false, 0)
	g.ui.ui.Update()

	if !g.ui.typing() {
		g.updateKeys()
	}
	g.updatePointer()
	g.pollWatcher()

	g.ses.Update(1 / float32(ebiten.TPS()))
	g.ui.toolBar.SetTool(g.host.ActiveName())
	g.ses.Frame(true, 1)
	return nil
}

func (g *EditorGame) updateKeys() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)
	if ctrl {
		if inpututil.IsKeyJustPressed(ebiten.KeyS) {
			g.save(g.ui.fileName.GetText())
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyC) {
			g.copy()
		}
		return
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.ses.HandleKey(mode.KeyEscape)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter), inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter):
		g.ses.HandleKey(mode.KeyEnter)
	case inpututil.IsKeyJustPressed(ebiten.KeyDelete), inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		g.ses.HandleKey(mode.KeyDelete)
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		g.ses.HandleKey(r)
	}
}

func (g *EditorGame) updatePointer() {
	x, y := ebiten.CursorPosition()
	pos := geom.Vec2{X: float64(x), Y: float64(y)}
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	overUI := ebuiinput.UIHovered

	if pos != g.lastMouse {
		g.lastMouse = pos
		if !overUI {
			g.ses.Pointer(mode.InputPointerMove, pos, mode.ButtonLeft, 0, shift)
		}
	}
	for _, mb := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(mb.eb) && !overUI {
			g.ses.Pointer(mode.InputPointerDown, pos, mb.b, g.countClick(pos, mb.b), shift)
		}
		if inpututil.IsMouseButtonJustReleased(mb.eb) {
			g.ses.Pointer(mode.InputPointerUp, pos, mb.b, g.click.count, shift)
		}
	}
}

// countClick returns 2 for the second press of a double click.
func (g *EditorGame) countClick(pos geom.Vec2, b mode.Button) int {
	now := time.Now()
	c := &g.click
	if c.count > 0 && c.button == b && now.Sub(c.at) <= doubleClickWindow && c.pos.Dist(pos) <= doubleClickSlop {
		c.count++
	} else {
		c.count = 1
	}
	c.at, c.pos, c.button = now, pos, b
	return c.count
}

func (g *EditorGame) pollWatcher() {
	if g.watcher == nil {
		return
	}
	select {
	case path, ok := <-g.watcher.Events:
		if !ok {
			g.watcher = nil
			return
		}
		if !samePath(path, g.ses.Path()) {
			return
		}
		if _, err := g.ses.Reload(path); err != nil {
			g.log.Warn().Err(err).Str("path", path).Msg("reload")
		}
	case err, ok := <-g.watcher.Errors:
		if ok {
			g.log.Warn().Err(err).Msg("watch")
		}
	default:
	}
}

func (g *EditorGame) save(name string) {
	path, err := g.ses.Save(name)
	if err != nil {
		g.log.Error().Err(err).Msg("save")
		return
	}
	g.ui.fileName.SetText(path)
}

func (g *EditorGame) copy() {
	if g.copySelection == nil || !g.clipboardOK {
		return
	}
	data, err := g.copySelection()
	if err != nil {
		g.log.Debug().Err(err).Msg("copy")
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	g.log.Info().Msg("copied selection")
}

func (g *EditorGame) Draw(screen *ebiten.Image) {
	screen.Fill(g.sys.BgColor())
	for _, l := range g.sys.Layers() {
		if !l.Visible() {
			continue
		}
		l.Each(func(id string, it gfx.Item) {
			g.drawItem(screen, it)
		})
	}
	g.ui.ui.Draw(screen)
}

func (g *EditorGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
