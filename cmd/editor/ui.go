package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/worldmap/editor"
	"github.com/milk9111/worldmap/mode"
	"github.com/rs/zerolog"
	"golang.org/x/image/font/gofont/goregular"
)

type toolInfo struct {
	name  string
	label string
}

var worldTools = []toolInfo{
	{mode.NameLocation, "Location"},
	{mode.NamePath, "Path"},
	{mode.NameDelete, "Delete"},
	{mode.NameEdit, "Edit"},
}

var objectTools = []toolInfo{
	{mode.NamePrimitive, "Primitive"},
	{mode.NameLayer, "Layer"},
}

// editorUI is the widget tree around the canvas.
type editorUI struct {
	ui       *ebitenui.UI
	theme    *widget.Theme
	fontFace *text.Face
	root     *widget.Container
	left     *widget.Container
	toolBar  *ToolBar
	fileName *widget.TextInput
}

func newEditorUI(tools []toolInfo, onToolSelected func(name string)) (*editorUI, error) {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, err
	}
	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 14}

	u := &editorUI{ui: &ebitenui.UI{}, fontFace: &fontFace}
	u.theme = newEditorTheme(u.fontFace)
	u.ui.PrimaryTheme = u.theme

	names := make([]string, len(tools))
	labels := make([]string, len(tools))
	for i, t := range tools {
		names[i], labels[i] = t.name, t.label
	}
	toolbarContainer, toolBar := buildToolBar(u.theme, u.fontFace, names, labels, onToolSelected)
	u.toolBar = toolBar

	u.left = widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(6),
			),
		),
		widget.ContainerOpts.BackgroundImage(u.theme.PanelTheme.BackgroundImage),
		widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.MinSize(200, 0)),
	)

	// Root container: anchor layout
	u.root = widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	u.left.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionStart,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
	}
	toolbarContainer.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionCenter,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
	}
	u.root.AddChild(u.left)
	u.root.AddChild(toolbarContainer)
	u.ui.Container = u.root
	return u, nil
}

// addFileSection adds the file name field and a save button.
func (u *editorUI) addFileSection(path string, onSave func(name string)) {
	u.left.AddChild(newLabel("File", u.fontFace))
	u.fileName = newTextInput(u.fontFace, 180, nil)
	u.fileName.SetText(path)
	u.left.AddChild(u.fileName)
	u.left.AddChild(newButton(u.theme, "Save (Ctrl+S)", func() {
		onSave(strings.TrimSpace(u.fileName.GetText()))
	}))
}

func (u *editorUI) addRight(c *widget.Container) {
	c.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionEnd,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
	}
	u.root.AddChild(c)
}

// typing reports whether a text field has focus.
func (u *editorUI) typing() bool {
	if fw := u.ui.GetFocusedWidget(); fw != nil {
		switch fw.(type) {
		case *widget.TextInput:
			return true
		}
	}
	return false
}

// addBackgroundSection adds the world-map background controls.
func addBackgroundSection(u *editorUI, e *editor.WorldMapEditor, log zerolog.Logger) {
	u.left.AddChild(newLabel("Background image", u.fontFace))
	input := newTextInput(u.fontFace, 180, nil)
	u.left.AddChild(input)
	row := newRow(6)
	row.AddChild(newButton(u.theme, "Set", func() {
		path := strings.TrimSpace(input.GetText())
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("load background")
			return
		}
		e.SetBackground(filepath.Base(path), data)
	}))
	row.AddChild(newButton(u.theme, "Clear", e.ClearBackground))
	u.left.AddChild(row)
}

// addObjectSection adds the grid, height and image layer controls.
func addObjectSection(u *editorUI, e *editor.ObjectEditor, log zerolog.Logger) {
	cell := e.Model.Grid.CellSize()
	cellX := strconv.FormatFloat(cell[0], 'f', -1, 64)
	cellZ := strconv.FormatFloat(cell[1], 'f', -1, 64)

	var xIn, zIn *widget.TextInput
	applyCell := func(string) {
		x, errX := strconv.ParseFloat(strings.TrimSpace(xIn.GetText()), 64)
		z, errZ := strconv.ParseFloat(strings.TrimSpace(zIn.GetText()), 64)
		if errX != nil || errZ != nil {
			return
		}
		e.SetCellSize(x, z)
	}
	u.left.AddChild(newLabel("Cell size X / Z", u.fontFace))
	row := newRow(6)
	xIn = newTextInput(u.fontFace, 80, applyCell)
	zIn = newTextInput(u.fontFace, 80, applyCell)
	xIn.SetText(cellX)
	zIn.SetText(cellZ)
	row.AddChild(xIn)
	row.AddChild(zIn)
	u.left.AddChild(row)

	u.left.AddChild(newLabel("Height", u.fontFace))
	u.left.AddChild(newTextInput(u.fontFace, 180, func(s string) {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			v = math.NaN()
		}
		e.SetHeight(v)
	}))

	u.left.AddChild(newLabel("Image layer", u.fontFace))
	layerIn := newTextInput(u.fontFace, 180, nil)
	u.left.AddChild(layerIn)
	u.left.AddChild(newButton(u.theme, "Add layer", func() {
		path := strings.TrimSpace(layerIn.GetText())
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("load layer image")
			return
		}
		if _, err := e.AddLayer(filepath.Base(path), data); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("add layer")
			return
		}
		layerIn.SetText("")
	}))
}
