package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/worldmap/event"
)

// PropertiesPanel lists the properties of the entity selected in the edit
// mode, writes edits back through onChange and removals through onDelete.
type PropertiesPanel struct {
	container *widget.Container
	title     *widget.Label
	rows      *widget.Container
	newKey    *widget.TextInput
	newValue  *widget.TextInput

	theme    *widget.Theme
	fontFace *text.Face
	onChange func(key, value string) error
	onDelete func(key string) error

	id       string
	keys     []string
	inputs   map[string]*widget.TextInput
	suppress bool
}

func newPropertiesPanel(theme *widget.Theme, fontFace *text.Face) *PropertiesPanel {
	p := &PropertiesPanel{theme: theme, fontFace: fontFace, inputs: make(map[string]*widget.TextInput)}
	p.container = widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(6),
			),
		),
		widget.ContainerOpts.BackgroundImage(theme.PanelTheme.BackgroundImage),
		widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.MinSize(220, 0)),
	)
	p.title = newLabel("Properties", fontFace)
	p.rows = newColumn(4)
	p.container.AddChild(p.title)
	p.container.AddChild(p.rows)

	p.container.AddChild(newLabel("New property", fontFace))
	p.newKey = newTextInput(fontFace, 200, nil)
	p.newValue = newTextInput(fontFace, 200, nil)
	p.container.AddChild(p.newKey)
	p.container.AddChild(p.newValue)
	p.container.AddChild(newButton(theme, "Add", p.addProperty))

	p.container.GetWidget().Visibility = widget.Visibility_Hide
	return p
}

// OnChange sets the write-back callback.
func (p *PropertiesPanel) OnChange(fn func(key, value string) error) { p.onChange = fn }

// OnDelete sets the callback of the per-property remove buttons.
func (p *PropertiesPanel) OnDelete(fn func(key string) error) { p.onDelete = fn }

func (p *PropertiesPanel) Open() {
	p.container.GetWidget().Visibility = widget.Visibility_Show
	p.container.RequestRelayout()
}

func (p *PropertiesPanel) Show(id string, kind event.Kind, props map[string]string) {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	p.suppress = true
	defer func() { p.suppress = false }()

	if id == p.id && slices.Equal(keys, p.keys) {
		for _, k := range keys {
			if in := p.inputs[k]; in.GetText() != props[k] {
				in.SetText(props[k])
			}
		}
		return
	}

	p.id = id
	p.keys = keys
	p.title.Label = fmt.Sprintf("%s %s", kind, shortID(id))
	p.rows.RemoveChildren()
	clear(p.inputs)
	for _, k := range keys {
		key := k
		p.rows.AddChild(newLabel(key, p.fontFace))
		in := newTextInput(p.fontFace, 160, func(text string) {
			if p.suppress || p.onChange == nil {
				return
			}
			_ = p.onChange(key, text)
		})
		in.SetText(props[key])
		p.inputs[key] = in
		row := newRow(4)
		row.AddChild(in)
		row.AddChild(newButton(p.theme, "x", func() { p.deleteProperty(key) }))
		p.rows.AddChild(row)
	}
	p.container.RequestRelayout()
}

func (p *PropertiesPanel) Clear() {
	p.id = ""
	p.keys = nil
	clear(p.inputs)
	p.title.Label = "Properties"
	p.rows.RemoveChildren()
	p.container.RequestRelayout()
}

func (p *PropertiesPanel) Close() {
	p.Clear()
	p.container.GetWidget().Visibility = widget.Visibility_Hide
}

func (p *PropertiesPanel) addProperty() {
	key := strings.TrimSpace(p.newKey.GetText())
	if key == "" || p.onChange == nil || p.id == "" {
		return
	}
	if err := p.onChange(key, p.newValue.GetText()); err != nil {
		return
	}
	p.newKey.SetText("")
	p.newValue.SetText("")
}

func (p *PropertiesPanel) deleteProperty(key string) {
	if p.onDelete == nil || p.id == "" {
		return
	}
	_ = p.onDelete(key)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
