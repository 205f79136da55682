package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// ToolBar contains the radio-group state for the floating tool buttons.
type ToolBar struct {
	group    *widget.RadioGroup
	buttons  []*widget.Button
	names    []string
	active   string
	suppress bool
}

// SetTool shows name as the selected tool without reporting a selection.
// An unknown or empty name clears the selection.
func (tb *ToolBar) SetTool(name string) {
	if tb == nil || tb.group == nil || name == tb.active {
		return
	}
	tb.active = name
	tb.suppress = true
	defer func() { tb.suppress = false }()
	for i, n := range tb.names {
		if n == name {
			tb.group.SetActive(tb.buttons[i])
			return
		}
	}
	tb.group.SetActive(nil)
}

func buildToolBar(theme *widget.Theme, fontFace *text.Face, toolNames, labels []string, onToolSelected func(name string)) (*widget.Container, *ToolBar) {
	buttonTextColor := &widget.ButtonTextColor{
		Idle:     color.Black,
		Hover:    color.Black,
		Pressed:  color.RGBA{0, 0, 200, 255},
		Disabled: color.Gray{Y: 128},
	}

	toolbar := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(220, 48),
		),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(8),
			),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{220, 220, 240, 255})),
	)

	var toolButtons []*widget.Button
	for _, label := range labels {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(label, fontFace, buttonTextColor),
			widget.ButtonOpts.ToggleMode(),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(48, 40),
			),
		)
		toolButtons = append(toolButtons, btn)
		toolbar.AddChild(btn)
	}

	elements := make([]widget.RadioGroupElement, 0, len(toolButtons))
	for _, b := range toolButtons {
		elements = append(elements, b)
	}

	tb := &ToolBar{buttons: toolButtons, names: toolNames}
	tb.group = widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			if tb.suppress || onToolSelected == nil {
				return
			}
			for idx, b := range toolButtons {
				if args.Active == b {
					onToolSelected(toolNames[idx])
					return
				}
			}
		}),
	)
	tb.suppress = true
	tb.group.SetActive(nil)
	tb.suppress = false

	return toolbar, tb
}
