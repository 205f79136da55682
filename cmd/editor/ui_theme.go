package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

var labelColor = &widget.LabelColor{Idle: color.White, Disabled: color.Gray{Y: 140}}

// solidNineSlice returns a solid color *image.NineSlice for widget backgrounds.
func solidNineSlice(c color.Color) *image.NineSlice {
	return image.NewNineSliceColor(c)
}

func newEditorTheme(fontFace *text.Face) *widget.Theme {
	return &widget.Theme{
		PanelTheme: &widget.PanelParams{
			BackgroundImage: solidNineSlice(color.RGBA{40, 40, 40, 255}),
		},
		ButtonTheme: &widget.ButtonParams{
			Image: &widget.ButtonImage{
				Idle:    solidNineSlice(color.RGBA{180, 180, 180, 255}),
				Hover:   solidNineSlice(color.RGBA{200, 200, 200, 255}),
				Pressed: solidNineSlice(color.RGBA{160, 160, 160, 255}),
			},
			TextFace: fontFace,
			TextColor: &widget.ButtonTextColor{
				Idle: color.Black,
			},
		},
	}
}

func newLabel(s string, fontFace *text.Face) *widget.Label {
	return widget.NewLabel(widget.LabelOpts.Text(s, fontFace, labelColor))
}

func newTextInput(fontFace *text.Face, width int, onChange func(text string)) *widget.TextInput {
	return widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(widget.WidgetOpts.MinSize(width, 28)),
		widget.TextInputOpts.Image(&widget.TextInputImage{
			Idle:     solidNineSlice(color.RGBA{245, 245, 245, 255}),
			Disabled: solidNineSlice(color.RGBA{200, 200, 200, 255}),
		}),
		widget.TextInputOpts.Color(&widget.TextInputColor{Idle: color.Black, Disabled: color.Gray{Y: 120}, Caret: color.Black}),
		widget.TextInputOpts.Face(fontFace),
		widget.TextInputOpts.ChangedHandler(func(args *widget.TextInputChangedEventArgs) {
			if onChange != nil {
				onChange(args.InputText)
			}
		}),
	)
}

func newButton(theme *widget.Theme, caption string, onClick func()) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.Image(theme.ButtonTheme.Image),
		widget.ButtonOpts.Text(caption, theme.ButtonTheme.TextFace, theme.ButtonTheme.TextColor),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if onClick != nil {
				onClick()
			}
		}),
	)
}

func newColumn(spacing int) *widget.Container {
	return widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(spacing),
			),
		),
	)
}

func newRow(spacing int) *widget.Container {
	return widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(spacing),
			),
		),
	)
}
