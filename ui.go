package main

import (
	"image/color"

	"golang.org/x/image/font/basicfont"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
)

var (
	uiTextColor = color.NRGBA{R: 0xe7, G: 0xbe, B: 0x72, A: 0xff}
	uiPanel     = color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200}
	uiButton    = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255}
)

func uiFace() *ebtext.Face {
	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	return &face
}

func newPanel(minW, minH int) *widget.Container {
	return widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(uiPanel)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(minW, minH),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
}

func centered() widget.WidgetOpt {
	return widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})
}

func newButton(label string, face *ebtext.Face, onClick func()) *widget.Button {
	img := imageui.NewNineSliceColor(uiButton)
	return widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: img, Pressed: img}),
		widget.ButtonOpts.Text(label, face, &widget.ButtonTextColor{Idle: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}}),
		widget.ButtonOpts.WidgetOpts(centered()),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			onClick()
		}),
	)
}

func rootUI(panel *widget.Container) *ebitenui.UI {
	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)
	return &ebitenui.UI{Container: root}
}

// NewPauseUI builds the pause menu: resume, restart, level skipping,
// calibration and quit.
func NewPauseUI(g *Game) *ebitenui.UI {
	face := uiFace()
	cfg := g.session.Config()

	panel := newPanel(cfg.WindowW/2, cfg.WindowH/3)
	panel.AddChild(widget.NewText(
		widget.TextOpts.Text("Paused", face, uiTextColor),
		widget.TextOpts.WidgetOpts(centered()),
	))
	panel.AddChild(newButton("Resume", face, func() {
		g.paused = false
	}))
	panel.AddChild(newButton("Restart level", face, func() {
		g.session.RestartLevel()
		g.paused = false
	}))
	panel.AddChild(newButton("Previous level", face, func() {
		g.changeLevel(g.session.Level() - 1)
		g.paused = false
	}))
	panel.AddChild(newButton("Next level", face, func() {
		g.changeLevel(g.session.Level() + 1)
		g.paused = false
	}))
	panel.AddChild(newButton("Calibrate", face, g.startCalibration))
	panel.AddChild(newButton("Quit", face, func() {
		g.quit = true
	}))
	return rootUI(panel)
}

// NewMessageUI builds the between-levels banner. The returned func replaces
// its text.
func NewMessageUI(g *Game) (*ebitenui.UI, func(string)) {
	face := uiFace()
	cfg := g.session.Config()

	label := widget.NewText(
		widget.TextOpts.Text("", face, uiTextColor),
		widget.TextOpts.WidgetOpts(centered()),
	)
	hint := widget.NewText(
		widget.TextOpts.Text("Press space or click to continue", face, uiTextColor),
		widget.TextOpts.WidgetOpts(centered()),
	)

	panel := newPanel(cfg.WindowW*2/3, cfg.WindowH/6)
	panel.AddChild(label)
	panel.AddChild(hint)
	return rootUI(panel), func(s string) { label.Label = s }
}
