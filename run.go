package glimpse

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window created by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	ShowFPS       bool
	Resizable     bool
}

// game adapts a Viewer to the ebiten.Game interface for Run.
type game struct {
	viewer        *Viewer
	width, height int
	showFPS       bool
}

func (g *game) Update() error {
	return g.viewer.Update()
}

func (g *game) Draw(screen *ebiten.Image) {
	g.viewer.Draw(screen)
	if g.showFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// Run opens a window and drives the viewer's game loop until the window is
// closed or the viewer's update func returns an error. ebiten.Termination
// from the update func ends the loop cleanly with a nil error.
func Run(v *Viewer, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	return ebiten.RunGame(&game{
		viewer:  v,
		width:   cfg.Width,
		height:  cfg.Height,
		showFPS: cfg.ShowFPS,
	})
}
