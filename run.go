package scrub

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
	// ShowFPS prints the current FPS and scroll offset in the corner.
	ShowFPS bool
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene   *Scene
	showFPS bool
}

func (g *game) Update() error {
	g.scene.Update()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
	if g.showFPS {
		ebitenutil.DebugPrintAt(screen,
			fmt.Sprintf("FPS: %.1f  scroll: %.0f/%.0f", ebiten.ActualFPS(), g.scene.ScrollY(), g.scene.MaxScroll()),
			4, int(g.scene.Height())-debugGlyphH-4)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.scene.SetViewport(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// Run opens a window and runs the scene until the window is closed.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultHeight
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	scene.SetViewport(float64(cfg.Width), float64(cfg.Height))
	if err := ebiten.RunGame(&game{scene: scene, showFPS: cfg.ShowFPS}); err != nil {
		return fmt.Errorf("run scene: %w", err)
	}
	return nil
}
