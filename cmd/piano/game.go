//go:build !headless

package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"github.com/cwbudde/algo-keys/keyboard"
)

const pressDepth = 8.0

var (
	backgroundColor = color.RGBA{28, 30, 38, 255}
	whiteKeyColor   = color.RGBA{240, 240, 236, 255}
	whiteKeyDown    = color.RGBA{200, 210, 230, 255}
	blackKeyColor   = color.RGBA{20, 20, 24, 255}
	blackKeyDown    = color.RGBA{70, 80, 110, 255}
	keyBorderColor  = color.RGBA{60, 60, 66, 255}
	buttonColor     = color.RGBA{64, 68, 84, 255}
	buttonActive    = color.RGBA{90, 120, 190, 255}
	labelColor      = color.RGBA{220, 220, 220, 255}
	playingColor    = color.RGBA{80, 220, 110, 255}
	timbreHotkeys   = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4}
	octaveLabels    = map[keyboard.ButtonKind]string{keyboard.ButtonOctaveDown: "-", keyboard.ButtonOctaveUp: "+"}
)

type game struct {
	c    *controller
	w, h int
}

func run(c *controller) error {
	w, h := c.layout.Size()
	g := &game{c: c, w: int(w), h: int(h)}
	ebiten.SetWindowSize(g.w, g.h)
	ebiten.SetWindowTitle("algo-keys")
	return ebiten.RunGame(g)
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.c.play()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.c.stop()
	}
	for i, k := range timbreHotkeys {
		if inpututil.IsKeyJustPressed(k) {
			g.c.selectTimbre(i)
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.c.pointerDown(float64(x), float64(y))
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.c.pointerUp()
	}

	g.c.tick(1.0 / float64(ebiten.TPS()))
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	face := basicfont.Face7x13

	for i, line := range g.c.hud() {
		c := color.Color(labelColor)
		if line.Active {
			c = playingColor
		}
		text.Draw(screen, line.Text, face, 24, 28+i*20, c)
	}

	current := g.c.engine.Timbres().Index()
	for _, b := range g.c.layout.Buttons {
		col := buttonColor
		label := octaveLabels[b.Kind]
		if b.Kind == keyboard.ButtonTimbre {
			if b.Index == current {
				col = buttonActive
			}
			if t, ok := g.c.engine.Timbres().At(b.Index); ok {
				label = t.Name
			}
		}
		r := b.Rect
		ebitenutil.DrawRect(screen, r.X, r.Y, r.W, r.H, col)
		text.Draw(screen, label, face, int(r.X)+8, int(r.Y+r.H/2)+4, labelColor)
	}

	// White keys first so the black keys overlap them.
	for _, black := range []bool{false, true} {
		for i, k := range g.c.layout.Keys {
			if k.Black != black {
				continue
			}
			off := g.c.keyOffset(i, pressDepth)
			fill, down := whiteKeyColor, whiteKeyDown
			if black {
				fill, down = blackKeyColor, blackKeyDown
			}
			if off > pressDepth/2 {
				fill = down
			}
			r := k.Rect
			ebitenutil.DrawRect(screen, r.X, r.Y+off, r.W, r.H, keyBorderColor)
			ebitenutil.DrawRect(screen, r.X+1, r.Y+off+1, r.W-2, r.H-2, fill)
		}
	}
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.w, g.h
}
