//go:build !tinygo && cgo

package hal

import (
	"context"
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"dial/internal/buildinfo"
	"dial/internal/script"
)

// WindowConfig controls the desktop simulator window.
type WindowConfig struct {
	// TPS is the step rate; the dial loop runs once per tick.
	TPS int
	// Scale enlarges the panel on screen.
	Scale  int
	Script []script.Command
}

// RunWindow opens a window showing the simulated panel and maps mouse and
// keyboard to the encoder, button and touch panel. It blocks until the
// window closes.
func RunWindow(newApp func(HAL) (func() error, error), cfg WindowConfig) error {
	if cfg.TPS <= 0 {
		cfg.TPS = 30
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 2
	}

	h := newHost()
	step, err := newApp(h)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.enc.run(ctx)

	g := &hostGame{h: h, step: step, in: &hostInput{}}
	if len(cfg.Script) > 0 {
		g.player = script.NewPlayer(cfg.Script)
	}
	ebiten.SetWindowTitle("Dial (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*cfg.Scale, h.fb.height*cfg.Scale)
	ebiten.SetTPS(cfg.TPS)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	in      *hostInput
	player  *script.Player
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	shown   uint64
	step    func() error
}

func (g *hostGame) Update() error {
	if g.player != nil && g.player.Tick(g.h) {
		g.player = nil
	}
	g.in.poll(g.h)
	if err := g.h.enc.settle(context.Background()); err != nil {
		return err
	}
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	if n := fb.snapshotRGB565(g.scratch); n != g.shown {
		g.shown = n
		src := g.scratch
		dst := g.img.Pix
		for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
			c := unpackRGB565(uint16(src[i]) | uint16(src[i+1])<<8)
			j := (i / 2) * 4
			dst[j+0] = c.R
			dst[j+1] = c.G
			dst[j+2] = c.B
			dst[j+3] = c.A
		}
		g.fbImg.WritePixels(g.img.Pix)
	}
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
