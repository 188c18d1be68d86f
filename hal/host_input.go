//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"dial/internal/ft3267"
)

// edgesPerDetent is one full quadrature cycle.
const edgesPerDetent = 4

// hostInput maps window input onto the simulated board:
//
//	wheel, arrow keys   turn the encoder one detent per notch or press
//	space               push button
//	left mouse, touches fingers on the panel (two at most)
type hostInput struct {
	wheel   float64
	pressed bool
	touches []ft3267.Point
	ids     []ebiten.TouchID
}

func (in *hostInput) poll(h *hostHAL) {
	_, dy := ebiten.Wheel()
	in.wheel += dy
	for in.wheel >= 1 {
		h.Turn(edgesPerDetent)
		in.wheel--
	}
	for in.wheel <= -1 {
		h.Turn(-edgesPerDetent)
		in.wheel++
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) || inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		h.Turn(edgesPerDetent)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) || inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		h.Turn(-edgesPerDetent)
	}

	if p := ebiten.IsKeyPressed(ebiten.KeySpace); p != in.pressed {
		in.pressed = p
		h.SetPressed(p)
	}

	next := in.touches[:0]
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		next = append(next, panelToTouch(ebiten.CursorPosition()))
	}
	in.ids = ebiten.AppendTouchIDs(in.ids[:0])
	for _, id := range in.ids {
		if len(next) == ft3267.MaxPoints {
			break
		}
		next = append(next, panelToTouch(ebiten.TouchPosition(id)))
	}
	in.touches = next
	h.SetTouches(next)
}

// panelToTouch inverts the panel mounting: display (x, y) comes from touch
// (HostSize - y, x).
func panelToTouch(x, y int) ft3267.Point {
	tx := clampInt(HostSize-y, 0, 0x0FFF)
	ty := clampInt(x, 0, 0x0FFF)
	return ft3267.Point{X: uint16(tx), Y: uint16(ty)}
}
