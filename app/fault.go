package app

import (
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
)

// faultMargin keeps text inside the round panel's visible area.
const faultMargin = 36

var (
	faultBG = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	faultFG = color.RGBA{R: 0, G: 0, B: 0, A: 255}
)

// drawFault paints err on d, wrapped to the panel width, and presents it.
// Lines that do not fit are dropped.
func drawFault(d drivers.Displayer, err error) error {
	if d == nil {
		return nil
	}
	w, h := d.Size()
	for y := int16(0); y < h; y++ {
		for x := int16(0); x < w; x++ {
			d.SetPixel(x, y, faultBG)
		}
	}

	font := &freemono.Regular9pt7b
	lineHeight := int16(font.GetYAdvance())
	_, outbox := tinyfont.LineWidth(font, "0")
	charWidth := int16(outbox)
	if lineHeight <= 0 || charWidth <= 0 {
		return d.Display()
	}
	cols := (w - 2*faultMargin) / charWidth
	if cols <= 0 {
		cols = 1
	}

	lines := []string{"Dial fault:"}
	lines = append(lines, strings.Split(fmt.Sprint(err), ": ")...)

	y := int16(faultMargin) + lineHeight
	for _, line := range lines {
		for len(line) > 0 {
			if y > h-faultMargin {
				return d.Display()
			}
			chunk, rest := takeRunes(line, cols)
			tinyfont.WriteLine(d, font, faultMargin, y, chunk, faultFG)
			y += lineHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
	return d.Display()
}

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if int64(len(s)) <= int64(n) {
		return s, ""
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
