package export

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	colorBackdrop = color.RGBA{R: 0x0a, G: 0x0a, B: 0x0a, A: 0xff}
	colorStroke   = color.RGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff}
	colorText     = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	colorSubtle   = color.RGBA{R: 0x9c, G: 0xa3, B: 0xaf, A: 0xff}
	colorFallback = color.RGBA{R: 0x60, G: 0x7d, B: 0x8b, A: 0xff}
)

// ParseColor reads a "#rrggbb" item colour, falling back to slate grey.
func ParseColor(hex string) color.RGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorFallback
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
