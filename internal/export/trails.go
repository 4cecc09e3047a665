package export

import (
	"fmt"
	"io"

	"github.com/ajstarks/svgo"

	"github.com/san-kum/metra/internal/bubble"
)

// WriteTrailsSVG draws the path of every bubble centre across frames,
// with the final frame's circles outlined on top.
func WriteTrailsSVG(w io.Writer, frames []bubble.Frame) error {
	if len(frames) == 0 {
		return ErrEmptyFrame
	}
	last := frames[len(frames)-1]
	width, height := int(last.Width), int(last.Height)

	xs := make(map[string][]int)
	ys := make(map[string][]int)
	for _, f := range frames {
		for _, p := range f.Bodies {
			xs[p.Item.ID] = append(xs[p.Item.ID], int(p.Body.Pos.X))
			ys[p.Item.ID] = append(ys[p.Item.ID], int(p.Body.Pos.Y))
		}
	}

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, fmt.Sprintf("fill:%s", css(colorBackdrop)))

	for _, p := range last.Bodies {
		stroke := css(ParseColor(p.Item.Color))
		if px := xs[p.Item.ID]; len(px) > 1 {
			canvas.Polyline(px, ys[p.Item.ID], fmt.Sprintf("fill:none;stroke:%s;stroke-width:1.5;stroke-opacity:0.7", stroke))
		}
		canvas.Circle(int(p.Body.Pos.X), int(p.Body.Pos.Y), int(p.Body.R),
			fmt.Sprintf("fill:none;stroke:%s;stroke-width:2", stroke))
	}

	canvas.End()
	return nil
}
