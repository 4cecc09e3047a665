package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/san-kum/metra/internal/bubble"
)

var ErrEmptyFrame = errors.New("export: frame has no bubbles")

// SnapshotOptions controls a still image of one bubble-map frame.
type SnapshotOptions struct {
	Path   string // format inferred from extension when Format is empty
	Format string // "svg" or "png"
	Title  string
	Frame  bubble.Frame
}

// SaveSnapshot renders a frame as SVG or PNG.
func SaveSnapshot(opts SnapshotOptions) error {
	if len(opts.Frame.Bodies) == 0 {
		return ErrEmptyFrame
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".png":
			format = "png"
		case ".svg":
			format = "svg"
		default:
			format = "svg"
			if filepath.Ext(opts.Path) == "" {
				opts.Path += ".svg"
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	switch format {
	case "svg":
		f, err := os.Create(opts.Path)
		if err != nil {
			return err
		}
		defer f.Close()
		return WriteSVG(f, opts.Title, opts.Frame)
	case "png":
		return renderPNG(opts)
	default:
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
}

type label struct {
	text    string
	x, y    float64
	size    float64
	opacity float64
}

// labels lays out the wrapped title lines centred in a bubble.
func labels(p bubble.Placed) []label {
	b := p.Body
	size := bubble.FontSize(b.R)
	lines := bubble.WrapLabel(p.Item.Title, bubble.CharsPerLine(b.R))
	lineHeight := size * 1.2
	top := b.Pos.Y - float64(len(lines)-1)*lineHeight/2

	out := make([]label, len(lines))
	for i, l := range lines {
		out[i] = label{text: l, x: b.Pos.X, y: top + float64(i)*lineHeight, size: size, opacity: 1}
	}
	return out
}

// WriteSVG writes a frame as an SVG document.
func WriteSVG(w io.Writer, title string, f bubble.Frame) error {
	width, height := int(f.Width), int(f.Height)
	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	if title != "" {
		canvas.Text(12, 20, title, fmt.Sprintf("fill:%s;font-size:14px;font-family:monospace", css(colorSubtle)))
	}

	for _, p := range f.Bodies {
		b := p.Body
		canvas.Circle(int(b.Pos.X), int(b.Pos.Y), int(b.R),
			fmt.Sprintf("fill:%s;fill-opacity:0.85;stroke:%s;stroke-width:2", css(ParseColor(p.Item.Color)), css(colorStroke)))
		for _, l := range labels(p) {
			canvas.Text(int(l.x), int(l.y), l.text,
				fmt.Sprintf("fill:%s;font-size:%.0fpx;font-family:sans-serif;text-anchor:middle;dominant-baseline:middle", css(colorText), l.size))
		}
	}

	canvas.End()
	return nil
}

func renderPNG(opts SnapshotOptions) error {
	f := opts.Frame
	dc := gg.NewContext(int(f.Width), int(f.Height))
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	if opts.Title != "" {
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(opts.Title, 12, 16, 0, 0.5)
	}

	for _, p := range f.Bodies {
		b := p.Body
		dc.SetColor(ParseColor(p.Item.Color))
		dc.DrawCircle(b.Pos.X, b.Pos.Y, b.R)
		dc.Fill()
		dc.SetColor(colorStroke)
		dc.SetLineWidth(2)
		dc.DrawCircle(b.Pos.X, b.Pos.Y, b.R)
		dc.Stroke()

		dc.SetColor(colorText)
		for _, l := range labels(p) {
			dc.DrawStringAnchored(l.text, l.x, l.y, 0.5, 0.5)
		}
	}

	return dc.SavePNG(opts.Path)
}
