package export

import (
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/san-kum/metra/internal/bubble"
)

type ExportBody struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	R  float64 `json:"r"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

type ExportFrame struct {
	Index  int          `json:"index"`
	Energy float64      `json:"kinetic_energy"`
	Bodies []ExportBody `json:"bodies"`
}

type ExportData struct {
	Run     string             `json:"run,omitempty"`
	Width   float64            `json:"width"`
	Height  float64            `json:"height"`
	Items   []bubble.Item      `json:"items"`
	Steps   int                `json:"steps"`
	Frames  []ExportFrame      `json:"frames"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
}

// NewExportData flattens recorded frames into the JSON export shape.
func NewExportData(run string, items []bubble.Item, frames []bubble.Frame, metrics map[string]float64) ExportData {
	data := ExportData{
		Run:     run,
		Items:   items,
		Steps:   len(frames),
		Frames:  make([]ExportFrame, len(frames)),
		Metrics: metrics,
	}
	if len(frames) > 0 {
		data.Width, data.Height = frames[0].Width, frames[0].Height
	}
	for i, f := range frames {
		ef := ExportFrame{Index: f.Index, Energy: bubble.KineticEnergy(f), Bodies: make([]ExportBody, len(f.Bodies))}
		for j, p := range f.Bodies {
			ef.Bodies[j] = ExportBody{
				ID: p.Item.ID,
				X:  p.Body.Pos.X, Y: p.Body.Pos.Y, R: p.Body.R,
				VX: p.Body.Vel.X, VY: p.Body.Vel.Y,
			}
		}
		data.Frames[i] = ef
	}
	return data
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}

func ExportJSONStdout(data ExportData) error {
	return WriteJSON(os.Stdout, data)
}
