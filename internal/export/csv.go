package export

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/metra/internal/bubble"
)

// WriteCSV writes one row per frame: index, kinetic energy, top speed and
// deepest overlap.
func WriteCSV(w io.Writer, frames []bubble.Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"frame", "kinetic_energy", "max_speed", "max_overlap"}); err != nil {
		return err
	}
	for _, f := range frames {
		row := []string{
			strconv.Itoa(f.Index),
			strconv.FormatFloat(bubble.KineticEnergy(f), 'f', 6, 64),
			strconv.FormatFloat(bubble.MaxSpeed(f), 'f', 6, 64),
			strconv.FormatFloat(bubble.MaxOverlap(f), 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ExportCSV(path string, frames []bubble.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteCSV(file, frames)
}
