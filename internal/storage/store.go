package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/metra/internal/bubble"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

// ErrRunNotFound is returned when a run directory has no metadata.
var ErrRunNotFound = errors.New("storage: run not found")

var frameHeader = []string{"frame", "id", "x", "y", "r", "vx", "vy"}

// Store keeps recorded simulate runs, one directory per run.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Frames    int                `json:"frames"`
	Collision string             `json:"collision"`
	Settled   int                `json:"settled"`
	Items     []bubble.Item      `json:"items"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes the metadata and every recorded frame of result. It returns
// the new run id.
func (s *Store) Save(meta RunMetadata, result *bubble.Result) (string, error) {
	if meta.Preset == "" {
		meta.Preset = "default"
	}
	meta.Timestamp = s.now()
	meta.ID = fmt.Sprintf("%s_%s_%s", meta.Preset, meta.Timestamp.Format("20060102T150405"), uuid.NewString()[:8])
	meta.Frames = len(result.Frames)
	meta.Settled = result.Settled
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, metadataFile), data, 0644); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(frameHeader); err != nil {
		return "", err
	}
	for _, f := range result.Frames {
		for _, p := range f.Bodies {
			b := p.Body
			row := []string{
				strconv.Itoa(f.Index),
				p.Item.ID,
				formatFloat(b.Pos.X),
				formatFloat(b.Pos.Y),
				formatFloat(b.R),
				formatFloat(b.Vel.X),
				formatFloat(b.Vel.Y),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// Latest returns the most recent run.
func (s *Store) Latest() (*RunMetadata, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrRunNotFound
	}
	return &runs[0], nil
}

// LoadFrames rebuilds the recorded frames of a run. Rows for ids missing
// from the metadata keep only the id.
func (s *Store) LoadFrames(runID string) (*RunMetadata, []bubble.Frame, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(frameHeader)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("run %s frames: %w", runID, err)
	}

	items := make(map[string]bubble.Item, len(meta.Items))
	for _, it := range meta.Items {
		items[it.ID] = it
	}

	frames := make([]bubble.Frame, 0)
	for i := 1; i < len(records); i++ {
		rec := records[i]
		index, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		vals, ok := parseFloats(rec[2:])
		if !ok {
			continue
		}

		if len(frames) == 0 || frames[len(frames)-1].Index != index {
			frames = append(frames, bubble.Frame{Index: index, Width: meta.Width, Height: meta.Height})
		}
		it, found := items[rec[1]]
		if !found {
			it = bubble.Item{ID: rec[1]}
		}
		f := &frames[len(frames)-1]
		f.Bodies = append(f.Bodies, bubble.Placed{
			Item: it,
			Body: bubble.Body{
				Pos:       r2.Vec{X: vals[0], Y: vals[1]},
				R:         vals[2],
				Vel:       r2.Vec{X: vals[3], Y: vals[4]},
				OriginalR: vals[2],
			},
		})
	}

	return meta, frames, nil
}

func parseFloats(fields []string) ([]float64, bool) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
