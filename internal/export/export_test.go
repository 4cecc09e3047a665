package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/san-kum/metra/internal/bubble"
)

func testFrames(t *testing.T, n int) []bubble.Frame {
	t.Helper()
	items := []bubble.Item{
		{ID: "1", Title: "Global Climate Accord Reached", Color: "#4CAF50"},
		{ID: "2", Title: "New AI Breakthrough in Healthcare", Color: "#2196F3"},
		{ID: "3", Title: "Economic Stimulus Package Approved", Color: "not-a-colour"},
	}
	e := bubble.NewEngine(bubble.DefaultParams())
	e.Mount(items, 400, 300)
	result, err := bubble.NewRunner(e).Run(context.Background(), bubble.RunConfig{Frames: n, Record: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return result.Frames
}

func TestParseColor(t *testing.T) {
	if got := ParseColor("#4CAF50"); css(got) != "#4caf50" {
		t.Errorf("expected #4caf50, got %s", css(got))
	}
	if got := ParseColor("teal-ish"); got != colorFallback {
		t.Errorf("expected fallback, got %v", got)
	}
}

func TestWriteSVG(t *testing.T) {
	frames := testFrames(t, 3)
	var buf bytes.Buffer
	if err := WriteSVG(&buf, "frame 3", frames[len(frames)-1]); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	out := buf.String()
	if got := strings.Count(out, "<circle"); got != 3 {
		t.Errorf("expected 3 circles, got %d", got)
	}
	for _, want := range []string{"frame 3", "#4caf50", "Global"} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %q", want)
		}
	}
}

func TestSaveSnapshotFormats(t *testing.T) {
	frame := testFrames(t, 1)[1]
	dir := t.TempDir()

	svgPath := filepath.Join(dir, "nested", "map.svg")
	if err := SaveSnapshot(SnapshotOptions{Path: svgPath, Frame: frame}); err != nil {
		t.Fatalf("svg snapshot failed: %v", err)
	}
	data, err := os.ReadFile(svgPath)
	if err != nil || !bytes.Contains(data, []byte("<svg")) {
		t.Errorf("expected svg document, got %v", err)
	}

	pngPath := filepath.Join(dir, "map.png")
	if err := SaveSnapshot(SnapshotOptions{Path: pngPath, Title: "run", Frame: frame}); err != nil {
		t.Fatalf("png snapshot failed: %v", err)
	}
	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 300 {
		t.Errorf("expected 400x300, got %v", b)
	}

	if err := SaveSnapshot(SnapshotOptions{Path: filepath.Join(dir, "plain"), Frame: frame}); err != nil {
		t.Fatalf("extensionless snapshot failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "plain.svg")); err != nil {
		t.Errorf("expected plain.svg: %v", err)
	}
}

func TestSaveSnapshotErrors(t *testing.T) {
	if err := SaveSnapshot(SnapshotOptions{Path: "x.svg"}); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("expected ErrEmptyFrame, got %v", err)
	}
	frame := testFrames(t, 1)[0]
	if err := SaveSnapshot(SnapshotOptions{Frame: frame}); err == nil {
		t.Error("expected error for missing path")
	}
	path := filepath.Join(t.TempDir(), "map.gif")
	if err := SaveSnapshot(SnapshotOptions{Path: path, Format: "gif", Frame: frame}); err == nil {
		t.Error("expected error for gif")
	}
}

func TestWriteTrailsSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTrailsSVG(&buf, testFrames(t, 20)); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if got := strings.Count(buf.String(), "<polyline"); got != 3 {
		t.Errorf("expected 3 trails, got %d", got)
	}
	if err := WriteTrailsSVG(&buf, nil); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("expected ErrEmptyFrame, got %v", err)
	}
}

func TestWriteJSON(t *testing.T) {
	frames := testFrames(t, 4)
	var buf bytes.Buffer
	data := NewExportData("run-1", nil, frames, map[string]float64{"settle_frame": -1})
	if err := WriteJSON(&buf, data); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var decoded ExportData
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Steps != 5 || len(decoded.Frames) != 5 || decoded.Width != 400 {
		t.Errorf("unexpected export %+v", decoded)
	}
	if len(decoded.Frames[4].Bodies) != 3 || decoded.Frames[4].Bodies[0].ID != "1" {
		t.Errorf("unexpected bodies %+v", decoded.Frames[4].Bodies)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testFrames(t, 4)); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 6 {
		t.Fatalf("expected header + 5 rows, got %d", len(records))
	}
	if records[0][1] != "kinetic_energy" || records[5][0] != "4" {
		t.Errorf("unexpected csv %v", records)
	}
}
