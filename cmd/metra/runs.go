package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/metra/internal/bubble"
	"github.com/san-kum/metra/internal/config"
	"github.com/san-kum/metra/internal/export"
	"github.com/san-kum/metra/internal/feed"
	"github.com/san-kum/metra/internal/metrics"
	"github.com/san-kum/metra/internal/storage"
)

// Terminal cell size in canvas pixels, used by simulate --fit.
const (
	cellWidth  = 8
	cellHeight = 16
)

func runCommands() []*cobra.Command {
	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "run the bubble map headless and record the frames",
		Args:  cobra.NoArgs,
		RunE:  runSimulate,
	}
	simulateCmd.Flags().IntVar(&frameCount, "frames", 600, "frames to simulate")
	simulateCmd.Flags().Float64Var(&width, "width", config.DefaultWidth, "canvas width")
	simulateCmd.Flags().Float64Var(&height, "height", config.DefaultHeight, "canvas height")
	simulateCmd.Flags().BoolVar(&fitTerm, "fit", false, "size the canvas to the terminal")
	simulateCmd.Flags().IntVar(&seedCount, "seeds", 1, "run this many consecutive seeds and compare them instead of recording")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run]",
		Short: "plot energy and speed of a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [run]",
		Short: "render a frame of a run as SVG or PNG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshotRun,
	}
	snapshotCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run>.svg)")
	snapshotCmd.Flags().StringVar(&format, "format", "", "svg or png (default from extension)")
	snapshotCmd.Flags().IntVar(&frameIndex, "frame", -1, "frame index, -1 for the last")
	snapshotCmd.Flags().BoolVar(&trails, "trails", false, "draw every body's path instead of one frame")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run]",
		Short: "export run data to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run]",
		Short: "export run frames to CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list physics presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	return []*cobra.Command{simulateCmd, runsCmd, plotCmd, snapshotCmd, exportJSONCmd, exportCSVCmd, presetsCmd}
}

func runSimulate(cmd *cobra.Command, args []string) error {
	params, err := cfg.Params()
	if err != nil {
		return err
	}
	w, h := cfg.Canvas.Width, cfg.Canvas.Height
	if fitTerm {
		cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			return fmt.Errorf("terminal size: %w", err)
		}
		w, h = float64(cols*cellWidth), float64(rows*cellHeight)
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	events, err := providerFor(cfg.Data.Mode).Events(ctx)
	if err != nil {
		return err
	}
	items := feed.Items(events)
	if seedCount > 1 {
		return compareSeeds(ctx, params, items, w, h)
	}

	st := storage.New(cfg.RunsDir)
	if err := st.Init(); err != nil {
		return err
	}

	engine := bubble.NewEngine(params)
	engine.Mount(items, w, h)
	runner := bubble.NewRunner(engine)
	for _, m := range metrics.Standard() {
		runner.AddMetric(m)
	}

	fmt.Printf("simulating %d bubbles on %.0fx%.0f...\n", len(items), w, h)
	start := time.Now()
	result, err := runner.Run(ctx, bubble.RunConfig{Frames: frameCount, Record: true, ValidateState: true})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Preset:    presetName,
		Seed:      params.Seed,
		Width:     w,
		Height:    h,
		Collision: params.Policy.String(),
		Items:     items,
	}, result)
	if err != nil {
		return err
	}
	logger.Debug("run saved", zap.String("run", runID))

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	if result.Settled >= 0 {
		fmt.Printf("settled at frame %d\n", result.Settled)
	} else {
		fmt.Println("did not settle")
	}
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	printMetrics(result.Metrics)
	return nil
}

// compareSeeds runs the layout under consecutive seeds in parallel and
// tabulates how each one settles.
func compareSeeds(ctx context.Context, params bubble.Params, items []bubble.Item, w, h float64) error {
	ens := bubble.NewEnsemble(params, seedCount, params.Seed, metrics.Standard)
	results, err := ens.Run(ctx, items, w, h, bubble.RunConfig{Frames: frameCount, ValidateState: true})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEED\tSETTLED\tENERGY\tFINAL OVERLAP\tCONTAINED")
	for i, r := range results {
		fmt.Fprintf(tw, "%d\t%d\t%.4f\t%.3f\t%.0f%%\n",
			params.Seed+int64(i),
			r.Settled,
			r.Metrics["kinetic_energy"],
			r.Metrics["max_overlap"],
			r.Metrics["containment"]*100,
		)
	}
	return tw.Flush()
}

func printMetrics(m map[string]float64) {
	if len(m) == 0 {
		return
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(cfg.RunsDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tCANVAS\tFRAMES\tSETTLED\tCOLLISION")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0fx%.0f\t%d\t%d\t%s\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height,
			run.Frames,
			run.Settled,
			run.Collision,
		)
	}
	return w.Flush()
}

// loadRun reads the named run, or the newest one when args is empty.
func loadRun(args []string) (*storage.RunMetadata, []bubble.Frame, error) {
	st := storage.New(cfg.RunsDir)
	runID := ""
	if len(args) > 0 {
		runID = args[0]
	} else {
		latest, err := st.Latest()
		if err != nil {
			return nil, nil, err
		}
		runID = latest.ID
	}
	meta, frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("run %s has no frames", runID)
	}
	return meta, frames, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args)
	if err != nil {
		return err
	}

	energy := make([]float64, len(frames))
	speed := make([]float64, len(frames))
	for i, f := range frames {
		energy[i] = bubble.KineticEnergy(f)
		speed[i] = bubble.MaxSpeed(f)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("frames: %d\n", len(frames))
	fmt.Printf("bubbles: %d\n\n", len(meta.Items))

	for _, series := range []struct {
		caption string
		data    []float64
	}{
		{"kinetic energy", energy},
		{"top speed", speed},
	} {
		mean, std := stat.MeanStdDev(series.data, nil)
		fmt.Println(asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s (mean %.3f, sd %.3f)", series.caption, mean, std)),
		))
		fmt.Println()
	}

	if period, mag := metrics.DominantPeriod(energy); period > 0 {
		fmt.Printf("energy oscillation: period %.1f frames (magnitude %.3f)\n", period, mag)
	} else {
		fmt.Println("energy oscillation: none")
	}
	return nil
}

func snapshotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args)
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = meta.ID + ".svg"
	}

	if trails {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.WriteTrailsSVG(f, frames); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	}

	idx := frameIndex
	if idx < 0 || idx >= len(frames) {
		idx = len(frames) - 1
	}
	err = export.SaveSnapshot(export.SnapshotOptions{
		Path:   path,
		Format: format,
		Title:  fmt.Sprintf("%s frame %d", meta.ID, frames[idx].Index),
		Frame:  frames[idx],
	})
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args)
	if err != nil {
		return err
	}
	data := export.NewExportData(meta.ID, meta.Items, frames, meta.Metrics)
	if outPath == "" {
		return export.ExportJSONStdout(data)
	}
	if err := export.ExportJSON(outPath, data); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outPath)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, frames, err := loadRun(args)
	if err != nil {
		return err
	}
	if outPath == "" {
		return export.WriteCSV(os.Stdout, frames)
	}
	if err := export.ExportCSV(outPath, frames); err != nil {
		return err
	}
	fmt.Printf("exported %d frames to %s\n", len(frames), outPath)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tGRAVITY\tFRICTION\tMAX VEL\tBOUNCE\tCOLLISION")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		policy := p.Collision
		if policy == "" {
			policy = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			name,
			presetValue(p.CenterGravity),
			presetValue(p.Friction),
			presetValue(p.MaxVelocity),
			presetValue(p.Bounce),
			policy,
		)
	}
	return w.Flush()
}

func presetValue(v float64) string {
	if v == 0 {
		return "-"
	}
	return fmt.Sprintf("%g", v)
}
