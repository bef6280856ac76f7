package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/okrogh/thglab/internal/analysis"
	"github.com/okrogh/thglab/internal/config"
	"github.com/okrogh/thglab/internal/dynamo"
	"github.com/okrogh/thglab/internal/export"
	"github.com/okrogh/thglab/internal/integrators"
	"github.com/okrogh/thglab/internal/metrics"
	"github.com/okrogh/thglab/internal/physics"
	"github.com/okrogh/thglab/internal/render"
	"github.com/okrogh/thglab/internal/sim"
	"github.com/okrogh/thglab/internal/storage"
	"github.com/okrogh/thglab/internal/sweep"
	"github.com/okrogh/thglab/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string

	n1         float64
	n3         float64
	loss       float64
	seedAmp    float64
	deltaBeta  float64
	length     float64
	samples    int
	tolerance  float64
	integrator string

	sweepPoints int
	minDBeta    float64
	maxDBeta    float64
	outputDir   string
	xlsxFile    string
	jsonFile    string
	workers     int
	saveRuns    bool
	noPlots     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "thglab",
		Short: "third-harmonic generation sweep lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".thglab", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep the phase mismatch and plot each trajectory",
		RunE:  runSweep,
	}
	addModelFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&sweepPoints, "points", config.DefaultPoints, "number of mismatch values")
	sweepCmd.Flags().Float64Var(&minDBeta, "min-dbeta", config.DefaultMinDBeta, "smallest mismatch [1/m]")
	sweepCmd.Flags().Float64Var(&maxDBeta, "max-dbeta", config.DefaultMaxDBeta, "largest mismatch [1/m]")
	sweepCmd.Flags().StringVar(&outputDir, "out", "graphs", "plot output directory")
	sweepCmd.Flags().StringVar(&xlsxFile, "xlsx", "", "write sweep summary workbook")
	sweepCmd.Flags().StringVar(&jsonFile, "json", "", "write sweep summary rows as JSON ('-' for stdout)")
	sweepCmd.Flags().IntVar(&workers, "parallel", 1, "concurrent runs")
	sweepCmd.Flags().BoolVar(&saveRuns, "save", false, "store every run")
	sweepCmd.Flags().BoolVar(&noPlots, "no-plots", false, "skip PNG rendering")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "propagate one mismatch value and store the run",
		RunE:  runSingle,
	}
	addModelFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "terminal plot of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spatial frequency analysis of the harmonic beat",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "dump stored run states as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "dump stored run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets()
			if len(names) == 0 {
				fmt.Println("no presets")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDELTA_BETA\tSAMPLES\tTOL\tINTEGRATOR")
			for _, name := range names {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%.1e\t%d\t%.0e\t%s\n",
					name, p.DeltaBeta, p.Samples, p.Tolerance, p.Integrator)
			}
			return w.Flush()
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on one mismatch value",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addModelFlags(compareCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "sweep with a live terminal view",
		RunE:  runLive,
	}
	addModelFlags(liveCmd)
	liveCmd.Flags().IntVar(&sweepPoints, "points", config.DefaultPoints, "number of mismatch values")
	liveCmd.Flags().Float64Var(&minDBeta, "min-dbeta", config.DefaultMinDBeta, "smallest mismatch [1/m]")
	liveCmd.Flags().Float64Var(&maxDBeta, "max-dbeta", config.DefaultMaxDBeta, "largest mismatch [1/m]")

	rootCmd.AddCommand(sweepCmd, runCmd, listCmd, plotCmd, analyzeCmd,
		exportCSVCmd, exportJSONCmd, presetsCmd, compareCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&n1, "n1", config.DefaultN1, "fundamental refractive index")
	cmd.Flags().Float64Var(&n3, "n3", config.DefaultN3, "harmonic refractive index")
	cmd.Flags().Float64Var(&loss, "loss", 0, "field loss coefficient [1/m]")
	cmd.Flags().Float64Var(&seedAmp, "seed", config.DefaultSeed, "fundamental launch amplitude")
	cmd.Flags().Float64Var(&deltaBeta, "dbeta", config.DefaultMinDBeta, "phase mismatch [1/m]")
	cmd.Flags().Float64Var(&length, "length", config.DefaultLength, "propagation length [m]")
	cmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "trajectory samples")
	cmd.Flags().Float64Var(&tolerance, "tol", config.DefaultTolerance, "adaptive step tolerance")
	cmd.Flags().StringVar(&integrator, "integrator", "rk23", "integrator (rk23, rk4, euler)")
}

// buildConfig resolves preset, config file, then explicit flags, with flags
// winning over both.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		*cfg = *loaded
	}

	flagOverrides := []struct {
		name  string
		apply func()
	}{
		{"n1", func() { cfg.N1 = n1 }},
		{"n3", func() { cfg.N3 = n3 }},
		{"loss", func() { cfg.Loss = loss }},
		{"seed", func() { cfg.SeedAmplitude = seedAmp }},
		{"dbeta", func() { cfg.DeltaBeta = deltaBeta }},
		{"length", func() { cfg.Length = length }},
		{"samples", func() { cfg.Samples = samples }},
		{"tol", func() { cfg.Tolerance = tolerance }},
		{"integrator", func() { cfg.Integrator = integrator }},
		{"points", func() { cfg.Sweep.Points = sweepPoints }},
		{"min-dbeta", func() { cfg.Sweep.MinDeltaBeta = minDBeta }},
		{"max-dbeta", func() { cfg.Sweep.MaxDeltaBeta = maxDBeta }},
		{"out", func() { cfg.OutputDir = outputDir }},
	}
	for _, f := range flagOverrides {
		if cmd.Flags().Changed(f.name) {
			f.apply()
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getIntegrator(name string) (dynamo.Integrator, error) {
	switch name {
	case "rk23":
		return integrators.NewRK23(), nil
	case "rk4":
		return integrators.NewRK4(), nil
	case "euler":
		return integrators.NewEuler(), nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
}

func newDriver(cfg *config.Config) (*sweep.Driver, error) {
	if _, err := getIntegrator(cfg.Integrator); err != nil {
		return nil, err
	}
	name := cfg.Integrator

	newSystem := func(db float64) dynamo.System {
		m := physics.NewTHG()
		m.N1 = cfg.N1
		m.N3 = cfg.N3
		m.Loss = cfg.Loss
		m.DeltaBeta = db
		return m
	}
	newIntegrator := func() dynamo.Integrator {
		integ, _ := getIntegrator(name)
		return integ
	}

	return sweep.NewDriver(newSystem, newIntegrator, cfg.InitState(), cfg.SimConfig()), nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	driver, err := newDriver(cfg)
	if err != nil {
		return err
	}

	var st *storage.Store
	if saveRuns {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	swCfg := sweep.Config{
		Points:      cfg.Sweep.Points,
		MinMismatch: cfg.Sweep.MinDeltaBeta,
		MaxMismatch: cfg.Sweep.MaxDeltaBeta,
	}
	values := swCfg.Values()

	fmt.Printf("sweeping %d mismatch values in [%.1e, %.1e]...\n",
		len(values), cfg.Sweep.MinDeltaBeta, cfg.Sweep.MaxDeltaBeta)
	start := time.Now()

	rows := make([]export.SweepRow, len(values))
	onRun := func(r sweep.Run) {
		rows[r.Index] = export.RowFromRun(r, cfg.Length)

		if r.Err != nil {
			fmt.Printf("  delta_beta=%.3e FAILED: %v\n", r.DeltaBeta, r.Err)
			return
		}

		if !noPlots {
			if _, err := render.Trajectory(r.Result, cfg.Length, r.DeltaBeta, cfg.OutputDir); err != nil {
				fmt.Printf("  delta_beta=%.3e plot failed: %v\n", r.DeltaBeta, err)
			}
		}
		if st != nil {
			meta := runMetadata(cfg, r.DeltaBeta)
			if _, err := st.Save(meta, r.Result); err != nil {
				fmt.Printf("  delta_beta=%.3e store failed: %v\n", r.DeltaBeta, err)
			}
		}

		fmt.Printf("  delta_beta=%.3e  peak=%.3e  drift=%.2e  steps=%d\n",
			r.DeltaBeta,
			r.Result.Metrics["peak_conversion"],
			r.Result.InvariantDrift,
			r.Result.StepsTaken)
	}

	driver.Run(context.Background(), values, workers, onRun)

	fmt.Printf("completed in %v\n", time.Since(start))
	if !noPlots {
		fmt.Printf("plots written to %s/\n", cfg.OutputDir)
	}

	if xlsxFile != "" {
		if err := export.SaveXLSX(xlsxFile, rows); err != nil {
			return err
		}
		fmt.Printf("summary written to %s\n", xlsxFile)
	}

	if jsonFile != "" {
		if jsonFile == "-" {
			if err := export.WriteJSON(os.Stdout, rows); err != nil {
				return err
			}
		} else {
			f, err := os.Create(jsonFile)
			if err != nil {
				return err
			}
			if err := export.WriteJSON(f, rows); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Printf("summary rows written to %s\n", jsonFile)
		}
	}

	return nil
}

func runMetadata(cfg *config.Config, db float64) storage.RunMetadata {
	return storage.RunMetadata{
		DeltaBeta:  db,
		N1:         cfg.N1,
		N3:         cfg.N3,
		Loss:       cfg.Loss,
		Length:     cfg.Length,
		Samples:    cfg.Samples,
		Tolerance:  cfg.Tolerance,
		Integrator: cfg.Integrator,
	}
}

func runSingle(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	m := physics.NewTHG()
	m.N1 = cfg.N1
	m.N3 = cfg.N3
	m.Loss = cfg.Loss
	m.DeltaBeta = cfg.DeltaBeta

	integ, err := getIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}

	s := sim.New(m, integ)
	s.AddMetric(metrics.NewConservation(m))
	s.AddMetric(metrics.NewConversion())
	s.AddMetric(metrics.NewDepletion())

	fmt.Printf("propagating delta_beta=%.3e...\n", cfg.DeltaBeta)
	start := time.Now()

	result, err := s.Run(context.Background(), cfg.InitState(), cfg.SimConfig())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(runMetadata(cfg, cfg.DeltaBeta), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", len(result.States))
	fmt.Printf("steps: %d\n", result.StepsTaken)
	for _, e := range result.Errors {
		fmt.Printf("step error: %v\n", e)
	}
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6e\n", name, val)
	}
	fmt.Printf("  invariant_drift: %.6e\n", result.InvariantDrift)

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tDELTA_BETA\tSAMPLES\tINTEG\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.3e\t%d\t%s\t%.2e\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.DeltaBeta,
			run.Samples,
			run.Integrator,
			run.InvariantDrift,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("delta_beta: %.3e\n", meta.DeltaBeta)
	fmt.Printf("samples: %d\n\n", len(states))

	i0 := states[0].Intensity(0)
	if i0 <= 0 {
		return fmt.Errorf("zero input intensity")
	}

	captions := []string{"fundamental |E1|^2 (normalized)", "third harmonic |E3|^2 (normalized)"}
	for comp := 0; comp < 2; comp++ {
		data := make([]float64, len(states))
		for i := range states {
			if comp < len(states[i]) {
				data[i] = states[i].Intensity(comp) / i0
			}
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(captions[comp]),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, zs, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) < 2 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("spatial frequency analysis: %s\n", meta.ID)
	fmt.Printf("delta_beta: %.3e\n\n", meta.DeltaBeta)

	data := make([]float64, len(states))
	for i := range states {
		data[i] = states[i].Intensity(1)
	}

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:len(ps)/2]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum of harmonic intensity"),
	)
	fmt.Println(graph)
	fmt.Println()

	dz := zs[1] - zs[0]
	freq := analysis.DominantFrequency(data, dz)
	fmt.Printf("dominant spatial frequency: %.3e cycles/m\n", freq)
	if freq > 0 {
		fmt.Printf("beat length: %.3e m\n", 1.0/freq)
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	states, zs, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"z", "re_e1", "im_e1", "re_e3", "im_e3"}); err != nil {
		return err
	}
	for i := range states {
		row := []string{strconv.FormatFloat(zs[i], 'e', 9, 64)}
		for _, val := range states[i] {
			row = append(row,
				strconv.FormatFloat(real(val), 'e', 9, 64),
				strconv.FormatFloat(imag(val), 'e', 9, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators at delta_beta=%.3e\n\n", cfg.DeltaBeta)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFINAL_CONVERSION\tDRIFT\tSTEPS\tTIME")

	for _, name := range args {
		integ, err := getIntegrator(name)
		if err != nil {
			return err
		}

		m := physics.NewTHG()
		m.N1 = cfg.N1
		m.N3 = cfg.N3
		m.Loss = cfg.Loss
		m.DeltaBeta = cfg.DeltaBeta

		s := sim.New(m, integ)
		s.AddMetric(metrics.NewConversion())

		start := time.Now()
		result, err := s.Run(context.Background(), cfg.InitState(), cfg.SimConfig())
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		final := 0.0
		if n := len(result.States); n > 0 {
			i0 := result.States[0].Intensity(0)
			if i0 > 0 {
				final = result.States[n-1].Intensity(1) / i0
			}
		}

		fmt.Fprintf(w, "%s\t%.6e\t%.2e\t%d\t%v\n",
			name, final, result.InvariantDrift, result.StepsTaken, elapsed)
	}

	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	driver, err := newDriver(cfg)
	if err != nil {
		return err
	}

	swCfg := sweep.Config{
		Points:      cfg.Sweep.Points,
		MinMismatch: cfg.Sweep.MinDeltaBeta,
		MaxMismatch: cfg.Sweep.MaxDeltaBeta,
	}
	values := swCfg.Values()

	ch := make(chan sweep.Run)
	go func() {
		defer close(ch)
		driver.Run(context.Background(), values, 1, func(r sweep.Run) {
			ch <- r
		})
	}()

	model := viz.NewModel(ch, len(values), cfg.Length)
	p := tea.NewProgram(model)
	_, err = p.Run()
	return err
}
