package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/xivix/darksim/internal/api"
	"github.com/xivix/darksim/internal/config"
	"github.com/xivix/darksim/internal/detector"
	"github.com/xivix/darksim/internal/history"
	"github.com/xivix/darksim/internal/metrics"
	"github.com/xivix/darksim/internal/scan"
	"github.com/xivix/darksim/internal/sim"
	"github.com/xivix/darksim/internal/storage"
	"github.com/xivix/darksim/internal/tui"
)

var (
	dataDir      string
	massKg       float64
	tempMK       float64
	thresholdKeV float64
	bgRate       float64
	exposure     float64
	nSignal      int
	nBackground  int
	seed         int64
	wimpMass     float64
	noMix        bool
	configFile   string
	preset       string
	save         bool

	// scan
	scanMinMass float64
	scanMaxMass float64
	scanSteps   int

	// serve
	addr         string
	historyLimit int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "darksim",
		Short: "dark matter detector simulation lab",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".darksim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [detector]",
		Short: "run a simulation",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&massKg, "mass", 1.0, "detector mass (kg)")
	runCmd.Flags().Float64Var(&tempMK, "temp", 0, "operating temperature (mK, 0 = kind default)")
	runCmd.Flags().Float64Var(&thresholdKeV, "threshold", 0, "energy threshold (keV, 0 = kind default)")
	runCmd.Flags().Float64Var(&bgRate, "bg-rate", 0, "background rate (events/kg/day, 0 = kind default)")
	runCmd.Flags().Float64Var(&exposure, "exposure", 365, "exposure time (days)")
	runCmd.Flags().IntVar(&nSignal, "signal", 50, "WIMP events to draw")
	runCmd.Flags().IntVar(&nBackground, "background", 1000, "background events to draw")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	runCmd.Flags().Float64Var(&wimpMass, "wimp-mass", 0, "WIMP mass (GeV, 0 = default)")
	runCmd.Flags().BoolVar(&noMix, "no-mix", false, "keep generation order instead of mixing arrivals")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().BoolVar(&save, "save", true, "save result to the data directory")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run's energy spectrum",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a saved run's histograms as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [detector]",
		Short: "list presets for a detector kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for detector: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	scanCmd := &cobra.Command{
		Use:   "scan [detector]",
		Short: "scan WIMP mass hypotheses and report significance",
		Args:  cobra.ExactArgs(1),
		RunE:  runScan,
	}
	scanCmd.Flags().Float64Var(&scanMinMass, "min-mass", 10, "minimum WIMP mass (GeV)")
	scanCmd.Flags().Float64Var(&scanMaxMass, "max-mass", 200, "maximum WIMP mass (GeV)")
	scanCmd.Flags().IntVar(&scanSteps, "steps", 10, "grid points")
	scanCmd.Flags().Float64Var(&massKg, "mass", 1.0, "detector mass (kg)")
	scanCmd.Flags().Float64Var(&exposure, "exposure", 365, "exposure time (days)")
	scanCmd.Flags().IntVar(&nSignal, "signal", 200, "WIMP events per point")
	scanCmd.Flags().IntVar(&nBackground, "background", 1000, "background events per point")
	scanCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "base random seed")

	liveCmd := &cobra.Command{
		Use:   "live [detector]",
		Short: "run a simulation with live terminal visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&massKg, "mass", 1.0, "detector mass (kg)")
	liveCmd.Flags().Float64Var(&exposure, "exposure", 365, "exposure time (days)")
	liveCmd.Flags().IntVar(&nSignal, "signal", 2000, "WIMP events to draw")
	liveCmd.Flags().IntVar(&nBackground, "background", 2000, "background events to draw")
	liveCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the simulation HTTP API",
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	serveCmd.Flags().IntVar(&historyLimit, "history-limit", config.DefaultHistoryLimit, "results retained in memory")
	serveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, presetsCmd, scanCmd, liveCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildConfig(kind string) (detector.Config, error) {
	if preset != "" {
		cfg := config.GetPreset(kind, preset)
		if cfg == nil {
			return detector.Config{}, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(kind))
		}
		massKg = cfg.MassKg
		tempMK = cfg.TemperatureMK
		thresholdKeV = cfg.ThresholdKeV
		exposure = cfg.ExposureDays
		nSignal = cfg.SignalEvents
		nBackground = cfg.BackgroundEvents
		if cfg.Seed != 0 {
			seed = cfg.Seed
		}
		if cfg.WIMPMassGeV != 0 {
			wimpMass = cfg.WIMPMassGeV
		}
	}
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return detector.Config{}, err
		}
		kind = cfg.Detector
		massKg = cfg.MassKg
		tempMK = cfg.TemperatureMK
		thresholdKeV = cfg.ThresholdKeV
		exposure = cfg.ExposureDays
		nSignal = cfg.SignalEvents
		nBackground = cfg.BackgroundEvents
		if cfg.Seed != 0 {
			seed = cfg.Seed
		}
		if cfg.WIMPMassGeV != 0 {
			wimpMass = cfg.WIMPMassGeV
		}
	}
	return detector.NewConfig(detector.Kind(kind), massKg, tempMK, thresholdKeV, bgRate, exposure)
}

func runOptions() []sim.Option {
	opts := []sim.Option{sim.WithSeed(seed), sim.WithArrivalMix(!noMix)}
	if wimpMass > 0 {
		src := sim.DefaultSource()
		src.WIMPMass = wimpMass
		opts = append(opts, sim.WithSource(src))
	}
	return opts
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(args[0])
	if err != nil {
		return err
	}

	res, err := sim.Simulate(cfg, nSignal, nBackground, runOptions()...)
	if err != nil {
		return err
	}

	printSummary(res)

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(res)
		if err != nil {
			return err
		}
		fmt.Printf("\nsaved as %s\n", runID)
	}
	return nil
}

func printSummary(res *sim.Result) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "detector\t%s (A=%d, Z=%d)\n", res.Config.Kind, res.Config.MassNumber, res.Config.AtomicNumber)
	fmt.Fprintf(w, "exposure\t%.1f kg·days\n", res.Config.ExposureKgDays())
	fmt.Fprintf(w, "seed\t%d\n", res.Seed)
	fmt.Fprintf(w, "total events\t%d\n", res.Stats.Total)
	fmt.Fprintf(w, "candidates\t%d of %d requested\n", res.Stats.SignalCount, res.RequestedSignal)
	fmt.Fprintf(w, "background\t%d\n", res.Stats.BackgroundCount)
	if res.Stats.MeanEnergy != nil {
		fmt.Fprintf(w, "mean energy\t%.2f keV\n", *res.Stats.MeanEnergy)
	}
	fmt.Fprintf(w, "efficiency\t%.3f\n", res.Stats.Efficiency)
	fmt.Fprintf(w, "expected rate\t%.3g events/day\n", res.ExpectedRatePerDay)
	w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no saved runs")
		return nil
	}
	for _, id := range runs {
		fmt.Println(id)
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	res, err := st.Load(args[0])
	if err != nil {
		return err
	}
	if len(res.Spectrum.Counts) == 0 {
		fmt.Println("empty spectrum")
		return nil
	}

	data := make([]float64, len(res.Spectrum.Counts))
	for i, c := range res.Spectrum.Counts {
		data[i] = float64(c)
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s energy spectrum, 0–%.1f keV",
			res.Config.Kind, res.Spectrum.Edges[len(res.Spectrum.Edges)-1])),
	)
	fmt.Println(graph)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	res, err := st.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	return st.ExportCSV(args[0], os.Stdout)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := detector.NewConfig(detector.Kind(args[0]), massKg, 0, 0, 0, exposure)
	if err != nil {
		return err
	}

	masses := scan.Grid(scanMinMass, scanMaxMass, scanSteps)
	sc := scan.New(cfg, masses, nSignal, nBackground, seed)
	points, err := sc.Run(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "mass (GeV)\tsignal\tbackground\tsignificance")
	for _, p := range points {
		fmt.Fprintf(w, "%.1f\t%d\t%d\t%.2fσ\n", p.WIMPMass, p.SignalCount, p.BackgroundCount, p.Significance)
	}
	w.Flush()

	if best, ok := scan.Best(points); ok {
		fmt.Printf("\nbest: %.1f GeV at %.2fσ\n", best.WIMPMass, best.Significance)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := detector.NewConfig(detector.Kind(args[0]), massKg, 0, 0, 0, exposure)
	if err != nil {
		return err
	}
	return tui.Run(cfg, nSignal, nBackground, seed)
}

func serve(cmd *cobra.Command, args []string) error {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	defaults := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		defaults = loaded
		if loaded.Addr != "" {
			addr = loaded.Addr
		}
		if loaded.HistoryLimit > 0 {
			historyLimit = loaded.HistoryLimit
		}
	}

	store := history.NewStore(historyLimit)
	mgr := metrics.NewManager()
	server := api.NewServer(store, mgr, log, defaults)

	mux := http.NewServeMux()
	server.Register(mux)

	log.Info("listening", "addr", addr)
	return http.ListenAndServe(addr, mux)
}
