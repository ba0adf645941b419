package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/kinframe/internal/analysis"
	"github.com/san-kum/kinframe/internal/config"
	"github.com/san-kum/kinframe/internal/metrics"
	"github.com/san-kum/kinframe/internal/scene"
	"github.com/san-kum/kinframe/internal/sim"
	"github.com/san-kum/kinframe/internal/storage"
	"github.com/san-kum/kinframe/internal/tui"
	"github.com/san-kum/kinframe/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	logFormat  string
	profileArg string
	configFile string
	dt         float64
	duration   float64
	at         float64
	plain      bool
	frameName  string
	relativeTo string
	inCoords   string
	offset     []float64
	live       bool
	frameRate  int
	liveScale  float64
	metricArgs []string
	reach      float64
	noSave     bool
	trackName  string
	columns    []string
	outFile    string
	theme      string
	svgFile    string
	spectrum   bool
	portrait   []string

	log     = zap.NewNop()
	stopper interface{ Stop() }
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "kinframe",
		Short:         "kinematic frame graphs: poses, velocities and accelerations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setLogger(config.LoggingConfig{Level: logLevel, Format: logFormat}); err != nil {
				return err
			}
			return startProfile(profileArg)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if stopper != nil {
				stopper.Stop()
			}
			_ = log.Sync()
		},
		RunE: runPicker,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".kinframe", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().StringVar(&profileArg, "profile", "", "write a cpu or mem profile to the working directory")

	sceneFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&configFile, "config", "", "scene file (.yaml, .yml or .toml)")
		c.Flags().Float64Var(&dt, "dt", config.DefaultDt, "sampling step")
		c.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	}

	treeCmd := &cobra.Command{
		Use:   "tree [preset]",
		Short: "print the frame tree of a scene",
		Args:  cobra.MaximumNArgs(1),
		RunE:  printTree,
	}
	sceneFlags(treeCmd)
	treeCmd.Flags().Float64Var(&at, "at", 0, "time to pose the scene at")
	treeCmd.Flags().BoolVar(&plain, "plain", false, "plain text without colors")
	treeCmd.Flags().StringVar(&svgFile, "svg", "", "also draw the skeleton to an svg file")

	queryCmd := &cobra.Command{
		Use:   "query [preset]",
		Short: "query one point of a frame at one instant",
		Args:  cobra.MaximumNArgs(1),
		RunE:  queryFrame,
	}
	sceneFlags(queryCmd)
	queryCmd.Flags().Float64Var(&at, "at", 0, "time to query at")
	queryCmd.Flags().StringVar(&frameName, "frame", "", "frame to query")
	queryCmd.Flags().StringVar(&relativeTo, "relative-to", config.WorldName, "reference frame")
	queryCmd.Flags().StringVar(&inCoords, "in", config.WorldName, "frame whose coordinates the result is expressed in")
	queryCmd.Flags().Float64SliceVar(&offset, "offset", nil, "point offset in the queried frame (x,y,z)")
	_ = queryCmd.MarkFlagRequired("frame")

	sampleCmd := &cobra.Command{
		Use:   "sample [preset]",
		Short: "sample the tracks of a scene over time and store the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sampleScene,
	}
	sceneFlags(sampleCmd)
	sampleCmd.Flags().BoolVar(&live, "live", false, "draw tracks while sampling")
	sampleCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate of the live view")
	sampleCmd.Flags().Float64Var(&liveScale, "scale", 2, "half width of the live view in scene units")
	sampleCmd.Flags().StringSliceVar(&metricArgs, "metrics", metrics.Names(), "metrics to record")
	sampleCmd.Flags().Float64Var(&reach, "reach", 0, "also record the fraction of samples within this radius")
	sampleCmd.Flags().BoolVar(&noSave, "no-save", false, "print metrics without storing the run")

	watchCmd := &cobra.Command{
		Use:   "watch [preset]",
		Short: "watch a scene move",
		Args:  cobra.MaximumNArgs(1),
		RunE:  watchScene,
	}
	sceneFlags(watchCmd)
	watchCmd.PersistentFlags().StringVar(&theme, "theme", "cyberpunk", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored track",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&trackName, "track", "", "track to plot (default: first)")
	plotCmd.Flags().StringSliceVar(&columns, "columns", []string{"x", "y", "z"}, "columns to plot ("+strings.Join(sim.Columns, ",")+")")
	plotCmd.Flags().BoolVar(&spectrum, "spectrum", false, "plot the power spectrum of each column")
	plotCmd.Flags().StringSliceVar(&portrait, "portrait", nil, "draw one column against another (e.g. x,y)")
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "write the portrait to an svg file")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFRAMES\tTRACKS\tDT\tDURATION")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%d\t%d\t%g\t%.2fs\n", name, len(p.Frames), len(p.Tracks), p.Dt, p.Duration)
			}
			return w.Flush()
		},
	}

	scaffoldCmd := &cobra.Command{
		Use:   "scaffold [preset] [path]",
		Short: "write a preset to a scene file for editing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetPreset(args[0])
			if cfg == nil {
				return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
			}
			if err := config.Save(args[1], cfg); err != nil {
				return err
			}
			log.Info("scene written", zap.String("preset", args[0]), zap.String("path", args[1]))
			return nil
		},
	}

	rootCmd.AddCommand(treeCmd, queryCmd, sampleCmd, watchCmd, listCmd, plotCmd, exportJSONCmd, presetsCmd, scaffoldCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func startProfile(kind string) error {
	switch kind {
	case "":
	case "cpu":
		stopper = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet)
	case "mem":
		stopper = profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet)
	default:
		return fmt.Errorf("unknown profile %q (want cpu or mem)", kind)
	}
	return nil
}

// loadScene reads --config or the named preset. Flags given on the
// command line override the file.
func loadScene(cmd *cobra.Command, args []string) (*config.Scene, error) {
	var cfg *config.Scene
	switch {
	case configFile != "":
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, err
		}
		if !cmd.Flags().Changed("log-level") && !cmd.Flags().Changed("log-format") {
			if err := setLogger(cfg.Logging); err != nil {
				return nil, err
			}
		}
	case len(args) == 1:
		if cfg = config.GetPreset(args[0]); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
	default:
		return nil, fmt.Errorf("need a preset name or --config (presets: %v)", config.ListPresets())
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	return cfg, cfg.Validate()
}

func buildScene(cmd *cobra.Command, args []string) (*scene.Scene, error) {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return nil, err
	}
	return scene.Build(cfg, log.Named("scene"))
}

func printTree(cmd *cobra.Command, args []string) error {
	sc, err := buildScene(cmd, args)
	if err != nil {
		return err
	}
	defer sc.Close()

	sc.Apply(at)
	if svgFile != "" {
		w := viz.Skeleton(sc, 0)
		cam := viz.NewCamera()
		cam.Fit(w.Radius() * 1.2)
		w.Append(viz.Skeleton(sc, 0.1/cam.Zoom))
		if err := os.WriteFile(svgFile, []byte(viz.WireframeSVG(w, cam, 800, 600, "#00ffaa")), 0644); err != nil {
			return err
		}
		log.Info("skeleton written", zap.String("path", svgFile))
	}
	if plain {
		return sc.Describe(os.Stdout)
	}
	fmt.Print(viz.Tree(sc))
	return nil
}

func queryFrame(cmd *cobra.Command, args []string) error {
	sc, err := buildScene(cmd, args)
	if err != nil {
		return err
	}
	defer sc.Close()

	tc := config.TrackConfig{Frame: frameName, RelativeTo: relativeTo, InCoordinatesOf: inCoords, Offset: offset}
	if len(offset) != 0 && len(offset) != 3 {
		return fmt.Errorf("offset needs 3 values, got %d", len(offset))
	}
	tr, err := sc.Track(tc)
	if err != nil {
		return err
	}

	sc.Apply(at)
	s := sim.Measure(tr)
	rel := tr.Frame.Transform(tr.RelativeTo)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "frame\t%s\n", tr.Frame.Name())
	fmt.Fprintf(w, "relative to\t%s\n", tr.RelativeTo.Name())
	fmt.Fprintf(w, "in coordinates of\t%s\n", tr.InCoordinatesOf.Name())
	fmt.Fprintf(w, "t\t%g\n", at)
	fmt.Fprintf(w, "transform\t%s\n", rel)
	fmt.Fprintf(w, "position\t%s\n", vec(s.Position))
	fmt.Fprintf(w, "linear velocity\t%s\n", vec(s.LinearVelocity))
	fmt.Fprintf(w, "angular velocity\t%s\n", vec(s.AngularVelocity))
	fmt.Fprintf(w, "linear acceleration\t%s\n", vec(s.LinearAcceleration))
	fmt.Fprintf(w, "angular acceleration\t%s\n", vec(s.AngularAcceleration))
	fmt.Fprintf(w, "spatial velocity\t%s\n", tr.Frame.SpatialVelocityRelative(tr.RelativeTo, tr.InCoordinatesOf))
	fmt.Fprintf(w, "spatial acceleration\t%s\n", tr.Frame.SpatialAccelerationRelative(tr.RelativeTo, tr.InCoordinatesOf))
	return w.Flush()
}

func vec(v mgl64.Vec3) string {
	return fmt.Sprintf("[%.6f %.6f %.6f]", v[0], v[1], v[2])
}

func sampleScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	sc, err := scene.Build(cfg, log.Named("scene"))
	if err != nil {
		return err
	}
	defer sc.Close()

	tracks, err := sc.Tracks()
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return fmt.Errorf("scene %s has no tracks", cfg.Name)
	}

	s := sim.New(sc, tracks, log.Named("sim"))
	for _, name := range metricArgs {
		m, err := metrics.ByName(name)
		if err != nil {
			return err
		}
		s.AddMetric(m)
	}
	if reach > 0 {
		s.AddMetric(func() sim.Metric { return metrics.NewReach(reach) })
	}

	if live {
		names := make([]string, len(tracks))
		for i, tr := range tracks {
			names[i] = tr.Name
		}
		r := tui.NewLiveRenderer(os.Stdout, cfg.Name, names, liveScale, frameRate)
		r.Start()
		defer r.Stop()
		s.AddObserver(r)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := s.Run(ctx, sim.Config{Dt: cfg.Dt, Duration: cfg.Duration})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TRACK\tSAMPLES")
	for _, name := range metricNames(result) {
		fmt.Fprintf(w, "\t%s", strings.ToUpper(name))
	}
	fmt.Fprintln(w)
	for _, tr := range result.Tracks {
		fmt.Fprintf(w, "%s\t%d", tr.Name, len(tr.Samples))
		for _, name := range metricNames(result) {
			fmt.Fprintf(w, "\t%.4f", tr.Metrics[name])
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}
	log.Info("run saved", zap.String("id", runID), zap.String("dir", dataDir))
	fmt.Printf("\nrun: %s\n", runID)
	return nil
}

func metricNames(r *sim.Result) []string {
	if len(r.Tracks) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.Tracks[0].Metrics))
	for _, n := range append(metrics.Names(), "reach") {
		if _, ok := r.Tracks[0].Metrics[n]; ok {
			names = append(names, n)
		}
	}
	return names
}

func watchScene(cmd *cobra.Command, args []string) error {
	viz.SetTheme(theme)
	sc, err := buildScene(cmd, args)
	if err != nil {
		return err
	}
	defer sc.Close()

	tracks, err := sc.Tracks()
	if err != nil {
		return err
	}
	cfg := sc.Config()
	return viz.Run(viz.NewModel(sc, tracks, cfg.Dt, cfg.Duration))
}

func runPicker(cmd *cobra.Command, args []string) error {
	names := config.ListPresets()
	info := make(map[string]string, len(names))
	for _, name := range names {
		p := config.Presets[name]
		info[name] = fmt.Sprintf("%d frames, %d tracks", len(p.Frames), len(p.Tracks))
	}

	p := viz.NewPicker(names, info, func(name string) (viz.Model, error) {
		cfg := config.GetPreset(name)
		sc, err := scene.Build(cfg, zap.NewNop())
		if err != nil {
			return viz.Model{}, err
		}
		tracks, err := sc.Tracks()
		if err != nil {
			sc.Close()
			return viz.Model{}, err
		}
		return viz.NewModel(sc, tracks, cfg.Dt, cfg.Duration), nil
	})
	defer p.Close()
	return viz.Run(p)
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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tTRACKS")

	for _, run := range runs {
		names := make([]string, len(run.Tracks))
		for i, tr := range run.Tracks {
			names[i] = tr.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			strings.Join(names, ","),
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
	if len(meta.Tracks) == 0 {
		return fmt.Errorf("run %s has no tracks", runID)
	}

	name := trackName
	if name == "" {
		name = meta.Tracks[0].Name
	}
	samples, _, err := st.LoadTrack(runID, name)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("track: %s\n", name)
	fmt.Printf("samples: %d\n\n", len(samples))

	if len(portrait) > 0 {
		return plotPortrait(samples)
	}

	series := make([][]float64, 0, len(columns))
	for _, c := range columns {
		data, err := viz.Column(samples, c)
		if err != nil {
			return err
		}
		if spectrum {
			fmt.Printf("%s: dominant frequency %.4f Hz\n", c, analysis.DominantFrequency(data, meta.Dt))
			data = analysis.PowerSpectrum(data)
		}
		series = append(series, data)
	}
	caption := strings.Join(columns, ", ") + " vs time"
	if spectrum {
		caption = strings.Join(columns, ", ") + " power spectrum"
	}
	fmt.Println(viz.Plot(series, caption, 80, 15))
	return nil
}

func plotPortrait(samples []sim.Sample) error {
	if len(portrait) != 2 {
		return fmt.Errorf("portrait needs two columns, got %v", portrait)
	}
	xs, err := viz.Column(samples, portrait[0])
	if err != nil {
		return err
	}
	ys, err := viz.Column(samples, portrait[1])
	if err != nil {
		return err
	}

	fmt.Printf("%s vs %s\n", portrait[1], portrait[0])
	fmt.Print(analysis.NewPortrait(xs, ys).ASCII(80, 24))
	if svgFile != "" {
		if err := os.WriteFile(svgFile, []byte(viz.TrajectorySVG(xs, ys, 600, 600, "#00ffaa")), 0644); err != nil {
			return err
		}
		log.Info("portrait written", zap.String("path", svgFile))
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

	result := &sim.Result{StepsTaken: meta.Steps}
	for _, tm := range meta.Tracks {
		samples, times, err := st.LoadTrack(runID, tm.Name)
		if err != nil {
			return err
		}
		if result.Times == nil {
			result.Times = times
		}
		result.Tracks = append(result.Tracks, sim.TrackResult{Name: tm.Name, Samples: samples, Metrics: tm.Metrics})
	}

	data := storage.NewExportData(meta.Scene, meta.Dt, meta.Duration, result)
	if outFile == "" {
		return storage.WriteJSON(os.Stdout, data)
	}
	if err := storage.ExportJSON(outFile, data); err != nil {
		return err
	}
	log.Info("exported", zap.String("run", runID), zap.String("path", outFile))
	return nil
}
