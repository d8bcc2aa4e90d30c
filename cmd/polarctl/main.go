package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"go.uber.org/zap"

	"github.com/san-kum/polarctl/internal/automation"
	"github.com/san-kum/polarctl/internal/config"
	"github.com/san-kum/polarctl/internal/experiment"
	"github.com/san-kum/polarctl/internal/export"
	"github.com/san-kum/polarctl/internal/logging"
	"github.com/san-kum/polarctl/internal/sim"
	"github.com/san-kum/polarctl/internal/storage"
	"github.com/san-kum/polarctl/internal/viz"
)

var (
	dataDir       string
	configFile    string
	envFile       string
	preset        string
	logLevel      string
	rotationScale float64
	speedScale    float64
	period        time.Duration
	ticks         int
	duration      time.Duration
	sensorKind    string
	sinkKind      string
	replayRun     string
	failEvery     int
	noise         float64
	save          bool
	outputFile    string
	sweepParam    string
	sweepMin      float64
	sweepMax      float64
	sweepSteps    int
)

var logger = zap.NewNop()

// main registers the commands and exits non-zero on error, running the
// atexit handlers either way.
func main() {
	rootCmd := &cobra.Command{
		Use:           "polarctl",
		Short:         "periodic heading/speed controller",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(logLevel)
			if err != nil {
				return err
			}
			logger = l
			atexit.Register(func() { _ = logger.Sync() })
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".polarctl", "run store directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, silent); defaults to the config's")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the controller on its timer",
		RunE:  runController,
	}
	addControllerFlags(runCmd)
	runCmd.Flags().BoolVar(&save, "save", false, "save the run to the store")

	tickCmd := &cobra.Command{
		Use:   "tick",
		Short: "perform a single tick",
		RunE:  tickOnce,
	}
	addControllerFlags(tickCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the controller with a live terminal view",
		RunE:  runLive,
	}
	addControllerFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot angular and linear output of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "print a run's records as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a run's sample trajectory as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default <run_id>.svg)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run a scripted sequence of controller runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one scale factor and report mean outputs",
		RunE:  runSweep,
	}
	addControllerFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "rotation", "scale factor to sweep (rotation, speed)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.5, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 2.0, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 4, "number of values")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSENSOR\tROTATION\tSPEED\tPERIOD\tTICKS")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%s\t%d\n",
					name, p.Sensor.Kind, p.Scale.Rotation, p.Scale.Speed, p.Period, p.Ticks)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, tickCmd, liveCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, scenarioCmd, sweepCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

func addControllerFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&envFile, "env-file", ".env", "dotenv file with POLARCTL_* overrides")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Float64Var(&rotationScale, "rotation-scale", config.DefaultRotationScale, "gain on atan2(y, x)")
	f.Float64Var(&speedScale, "speed-scale", config.DefaultSpeedScale, "gain on sqrt(x²+y²)")
	f.DurationVar(&period, "period", config.DefaultPeriod, "timer period")
	f.IntVar(&ticks, "ticks", 0, "stop after this many ticks (0 = unbounded)")
	f.DurationVar(&duration, "duration", 0, "stop after this long (0 = unbounded)")
	f.StringVar(&sensorKind, "sensor", config.DefaultSensor, "sensor (fixed, orbit, oscillator, replay)")
	f.StringVar(&sinkKind, "sink", config.DefaultSink, "sink (stdout, log, mqtt, none)")
	f.StringVar(&replayRun, "replay", "", "run id to replay (implies --sensor replay)")
	f.IntVar(&failEvery, "fail-every", 0, "inject a read failure every N reads")
	f.Float64Var(&noise, "noise", 0, "gaussian sensor noise sigma")
}

// resolveConfig layers defaults, preset, file, env and then flags the user
// actually set.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, err
		}
	}

	if err := config.LoadEnv(envFile); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("rotation-scale") {
		cfg.Scale.Rotation = rotationScale
	}
	if flags.Changed("speed-scale") {
		cfg.Scale.Speed = speedScale
	}
	if flags.Changed("period") {
		cfg.Period = period
	}
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("duration") {
		cfg.Duration = duration
	}
	if flags.Changed("sensor") {
		cfg.Sensor.Kind = sensorKind
	}
	if flags.Changed("sink") {
		cfg.Sink.Kind = sinkKind
	}
	if flags.Changed("fail-every") {
		cfg.Sensor.FailEvery = failEvery
	}
	if flags.Changed("noise") {
		cfg.Sensor.Noise = noise
	}
	if replayRun != "" {
		cfg.Sensor.Kind = "replay"
		cfg.Sensor.Run = replayRun
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	return cfg, cfg.Validate()
}

func buildExperiment(cmd *cobra.Command, out io.Writer) (*experiment.Experiment, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.LogLevel != logLevel {
		l, err := logging.New(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		logger = l
	}
	e, err := experiment.Build(cfg, experiment.Env{
		Out:   out,
		Log:   logger,
		Store: storage.New(dataDir),
	})
	if err != nil {
		return nil, err
	}
	atexit.Register(e.Close)
	return e, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runController(cmd *cobra.Command, args []string) error {
	e, err := buildExperiment(cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := signalContext()
	defer cancel()

	result, err := e.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	summarize(cmd.ErrOrStderr(), result)

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(e.Metadata(), result)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "saved: %s\n", runID)
	}
	return nil
}

func summarize(w io.Writer, result *sim.Result) {
	fmt.Fprintf(w, "ticks: %d  published: %d  skipped: %d  elapsed: %s\n",
		result.Ticks, len(result.Records), result.Skipped, result.Elapsed.Round(time.Millisecond))
	for _, name := range sortedMetricNames(result.Metrics) {
		fmt.Fprintf(w, "  %-15s %.4f\n", name, result.Metrics[name])
	}
}

func tickOnce(cmd *cobra.Command, args []string) error {
	e, err := buildExperiment(cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer e.Close()

	if _, ok := e.Tick(cmd.Context()); !ok {
		logger.Info("tick skipped: sensor read failed")
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	if err := quietSink(cmd); err != nil {
		return err
	}
	e, err := buildExperiment(cmd, io.Discard)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := signalContext()
	defer cancel()
	if e.Config().Duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, e.Config().Duration)
		defer cancel()
	}

	return viz.Run(ctx, e.Controller(), e.Config().Period, e.String())
}

// quietSink selects the none sink unless --sink was given. The TUI owns
// stdout, so printed commands would corrupt it.
func quietSink(cmd *cobra.Command) error {
	if cmd.Flags().Changed("sink") {
		return nil
	}
	return cmd.Flags().Set("sink", "none")
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSENSOR\tSINK\tTICKS\tSKIPPED\tTIMESTAMP")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.Sensor, r.Sink, r.Ticks, r.Skipped, r.Timestamp.Format(time.RFC3339))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	records, err := st.LoadRecords(args[0])
	if err != nil {
		return err
	}
	if len(records) < 2 {
		return fmt.Errorf("run %s has %d records, need at least 2 to plot", meta.ID, len(records))
	}

	angular := make([]float64, len(records))
	linear := make([]float64, len(records))
	for i, rec := range records {
		angular[i] = rec.Command.Angular
		linear[i] = rec.Command.Linear
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s  sensor: %s  scale: rotation=%g speed=%g\n\n", meta.ID, meta.Sensor, meta.Rotation, meta.Speed)
	fmt.Fprintln(out, viz.PlotSeries(angular, "angular (rad/s)", 10, 80))
	fmt.Fprintln(out)
	fmt.Fprintln(out, viz.PlotSeries(linear, "linear (m/s)", 10, 80))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	records, err := st.LoadRecords(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "tick,elapsed,x,y,angular,linear")
	for _, r := range records {
		fmt.Fprintf(out, "%d,%s,%s,%s,%s,%s\n",
			r.Tick,
			strconv.FormatFloat(r.Elapsed.Seconds(), 'f', 6, 64),
			strconv.FormatFloat(r.Sample.X, 'f', 6, 64),
			strconv.FormatFloat(r.Sample.Y, 'f', 6, 64),
			strconv.FormatFloat(r.Command.Angular, 'f', 6, 64),
			strconv.FormatFloat(r.Command.Linear, 'f', 6, 64),
		)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	records, err := st.LoadRecords(args[0])
	if err != nil {
		return err
	}
	if outputFile == "" {
		return export.WriteJSON(cmd.OutOrStdout(), *meta, records)
	}
	if err := export.ExportJSON(outputFile, *meta, records); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "exported: %s\n", outputFile)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	samples, err := storage.New(dataDir).LoadSamples(args[0])
	if err != nil {
		return err
	}
	svg := export.TrajectoryToSVG(samples, 800, 800, "#00ff88")
	if svg == "" {
		return fmt.Errorf("run %s has %d samples, need at least 2", args[0], len(samples))
	}

	path := outputFile
	if path == "" {
		path = args[0] + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "exported: %s\n", path)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	env := experiment.Env{Out: cmd.OutOrStdout(), Log: logger, Store: storage.New(dataDir)}
	results, err := automation.RunScenario(ctx, sc, experiment.NewRegistry(), env)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSENSOR\tTICKS\tPUBLISHED\tSKIPPED\tRUN")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%s\n",
			r.Step, r.Config.Sensor.Kind, r.Result.Ticks, len(r.Result.Records), r.Result.Skipped, r.RunID)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Ticks == 0 && cfg.Duration == 0 {
		cfg.Ticks = 10
	}

	ctx, cancel := signalContext()
	defer cancel()

	sweep := &automation.ScaleSweep{Base: cfg, Param: sweepParam, Min: sweepMin, Max: sweepMax, NumSteps: sweepSteps}
	env := experiment.Env{Log: logger, Store: storage.New(dataDir)}
	results, err := automation.RunSweep(ctx, sweep, experiment.NewRegistry(), env)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPUBLISHED\tSKIPPED\tMEAN ANGULAR\tMEAN LINEAR\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%d\t%d\t%.3f\t%.3f\n", r.Value, r.Published, r.Skipped, r.MeanAngular, r.MeanLinear)
	}
	return w.Flush()
}
