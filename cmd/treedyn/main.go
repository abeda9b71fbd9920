package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/hmartens/treedyn/internal/config"
	"github.com/hmartens/treedyn/internal/scene"
	"github.com/hmartens/treedyn/internal/sim"
	"github.com/hmartens/treedyn/internal/tui"
)

var (
	scenePath  string
	configFile string
	dt         float64
	duration   float64
	method     string
	csvPath    string
	plotCoord  int
	frameRate  int
	runs       int
	spread     float64
	preset     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "treedyn",
		Short: "constrained rigid-body dynamics of kinematic trees",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate a scene",
		RunE:  runScene,
	}
	runCmd.Flags().StringVar(&scenePath, "scene", "", "scene file (yaml), builtin scene if empty")
	runCmd.Flags().StringVar(&configFile, "config", "", "run config file (yaml)")
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().StringVar(&method, "method", config.DefaultMethod, "solver method (recursive|lagrangian)")
	runCmd.Flags().StringVar(&csvPath, "csv", "", "write trajectory to CSV")
	runCmd.Flags().IntVar(&plotCoord, "plot", -1, "plot coordinate N after the run")
	runCmd.Flags().StringVar(&preset, "preset", "", "preset run configuration")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "simulate a scene with a live terminal view",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&scenePath, "scene", "", "scene file (yaml), builtin scene if empty")
	liveCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	liveCmd.Flags().StringVar(&method, "method", config.DefaultMethod, "solver method (recursive|lagrangian)")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run an ensemble with perturbed initial angles",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&scenePath, "scene", "", "scene file (yaml), builtin scene if empty")
	sweepCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	sweepCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	sweepCmd.Flags().StringVar(&method, "method", config.DefaultMethod, "solver method (recursive|lagrangian)")
	sweepCmd.Flags().IntVar(&runs, "runs", 8, "ensemble size")
	sweepCmd.Flags().Float64Var(&spread, "spread", 0.05, "initial-angle perturbation per run")

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the builtin example scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return scene.Save(args[0], scene.Default())
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, sweepCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadScene() (*scene.Scene, error) {
	if scenePath == "" {
		return scene.Default(), nil
	}
	return scene.Load(scenePath)
}

func buildRunConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q, have %v", preset, config.ListPresets())
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("method") {
		cfg.Method = method
	}
	if csvPath != "" {
		cfg.Output = csvPath
	}
	if cfg.Scene != "" && scenePath == "" {
		scenePath = cfg.Scene
	}
	return cfg, cfg.Check()
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := buildRunConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := loadScene()
	if err != nil {
		return err
	}
	m, cs, q0, qdot0, err := sc.Build()
	if err != nil {
		return err
	}

	simMethod, err := sim.ParseMethod(cfg.Method)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := sim.New(m, cs).Run(ctx, q0, qdot0, sim.Config{
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Method:   simMethod,
		Validate: cfg.Validate,
	})
	if err != nil {
		return err
	}

	fmt.Printf("scene %q: %d steps, t = %.3f s\n", sc.Name, result.StepsTaken, result.Times[len(result.Times)-1])
	final := result.Q[len(result.Q)-1]
	for i, v := range final {
		fmt.Printf("  q[%d] = %9.4f\n", i, v)
	}

	if cfg.Output != "" {
		if err := writeCSV(cfg.Output, sc, result); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", cfg.Output)
	}

	if plotCoord >= 0 {
		if plotCoord >= m.DOFCount() {
			return fmt.Errorf("plot coordinate %d out of range, model has %d", plotCoord, m.DOFCount())
		}
		series := make([]float64, len(result.Q))
		for i, row := range result.Q {
			series[i] = row[plotCoord]
		}
		caption := fmt.Sprintf("q[%d]", plotCoord)
		fmt.Println(asciigraph.Plot(series, asciigraph.Height(12), asciigraph.Width(72), asciigraph.Caption(caption)))
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	sc, err := loadScene()
	if err != nil {
		return err
	}
	m, cs, q0, qdot0, err := sc.Build()
	if err != nil {
		return err
	}
	simMethod, err := sim.ParseMethod(method)
	if err != nil {
		return err
	}
	cfg := sim.Config{Dt: dt, Method: simMethod}
	return tui.Run(sim.New(m, cs), cfg, sc.Name, q0, qdot0, frameRate)
}

func runSweep(cmd *cobra.Command, args []string) error {
	sc, err := loadScene()
	if err != nil {
		return err
	}
	simMethod, err := sim.ParseMethod(method)
	if err != nil {
		return err
	}

	factory := func() (*sim.Simulator, []float64, []float64, error) {
		m, cs, q0, qdot0, err := sc.Build()
		if err != nil {
			return nil, nil, nil, err
		}
		return sim.New(m, cs), q0, qdot0, nil
	}
	perturb := func(run int, q, qdot []float64) {
		q[0] += spread * float64(run-runs/2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := sim.NewEnsemble(factory, runs, perturb).Run(ctx, sim.Config{
		Dt:       dt,
		Duration: duration,
		Method:   simMethod,
		Validate: true,
	})
	if err != nil {
		return err
	}

	for i, r := range results {
		final := r.Q[len(r.Q)-1]
		fmt.Printf("run %2d: q[0] final = %9.4f (%d steps)\n", i, final[0], r.StepsTaken)
	}
	return nil
}

func writeCSV(path string, sc *scene.Scene, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	dof := len(result.Q[0])
	header := []string{"t"}
	for i := 0; i < dof; i++ {
		header = append(header, "q"+strconv.Itoa(i))
	}
	for i := 0; i < dof; i++ {
		header = append(header, "qdot"+strconv.Itoa(i))
	}
	for _, c := range sc.Constraints {
		header = append(header, "f_"+c.Name)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range result.Times {
		row := []string{strconv.FormatFloat(result.Times[i], 'g', -1, 64)}
		for _, v := range result.Q[i] {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		for _, v := range result.QDot[i] {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if i > 0 && i-1 < len(result.Forces) {
			for _, v := range result.Forces[i-1] {
				row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
			}
		} else {
			for range sc.Constraints {
				row = append(row, "0")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
