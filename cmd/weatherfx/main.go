package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gekko3d/weatherfx"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	presetPath := flag.String("preset", "", "Weather preset to apply on startup")
	savePreset := flag.String("save-preset", "", "Write the final weather parameters to this preset file")
	frames := flag.Uint64("frames", 0, "Stop after N frames (0 = use config)")
	fps := flag.Int("fps", 0, "Target frames per second (0 = use config)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config, then time-based)")
	csvPath := flag.String("telemetry-csv", "", "Write per-window frame telemetry to this CSV file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if err := run(*configPath, *presetPath, *savePreset, *frames, *fps, *seed, *csvPath, *debug); err != nil {
		fmt.Fprintln(os.Stderr, "weatherfx:", err)
		os.Exit(1)
	}
}

func run(configPath, presetPath, savePreset string, frames uint64, fps int, seed int64, csvPath string, debug bool) (err error) {
	cfg, err := weatherfx.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if frames > 0 {
		cfg.Frame.MaxFrames = frames
	}
	if fps > 0 {
		cfg.Frame.TargetFPS = fps
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if csvPath != "" {
		cfg.Telemetry.CSVPath = csvPath
	}
	if debug {
		cfg.Log.Debug = true
	}

	var telemetry weatherfx.TelemetryModule
	telemetry.Window = cfg.Telemetry.Window
	if cfg.Telemetry.CSVPath != "" {
		f, createErr := os.Create(cfg.Telemetry.CSVPath)
		if createErr != nil {
			return fmt.Errorf("creating telemetry file: %w", createErr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing telemetry file: %w", cerr)
			}
		}()
		telemetry.CSV = f
	}

	app := weatherfx.NewAppBuilder().
		UseModule(
			weatherfx.LoggingModule{Prefix: cfg.Log.Prefix, Debug: cfg.Log.Debug},
			weatherfx.TimeModule{},
			weatherfx.AssetServerModule{},
			weatherfx.SceneModule{},
			weatherfx.WeatherModule{Params: &cfg.Weather, Seed: cfg.Seed},
			telemetry,
		).
		Build()

	log := app.Logger()
	app.UseModules(weatherfx.RendererModule{
		Renderer: &weatherfx.SummaryRenderer{Every: uint64(cfg.Frame.TargetFPS), Log: log},
	})

	if presetPath != "" {
		preset, err := weatherfx.LoadPreset(presetPath)
		if err != nil {
			return err
		}
		control, _ := weatherfx.Resource[weatherfx.ControlSurface](app)
		if err := weatherfx.ApplyPreset(control, preset); err != nil {
			return err
		}
		log.Infof("Applied preset %q", preset.Name)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infof("Starting weather loop: %d fps, max frames %d, seed %d",
		cfg.Frame.TargetFPS, cfg.Frame.MaxFrames, cfg.Seed)

	task := app.Start(ctx, weatherfx.NewTickerSource(cfg.Frame.TargetFPS, cfg.Frame.MaxFrames))
	select {
	case <-ctx.Done():
		log.Infof("Interrupted, stopping frame loop")
	case <-task.Done():
	}
	if err := task.Cancel(); err != nil {
		return err
	}
	log.Infof("Stopped after %d frames", app.Frame())

	if savePreset != "" {
		weather, _ := weatherfx.Resource[weatherfx.Weather](app)
		if err := weatherfx.SavePreset(weather, "saved", savePreset); err != nil {
			return err
		}
		log.Infof("Saved preset to %s", savePreset)
	}
	return nil
}
