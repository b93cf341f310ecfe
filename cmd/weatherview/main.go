// Command weatherview opens a window whose event loop drives the weather
// frames. Keys act as the control surface:
//
//	R / S / F     toggle rain, snow, fog
//	arrows        wind X (left/right) and wind Z (up/down)
//	B             rebuild both populations
//	Esc           quit
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/weatherfx"
)

func init() {
	// GLFW must be called from the main thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	width := flag.Int("width", 1280, "Window width")
	height := flag.Int("height", 720, "Window height")
	flag.Parse()

	if err := run(*configPath, *width, *height); err != nil {
		fmt.Fprintln(os.Stderr, "weatherview:", err)
		os.Exit(1)
	}
}

func run(configPath string, width, height int) error {
	cfg, err := weatherfx.LoadConfig(configPath)
	if err != nil {
		return err
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("initializing glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	win, err := glfw.CreateWindow(width, height, "weatherfx", nil, nil)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer win.Destroy()

	app := weatherfx.NewApp()
	app.UseModules(
		weatherfx.LoggingModule{Prefix: cfg.Log.Prefix, Debug: cfg.Log.Debug},
		weatherfx.TimeModule{},
		weatherfx.WeatherModule{Params: &cfg.Weather, Seed: cfg.Seed},
		weatherfx.RendererModule{Renderer: &titleRenderer{win: win}},
	)

	control, _ := weatherfx.Resource[weatherfx.ControlSurface](app)
	weather, _ := weatherfx.Resource[weatherfx.Weather](app)
	bindKeys(win, control, weather, app.Logger())

	// Frames and key callbacks both run on this goroutine, so edits land
	// between frames.
	return app.Run(context.Background(), newWindowSource(win, cfg.Frame.TargetFPS))
}

// windowSource paces frames off the window event loop and closes when the
// window is asked to close.
type windowSource struct {
	win     *glfw.Window
	period  float64
	lastHit float64
}

func newWindowSource(win *glfw.Window, fps int) *windowSource {
	if fps <= 0 {
		fps = 60
	}
	return &windowSource{win: win, period: 1 / float64(fps), lastHit: glfw.GetTime()}
}

func (s *windowSource) Next(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.win.ShouldClose() {
			return weatherfx.ErrFrameSourceClosed
		}
		wait := s.period - (glfw.GetTime() - s.lastHit)
		if wait <= 0 {
			glfw.PollEvents()
			s.lastHit = glfw.GetTime()
			return nil
		}
		glfw.WaitEventsTimeout(wait)
	}
}

func bindKeys(win *glfw.Window, control *weatherfx.ControlSurface, weather *weatherfx.Weather, log weatherfx.Logger) {
	const windStep = 0.1

	nudge := func(key string, current float32, delta float64) {
		if err := control.SetFloat(key, float64(current)+delta); err != nil {
			log.Debugf("%v", err)
		}
	}

	win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press && action != glfw.Repeat {
			return
		}
		p := weather.Params
		var err error
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyR:
			err = control.SetBool("rain_enabled", !p.RainEnabled)
		case glfw.KeyS:
			err = control.SetBool("snow_enabled", !p.SnowEnabled)
		case glfw.KeyF:
			err = control.SetBool("fog_enabled", !p.FogEnabled)
		case glfw.KeyB:
			control.RebuildRain()
			control.RebuildSnow()
		case glfw.KeyLeft:
			nudge("wind_x", p.WindX, -windStep)
		case glfw.KeyRight:
			nudge("wind_x", p.WindX, windStep)
		case glfw.KeyUp:
			nudge("wind_z", p.WindZ, -windStep)
		case glfw.KeyDown:
			nudge("wind_z", p.WindZ, windStep)
		}
		if err != nil {
			log.Warnf("Key %v: %v", key, err)
		}
	})
}

// titleRenderer reports the scene in the window title twice a second.
type titleRenderer struct {
	win *glfw.Window
}

func (r *titleRenderer) Name() string { return "glfw-title" }

func (r *titleRenderer) Submit(frame uint64, scene *weatherfx.Scene) {
	if frame%30 != 0 {
		return
	}
	points := 0
	for _, o := range scene.Objects() {
		if o.Visible() {
			points += len(o.Positions())
		}
	}
	fog := "off"
	if f := scene.Fog(); f != nil {
		fog = fmt.Sprintf("%.3f", f.Density)
	}
	r.win.SetTitle(fmt.Sprintf("weatherfx | frame %d | %d points | fog %s", frame, points, fog))
}
