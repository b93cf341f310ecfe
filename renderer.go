package weatherfx

// Renderer draws a scene. It is called once per frame on the frame goroutine
// after every population has advanced, and must treat the scene as read-only.
type Renderer interface {
	Name() string
	Submit(frame uint64, scene *Scene)
}

// RenderTarget is the resource holding the installed renderer.
type RenderTarget struct {
	Renderer Renderer
}

// RendererModule installs exactly one renderer and the system that hands it
// the scene each frame.
type RendererModule struct {
	Renderer Renderer
}

func (m RendererModule) Install(app *App, cmd *Commands) {
	if m.Renderer == nil {
		panic("RendererModule: Renderer is nil")
	}
	ensureSingleRenderer(app, m.Renderer.Name())
	if _, ok := Resource[Scene](app); !ok {
		SceneModule{}.Install(app, cmd)
	}
	cmd.AddResources(&RenderTarget{Renderer: m.Renderer})
	app.UseSystem(
		System(renderSystem).
			InStage(Render),
	)
	app.Logger().Infof("Renderer selected: %s", m.Renderer.Name())
}

func renderSystem(target *RenderTarget, scene *Scene, cmd *Commands) {
	target.Renderer.Submit(cmd.Frame(), scene)
}

// SceneSummary is what SummaryRenderer extracts from a frame.
type SceneSummary struct {
	Frame         uint64
	Objects       int
	VisiblePoints int
	Fog           bool
	FogDensity    float32
}

// SummaryRenderer is a headless renderer: instead of drawing it counts what
// would be drawn and logs it every Every frames.
type SummaryRenderer struct {
	Every uint64
	Log   Logger
	Last  SceneSummary
}

func (r *SummaryRenderer) Name() string { return "summary" }

func (r *SummaryRenderer) Submit(frame uint64, scene *Scene) {
	s := SceneSummary{Frame: frame, Objects: len(scene.Objects())}
	for _, o := range scene.Objects() {
		if o.Visible() {
			s.VisiblePoints += len(o.Positions())
		}
	}
	if fog := scene.Fog(); fog != nil {
		s.Fog = true
		s.FogDensity = fog.Density
	}
	r.Last = s

	if r.Log != nil && r.Every > 0 && frame%r.Every == 0 {
		r.Log.Debugf("Frame %d: %d objects, %d visible points, fog=%v (%.3f)",
			frame, s.Objects, s.VisiblePoints, s.Fog, s.FogDensity)
	}
}
