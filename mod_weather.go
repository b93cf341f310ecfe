package weatherfx

import (
	"time"
)

// FrameReport summarizes the advance step of the last frame.
type FrameReport struct {
	Frame    uint64
	Advance  time.Duration
	Recycled int
	// Particles advanced per kind; zero for hidden or missing populations.
	Particles [len(kinds)]int
}

func (r FrameReport) TotalParticles() int {
	total := 0
	for _, n := range r.Particles {
		total += n
	}
	return total
}

type builtShape struct {
	count int
	size  float32
}

// Weather is the resource holding the parameter record, both populations and
// their scene objects.
type Weather struct {
	Params EnvironmentParameters
	Last   FrameReport

	rng    *RNG
	pops   [len(kinds)]*Population
	clouds [len(kinds)]*PointCloud

	built        [len(kinds)]builtShape
	buildErr     [len(kinds)]error
	forceRebuild [len(kinds)]bool

	fog      FogState
	fogDirty bool
}

func (w *Weather) Population(kind Kind) *Population { return w.pops[kind] }

// Cloud returns the scene object of a population, or nil before the first build.
func (w *Weather) Cloud(kind Kind) *PointCloud { return w.clouds[kind] }

func (w *Weather) FogState() *FogState { return &w.fog }

// BuildError returns the error of the last failed build, if any.
func (w *Weather) BuildError(kind Kind) error { return w.buildErr[kind] }

// WeatherModule installs the weather resources and the per-frame systems.
// Time, AssetServer and Scene are installed with defaults when missing.
type WeatherModule struct {
	Params *EnvironmentParameters
	Seed   int64
}

func (m WeatherModule) Install(app *App, cmd *Commands) {
	params := DefaultParameters()
	if m.Params != nil {
		params = *m.Params
	}

	if _, ok := Resource[Time](app); !ok {
		TimeModule{}.Install(app, cmd)
	}
	if _, ok := Resource[AssetServer](app); !ok {
		AssetServerModule{}.Install(app, cmd)
	}
	if _, ok := Resource[Scene](app); !ok {
		SceneModule{}.Install(app, cmd)
	}

	rng := NewRNG(m.Seed)
	weather := &Weather{
		Params:   params,
		rng:      rng,
		fogDirty: true,
	}
	for _, kind := range kinds {
		weather.pops[kind] = UninitializedPopulation(kind, rng)
	}

	cmd.AddResources(weather, NewControlSurface())

	app.UseSystem(
		System(controlSystem).
			InStage(PreUpdate),
	)
	app.UseSystem(
		System(populationSystem).
			InStage(PreUpdate),
	)
	app.UseSystem(
		System(advanceSystem).
			InStage(Update),
	)
	app.UseSystem(
		System(materialSystem).
			InStage(PreRender),
	)
	app.UseTeardown(weatherTeardown)
}

// controlSystem applies queued control edits before anything reads the
// parameters this frame.
func controlSystem(control *ControlSurface, weather *Weather, cmd *Commands) {
	for _, e := range control.drain() {
		if e.apply != nil {
			e.apply(&weather.Params)
		}
		for _, kind := range e.rebuild {
			weather.forceRebuild[kind] = true
		}
		if e.fog {
			weather.fogDirty = true
		}
		cmd.Logger().Debugf("Control edit %s applied", e.key)
	}
}

// populationSystem moves each population through its lifecycle to match the
// parameters and pushes pending fog changes.
func populationSystem(weather *Weather, scene *Scene, assets *AssetServer, cmd *Commands) {
	log := cmd.Logger()
	for _, kind := range kinds {
		weather.reconcile(kind, scene, assets, log)
	}

	if weather.fogDirty {
		weather.fogDirty = false
		if t := weather.fog.Update(scene, &weather.Params); t != FogUnchanged {
			log.Infof("Fog %s (density %.3f, color %s)", t, weather.Params.FogDensity, weather.Params.FogColor)
		}
	}
}

func (w *Weather) shape(kind Kind) builtShape {
	return builtShape{count: w.Params.Count(kind), size: w.Params.PointSize(kind)}
}

func (w *Weather) needsRebuild(kind Kind) bool {
	return w.forceRebuild[kind] || w.built[kind] != w.shape(kind)
}

func (w *Weather) reconcile(kind Kind, scene *Scene, assets *AssetServer, log Logger) {
	pop := w.pops[kind]
	enabled := w.Params.Enabled(kind)

	switch pop.State() {
	case Uninitialized, Disposed:
		if !enabled {
			return
		}
		// A failed build is retried only once the parameters change.
		if w.buildErr[kind] != nil && !w.needsRebuild(kind) {
			return
		}
		w.build(kind, scene, assets, log)
	case Active, Hidden:
		if !enabled {
			// A pending rebuild waits until the population is enabled again.
			if pop.Visible() {
				pop.SetVisible(false)
				log.Debugf("Hid %s population", kind)
			}
			return
		}
		if w.needsRebuild(kind) {
			w.build(kind, scene, assets, log)
			return
		}
		if !pop.Visible() {
			pop.SetVisible(true)
			log.Debugf("Showed %s population", kind)
		}
	}
}

func (w *Weather) build(kind Kind, scene *Scene, assets *AssetServer, log Logger) {
	pop := w.pops[kind]
	shape := w.shape(kind)
	w.forceRebuild[kind] = false

	if err := pop.Build(shape.count); err != nil {
		w.built[kind] = shape
		w.buildErr[kind] = err
		log.Errorf("Refusing to build %s population: %v", kind, err)
		return
	}
	w.buildErr[kind] = nil

	if old := w.clouds[kind]; old != nil {
		scene.Detach(old.Id)
	}

	tex := assets.CreateParticleTexture(kind)
	pop.AttachTexture(tex, func(id AssetId) { assets.ReleaseTexture(id) })

	cloud := NewPointCloud(kind.String(), pop, pointMaterial(kind, shape.size, w.Params.Color(kind), tex))
	scene.Attach(cloud)
	w.clouds[kind] = cloud
	w.built[kind] = shape

	log.Infof("Built %s population v%d: %d particles, point size %.2f", kind, pop.Version(), shape.count, shape.size)
}

func pointMaterial(kind Kind, size float32, color RGB, tex AssetId) PointMaterial {
	m := PointMaterial{
		Color:           color,
		Size:            size,
		Texture:         tex,
		Transparent:     true,
		SizeAttenuation: true,
	}
	if kind == Snow {
		m.Opacity = 0.8
	} else {
		m.Opacity = 0.6
	}
	return m
}

func advanceSystem(weather *Weather, t *Time, cmd *Commands) {
	start := time.Now()
	phase := t.FlutterPhase()

	report := FrameReport{Frame: cmd.Frame()}
	for _, kind := range kinds {
		pop := weather.pops[kind]
		if !pop.Visible() {
			continue
		}
		report.Recycled += pop.Advance(&weather.Params, phase)
		report.Particles[kind] = pop.Len()
	}
	report.Advance = time.Since(start)
	weather.Last = report
}

// materialSystem copies immediate-effect colors into the point materials.
func materialSystem(weather *Weather) {
	for _, kind := range kinds {
		if cloud := weather.clouds[kind]; cloud != nil {
			cloud.Material.Color = weather.Params.Color(kind)
		}
	}
}

// weatherTeardown runs after the frame loop stopped, so no advance can touch
// the buffers it releases.
func weatherTeardown(weather *Weather, scene *Scene, cmd *Commands) {
	for _, kind := range kinds {
		if cloud := weather.clouds[kind]; cloud != nil {
			scene.Detach(cloud.Id)
			weather.clouds[kind] = nil
		}
		weather.pops[kind].Dispose()
	}
	scene.fog = nil
	cmd.Logger().Infof("Weather torn down after %d frames", cmd.Frame())
}
