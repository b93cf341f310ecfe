package weatherfx

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type weatherFixture struct {
	app     *App
	clock   *fakeClock
	weather *Weather
	control *ControlSurface
	scene   *Scene
	assets  *AssetServer
}

func newWeatherFixture(t *testing.T, configure func(p *EnvironmentParameters)) *weatherFixture {
	t.Helper()
	params := DefaultParameters()
	params.RainCount = 200
	params.SnowCount = 100
	if configure != nil {
		configure(&params)
	}

	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	app := NewApp()
	app.UseModules(
		TimeModule{Clock: clock},
		WeatherModule{Params: &params, Seed: 11},
	)

	f := &weatherFixture{app: app, clock: clock}
	var ok bool
	f.weather, ok = Resource[Weather](app)
	require.True(t, ok)
	f.control, ok = Resource[ControlSurface](app)
	require.True(t, ok)
	f.scene, ok = Resource[Scene](app)
	require.True(t, ok)
	f.assets, ok = Resource[AssetServer](app)
	require.True(t, ok)
	return f
}

func (f *weatherFixture) step() {
	f.clock.Advance(16 * time.Millisecond)
	f.app.Step()
}

func TestWeather_FirstFrameBuildsEnabledPopulations(t *testing.T) {
	f := newWeatherFixture(t, nil)

	assert.Equal(t, Uninitialized, f.weather.Population(Rain).State())
	f.step()

	rain := f.weather.Population(Rain)
	assert.Equal(t, Active, rain.State())
	assert.Equal(t, 200, rain.Len())
	assert.Equal(t, Uninitialized, f.weather.Population(Snow).State())
	assert.Nil(t, f.weather.Cloud(Snow))

	require.Len(t, f.scene.Objects(), 1)
	cloud := f.weather.Cloud(Rain)
	assert.Same(t, cloud, f.scene.Objects()[0])
	assert.Equal(t, float32(0.1), cloud.Material.Size)
	assert.Equal(t, float32(0.6), cloud.Material.Opacity)
	assert.True(t, cloud.Material.Transparent)
	assert.Equal(t, rain.Texture(), cloud.Material.Texture)
	assert.Equal(t, 1, f.assets.LiveTextures())

	assert.Equal(t, 200, f.weather.Last.Particles[Rain])
	assert.Equal(t, 0, f.weather.Last.Particles[Snow])
	assert.Equal(t, 200, f.weather.Last.TotalParticles())
}

func TestWeather_CountChangeRebuildsNextFrame(t *testing.T) {
	f := newWeatherFixture(t, nil)
	f.step()
	oldCloud := f.weather.Cloud(Rain)
	oldTex := f.weather.Population(Rain).Texture()

	require.NoError(t, f.control.SetInt("rain_count", 1000))
	assert.Equal(t, 200, f.weather.Population(Rain).Len(), "edit waits for the next frame")

	f.step()
	rain := f.weather.Population(Rain)
	assert.Equal(t, 1000, rain.Len())
	assert.Equal(t, uint64(2), rain.Version())
	assert.NotEqual(t, oldCloud.Id, f.weather.Cloud(Rain).Id)
	assert.Len(t, f.scene.Objects(), 1)

	_, ok := f.assets.Texture(oldTex)
	assert.False(t, ok, "old texture is released with the old buffer")
	assert.Equal(t, 1, f.assets.LiveTextures())
}

func TestWeather_PointSizeChangeRebuilds(t *testing.T) {
	f := newWeatherFixture(t, nil)
	f.step()

	require.NoError(t, f.control.SetFloat("rain_point_size", 0.25))
	f.step()

	assert.Equal(t, uint64(2), f.weather.Population(Rain).Version())
	assert.InDelta(t, 0.25, f.weather.Cloud(Rain).Material.Size, 1e-6)
}

func TestWeather_ForcedRebuild(t *testing.T) {
	f := newWeatherFixture(t, nil)
	f.step()

	f.control.RebuildRain()
	f.step()
	assert.Equal(t, uint64(2), f.weather.Population(Rain).Version())

	f.step()
	assert.Equal(t, uint64(2), f.weather.Population(Rain).Version(), "forced rebuild happens once")
}

func TestWeather_ToggleHidesWithoutRealloc(t *testing.T) {
	f := newWeatherFixture(t, nil)
	f.step()
	rain := f.weather.Population(Rain)
	buf := rain.Positions()

	require.NoError(t, f.control.SetBool("rain_enabled", false))
	f.step()
	assert.Equal(t, Hidden, rain.State())
	assert.False(t, f.weather.Cloud(Rain).Visible())
	assert.Equal(t, 0, f.weather.Last.Particles[Rain])

	frozen := rain.Positions()[0]
	f.step()
	assert.Equal(t, frozen, rain.Positions()[0])

	require.NoError(t, f.control.SetBool("rain_enabled", true))
	f.step()
	assert.Equal(t, Active, rain.State())
	assert.Equal(t, uint64(1), rain.Version())
	assert.Same(t, &buf[0], &rain.Positions()[0])
}

func TestWeather_RebuildWhileHiddenWaitsForEnable(t *testing.T) {
	f := newWeatherFixture(t, nil)
	f.step()
	rain := f.weather.Population(Rain)

	require.NoError(t, f.control.SetBool("rain_enabled", false))
	require.NoError(t, f.control.SetInt("rain_count", 2000))
	f.step()
	assert.Equal(t, Hidden, rain.State())
	assert.Equal(t, 200, rain.Len())

	require.NoError(t, f.control.SetBool("rain_enabled", true))
	f.step()
	assert.Equal(t, Active, rain.State())
	assert.Equal(t, 2000, rain.Len())
	assert.Equal(t, uint64(2), rain.Version())
}

func TestWeather_SnowEnableBuildsSecondPopulation(t *testing.T) {
	f := newWeatherFixture(t, nil)
	f.step()

	require.NoError(t, f.control.SetBool("snow_enabled", true))
	f.step()

	snow := f.weather.Population(Snow)
	assert.Equal(t, Active, snow.State())
	assert.Equal(t, 100, snow.Len())
	assert.Len(t, f.scene.Objects(), 2)
	assert.Equal(t, 2, f.assets.LiveTextures())
	assert.Equal(t, float32(0.8), f.weather.Cloud(Snow).Material.Opacity)
	assert.InDelta(t, snowSpinPerAdvance, snow.Spin(), 1e-9)
}

func TestWeather_ImmediateEditsApplyNextFrame(t *testing.T) {
	f := newWeatherFixture(t, nil)
	f.step()

	require.NoError(t, f.control.SetFloat("wind_x", 1))
	require.NoError(t, f.control.SetColor("rain_color", RGBFromHex(0x123456)))
	assert.Zero(t, f.weather.Params.WindX)

	f.step()
	assert.Equal(t, float32(1), f.weather.Params.WindX)
	assert.Equal(t, uint32(0x123456), f.weather.Cloud(Rain).Material.Color.Hex())
	assert.Equal(t, uint64(1), f.weather.Population(Rain).Version(), "immediate edits never rebuild")
}

func TestWeather_FogFollowsParameters(t *testing.T) {
	f := newWeatherFixture(t, nil)
	f.step()
	assert.Nil(t, f.scene.Fog())

	require.NoError(t, f.control.SetFloat("fog_density", 0.05))
	require.NoError(t, f.control.SetBool("fog_enabled", true))
	f.step()
	require.NotNil(t, f.scene.Fog())
	assert.Equal(t, float32(0.05), f.scene.Fog().Density)

	require.NoError(t, f.control.SetBool("fog_enabled", false))
	f.step()
	assert.Nil(t, f.scene.Fog())
	assert.Equal(t, 1, f.weather.FogState().Created())
}

func TestWeather_InitialFogFromParameters(t *testing.T) {
	f := newWeatherFixture(t, func(p *EnvironmentParameters) {
		p.FogEnabled = true
		p.FogDensity = 0.03
	})
	f.step()

	require.NotNil(t, f.scene.Fog())
	assert.Equal(t, float32(0.03), f.scene.Fog().Density)
}

func TestWeather_InvalidCountIsNotRetried(t *testing.T) {
	f := newWeatherFixture(t, func(p *EnvironmentParameters) {
		p.RainCount = 0
	})

	f.step()
	rain := f.weather.Population(Rain)
	assert.Equal(t, Uninitialized, rain.State())
	assert.ErrorIs(t, f.weather.BuildError(Rain), ErrInvalidCount)
	assert.Empty(t, f.scene.Objects())

	f.step()
	assert.Equal(t, uint64(0), rain.Version())

	require.NoError(t, f.control.SetInt("rain_count", 5000))
	f.step()
	assert.Equal(t, Active, rain.State())
	assert.NoError(t, f.weather.BuildError(Rain))
	assert.Equal(t, 5000, rain.Len())
}

func TestWeather_TeardownReleasesEverything(t *testing.T) {
	f := newWeatherFixture(t, func(p *EnvironmentParameters) {
		p.SnowEnabled = true
		p.FogEnabled = true
	})
	f.step()
	require.Equal(t, 2, f.assets.LiveTextures())

	f.app.Shutdown()

	for _, kind := range kinds {
		assert.Equal(t, Disposed, f.weather.Population(kind).State())
		assert.Nil(t, f.weather.Cloud(kind))
	}
	assert.Empty(t, f.scene.Objects())
	assert.Nil(t, f.scene.Fog())
	assert.Equal(t, 0, f.assets.LiveTextures())

	frame := f.app.Frame()
	f.step()
	assert.Equal(t, frame, f.app.Frame(), "no frame runs after teardown")

	f.app.Shutdown()
	assert.Equal(t, 0, f.assets.LiveTextures())
}

func TestWeather_BoundsHoldAcrossFrames(t *testing.T) {
	f := newWeatherFixture(t, func(p *EnvironmentParameters) {
		p.SnowEnabled = true
		p.WindX = -2
		p.WindZ = 2
	})
	for i := 0; i < 300; i++ {
		f.step()
		for _, kind := range kinds {
			assertInBounds(t, f.weather.Population(kind), i)
		}
	}
}

func TestWeather_NonFiniteWindNeverReachesParticles(t *testing.T) {
	f := newWeatherFixture(t, nil)
	f.step()

	assert.ErrorIs(t, f.control.SetFloat("wind_x", math.NaN()), ErrOutOfRange)
	require.NoError(t, f.control.SetFloat("wind_x", 0))
	for i := 0; i < 5; i++ {
		f.step()
		assertInBounds(t, f.weather.Population(Rain), i)
	}
	assert.Zero(t, f.weather.Params.WindX)
}
