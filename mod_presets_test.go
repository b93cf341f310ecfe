package weatherfx

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetSerialization(t *testing.T) {
	f := newWeatherFixture(t, nil)
	f.weather.Params.SnowEnabled = true
	f.weather.Params.WindX = -1.25
	f.weather.Params.FogColor = RGBFromHex(0x223344)

	testFile := filepath.Join(t.TempDir(), "storm.yaml")
	require.NoError(t, SavePreset(f.weather, "storm", testFile))

	content, err := os.ReadFile(testFile)
	require.NoError(t, err)
	t.Logf("Saved preset:\n%s", content)
	assert.Contains(t, string(content), "name: storm")

	preset, err := LoadPreset(testFile)
	require.NoError(t, err)
	assert.Equal(t, "storm", preset.Name)
	assert.Equal(t, f.weather.Params, preset.Weather)
}

func TestLoadPreset_PartialFileKeepsDefaults(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(testFile, []byte("name: breeze\nweather:\n  wind_x: 0.5\n"), 0644))

	preset, err := LoadPreset(testFile)
	require.NoError(t, err)

	want := DefaultParameters()
	want.WindX = 0.5
	assert.Equal(t, want, preset.Weather)
}

func TestLoadPreset_Errors(t *testing.T) {
	_, err := LoadPreset(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("weather:\n  rain_color: 12\n"), 0644))
	_, err = LoadPreset(bad)
	assert.Error(t, err)
}

func TestApplyPreset(t *testing.T) {
	f := newWeatherFixture(t, nil)
	f.step()

	preset := PresetData{Name: "blizzard", Weather: DefaultParameters()}
	preset.Weather.RainEnabled = false
	preset.Weather.SnowEnabled = true
	preset.Weather.SnowCount = 3000
	preset.Weather.FogEnabled = true
	preset.Weather.FogDensity = 0.07
	require.NoError(t, ApplyPreset(f.control, preset))

	f.step()
	assert.Equal(t, Hidden, f.weather.Population(Rain).State())
	assert.Equal(t, 3000, f.weather.Population(Snow).Len())
	require.NotNil(t, f.scene.Fog())
	assert.Equal(t, float32(0.07), f.scene.Fog().Density)

	preset.Weather.SnowCount = 0
	assert.ErrorIs(t, ApplyPreset(f.control, preset), ErrInvalidCount)
}

func TestSavePreset_WriteErrorNamesFile(t *testing.T) {
	f := newWeatherFixture(t, nil)
	target := filepath.Join(t.TempDir(), "no-such-dir", "storm.yaml")

	err := SavePreset(f.weather, "storm", target)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "writing preset "+target)
}
