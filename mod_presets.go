package weatherfx

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PresetData is a named snapshot of the parameter record.
type PresetData struct {
	Name    string                `yaml:"name"`
	Weather EnvironmentParameters `yaml:"weather"`
}

func SavePreset(weather *Weather, name string, filename string) error {
	preset := PresetData{Name: name, Weather: weather.Params}
	bytes, err := yaml.Marshal(preset)
	if err != nil {
		return fmt.Errorf("marshaling preset %q: %w", name, err)
	}
	if err := os.WriteFile(filename, bytes, 0644); err != nil {
		return fmt.Errorf("writing preset %s: %w", filename, err)
	}
	return nil
}

// LoadPreset reads a preset. Fields missing from the file keep their
// defaults.
func LoadPreset(filename string) (PresetData, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return PresetData{}, fmt.Errorf("reading preset %s: %w", filename, err)
	}

	preset := PresetData{Weather: DefaultParameters()}
	if err := yaml.Unmarshal(bytes, &preset); err != nil {
		return PresetData{}, fmt.Errorf("parsing preset %s: %w", filename, err)
	}
	return preset, nil
}

// ApplyPreset queues the preset on the control surface. Populations whose
// count or size differ are rebuilt on the next frame.
func ApplyPreset(control *ControlSurface, preset PresetData) error {
	if err := control.Replace(preset.Weather); err != nil {
		return fmt.Errorf("preset %q: %w", preset.Name, err)
	}
	return nil
}
