package weatherfx

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrWrongType        = errors.New("wrong parameter type")
	ErrOutOfRange       = errors.New("parameter out of range")
)

// ParamType enumerates supported parameter value kinds.
type ParamType string

const (
	ParamTypeInt   ParamType = "int"
	ParamTypeFloat ParamType = "float"
	ParamTypeBool  ParamType = "bool"
	ParamTypeColor ParamType = "color"
)

// Effect describes what a parameter change needs before it is visible.
type Effect uint8

const (
	// EffectImmediate fields are read on the next advance or material sync.
	EffectImmediate Effect = iota
	// EffectRebuild fields only apply by reallocating the population.
	EffectRebuild
	// EffectFog fields are pushed to the scene fog descriptor.
	EffectFog
)

// ParameterControl describes an adjustable parameter for a widget panel.
type ParameterControl struct {
	Key    string
	Label  string
	Type   ParamType
	Effect Effect
	Kind   Kind // population affected by EffectRebuild

	Step float64
	Min  float64
	Max  float64
}

type controlBinding struct {
	ParameterControl
	setBool  func(p *EnvironmentParameters, v bool)
	setInt   func(p *EnvironmentParameters, v int)
	setFloat func(p *EnvironmentParameters, v float32)
	setColor func(p *EnvironmentParameters, v RGB)
}

var controlBindings = []controlBinding{
	{ParameterControl: ParameterControl{Key: "rain_enabled", Label: "Rain", Type: ParamTypeBool},
		setBool: func(p *EnvironmentParameters, v bool) { p.RainEnabled = v }},
	{ParameterControl: ParameterControl{Key: "rain_count", Label: "Rain drops", Type: ParamTypeInt, Effect: EffectRebuild, Kind: Rain, Step: 1000, Min: 1000, Max: 50000},
		setInt: func(p *EnvironmentParameters, v int) { p.RainCount = v }},
	{ParameterControl: ParameterControl{Key: "rain_fall_speed", Label: "Rain speed", Type: ParamTypeFloat, Step: 0.1, Min: 0.1, Max: 10},
		setFloat: func(p *EnvironmentParameters, v float32) { p.RainFallSpeed = v }},
	{ParameterControl: ParameterControl{Key: "rain_color", Label: "Rain color", Type: ParamTypeColor},
		setColor: func(p *EnvironmentParameters, v RGB) { p.RainColor = v }},
	{ParameterControl: ParameterControl{Key: "rain_point_size", Label: "Rain size", Type: ParamTypeFloat, Effect: EffectRebuild, Kind: Rain, Step: 0.01, Min: 0.01, Max: 1},
		setFloat: func(p *EnvironmentParameters, v float32) { p.RainPointSize = v }},

	{ParameterControl: ParameterControl{Key: "snow_enabled", Label: "Snow", Type: ParamTypeBool},
		setBool: func(p *EnvironmentParameters, v bool) { p.SnowEnabled = v }},
	{ParameterControl: ParameterControl{Key: "snow_count", Label: "Snow flakes", Type: ParamTypeInt, Effect: EffectRebuild, Kind: Snow, Step: 1000, Min: 1000, Max: 30000},
		setInt: func(p *EnvironmentParameters, v int) { p.SnowCount = v }},
	{ParameterControl: ParameterControl{Key: "snow_fall_speed", Label: "Snow speed", Type: ParamTypeFloat, Step: 0.05, Min: 0.05, Max: 5},
		setFloat: func(p *EnvironmentParameters, v float32) { p.SnowFallSpeed = v }},
	{ParameterControl: ParameterControl{Key: "snow_point_size", Label: "Snow size", Type: ParamTypeFloat, Effect: EffectRebuild, Kind: Snow, Step: 0.05, Min: 0.05, Max: 2},
		setFloat: func(p *EnvironmentParameters, v float32) { p.SnowPointSize = v }},
	{ParameterControl: ParameterControl{Key: "snow_color", Label: "Snow color", Type: ParamTypeColor},
		setColor: func(p *EnvironmentParameters, v RGB) { p.SnowColor = v }},

	{ParameterControl: ParameterControl{Key: "fog_enabled", Label: "Fog", Type: ParamTypeBool, Effect: EffectFog},
		setBool: func(p *EnvironmentParameters, v bool) { p.FogEnabled = v }},
	{ParameterControl: ParameterControl{Key: "fog_density", Label: "Fog density", Type: ParamTypeFloat, Effect: EffectFog, Step: 0.001, Min: 0, Max: 0.1},
		setFloat: func(p *EnvironmentParameters, v float32) { p.FogDensity = v }},
	{ParameterControl: ParameterControl{Key: "fog_color", Label: "Fog color", Type: ParamTypeColor, Effect: EffectFog},
		setColor: func(p *EnvironmentParameters, v RGB) { p.FogColor = v }},

	{ParameterControl: ParameterControl{Key: "wind_x", Label: "Wind X", Type: ParamTypeFloat, Step: 0.1, Min: -2, Max: 2},
		setFloat: func(p *EnvironmentParameters, v float32) { p.WindX = v }},
	{ParameterControl: ParameterControl{Key: "wind_z", Label: "Wind Z", Type: ParamTypeFloat, Step: 0.1, Min: -2, Max: 2},
		setFloat: func(p *EnvironmentParameters, v float32) { p.WindZ = v }},
}

// edit is one queued change, applied on the frame goroutine.
type edit struct {
	key     string
	apply   func(p *EnvironmentParameters)
	rebuild []Kind
	fog     bool
}

// ControlSurface is the write side of EnvironmentParameters. Setters may be
// called from any goroutine; edits are queued and applied at the start of the
// next frame so they never interleave with an advance.
type ControlSurface struct {
	mu      sync.Mutex
	pending []edit
}

func NewControlSurface() *ControlSurface {
	return &ControlSurface{}
}

// Controls lists every adjustable parameter in panel order.
func (c *ControlSurface) Controls() []ParameterControl {
	out := make([]ParameterControl, len(controlBindings))
	for i, b := range controlBindings {
		out[i] = b.ParameterControl
	}
	return out
}

func lookupBinding(key string, want ParamType) (*controlBinding, error) {
	for i := range controlBindings {
		b := &controlBindings[i]
		if b.Key != key {
			continue
		}
		if b.Type != want {
			return nil, fmt.Errorf("%s is %s, not %s: %w", key, b.Type, want, ErrWrongType)
		}
		return b, nil
	}
	return nil, fmt.Errorf("%q: %w", key, ErrUnknownParameter)
}

func (c *ControlSurface) push(b *controlBinding, apply func(p *EnvironmentParameters)) {
	e := edit{key: b.Key, apply: apply, fog: b.Effect == EffectFog}
	if b.Effect == EffectRebuild {
		e.rebuild = []Kind{b.Kind}
	}
	c.mu.Lock()
	c.pending = append(c.pending, e)
	c.mu.Unlock()
}

func (c *ControlSurface) SetBool(key string, v bool) error {
	b, err := lookupBinding(key, ParamTypeBool)
	if err != nil {
		return err
	}
	c.push(b, func(p *EnvironmentParameters) { b.setBool(p, v) })
	return nil
}

// SetInt changes a count. Counts at or below zero are rejected with
// ErrInvalidCount before anything is queued.
func (c *ControlSurface) SetInt(key string, v int) error {
	b, err := lookupBinding(key, ParamTypeInt)
	if err != nil {
		return err
	}
	if v <= 0 {
		return fmt.Errorf("%s: %w (got %d)", key, ErrInvalidCount, v)
	}
	if float64(v) < b.Min || float64(v) > b.Max {
		return fmt.Errorf("%s=%d outside [%v,%v]: %w", key, v, b.Min, b.Max, ErrOutOfRange)
	}
	c.push(b, func(p *EnvironmentParameters) { b.setInt(p, v) })
	return nil
}

func (c *ControlSurface) SetFloat(key string, v float64) error {
	b, err := lookupBinding(key, ParamTypeFloat)
	if err != nil {
		return err
	}
	if !(v >= b.Min && v <= b.Max) {
		return fmt.Errorf("%s=%v outside [%v,%v]: %w", key, v, b.Min, b.Max, ErrOutOfRange)
	}
	c.push(b, func(p *EnvironmentParameters) { b.setFloat(p, float32(v)) })
	return nil
}

func (c *ControlSurface) SetColor(key string, v RGB) error {
	b, err := lookupBinding(key, ParamTypeColor)
	if err != nil {
		return err
	}
	c.push(b, func(p *EnvironmentParameters) { b.setColor(p, v) })
	return nil
}

// RebuildRain reallocates the rain buffer on the next frame even if its
// count and size are unchanged.
func (c *ControlSurface) RebuildRain() { c.rebuild(Rain) }

// RebuildSnow is RebuildRain for snow.
func (c *ControlSurface) RebuildSnow() { c.rebuild(Snow) }

func (c *ControlSurface) rebuild(kind Kind) {
	c.mu.Lock()
	c.pending = append(c.pending, edit{key: kind.String() + "_rebuild", rebuild: []Kind{kind}})
	c.mu.Unlock()
}

// Replace swaps in a whole parameter record, as when loading a preset.
// The record must pass EnvironmentParameters.Validate.
func (c *ControlSurface) Replace(params EnvironmentParameters) error {
	if err := params.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	c.pending = append(c.pending, edit{
		key:   "preset",
		apply: func(p *EnvironmentParameters) { *p = params },
		fog:   true,
	})
	c.mu.Unlock()
	return nil
}

func (c *ControlSurface) drain() []edit {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.pending
	c.pending = nil
	return out
}

// Pending reports how many edits wait for the next frame.
func (c *ControlSurface) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
