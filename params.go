package weatherfx

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// RGB is a linear color with channels in [0,1].
type RGB struct {
	R, G, B float32
}

// RGBFromHex converts a 0xRRGGBB value.
func RGBFromHex(hex uint32) RGB {
	return RGB{
		R: float32((hex>>16)&0xff) / 255,
		G: float32((hex>>8)&0xff) / 255,
		B: float32(hex&0xff) / 255,
	}
}

// ParseRGB accepts "#rrggbb", "rrggbb" or "0xrrggbb".
func ParseRGB(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("color %q: %w", s, err)
	}
	return RGBFromHex(uint32(v)), nil
}

func (c RGB) Hex() uint32 {
	clamp := func(f float32) uint32 {
		v := int(f*255 + 0.5)
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		return uint32(v)
	}
	return clamp(c.R)<<16 | clamp(c.G)<<8 | clamp(c.B)
}

func (c RGB) String() string {
	return fmt.Sprintf("#%06x", c.Hex())
}

func (c RGB) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{c.R, c.G, c.B}
}

func (c RGB) MarshalYAML() (any, error) {
	return c.String(), nil
}

func (c *RGB) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("line %d: color must be a hex string: %w", value.Line, err)
	}
	parsed, err := ParseRGB(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = parsed
	return nil
}

// EnvironmentParameters is the shared record every population reads on each
// advance. Counts and point sizes only take effect through a rebuild; every
// other field is read fresh on the next frame.
type EnvironmentParameters struct {
	RainEnabled   bool    `yaml:"rain_enabled"`
	RainCount     int     `yaml:"rain_count"`
	RainFallSpeed float32 `yaml:"rain_fall_speed"`
	RainColor     RGB     `yaml:"rain_color"`
	RainPointSize float32 `yaml:"rain_point_size"`

	SnowEnabled   bool    `yaml:"snow_enabled"`
	SnowCount     int     `yaml:"snow_count"`
	SnowFallSpeed float32 `yaml:"snow_fall_speed"`
	SnowPointSize float32 `yaml:"snow_point_size"`
	SnowColor     RGB     `yaml:"snow_color"`

	FogEnabled bool    `yaml:"fog_enabled"`
	FogDensity float32 `yaml:"fog_density"`
	FogColor   RGB     `yaml:"fog_color"`

	WindX float32 `yaml:"wind_x"`
	WindZ float32 `yaml:"wind_z"`
}

func DefaultParameters() EnvironmentParameters {
	return EnvironmentParameters{
		RainEnabled:   true,
		RainCount:     10000,
		RainFallSpeed: 2,
		RainColor:     RGBFromHex(0xaaaaaa),
		RainPointSize: 0.1,

		SnowEnabled:   false,
		SnowCount:     5000,
		SnowFallSpeed: 0.5,
		SnowPointSize: 0.3,
		SnowColor:     RGBFromHex(0xffffff),

		FogEnabled: false,
		FogDensity: 0.02,
		FogColor:   RGBFromHex(0xcccccc),
	}
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Validate rejects records that would break the bounds invariant: counts,
// fall speeds and point sizes must be positive, fog density non-negative
// and every scalar finite.
func (p *EnvironmentParameters) Validate() error {
	for _, kind := range kinds {
		if n := p.Count(kind); n <= 0 {
			return fmt.Errorf("%s_count: %w (got %d)", kind, ErrInvalidCount, n)
		}
		if v := p.FallSpeed(kind); !(v > 0) || !finite(v) {
			return fmt.Errorf("%s_fall_speed=%v must be positive: %w", kind, v, ErrOutOfRange)
		}
		if v := p.PointSize(kind); !(v > 0) || !finite(v) {
			return fmt.Errorf("%s_point_size=%v must be positive: %w", kind, v, ErrOutOfRange)
		}
	}
	if !(p.FogDensity >= 0) || !finite(p.FogDensity) {
		return fmt.Errorf("fog_density=%v must be non-negative: %w", p.FogDensity, ErrOutOfRange)
	}
	if !finite(p.WindX) || !finite(p.WindZ) {
		return fmt.Errorf("wind=(%v,%v) must be finite: %w", p.WindX, p.WindZ, ErrOutOfRange)
	}
	return nil
}

// FallSpeed returns the fall speed for the given population kind.
func (p *EnvironmentParameters) FallSpeed(kind Kind) float32 {
	if kind == Snow {
		return p.SnowFallSpeed
	}
	return p.RainFallSpeed
}

func (p *EnvironmentParameters) Enabled(kind Kind) bool {
	if kind == Snow {
		return p.SnowEnabled
	}
	return p.RainEnabled
}

func (p *EnvironmentParameters) Count(kind Kind) int {
	if kind == Snow {
		return p.SnowCount
	}
	return p.RainCount
}

func (p *EnvironmentParameters) PointSize(kind Kind) float32 {
	if kind == Snow {
		return p.SnowPointSize
	}
	return p.RainPointSize
}

func (p *EnvironmentParameters) Color(kind Kind) RGB {
	if kind == Snow {
		return p.SnowColor
	}
	return p.RainColor
}
