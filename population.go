package weatherfx

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrInvalidCount = errors.New("particle count must be positive")

// Kind selects the behavior profile of a population.
type Kind uint8

const (
	Rain Kind = iota
	Snow
)

var kinds = [...]Kind{Rain, Snow}

func (k Kind) String() string {
	switch k {
	case Rain:
		return "rain"
	case Snow:
		return "snow"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// WindFactor scales the wind vector into per-advance horizontal drift.
func (k Kind) WindFactor() float32 {
	if k == Snow {
		return 0.07
	}
	return 0.05
}

const (
	fallStep = 0.1

	flutterAmplitude    = 0.03
	flutterPositionFreq = 0.5
	flutterIndexFreq    = 0.1

	snowSpinPerAdvance = 0.001
)

type PopulationState uint8

const (
	Uninitialized PopulationState = iota
	Active
	Hidden
	Disposed
)

func (s PopulationState) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Active:
		return "active"
	case Hidden:
		return "hidden"
	case Disposed:
		return "disposed"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Population owns a fixed-size position buffer. The buffer is only ever
// replaced whole by Build; Advance mutates it in place.
type Population struct {
	kind      Kind
	state     PopulationState
	positions []mgl32.Vec3
	policy    RecyclePolicy
	rng       *RNG

	spin    float32
	version uint64

	texture AssetId
	release func(AssetId)
}

// UninitializedPopulation returns an empty slot of the given kind. Build
// moves it to Active.
func UninitializedPopulation(kind Kind, rng *RNG) *Population {
	return &Population{
		kind:   kind,
		policy: DefaultRecyclePolicy(),
		rng:    rng,
	}
}

// NewPopulation allocates count particles spread over the spawn band.
func NewPopulation(kind Kind, count int, rng *RNG) (*Population, error) {
	p := UninitializedPopulation(kind, rng)
	if err := p.Build(count); err != nil {
		return nil, err
	}
	return p, nil
}

// Build (re)allocates the buffer with count fresh particles. An existing
// buffer is disposed first. Invalid counts are rejected, never clamped, and
// leave the population untouched.
func (p *Population) Build(count int) error {
	if count <= 0 {
		return fmt.Errorf("%s population: %w (got %d)", p.kind, ErrInvalidCount, count)
	}
	if p.state == Active || p.state == Hidden {
		p.Dispose()
	}

	positions := make([]mgl32.Vec3, count)
	for i := range positions {
		positions[i] = p.policy.Spawn(p.rng)
	}

	p.positions = positions
	p.spin = 0
	p.state = Active
	p.version++
	return nil
}

// Advance moves every particle one frame and recycles the ones that left the
// bounds. It returns how many particles were recycled. Populations that are
// not Active are left alone.
func (p *Population) Advance(params *EnvironmentParameters, phase float64) int {
	if p.state != Active {
		return 0
	}

	fall := params.FallSpeed(p.kind) * fallStep
	windFactor := p.kind.WindFactor()
	driftX := params.WindX * windFactor
	driftZ := params.WindZ * windFactor
	snow := p.kind == Snow

	recycled := 0
	for i := range p.positions {
		pos := &p.positions[i]
		x, y, z := pos[0], pos[1], pos[2]

		y -= fall
		x += driftX
		z += driftZ

		if snow {
			offset := float64(i) * flutterIndexFreq
			x += float32(math.Sin(phase+float64(z)*flutterPositionFreq+offset) * flutterAmplitude)
			z += float32(math.Cos(phase+float64(x)*flutterPositionFreq+offset) * flutterAmplitude)
		}

		next := mgl32.Vec3{x, y, z}
		if p.policy.OutOfBounds(next) {
			next = p.policy.Reseed(p.rng)
			recycled++
		}
		*pos = next
	}

	if snow {
		p.spin += snowSpinPerAdvance
	}
	return recycled
}

// SetVisible toggles display without touching the buffer. It only moves
// between Active and Hidden; calling it again with the same value is a no-op.
func (p *Population) SetVisible(visible bool) {
	switch {
	case visible && p.state == Hidden:
		p.state = Active
	case !visible && p.state == Active:
		p.state = Hidden
	}
}

// Dispose releases the buffer and the attached texture. Safe to call more
// than once.
func (p *Population) Dispose() {
	if p.state == Disposed {
		return
	}
	if p.texture != "" && p.release != nil {
		p.release(p.texture)
	}
	p.texture = ""
	p.release = nil
	p.positions = nil
	p.state = Disposed
}

// AttachTexture records the texture map shown with this population. release
// is called with id when the population is disposed.
func (p *Population) AttachTexture(id AssetId, release func(AssetId)) {
	p.texture = id
	p.release = release
}

func (p *Population) Kind() Kind              { return p.kind }
func (p *Population) State() PopulationState  { return p.state }
func (p *Population) Visible() bool           { return p.state == Active }
func (p *Population) Version() uint64         { return p.version }
func (p *Population) Texture() AssetId        { return p.texture }
func (p *Population) Policy() RecyclePolicy   { return p.policy }
func (p *Population) Positions() []mgl32.Vec3 { return p.positions }
func (p *Population) Len() int                { return len(p.positions) }

// Spin is the accumulated display rotation about Y, in radians.
func (p *Population) Spin() float32 { return p.spin }

// Transform is the display transform of the whole population. Individual
// positions are never rotated.
func (p *Population) Transform() mgl32.Mat4 {
	return mgl32.HomogRotate3DY(p.spin)
}
