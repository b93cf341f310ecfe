package weatherfx

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Band is a half-open interval [Min, Max).
type Band struct {
	Min, Max float32
}

func (b Band) Contains(v float32) bool {
	return v >= b.Min && v < b.Max
}

// Bounds is the cuboid particles must stay inside. X and Z are closed
// intervals; Y only has a floor.
type Bounds struct {
	MinX, MaxX float32
	MinZ, MaxZ float32
	Floor      float32
}

// RecyclePolicy is the shared boundary rule for every population.
type RecyclePolicy struct {
	Bounds Bounds
	// Horizontal is the x/z sampling range for spawned and recycled particles.
	Horizontal Band
	// SpawnBand is only used when a buffer is first filled; RecycleBand for
	// every reset after that.
	SpawnBand   Band
	RecycleBand Band
}

func DefaultRecyclePolicy() RecyclePolicy {
	return RecyclePolicy{
		Bounds:      Bounds{MinX: -25, MaxX: 25, MinZ: -25, MaxZ: 25, Floor: 0},
		Horizontal:  Band{Min: -25, Max: 25},
		SpawnBand:   Band{Min: 5, Max: 35},
		RecycleBand: Band{Min: 10, Max: 40},
	}
}

// OutOfBounds reports whether p fell through the floor or drifted sideways
// out of the cuboid. Non-finite coordinates are always out of bounds.
func (rp RecyclePolicy) OutOfBounds(p mgl32.Vec3) bool {
	b := rp.Bounds
	x, y, z := p.X(), p.Y(), p.Z()
	return !(y >= b.Floor && !math.IsInf(float64(y), 1)) ||
		!(x >= b.MinX && x <= b.MaxX) ||
		!(z >= b.MinZ && z <= b.MaxZ)
}

// Spawn samples an initial position.
func (rp RecyclePolicy) Spawn(rng *RNG) mgl32.Vec3 {
	return rp.sample(rng, rp.SpawnBand)
}

// Reseed samples a fresh position for a particle that left the bounds. There
// is no wraparound: a sideways exit is fully re-randomized.
func (rp RecyclePolicy) Reseed(rng *RNG) mgl32.Vec3 {
	return rp.sample(rng, rp.RecycleBand)
}

func (rp RecyclePolicy) sample(rng *RNG, y Band) mgl32.Vec3 {
	return mgl32.Vec3{
		rng.Range(rp.Horizontal.Min, rp.Horizontal.Max),
		rng.Range(y.Min, y.Max),
		rng.Range(rp.Horizontal.Min, rp.Horizontal.Max),
	}
}
