package weatherfx

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// PointMaterial describes how a point cloud is drawn.
type PointMaterial struct {
	Color           RGB
	Size            float32
	Texture         AssetId
	Transparent     bool
	Opacity         float32
	SizeAttenuation bool
	DepthWrite      bool
}

// PointCloud is the displayable object for one population. It reads the
// population's buffer directly; the renderer must not write to it.
type PointCloud struct {
	Id       uuid.UUID
	Name     string
	Material PointMaterial

	population *Population
}

func NewPointCloud(name string, pop *Population, material PointMaterial) *PointCloud {
	return &PointCloud{
		Id:         uuid.New(),
		Name:       name,
		Material:   material,
		population: pop,
	}
}

func (pc *PointCloud) Positions() []mgl32.Vec3 { return pc.population.Positions() }
func (pc *PointCloud) Visible() bool           { return pc.population.Visible() }
func (pc *PointCloud) Transform() mgl32.Mat4   { return pc.population.Transform() }

// Version changes every time the underlying buffer is reallocated.
func (pc *PointCloud) Version() uint64 { return pc.population.Version() }

// FogDescriptor is exponential-squared scene fog.
type FogDescriptor struct {
	Density float32
	Color   RGB
}

// Factor returns how much of a surface at distance d is hidden by fog, in [0,1].
func (f *FogDescriptor) Factor(d float32) float32 {
	dd := float64(f.Density) * float64(d)
	return float32(1 - math.Exp(-dd*dd))
}

// Scene holds the display objects a renderer draws, in attach order, and at
// most one fog descriptor.
type Scene struct {
	objects []*PointCloud
	fog     *FogDescriptor
}

func NewScene() *Scene {
	return &Scene{}
}

func (s *Scene) Attach(pc *PointCloud) {
	for _, o := range s.objects {
		if o.Id == pc.Id {
			return
		}
	}
	s.objects = append(s.objects, pc)
}

// Detach removes the object with the given id and reports whether it was attached.
func (s *Scene) Detach(id uuid.UUID) bool {
	for i, o := range s.objects {
		if o.Id == id {
			s.objects = slices.Delete(slices.Clone(s.objects), i, i+1)
			return true
		}
	}
	return false
}

// Objects returns a snapshot of the attached objects in attach order.
func (s *Scene) Objects() []*PointCloud {
	return slices.Clone(s.objects)
}

func (s *Scene) Object(id uuid.UUID) (*PointCloud, bool) {
	for _, o := range s.objects {
		if o.Id == id {
			return o, true
		}
	}
	return nil, false
}

// Fog returns the active fog descriptor, or nil.
func (s *Scene) Fog() *FogDescriptor {
	return s.fog
}

type SceneModule struct{}

func (SceneModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewScene())
}
