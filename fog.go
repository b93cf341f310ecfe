package weatherfx

type FogTransition uint8

const (
	FogUnchanged FogTransition = iota
	FogCreated
	FogUpdated
	FogRemoved
)

func (t FogTransition) String() string {
	switch t {
	case FogCreated:
		return "created"
	case FogUpdated:
		return "updated"
	case FogRemoved:
		return "removed"
	}
	return "unchanged"
}

// FogState keeps the scene's fog descriptor in line with the parameters. It
// runs when a fog parameter changes, not every frame.
type FogState struct {
	created int
}

// Update creates, mutates or removes the scene fog. Disabling removes the
// descriptor outright so the next enable always starts fresh.
func (f *FogState) Update(scene *Scene, params *EnvironmentParameters) FogTransition {
	switch {
	case params.FogEnabled && scene.fog == nil:
		scene.fog = &FogDescriptor{Density: params.FogDensity, Color: params.FogColor}
		f.created++
		return FogCreated
	case params.FogEnabled:
		scene.fog.Density = params.FogDensity
		scene.fog.Color = params.FogColor
		return FogUpdated
	case scene.fog != nil:
		scene.fog = nil
		return FogRemoved
	}
	return FogUnchanged
}

// Created counts descriptors created over the lifetime of the state.
func (f *FogState) Created() int {
	return f.created
}
