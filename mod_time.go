package weatherfx

import (
	"time"
)

// flutterPhaseRate converts elapsed milliseconds into the snow flutter phase.
const flutterPhaseRate = 0.001

// Clock abstracts wall-clock reads so frame timing can be driven in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type Time struct {
	Time    time.Time
	Dt      time.Duration
	Start   time.Time
	Elapsed time.Duration

	clock Clock
}

// FlutterPhase is the shared, slowly increasing phase used by snow flutter.
// It depends on elapsed wall-clock time only, never on the frame count.
func (t *Time) FlutterPhase() float64 {
	return float64(t.Elapsed) / float64(time.Millisecond) * flutterPhaseRate
}

type TimeModule struct {
	Clock Clock
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	clock := mod.Clock
	if clock == nil {
		clock = systemClock{}
	}
	now := clock.Now()
	cmd.AddResources(&Time{
		Time:  now,
		Start: now,
		clock: clock,
	})
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude),
	)
}

func timeSystem(timeResource *Time) {
	now := timeResource.clock.Now()

	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Time = now
	timeResource.Elapsed = now.Sub(timeResource.Start)
}
