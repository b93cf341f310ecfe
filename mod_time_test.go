package weatherfx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeSystem(t *testing.T) {
	clock := &fakeClock{now: time.Unix(100, 0)}
	app := NewApp()
	app.UseModules(TimeModule{Clock: clock})
	res, ok := Resource[Time](app)
	require.True(t, ok)

	clock.Advance(20 * time.Millisecond)
	app.Step()
	assert.Equal(t, 20*time.Millisecond, res.Dt)
	assert.Equal(t, 20*time.Millisecond, res.Elapsed)

	clock.Advance(480 * time.Millisecond)
	app.Step()
	assert.Equal(t, 480*time.Millisecond, res.Dt)
	assert.Equal(t, 500*time.Millisecond, res.Elapsed)
	assert.InDelta(t, 0.5, res.FlutterPhase(), 1e-12)
}

func TestFlutterPhase_IgnoresFrameCount(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	app := NewApp()
	app.UseModules(TimeModule{Clock: clock})
	res, _ := Resource[Time](app)

	for i := 0; i < 10; i++ {
		app.Step()
	}
	assert.Zero(t, res.FlutterPhase(), "frames without elapsed time do not move the phase")

	clock.Advance(2 * time.Second)
	app.Step()
	assert.InDelta(t, 2.0, res.FlutterPhase(), 1e-12)
}
