package weatherfx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickerSource_MaxFrames(t *testing.T) {
	src := NewTickerSource(1000, 3)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, src.Next(ctx))
	}
	assert.ErrorIs(t, src.Next(ctx), ErrFrameSourceClosed)
}

func TestTickerSource_Cancelled(t *testing.T) {
	src := NewTickerSource(1, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, src.Next(ctx), context.Canceled)
}

func TestCountedSource(t *testing.T) {
	src := &CountedSource{Remaining: 2}
	ctx := context.Background()
	assert.NoError(t, src.Next(ctx))
	assert.NoError(t, src.Next(ctx))
	assert.ErrorIs(t, src.Next(ctx), ErrFrameSourceClosed)
}

func TestManualSource_Close(t *testing.T) {
	src := NewManualSource()
	src.Close()
	src.Close()
	assert.ErrorIs(t, src.Next(context.Background()), ErrFrameSourceClosed)
	assert.False(t, src.Tick(context.Background()))
}
