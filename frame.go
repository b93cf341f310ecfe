package weatherfx

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrFrameSourceClosed = errors.New("frame source closed")

// FrameSource blocks until the next display refresh. Returning re-arms the
// frame loop for exactly one more frame.
type FrameSource interface {
	Next(ctx context.Context) error
}

// TickerSource paces frames at a fixed rate, standing in for a display
// refresh callback.
type TickerSource struct {
	ticker *time.Ticker
	limit  uint64
	count  uint64
}

// NewTickerSource returns a source that fires fps times a second. A positive
// maxFrames closes the source after that many frames.
func NewTickerSource(fps int, maxFrames uint64) *TickerSource {
	if fps <= 0 {
		fps = 60
	}
	return &TickerSource{
		ticker: time.NewTicker(time.Second / time.Duration(fps)),
		limit:  maxFrames,
	}
}

func (s *TickerSource) Next(ctx context.Context) error {
	if s.limit > 0 && s.count >= s.limit {
		s.ticker.Stop()
		return ErrFrameSourceClosed
	}
	select {
	case <-ctx.Done():
		s.ticker.Stop()
		return ctx.Err()
	case <-s.ticker.C:
		s.count++
		return nil
	}
}

// ManualSource releases one frame per Tick call.
type ManualSource struct {
	ticks chan struct{}

	closeOnce sync.Once
	closed    chan struct{}
}

func NewManualSource() *ManualSource {
	return &ManualSource{
		ticks:  make(chan struct{}),
		closed: make(chan struct{}),
	}
}

// Tick blocks until the frame loop takes the frame, or returns false if the
// loop is gone.
func (s *ManualSource) Tick(ctx context.Context) bool {
	select {
	case s.ticks <- struct{}{}:
		return true
	case <-s.closed:
		return false
	case <-ctx.Done():
		return false
	}
}

func (s *ManualSource) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

func (s *ManualSource) Next(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.closed:
		return ErrFrameSourceClosed
	case <-s.ticks:
		return nil
	}
}

// CountedSource returns immediately for a fixed number of frames; used for
// headless batch runs.
type CountedSource struct {
	Remaining uint64
}

func (s *CountedSource) Next(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.Remaining == 0 {
		return ErrFrameSourceClosed
	}
	s.Remaining--
	return nil
}
