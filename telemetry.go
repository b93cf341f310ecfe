package weatherfx

import (
	"fmt"
	"io"
	"sort"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"
)

// WindowSummary aggregates the advance step over a window of frames.
type WindowSummary struct {
	FirstFrame    uint64  `csv:"first_frame"`
	LastFrame     uint64  `csv:"last_frame"`
	MeanAdvanceUs float64 `csv:"mean_advance_us"`
	StdAdvanceUs  float64 `csv:"std_advance_us"`
	P95AdvanceUs  float64 `csv:"p95_advance_us"`
	MeanRecycled  float64 `csv:"mean_recycled"`
	Particles     int     `csv:"particles"`
}

// FrameStats collects per-frame reports and closes a summary every Window frames.
type FrameStats struct {
	Window int

	advance  []float64
	recycled []float64
	first    uint64

	summaries   []WindowSummary
	sink        io.Writer
	wroteHeader bool
}

func NewFrameStats(window int, sink io.Writer) *FrameStats {
	if window <= 0 {
		window = 120
	}
	return &FrameStats{
		Window:   window,
		advance:  make([]float64, 0, window),
		recycled: make([]float64, 0, window),
		sink:     sink,
	}
}

// Record adds one frame. When the frame completes a window it returns the
// summary and true.
func (s *FrameStats) Record(r FrameReport) (WindowSummary, bool, error) {
	if len(s.advance) == 0 {
		s.first = r.Frame
	}
	s.advance = append(s.advance, float64(r.Advance.Nanoseconds())/1e3)
	s.recycled = append(s.recycled, float64(r.Recycled))
	if len(s.advance) < s.Window {
		return WindowSummary{}, false, nil
	}

	summary := s.summarize(r)
	s.summaries = append(s.summaries, summary)
	s.advance = s.advance[:0]
	s.recycled = s.recycled[:0]

	if err := s.writeCSV(summary); err != nil {
		return summary, true, err
	}
	return summary, true, nil
}

func (s *FrameStats) summarize(last FrameReport) WindowSummary {
	mean, std := stat.MeanStdDev(s.advance, nil)

	sorted := append([]float64(nil), s.advance...)
	sort.Float64s(sorted)

	return WindowSummary{
		FirstFrame:    s.first,
		LastFrame:     last.Frame,
		MeanAdvanceUs: mean,
		StdAdvanceUs:  std,
		P95AdvanceUs:  stat.Quantile(0.95, stat.Empirical, sorted, nil),
		MeanRecycled:  stat.Mean(s.recycled, nil),
		Particles:     last.TotalParticles(),
	}
}

func (s *FrameStats) writeCSV(summary WindowSummary) error {
	if s.sink == nil {
		return nil
	}
	rows := []WindowSummary{summary}
	if !s.wroteHeader {
		s.wroteHeader = true
		if err := gocsv.Marshal(rows, s.sink); err != nil {
			return fmt.Errorf("writing telemetry header: %w", err)
		}
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(rows, s.sink); err != nil {
		return fmt.Errorf("writing telemetry row: %w", err)
	}
	return nil
}

// Summaries returns every closed window in order.
func (s *FrameStats) Summaries() []WindowSummary {
	return s.summaries
}

// TelemetryModule records the weather frame report after every frame.
type TelemetryModule struct {
	Window int
	CSV    io.Writer
}

func (m TelemetryModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewFrameStats(m.Window, m.CSV))
	app.UseSystem(
		System(telemetrySystem).
			InStage(PostRender),
	)
}

func telemetrySystem(stats *FrameStats, weather *Weather, cmd *Commands) {
	summary, closed, err := stats.Record(weather.Last)
	if err != nil {
		cmd.Logger().Warnf("Telemetry: %v", err)
	}
	if !closed {
		return
	}
	cmd.Logger().Infof("Frames %d-%d: advance %.1fus avg (std %.1f, p95 %.1f), %.1f recycled/frame, %d particles",
		summary.FirstFrame, summary.LastFrame, summary.MeanAdvanceUs, summary.StdAdvanceUs,
		summary.P95AdvanceUs, summary.MeanRecycled, summary.Particles)
}
