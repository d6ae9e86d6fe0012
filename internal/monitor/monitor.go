// Package monitor implements the Debug Monitor: a rolling-window reducer
// over per-frame statistics that emits a periodic text summary, grounded
// on the original source's debug_monitor.py.
package monitor

import (
	"fmt"
	"math"
	"time"
)

const (
	frameTimeHistoryCap = 256
	rmsHistoryCap       = 128
	chromaHistoryCap    = 128

	clipThreshold   = 0.99  // spec.md §4.13: CLIP when any band >= 0.99
	silenceDB       = -40.0 // input level below which status is SILENCE
)

// Summary is the Debug Monitor's periodic report, captured as a typed
// struct before formatting so tests can assert on fields directly.
type Summary struct {
	FPS            float64
	AvgLatencyMs   float64
	PeakLatencyMs  float64
	InputDB        float64
	BeatsPerSecond float64
	BPM            float64
	ChromaMax      float64
	ChromaSparsity float64 // percent of notes below the sparsity threshold
	AGCLow         float64
	AGCMid         float64
	AGCHigh        float64
	CommandCount   int
	Status         string // "OK", "CLIP", or "SILENCE"
}

// Monitor accumulates per-frame statistics and emits a Summary once every
// interval. Counters reset after each summary.
type Monitor struct {
	interval time.Duration
	lastEmit time.Time

	frameTimes []float64
	rmsSamples []float64
	chromaMax  []float64
	chromaSpar []float64

	beatCount    int
	commandCount int
	sawClip      bool

	lastBPM             float64
	lastAGCLow          float64
	lastAGCMid          float64
	lastAGCHigh         float64
}

// New builds a Monitor with the given summary interval (default 2s per
// spec.md §4.13).
func New(interval time.Duration) *Monitor {
	return &Monitor{
		interval:   interval,
		lastEmit:   time.Time{},
		frameTimes: make([]float64, 0, frameTimeHistoryCap),
		rmsSamples: make([]float64, 0, rmsHistoryCap),
		chromaMax:  make([]float64, 0, chromaHistoryCap),
		chromaSpar: make([]float64, 0, chromaHistoryCap),
	}
}

// FrameStats is the per-frame input to Update.
type FrameStats struct {
	FrameTimeMs       float64
	InputRMS          float64
	Low, Mid, High    float64
	IsBeat            bool
	BPM               float64
	Notes             [12]float32
	AGCLow            float64
	AGCMid            float64
	AGCHigh           float64
	CommandsApplied   int
}

const sparsityGate = 0.1

// Update folds one frame's statistics into the rolling window. If the
// summary interval has elapsed, it returns a populated Summary (ok=true)
// and resets counters; otherwise ok is false.
func (m *Monitor) Update(s FrameStats) (summary Summary, ok bool) {
	if m.lastEmit.IsZero() {
		m.lastEmit = m.now()
	}

	pushBounded(&m.frameTimes, s.FrameTimeMs, frameTimeHistoryCap)
	pushBounded(&m.rmsSamples, s.InputRMS, rmsHistoryCap)

	if s.IsBeat {
		m.beatCount++
	}
	m.commandCount += s.CommandsApplied
	m.lastBPM = s.BPM
	m.lastAGCLow, m.lastAGCMid, m.lastAGCHigh = s.AGCLow, s.AGCMid, s.AGCHigh

	if s.Low >= clipThreshold || s.Mid >= clipThreshold || s.High >= clipThreshold {
		m.sawClip = true
	}

	chromaMax := 0.0
	sparse := 0
	for _, n := range s.Notes {
		v := float64(n)
		if v > chromaMax {
			chromaMax = v
		}
		if v < sparsityGate {
			sparse++
		}
	}
	pushBounded(&m.chromaMax, chromaMax, chromaHistoryCap)
	pushBounded(&m.chromaSpar, float64(sparse)/12.0*100.0, chromaHistoryCap)

	elapsed := m.now().Sub(m.lastEmit)
	if elapsed < m.interval {
		return Summary{}, false
	}

	summary = m.buildSummary(elapsed)
	m.reset()
	return summary, true
}

func (m *Monitor) buildSummary(elapsed time.Duration) Summary {
	n := len(m.frameTimes)
	fps := 0.0
	if elapsed.Seconds() > 0 {
		fps = float64(n) / elapsed.Seconds()
	}

	avgLatency, peakLatency := 0.0, 0.0
	for _, v := range m.frameTimes {
		avgLatency += v
		if v > peakLatency {
			peakLatency = v
		}
	}
	if n > 0 {
		avgLatency /= float64(n)
	}

	avgRMS := mean(m.rmsSamples)
	inputDB := -120.0
	if avgRMS > 0 {
		inputDB = 20 * math.Log10(avgRMS)
	}

	status := "OK"
	switch {
	case m.sawClip:
		status = "CLIP"
	case inputDB < silenceDB:
		status = "SILENCE"
	}

	return Summary{
		FPS:            fps,
		AvgLatencyMs:   avgLatency,
		PeakLatencyMs:  peakLatency,
		InputDB:        inputDB,
		BeatsPerSecond: float64(m.beatCount) / math.Max(elapsed.Seconds(), 1e-9),
		BPM:            m.lastBPM,
		ChromaMax:      mean(m.chromaMax),
		ChromaSparsity: mean(m.chromaSpar),
		AGCLow:         m.lastAGCLow,
		AGCMid:         m.lastAGCMid,
		AGCHigh:        m.lastAGCHigh,
		CommandCount:   m.commandCount,
		Status:         status,
	}
}

func (m *Monitor) reset() {
	m.frameTimes = m.frameTimes[:0]
	m.rmsSamples = m.rmsSamples[:0]
	m.chromaMax = m.chromaMax[:0]
	m.chromaSpar = m.chromaSpar[:0]
	m.beatCount = 0
	m.commandCount = 0
	m.sawClip = false
	m.lastEmit = m.now()
}

// now returns the current wall-clock time (time.Now). Tests that need a
// summary on every Update use a zero interval instead of controlling time.
func (m *Monitor) now() time.Time {
	return time.Now()
}

// Format renders a Summary as the single-line text the teacher's
// components log, e.g. via log.Printf("[MONITOR] %s", Format(s)).
func Format(s Summary) string {
	return fmt.Sprintf(
		"fps=%.1f lat_avg=%.1fms lat_peak=%.1fms input=%.1fdB bps=%.2f bpm=%.1f chroma_max=%.2f chroma_sparsity=%.0f%% agc(low=%.3f mid=%.3f high=%.3f) cmds=%d [%s]",
		s.FPS, s.AvgLatencyMs, s.PeakLatencyMs, s.InputDB, s.BeatsPerSecond, s.BPM,
		s.ChromaMax, s.ChromaSparsity, s.AGCLow, s.AGCMid, s.AGCHigh, s.CommandCount, s.Status,
	)
}

func mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	var sum float64
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

func pushBounded(history *[]float64, v float64, cap int) {
	if len(*history) == cap {
		copy(*history, (*history)[1:])
		*history = (*history)[:len(*history)-1]
	}
	*history = append(*history, v)
}
