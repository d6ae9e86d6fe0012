package audio

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

const peakFloor = 0.01

// AGC tracks a long-horizon percentile of recent per-frame peaks and
// exposes a slowly-decaying reference used to normalize raw energies,
// per the engine's four named trackers (note/low/mid/high).
type AGC struct {
	percentile float64 // e.g. 90 for p90
	peakDecay  float64
	attackRate float64
	historyLen int

	history   []float64 // bounded FIFO, oldest first
	reference float64
}

// AGCParams are the four tunables an AGC instance is constructed from,
// derived once at startup from the engine frame rate.
type AGCParams struct {
	PeakPercentile    int     // e.g. 90, 95
	HalfLifeSeconds   float64
	AttackTimeSeconds float64
	HistorySeconds    float64
}

// NewAGC derives peak_decay, attack_rate, and history_len from fps per
// spec and returns a tracker seeded at the floor reference.
func NewAGC(p AGCParams, fps float64) *AGC {
	historyLen := int(p.HistorySeconds * fps)
	if historyLen < 1 {
		historyLen = 1
	}
	return &AGC{
		percentile: float64(p.PeakPercentile),
		peakDecay:  math.Pow(0.5, 1/(p.HalfLifeSeconds*fps)),
		attackRate: math.Min(1/(p.AttackTimeSeconds*fps), 1.0),
		historyLen: historyLen,
		history:    make([]float64, 0, historyLen),
		reference:  peakFloor,
	}
}

// Update pushes max(v) into the peak history, derives a target percentile,
// and moves the reference toward it (fast attack, slow decay). Returns the
// updated reference.
func (a *AGC) Update(v []float64) float64 {
	peak := 0.0
	for _, x := range v {
		if x > peak {
			peak = x
		}
	}

	if len(a.history) == a.historyLen {
		copy(a.history, a.history[1:])
		a.history = a.history[:len(a.history)-1]
	}
	a.history = append(a.history, peak)

	target := percentile(a.history, a.percentile)
	if target < peakFloor {
		target = peakFloor
	}

	if target > a.reference {
		a.reference += (target - a.reference) * a.attackRate
	} else {
		a.reference = math.Max(a.reference*a.peakDecay, peakFloor)
	}

	return a.reference
}

// Reference returns the current reference without mutating state.
func (a *AGC) Reference() float64 {
	return a.reference
}

// percentile computes the pth percentile (0-100) of data via gonum's
// linearly-interpolated quantile estimator, which requires ascending
// input; data is the live history FIFO so a sorted copy is used instead
// of reordering it in place.
func percentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	return stat.Quantile(p/100.0, stat.LinInterp, sorted, nil)
}
