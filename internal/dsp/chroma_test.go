package dsp

import (
	"math"
	"testing"
)

type fakeTracker struct{ ref float64 }

func (f *fakeTracker) Update(v []float64) float64 { return f.ref }

func allFinite(bins [12]float64) bool {
	for _, v := range bins {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func allInUnitRange(bins [12]float64) bool {
	for _, v := range bins {
		if v < 0 || v > 1 {
			return false
		}
	}
	return true
}

func TestChromaAllZeroInputEveryMode(t *testing.T) {
	column := make([]float64, 1025)
	tracker := &fakeTracker{ref: 0.01}

	for _, mode := range []NormMode{NormFixed, NormCompetitive, NormStatistical} {
		c := NewChroma(2048, 48000, tracker)
		bins := c.Normalize(column, mode)
		if !allFinite(bins) {
			t.Errorf("mode %s: NaN/Inf on all-zero input: %v", mode, bins)
		}
		if !allInUnitRange(bins) {
			t.Errorf("mode %s: out of [0,1] on all-zero input: %v", mode, bins)
		}
	}
}

func TestChromaCDominatesForC4Tone(t *testing.T) {
	// Build a column with nearly all energy at the bin nearest C4 (261.63 Hz),
	// at the magnitude a full-scale Hann-windowed sine reaches (n_fft/4), well
	// above the -40 dBFS noise gate of 0.01 * n_fft/2.
	nFFT := 2048
	sampleRate := 48000
	column := make([]float64, nFFT/2+1)
	targetBin := int(math.Round(261.63 * float64(nFFT) / float64(sampleRate)))
	column[targetBin] = float64(nFFT) / 4

	tracker := &fakeTracker{ref: 0.1}
	c := NewChroma(nFFT, sampleRate, tracker)
	bins := c.Normalize(column, NormStatistical)

	cIdx := 0 // pitch class 0 = C
	for i, v := range bins {
		if i == cIdx {
			continue
		}
		if v >= bins[cIdx] {
			t.Errorf("note[%d]=%v exceeds note[C]=%v", i, v, bins[cIdx])
		}
	}
}

func TestChromaFixedModeFinite(t *testing.T) {
	column := make([]float64, 1025)
	for i := range column {
		column[i] = float64(i) * 0.001
	}
	tracker := &fakeTracker{ref: 1}
	c := NewChroma(2048, 48000, tracker)
	bins := c.Normalize(column, NormFixed)
	if !allFinite(bins) || !allInUnitRange(bins) {
		t.Errorf("fixed mode produced invalid bins: %v", bins)
	}
}
