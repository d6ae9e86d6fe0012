package audio

import (
	"math"
	"testing"
)

func sineFrame(freq, sampleRate float64, n, phaseStart int) []float32 {
	frame := make([]float32, n)
	for i := 0; i < n; i++ {
		t := float64(phaseStart+i) / sampleRate
		frame[i] = float32(math.Sin(2 * math.Pi * freq * t))
	}
	return frame
}

// runSettled feeds enough frames to let filter state settle before
// measuring, matching the carried-state behavior §4.3 requires.
func runSettled(fb *Filterbank, freq, sampleRate float64, chunk int) (low, mid, high float64) {
	const settleFrames = 40
	phase := 0
	for i := 0; i < settleFrames; i++ {
		frame := sineFrame(freq, sampleRate, chunk, phase)
		low, mid, high = fb.Process(frame)
		phase += chunk
	}
	return
}

func TestFilterbankLowToneDominatesLow(t *testing.T) {
	fb := NewFilterbank(48000)
	low, mid, high := runSettled(fb, 60, 48000, 1024)
	if !(low > mid && low > high) {
		t.Errorf("60 Hz tone: low=%.4f mid=%.4f high=%.4f, want low dominant", low, mid, high)
	}
}

func TestFilterbankMidToneDominatesMid(t *testing.T) {
	fb := NewFilterbank(48000)
	low, mid, high := runSettled(fb, 1000, 48000, 1024)
	if !(mid > low && mid > high) {
		t.Errorf("1 kHz tone: low=%.4f mid=%.4f high=%.4f, want mid dominant", low, mid, high)
	}
}

func TestFilterbankHighToneDominatesHigh(t *testing.T) {
	fb := NewFilterbank(48000)
	low, mid, high := runSettled(fb, 8000, 48000, 1024)
	if !(high > low && high > mid) {
		t.Errorf("8 kHz tone: low=%.4f mid=%.4f high=%.4f, want high dominant", low, mid, high)
	}
}

func TestFilterbankSilenceProducesZero(t *testing.T) {
	fb := NewFilterbank(48000)
	frame := make([]float32, 1024)
	low, mid, high := fb.Process(frame)
	if low != 0 || mid != 0 || high != 0 {
		t.Errorf("silence: low=%v mid=%v high=%v, want all zero", low, mid, high)
	}
}
