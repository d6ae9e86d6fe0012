package dsp

import "math"

const noiseGateLinear = 0.01 // 10^(-40/20), spec's -40 dBFS noise gate

// NormMode selects a chroma normalization strategy.
type NormMode string

const (
	NormFixed       NormMode = "fixed"
	NormCompetitive NormMode = "competitive"
	NormStatistical NormMode = "statistical"
)

// ReferenceTracker is the subset of audio.AGC's behavior the statistical
// normalization mode needs: feed it a vector, get back a slowly-adapting
// reference ceiling.
type ReferenceTracker interface {
	Update(v []float64) float64
}

// Chroma extracts and normalizes 12 pitch-class energies from a harmonic
// magnitude column.
type Chroma struct {
	nFFT       int
	sampleRate int

	spotlightPeak float64 // competitive mode state

	noteAGC ReferenceTracker // statistical mode reference (note_agc)
}

// NewChroma constructs a Chroma extractor. noteAGC backs statistical mode
// and is the same note_agc instance described in spec.md §4.4.
func NewChroma(nFFT, sampleRate int, noteAGC ReferenceTracker) *Chroma {
	return &Chroma{
		nFFT:          nFFT,
		sampleRate:    sampleRate,
		spotlightPeak: 1e-6,
		noteAGC:       noteAGC,
	}
}

// raw aggregates the harmonic magnitude column into 12 pitch-class bins
// via log-frequency-to-pitch-class mapping (A4 = 440 Hz, no tuning
// offset), then zeros bins below the absolute -40 dBFS noise gate,
// referenced against the same n_fft/2 magnitude scale normalizeFixed uses.
func (c *Chroma) raw(column []float64) [12]float64 {
	var bins [12]float64
	for b, mag := range column {
		if b == 0 {
			continue // DC has no pitch
		}
		freq := float64(b) * float64(c.sampleRate) / float64(c.nFFT)
		if freq <= 0 {
			continue
		}
		midi := 69 + 12*math.Log2(freq/440.0)
		pc := int(math.Round(midi)) % 12
		if pc < 0 {
			pc += 12
		}
		bins[pc] += mag
	}

	gate := noiseGateLinear * float64(c.nFFT) / 2
	for i, v := range bins {
		if v < gate {
			bins[i] = 0
		}
	}
	return bins
}

// Normalize extracts chroma from column and applies the given mode.
func (c *Chroma) Normalize(column []float64, mode NormMode) [12]float64 {
	raw := c.raw(column)

	switch mode {
	case NormFixed:
		return c.normalizeFixed(raw)
	case NormCompetitive:
		return c.normalizeCompetitive(raw)
	default:
		return c.normalizeStatistical(raw)
	}
}

// normalizeFixed implements the "VU meter" mapping: dBFS against a fixed
// reference (half of n_fft), clipped to [-60, -12] dB and linearly mapped
// to [0, 1].
func (c *Chroma) normalizeFixed(raw [12]float64) [12]float64 {
	ref := float64(c.nFFT) / 2
	var out [12]float64
	for i, v := range raw {
		var db float64
		if v <= 0 {
			db = -60
		} else {
			db = 20 * math.Log10(v/ref)
		}
		db = clip(db, -60, -12)
		out[i] = (db + 60) / 48
	}
	return out
}

// normalizeCompetitive tracks a spotlight peak that snaps up to the
// current frame max and decays by 0.85/frame otherwise, dividing all bins
// by the spotlight peak and squaring for contrast.
func (c *Chroma) normalizeCompetitive(raw [12]float64) [12]float64 {
	frameMax := 0.0
	for _, v := range raw {
		if v > frameMax {
			frameMax = v
		}
	}
	decayed := c.spotlightPeak * 0.85
	if frameMax > decayed {
		c.spotlightPeak = frameMax
	} else {
		c.spotlightPeak = decayed
	}
	if c.spotlightPeak < 1e-6 {
		c.spotlightPeak = 1e-6
	}

	var out [12]float64
	for i, v := range raw {
		n := clip(v/c.spotlightPeak, 0, 1)
		out[i] = n * n
	}
	return out
}

// normalizeStatistical uses note_agc's reference ceiling on a log scale,
// raised to the 4th power for contrast.
func (c *Chroma) normalizeStatistical(raw [12]float64) [12]float64 {
	v := make([]float64, 12)
	copy(v, raw[:])
	ref := c.noteAGC.Update(v)

	var out [12]float64
	for i, x := range raw {
		rel := (x + 1e-6) / ref
		norm := (math.Log10(rel) + 1.5) / 1.5
		norm = clip(norm, 0, 1)
		out[i] = norm * norm * norm * norm
	}
	return out
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
