package dsp

// Flux computes positive spectral flux over the percussive spectrum,
// normalized by a rolling average of recent flux magnitudes and scaled by
// a tunable sensitivity, per spec.md §4.8.
type Flux struct {
	prev    []float64
	history []float64 // bounded FIFO, capacity 20
	first   bool
}

const fluxHistoryCap = 20

// NewFlux returns a Flux detector with no prior column (first frame yields
// zero, per spec).
func NewFlux() *Flux {
	return &Flux{first: true, history: make([]float64, 0, fluxHistoryCap)}
}

// Update computes flux for the newest percussive column, pushes it into
// the rolling history, and returns the sensitivity-scaled, average-
// normalized output.
func (f *Flux) Update(percussiveColumn []float64, fluxSens float64) float64 {
	if f.first {
		f.first = false
		f.prev = append([]float64(nil), percussiveColumn...)
		return 0
	}

	var flux float64
	for i, v := range percussiveColumn {
		d := v - f.prev[i]
		if d > 0 {
			flux += d
		}
	}
	f.prev = append(f.prev[:0], percussiveColumn...)

	if len(f.history) == fluxHistoryCap {
		copy(f.history, f.history[1:])
		f.history = f.history[:len(f.history)-1]
	}
	f.history = append(f.history, flux)

	avg := 1.0
	if len(f.history) > 0 {
		var sum float64
		for _, v := range f.history {
			sum += v
		}
		avg = sum / float64(len(f.history))
	}

	return (flux / (avg + 1e-9)) * fluxSens
}
