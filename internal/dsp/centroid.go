package dsp

// Centroid computes the spectral centroid (energy-weighted mean frequency,
// in Hz) of a magnitude column, given the FFT size and sample rate used to
// produce it.
func Centroid(column []float64, nFFT, sampleRate int) float64 {
	var weighted, total float64
	for b, mag := range column {
		freq := float64(b) * float64(sampleRate) / float64(nFFT)
		weighted += freq * mag
		total += mag
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// Brightness maps a centroid in Hz into [0, 1].
func Brightness(centroidHz float64) float64 {
	v := centroidHz / 11000
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
