package dsp

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Spectrogram computes a magnitude-only short-time Fourier transform over
// a ring-buffer snapshot, matching the teacher's FFT visualizer in its use
// of gonum.org/v1/gonum/dsp/fourier for the transform itself, generalized
// here to a full hop/window STFT rather than one fixed-size transform.
type Spectrogram struct {
	fft    *fourier.FFT
	window []float64
	nFFT   int
	hop    int
}

// NewSpectrogram builds the FFT plan and raised-cosine (Hann) analysis
// window for the given transform size and hop.
func NewSpectrogram(nFFT, hop int) *Spectrogram {
	window := make([]float64, nFFT)
	for i := range window {
		window[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(nFFT-1))
	}
	return &Spectrogram{
		fft:    fourier.NewFFT(nFFT),
		window: window,
		nFFT:   nFFT,
		hop:    hop,
	}
}

// Bins returns n_fft/2 + 1, the number of magnitude bins per column.
func (s *Spectrogram) Bins() int {
	return s.nFFT/2 + 1
}

// Compute runs the windowed, non-centered STFT over buffer and returns the
// magnitude matrix as rows of bins, one row per frequency bin, columns
// ordered oldest-to-newest in time — this layout lets HPSS's harmonic pass
// (median along time, per frequency row) operate directly on M[bin]
// without transposition.
func (s *Spectrogram) Compute(buffer []float32) [][]float64 {
	bins := s.Bins()
	nFrames := 0
	if len(buffer) >= s.nFFT {
		nFrames = (len(buffer)-s.nFFT)/s.hop + 1
	}
	if nFrames < 1 {
		nFrames = 1
	}

	m := make([][]float64, bins)
	for b := range m {
		m[b] = make([]float64, nFrames)
	}

	segment := make([]float64, s.nFFT)
	coeffs := make([]complex128, bins)

	for col := 0; col < nFrames; col++ {
		start := col * s.hop
		for i := 0; i < s.nFFT; i++ {
			idx := start + i
			var sample float64
			if idx < len(buffer) {
				sample = float64(buffer[idx])
			}
			segment[i] = sample * s.window[i]
		}

		s.fft.Coefficients(coeffs, segment)
		for b := 0; b < bins; b++ {
			m[b][col] = cmplx.Abs(coeffs[b])
		}
	}

	return m
}

// Column extracts time column c from a bin-major magnitude matrix as
// produced by Compute.
func Column(m [][]float64, c int) []float64 {
	col := make([]float64, len(m))
	for b := range m {
		col[b] = m[b][c]
	}
	return col
}

// HPSS separates a magnitude matrix into harmonic and percussive spectra
// via separable median filtering: harmonic is the median along the time
// axis per frequency row (kernel 31), percussive is the median along the
// frequency axis per time column (kernel 31).
func HPSS(m [][]float64, kernel int) (harmonic, percussive [][]float64) {
	bins := len(m)
	if bins == 0 {
		return nil, nil
	}
	nFrames := len(m[0])

	harmonic = make([][]float64, bins)
	for b := 0; b < bins; b++ {
		harmonic[b] = medianFilter1D(m[b], kernel)
	}

	percussive = make([][]float64, bins)
	for b := range percussive {
		percussive[b] = make([]float64, nFrames)
	}
	columnBuf := make([]float64, bins)
	for c := 0; c < nFrames; c++ {
		for b := 0; b < bins; b++ {
			columnBuf[b] = m[b][c]
		}
		filtered := medianFilter1D(columnBuf, kernel)
		for b := 0; b < bins; b++ {
			percussive[b][c] = filtered[b]
		}
	}

	return harmonic, percussive
}
