package dsp

import "testing"

func TestCentroidAllZeroIsZero(t *testing.T) {
	column := make([]float64, 1025)
	if c := Centroid(column, 2048, 48000); c != 0 {
		t.Errorf("expected 0 centroid for silent column, got %v", c)
	}
}

func TestCentroidSingleBinMatchesBinFrequency(t *testing.T) {
	nFFT, sampleRate := 2048, 48000
	column := make([]float64, nFFT/2+1)
	column[100] = 1.0

	want := 100.0 * float64(sampleRate) / float64(nFFT)
	got := Centroid(column, nFFT, sampleRate)
	if got != want {
		t.Errorf("centroid = %v, want %v", got, want)
	}
}

func TestBrightnessClips(t *testing.T) {
	cases := []struct {
		hz   float64
		want float64
	}{
		{-100, 0},
		{0, 0},
		{5500, 0.5},
		{11000, 1},
		{22000, 1},
	}
	for _, c := range cases {
		got := Brightness(c.hz)
		if got != c.want {
			t.Errorf("Brightness(%v) = %v, want %v", c.hz, got, c.want)
		}
	}
}
