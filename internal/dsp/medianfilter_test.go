package dsp

import (
	"math"
	"math/rand"
	"sort"
	"testing"
)

// naiveMedianFilter1D is a reference O(n*k log k) implementation used only
// to check slidingMedian-backed medianFilter1D against, not shipped on the
// hot path.
func naiveMedianFilter1D(data []float64, kernel int) []float64 {
	n := len(data)
	out := make([]float64, n)
	half := kernel / 2

	reflect := func(i int) int {
		for i < 0 || i >= n {
			if i < 0 {
				i = -i - 1
			}
			if i >= n {
				i = 2*n - i - 1
			}
		}
		return i
	}

	window := make([]float64, kernel)
	for i := 0; i < n; i++ {
		for k := -half; k <= half; k++ {
			window[k+half] = data[reflect(i+k)]
		}
		sorted := append([]float64(nil), window...)
		sort.Float64s(sorted)
		out[i] = sorted[len(sorted)/2]
	}
	return out
}

func TestMedianFilter1DMatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	data := make([]float64, 100)
	for i := range data {
		data[i] = rng.Float64() * 10
	}

	got := medianFilter1D(data, 31)
	want := naiveMedianFilter1D(data, 31)

	for i := range data {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("index %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestMedianFilter1DShorterThanKernel(t *testing.T) {
	data := []float64{1, 5, 2, 9, 3}
	got := medianFilter1D(data, 31)
	want := naiveMedianFilter1D(data, 31)

	for i := range data {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("index %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestMedianFilter1DConstantInput(t *testing.T) {
	data := make([]float64, 40)
	for i := range data {
		data[i] = 7
	}
	got := medianFilter1D(data, 31)
	for i, v := range got {
		if v != 7 {
			t.Errorf("index %d: got %v want 7", i, v)
		}
	}
}
