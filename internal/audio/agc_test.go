package audio

import "testing"

func TestAGCConvergesUnderSteadyInput(t *testing.T) {
	a := NewAGC(AGCParams{
		PeakPercentile:    90,
		HalfLifeSeconds:   1,
		AttackTimeSeconds: 0.1,
		HistorySeconds:    2,
	}, 40) // fps=40 -> history_len=80

	const steady = 0.5
	var ref float64
	for i := 0; i < 500; i++ {
		ref = a.Update([]float64{steady})
	}

	if ref > steady {
		t.Errorf("reference %v exceeds steady peak %v", ref, steady)
	}
	if ref < steady*0.5 {
		t.Errorf("reference %v did not converge near steady peak %v", ref, steady)
	}
}

func TestAGCNeverBelowPeakFloor(t *testing.T) {
	a := NewAGC(AGCParams{
		PeakPercentile:    90,
		HalfLifeSeconds:   0.1,
		AttackTimeSeconds: 0.1,
		HistorySeconds:    1,
	}, 40)

	for i := 0; i < 1000; i++ {
		ref := a.Update([]float64{0})
		if ref < peakFloor {
			t.Fatalf("reference %v fell below peak floor %v", ref, peakFloor)
		}
	}
}

func TestAGCDoesNotExceedPeak(t *testing.T) {
	a := NewAGC(AGCParams{
		PeakPercentile:    95,
		HalfLifeSeconds:   5,
		AttackTimeSeconds: 0.05,
		HistorySeconds:    4,
	}, 40)

	const p = 0.3
	for i := 0; i < 300; i++ {
		ref := a.Update([]float64{p})
		if ref > p+1e-9 {
			t.Fatalf("reference %v exceeded peak %v at step %d", ref, p, i)
		}
	}
}
