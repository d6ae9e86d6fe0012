package tempo

import (
	"math"
	"testing"
)

func kickFrame(n int, amplitude float32) []float32 {
	f := make([]float32, n)
	for i := range f {
		f[i] = amplitude
	}
	return f
}

func silentFrame(n int) []float32 {
	return make([]float32, n)
}

func TestDetectorNoBeatOnSilence(t *testing.T) {
	const chunk = 1024
	const sampleRate = 48000
	fps := float64(sampleRate) / float64(chunk)
	d := NewDetector(fps)

	for i := 0; i < int(fps*2); i++ {
		isBeat, bpm := d.OnFrame(silentFrame(chunk))
		if isBeat {
			t.Fatalf("unexpected beat on silent frame %d", i)
		}
		if bpm != 0 {
			t.Fatalf("unexpected nonzero bpm %v on silent frame %d", bpm, i)
		}
	}
}

func TestDetectorLocksTempoOn120BPMKicks(t *testing.T) {
	const chunk = 1024
	const sampleRate = 48000
	fps := float64(sampleRate) / float64(chunk)
	d := NewDetector(fps)

	// 120 BPM = one kick every 0.5s = every fps/2 frames.
	framesPerBeat := int(fps / 2)
	totalFrames := int(fps * 10) // 10 seconds

	var lastBPM float64
	for i := 0; i < totalFrames; i++ {
		var frame []float32
		if i%framesPerBeat == 0 {
			frame = kickFrame(chunk, 1.0)
		} else {
			frame = silentFrame(chunk)
		}
		_, bpm := d.OnFrame(frame)
		lastBPM = bpm
	}

	if math.Abs(lastBPM-120) > 5 {
		t.Errorf("expected bpm near 120, got %v", lastBPM)
	}
}

func TestDetectorNoBeatBeforeBPMEstablished(t *testing.T) {
	const chunk = 1024
	const sampleRate = 48000
	fps := float64(sampleRate) / float64(chunk)
	d := NewDetector(fps)

	// A single isolated onset cannot establish a BPM (needs >= 2 intervals).
	isBeat, bpm := d.OnFrame(kickFrame(chunk, 1.0))
	if isBeat {
		t.Errorf("expected no beat before bpm established, got isBeat=true bpm=%v", bpm)
	}
}
