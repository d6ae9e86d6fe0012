// Package tempo implements the onset-based beat/tempo detector.
package tempo

import "math"

const (
	energyHistoryCap  = 43 // roughly 1 second at 1024/48000 fps
	intervalHistoryCap = 8
	minBPM            = 40.0
	maxBPM            = 300.0
	onsetFloor        = 1e-4 // ignore onsets below this absolute energy
)

// Detector is an onset-based tempo tracker consuming one frame at a time.
// It has no Go-ecosystem equivalent to aubio in the pack, so the onset
// envelope and periodicity estimate here are a hand-rolled adaptive-
// threshold detector plus an inter-onset-interval median, rather than a
// ported library call.
type Detector struct {
	fps float64

	energyHistory []float64 // bounded FIFO of recent frame RMS values
	intervals     []float64 // bounded FIFO of recent inter-onset intervals, seconds

	frameIdx      int64
	lastOnsetIdx  int64
	haveLastOnset bool

	bpm float64 // 0 until a tempo has locked at least once
}

// NewDetector builds a tempo detector for the given frame rate (fps =
// sample_rate / CHUNK).
func NewDetector(fps float64) *Detector {
	return &Detector{
		fps:           fps,
		energyHistory: make([]float64, 0, energyHistoryCap),
		intervals:     make([]float64, 0, intervalHistoryCap),
	}
}

// OnFrame consumes the newest frame and returns whether it marks a beat
// and the current rolling BPM estimate (0 until a tempo has locked).
func (d *Detector) OnFrame(frame []float32) (isBeat bool, bpm float64) {
	d.frameIdx++

	energy := rms(frame)

	mean, std := meanStd(d.energyHistory)
	threshold := mean + 1.5*std

	pushBounded(&d.energyHistory, energy, energyHistoryCap)

	minIntervalFrames := d.minIntervalFrames()
	sinceLast := d.frameIdx
	if d.haveLastOnset {
		sinceLast = d.frameIdx - d.lastOnsetIdx
	}

	onset := energy > onsetFloor && energy > threshold && sinceLast >= minIntervalFrames

	if onset {
		if d.haveLastOnset {
			ioi := float64(d.frameIdx-d.lastOnsetIdx) / d.fps
			pushBounded(&d.intervals, ioi, intervalHistoryCap)
		}
		d.lastOnsetIdx = d.frameIdx
		d.haveLastOnset = true

		if len(d.intervals) >= 2 {
			medianIOI := median(d.intervals)
			if medianIOI > 0 {
				instBPM := clipBPM(60.0 / medianIOI)
				if d.bpm == 0 {
					d.bpm = instBPM
				} else {
					// Exponential smoothing settles within ~4s of steady
					// input at typical frame rates without over-reacting
					// to a single outlier interval.
					const alpha = 0.3
					d.bpm = d.bpm*(1-alpha) + instBPM*alpha
				}
			}
		}
	}

	isBeat = onset && d.bpm > 0
	return isBeat, d.bpm
}

// minIntervalFrames enforces a minimum inter-beat interval consistent with
// the current BPM estimate (half a beat period), falling back to a
// max-BPM-derived floor before any tempo has locked.
func (d *Detector) minIntervalFrames() int64 {
	bpm := d.bpm
	if bpm <= 0 {
		bpm = maxBPM
	}
	periodSeconds := 60.0 / bpm
	minSeconds := periodSeconds * 0.5
	frames := int64(minSeconds * d.fps)
	if frames < 1 {
		frames = 1
	}
	return frames
}

func clipBPM(bpm float64) float64 {
	if bpm < minBPM {
		return minBPM
	}
	if bpm > maxBPM {
		return maxBPM
	}
	return bpm
}

func rms(frame []float32) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, s := range frame {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(frame)))
}

func meanStd(history []float64) (mean, std float64) {
	if len(history) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range history {
		sum += v
	}
	mean = sum / float64(len(history))

	var variance float64
	for _, v := range history {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(history))
	std = math.Sqrt(variance)
	return mean, std
}

func pushBounded(history *[]float64, v float64, cap int) {
	if len(*history) == cap {
		copy(*history, (*history)[1:])
		*history = (*history)[:len(*history)-1]
	}
	*history = append(*history, v)
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
