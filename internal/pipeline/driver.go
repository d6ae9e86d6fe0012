// Package pipeline implements the Pipeline Driver: the real-time loop
// binding the Source, Ring Buffer, Filterbank, AGC, Spectrogram/HPSS,
// Chroma/Centroid/Flux/Tempo, Packet Transmitter, and Debug Monitor.
package pipeline

import (
	"context"
	"log"
	"math"
	"sync/atomic"
	"time"

	"github.com/austinkregel/notedancerd/internal/audio"
	"github.com/austinkregel/notedancerd/internal/dsp"
	"github.com/austinkregel/notedancerd/internal/monitor"
	"github.com/austinkregel/notedancerd/internal/params"
	"github.com/austinkregel/notedancerd/internal/tempo"
	"github.com/austinkregel/notedancerd/internal/transport"
)

const (
	hpssKernel = 31
	agcEpsilon = 1e-9
)

// Config carries the engine tunables the driver needs to construct its
// DSP stages.
type Config struct {
	SampleRate   int
	Chunk        int
	WindowChunks int
}

// Driver runs the per-frame pipeline in a tight, single-threaded loop.
// It owns all DSP state exclusively; the shared resources are the
// Parameter Store, read once per field per frame, and the atomic command
// counter the Command Listener increments.
type Driver struct {
	source      audio.Source
	ring        *audio.RingBuffer
	filterbank  *audio.Filterbank
	lowAGC      *audio.AGC
	midAGC      *audio.AGC
	highAGC     *audio.AGC
	noteAGC     *audio.AGC
	spectrogram *dsp.Spectrogram
	chroma      *dsp.Chroma
	flux        *dsp.Flux
	tempoDet    *tempo.Detector
	store       *params.Store
	tx          *transport.Transmitter
	mon         *monitor.Monitor

	nFFT       int
	sampleRate int

	commandsSinceLastFrame atomic.Int64
}

// New wires every DSP stage for the given config, reading from source and
// sending packets through tx.
func New(cfg Config, source audio.Source, store *params.Store, tx *transport.Transmitter, mon *monitor.Monitor) *Driver {
	fps := float64(cfg.SampleRate) / float64(cfg.Chunk)
	nFFT := cfg.Chunk * 2

	noteAGC := audio.NewAGC(audio.AGCParams{
		PeakPercentile:    90,
		HalfLifeSeconds:   15,
		AttackTimeSeconds: 0.05,
		HistorySeconds:    4,
	}, fps)
	lowAGC := audio.NewAGC(audio.AGCParams{
		PeakPercentile:    95,
		HalfLifeSeconds:   10,
		AttackTimeSeconds: 0.05,
		HistorySeconds:    4,
	}, fps)
	midAGC := audio.NewAGC(audio.AGCParams{
		PeakPercentile:    90,
		HalfLifeSeconds:   15,
		AttackTimeSeconds: 0.05,
		HistorySeconds:    4,
	}, fps)
	highAGC := audio.NewAGC(audio.AGCParams{
		PeakPercentile:    90,
		HalfLifeSeconds:   15,
		AttackTimeSeconds: 0.05,
		HistorySeconds:    4,
	}, fps)

	return &Driver{
		source:      source,
		ring:        audio.NewRingBuffer(cfg.Chunk, cfg.WindowChunks),
		filterbank:  audio.NewFilterbank(float64(cfg.SampleRate)),
		lowAGC:      lowAGC,
		midAGC:      midAGC,
		highAGC:     highAGC,
		noteAGC:     noteAGC,
		spectrogram: dsp.NewSpectrogram(nFFT, cfg.Chunk),
		chroma:      dsp.NewChroma(nFFT, cfg.SampleRate, noteAGC),
		flux:        dsp.NewFlux(),
		tempoDet:    tempo.NewDetector(fps),
		store:       store,
		tx:          tx,
		mon:         mon,
		nFFT:        nFFT,
		sampleRate:  cfg.SampleRate,
	}
}

// NotifyCommandsApplied lets the Command Listener report how many
// parameter updates it applied since the driver last read this counter,
// so the debug monitor's per-interval command count stays accurate.
func (d *Driver) NotifyCommandsApplied(count int) {
	d.commandsSinceLastFrame.Add(int64(count))
}

// Run executes the pipeline loop until ctx is cancelled or a fatal
// (device-level) error occurs, per spec.md §4.14's failure model: a
// single frame's transient error is logged and that frame is skipped; a
// device error is fatal and stops the loop.
func (d *Driver) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := d.runOneFrame(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("[PIPELINE] fatal source error: %v", err)
			return err
		}
	}
}

func (d *Driver) runOneFrame(ctx context.Context) error {
	frame, err := d.source.Read(ctx)
	if err != nil {
		return err // device-level error: fatal, propagated up
	}

	t0 := time.Now()

	if hasNaN(frame.Samples) {
		log.Printf("[PIPELINE] NaN in captured frame, skipping")
		return nil
	}

	d.ring.Append(frame.Samples)
	window := d.ring.Snapshot()

	isBeat, bpm := d.tempoDet.OnFrame(frame.Samples)

	m := d.spectrogram.Compute(window)
	harmonic, percussive := dsp.HPSS(m, hpssKernel)
	lastCol := len(m[0]) - 1

	rawLow, rawMid, rawHigh := d.filterbank.Process(frame.Samples)

	refLow := d.lowAGC.Update([]float64{rawLow})
	refMid := d.midAGC.Update([]float64{rawMid})
	refHigh := d.highAGC.Update([]float64{rawHigh})

	lowGain := d.store.LowGain()
	midGain := d.store.MidGain()
	highGain := d.store.HighGain()

	low := clip01(rawLow/(refLow+agcEpsilon) * lowGain)
	mid := clip01(rawMid/(refMid+agcEpsilon) * midGain)
	high := clip01(rawHigh/(refHigh+agcEpsilon) * highGain)

	centroidHz := dsp.Centroid(dsp.Column(m, lastCol), d.nFFT, d.sampleRate)
	brightness := dsp.Brightness(centroidHz)

	fluxSens := d.store.FluxSens()
	fluxVal := d.flux.Update(dsp.Column(percussive, lastCol), fluxSens)

	harmonicCol := dsp.Column(harmonic, lastCol)
	notes := d.chroma.Normalize(harmonicCol, dsp.NormMode(d.store.NormMode()))

	if math.IsNaN(float64(brightness)) || math.IsNaN(fluxVal) {
		log.Printf("[PIPELINE] NaN in derived features, skipping frame")
		return nil
	}

	packet := transport.Packet{
		Brightness: float32(brightness),
		Flux:       float32(fluxVal),
		Low:        float32(low),
		Mid:        float32(mid),
		High:       float32(high),
		BPM:        float32(bpm),
		IsBeat:     beatFlag(isBeat),
	}
	for i := 0; i < 12; i++ {
		packet.Notes[i] = float32(notes[i])
	}
	d.tx.Send(packet)

	frameMs := float64(time.Since(t0)) / float64(time.Millisecond)
	commands := int(d.commandsSinceLastFrame.Swap(0))

	if d.mon != nil {
		summary, ok := d.mon.Update(monitor.FrameStats{
			FrameTimeMs:     frameMs,
			InputRMS:        inputRMS(frame.Samples),
			Low:             low,
			Mid:             mid,
			High:            high,
			IsBeat:          isBeat,
			BPM:             bpm,
			Notes:           packet.Notes,
			AGCLow:          refLow,
			AGCMid:          refMid,
			AGCHigh:         refHigh,
			CommandsApplied: commands,
		})
		if ok {
			log.Printf("[MONITOR] %s", monitor.Format(summary))
		}
	}

	return nil
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func beatFlag(b bool) float32 {
	if b {
		return 1.0
	}
	return 0.0
}

func hasNaN(samples []float32) bool {
	for _, s := range samples {
		if math.IsNaN(float64(s)) {
			return true
		}
	}
	return false
}

func inputRMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}
