package audio

import "context"

// RawCapture is the minimal contract a platform capture backend must
// satisfy to feed a SourceAdapter: deliver interleaved Float32 samples,
// one raw chunk at a time, non-blocking past the first read. The concrete
// microphone/device layer is assumed given (out of scope here); only the
// averaging and short-read handling around it belongs to this repo.
type RawCapture interface {
	// ReadRaw fills buf with up to len(buf) interleaved samples and
	// reports how many were written. A short read is not an error.
	ReadRaw(buf []float32) (n int, err error)
	Channels() int
	Close() error
}

// SourceAdapter pulls one frame of mono Float32 samples per tick from a
// RawCapture, averaging stereo pairs down to mono. Each Read takes a
// single raw chunk from the capture and never waits for more. The adapter
// does not drain or discard a backlog the capture layer has accumulated;
// any such backlog is delivered by later Reads.
type SourceAdapter struct {
	capture RawCapture
	chunk   int
	raw     []float32 // scratch buffer sized chunk*channels
	mono    []float32 // scratch buffer sized chunk, reused across calls
}

// NewSourceAdapter wraps capture, pre-allocating the scratch buffers the
// hot path reads into.
func NewSourceAdapter(capture RawCapture, chunk int) *SourceAdapter {
	channels := capture.Channels()
	if channels < 1 {
		channels = 1
	}
	return &SourceAdapter{
		capture: capture,
		chunk:   chunk,
		raw:     make([]float32, chunk*channels),
		mono:    make([]float32, chunk),
	}
}

// averageStereo folds interleaved L/R pairs into mono by arithmetic mean,
// per spec's stereo-to-mono conversion rule.
func averageStereo(interleaved []float32, channels int, mono []float32) {
	if channels <= 1 {
		copy(mono, interleaved)
		return
	}
	for i := range mono {
		var sum float32
		base := i * channels
		for c := 0; c < channels; c++ {
			sum += interleaved[base+c]
		}
		mono[i] = sum / float32(channels)
	}
}

// Read pulls exactly chunk mono samples. If the underlying capture read
// returns fewer samples than requested (an underrun), the frame is
// zero-padded rather than the call blocking further — callers treat an
// underfilled frame the same as any other.
func (s *SourceAdapter) Read(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	n, _ := s.capture.ReadRaw(s.raw)
	channels := s.capture.Channels()
	if channels < 1 {
		channels = 1
	}

	framesRead := n / channels
	if framesRead > s.chunk {
		framesRead = s.chunk
	}

	averageStereo(s.raw[:framesRead*channels], channels, s.mono[:framesRead])
	for i := framesRead; i < s.chunk; i++ {
		s.mono[i] = 0
	}

	out := make([]float32, s.chunk)
	copy(out, s.mono)
	return Frame{Samples: out}, nil
}

// Close releases the underlying capture device.
func (s *SourceAdapter) Close() error {
	return s.capture.Close()
}

var _ Source = (*SourceAdapter)(nil)
