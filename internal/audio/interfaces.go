package audio

import (
	"context"
)

// Output is a playback sink capable of accepting raw PCM bytes.
// The Monitor Source's pcmSink (what the decoder writes to) and the
// audible OtoOutput both implement it.
type Output interface {
	Write(p []byte) (int, error)
	Close() error
	SampleRate() int
	Channels() int
}

// Decoder turns an encoded audio file into PCM samples written to an Output,
// starting from the given offset. FFmpegDecoder is the only implementation;
// MonitorSource depends on this interface rather than the concrete type.
type Decoder interface {
	DecodeFrom(ctx context.Context, path string, output Output, startMs int64) error
	Close() error
}

// Frame is one chunk of mono audio samples pulled from a Source, scaled
// to the range [-1, 1].
type Frame struct {
	Samples []float32
}

// Source produces a steady stream of fixed-size mono frames at the
// pipeline's configured sample rate. Capture hardware and the fixture-file
// Monitor Source are both Sources; the Pipeline Driver never distinguishes
// between them.
type Source interface {
	// Read blocks until one frame of len == chunk samples is available,
	// or ctx is cancelled.
	Read(ctx context.Context) (Frame, error)

	// Close releases any underlying device or file handle.
	Close() error
}
