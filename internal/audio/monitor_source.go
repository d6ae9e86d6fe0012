package audio

import (
	"context"
	"encoding/binary"
	"fmt"
)

// MonitorSource is the ambient "Monitor Source": it decodes a fixture
// audio file into mono Float32 frames for the pipeline, and — when audible
// playback is enabled — simultaneously plays the same signal through
// OtoOutput so a developer can listen while watching packet output. It
// satisfies the Source interface exactly like a live capture device would.
type MonitorSource struct {
	decoder  Decoder
	sink     *pcmSink
	playback *OtoOutput
	cancel   context.CancelFunc
	done     chan error
}

// NewMonitorSource decodes path at sampleRate/mono and begins feeding
// chunk-sized frames into an internal queue. If audible is true, the same
// PCM stream is also routed to the system audio output.
func NewMonitorSource(ctx context.Context, path string, sampleRate, chunk int, audible bool) (*MonitorSource, error) {
	decoder, err := NewFFmpegDecoder()
	if err != nil {
		return nil, fmt.Errorf("monitor source: %w", err)
	}

	var playback *OtoOutput
	if audible {
		playback, err = NewOtoOutputWithConfig(sampleRate, 1)
		if err != nil {
			return nil, fmt.Errorf("monitor source: audible playback: %w", err)
		}
	}

	sink := newPCMSink(sampleRate, chunk, playback)

	runCtx, cancel := context.WithCancel(ctx)
	ms := &MonitorSource{
		decoder:  decoder,
		sink:     sink,
		playback: playback,
		cancel:   cancel,
		done:     make(chan error, 1),
	}

	go func() {
		err := decoder.DecodeFrom(runCtx, path, sink, 0)
		sink.closeFrames()
		ms.done <- err
	}()

	return ms, nil
}

// Read blocks for the next decoded frame, or returns ctx.Err()/io.EOF-style
// completion when the fixture file is exhausted.
func (m *MonitorSource) Read(ctx context.Context) (Frame, error) {
	select {
	case f, ok := <-m.sink.frames:
		if !ok {
			return Frame{}, fmt.Errorf("monitor source: fixture exhausted")
		}
		return f, nil
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	}
}

// Close stops decoding and releases the playback output, if any.
func (m *MonitorSource) Close() error {
	m.cancel()
	<-m.done
	if m.playback != nil {
		return m.playback.Close()
	}
	return nil
}

var _ Source = (*MonitorSource)(nil)

// pcmSink implements Output, receiving signed 16-bit little-endian mono
// PCM bytes from FFmpegDecoder, converting them to [-1,1] Float32 frames
// of exactly chunk samples, and forwarding the raw bytes to an optional
// audible OtoOutput. Frames are delivered on a small buffered channel;
// a full channel means the pipeline is falling behind the fixture, so the
// oldest pending frame is dropped rather than blocking the decoder,
// matching the Source Adapter's drop-over-delay discipline.
type pcmSink struct {
	sampleRate int
	chunk      int
	playback   *OtoOutput

	leftover []byte // odd/partial bytes carried between Write calls
	accum    []float32
	frames   chan Frame
}

func newPCMSink(sampleRate, chunk int, playback *OtoOutput) *pcmSink {
	return &pcmSink{
		sampleRate: sampleRate,
		chunk:      chunk,
		playback:   playback,
		accum:      make([]float32, 0, chunk),
		frames:     make(chan Frame, 4),
	}
}

func (s *pcmSink) Write(p []byte) (int, error) {
	if s.playback != nil {
		if _, err := s.playback.Write(p); err != nil {
			return 0, err
		}
	}

	data := p
	if len(s.leftover) > 0 {
		data = append(append([]byte{}, s.leftover...), p...)
		s.leftover = nil
	}

	n := len(data) - len(data)%2
	for i := 0; i < n; i += 2 {
		sample := int16(binary.LittleEndian.Uint16(data[i : i+2]))
		s.accum = append(s.accum, float32(sample)/32768.0)
		if len(s.accum) == s.chunk {
			frame := Frame{Samples: append([]float32(nil), s.accum...)}
			select {
			case s.frames <- frame:
			default:
				select {
				case <-s.frames:
				default:
				}
				s.frames <- frame
			}
			s.accum = s.accum[:0]
		}
	}
	if n < len(data) {
		s.leftover = append(s.leftover, data[n:]...)
	}

	return len(p), nil
}

func (s *pcmSink) closeFrames() {
	close(s.frames)
}

func (s *pcmSink) Close() error {
	if s.playback != nil {
		return s.playback.Close()
	}
	return nil
}

func (s *pcmSink) SampleRate() int { return s.sampleRate }
func (s *pcmSink) Channels() int   { return 1 }

var _ Output = (*pcmSink)(nil)
