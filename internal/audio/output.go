package audio

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hajimehoshi/oto/v2"
)

const (
	defaultBitDepth = 2 // 16-bit = 2 bytes

	// Maximum buffer size to prevent the decoder from getting too far
	// ahead of playback. 100ms at 44100Hz stereo 16-bit = 17640 bytes.
	maxBufferSize = 17640
)

// OtoOutput is an audio output using the Oto library. It backs the
// Monitor Source's audible fixture playback: a developer can listen to
// the exact signal being fed into the pipeline while packets stream out.
type OtoOutput struct {
	context    *oto.Context
	player     oto.Player // oto.Player is an interface, not a pointer
	sampleRate int
	channels   int
	mu         sync.Mutex
	buffer     *bytes.Buffer
	closed     bool // True when output is closed - unblocks waiting goroutines
}

// NewOtoOutputWithConfig creates a new Oto-based audio output with custom config
func NewOtoOutputWithConfig(sampleRate, channels int) (*OtoOutput, error) {
	ctx, ready, err := oto.NewContext(sampleRate, channels, defaultBitDepth)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}

	// Wait for context to be ready
	<-ready

	buffer := &bytes.Buffer{}

	output := &OtoOutput{
		context:    ctx,
		sampleRate: sampleRate,
		channels:   channels,
		buffer:     buffer,
	}

	// Create player with the buffer as source
	output.player = ctx.NewPlayer(output)

	return output, nil
}

// Read implements io.Reader for the player to read from
func (o *OtoOutput) Read(p []byte) (n int, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	// If closed, signal EOF to stop the player cleanly
	if o.closed {
		return 0, io.EOF
	}

	// If buffer is empty, return silence to keep stream alive
	if o.buffer.Len() == 0 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	return o.buffer.Read(p)
}

// Write writes PCM audio data to the output buffer.
// Blocks if buffer exceeds maxBufferSize to keep playback from falling
// arbitrarily far behind the decoder.
func (o *OtoOutput) Write(data []byte) (int, error) {
	// Wait until buffer has room - this throttles decoding to match playback
	for {
		o.mu.Lock()
		if o.buffer.Len() < maxBufferSize {
			break
		}
		o.mu.Unlock()
		// Buffer full, wait for playback to consume some
		time.Sleep(10 * time.Millisecond)
	}
	defer o.mu.Unlock()

	n, err := o.buffer.Write(data)
	if err != nil {
		return n, err
	}

	if o.player != nil && !o.player.IsPlaying() {
		o.player.Play()
	}

	return n, nil
}

// Close releases the audio output resources
func (o *OtoOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.closed = true

	if o.player != nil {
		if err := o.player.Close(); err != nil {
			return err
		}
	}
	return nil
}

// SampleRate returns the sample rate
func (o *OtoOutput) SampleRate() int {
	return o.sampleRate
}

// Channels returns the number of channels
func (o *OtoOutput) Channels() int {
	return o.channels
}

// Ensure OtoOutput implements io.Reader
var _ io.Reader = (*OtoOutput)(nil)
