package audio

import (
	"context"
	"fmt"
	"os/exec"
)

// FFmpegDecoder uses FFmpeg for audio decoding
type FFmpegDecoder struct {
	ffmpegPath string
}

// NewFFmpegDecoder creates a new FFmpeg-based decoder
func NewFFmpegDecoder() (*FFmpegDecoder, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	return &FFmpegDecoder{
		ffmpegPath: ffmpegPath,
	}, nil
}

// DecodeFrom decodes an audio file starting from the specified position,
// writing raw s16le PCM at output's sample rate and channel count to output.
func (d *FFmpegDecoder) DecodeFrom(ctx context.Context, path string, output Output, startMs int64) error {
	args := []string{}

	if startMs > 0 {
		startSec := float64(startMs) / 1000.0
		args = append(args, "-ss", fmt.Sprintf("%.3f", startSec))
	}

	args = append(args,
		"-i", path,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ac", fmt.Sprintf("%d", output.Channels()),
		"-ar", fmt.Sprintf("%d", output.SampleRate()),
		"-",
	)

	cmd := exec.CommandContext(ctx, d.ffmpegPath, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	// Ensure process is killed and reaped on any exit path
	defer func() {
		if cmd.Process != nil {
			cmd.Process.Kill()
			cmd.Wait() // Reap zombie process
		}
	}()

	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := stdout.Read(buf)
		if n > 0 {
			if _, writeErr := output.Write(buf[:n]); writeErr != nil {
				return fmt.Errorf("failed to write to output: %w", writeErr)
			}
		}
		if err != nil {
			break
		}
	}

	return cmd.Wait()
}

// Close releases decoder resources
func (d *FFmpegDecoder) Close() error {
	return nil
}
