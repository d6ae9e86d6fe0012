package audio

import (
	"bytes"
	"io"
	"testing"
)

func newBareOtoOutput() *OtoOutput {
	return &OtoOutput{
		sampleRate: 48000,
		channels:   1,
		buffer:     &bytes.Buffer{},
	}
}

func TestOtoOutputWriteThenReadRoundTrips(t *testing.T) {
	o := newBareOtoOutput()

	in := []byte{0x00, 0x10, 0xFF, 0x7F}
	n, err := o.Write(in)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != len(in) {
		t.Fatalf("Write n = %d, want %d", n, len(in))
	}

	out := make([]byte, len(in))
	n, err = o.Read(out)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != len(in) {
		t.Fatalf("Read n = %d, want %d", n, len(in))
	}
	if !bytes.Equal(out, in) {
		t.Errorf("Read returned %x, want %x", out, in)
	}
}

func TestOtoOutputReadSilenceWhenEmpty(t *testing.T) {
	o := newBareOtoOutput()

	out := make([]byte, 4)
	n, err := o.Read(out)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != len(out) {
		t.Fatalf("Read n = %d, want %d", n, len(out))
	}
	for i, b := range out {
		if b != 0 {
			t.Errorf("byte %d = %#x, want 0 (silence)", i, b)
		}
	}
}

func TestOtoOutputReadEOFAfterClose(t *testing.T) {
	o := newBareOtoOutput()
	o.closed = true

	out := make([]byte, 4)
	_, err := o.Read(out)
	if err != io.EOF {
		t.Errorf("Read after close = %v, want io.EOF", err)
	}
}

func TestOtoOutputSampleRateAndChannels(t *testing.T) {
	o := newBareOtoOutput()

	if o.SampleRate() != 48000 {
		t.Errorf("SampleRate() = %d, want 48000", o.SampleRate())
	}
	if o.Channels() != 1 {
		t.Errorf("Channels() = %d, want 1", o.Channels())
	}
}
