package transport

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := Packet{
		Brightness: 0.42,
		Flux:       1.23,
		Low:        0.1,
		Mid:        0.2,
		High:       0.3,
		BPM:        120.5,
		IsBeat:     1.0,
		Notes:      [12]float32{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0, 0.05},
	}

	buf := Encode(p)
	if len(buf) != PacketSize {
		t.Fatalf("encoded length = %d, want %d", len(buf), PacketSize)
	}

	got, ok := Decode(buf)
	if !ok {
		t.Fatalf("decode failed")
	}
	if got != p {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, p)
	}
}

func TestDecodeRejectsWrongSize(t *testing.T) {
	if _, ok := Decode(make([]byte, 10)); ok {
		t.Errorf("expected decode failure for wrong-sized buffer")
	}
}
