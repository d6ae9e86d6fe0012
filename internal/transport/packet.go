// Package transport implements the UDP feature-packet transmitter and
// parameter command listener.
package transport

import (
	"encoding/binary"
	"math"
)

// PacketFields is the number of float32 values in one feature packet.
const PacketFields = 19

// PacketSize is the wire size in bytes of one feature packet.
const PacketSize = PacketFields * 4

// Packet is the 19-float feature vector in the fixed order spec.md §4.12
// requires: brightness, flux, low, mid, high, bpm, is_beat, note_0..11.
type Packet struct {
	Brightness float32
	Flux       float32
	Low        float32
	Mid        float32
	High       float32
	BPM        float32
	IsBeat     float32
	Notes      [12]float32
}

// Encode serializes p as 19 consecutive big-endian float32 values.
func Encode(p Packet) []byte {
	buf := make([]byte, PacketSize)
	values := p.values()
	for i, v := range values {
		binary.BigEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(v))
	}
	return buf
}

// Decode parses 76 bytes of big-endian float32 values into a Packet.
// buf must be exactly PacketSize bytes.
func Decode(buf []byte) (Packet, bool) {
	if len(buf) != PacketSize {
		return Packet{}, false
	}
	var values [PacketFields]float32
	for i := range values {
		values[i] = math.Float32frombits(binary.BigEndian.Uint32(buf[i*4 : i*4+4]))
	}

	p := Packet{
		Brightness: values[0],
		Flux:       values[1],
		Low:        values[2],
		Mid:        values[3],
		High:       values[4],
		BPM:        values[5],
		IsBeat:     values[6],
	}
	copy(p.Notes[:], values[7:19])
	return p, true
}

func (p Packet) values() [PacketFields]float32 {
	var v [PacketFields]float32
	v[0] = p.Brightness
	v[1] = p.Flux
	v[2] = p.Low
	v[3] = p.Mid
	v[4] = p.High
	v[5] = p.BPM
	v[6] = p.IsBeat
	copy(v[7:19], p.Notes[:])
	return v
}
