package transport

import (
	"log"
	"net"
)

// Transmitter sends feature packets over UDP. Send errors are logged but
// non-fatal, per spec.md §4.12 and the original source's transmitter
// (note_dancer/engine_v2/transmitter.py), which likewise swallows send
// failures rather than propagating them into the DSP loop.
type Transmitter struct {
	conn *net.UDPConn
}

// NewTransmitter resolves addr and opens a UDP socket for sending.
func NewTransmitter(addr string) (*Transmitter, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, err
	}
	return &Transmitter{conn: conn}, nil
}

// Send encodes and transmits p. Failures are logged, never returned to the
// caller, matching the "network send errors are non-fatal" rule in
// spec.md §7.
func (t *Transmitter) Send(p Packet) {
	buf := Encode(p)
	if _, err := t.conn.Write(buf); err != nil {
		log.Printf("[TRANSMIT] send failed: %v", err)
	}
}

// Close releases the socket.
func (t *Transmitter) Close() error {
	return t.conn.Close()
}
