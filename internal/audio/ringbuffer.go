package audio

// RingBuffer holds the last WindowChunks frames of CHUNK samples each as a
// single contiguous, oldest-to-newest window. Append is O(CHUNK): the
// window is shifted left and the new frame copied into the tail, matching
// the teacher's preference for a pre-allocated scratch buffer over
// per-frame reallocation.
type RingBuffer struct {
	chunk int
	data  []float32 // len == chunk * windowChunks, oldest-to-newest
}

// NewRingBuffer allocates a zero-filled ring buffer of chunk*windowChunks
// samples.
func NewRingBuffer(chunk, windowChunks int) *RingBuffer {
	return &RingBuffer{
		chunk: chunk,
		data:  make([]float32, chunk*windowChunks),
	}
}

// Append shifts the window left by chunk samples and copies frame into the
// newly-opened tail. frame must have exactly chunk samples.
func (r *RingBuffer) Append(frame []float32) {
	n := len(r.data)
	c := r.chunk
	copy(r.data[0:n-c], r.data[c:n])
	copy(r.data[n-c:n], frame)
}

// Snapshot returns the current window, oldest-to-newest. The returned
// slice aliases internal storage and is only valid until the next Append.
func (r *RingBuffer) Snapshot() []float32 {
	return r.data
}

// Len returns the total number of samples held by the window.
func (r *RingBuffer) Len() int {
	return len(r.data)
}
