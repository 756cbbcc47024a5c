package bytecode

// DefaultCapacity is the initial size of a Sink created with a non-positive capacity.
const DefaultCapacity = 1024

// Sink is an append-only byte buffer. Callers never see offsets; they append
// and finally take a copy of the written bytes.
type Sink struct {
	buf []byte
	n   int
}

// NewSink creates a Sink with the given initial capacity.
func NewSink(capacity int) *Sink {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Sink{buf: make([]byte, capacity)}
}

// Len returns the number of bytes written.
func (s *Sink) Len() int {
	return s.n
}

// Cap returns the size of the backing array.
func (s *Sink) Cap() int {
	return len(s.buf)
}

// grow makes room for need more bytes. The new capacity is the larger of
// double the current capacity and exactly what the pending write requires.
func (s *Sink) grow(need int) {
	if s.n+need <= len(s.buf) {
		return
	}

	size := max(len(s.buf)*2, s.n+need)
	buf := make([]byte, size)
	copy(buf, s.buf[:s.n])
	s.buf = buf
}

// WriteU8 appends a single byte.
func (s *Sink) WriteU8(b byte) {
	s.grow(1)
	s.buf[s.n] = b
	s.n++
}

// WriteI32 appends v as four little-endian bytes.
func (s *Sink) WriteI32(v int32) {
	s.grow(4)
	PutI32(s.buf[s.n:], v)
	s.n += 4
}

// Write appends p in one step. It never fails.
func (s *Sink) Write(p []byte) (int, error) {
	s.grow(len(p))
	copy(s.buf[s.n:], p)
	s.n += len(p)
	return len(p), nil
}

// Bytes returns a copy of the written bytes. The backing capacity is never exposed.
func (s *Sink) Bytes() []byte {
	out := make([]byte, s.n)
	copy(out, s.buf[:s.n])
	return out
}

// Reset discards the contents but keeps the capacity.
func (s *Sink) Reset() {
	s.n = 0
}
