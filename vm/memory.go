package vm

import (
	"fmt"
	"unicode/utf8"
)

const align = 8

func alignUp(n uint32) uint32 {
	return (n + align - 1) &^ (align - 1)
}

// Memory exposes the machine's linear memory. Alloc may move it, so the
// slice is only current until the next allocation.
func (m *Machine) Memory() []byte {
	return m.mem
}

// Alloc reserves n bytes of linear memory and returns their address. Memory
// at least doubles when it runs out, up to the limit; addresses stay valid.
func (m *Machine) Alloc(n uint32) (uint32, error) {
	need := uint64(m.heap) + (uint64(n)+align-1)&^(align-1)
	if need > uint64(len(m.mem)) {
		if err := m.grow(need); err != nil {
			return 0, fmt.Errorf("alloc %d bytes: %w", n, err)
		}
	}
	ptr := m.heap
	m.heap = uint32(need)
	return ptr, nil
}

func (m *Machine) grow(need uint64) error {
	if need > m.limit {
		return ErrOutOfMemory
	}
	size := min(max(uint64(len(m.mem))*2, need), m.limit)
	mem := make([]byte, size)
	copy(mem, m.mem)
	m.mem = mem
	return nil
}

// Free releases a block obtained from Alloc. Blocks must be freed in reverse
// order of allocation; anything else is kept until the heap unwinds past it.
func (m *Machine) Free(ptr, n uint32) {
	if ptr >= reserved && ptr+alignUp(n) == m.heap {
		m.heap = ptr
	}
}

// span returns the bytes at [ptr, ptr+length) or an error if out of bounds.
func (m *Machine) span(ptr, length uint32) ([]byte, error) {
	end := uint64(ptr) + uint64(length)
	if end > uint64(len(m.mem)) {
		return nil, fmt.Errorf("span %d+%d: %w", ptr, length, ErrOutOfBounds)
	}
	return m.mem[ptr:end], nil
}

// ReadString decodes the span as UTF-8 and returns a copy.
func (m *Machine) ReadString(ptr, length uint32) (string, error) {
	b, err := m.span(ptr, length)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("span %d+%d: %w", ptr, length, ErrInvalidText)
	}
	return string(b), nil
}

// WriteBytes copies b into a freshly allocated block and returns its address.
func (m *Machine) WriteBytes(b []byte) (uint32, error) {
	ptr, err := m.Alloc(uint32(len(b)))
	if err != nil {
		return 0, err
	}
	copy(m.mem[ptr:], b)
	return ptr, nil
}

// emit hands text to a hook through a temporary block of linear memory.
func (m *Machine) emit(h Hook, text string) error {
	if h == nil {
		return nil
	}
	ptr, err := m.WriteBytes([]byte(text))
	if err != nil {
		return err
	}
	h(m, ptr, uint32(len(text)))
	m.Free(ptr, uint32(len(text)))
	return nil
}
