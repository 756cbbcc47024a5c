package vm

import (
	"io"
	"math"
)

const (
	// DefaultMemorySize is the initial size of linear memory in bytes.
	DefaultMemorySize = 64 * 1024
	// DefaultMemoryLimit is the size linear memory may grow to.
	DefaultMemoryLimit = 256 * 1024 * 1024
	// DefaultStackSize is the maximum number of values on the data stack.
	DefaultStackSize = 1024

	// The first bytes of linear memory are never handed out, so 0 is never a valid pointer.
	reserved = 8
)

// Hook receives a span of the machine's linear memory. The span is only
// valid for the duration of the call; use ReadString to copy it out.
type Hook func(m *Machine, ptr, length uint32)

// Machine is the embedded stack machine.
type Machine struct {
	mem      []byte
	limit    uint64
	heap     uint32
	stack    []int32
	maxStack int

	// ip is the current read position and end the first byte past the code.
	ip  uint32
	end uint32

	onPrint Hook
	onError Hook

	// Running is true while a program executes.
	Running bool
}

// Option configures a Machine.
type Option func(*Machine)

// MemorySize sets the initial size of linear memory in bytes. Memory grows
// past it on demand, up to the limit.
func MemorySize(size int) Option {
	return func(m *Machine) {
		if size > reserved {
			m.mem = make([]byte, size)
		}
	}
}

// MemoryLimit caps the growth of linear memory. Allocations past it fail
// with ErrOutOfMemory.
func MemoryLimit(size int) Option {
	return func(m *Machine) {
		if size > reserved {
			m.limit = min(uint64(size), math.MaxUint32)
		}
	}
}

// StackSize sets the maximum depth of the data stack.
func StackSize(size int) Option {
	return func(m *Machine) {
		if size > 0 {
			m.maxStack = size
		}
	}
}

// OnPrint sets the hook receiving PRINT output.
func OnPrint(h Hook) Option {
	return func(m *Machine) {
		m.onPrint = h
	}
}

// OnError sets the hook receiving runtime error text.
func OnError(h Hook) Option {
	return func(m *Machine) {
		m.onError = h
	}
}

// New creates a machine. Without hooks, output is discarded.
func New(opts ...Option) *Machine {
	m := &Machine{
		limit:    DefaultMemoryLimit,
		heap:     reserved,
		maxStack: DefaultStackSize,
	}
	for _, o := range opts {
		o(m)
	}
	if m.mem == nil {
		m.mem = make([]byte, DefaultMemorySize)
	}
	if uint64(len(m.mem)) > m.limit {
		m.mem = m.mem[:m.limit:m.limit]
	}
	m.stack = make([]int32, 0, min(m.maxStack, 64))
	return m
}

// WriterHook returns a hook that copies each span to w followed by a newline.
func WriterHook(w io.Writer) Hook {
	return func(m *Machine, ptr, length uint32) {
		s, err := m.ReadString(ptr, length)
		if err != nil {
			return
		}
		io.WriteString(w, s+"\n")
	}
}

// Stack returns a copy of the data stack, bottom first.
func (m *Machine) Stack() []int32 {
	out := make([]int32, len(m.stack))
	copy(out, m.stack)
	return out
}
