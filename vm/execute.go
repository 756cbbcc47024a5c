package vm

import (
	"fmt"

	"github.com/Urethramancer/stackasm/bytecode"
)

// Execute copies code into linear memory and runs it to completion.
func (m *Machine) Execute(code []byte) error {
	ptr, err := m.WriteBytes(code)
	if err != nil {
		return m.fail(0, 0, err)
	}
	defer m.Free(ptr, uint32(len(code)))
	return m.ExecuteAt(ptr, uint32(len(code)))
}

// ExecuteAt runs length bytes of code already present in linear memory at ptr.
// Execution stops at END, at the end of the code, or at the first error. Errors
// are also reported through the error hook.
func (m *Machine) ExecuteAt(ptr, length uint32) error {
	if _, err := m.span(ptr, length); err != nil {
		return m.fail(0, 0, err)
	}

	m.stack = m.stack[:0]
	m.ip = ptr
	m.end = ptr + length
	m.Running = true
	defer func() { m.Running = false }()

	for m.Running && m.ip < m.end {
		start := m.ip
		op := bytecode.Opcode(m.mem[m.ip])
		m.ip++

		if err := m.step(op); err != nil {
			return m.fail(start-ptr, op, err)
		}
	}
	return nil
}

// step executes a single fetched opcode.
func (m *Machine) step(op bytecode.Opcode) error {
	switch op {
	case bytecode.OpLoad:
		v, err := m.readI32()
		if err != nil {
			return err
		}
		return m.push(v)

	case bytecode.OpAdd:
		a, err := m.pop()
		if err != nil {
			return err
		}
		b, err := m.pop()
		if err != nil {
			return err
		}
		return m.push(a + b)

	case bytecode.OpPrint:
		if len(m.stack) == 0 {
			return ErrStackUnderflow
		}
		top := m.stack[len(m.stack)-1]
		return m.emit(m.onPrint, fmt.Sprintf("[STD_OUT]: %d", top))

	case bytecode.OpEnd:
		m.Running = false
		return nil

	default:
		return ErrUnknownOpcode
	}
}

func (m *Machine) readI32() (int32, error) {
	if m.end-m.ip < 4 {
		return 0, ErrUnexpectedEOF
	}
	v := bytecode.I32(m.mem[m.ip:])
	m.ip += 4
	return v, nil
}

func (m *Machine) push(v int32) error {
	if len(m.stack) >= m.maxStack {
		return ErrStackOverflow
	}
	m.stack = append(m.stack, v)
	return nil
}

func (m *Machine) pop() (int32, error) {
	if len(m.stack) == 0 {
		return 0, ErrStackUnderflow
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v, nil
}

// fail wraps err and reports it through the error hook.
func (m *Machine) fail(offset uint32, op bytecode.Opcode, err error) error {
	re := &RuntimeError{Offset: offset, Op: op, Err: err}
	// The hook is best effort; the error is returned either way.
	_ = m.emit(m.onError, re.Error())
	return re
}
