package vm

import (
	"errors"
	"fmt"

	"github.com/Urethramancer/stackasm/bytecode"
)

var (
	// ErrUnknownOpcode means a tag outside the opcode table was fetched.
	ErrUnknownOpcode = errors.New("unknown byte code")
	// ErrUnexpectedEOF means an operand ran past the end of the code.
	ErrUnexpectedEOF = errors.New("unexpected end of file")
	// ErrStackUnderflow means an instruction needed more values than the stack holds.
	ErrStackUnderflow = errors.New("insufficient arguments")
	// ErrStackOverflow means the data stack is full.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrOutOfMemory means linear memory is exhausted.
	ErrOutOfMemory = errors.New("out of linear memory")
	// ErrOutOfBounds means a span lies outside linear memory.
	ErrOutOfBounds = errors.New("address out of bounds")
	// ErrInvalidText means a span handed to a hook is not valid UTF-8.
	ErrInvalidText = errors.New("invalid UTF-8 text")
)

// RuntimeError is returned when a program fails inside the machine.
type RuntimeError struct {
	// Offset is the position of the failing instruction relative to the start of the code.
	Offset uint32
	Op     bytecode.Opcode
	Err    error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("Error during VM execution: [VmError]: %v", e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}
