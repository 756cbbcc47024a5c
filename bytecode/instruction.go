package bytecode

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOpcode is returned by Decode for a tag outside the opcode table.
	ErrUnknownOpcode = errors.New("unknown opcode")
	// ErrTruncated is returned by Decode when an operand runs past the end of the code.
	ErrTruncated = errors.New("truncated instruction")
)

// Instruction is one decoded or to-be-encoded instruction.
type Instruction struct {
	Op  Opcode
	Arg int32
}

// Size returns the encoded size of the instruction.
func (ins Instruction) Size() int {
	return ins.Op.Size()
}

func (ins Instruction) String() string {
	if ins.Op.Operand() == OperandInt32 {
		return fmt.Sprintf("%s %d", ins.Op, ins.Arg)
	}
	return ins.Op.String()
}

// Encode appends the instruction to s. Room for the whole instruction is
// reserved before the tag is written.
func (ins Instruction) Encode(s *Sink) {
	s.grow(ins.Size())
	s.WriteU8(byte(ins.Op))
	if ins.Op.Operand() == OperandInt32 {
		s.WriteI32(ins.Arg)
	}
}

// Decode reads the instruction starting at pc and returns it with the offset
// of the next instruction.
func Decode(code []byte, pc int) (Instruction, int, error) {
	if pc < 0 || pc >= len(code) {
		return Instruction{}, pc, fmt.Errorf("offset %d: %w", pc, ErrTruncated)
	}

	op := Opcode(code[pc])
	if !op.Valid() {
		return Instruction{}, pc, fmt.Errorf("offset %d: %w 0x%02x", pc, ErrUnknownOpcode, byte(op))
	}

	ins := Instruction{Op: op}
	next := pc + op.Size()
	if next > len(code) {
		return ins, pc, fmt.Errorf("offset %d: %s: %w", pc, op, ErrTruncated)
	}
	if op.Operand() == OperandInt32 {
		ins.Arg = I32(code[pc+1:])
	}
	return ins, next, nil
}

// Encode assembles a list of instructions into a fresh byte slice.
func Encode(list []Instruction) []byte {
	s := NewSink(0)
	for _, ins := range list {
		ins.Encode(s)
	}
	return s.Bytes()
}
