package bytecode

import (
	"fmt"
	"strings"
)

// Opcode is the one-byte tag that starts every encoded instruction.
type Opcode byte

// Opcodes. Tags are part of the wire format and must never be reused.
const (
	OpLoad  Opcode = 0x01 // LOAD <int32>
	OpAdd   Opcode = 0x02 // ADD
	OpPrint Opcode = 0x03 // PRINT
	OpEnd   Opcode = 0x04 // END
)

// OperandKind describes the operand shape that follows a tag.
type OperandKind int

const (
	// OperandNone means the tag stands alone.
	OperandNone OperandKind = iota
	// OperandInt32 is a signed 32-bit little-endian integer.
	OperandInt32
)

// Width returns the number of operand bytes for the kind.
func (k OperandKind) Width() int {
	switch k {
	case OperandInt32:
		return 4
	default:
		return 0
	}
}

// Opcodes returns every defined opcode in tag order.
func Opcodes() []Opcode {
	return []Opcode{OpLoad, OpAdd, OpPrint, OpEnd}
}

// Valid reports whether op is a defined opcode.
func (op Opcode) Valid() bool {
	switch op {
	case OpLoad, OpAdd, OpPrint, OpEnd:
		return true
	}
	return false
}

// String returns the canonical mnemonic.
func (op Opcode) String() string {
	switch op {
	case OpLoad:
		return "LOAD"
	case OpAdd:
		return "ADD"
	case OpPrint:
		return "PRINT"
	case OpEnd:
		return "END"
	}
	return fmt.Sprintf("OP(0x%02x)", byte(op))
}

// Operand returns the operand shape of op.
func (op Opcode) Operand() OperandKind {
	switch op {
	case OpLoad:
		return OperandInt32
	default:
		return OperandNone
	}
}

// Width returns the operand width in bytes.
func (op Opcode) Width() int {
	return op.Operand().Width()
}

// Size returns the full encoded size of an instruction using op.
func (op Opcode) Size() int {
	return 1 + op.Width()
}

// Lookup resolves a mnemonic to its opcode. Matching is case-insensitive.
func Lookup(mnemonic string) (Opcode, bool) {
	switch strings.ToUpper(mnemonic) {
	case "LOAD":
		return OpLoad, true
	case "ADD":
		return OpAdd, true
	case "PRINT":
		return OpPrint, true
	case "END":
		return OpEnd, true
	}
	return 0, false
}
