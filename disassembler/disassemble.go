// Package disassembler turns bytecode back into assembler source.
package disassembler

import (
	"fmt"
	"strings"

	"github.com/Urethramancer/stackasm/bytecode"
)

// Instruction represents a single decoded instruction at a specific address.
type Instruction struct {
	Address     int
	Instruction bytecode.Instruction
	Size        int
	IsCode      bool // reached before END
}

// Mnemonic returns the lower-case name of the instruction.
func (inst Instruction) Mnemonic() string {
	return strings.ToLower(inst.Instruction.Op.String())
}

// Operands returns the operand text, or "" for instructions without one.
func (inst Instruction) Operands() string {
	if inst.Instruction.Op.Operand() == bytecode.OperandNone {
		return ""
	}
	return fmt.Sprintf("%d", inst.Instruction.Arg)
}

// Sweep decodes code from the start until it runs out or meets a byte that is
// not an instruction. Instructions after the first END are marked as
// unreachable. The returned offset is where decoding stopped.
func Sweep(code []byte) ([]Instruction, int) {
	var list []Instruction
	reachable := true
	pc := 0
	for pc < len(code) {
		ins, next, err := bytecode.Decode(code, pc)
		if err != nil {
			break
		}

		list = append(list, Instruction{
			Address:     pc,
			Instruction: ins,
			Size:        next - pc,
			IsCode:      reachable,
		})
		if ins.Op == bytecode.OpEnd {
			reachable = false
		}
		pc = next
	}
	return list, pc
}

// Disassemble returns code as assembler source. It cannot fail: bytes that do
// not decode, and everything following them, are listed as commented data
// after a comment naming the decode error.
func Disassemble(code []byte) string {
	return DisassembleWith(code, Options{})
}

// Options adjusts the listing.
type Options struct {
	// Addresses prefixes each line with its offset and raw bytes.
	Addresses bool
}

// DisassembleWith is Disassemble with options.
func DisassembleWith(code []byte, opt Options) string {
	if len(code) == 0 {
		return ""
	}

	list, stop := Sweep(code)

	var out strings.Builder
	deadCode := false
	for _, inst := range list {
		if !inst.IsCode && !deadCode {
			out.WriteString("; unreachable\n")
			deadCode = true
		}

		if opt.Addresses {
			fmt.Fprintf(&out, "; %04X: %s\n", inst.Address, hexBytes(code[inst.Address:inst.Address+inst.Size]))
		}

		if ops := inst.Operands(); ops != "" {
			fmt.Fprintf(&out, "    %-8s %s\n", inst.Mnemonic(), ops)
		} else {
			fmt.Fprintf(&out, "    %s\n", inst.Mnemonic())
		}
	}

	if stop < len(code) {
		_, _, err := bytecode.Decode(code, stop)
		fmt.Fprintf(&out, "; %v\n", err)
		out.WriteString(formatData(code[stop:], stop))
	}

	return out.String()
}
