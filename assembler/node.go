package assembler

import "github.com/Urethramancer/stackasm/bytecode"

// Node is one recognised source line.
type Node struct {
	Line        int
	Instruction bytecode.Instruction
}
