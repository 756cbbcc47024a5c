package assembler

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Urethramancer/stackasm/bytecode"
)

var (
	reMnemonic = regexp.MustCompile(`\w+`)
	reDecimal  = regexp.MustCompile(`^(\d+)`)
)

// splitLine strips a trailing comment and returns the first word run of the
// line and the untrimmed text after it. ok is false when the line holds no word.
func splitLine(line string) (mnemonic, args string, ok bool) {
	if commentIndex := strings.IndexRune(line, ';'); commentIndex != -1 {
		line = line[:commentIndex]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", "", false
	}

	loc := reMnemonic.FindStringIndex(line)
	if loc == nil {
		return "", "", false
	}
	return line[loc[0]:loc[1]], line[loc[1]:], true
}

// parseInstruction applies the emission rule of op to the raw argument text.
// Nothing is encoded here, so a failing line never leaves partial output.
func parseInstruction(op bytecode.Opcode, args string) (bytecode.Instruction, error) {
	ins := bytecode.Instruction{Op: op}
	switch op.Operand() {
	case bytecode.OperandInt32:
		v, err := parseOperand(args)
		if err != nil {
			return ins, err
		}
		ins.Arg = v
	case bytecode.OperandNone:
	}
	return ins, nil
}

// parseOperand takes the leading unsigned decimal run of the trimmed argument.
func parseOperand(args string) (int32, error) {
	s := strings.TrimSpace(args)
	if s == "" {
		return 0, ErrMissingOperand
	}

	m := reDecimal.FindStringSubmatch(s)
	if m == nil {
		return 0, &OperandError{Text: s, Err: ErrMalformedOperand}
	}

	v, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil || v > math.MaxInt32 {
		return 0, &OperandError{Text: m[1], Err: ErrOperandRange}
	}
	return int32(v), nil
}
