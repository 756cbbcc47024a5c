package assembler

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingOperand means an operand-bearing instruction had no argument.
	ErrMissingOperand = errors.New("argument missing")
	// ErrMalformedOperand means the argument does not start with a decimal number.
	ErrMalformedOperand = errors.New("bad usage, expected an unsigned decimal integer")
	// ErrOperandRange means the number does not fit a signed 32-bit operand.
	ErrOperandRange = errors.New("value out of range for a 32-bit operand")
)

// OperandError carries the offending argument text.
type OperandError struct {
	Text string
	Err  error
}

func (e *OperandError) Error() string {
	return fmt.Sprintf("%q: %v", e.Text, e.Err)
}

func (e *OperandError) Unwrap() error {
	return e.Err
}

// ParseError is fatal: it aborts assembly of the whole input.
type ParseError struct {
	Line     int
	Mnemonic string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Mnemonic, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Warning reports a line that was skipped because its mnemonic is unknown.
type Warning struct {
	Line     int
	Mnemonic string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: invalid op %q, skipping", w.Line, w.Mnemonic)
}
