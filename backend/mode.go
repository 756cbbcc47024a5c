package backend

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMode is returned for an unknown mode name.
var ErrInvalidMode = errors.New("invalid mode")

// Mode selects the backend a request is delivered to.
type Mode int

const (
	// ModeRun interprets the bytecode in-process.
	ModeRun Mode = iota
	// ModeCompile builds a standalone executable embedding the bytecode.
	ModeCompile
)

func (m Mode) String() string {
	switch m {
	case ModeRun:
		return "run"
	case ModeCompile:
		return "compile"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps a mode name to a Mode. An empty name selects ModeRun.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "run":
		return ModeRun, nil
	case "compile":
		return ModeCompile, nil
	}
	return 0, fmt.Errorf("%w: %q (want run or compile)", ErrInvalidMode, s)
}
