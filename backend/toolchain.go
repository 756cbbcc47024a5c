package backend

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Toolchain turns the Go module in dir into an executable at output.
// Build blocks until the compiler exits.
type Toolchain interface {
	Build(dir, output string) error
}

// ToolchainError reports a failed compiler invocation.
type ToolchainError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *ToolchainError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s: %v\n%s", e.Command, e.Err, e.Stderr)
}

func (e *ToolchainError) Unwrap() error {
	return e.Err
}

// ExitCode returns the compiler's exit status, or -1 if it never ran.
func (e *ToolchainError) ExitCode() int {
	var ee *exec.ExitError
	if errors.As(e.Err, &ee) {
		return ee.ExitCode()
	}
	return -1
}

// GoToolchain builds with `go build`.
type GoToolchain struct {
	// Command is the go binary; "go" when empty.
	Command string
	// Flags are extra build flags such as -trimpath.
	Flags []string
	// Env is appended to the current environment.
	Env []string
}

func (tc GoToolchain) command() string {
	if tc.Command == "" {
		return "go"
	}
	return tc.Command
}

// Args returns the argument list passed to the go command.
func (tc GoToolchain) Args(output string) []string {
	args := []string{"build", "-mod=mod"}
	args = append(args, tc.Flags...)
	return append(args, "-o", output, ".")
}

// Build runs the go command inside dir.
func (tc GoToolchain) Build(dir, output string) error {
	output, err := filepath.Abs(output)
	if err != nil {
		return &ToolchainError{Command: tc.command(), Err: err}
	}

	args := tc.Args(output)
	cmd := exec.Command(tc.command(), args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), tc.Env...)

	var stderr bytes.Buffer
	cmd.Stdout = &stderr
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &ToolchainError{
			Command: tc.command() + " " + strings.Join(args, " "),
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}
	return nil
}
