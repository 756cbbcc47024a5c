// Package backend delivers assembled bytecode either to the in-process VM or
// to a native toolchain that builds a standalone executable from it.
package backend

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/Urethramancer/stackasm/codegen"
)

// Interpreter runs bytecode to completion in the current process.
type Interpreter interface {
	Execute(code []byte) error
}

// Result describes a finished dispatch.
type Result struct {
	Mode Mode
	// Output is the executable written in compile mode.
	Output string
}

// Dispatcher routes bytecode to a backend. It handles one request at a time.
type Dispatcher struct {
	interp     Interpreter
	toolchain  Toolchain
	generator  *codegen.Generator
	scratchDir string
	outputDir  string
	moduleDir  string
	log        commonlog.Logger
	observer   Observer
	state      State
}

// State returns the current lifecycle state.
func (d *Dispatcher) State() State {
	return d.state
}

func (d *Dispatcher) transition(to State) {
	from := d.state
	d.state = to
	d.log.Debugf("%s -> %s", from, to)
	if d.observer != nil {
		d.observer(from, to)
	}
}

// Dispatch hands code to the backend selected by mode. name is the source
// file the code came from and names the executable in compile mode.
func (d *Dispatcher) Dispatch(code []byte, mode Mode, name string) (Result, error) {
	res := Result{Mode: mode}
	if mode != ModeRun && mode != ModeCompile {
		return res, fmt.Errorf("%w: %v", ErrInvalidMode, mode)
	}

	d.transition(Parsed)
	defer d.transition(Idle)

	if mode == ModeRun {
		d.transition(Interpreting)
		return res, d.interp.Execute(code)
	}

	output, err := d.compile(code, name)
	res.Output = output
	return res, err
}

func (d *Dispatcher) compile(code []byte, name string) (string, error) {
	d.transition(Rendering)

	src, err := d.generator.Render(code)
	if err != nil {
		return "", d.fail(err)
	}

	moduleDir := d.moduleDir
	if moduleDir == "" {
		moduleDir, err = FindModuleDir(".")
		if err != nil {
			return "", d.fail(err)
		}
	}

	output, err := d.outputPath(name)
	if err != nil {
		return "", d.fail(err)
	}

	scratch, err := AcquireScratch(d.scratchDir, "stackasm-")
	if err != nil {
		return "", d.fail(err)
	}
	defer d.release(scratch)

	d.transition(Invoking)
	d.log.Noticef("starting compilation of %s", output)
	err = d.build(scratch, src, d.generator.GoMod("stackasm-build", moduleDir), output)
	if err != nil {
		return "", d.fail(err)
	}

	d.transition(Succeeded)
	d.log.Noticef("compiled %s", output)
	return output, nil
}

func (d *Dispatcher) build(scratch *Scratch, src, mod, output string) error {
	if _, err := scratch.WriteFile("main.go", []byte(src)); err != nil {
		return err
	}
	if _, err := scratch.WriteFile("go.mod", []byte(mod)); err != nil {
		return err
	}
	return d.toolchain.Build(scratch.Dir, output)
}

func (d *Dispatcher) fail(err error) error {
	d.transition(Failed)
	d.log.Errorf("error compiling: %v", err)
	return err
}

// release never changes the outcome of a build; cleanup problems are only logged.
func (d *Dispatcher) release(scratch *Scratch) {
	if err := scratch.Release(); err != nil {
		d.log.Warningf("%v", err)
		return
	}
	d.log.Infof("cleaned artifacts in %s", scratch.Dir)
}

// outputPath places the executable for name in the output directory.
func (d *Dispatcher) outputPath(name string) (string, error) {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "program"
	}
	if runtime.GOOS == "windows" {
		base += ".exe"
	}

	dir, err := filepath.Abs(d.outputDir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	return filepath.Join(dir, base), nil
}

// ExitCode maps a dispatch result to a process status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
