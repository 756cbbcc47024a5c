package backend

import (
	"os"

	"github.com/tliron/commonlog"

	"github.com/Urethramancer/stackasm/codegen"
	"github.com/Urethramancer/stackasm/vm"
)

// DefaultOutputDir receives compiled executables.
const DefaultOutputDir = "target"

// Observer is told about every state change.
type Observer func(from, to State)

// DispatcherBuilder creates a Dispatcher.
type DispatcherBuilder struct {
	interp     Interpreter
	toolchain  Toolchain
	generator  *codegen.Generator
	scratchDir string
	outputDir  string
	moduleDir  string
	log        commonlog.Logger
	observer   Observer
}

// WithInterpreter sets the in-process backend.
func (b DispatcherBuilder) WithInterpreter(i Interpreter) DispatcherBuilder {
	b.interp = i
	return b
}

// WithToolchain sets the compiler used in compile mode.
func (b DispatcherBuilder) WithToolchain(t Toolchain) DispatcherBuilder {
	b.toolchain = t
	return b
}

// WithGenerator sets the host program generator.
func (b DispatcherBuilder) WithGenerator(g *codegen.Generator) DispatcherBuilder {
	b.generator = g
	return b
}

// WithScratchDir sets the parent of scratch directories.
func (b DispatcherBuilder) WithScratchDir(dir string) DispatcherBuilder {
	b.scratchDir = dir
	return b
}

// WithOutputDir sets where executables are written.
func (b DispatcherBuilder) WithOutputDir(dir string) DispatcherBuilder {
	b.outputDir = dir
	return b
}

// WithModuleDir sets the checkout generated programs build against.
// When unset it is searched for upwards from the working directory.
func (b DispatcherBuilder) WithModuleDir(dir string) DispatcherBuilder {
	b.moduleDir = dir
	return b
}

// WithLogger replaces the "stackasm.backend" logger.
func (b DispatcherBuilder) WithLogger(log commonlog.Logger) DispatcherBuilder {
	b.log = log
	return b
}

// WithObserver registers a callback for state changes.
func (b DispatcherBuilder) WithObserver(o Observer) DispatcherBuilder {
	b.observer = o
	return b
}

// Build creates a dispatcher.
func (b DispatcherBuilder) Build() *Dispatcher {
	d := &Dispatcher{
		interp:     b.interp,
		toolchain:  b.toolchain,
		generator:  b.generator,
		scratchDir: b.scratchDir,
		outputDir:  b.outputDir,
		moduleDir:  b.moduleDir,
		log:        b.log,
		observer:   b.observer,
	}

	if d.interp == nil {
		d.interp = vm.New(
			vm.OnPrint(vm.WriterHook(os.Stdout)),
			vm.OnError(vm.WriterHook(os.Stderr)),
		)
	}
	if d.toolchain == nil {
		d.toolchain = GoToolchain{}
	}
	if d.generator == nil {
		d.generator = codegen.New(codegen.LinkagePointer)
	}
	if d.outputDir == "" {
		d.outputDir = DefaultOutputDir
	}
	if d.log == nil {
		d.log = commonlog.GetLogger("stackasm.backend")
	}
	return d
}
