// Package cli holds the setup shared by the commands.
package cli

import (
	"fmt"
	"os"

	"github.com/grimdork/climate/arg"
	"github.com/tliron/commonlog"
	"github.com/tliron/commonlog/simple"

	"github.com/Urethramancer/stackasm/backend"
	"github.com/Urethramancer/stackasm/codegen"
	"github.com/Urethramancer/stackasm/config"
	"github.com/Urethramancer/stackasm/vm"
)

// Exit statuses.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// LoadConfig reads the file at path, or the nearest stackasm.toml when path is empty.
func LoadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.FindAndLoad(".")
}

// ConfigureLogging sends log messages straight to standard error at the
// configured level. verbose raises it to at least info.
//
// The commands leave through atexit.Exit, which never flushes a buffered
// log writer, so the backend writes unbuffered.
func ConfigureLogging(cfg *config.Config, verbose bool) {
	verbosity := cfg.Run.Verbosity
	if verbose && verbosity < 1 {
		verbosity = 1
	}

	backend := simple.NewBackend()
	backend.Buffered = false
	commonlog.SetBackend(backend)
	commonlog.Configure(verbosity, nil)
}

// NewDispatcher builds a dispatcher from the configuration. outputDir
// overrides the configured output directory when set.
func NewDispatcher(cfg *config.Config, outputDir string) (*backend.Dispatcher, error) {
	linkage, err := cfg.Linkage()
	if err != nil {
		return nil, err
	}
	if outputDir == "" {
		outputDir = cfg.Toolchain.OutputDir
	}

	machine := vm.New(
		vm.MemorySize(cfg.VM.Memory),
		vm.MemoryLimit(cfg.VM.MemoryLimit),
		vm.StackSize(cfg.VM.Stack),
		vm.OnPrint(vm.WriterHook(os.Stdout)),
		vm.OnError(vm.WriterHook(os.Stderr)),
	)

	gen := codegen.New(linkage)
	return backend.DispatcherBuilder{}.
		WithInterpreter(machine).
		WithToolchain(backend.GoToolchain{
			Command: cfg.Toolchain.Command,
			Flags:   cfg.Toolchain.Flags,
		}).
		WithGenerator(gen).
		WithModuleDir(cfg.ModuleDir()).
		WithScratchDir(cfg.ScratchDir()).
		WithOutputDir(outputDir).
		Build(), nil
}

// Mode returns the mode named on the command line, or the configured default.
func Mode(cfg *config.Config, name string) (backend.Mode, error) {
	if name == "" {
		return cfg.Mode()
	}
	return backend.ParseMode(name)
}

// Usage reports a command line problem on standard error, followed by the
// help text, and returns ExitUsage.
func Usage(opt *arg.Options, err error) int {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
	}

	// PrintHelp only knows standard output.
	stdout := os.Stdout
	os.Stdout = os.Stderr
	defer func() { os.Stdout = stdout }()
	opt.PrintHelp()
	return ExitUsage
}
