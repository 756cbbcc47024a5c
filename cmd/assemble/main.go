package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/grimdork/climate/arg"
	"github.com/tebeka/atexit"

	"github.com/Urethramancer/stackasm/assembler"
	"github.com/Urethramancer/stackasm/backend"
	"github.com/Urethramancer/stackasm/internal/cli"
)

var errMissingInput = errors.New("missing input file")

func main() {
	atexit.Exit(run(os.Args[1:]))
}

// run takes the arguments after the program name and returns the exit status.
func run(args []string) int {
	opt := arg.New("assemble")
	opt.SetDefaultHelp(true)
	opt.SetOption(arg.GroupDefault, "o", "output", "Directory for compiled executables.", "", false, arg.VarString, nil)
	opt.SetOption(arg.GroupDefault, "c", "config", "Path to a stackasm.toml file.", "", false, arg.VarString, nil)
	opt.SetOption(arg.GroupDefault, "e", "emit", "Also write the bytecode to this file.", "", false, arg.VarString, nil)
	opt.SetOption(arg.GroupDefault, "v", "verbose", "Show progress messages.", false, false, arg.VarBool, nil)
	opt.SetPositional("INPUT", "Assembly source file.", "", true, arg.VarString)
	opt.SetPositional("MODE", "run or compile.", "", false, arg.VarString)

	if err := opt.Parse(args); err != nil {
		if errors.Is(err, arg.ErrNoArgs) {
			err = errMissingInput
		}
		return cli.Usage(opt, err)
	}

	input := opt.GetPosString("INPUT")
	if input == "" {
		return cli.Usage(opt, errMissingInput)
	}

	cfg, err := cli.LoadConfig(opt.GetString("config"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.ExitError
	}
	cli.ConfigureLogging(cfg, opt.GetBool("verbose"))

	mode, err := cli.Mode(cfg, opt.GetPosString("MODE"))
	if err != nil {
		return cli.Usage(opt, err)
	}

	asm := assembler.New(assembler.WithCapacity(cfg.Assembler.Capacity))
	code, err := asm.AssembleFile(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", input, err)
		return cli.ExitError
	}

	if emit := opt.GetString("emit"); emit != "" {
		if err := os.WriteFile(emit, code, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing bytecode: %v\n", err)
			return cli.ExitError
		}
	}

	d, err := cli.NewDispatcher(cfg, opt.GetString("output"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.ExitError
	}

	res, err := d.Dispatch(code, mode, input)
	if err == nil && mode == backend.ModeCompile {
		fmt.Printf("Executable written to %s\n", res.Output)
	}
	return backend.ExitCode(err)
}
