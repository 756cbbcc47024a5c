package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/grimdork/climate/arg"
	"github.com/tebeka/atexit"

	"github.com/Urethramancer/stackasm/disassembler"
	"github.com/Urethramancer/stackasm/internal/cli"
)

var errMissingInput = errors.New("missing input file")

func main() {
	atexit.Exit(run(os.Args[1:]))
}

// run takes the arguments after the program name and returns the exit status.
func run(args []string) int {
	opt := arg.New("disasm")
	opt.SetDefaultHelp(true)
	opt.SetOption(arg.GroupDefault, "a", "addresses", "Show offsets and raw bytes.", false, false, arg.VarBool, nil)
	opt.SetPositional("INPUT", "Bytecode file.", "", true, arg.VarString)
	opt.SetPositional("OUTPUT", "Listing file; standard output when omitted.", "", false, arg.VarString)

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

	// Read the bytecode as is.
	code, err := os.ReadFile(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
		return cli.ExitError
	}

	text := disassembler.DisassembleWith(code, disassembler.Options{
		Addresses: opt.GetBool("addresses"),
	})

	output := opt.GetPosString("OUTPUT")
	if output == "" {
		fmt.Print(text)
		return cli.ExitOK
	}

	if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
		return cli.ExitError
	}
	fmt.Printf("Disassembly written to %s\n", output)
	return cli.ExitOK
}
