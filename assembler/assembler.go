package assembler

import (
	"fmt"
	"os"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/Urethramancer/stackasm/bytecode"
)

// Assembler holds the state for the assembly process.
type Assembler struct {
	capacity int
	log      commonlog.Logger
	warnings []Warning
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithCapacity sets the initial size of the output buffer.
func WithCapacity(n int) Option {
	return func(asm *Assembler) {
		asm.capacity = n
	}
}

// WithLogger replaces the default "stackasm.assembler" logger.
func WithLogger(log commonlog.Logger) Option {
	return func(asm *Assembler) {
		asm.log = log
	}
}

// New creates a new Assembler instance.
func New(opts ...Option) *Assembler {
	asm := &Assembler{
		capacity: bytecode.DefaultCapacity,
		log:      commonlog.GetLogger("stackasm.assembler"),
	}
	for _, o := range opts {
		o(asm)
	}
	return asm
}

// Assemble turns source text into bytecode. Unknown mnemonics are skipped and
// reported through Warnings. A missing or malformed operand aborts the whole
// run and no bytes are returned.
func (asm *Assembler) Assemble(src string) ([]byte, error) {
	asm.warnings = nil
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")

	nodes, err := asm.parseLines(lines)
	if err != nil {
		return nil, err
	}

	sink := bytecode.NewSink(asm.capacity)
	for _, n := range nodes {
		n.Instruction.Encode(sink)
	}
	return sink.Bytes(), nil
}

// AssembleFile reads and assembles the file at path.
func (asm *Assembler) AssembleFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return asm.Assemble(string(data))
}

// Warnings returns the diagnostics produced by the last call to Assemble.
func (asm *Assembler) Warnings() []Warning {
	return asm.warnings
}

// parseLines converts raw source lines into encodable nodes.
func (asm *Assembler) parseLines(lines []string) ([]Node, error) {
	var nodes []Node
	for i, line := range lines {
		mnemonic, args, ok := splitLine(line)
		if !ok {
			continue
		}

		op, known := bytecode.Lookup(mnemonic)
		if !known {
			w := Warning{Line: i + 1, Mnemonic: mnemonic}
			asm.warnings = append(asm.warnings, w)
			asm.log.Warningf("%s", w)
			continue
		}

		ins, err := parseInstruction(op, args)
		if err != nil {
			return nil, &ParseError{Line: i + 1, Mnemonic: mnemonic, Err: err}
		}
		nodes = append(nodes, Node{Line: i + 1, Instruction: ins})
	}
	return nodes, nil
}
