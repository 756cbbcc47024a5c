// Package codegen renders Go programs that embed bytecode and hand it to the
// VM entry point, for building standalone executables.
package codegen

import (
	"fmt"
	"go/format"
	"strconv"
	"strings"
)

// DefaultConstName is the identifier of the embedded bytecode.
const DefaultConstName = "instructions"

const bytesPerLine = 12

// Generator renders host programs for one linkage.
type Generator struct {
	Linkage   Linkage
	ConstName string
	// BeforeRun and AfterRun are statements placed around the entry call.
	BeforeRun []string
	AfterRun  []string
}

// New creates a Generator for the given linkage.
func New(l Linkage) *Generator {
	return &Generator{
		Linkage:   l,
		ConstName: DefaultConstName,
	}
}

func (g *Generator) constName() string {
	if g.ConstName == "" {
		return DefaultConstName
	}
	return g.ConstName
}

// Fill builds the template values for code.
func (g *Generator) Fill(code []byte) Fill {
	name := g.constName()
	return Fill{
		Constants:       []string{ByteLiteral(name, code)},
		BeforeRun:       g.BeforeRun,
		AfterRun:        g.AfterRun,
		CompileCodeArgs: g.Linkage.args(name),
	}
}

// Render returns gofmt-formatted source of a main package running code.
func (g *Generator) Render(code []byte) (string, error) {
	src, err := Render(programTemplate(g.Linkage), g.Fill(code))
	if err != nil {
		return "", err
	}

	out, err := format.Source([]byte(src))
	if err != nil {
		return "", fmt.Errorf("generated program is not valid Go: %w", err)
	}
	return string(out), nil
}

// GoMod renders the go.mod of a scratch module that builds the generated
// program against the VM module found at vmDir.
func (g *Generator) GoMod(module, vmDir string) string {
	vmModule := strings.TrimSuffix(VMImport, "/vm")
	dir := vmDir
	if strings.ContainsAny(dir, " \t\"") {
		dir = strconv.Quote(dir)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "module %s\n\n", module)
	sb.WriteString("go 1.25\n\n")
	fmt.Fprintf(&sb, "require %s v0.0.0\n\n", vmModule)
	fmt.Fprintf(&sb, "replace %s => %s\n", vmModule, dir)
	return sb.String()
}

// ByteLiteral declares name as a byte slice holding code, one 0xNN literal per byte.
func ByteLiteral(name string, code []byte) string {
	if len(code) == 0 {
		return fmt.Sprintf("var %s = []byte{}", name)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "var %s = []byte{\n", name)
	for i := 0; i < len(code); i += bytesPerLine {
		line := code[i:min(i+bytesPerLine, len(code))]
		sb.WriteString("\t")
		for j, b := range line {
			if j > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "0x%02x,", b)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}
