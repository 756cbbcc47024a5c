package codegen

import (
	"fmt"
	"strings"
)

// Linkage is the calling convention used to hand bytecode to the VM entry point.
type Linkage int

const (
	// LinkagePointer passes a pointer to the first byte and a length.
	LinkagePointer Linkage = iota
	// LinkageSlice passes a reference to the whole constant.
	LinkageSlice
)

func (l Linkage) String() string {
	switch l {
	case LinkagePointer:
		return "pointer"
	case LinkageSlice:
		return "slice"
	}
	return fmt.Sprintf("Linkage(%d)", int(l))
}

// ParseLinkage maps a configuration value to a Linkage. Empty selects the pointer form.
func ParseLinkage(s string) (Linkage, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pointer", "ptr":
		return LinkagePointer, nil
	case "slice", "reference", "ref":
		return LinkageSlice, nil
	}
	return 0, fmt.Errorf("unknown linkage %q (want pointer or slice)", s)
}

// entry returns the qualified VM function called by the generated program.
func (l Linkage) entry() string {
	if l == LinkageSlice {
		return "vm.ExecuteBytecode"
	}
	return "vm.ExecuteBytecodePtr"
}

// args renders the argument list passed to the entry point for the named constant.
func (l Linkage) args(name string) string {
	if l == LinkageSlice {
		return name
	}
	return fmt.Sprintf("unsafe.SliceData(%s), len(%s)", name, name)
}

// imports lists the packages the generated program needs besides the VM.
func (l Linkage) imports() []string {
	if l == LinkageSlice {
		return []string{"os"}
	}
	return []string{"os", "unsafe"}
}
