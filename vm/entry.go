package vm

import (
	"os"
	"unsafe"
)

// ExecuteBytecode runs code on a fresh machine that prints to standard output
// and reports errors on standard error. It returns a process exit status.
// Generated programs use this entry point for the slice calling convention.
func ExecuteBytecode(code []byte) int {
	m := New(OnPrint(WriterHook(os.Stdout)), OnError(WriterHook(os.Stderr)))
	if err := m.Execute(code); err != nil {
		return 1
	}
	return 0
}

// ExecuteBytecodePtr is the pointer and length form of ExecuteBytecode.
func ExecuteBytecodePtr(code *byte, length int) int {
	if code == nil || length <= 0 {
		return ExecuteBytecode(nil)
	}
	return ExecuteBytecode(unsafe.Slice(code, length))
}
