// Package clitest runs command entry points with their standard streams captured.
package clitest

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

// Capture runs fn with os.Stdout and os.Stderr redirected and returns what it
// wrote to each. The streams are restored before Capture returns.
func Capture(t testing.TB, fn func()) (stdout, stderr string) {
	t.Helper()

	outR, outW, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	outC := drain(outR)
	errC := drain(errR)

	oldOut, oldErr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = outW, errW
	defer func() {
		os.Stdout, os.Stderr = oldOut, oldErr
	}()

	fn()

	outW.Close()
	errW.Close()
	return <-outC, <-errC
}

func drain(r *os.File) <-chan string {
	c := make(chan string, 1)
	go func() {
		defer r.Close()
		b, _ := io.ReadAll(r)
		c <- string(b)
	}()
	return c
}

// WriteFile writes data to name inside dir and returns the path.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
