package backend

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/Urethramancer/stackasm/codegen"
)

// ErrModuleNotFound is returned when no enclosing checkout of the VM module exists.
var ErrModuleNotFound = errors.New("stackasm module not found")

// ModulePath is the module generated programs link against.
var ModulePath = strings.TrimSuffix(codegen.VMImport, "/vm")

// FindModuleDir walks up from start to the directory whose go.mod declares ModulePath.
func FindModuleDir(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for {
		data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil && modfile.ModulePath(data) == ModulePath {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w above %s", ErrModuleNotFound, start)
		}
		dir = parent
	}
}
