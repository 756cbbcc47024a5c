package backend

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tebeka/atexit"
)

// Scratch is a temporary directory owned by one compile invocation. It is
// removed by Release, or by atexit handlers if the process exits first.
type Scratch struct {
	Dir string

	exitID    atexit.HandlerID
	cancel    sync.Once
	cancelErr error
	removed   sync.Once
	err       error
}

// AcquireScratch creates a fresh directory under root (os.TempDir when empty).
// Every call gets its own directory, so concurrent invocations never collide.
func AcquireScratch(root, prefix string) (*Scratch, error) {
	if root != "" {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("create scratch root %s: %w", root, err)
		}
	}

	dir, err := os.MkdirTemp(root, prefix)
	if err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}

	s := &Scratch{Dir: dir}
	s.exitID = atexit.Register(s.remove)
	return s, nil
}

// WriteFile writes data to name inside the scratch directory.
func (s *Scratch) WriteFile(name string, data []byte) (string, error) {
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// Release removes the directory and drops its exit handler. Only the first
// call does any work; later calls return the same result.
func (s *Scratch) Release() error {
	s.cancel.Do(func() {
		if err := s.exitID.Cancel(); err != nil {
			s.cancelErr = fmt.Errorf("scratch directory %s: %w", s.Dir, err)
		}
	})
	s.remove()
	return errors.Join(s.cancelErr, s.err)
}

// remove must not touch the atexit registry: it runs from inside the atexit handlers.
func (s *Scratch) remove() {
	s.removed.Do(func() {
		if err := os.RemoveAll(s.Dir); err != nil {
			s.err = fmt.Errorf("remove scratch directory %s: %w", s.Dir, err)
		}
	})
}
