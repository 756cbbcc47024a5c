// Package config handles stackasm.toml settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Urethramancer/stackasm/backend"
	"github.com/Urethramancer/stackasm/bytecode"
	"github.com/Urethramancer/stackasm/codegen"
	"github.com/Urethramancer/stackasm/vm"
)

// FileName is the name searched for by FindAndLoad.
const FileName = "stackasm.toml"

// Config represents a stackasm.toml file.
type Config struct {
	Assembler Assembler `toml:"assembler"`
	VM        VM        `toml:"vm"`
	Toolchain Toolchain `toml:"toolchain"`
	Run       Run       `toml:"run"`

	// Dir is the directory containing the file (set at load time).
	Dir string `toml:"-"`
}

// Assembler configures the byte sink.
type Assembler struct {
	Capacity int `toml:"capacity"`
}

// VM sizes the interpreter.
type VM struct {
	Memory      int `toml:"memory"`
	MemoryLimit int `toml:"memory-limit"`
	Stack       int `toml:"stack"`
}

// Toolchain configures compile mode.
type Toolchain struct {
	Command    string   `toml:"command"`
	Flags      []string `toml:"flags"`
	ModuleDir  string   `toml:"module-dir"`
	OutputDir  string   `toml:"output-dir"`
	ScratchDir string   `toml:"scratch-dir"`
	Linkage    string   `toml:"linkage"`
}

// Run holds command defaults.
type Run struct {
	Mode      string `toml:"mode"`
	Verbosity int    `toml:"verbosity"`
}

// Default returns the settings used when no file exists.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Assembler.Capacity <= 0 {
		c.Assembler.Capacity = bytecode.DefaultCapacity
	}
	if c.VM.Memory <= 0 {
		c.VM.Memory = vm.DefaultMemorySize
	}
	if c.VM.MemoryLimit <= 0 {
		c.VM.MemoryLimit = max(vm.DefaultMemoryLimit, c.VM.Memory)
	}
	if c.VM.Stack <= 0 {
		c.VM.Stack = vm.DefaultStackSize
	}
	if c.Toolchain.Command == "" {
		c.Toolchain.Command = "go"
	}
	if c.Toolchain.OutputDir == "" {
		c.Toolchain.OutputDir = backend.DefaultOutputDir
	}
	if c.Toolchain.Linkage == "" {
		c.Toolchain.Linkage = codegen.LinkagePointer.String()
	}
	if c.Run.Mode == "" {
		c.Run.Mode = backend.ModeRun.String()
	}
}

// Load parses stackasm.toml from the given directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile parses the file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}

// FindAndLoad walks up from startDir to find stackasm.toml and loads it.
// Without a file the defaults are returned.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if _, err := c.Linkage(); err != nil {
		return err
	}
	if _, err := c.Mode(); err != nil {
		return err
	}
	if c.VM.MemoryLimit < c.VM.Memory {
		return fmt.Errorf("vm memory-limit %d is below memory %d", c.VM.MemoryLimit, c.VM.Memory)
	}
	return nil
}

// Linkage returns the configured calling convention.
func (c *Config) Linkage() (codegen.Linkage, error) {
	return codegen.ParseLinkage(c.Toolchain.Linkage)
}

// Mode returns the default backend.
func (c *Config) Mode() (backend.Mode, error) {
	return backend.ParseMode(c.Run.Mode)
}

// ModuleDir returns the configured module checkout, relative to the file's
// directory, or "" when it should be searched for.
func (c *Config) ModuleDir() string {
	return c.resolve(c.Toolchain.ModuleDir)
}

// ScratchDir returns the parent for scratch directories, or "" for the system default.
func (c *Config) ScratchDir() string {
	return c.resolve(c.Toolchain.ScratchDir)
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}
