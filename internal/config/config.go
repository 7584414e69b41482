// Package config loads and validates the optional .regtest YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file looked up by Load.
const FileName = ".regtest"

// Defaults reproduce the Compression_QS_CyclicLoading_3x2x2 case of the
// regression suite, with tool paths relative to the test directory.
const (
	DefaultCaseDir    = "Compression_QS_CyclicLoading_3x2x2/np1"
	DefaultCaseName   = "Compression_QS_CyclicLoading_3x2x2"
	DefaultSimulator  = "../../../../src/Peridigm"
	DefaultComparator = "../../../../scripts/exodiff"
	DefaultStatus     = "last"
)

// Config holds the parsed .regtest configuration.
// All fields are optional; zero values represent defaults.
type Config struct {
	Version       int        `yaml:"version"`
	Case          CaseConfig `yaml:"case"`
	RawSimulator  string     `yaml:"simulator"`  // relative to the test directory
	RawComparator string     `yaml:"comparator"` // relative to the test directory
	RawTimeout    string     `yaml:"timeout"`    // e.g. "30m"; empty means none
	RawStatus     string     `yaml:"status"`     // last or first
}

// CaseConfig identifies the test case.
type CaseConfig struct {
	Dir  string `yaml:"dir"`  // relative to the directory holding .regtest
	Name string `yaml:"name"` // base name shared by the case files
}

// CaseDir returns the configured test directory or the default.
func (c *Config) CaseDir() string {
	if c.Case.Dir != "" {
		return c.Case.Dir
	}
	return DefaultCaseDir
}

// CaseName returns the configured base name or the default.
func (c *Config) CaseName() string {
	if c.Case.Name != "" {
		return c.Case.Name
	}
	return DefaultCaseName
}

// Simulator returns the configured simulator path or the default.
func (c *Config) Simulator() string {
	if c.RawSimulator != "" {
		return c.RawSimulator
	}
	return DefaultSimulator
}

// Comparator returns the configured comparator path or the default.
func (c *Config) Comparator() string {
	if c.RawComparator != "" {
		return c.RawComparator
	}
	return DefaultComparator
}

// Timeout returns the per-child timeout. Zero means no timeout.
// Call Validate first; an unparsable value yields zero.
func (c *Config) Timeout() time.Duration {
	if c.RawTimeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.RawTimeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// Status returns the configured status policy name or the default.
func (c *Config) Status() string {
	if c.RawStatus != "" {
		return c.RawStatus
	}
	return DefaultStatus
}

// Validate reports values that cannot be interpreted.
func (c *Config) Validate() error {
	if c.RawTimeout != "" {
		d, err := time.ParseDuration(c.RawTimeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", c.RawTimeout, err)
		}
		if d < 0 {
			return fmt.Errorf("invalid timeout %q: must not be negative", c.RawTimeout)
		}
	}
	return nil
}

// LoadResult holds the parsed config and the directory it was found in.
type LoadResult struct {
	Config *Config
	Root   string // directory containing .regtest; falls back to the start dir
	Path   string // path of the loaded file; empty when defaults are used
}

// CaseDir returns the absolute test directory, resolving a relative
// case.dir against Root.
func (r *LoadResult) CaseDir() string {
	dir := r.Config.CaseDir()
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(r.Root, dir)
}

// Load reads the .regtest file, walking upward from dir until one is
// found. If none exists, a default Config rooted at dir is returned.
func Load(dir string) (*LoadResult, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}

	path, ok := findConfig(dir)
	if !ok {
		return &LoadResult{Config: &Config{}, Root: dir}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating %s: %w", FileName, err)
	}
	return &LoadResult{Config: cfg, Root: filepath.Dir(path), Path: path}, nil
}

// findConfig walks upward from dir looking for a .regtest file.
func findConfig(dir string) (string, bool) {
	for {
		path := filepath.Join(dir, FileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
