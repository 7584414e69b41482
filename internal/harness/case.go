package harness

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Case identifies one regression case: the directory the simulation runs
// in and the base name shared by all of the case's files. The input deck,
// gold file and comparison config live one directory above Dir.
type Case struct {
	Dir  string
	Name string
}

// Validate reports an unusable case identity.
func (c Case) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("case directory is empty")
	}
	if c.Name == "" {
		return fmt.Errorf("case name is empty")
	}
	if strings.ContainsAny(c.Name, `/\`) {
		return fmt.Errorf("case name %q must not contain a path separator", c.Name)
	}
	return nil
}

// LogFile is the name of the combined output log in Dir.
func (c Case) LogFile() string { return c.Name + ".log" }

// OutputFile is the name of the result file the simulator writes in Dir.
func (c Case) OutputFile() string { return c.Name + ".e" }

// InputDeck is the simulator input, relative to Dir.
func (c Case) InputDeck() string { return filepath.Join("..", c.Name+".xml") }

// GoldFile is the reference result, relative to Dir.
func (c Case) GoldFile() string { return filepath.Join("..", c.Name+"_gold.e") }

// CompareConfig is the comparator's tolerance file, relative to Dir.
func (c Case) CompareConfig() string { return filepath.Join("..", c.Name+".comp") }

// LogPath returns the log file path including Dir.
func (c Case) LogPath() string { return filepath.Join(c.Dir, c.LogFile()) }

// OutputPath returns the result file path including Dir.
func (c Case) OutputPath() string { return filepath.Join(c.Dir, c.OutputFile()) }

// SimulationArgs returns the simulator arguments.
func (c Case) SimulationArgs() []string {
	return []string{c.InputDeck()}
}

// ComparisonArgs returns the comparator arguments: statistics enabled,
// produced output, gold file, then the comparison config.
func (c Case) ComparisonArgs() []string {
	return []string{"-stat", c.OutputFile(), c.GoldFile(), "-f", c.CompareConfig()}
}
