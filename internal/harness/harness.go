// Package harness runs one gold-file regression case: the simulator is run
// on the case's input deck, then the comparator checks the produced result
// against the stored gold file. Output of both children is collected in a
// single log file and the return codes are folded into one exit status.
package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/deixis/regtest/internal/exitcodes"
	"github.com/deixis/regtest/internal/runner"
	"github.com/google/uuid"
)

// ErrEnvironment marks failures that prevent a pass/fail result, such as a
// missing test directory or an unwritable log file.
var ErrEnvironment = errors.New("environment error")

// CommandRunner executes a child process, streaming its output to out.
// Implemented by runner.Runner.
type CommandRunner interface {
	Run(ctx context.Context, argv []string, out io.Writer) (*runner.Result, error)
}

// Harness holds the case and the tools used to run it.
type Harness struct {
	Case       Case
	Simulator  string // executable; relative paths resolve against Case.Dir
	Comparator string
	Policy     StatusPolicy
	Timeout    time.Duration // per child; zero means none
	Runner     CommandRunner // defaults to a runner.Runner in Case.Dir
	Logger     *slog.Logger
}

// Outcome is the result of one harness run.
type Outcome struct {
	RunID      string
	Simulation Step
	Comparison Step
	Status     int // aggregate exit status
	LogPath    string
}

// Step is the result of one child invocation.
type Step struct {
	Name     string
	Argv     []string
	Launched bool
	ExitCode int // recorded code, including sentinels
	Duration time.Duration
}

// Run executes the case. Environment failures return an error wrapping
// ErrEnvironment before either child runs; child failures are reported
// through Outcome.Status only.
func (h *Harness) Run(ctx context.Context) (out *Outcome, err error) {
	log := h.logger()
	runID := uuid.New().String()
	log = log.With("run", runID, "case", h.Case.Name)

	if err := h.Case.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnvironment, err)
	}
	dir, err := enterDir(h.Case.Dir)
	if err != nil {
		return nil, err
	}
	c := h.Case
	c.Dir = dir

	logFile, err := openLog(c.LogPath())
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := logFile.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: closing log: %v", ErrEnvironment, cerr)
			out = nil
		}
	}()

	if err := removeIfExists(c.OutputPath()); err != nil {
		return nil, fmt.Errorf("%w: removing stale output: %v", ErrEnvironment, err)
	}

	r := h.Runner
	if r == nil {
		r = &runner.Runner{Dir: dir, Timeout: h.Timeout}
	}

	status := &Status{Policy: h.Policy}
	out = &Outcome{RunID: runID, LogPath: c.LogPath()}

	out.Simulation = h.step(ctx, log, r, logFile, "simulation",
		append([]string{h.Simulator}, c.SimulationArgs()...))
	status.Record(out.Simulation.ExitCode)

	out.Comparison = h.step(ctx, log, r, logFile, "comparison",
		append([]string{h.Comparator}, c.ComparisonArgs()...))
	status.Record(out.Comparison.ExitCode)

	out.Status = status.Code()
	log.Info("case finished", "status", out.Status, "policy", h.Policy.String())
	return out, nil
}

// step runs one child and translates its result into a recorded code.
// A child that cannot be started leaves a note in the log file so the
// failure is visible to whoever reads it.
func (h *Harness) step(ctx context.Context, log *slog.Logger, r CommandRunner, sink *os.File, name string, argv []string) Step {
	s := Step{Name: name, Argv: argv}
	log = log.With("step", name)
	log.Debug("starting", "argv", argv)

	res, err := r.Run(ctx, argv, sink)
	if err != nil {
		s.ExitCode = exitcodes.NotLaunched
		fmt.Fprintf(sink, "regtest: %s not launched: %v\n", name, err)
		log.Error("launch failed", "err", err)
		return s
	}

	s.Launched = true
	s.Duration = res.Duration
	switch {
	case res.Abnormal:
		s.ExitCode = exitcodes.Abnormal
		log.Warn("terminated abnormally", "exit", res.ExitCode, "duration", res.Duration)
	case res.ExitCode != 0:
		s.ExitCode = res.ExitCode
		log.Warn("failed", "exit", res.ExitCode, "duration", res.Duration)
	default:
		log.Info("passed", "duration", res.Duration)
	}
	return s
}

// Echo copies the case log to w byte for byte.
func (h *Harness) Echo(w io.Writer) error {
	f, err := os.Open(h.Case.LogPath())
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("echoing log: %w", err)
	}
	return nil
}

func (h *Harness) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// enterDir resolves the test directory and checks that it exists.
func enterDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: resolving test directory: %v", ErrEnvironment, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: test directory: %v", ErrEnvironment, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: test directory %s is not a directory", ErrEnvironment, abs)
	}
	return abs, nil
}

// openLog deletes any previous log and creates a fresh one.
func openLog(path string) (*os.File, error) {
	if err := removeIfExists(path); err != nil {
		return nil, fmt.Errorf("%w: removing old log: %v", ErrEnvironment, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: creating log: %v", ErrEnvironment, err)
	}
	return f, nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
