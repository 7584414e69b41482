// Package runner executes child processes synchronously, streaming their
// combined stdout and stderr into a caller-supplied sink.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Runner executes commands from a fixed working directory.
type Runner struct {
	Dir     string
	Timeout time.Duration // zero means wait indefinitely
}

// Run executes argv and blocks until it exits. The first element is the
// executable: a bare name is resolved via PATH, a relative path containing
// a separator is resolved against r.Dir. Both stdout and stderr are written
// to out; when out is an *os.File the descriptor is handed to the child
// directly.
//
// A child that starts and exits, with any code, yields a Result and a nil
// error. An error is returned only when the child could not be started.
func (r *Runner) Run(ctx context.Context, argv []string, out io.Writer) (*Result, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty argv")
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	runID := uuid.New().String()

	cmd := exec.CommandContext(ctx, r.resolvePath(argv[0]), argv[1:]...)
	cmd.Dir = r.Dir
	cmd.Stdout = out
	cmd.Stderr = out

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("executing %s: %w", argv[0], err)
	}
	waitErr := cmd.Wait()

	res := &Result{RunID: runID, Duration: time.Since(start)}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			// Copying output into a non-file sink failed.
			return nil, fmt.Errorf("waiting for %s: %w", argv[0], waitErr)
		}
		res.ExitCode = exitErr.ExitCode()
	}
	if res.ExitCode < 0 || (ctx.Err() != nil && res.ExitCode != 0) {
		res.Abnormal = true
	}
	return res, nil
}

// resolvePath anchors relative executable paths to the runner's directory
// so they do not depend on the process working directory.
func (r *Runner) resolvePath(name string) string {
	if r.Dir == "" || filepath.IsAbs(name) || !strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	return filepath.Join(r.Dir, name)
}
