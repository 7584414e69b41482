// Command regtest runs a gold-file regression case: the simulator is run on
// the case's input deck and its result is compared against the stored gold
// file. The exit status is 0 only when both steps succeed.
//
// Usage:
//
//	regtest [-verbose]
//
// With -verbose the combined log of both steps is printed after the run.
// The case and tool paths come from an optional .regtest file.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/deixis/regtest"
	"github.com/deixis/regtest/internal/config"
	"github.com/deixis/regtest/internal/exitcodes"
	"github.com/deixis/regtest/internal/harness"
	"github.com/deixis/regtest/internal/logging"
)

// verboseFlag is the only argument regtest recognizes.
const verboseFlag = "-verbose"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the configured case and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	errLog := log.New(stderr, "regtest: ", 0)
	verbose := hasVerbose(args)

	h, err := newHarness(stderr)
	if err != nil {
		errLog.Print(err)
		return exitcodes.EnvironmentErr
	}

	out, err := h.Run(ctx)
	if err != nil {
		errLog.Print(err)
		return exitcodes.EnvironmentErr
	}

	if verbose {
		if err := h.Echo(stdout); err != nil {
			errLog.Print(err)
		}
	}
	return out.Status
}

// hasVerbose reports whether the verbose token appears among args.
// Every other argument is ignored.
func hasVerbose(args []string) bool {
	for _, a := range args {
		if a == verboseFlag {
			return true
		}
	}
	return false
}

func newHarness(stderr io.Writer) (*harness.Harness, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determining working directory: %w", err)
	}

	loaded, err := config.Load(wd)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg := loaded.Config

	policy, err := harness.ParseStatusPolicy(cfg.Status())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(stderr)
	logger.Debug("starting", "version", regtest.Version)
	if loaded.Path != "" {
		logger.Debug("config loaded", "path", loaded.Path)
	}

	return &harness.Harness{
		Case: harness.Case{
			Dir:  loaded.CaseDir(),
			Name: cfg.CaseName(),
		},
		Simulator:  cfg.Simulator(),
		Comparator: cfg.Comparator(),
		Policy:     policy,
		Timeout:    cfg.Timeout(),
		Logger:     logger,
	}, nil
}
