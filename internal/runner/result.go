package runner

import "time"

// Result holds the outcome of a child process.
type Result struct {
	RunID    string        // unique identifier for this execution
	ExitCode int           // process exit code; -1 when Abnormal
	Abnormal bool          // true if the child ended without an exit status (signal, timeout)
	Duration time.Duration // wall time from start to exit
}
