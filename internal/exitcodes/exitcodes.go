// Package exitcodes defines the exit statuses regtest reports besides the
// return codes it passes through from the simulator and comparator.
package exitcodes

// Exit code constants used by regtest:
//
// * Success (0): both the simulation and the comparison succeeded
// * EnvironmentErr (1): the case could not be set up (missing directory, bad config)
// * Abnormal (125): a child terminated without an exit status (signal, timeout)
// * NotLaunched (127): a child executable could not be started
const (
	Success        = 0
	EnvironmentErr = 1
	Abnormal       = 125
	NotLaunched    = 127
)
