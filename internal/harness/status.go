package harness

import "fmt"

// StatusPolicy decides which non-zero return code becomes the aggregate
// status when more than one step fails. A zero return code never changes
// the status under either policy.
type StatusPolicy int

const (
	// LastFailure lets every non-zero return code overwrite the status,
	// so a failing comparison is reported over a failing simulation.
	LastFailure StatusPolicy = iota
	// FirstFailure keeps the first non-zero return code.
	FirstFailure
)

// ParseStatusPolicy maps "last" or "first" to a policy.
func ParseStatusPolicy(s string) (StatusPolicy, error) {
	switch s {
	case "last", "":
		return LastFailure, nil
	case "first":
		return FirstFailure, nil
	default:
		return 0, fmt.Errorf("unknown status policy %q (want last or first)", s)
	}
}

func (p StatusPolicy) String() string {
	switch p {
	case LastFailure:
		return "last"
	case FirstFailure:
		return "first"
	default:
		return fmt.Sprintf("StatusPolicy(%d)", int(p))
	}
}

// Status accumulates step return codes into one exit status.
type Status struct {
	Policy StatusPolicy
	code   int
}

// Record folds a step's return code into the status.
func (s *Status) Record(code int) {
	if code == 0 {
		return
	}
	if s.Policy == FirstFailure && s.code != 0 {
		return
	}
	s.code = code
}

// Code returns the aggregate exit status; 0 until a step fails.
func (s *Status) Code() int { return s.code }
