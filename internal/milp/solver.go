package milp

import "time"

// Status classifies the outcome of a solve attempt.
type Status int

const (
	NotSolved Status = iota
	Optimal
	Feasible // a solution exists but optimality was not proven
	Infeasible
	TimedOut // time limit hit; the best incumbent found so far (if any) is reported
)

func (status Status) String() string {
	switch status {
	case Optimal:
		return "Optimal"
	case Feasible:
		return "Feasible"
	case Infeasible:
		return "Infeasible"
	case TimedOut:
		return "TimedOut"
	default:
		return "NotSolved"
	}
}

// Solution holds the outcome of a solve attempt. Values is indexed by Var and
// is nil when the backend produced no usable assignment.
type Solution struct {
	Status    Status
	Objective float64
	Values    []float64
}

func (s Solution) HasValues() bool {
	return s.Values != nil
}

func (s Solution) Value(v Var) float64 {
	if s.Values == nil || int(v) >= len(s.Values) {
		return 0
	}
	return s.Values[v]
}

// Solver solves a MILP within a wall-clock time limit. Infeasibility and
// time-limit expiry are reported through the Solution status, not as errors;
// a non-nil error means the backend itself failed.
type Solver interface {
	Solve(model *Model, timeLimit time.Duration) (Solution, error)
}
