package solver

import "fmt"

// TerminationCondition reports how a solve ended.
type TerminationCondition uint8

const (
	// Unknown means the solve did not run to a conclusive state.
	Unknown TerminationCondition = iota
	// Optimal means the solve converged (and, for optimization, the final
	// point satisfies all inequality constraints).
	Optimal
	// MaxIterationsExceeded means the iteration limit was reached first.
	MaxIterationsExceeded
	// SingularJacobian means a Newton step could not be computed; the model
	// is structurally or numerically singular at the current point.
	SingularJacobian
	// Stalled means the line search could not reduce the residual.
	Stalled
	// Infeasible means the optimizer converged to a point violating an
	// inequality constraint or a variable bound.
	Infeasible
)

// String returns a human-readable termination condition.
func (tc TerminationCondition) String() string {
	switch tc {
	case Optimal:
		return "optimal"
	case MaxIterationsExceeded:
		return "maxIterations"
	case SingularJacobian:
		return "singular"
	case Stalled:
		return "stalled"
	case Infeasible:
		return "infeasible"
	default:
		return "unknown"
	}
}

// Results is what a solve returns. Callers must treat the termination
// condition as the only success signal.
type Results struct {
	TerminationCondition TerminationCondition

	// Iterations is the number of Newton steps taken (inner iterations for
	// an optimization solve).
	Iterations int

	// Residual is the final scaled infinity norm of the equality residuals.
	Residual float64

	// Objective is the final objective value; zero for simulation solves.
	Objective float64

	// FunctionEvaluations counts outer objective evaluations during an
	// optimization solve.
	FunctionEvaluations int
}

// Ok reports whether the solve terminated optimally.
func (r Results) Ok() bool { return r.TerminationCondition == Optimal }

// AssertOptimalTermination returns an error unless the results report
// optimal termination.
func AssertOptimalTermination(r Results) error {
	if !r.Ok() {
		return fmt.Errorf("solver: termination condition %s (residual %.3e after %d iterations)",
			r.TerminationCondition, r.Residual, r.Iterations)
	}
	return nil
}
