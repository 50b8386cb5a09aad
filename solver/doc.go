// Package solver solves the nonlinear algebraic systems assembled by the
// model package.
//
// A simulation solve requires a square system (zero degrees of freedom) and
// runs a damped Newton iteration with row/column scaling. An optimization
// solve (model carries an objective) drives the declared decision variables
// with a derivative-free outer search while Newton-solving the remaining
// square system at every trial point; inequality constraints and bounds on
// dependent variables enter the outer objective as penalties.
//
// The termination condition in Results is the sole success signal: there is
// no retry or recovery here. Convergence failures are addressed upstream by
// better initialization, as the flowsheet drivers do.
package solver
