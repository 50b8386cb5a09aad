// Package model implements the declarative algebraic modeling layer used by
// all flowsheet components.
//
// A model is a tree of blocks. Each block owns variables, parameters and
// constraints; unit models, property state blocks and the flowsheet itself
// are all blocks. Constraints relate algebraic expressions over variables
// and parameters; expressions support evaluation and reverse-mode
// differentiation, which is what the Newton solver consumes.
//
// A model is well posed for a simulation solve when its degrees of freedom
// (free variables minus active equality constraints) are zero. The package
// also carries the scaling-factor bookkeeping used to condition the solver's
// Jacobian.
package model
