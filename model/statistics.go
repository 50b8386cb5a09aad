package model

import "fmt"

// FreeVariables returns the unfixed variables in b's subtree, in declaration
// order.
func FreeVariables(b *Block) []*Var {
	var out []*Var
	for _, v := range b.Vars() {
		if !v.fixed {
			out = append(out, v)
		}
	}
	return out
}

// FixedVariables returns the fixed variables in b's subtree.
func FixedVariables(b *Block) []*Var {
	var out []*Var
	for _, v := range b.Vars() {
		if v.fixed {
			out = append(out, v)
		}
	}
	return out
}

// ActiveEqualities returns the active equality constraints in b's subtree.
func ActiveEqualities(b *Block) []*Constraint {
	var out []*Constraint
	for _, c := range b.Constraints() {
		if c.Active() && c.sense == Equality {
			out = append(out, c)
		}
	}
	return out
}

// ActiveInequalities returns the active inequality constraints in b's
// subtree.
func ActiveInequalities(b *Block) []*Constraint {
	var out []*Constraint
	for _, c := range b.Constraints() {
		if c.Active() && c.sense != Equality {
			out = append(out, c)
		}
	}
	return out
}

// DegreesOfFreedom returns the number of free variables minus the number of
// active equality constraints in b's subtree. A simulation solve requires
// zero; an optimization solve requires exactly the number of decision
// variables.
func DegreesOfFreedom(b *Block) int {
	return len(FreeVariables(b)) - len(ActiveEqualities(b))
}

// DegreesOfFreedomError reports an over- or under-specified model. It
// carries the actual count so callers can diagnose the specification.
type DegreesOfFreedomError struct {
	Block    string
	Actual   int
	Expected int
}

func (e *DegreesOfFreedomError) Error() string {
	return fmt.Sprintf(
		"model %s has %d degrees of freedom, expected %d: too many or not enough variables are fixed",
		e.Block, e.Actual, e.Expected)
}

// AssertDegreesOfFreedom returns a *DegreesOfFreedomError when b's subtree
// does not have exactly n degrees of freedom.
func AssertDegreesOfFreedom(b *Block, n int) error {
	if dof := DegreesOfFreedom(b); dof != n {
		return &DegreesOfFreedomError{Block: b.Name(), Actual: dof, Expected: n}
	}
	return nil
}
