package model

import (
	"math"

	"github.com/aquasim-org/aquasim/debug"
)

// Sense is the relation a constraint imposes between its two sides.
type Sense uint8

const (
	// Equality constrains lhs == rhs.
	Equality Sense = iota
	// LessOrEqual constrains lhs <= rhs.
	LessOrEqual
	// GreaterOrEqual constrains lhs >= rhs.
	GreaterOrEqual
)

// String returns the relation symbol.
func (s Sense) String() string {
	switch s {
	case Equality:
		return "=="
	case LessOrEqual:
		return "<="
	case GreaterOrEqual:
		return ">="
	default:
		return "?"
	}
}

// Constraint relates two expressions. Equality constraints participate in
// degree-of-freedom accounting and in the Newton solve; inequality
// constraints are enforced by the optimizer only.
type Constraint struct {
	name  string
	block *Block
	lhs   Expr
	rhs   Expr
	sense Sense
	sf    float64 // 0 means unset
	off   bool
	stack string // declaration site, debug builds only
}

func (b *Block) newConstraint(name string, lhs Expr, sense Sense, rhs Expr) *Constraint {
	c := &Constraint{name: name, block: b, lhs: lhs, rhs: rhs, sense: sense}
	if debug.Debug {
		c.stack = debug.Stack()
	}
	b.constraints = append(b.constraints, c)
	return c
}

// Equal declares the equality constraint lhs == rhs on this block.
func (b *Block) Equal(name string, lhs, rhs Expr) *Constraint {
	return b.newConstraint(name, lhs, Equality, rhs)
}

// RequireLessOrEqual declares the inequality lhs <= rhs on this block.
func (b *Block) RequireLessOrEqual(name string, lhs, rhs Expr) *Constraint {
	return b.newConstraint(name, lhs, LessOrEqual, rhs)
}

// RequireGreaterOrEqual declares the inequality lhs >= rhs on this block.
func (b *Block) RequireGreaterOrEqual(name string, lhs, rhs Expr) *Constraint {
	return b.newConstraint(name, lhs, GreaterOrEqual, rhs)
}

// Name returns the dotted path of the constraint from the model root.
func (c *Constraint) Name() string {
	if c.block == nil {
		return c.name
	}
	return c.block.Name() + "." + c.name
}

// Sense returns the constraint relation.
func (c *Constraint) Sense() Sense { return c.sense }

// LHS returns the left-hand side expression.
func (c *Constraint) LHS() Expr { return c.lhs }

// RHS returns the right-hand side expression.
func (c *Constraint) RHS() Expr { return c.rhs }

// Body returns lhs - rhs as an expression.
func (c *Constraint) Body() Expr { return Sub(c.lhs, c.rhs) }

// Residual evaluates lhs - rhs at the current variable values.
func (c *Constraint) Residual() float64 { return c.lhs.Eval() - c.rhs.Eval() }

// Violation returns how far the constraint is from being satisfied: the
// absolute residual for equalities, the positive part of the residual for
// inequalities.
func (c *Constraint) Violation() float64 {
	r := c.Residual()
	switch c.sense {
	case LessOrEqual:
		return math.Max(0, r)
	case GreaterOrEqual:
		return math.Max(0, -r)
	default:
		return math.Abs(r)
	}
}

// Active reports whether the constraint participates in solves.
func (c *Constraint) Active() bool { return !c.off }

// Deactivate removes the constraint from solves without deleting it.
func (c *Constraint) Deactivate() { c.off = true }

// Activate re-enables a deactivated constraint.
func (c *Constraint) Activate() { c.off = false }

// SetScalingFactor applies a scaling transform to the constraint residual.
func (c *Constraint) SetScalingFactor(sf float64) { c.sf = sf }

// ScalingFactor returns the residual scaling factor, defaulting to 1.
func (c *Constraint) ScalingFactor() float64 {
	if c.sf == 0 {
		return 1
	}
	return c.sf
}

// HasScalingFactor reports whether a scaling factor was assigned.
func (c *Constraint) HasScalingFactor() bool { return c.sf != 0 }

// DeclarationSite returns where the constraint was declared. Empty unless the
// binary was built with the debug tag.
func (c *Constraint) DeclarationSite() string { return c.stack }

func (c *Constraint) String() string {
	return c.lhs.String() + " " + c.sense.String() + " " + c.rhs.String()
}
