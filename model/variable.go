package model

import "math"

// Var is a continuous model variable.
//
// A fixed variable behaves as data: it keeps its value during a solve and
// does not count as a degree of freedom. Bounds are enforced by the solver;
// the scaling factor conditions the Jacobian column for this variable.
type Var struct {
	name  string
	block *Block

	value float64
	fixed bool
	lb    float64
	ub    float64
	sf    float64 // 0 means unset

	units string
	doc   string
}

// VarOption configures a variable at declaration time.
type VarOption func(*Var)

// WithInitial sets the initial value.
func WithInitial(v float64) VarOption { return func(va *Var) { va.value = v } }

// WithBounds sets lower and upper bounds.
func WithBounds(lo, hi float64) VarOption {
	return func(va *Var) { va.lb, va.ub = lo, hi }
}

// WithLowerBound sets the lower bound only.
func WithLowerBound(lo float64) VarOption { return func(va *Var) { va.lb = lo } }

// WithUnits records the physical units of the variable. Units are
// documentation; all values are SI and no conversion is performed.
func WithUnits(u string) VarOption { return func(va *Var) { va.units = u } }

// WithDoc records a short description.
func WithDoc(d string) VarOption { return func(va *Var) { va.doc = d } }

// Name returns the dotted path of the variable from the model root.
func (v *Var) Name() string {
	if v.block == nil {
		return v.name
	}
	return v.block.Name() + "." + v.name
}

// LocalName returns the name of the variable within its block.
func (v *Var) LocalName() string { return v.name }

// Value returns the current value.
func (v *Var) Value() float64 { return v.value }

// SetValue assigns a value without fixing the variable.
func (v *Var) SetValue(x float64) { v.value = x }

// Fix fixes the variable, optionally assigning a value first.
func (v *Var) Fix(value ...float64) {
	if len(value) > 0 {
		v.value = value[0]
	}
	v.fixed = true
}

// Unfix releases the variable so the solver may move it.
func (v *Var) Unfix() { v.fixed = false }

// Fixed reports whether the variable is fixed.
func (v *Var) Fixed() bool { return v.fixed }

// SetBounds sets both bounds.
func (v *Var) SetBounds(lo, hi float64) { v.lb, v.ub = lo, hi }

// SetLB sets the lower bound.
func (v *Var) SetLB(lo float64) { v.lb = lo }

// SetUB sets the upper bound.
func (v *Var) SetUB(hi float64) { v.ub = hi }

// LB returns the lower bound (-Inf when absent).
func (v *Var) LB() float64 { return v.lb }

// UB returns the upper bound (+Inf when absent).
func (v *Var) UB() float64 { return v.ub }

// SetScalingFactor sets the scaling factor used to condition the solver.
func (v *Var) SetScalingFactor(sf float64) { v.sf = sf }

// ScalingFactor returns the scaling factor, defaulting to 1.
func (v *Var) ScalingFactor() float64 {
	if v.sf == 0 {
		return 1
	}
	return v.sf
}

// HasScalingFactor reports whether a scaling factor was assigned.
func (v *Var) HasScalingFactor() bool { return v.sf != 0 }

// Units returns the recorded physical units.
func (v *Var) Units() string { return v.units }

// Doc returns the recorded description.
func (v *Var) Doc() string { return v.doc }

// Eval implements Expr.
func (v *Var) Eval() float64 { return v.value }

func (v *Var) addDeriv(seed float64, g Gradient) { g[v] += seed }

func (v *Var) walk(fn func(Expr)) { fn(v) }

func (v *Var) String() string { return v.Name() }

func newVar(b *Block, name string, opts ...VarOption) *Var {
	v := &Var{
		name:  name,
		block: b,
		lb:    math.Inf(-1),
		ub:    math.Inf(1),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}
