package model

import (
	"fmt"
	"math"
	"strings"
)

// Expr is a node in an algebraic expression over variables and parameters.
//
// Expressions are built with the package-level constructors (Add, Mul, …)
// and evaluated at the current variable values. Derivatives are accumulated
// in reverse mode; every node distributes the seed of its output onto its
// operands.
type Expr interface {
	// Eval computes the expression value at the current variable values.
	Eval() float64

	// addDeriv accumulates seed * d(expr)/d(var) into g for every variable
	// reachable from this node.
	addDeriv(seed float64, g Gradient)

	// walk visits this node and all operands, depth first.
	walk(fn func(Expr))

	String() string
}

// Gradient maps variables to partial derivative values.
type Gradient map[*Var]float64

type literal float64

// Const returns a constant expression.
func Const(v float64) Expr { return literal(v) }

func (l literal) Eval() float64 { return float64(l) }

func (l literal) addDeriv(float64, Gradient) {}

func (l literal) walk(fn func(Expr)) { fn(l) }

func (l literal) String() string { return fmt.Sprintf("%g", float64(l)) }

type sumExpr struct{ terms []Expr }

// Sum returns the sum of all terms. An empty sum evaluates to zero.
func Sum(terms ...Expr) Expr {
	return &sumExpr{terms: terms}
}

// Add returns a + b (+ more).
func Add(a, b Expr, more ...Expr) Expr {
	terms := append([]Expr{a, b}, more...)
	return &sumExpr{terms: terms}
}

func (e *sumExpr) Eval() float64 {
	var s float64
	for _, t := range e.terms {
		s += t.Eval()
	}
	return s
}

func (e *sumExpr) addDeriv(seed float64, g Gradient) {
	for _, t := range e.terms {
		t.addDeriv(seed, g)
	}
}

func (e *sumExpr) walk(fn func(Expr)) {
	fn(e)
	for _, t := range e.terms {
		t.walk(fn)
	}
}

func (e *sumExpr) String() string {
	parts := make([]string, len(e.terms))
	for i, t := range e.terms {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, " + ") + ")"
}

type subExpr struct{ a, b Expr }

// Sub returns a - b.
func Sub(a, b Expr) Expr { return &subExpr{a, b} }

func (e *subExpr) Eval() float64 { return e.a.Eval() - e.b.Eval() }

func (e *subExpr) addDeriv(seed float64, g Gradient) {
	e.a.addDeriv(seed, g)
	e.b.addDeriv(-seed, g)
}

func (e *subExpr) walk(fn func(Expr)) { fn(e); e.a.walk(fn); e.b.walk(fn) }

func (e *subExpr) String() string { return "(" + e.a.String() + " - " + e.b.String() + ")" }

type mulExpr struct{ a, b Expr }

// Mul returns a * b (* more).
func Mul(a, b Expr, more ...Expr) Expr {
	e := Expr(&mulExpr{a, b})
	for _, m := range more {
		e = &mulExpr{e, m}
	}
	return e
}

func (e *mulExpr) Eval() float64 { return e.a.Eval() * e.b.Eval() }

func (e *mulExpr) addDeriv(seed float64, g Gradient) {
	e.a.addDeriv(seed*e.b.Eval(), g)
	e.b.addDeriv(seed*e.a.Eval(), g)
}

func (e *mulExpr) walk(fn func(Expr)) { fn(e); e.a.walk(fn); e.b.walk(fn) }

func (e *mulExpr) String() string { return "(" + e.a.String() + " * " + e.b.String() + ")" }

type divExpr struct{ a, b Expr }

// Div returns a / b.
func Div(a, b Expr) Expr { return &divExpr{a, b} }

func (e *divExpr) Eval() float64 { return e.a.Eval() / e.b.Eval() }

func (e *divExpr) addDeriv(seed float64, g Gradient) {
	bv := e.b.Eval()
	e.a.addDeriv(seed/bv, g)
	e.b.addDeriv(-seed*e.a.Eval()/(bv*bv), g)
}

func (e *divExpr) walk(fn func(Expr)) { fn(e); e.a.walk(fn); e.b.walk(fn) }

func (e *divExpr) String() string { return "(" + e.a.String() + " / " + e.b.String() + ")" }

type negExpr struct{ a Expr }

// Neg returns -a.
func Neg(a Expr) Expr { return &negExpr{a} }

func (e *negExpr) Eval() float64 { return -e.a.Eval() }

func (e *negExpr) addDeriv(seed float64, g Gradient) { e.a.addDeriv(-seed, g) }

func (e *negExpr) walk(fn func(Expr)) { fn(e); e.a.walk(fn) }

func (e *negExpr) String() string { return "(-" + e.a.String() + ")" }

type powExpr struct {
	base Expr
	k    float64
}

// Pow returns base raised to the constant power k.
func Pow(base Expr, k float64) Expr { return &powExpr{base, k} }

func (e *powExpr) Eval() float64 { return math.Pow(e.base.Eval(), e.k) }

func (e *powExpr) addDeriv(seed float64, g Gradient) {
	bv := e.base.Eval()
	e.base.addDeriv(seed*e.k*math.Pow(bv, e.k-1), g)
}

func (e *powExpr) walk(fn func(Expr)) { fn(e); e.base.walk(fn) }

func (e *powExpr) String() string { return fmt.Sprintf("%s^%g", e.base.String(), e.k) }

type expExpr struct{ a Expr }

// Exp returns e raised to a.
func Exp(a Expr) Expr { return &expExpr{a} }

func (e *expExpr) Eval() float64 { return math.Exp(e.a.Eval()) }

func (e *expExpr) addDeriv(seed float64, g Gradient) {
	e.a.addDeriv(seed*math.Exp(e.a.Eval()), g)
}

func (e *expExpr) walk(fn func(Expr)) { fn(e); e.a.walk(fn) }

func (e *expExpr) String() string { return "exp(" + e.a.String() + ")" }

type logExpr struct{ a Expr }

// Log returns the natural logarithm of a.
func Log(a Expr) Expr { return &logExpr{a} }

func (e *logExpr) Eval() float64 { return math.Log(e.a.Eval()) }

func (e *logExpr) addDeriv(seed float64, g Gradient) {
	e.a.addDeriv(seed/e.a.Eval(), g)
}

func (e *logExpr) walk(fn func(Expr)) { fn(e); e.a.walk(fn) }

func (e *logExpr) String() string { return "log(" + e.a.String() + ")" }

type sqrtExpr struct{ a Expr }

// Sqrt returns the square root of a.
func Sqrt(a Expr) Expr { return &sqrtExpr{a} }

func (e *sqrtExpr) Eval() float64 { return math.Sqrt(e.a.Eval()) }

func (e *sqrtExpr) addDeriv(seed float64, g Gradient) {
	e.a.addDeriv(seed/(2*math.Sqrt(e.a.Eval())), g)
}

func (e *sqrtExpr) walk(fn func(Expr)) { fn(e); e.a.walk(fn) }

func (e *sqrtExpr) String() string { return "sqrt(" + e.a.String() + ")" }

type minExpr struct{ a, b Expr }

// Min returns the smaller of a and b. The derivative follows the active
// operand, so constraints built on Min are non-smooth at ties.
func Min(a, b Expr) Expr { return &minExpr{a, b} }

func (e *minExpr) Eval() float64 { return math.Min(e.a.Eval(), e.b.Eval()) }

func (e *minExpr) addDeriv(seed float64, g Gradient) {
	if e.a.Eval() <= e.b.Eval() {
		e.a.addDeriv(seed, g)
	} else {
		e.b.addDeriv(seed, g)
	}
}

func (e *minExpr) walk(fn func(Expr)) { fn(e); e.a.walk(fn); e.b.walk(fn) }

func (e *minExpr) String() string { return "min(" + e.a.String() + ", " + e.b.String() + ")" }

// Scale returns k * a for a constant k.
func Scale(k float64, a Expr) Expr { return &mulExpr{literal(k), a} }

// Derivatives returns the gradient of expr with respect to every variable
// it contains, evaluated at the current variable values.
func Derivatives(expr Expr) Gradient {
	g := make(Gradient)
	expr.addDeriv(1, g)
	return g
}

// Variables returns the distinct variables appearing in expr, in first-use
// order.
func Variables(expr Expr) []*Var {
	var out []*Var
	seen := make(map[*Var]struct{})
	expr.walk(func(e Expr) {
		if v, ok := e.(*Var); ok {
			if _, dup := seen[v]; !dup {
				seen[v] = struct{}{}
				out = append(out, v)
			}
		}
	})
	return out
}
