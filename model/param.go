package model

// Param is a named mutable constant. Unlike a fixed variable it can never be
// unfixed, so it is invisible to degree-of-freedom accounting.
type Param struct {
	name  string
	block *Block
	value float64
	units string
}

// Name returns the dotted path of the parameter from the model root.
func (p *Param) Name() string {
	if p.block == nil {
		return p.name
	}
	return p.block.Name() + "." + p.name
}

// Value returns the current value.
func (p *Param) Value() float64 { return p.value }

// Set assigns a new value.
func (p *Param) Set(v float64) { p.value = v }

// Units returns the recorded physical units.
func (p *Param) Units() string { return p.units }

// Eval implements Expr.
func (p *Param) Eval() float64 { return p.value }

func (p *Param) addDeriv(float64, Gradient) {}

func (p *Param) walk(fn func(Expr)) { fn(p) }

func (p *Param) String() string { return p.Name() }
