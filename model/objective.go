package model

// Objective is a minimization target. Installing one converts a simulation
// model into an optimization problem; the solver then expects as many free
// decision variables as the remaining degrees of freedom.
type Objective struct {
	name  string
	block *Block
	expr  Expr
}

// Name returns the dotted path of the objective from the model root.
func (o *Objective) Name() string {
	if o.block == nil {
		return o.name
	}
	return o.block.Name() + "." + o.name
}

// Expr returns the objective expression.
func (o *Objective) Expr() Expr { return o.expr }

// Value evaluates the objective at the current variable values.
func (o *Objective) Value() float64 { return o.expr.Eval() }
