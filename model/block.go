package model

import "fmt"

// Block is a named container of variables, parameters, constraints and
// sub-blocks. The flowsheet, every unit model and every property state block
// is a Block; the whole model is a block tree mutated in place by the
// build / specify / initialize / solve pipeline.
type Block struct {
	name   string
	parent *Block

	blocks      []*Block
	vars        []*Var
	params      []*Param
	constraints []*Constraint
	objective   *Objective
}

// NewBlock creates a root block.
func NewBlock(name string) *Block {
	return &Block{name: name}
}

// NewBlock creates a named sub-block.
func (b *Block) NewBlock(name string) *Block {
	child := &Block{name: name, parent: b}
	b.blocks = append(b.blocks, child)
	return child
}

// NewVar declares a variable on this block. Declaring the same name twice
// panics: it is a modeling bug, not a runtime condition.
func (b *Block) NewVar(name string, opts ...VarOption) *Var {
	for _, v := range b.vars {
		if v.name == name {
			panic(fmt.Sprintf("model: variable %q already declared on block %s", name, b.Name()))
		}
	}
	v := newVar(b, name, opts...)
	b.vars = append(b.vars, v)
	return v
}

// NewParam declares a parameter on this block.
func (b *Block) NewParam(name string, value float64, units string) *Param {
	p := &Param{name: name, block: b, value: value, units: units}
	b.params = append(b.params, p)
	return p
}

// Name returns the dotted path of the block from the model root.
func (b *Block) Name() string {
	if b.parent == nil {
		return b.name
	}
	return b.parent.Name() + "." + b.name
}

// LocalName returns the name of the block within its parent.
func (b *Block) LocalName() string { return b.name }

// Parent returns the parent block, nil for the root.
func (b *Block) Parent() *Block { return b.parent }

// Root returns the top of the block tree.
func (b *Block) Root() *Block {
	r := b
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Blocks returns the direct sub-blocks in declaration order.
func (b *Block) Blocks() []*Block { return b.blocks }

// Walk visits b and every descendant block, depth first in declaration
// order.
func (b *Block) Walk(fn func(*Block)) {
	fn(b)
	for _, child := range b.blocks {
		child.Walk(fn)
	}
}

// Vars returns all variables declared on b and its descendants, in
// declaration order. The order is deterministic; the solver relies on it for
// stable variable indexing.
func (b *Block) Vars() []*Var {
	var out []*Var
	b.Walk(func(blk *Block) {
		out = append(out, blk.vars...)
	})
	return out
}

// LocalVars returns the variables declared directly on b.
func (b *Block) LocalVars() []*Var { return b.vars }

// Var returns the variable with the given local name, or nil.
func (b *Block) Var(name string) *Var {
	for _, v := range b.vars {
		if v.name == name {
			return v
		}
	}
	return nil
}

// Constraints returns all constraints declared on b and its descendants.
func (b *Block) Constraints() []*Constraint {
	var out []*Constraint
	b.Walk(func(blk *Block) {
		out = append(out, blk.constraints...)
	})
	return out
}

// RemoveConstraint deletes a constraint declared directly on b. Used for
// temporary constraints, such as the back-solve targets of
// property-package state calculations.
func (b *Block) RemoveConstraint(c *Constraint) {
	for i, have := range b.constraints {
		if have == c {
			b.constraints = append(b.constraints[:i], b.constraints[i+1:]...)
			return
		}
	}
}

// Constraint returns the constraint with the given local name, or nil.
func (b *Block) Constraint(name string) *Constraint {
	for _, c := range b.constraints {
		if c.name == name {
			return c
		}
	}
	return nil
}

// Minimize installs a minimization objective on this block. A model tree may
// carry at most one objective.
func (b *Block) Minimize(name string, expr Expr) *Objective {
	if obj := b.Root().FindObjective(); obj != nil {
		panic(fmt.Sprintf("model: objective %q already declared on this model", obj.name))
	}
	b.objective = &Objective{name: name, block: b, expr: expr}
	return b.objective
}

// FindObjective returns the objective declared on b or any descendant, or
// nil when the model is a pure simulation.
func (b *Block) FindObjective() *Objective {
	var found *Objective
	b.Walk(func(blk *Block) {
		if blk.objective != nil {
			found = blk.objective
		}
	})
	return found
}

// DropObjective removes the objective from b's subtree.
func (b *Block) DropObjective() {
	b.Walk(func(blk *Block) {
		blk.objective = nil
	})
}
