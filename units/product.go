package units

import (
	"github.com/aquasim-org/aquasim/flowsheet"
	"github.com/aquasim-org/aquasim/model"
	"github.com/aquasim-org/aquasim/properties/seawater"
	"github.com/aquasim-org/aquasim/solver"
)

// Product is a sink unit terminating a stream. Its state is determined
// entirely by the arc feeding it.
type Product struct {
	*model.Block

	// Properties is the inlet state.
	Properties *seawater.StateBlock

	Inlet *flowsheet.Port
}

// NewProduct creates a product sink named name under parent.
func NewProduct(parent *model.Block, name string, props *seawater.ParameterBlock) *Product {
	b := parent.NewBlock(name)
	p := &Product{Block: b}
	p.Properties = props.NewStateBlock(b, "properties")
	p.Inlet = statePort("inlet", p.Properties)
	return p
}

// Initialize is a no-op: a product has no equations.
func (p *Product) Initialize(opts ...solver.Option) error { return nil }
