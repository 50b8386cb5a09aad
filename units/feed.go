package units

import (
	"github.com/aquasim-org/aquasim/flowsheet"
	"github.com/aquasim-org/aquasim/model"
	"github.com/aquasim-org/aquasim/properties/seawater"
	"github.com/aquasim-org/aquasim/solver"
)

// Feed is a source unit: it owns an outlet state and nothing else. The feed
// state is specified by fixing its variables (usually through
// StateBlock.CalculateState) and every downstream stream starts here.
type Feed struct {
	*model.Block

	// Properties is the outlet state.
	Properties *seawater.StateBlock

	Outlet *flowsheet.Port
}

// NewFeed creates a feed unit named name under parent.
func NewFeed(parent *model.Block, name string, props *seawater.ParameterBlock) *Feed {
	b := parent.NewBlock(name)
	f := &Feed{Block: b}
	f.Properties = props.NewStateBlock(b, "properties")
	f.Outlet = statePort("outlet", f.Properties)
	return f
}

// Initialize is a no-op: a feed has no equations. It exists so flowsheets can
// treat all units uniformly.
func (f *Feed) Initialize(opts ...solver.Option) error { return nil }
