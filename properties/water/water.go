// Package water is the simplified property basis used by zero-order unit
// models: water plus a configurable list of trace solutes, at a fixed liquid
// density. There is no temperature or pressure state; zero-order models work
// purely on mass flows.
package water

import (
	"github.com/aquasim-org/aquasim/model"
)

// H2O is the solvent component, always present.
const H2O = "H2O"

// density of the lumped stream [kg/m3]; solutes are dilute
const density = 1000.0

// ParameterBlock holds the solute list shared by all state blocks.
type ParameterBlock struct {
	*model.Block

	solutes []string
}

// NewParameterBlock creates the property parameter block under parent with
// the given solute list.
func NewParameterBlock(parent *model.Block, name string, solutes []string) *ParameterBlock {
	return &ParameterBlock{
		Block:   parent.NewBlock(name),
		solutes: solutes,
	}
}

// Solutes returns the configured solutes.
func (p *ParameterBlock) Solutes() []string { return p.solutes }

// Components returns H2O followed by the solutes.
func (p *ParameterBlock) Components() []string {
	return append([]string{H2O}, p.solutes...)
}

// StateBlock is a stream state on the zero-order basis.
type StateBlock struct {
	*model.Block

	params *ParameterBlock

	// FlowMass is the component mass flow [kg/s], keyed by component.
	FlowMass map[string]*model.Var
}

// NewStateBlock creates a state block named name under parent.
func (p *ParameterBlock) NewStateBlock(parent *model.Block, name string) *StateBlock {
	b := parent.NewBlock(name)
	s := &StateBlock{
		Block:    b,
		params:   p,
		FlowMass: make(map[string]*model.Var),
	}
	for _, j := range p.Components() {
		s.FlowMass[j] = b.NewVar("flow_mass_comp["+j+"]",
			model.WithInitial(1),
			model.WithLowerBound(0),
			model.WithUnits("kg/s"))
	}
	return s
}

// Params returns the parameter block this state belongs to.
func (s *StateBlock) Params() *ParameterBlock { return s.params }

// TotalFlowMass returns the total mass flow expression [kg/s].
func (s *StateBlock) TotalFlowMass() model.Expr {
	comps := s.params.Components()
	terms := make([]model.Expr, 0, len(comps))
	for _, j := range comps {
		terms = append(terms, s.FlowMass[j])
	}
	return model.Sum(terms...)
}

// FlowVol returns the volumetric flow expression [m3/s].
func (s *StateBlock) FlowVol() model.Expr {
	return model.Div(s.TotalFlowMass(), model.Const(density))
}

// ConcMass returns the mass concentration expression of component j
// [kg/m3].
func (s *StateBlock) ConcMass(j string) model.Expr {
	return model.Div(s.FlowMass[j], s.FlowVol())
}

// FixFlows fixes all component flows at their current values.
func (s *StateBlock) FixFlows() {
	for _, v := range s.FlowMass {
		v.Fix()
	}
}
