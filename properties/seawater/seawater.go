// Package seawater is the seawater property package: two components (H2O
// and a lumped TDS pseudo-component) in a single liquid phase.
//
// State variables are component mass flows, temperature and pressure.
// Everything else (mass fractions, density, volumetric flow, osmotic
// pressure, viscosity) is a derived expression, so downstream constraints
// stay consistent with the state without extra variables. Correlations are
// fits near 25 °C, adequate for the 0-45 g/kg salinity range of seawater
// desalination.
package seawater

import (
	"fmt"

	"github.com/aquasim-org/aquasim/model"
	"github.com/aquasim-org/aquasim/solver"
)

// Components of the package. TDS lumps all dissolved solids.
const (
	H2O = "H2O"
	TDS = "TDS"
)

// Phase is the only phase of the package.
const Phase = "Liq"

// Components lists the package components in canonical order.
var Components = []string{H2O, TDS}

const (
	// density fit rho = densityRef + densitySlope * x_TDS [kg/m3]
	densityRef   = 995.0
	densitySlope = 756.0

	// osmotic pressure by van 't Hoff with an effective dissociation
	// factor: pi = vantHoff * R * T * rho * x_TDS / molarMassTDS
	vantHoff     = 1.9
	gasConstant  = 8.314462
	molarMassTDS = 0.0585 // kg/mol, NaCl-dominated

	// dynamic viscosity fit mu = viscosityRef * (1 + viscositySlope * x_TDS)
	viscosityRef   = 8.9e-4
	viscositySlope = 1.63

	// diffusivity of TDS in water [m2/s]
	diffusivityTDS = 1.45e-9
)

// ParameterBlock holds the package-level configuration shared by all state
// blocks: the component list and default scaling factors.
type ParameterBlock struct {
	*model.Block

	defaultScaling map[string]float64
}

// NewParameterBlock creates the property parameter block under parent.
func NewParameterBlock(parent *model.Block, name string) *ParameterBlock {
	return &ParameterBlock{
		Block:          parent.NewBlock(name),
		defaultScaling: make(map[string]float64),
	}
}

// SetDefaultScaling records the scaling factor applied to every state
// variable named varName with the given index when a state block is built.
// Call before creating state blocks.
func (p *ParameterBlock) SetDefaultScaling(varName string, sf float64, index ...string) {
	p.defaultScaling[indexedName(varName, index...)] = sf
}

func (p *ParameterBlock) scalingFor(name string) (float64, bool) {
	sf, ok := p.defaultScaling[name]
	return sf, ok
}

func indexedName(varName string, index ...string) string {
	if len(index) == 0 {
		return varName
	}
	name := varName + "[" + index[0]
	for _, i := range index[1:] {
		name += "," + i
	}
	return name + "]"
}

// Density returns the liquid density expression [kg/m3] at the given TDS
// mass fraction.
func (p *ParameterBlock) Density(massFracTDS model.Expr) model.Expr {
	return model.Add(model.Const(densityRef), model.Scale(densitySlope, massFracTDS))
}

// OsmoticPressure returns the osmotic pressure expression [Pa] at the given
// temperature and TDS mass fraction.
func (p *ParameterBlock) OsmoticPressure(temperature, massFracTDS model.Expr) model.Expr {
	conc := model.Div(model.Mul(p.Density(massFracTDS), massFracTDS), model.Const(molarMassTDS))
	return model.Mul(model.Const(vantHoff*gasConstant), temperature, conc)
}

// Viscosity returns the dynamic viscosity expression [Pa s] at the given TDS
// mass fraction.
func (p *ParameterBlock) Viscosity(massFracTDS model.Expr) model.Expr {
	return model.Mul(model.Const(viscosityRef),
		model.Add(model.Const(1), model.Scale(viscositySlope, massFracTDS)))
}

// Diffusivity returns the TDS diffusivity expression [m2/s].
func (p *ParameterBlock) Diffusivity() model.Expr {
	return model.Const(diffusivityTDS)
}

// StateBlock holds the state of one stream at one time point.
type StateBlock struct {
	*model.Block

	params *ParameterBlock

	// FlowMass is the component mass flow [kg/s], keyed by component.
	FlowMass map[string]*model.Var
	// Temperature [K].
	Temperature *model.Var
	// Pressure [Pa].
	Pressure *model.Var
}

// NewStateBlock creates a state block named name under parent, with default
// seawater initial values.
func (p *ParameterBlock) NewStateBlock(parent *model.Block, name string) *StateBlock {
	b := parent.NewBlock(name)
	s := &StateBlock{
		Block:    b,
		params:   p,
		FlowMass: make(map[string]*model.Var, len(Components)),
	}
	initial := map[string]float64{H2O: 0.965, TDS: 0.035}
	for _, j := range Components {
		v := b.NewVar(indexedName("flow_mass_phase_comp", Phase, j),
			model.WithInitial(initial[j]),
			model.WithLowerBound(1e-8),
			model.WithUnits("kg/s"))
		if sf, ok := p.scalingFor(v.LocalName()); ok {
			v.SetScalingFactor(sf)
		}
		s.FlowMass[j] = v
	}
	s.Temperature = b.NewVar("temperature",
		model.WithInitial(298.15), model.WithBounds(273.15, 373.15), model.WithUnits("K"))
	s.Pressure = b.NewVar("pressure",
		model.WithInitial(101325), model.WithBounds(1e4, 5e7), model.WithUnits("Pa"))
	if sf, ok := p.scalingFor("pressure"); ok {
		s.Pressure.SetScalingFactor(sf)
	}
	return s
}

// Params returns the parameter block this state belongs to.
func (s *StateBlock) Params() *ParameterBlock { return s.params }

// TotalFlowMass returns the total mass flow expression [kg/s].
func (s *StateBlock) TotalFlowMass() model.Expr {
	terms := make([]model.Expr, 0, len(Components))
	for _, j := range Components {
		terms = append(terms, s.FlowMass[j])
	}
	return model.Sum(terms...)
}

// MassFrac returns the mass fraction expression of component j.
func (s *StateBlock) MassFrac(j string) model.Expr {
	return model.Div(s.FlowMass[j], s.TotalFlowMass())
}

// Density returns the density expression [kg/m3].
func (s *StateBlock) Density() model.Expr {
	return s.params.Density(s.MassFrac(TDS))
}

// FlowVol returns the volumetric flow expression [m3/s].
func (s *StateBlock) FlowVol() model.Expr {
	return model.Div(s.TotalFlowMass(), s.Density())
}

// OsmoticPressure returns the osmotic pressure expression [Pa].
func (s *StateBlock) OsmoticPressure() model.Expr {
	return s.params.OsmoticPressure(s.Temperature, s.MassFrac(TDS))
}

// Viscosity returns the dynamic viscosity expression [Pa s].
func (s *StateBlock) Viscosity() model.Expr {
	return s.params.Viscosity(s.MassFrac(TDS))
}

// ConcMass returns the mass concentration expression of component j
// [kg/m3].
func (s *StateBlock) ConcMass(j string) model.Expr {
	return model.Mul(s.Density(), s.MassFrac(j))
}

// FixState fixes all state variables at their current values.
func (s *StateBlock) FixState() {
	for _, j := range Components {
		s.FlowMass[j].Fix()
	}
	s.Temperature.Fix()
	s.Pressure.Fix()
}

// UnfixFlows releases the component flows.
func (s *StateBlock) UnfixFlows() {
	for _, j := range Components {
		s.FlowMass[j].Unfix()
	}
}

// CopyFrom assigns the values of src to the unfixed state variables of s.
func (s *StateBlock) CopyFrom(src *StateBlock) {
	for _, j := range Components {
		if !s.FlowMass[j].Fixed() {
			s.FlowMass[j].SetValue(src.FlowMass[j].Value())
		}
	}
	if !s.Temperature.Fixed() {
		s.Temperature.SetValue(src.Temperature.Value())
	}
	if !s.Pressure.Fixed() {
		s.Pressure.SetValue(src.Pressure.Value())
	}
}

// StateArgs are intensive+extensive targets for CalculateState.
type StateArgs struct {
	// FlowVol is the target volumetric flow [m3/s].
	FlowVol float64
	// MassFracTDS is the target TDS mass fraction.
	MassFracTDS float64
	// Hold fixes the back-solved component mass flows, consuming the
	// corresponding degrees of freedom.
	Hold bool
}

// CalculateState back-solves the component mass flows consistent with the
// given volumetric flow and TDS mass fraction. Temperature and pressure must
// already be fixed. Properties like volumetric flow cannot be fixed
// directly (they are expressions, not state), so specifications in those
// terms go through this helper.
func (s *StateBlock) CalculateState(args StateArgs) error {
	if !s.Temperature.Fixed() || !s.Pressure.Fixed() {
		return fmt.Errorf("seawater: CalculateState on %s requires fixed temperature and pressure", s.Name())
	}

	// reasonable starting point: target composition at the density it implies
	rho := densityRef + densitySlope*args.MassFracTDS
	total := args.FlowVol * rho
	s.FlowMass[TDS].SetValue(total * args.MassFracTDS)
	s.FlowMass[H2O].SetValue(total * (1 - args.MassFracTDS))

	cFlow := s.Equal("tmp_calculate_state_flow_vol", s.FlowVol(), model.Const(args.FlowVol))
	cFrac := s.Equal("tmp_calculate_state_mass_frac", s.MassFrac(TDS), model.Const(args.MassFracTDS))
	defer func() {
		s.RemoveConstraint(cFlow)
		s.RemoveConstraint(cFrac)
	}()

	res, err := solver.Solve(s.Block)
	if err != nil {
		return err
	}
	if err := solver.AssertOptimalTermination(res); err != nil {
		return fmt.Errorf("seawater: CalculateState on %s: %w", s.Name(), err)
	}

	if args.Hold {
		for _, j := range Components {
			s.FlowMass[j].Fix()
		}
	}
	return nil
}
