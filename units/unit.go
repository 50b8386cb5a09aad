package units

import (
	"fmt"

	"github.com/aquasim-org/aquasim/flowsheet"
	"github.com/aquasim-org/aquasim/model"
	"github.com/aquasim-org/aquasim/properties/seawater"
	"github.com/aquasim-org/aquasim/solver"
)

// statePort exposes a seawater state block on a new port. All seawater
// units share these keys, so any outlet can connect to any inlet.
func statePort(name string, s *seawater.StateBlock) *flowsheet.Port {
	p := flowsheet.NewPort(name)
	for _, j := range seawater.Components {
		p.Add(fmt.Sprintf("flow_mass_phase_comp[%s,%s]", seawater.Phase, j), s.FlowMass[j])
	}
	p.Add("temperature", s.Temperature)
	p.Add("pressure", s.Pressure)
	return p
}

// holdState fixes the unfixed variables of a state block and returns a
// release function. Initialization holds the inlet so a unit can be solved
// in isolation.
func holdState(s *seawater.StateBlock) (release func()) {
	var held []*model.Var
	hold := func(v *model.Var) {
		if !v.Fixed() {
			v.Fix()
			held = append(held, v)
		}
	}
	for _, j := range seawater.Components {
		hold(s.FlowMass[j])
	}
	hold(s.Temperature)
	hold(s.Pressure)
	return func() {
		for _, v := range held {
			v.Unfix()
		}
	}
}

// initializeBlock runs the local solve at the end of a unit initialization.
// The unit must be square once the inlet is held; anything else means the
// flowsheet specification is incomplete.
func initializeBlock(b *model.Block, opts ...solver.Option) error {
	model.CalculateScalingFactors(b)
	res, err := solver.Solve(b, opts...)
	if err != nil {
		return fmt.Errorf("units: initialize %s: %w", b.Name(), err)
	}
	if err := solver.AssertOptimalTermination(res); err != nil {
		return fmt.Errorf("units: initialize %s: %w", b.Name(), err)
	}
	return nil
}
