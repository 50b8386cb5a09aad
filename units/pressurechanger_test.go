package units_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasim-org/aquasim/model"
	"github.com/aquasim-org/aquasim/properties/seawater"
	"github.com/aquasim-org/aquasim/units"
)

func newParams(m *model.Block) *seawater.ParameterBlock {
	params := seawater.NewParameterBlock(m, "properties")
	params.SetDefaultScaling("flow_mass_phase_comp", 1, seawater.Phase, seawater.H2O)
	params.SetDefaultScaling("flow_mass_phase_comp", 1e2, seawater.Phase, seawater.TDS)
	params.SetDefaultScaling("pressure", 1e-5)
	return params
}

func fixSeawaterInlet(s *seawater.StateBlock, pressure float64) {
	s.FlowMass[seawater.H2O].Fix(0.965)
	s.FlowMass[seawater.TDS].Fix(0.035)
	s.Temperature.Fix(298.15)
	s.Pressure.Fix(pressure)
}

func TestPump(t *testing.T) {
	m := model.NewBlock("m")
	params := newParams(m)
	p := units.NewPump(m, "P1", params)

	fixSeawaterInlet(p.PropertiesIn, 101325)
	p.Efficiency.Fix(0.8)
	p.PropertiesOut.Pressure.Fix(75e5)
	require.Equal(t, 0, model.DegreesOfFreedom(m))

	require.NoError(t, p.Initialize())

	in, out := p.PropertiesIn, p.PropertiesOut
	assert.InDelta(t, in.FlowMass[seawater.H2O].Value(), out.FlowMass[seawater.H2O].Value(), 1e-8)
	assert.InDelta(t, in.FlowMass[seawater.TDS].Value(), out.FlowMass[seawater.TDS].Value(), 1e-10)
	assert.InDelta(t, in.Temperature.Value(), out.Temperature.Value(), 1e-8)

	dp := 75e5 - 101325.0
	assert.InDelta(t, dp, p.DeltaP.Value(), 1e-2)
	q := in.FlowVol().Eval()
	assert.InDelta(t, q*dp/0.8, p.WorkMechanical.Value(), 1e-2)
	assert.Greater(t, p.WorkMechanical.Value(), 0.0)
}

func TestEnergyRecoveryDevice(t *testing.T) {
	m := model.NewBlock("m")
	params := newParams(m)
	erd := units.NewEnergyRecoveryDevice(m, "ERD", params)

	fixSeawaterInlet(erd.PropertiesIn, 74e5)
	erd.Efficiency.Fix(0.95)
	erd.PropertiesOut.Pressure.Fix(101325)
	require.Equal(t, 0, model.DegreesOfFreedom(m))

	require.NoError(t, erd.Initialize())

	dp := 101325.0 - 74e5
	assert.InDelta(t, dp, erd.DeltaP.Value(), 1e-2)
	q := erd.PropertiesIn.FlowVol().Eval()
	assert.InDelta(t, q*dp*0.95, erd.WorkMechanical.Value(), 1e-2)
	assert.Less(t, erd.WorkMechanical.Value(), 0.0)
}

func TestPumpInitializeRequiresSquareUnit(t *testing.T) {
	m := model.NewBlock("m")
	params := newParams(m)
	p := units.NewPump(m, "P1", params)

	fixSeawaterInlet(p.PropertiesIn, 101325)
	p.Efficiency.Fix(0.8)
	// outlet pressure left free: one degree of freedom too many

	err := p.Initialize()
	require.Error(t, err)
	var dof *model.DegreesOfFreedomError
	assert.ErrorAs(t, err, &dof)
}
