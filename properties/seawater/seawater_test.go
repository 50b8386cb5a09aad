package seawater_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasim-org/aquasim/model"
	"github.com/aquasim-org/aquasim/properties/seawater"
)

func newState(t *testing.T) (*model.Block, *seawater.StateBlock) {
	t.Helper()
	m := model.NewBlock("m")
	params := seawater.NewParameterBlock(m, "properties")
	params.SetDefaultScaling("flow_mass_phase_comp", 1, seawater.Phase, seawater.H2O)
	params.SetDefaultScaling("flow_mass_phase_comp", 1e2, seawater.Phase, seawater.TDS)
	sb := params.NewStateBlock(m, "state")
	return m, sb
}

func TestDerivedProperties(t *testing.T) {
	_, sb := newState(t)
	sb.FlowMass[seawater.H2O].SetValue(0.965)
	sb.FlowMass[seawater.TDS].SetValue(0.035)
	sb.Temperature.SetValue(298.15)

	assert.InDelta(t, 0.035, sb.MassFrac(seawater.TDS).Eval(), 1e-12)
	assert.InDelta(t, 995.0+756.0*0.035, sb.Density().Eval(), 1e-9)
	assert.InDelta(t, 1.0/sb.Density().Eval(), sb.FlowVol().Eval(), 1e-12)

	// seawater at 35 g/kg: osmotic pressure in the 25-32 bar range
	pi := sb.OsmoticPressure().Eval()
	assert.Greater(t, pi, 25e5)
	assert.Less(t, pi, 32e5)

	// viscosity slightly above pure water
	mu := sb.Viscosity().Eval()
	assert.Greater(t, mu, 8.9e-4)
	assert.Less(t, mu, 1.1e-3)
}

func TestDefaultScalingApplied(t *testing.T) {
	_, sb := newState(t)
	assert.Equal(t, 1.0, sb.FlowMass[seawater.H2O].ScalingFactor())
	assert.Equal(t, 1e2, sb.FlowMass[seawater.TDS].ScalingFactor())
}

func TestCalculateState(t *testing.T) {
	m, sb := newState(t)
	sb.Temperature.Fix(298.15)
	sb.Pressure.Fix(101325)

	require.NoError(t, sb.CalculateState(seawater.StateArgs{
		FlowVol:     1e-3,
		MassFracTDS: 0.035,
		Hold:        true,
	}))

	assert.InDelta(t, 1e-3, sb.FlowVol().Eval(), 1e-10)
	assert.InDelta(t, 0.035, sb.MassFrac(seawater.TDS).Eval(), 1e-10)
	assert.True(t, sb.FlowMass[seawater.H2O].Fixed())
	assert.True(t, sb.FlowMass[seawater.TDS].Fixed())

	// the temporary constraints are gone and the state is fully specified
	assert.Empty(t, model.ActiveEqualities(m))
	assert.Equal(t, 0, model.DegreesOfFreedom(m))
}

func TestCalculateStateRequiresFixedTP(t *testing.T) {
	_, sb := newState(t)
	err := sb.CalculateState(seawater.StateArgs{FlowVol: 1e-3, MassFracTDS: 0.035})
	assert.Error(t, err)
}

func TestCopyFromSkipsFixed(t *testing.T) {
	m, _ := newState(t)
	params := seawater.NewParameterBlock(m, "p2")
	src := params.NewStateBlock(m, "src")
	dst := params.NewStateBlock(m, "dst")

	src.FlowMass[seawater.H2O].SetValue(2)
	src.Pressure.SetValue(5e5)
	dst.Pressure.Fix(7e5)

	dst.CopyFrom(src)
	assert.Equal(t, 2.0, dst.FlowMass[seawater.H2O].Value())
	assert.Equal(t, 7e5, dst.Pressure.Value())
}
