package units_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasim-org/aquasim/model"
	"github.com/aquasim-org/aquasim/properties/seawater"
	"github.com/aquasim-org/aquasim/units"
)

// specifyRO applies the membrane specifications shared by the tests. The
// inlet is pressurized enough to stay above the brine osmotic pressure at
// 50 % recovery.
func specifyRO(ro *units.ReverseOsmosis0D) {
	fixSeawaterInlet(ro.PropertiesIn, 75e5)
	ro.AComp.Fix(4.2e-12)
	ro.BComp.Fix(3.5e-8)
	ro.ChannelHeight.Fix(1e-3)
	ro.SpacerPorosity.Fix(0.97)
	ro.PropertiesPermeate.Pressure.Fix(101325)
	ro.Velocity[0].Fix(0.15)
	ro.RecoveryVol.Fix(0.5)
}

func TestReverseOsmosisSolve(t *testing.T) {
	m := model.NewBlock("m")
	params := newParams(m)
	ro := units.NewReverseOsmosis0D(m, "RO", params, units.ROConfig{})

	specifyRO(ro)
	require.Equal(t, 0, model.DegreesOfFreedom(m))
	require.NoError(t, ro.Initialize())

	in, out, perm := ro.PropertiesIn, ro.PropertiesOut, ro.PropertiesPermeate

	for _, j := range seawater.Components {
		assert.InDelta(t, in.FlowMass[j].Value(),
			out.FlowMass[j].Value()+perm.FlowMass[j].Value(), 1e-7, j)
	}

	assert.InDelta(t, 0.5, perm.FlowVol().Eval()/in.FlowVol().Eval(), 1e-6)

	// near-total salt rejection
	assert.Less(t, perm.MassFrac(seawater.TDS).Eval(), 5e-3)

	// friction loses pressure along the channel
	assert.Less(t, ro.DeltaP.Value(), 0.0)
	assert.Less(t, out.Pressure.Value(), in.Pressure.Value())

	// polarization concentrates solute at the membrane
	assert.Greater(t, ro.MassFracInterface[0].Value(), in.MassFrac(seawater.TDS).Eval())
	assert.Greater(t, ro.MassFracInterface[1].Value(), out.MassFrac(seawater.TDS).Eval())

	assert.InDelta(t, ro.Area.Value(), ro.Width.Value()*ro.Length.Value(), 1e-6)

	// flux declines toward the outlet as osmotic pressure builds
	assert.Less(t, ro.FluxMassWater[1].Value(), ro.FluxMassWater[0].Value())
}

func TestReverseOsmosisSimplifiedConfig(t *testing.T) {
	m := model.NewBlock("m")
	params := newParams(m)
	ro := units.NewReverseOsmosis0D(m, "RO", params, units.ROConfig{
		ConcentrationPolarization: units.ConcentrationPolarizationNone,
		MassTransferCoefficient:   units.MassTransferCoefficientFixed,
		PressureChange:            units.PressureChangeFixed,
	})

	specifyRO(ro)
	ro.MassTransferCoeff[0].Fix(5e-5)
	ro.MassTransferCoeff[1].Fix(5e-5)
	ro.DeltaP.Fix(-1e5)
	require.Equal(t, 0, model.DegreesOfFreedom(m))
	require.NoError(t, ro.Initialize())

	in, out := ro.PropertiesIn, ro.PropertiesOut
	assert.InDelta(t, in.MassFrac(seawater.TDS).Eval(),
		ro.MassFracInterface[0].Value(), 1e-9)
	assert.InDelta(t, out.MassFrac(seawater.TDS).Eval(),
		ro.MassFracInterface[1].Value(), 1e-9)
	assert.InDelta(t, -1e5, out.Pressure.Value()-in.Pressure.Value(), 1e-3)
}

func TestReverseOsmosisInitializeRejectsLowPressure(t *testing.T) {
	m := model.NewBlock("m")
	params := newParams(m)
	ro := units.NewReverseOsmosis0D(m, "RO", params, units.ROConfig{})

	specifyRO(ro)
	// below the feed osmotic pressure: no driving force anywhere
	ro.PropertiesIn.Pressure.Fix(20e5)

	err := ro.Initialize()
	require.Error(t, err)
}
