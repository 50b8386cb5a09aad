package zero_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasim-org/aquasim/model"
	"github.com/aquasim-org/aquasim/properties/water"
	"github.com/aquasim-org/aquasim/units/zero"
)

var mfSolutes = []string{"eeq", "toc", "tss", "cryptosporidium"}

func newMicrofiltration(t *testing.T) (*model.Block, *zero.MicroFiltrationZO) {
	t.Helper()
	m := model.NewBlock("m")
	props := water.NewParameterBlock(m, "properties", mfSolutes)
	u, err := zero.NewMicroFiltrationZO(m, "MF", props, zero.DefaultDatabase())
	require.NoError(t, err)
	return m, u
}

func TestMicrofiltration(t *testing.T) {
	m, u := newMicrofiltration(t)

	u.PropertiesIn.FlowMass[water.H2O].Fix(10)
	for _, j := range mfSolutes {
		u.PropertiesIn.FlowMass[j].Fix(1)
	}
	require.Equal(t, 0, model.DegreesOfFreedom(m))
	require.NoError(t, u.Initialize())

	tr, by := u.PropertiesTreated, u.PropertiesByproduct
	assert.InDelta(t, 9.5, tr.FlowMass[water.H2O].Value(), 1e-6)
	assert.InDelta(t, 0.5, by.FlowMass[water.H2O].Value(), 1e-6)
	assert.InDelta(t, 0.7, tr.FlowMass["eeq"].Value(), 1e-6)
	assert.InDelta(t, 0.9, tr.FlowMass["toc"].Value(), 1e-6)
	assert.InDelta(t, 0.03, tr.FlowMass["tss"].Value(), 1e-6)
	assert.InDelta(t, 0.001, tr.FlowMass["cryptosporidium"].Value(), 1e-6)
	assert.InDelta(t, 0.97, by.FlowMass["tss"].Value(), 1e-6)

	// 14 kg/s -> 50.4 m3/h at 0.18 kWh/m3
	assert.InDelta(t, 9.072, u.Electricity.Value(), 1e-4)
}

func TestMicrofiltrationDefaultRemoval(t *testing.T) {
	m := model.NewBlock("m")
	props := water.NewParameterBlock(m, "properties", []string{"tss", "unlisted"})
	u, err := zero.NewMicroFiltrationZO(m, "MF", props, zero.DefaultDatabase())
	require.NoError(t, err)

	assert.InDelta(t, 0.97, u.RemovalFracMassSolute["tss"].Value(), 1e-12)
	assert.InDelta(t, 0.0, u.RemovalFracMassSolute["unlisted"].Value(), 1e-12)
	assert.True(t, u.RemovalFracMassSolute["unlisted"].Fixed())
}

func TestNanofiltration(t *testing.T) {
	m := model.NewBlock("m")
	props := water.NewParameterBlock(m, "properties", []string{"tds", "tss"})
	u, err := zero.NewNanofiltrationZO(m, "NF", props, zero.DefaultDatabase())
	require.NoError(t, err)

	u.PropertiesIn.FlowMass[water.H2O].Fix(10)
	u.PropertiesIn.FlowMass["tds"].Fix(0.5)
	u.PropertiesIn.FlowMass["tss"].Fix(0.1)
	require.Equal(t, 0, model.DegreesOfFreedom(m))
	require.NoError(t, u.Initialize())

	assert.InDelta(t, 8.5, u.PropertiesTreated.FlowMass[water.H2O].Value(), 1e-6)
	assert.InDelta(t, 0.35, u.PropertiesByproduct.FlowMass["tds"].Value(), 1e-6)
}

func TestDatabaseUnknownTechnology(t *testing.T) {
	_, err := zero.DefaultDatabase().UnitParameters("alchemy", "default")
	assert.Error(t, err)
}

func TestDatabaseLoad(t *testing.T) {
	const doc = `
sedimentation:
  default:
    recovery_frac_mass_H2O: 0.99
    default_removal_frac_mass_comp: 0.5
    energy_electric_flow_vol_inlet: 0.05
`
	db, err := zero.Load(strings.NewReader(doc))
	require.NoError(t, err)
	p, err := db.UnitParameters("sedimentation", "default")
	require.NoError(t, err)
	assert.InDelta(t, 0.99, p.RecoveryFracMassH2O, 1e-12)
	assert.InDelta(t, 0.5, p.Removal("anything"), 1e-12)
}

func TestReport(t *testing.T) {
	_, u := newMicrofiltration(t)
	u.PropertiesIn.FlowMass[water.H2O].Fix(10)
	for _, j := range mfSolutes {
		u.PropertiesIn.FlowMass[j].Fix(1)
	}
	require.NoError(t, u.Initialize())

	var buf bytes.Buffer
	u.Report(&buf)
	out := buf.String()
	assert.Contains(t, out, "MF performance")
	assert.Contains(t, out, "water recovery:  0.9500")
	assert.Contains(t, out, "electricity")
}

func TestMassConservationProperty(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 30

	properties := gopter.NewProperties(params)
	properties.Property("inlet mass equals treated plus byproduct", prop.ForAll(
		func(h2o, tss, toc float64) bool {
			m := model.NewBlock("m")
			props := water.NewParameterBlock(m, "properties", []string{"tss", "toc"})
			u, err := zero.NewMicroFiltrationZO(m, "MF", props, zero.DefaultDatabase())
			if err != nil {
				return false
			}
			u.PropertiesIn.FlowMass[water.H2O].Fix(h2o)
			u.PropertiesIn.FlowMass["tss"].Fix(tss)
			u.PropertiesIn.FlowMass["toc"].Fix(toc)
			if err := u.Initialize(); err != nil {
				return false
			}
			for _, j := range props.Components() {
				in := u.PropertiesIn.FlowMass[j].Value()
				out := u.PropertiesTreated.FlowMass[j].Value() +
					u.PropertiesByproduct.FlowMass[j].Value()
				if diff := in - out; diff > 1e-7 || diff < -1e-7 {
					return false
				}
			}
			return true
		},
		gen.Float64Range(0.1, 100),
		gen.Float64Range(0.001, 10),
		gen.Float64Range(0.001, 10),
	))
	properties.TestingRun(t)
}
