package water_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aquasim-org/aquasim/model"
	"github.com/aquasim-org/aquasim/properties/water"
)

func TestDerivedProperties(t *testing.T) {
	m := model.NewBlock("m")
	params := water.NewParameterBlock(m, "params", []string{"eeq", "toc", "tss", "cryptosporidium"})
	sb := params.NewStateBlock(m, "state")

	sb.FlowMass[water.H2O].SetValue(10)
	for _, j := range params.Solutes() {
		sb.FlowMass[j].SetValue(1)
	}

	// 14 kg/s at 1000 kg/m3
	assert.InDelta(t, 1.4e-2, sb.FlowVol().Eval(), 1e-12)
	assert.InDelta(t, 71.4286, sb.ConcMass("toc").Eval(), 1e-4)
	assert.InDelta(t, 714.286, sb.ConcMass(water.H2O).Eval(), 1e-3)
}

func TestComponentsOrder(t *testing.T) {
	m := model.NewBlock("m")
	params := water.NewParameterBlock(m, "params", []string{"tss"})
	assert.Equal(t, []string{"H2O", "tss"}, params.Components())
}
