package units

import (
	"github.com/aquasim-org/aquasim/flowsheet"
	"github.com/aquasim-org/aquasim/model"
	"github.com/aquasim-org/aquasim/properties/seawater"
	"github.com/aquasim-org/aquasim/solver"
)

// PressureChangerType selects the work equation of a pressure changer.
type PressureChangerType uint8

const (
	// PumpType raises pressure; shaft work exceeds fluid work by the
	// efficiency.
	PumpType PressureChangerType = iota
	// TurbineType recovers work from a pressure drop; recovered work is the
	// fluid work times the efficiency, and comes out negative.
	TurbineType
)

// PressureChanger is an isothermal pump or turbine over an incompressible
// stream. Mass flows pass through unchanged; the unit relates outlet
// pressure, mechanical work and efficiency.
type PressureChanger struct {
	*model.Block

	PropertiesIn  *seawater.StateBlock
	PropertiesOut *seawater.StateBlock

	// Efficiency is the isentropic efficiency, fixed by the caller.
	Efficiency *model.Var
	// DeltaP is outlet minus inlet pressure [Pa].
	DeltaP *model.Var
	// WorkMechanical is the shaft work [W], negative for a turbine.
	WorkMechanical *model.Var

	Inlet  *flowsheet.Port
	Outlet *flowsheet.Port

	typ PressureChangerType
}

// NewPump creates a pump named name under parent.
func NewPump(parent *model.Block, name string, props *seawater.ParameterBlock) *PressureChanger {
	return newPressureChanger(parent, name, props, PumpType)
}

// NewEnergyRecoveryDevice creates a turbine-type pressure changer named name
// under parent, recovering work from a high-pressure stream.
func NewEnergyRecoveryDevice(parent *model.Block, name string, props *seawater.ParameterBlock) *PressureChanger {
	return newPressureChanger(parent, name, props, TurbineType)
}

func newPressureChanger(parent *model.Block, name string, props *seawater.ParameterBlock, typ PressureChangerType) *PressureChanger {
	b := parent.NewBlock(name)
	pc := &PressureChanger{Block: b, typ: typ}
	pc.PropertiesIn = props.NewStateBlock(b, "properties_in")
	pc.PropertiesOut = props.NewStateBlock(b, "properties_out")

	pc.Efficiency = b.NewVar("efficiency_pump",
		model.WithInitial(0.8), model.WithBounds(1e-8, 1))
	pc.DeltaP = b.NewVar("deltaP", model.WithUnits("Pa"))
	pc.DeltaP.SetScalingFactor(1e-5)
	pc.WorkMechanical = b.NewVar("work_mechanical", model.WithUnits("W"))
	pc.WorkMechanical.SetScalingFactor(1e-3)

	in, out := pc.PropertiesIn, pc.PropertiesOut
	for _, j := range seawater.Components {
		b.Equal("eq_mass_balance["+j+"]", out.FlowMass[j], in.FlowMass[j])
	}
	b.Equal("eq_isothermal", out.Temperature, in.Temperature)
	b.Equal("eq_deltaP", pc.DeltaP, model.Sub(out.Pressure, in.Pressure))

	fluidWork := model.Mul(in.FlowVol(), pc.DeltaP)
	switch typ {
	case PumpType:
		b.Equal("eq_work", model.Mul(pc.WorkMechanical, pc.Efficiency), fluidWork)
	case TurbineType:
		b.Equal("eq_work", pc.WorkMechanical, model.Mul(fluidWork, pc.Efficiency))
	}

	pc.Inlet = statePort("inlet", in)
	pc.Outlet = statePort("outlet", out)
	return pc
}

// Type returns whether the unit is a pump or a turbine.
func (pc *PressureChanger) Type() PressureChangerType { return pc.typ }

// Initialize estimates the outlet state and work from the current inlet
// values and solves the unit with the inlet held.
func (pc *PressureChanger) Initialize(opts ...solver.Option) error {
	release := holdState(pc.PropertiesIn)
	defer release()

	in, out := pc.PropertiesIn, pc.PropertiesOut
	out.CopyFrom(in)

	dp := pc.DeltaP.Value()
	if out.Pressure.Fixed() {
		dp = out.Pressure.Value() - in.Pressure.Value()
	} else if pc.DeltaP.Fixed() {
		out.Pressure.SetValue(in.Pressure.Value() + dp)
	}
	if !pc.DeltaP.Fixed() {
		pc.DeltaP.SetValue(dp)
	}

	if !pc.WorkMechanical.Fixed() {
		q := in.FlowVol().Eval()
		eta := pc.Efficiency.Value()
		switch pc.typ {
		case PumpType:
			pc.WorkMechanical.SetValue(q * dp / eta)
		case TurbineType:
			pc.WorkMechanical.SetValue(q * dp * eta)
		}
	}

	return initializeBlock(pc.Block, opts...)
}
