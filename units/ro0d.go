package units

import (
	"fmt"
	"math"

	"github.com/aquasim-org/aquasim/flowsheet"
	"github.com/aquasim-org/aquasim/model"
	"github.com/aquasim-org/aquasim/properties/seawater"
	"github.com/aquasim-org/aquasim/solver"
)

// waterDensity converts volumetric water flux to mass flux [kg/m3].
const waterDensity = 1000.0

// ConcentrationPolarizationType selects how the membrane interface
// concentration is related to the bulk.
type ConcentrationPolarizationType uint8

const (
	// ConcentrationPolarizationCalculated applies film theory: the interface
	// mass fraction is the bulk value amplified by exp(Jw / (rho kf)).
	ConcentrationPolarizationCalculated ConcentrationPolarizationType = iota
	// ConcentrationPolarizationNone equates interface and bulk.
	ConcentrationPolarizationNone
)

// MassTransferCoefficientType selects how the film mass transfer coefficient
// is obtained.
type MassTransferCoefficientType uint8

const (
	// MassTransferCoefficientCalculated uses a Sherwood correlation on the
	// spacer-filled channel.
	MassTransferCoefficientCalculated MassTransferCoefficientType = iota
	// MassTransferCoefficientFixed leaves kf as a specification; the caller
	// must fix it.
	MassTransferCoefficientFixed
)

// PressureChangeType selects how the channel pressure drop is obtained.
type PressureChangeType uint8

const (
	// PressureChangeCalculated uses a friction factor correlation over the
	// channel length.
	PressureChangeCalculated PressureChangeType = iota
	// PressureChangeFixed leaves deltaP as a specification; the caller must
	// fix it.
	PressureChangeFixed
)

// ROConfig configures a ReverseOsmosis0D unit. The zero value enables the
// full model: film-theory polarization, correlated mass transfer and
// correlated pressure drop.
type ROConfig struct {
	ConcentrationPolarization ConcentrationPolarizationType
	MassTransferCoefficient   MassTransferCoefficientType
	PressureChange            PressureChangeType
}

// ReverseOsmosis0D is a solution-diffusion membrane model resolved at the
// channel inlet and outlet (index 0 and 1). Fluxes are evaluated at both ends
// and averaged over the membrane area; the permeate is a single mixed state.
//
// Flux equations follow solution-diffusion: water flux is proportional to net
// driving pressure across the membrane, salt flux to the concentration
// difference, both taken at the membrane interface where polarization
// concentrates the solute.
type ReverseOsmosis0D struct {
	*model.Block

	PropertiesIn       *seawater.StateBlock
	PropertiesOut      *seawater.StateBlock
	PropertiesPermeate *seawater.StateBlock

	// AComp is the membrane water permeability [m/(s Pa)].
	AComp *model.Var
	// BComp is the membrane salt permeability [m/s].
	BComp *model.Var
	// Area is the total membrane area [m2].
	Area *model.Var
	// Width and Length are the flat-sheet channel dimensions [m].
	Width  *model.Var
	Length *model.Var
	// ChannelHeight is the feed channel height [m].
	ChannelHeight *model.Var
	// SpacerPorosity is the feed spacer void fraction.
	SpacerPorosity *model.Var
	// DeltaP is the feed-side pressure change, outlet minus inlet [Pa].
	DeltaP *model.Var
	// RecoveryVol is the volumetric water recovery.
	RecoveryVol *model.Var

	// Per-end quantities, index 0 at the inlet and 1 at the outlet.
	Velocity          [2]*model.Var // crossflow velocity [m/s]
	ReynoldsNumber    [2]*model.Var
	MassTransferCoeff [2]*model.Var // film coefficient kf [m/s]
	FluxMassWater     [2]*model.Var // water mass flux [kg/(m2 s)]
	FluxMassSolute    [2]*model.Var // salt mass flux [kg/(m2 s)]
	MassFracInterface [2]*model.Var // TDS mass fraction at the membrane

	Inlet     *flowsheet.Port
	Retentate *flowsheet.Port
	Permeate  *flowsheet.Port

	cfg ROConfig
}

// NewReverseOsmosis0D creates a reverse-osmosis unit named name under parent.
func NewReverseOsmosis0D(parent *model.Block, name string, props *seawater.ParameterBlock, cfg ROConfig) *ReverseOsmosis0D {
	b := parent.NewBlock(name)
	ro := &ReverseOsmosis0D{Block: b, cfg: cfg}
	ro.PropertiesIn = props.NewStateBlock(b, "properties_in")
	ro.PropertiesOut = props.NewStateBlock(b, "properties_out")
	ro.PropertiesPermeate = props.NewStateBlock(b, "properties_permeate")

	ro.AComp = b.NewVar("A_comp", model.WithInitial(4.2e-12), model.WithUnits("m/(s Pa)"))
	ro.BComp = b.NewVar("B_comp", model.WithInitial(3.5e-8), model.WithUnits("m/s"))
	ro.Area = b.NewVar("area",
		model.WithInitial(50), model.WithLowerBound(1e-8), model.WithUnits("m2"))
	ro.Area.SetScalingFactor(1e-2)
	ro.Width = b.NewVar("width",
		model.WithInitial(5), model.WithLowerBound(1e-8), model.WithUnits("m"))
	ro.Length = b.NewVar("length",
		model.WithInitial(10), model.WithLowerBound(1e-8), model.WithUnits("m"))
	ro.Length.SetScalingFactor(1e-1)
	ro.ChannelHeight = b.NewVar("channel_height",
		model.WithInitial(1e-3), model.WithLowerBound(1e-8), model.WithUnits("m"))
	ro.SpacerPorosity = b.NewVar("spacer_porosity",
		model.WithInitial(0.97), model.WithBounds(1e-8, 1))
	ro.DeltaP = b.NewVar("deltaP", model.WithInitial(-1e5), model.WithUnits("Pa"))
	ro.DeltaP.SetScalingFactor(1e-5)
	ro.RecoveryVol = b.NewVar("recovery_vol_phase",
		model.WithInitial(0.5), model.WithBounds(1e-8, 1-1e-8))

	for x := 0; x < 2; x++ {
		ro.Velocity[x] = b.NewVar(fmt.Sprintf("velocity[%d]", x),
			model.WithInitial(0.15), model.WithLowerBound(1e-8), model.WithUnits("m/s"))
		ro.Velocity[x].SetScalingFactor(10)
		ro.ReynoldsNumber[x] = b.NewVar(fmt.Sprintf("N_Re[%d]", x),
			model.WithInitial(400), model.WithLowerBound(1e-8))
		ro.ReynoldsNumber[x].SetScalingFactor(1e-2)
		ro.MassTransferCoeff[x] = b.NewVar(fmt.Sprintf("Kf[%d]", x),
			model.WithInitial(5e-5), model.WithLowerBound(1e-8), model.WithUnits("m/s"))
		ro.MassTransferCoeff[x].SetScalingFactor(1e4)
		ro.FluxMassWater[x] = b.NewVar(fmt.Sprintf("flux_mass_water[%d]", x),
			model.WithInitial(5e-3), model.WithLowerBound(1e-8), model.WithUnits("kg/(m2 s)"))
		ro.FluxMassWater[x].SetScalingFactor(1e2)
		ro.FluxMassSolute[x] = b.NewVar(fmt.Sprintf("flux_mass_solute[%d]", x),
			model.WithInitial(2e-6), model.WithLowerBound(1e-12), model.WithUnits("kg/(m2 s)"))
		ro.FluxMassSolute[x].SetScalingFactor(1e5)
		ro.MassFracInterface[x] = b.NewVar(fmt.Sprintf("mass_frac_interface[%d]", x),
			model.WithInitial(0.04), model.WithBounds(1e-8, 1))
		ro.MassFracInterface[x].SetScalingFactor(1e2)
	}

	ro.buildConstraints(props)

	ro.Inlet = statePort("inlet", ro.PropertiesIn)
	ro.Retentate = statePort("retentate", ro.PropertiesOut)
	ro.Permeate = statePort("permeate", ro.PropertiesPermeate)
	return ro
}

func (ro *ReverseOsmosis0D) buildConstraints(props *seawater.ParameterBlock) {
	b := ro.Block
	in, out, perm := ro.PropertiesIn, ro.PropertiesOut, ro.PropertiesPermeate
	bulk := [2]*seawater.StateBlock{in, out}

	avgFluxWater := model.Scale(0.5, model.Add(ro.FluxMassWater[0], ro.FluxMassWater[1]))
	avgFluxSolute := model.Scale(0.5, model.Add(ro.FluxMassSolute[0], ro.FluxMassSolute[1]))
	b.Equal("eq_permeate_flow["+seawater.H2O+"]",
		perm.FlowMass[seawater.H2O], model.Mul(ro.Area, avgFluxWater))
	b.Equal("eq_permeate_flow["+seawater.TDS+"]",
		perm.FlowMass[seawater.TDS], model.Mul(ro.Area, avgFluxSolute))

	for _, j := range seawater.Components {
		b.Equal("eq_mass_balance["+j+"]",
			in.FlowMass[j], model.Add(out.FlowMass[j], perm.FlowMass[j]))
	}
	b.Equal("eq_isothermal_retentate", out.Temperature, in.Temperature)
	b.Equal("eq_isothermal_permeate", perm.Temperature, in.Temperature)

	b.Equal("eq_area", ro.Area, model.Mul(ro.Width, ro.Length))
	b.Equal("eq_deltaP", ro.DeltaP, model.Sub(out.Pressure, in.Pressure))
	b.Equal("eq_recovery_vol_phase",
		model.Mul(ro.RecoveryVol, in.FlowVol()), perm.FlowVol())

	// hydraulic diameter of the spacer-filled channel
	dh := model.Div(
		model.Scale(4, model.Mul(ro.SpacerPorosity, ro.ChannelHeight)),
		model.Add(model.Const(2), model.Scale(8, model.Sub(model.Const(1), ro.SpacerPorosity))))

	piPerm := perm.OsmoticPressure()
	concPerm := perm.ConcMass(seawater.TDS)

	for x := 0; x < 2; x++ {
		s := bulk[x]
		rho := s.Density()
		mu := s.Viscosity()

		b.Equal(fmt.Sprintf("eq_velocity[%d]", x),
			model.Mul(ro.Velocity[x], ro.Width, ro.ChannelHeight, ro.SpacerPorosity),
			s.FlowVol())

		b.Equal(fmt.Sprintf("eq_N_Re[%d]", x),
			model.Mul(ro.ReynoldsNumber[x], mu),
			model.Mul(rho, ro.Velocity[x], dh))

		if ro.cfg.MassTransferCoefficient == MassTransferCoefficientCalculated {
			// Sh = 0.46 (Re Sc)^0.36, kf = Sh D / dh
			sc := model.Div(mu, model.Mul(rho, props.Diffusivity()))
			b.Equal(fmt.Sprintf("eq_Kf[%d]", x),
				model.Mul(ro.MassTransferCoeff[x], dh),
				model.Mul(
					model.Scale(0.46, model.Pow(model.Mul(ro.ReynoldsNumber[x], sc), 0.36)),
					props.Diffusivity()))
		}

		if ro.cfg.ConcentrationPolarization == ConcentrationPolarizationCalculated {
			b.Equal(fmt.Sprintf("eq_concentration_polarization[%d]", x),
				ro.MassFracInterface[x],
				model.Mul(s.MassFrac(seawater.TDS),
					model.Exp(model.Div(ro.FluxMassWater[x],
						model.Mul(rho, ro.MassTransferCoeff[x])))))
		} else {
			b.Equal(fmt.Sprintf("eq_concentration_polarization[%d]", x),
				ro.MassFracInterface[x], s.MassFrac(seawater.TDS))
		}

		piInterface := props.OsmoticPressure(in.Temperature, ro.MassFracInterface[x])
		ndp := model.Sub(model.Sub(s.Pressure, perm.Pressure),
			model.Sub(piInterface, piPerm))
		b.Equal(fmt.Sprintf("eq_flux_mass_water[%d]", x),
			ro.FluxMassWater[x],
			model.Mul(ro.AComp, model.Const(waterDensity), ndp))

		concInterface := model.Mul(props.Density(ro.MassFracInterface[x]), ro.MassFracInterface[x])
		b.Equal(fmt.Sprintf("eq_flux_mass_solute[%d]", x),
			ro.FluxMassSolute[x],
			model.Mul(ro.BComp, model.Sub(concInterface, concPerm)))
	}

	if ro.cfg.PressureChange == PressureChangeCalculated {
		// Darcy-Weisbach with f = 0.42 + 189.3/Re, averaged over the ends
		loss := func(x int) model.Expr {
			f := model.Add(model.Const(0.42),
				model.Div(model.Const(189.3), ro.ReynoldsNumber[x]))
			return model.Mul(f, bulk[x].Density(), ro.Velocity[x], ro.Velocity[x])
		}
		b.Equal("eq_pressure_drop",
			model.Mul(model.Const(2), dh, ro.DeltaP),
			model.Neg(model.Mul(ro.Length, model.Scale(0.5, model.Add(loss(0), loss(1))))))
	}
}

// Config returns the unit configuration.
func (ro *ReverseOsmosis0D) Config() ROConfig { return ro.cfg }

// Initialize estimates geometry, fluxes and outlet states from the current
// inlet values and the fixed specifications, then solves the unit with the
// inlet held. The estimates assume near-total salt rejection, which is where
// seawater membranes operate.
func (ro *ReverseOsmosis0D) Initialize(opts ...solver.Option) error {
	release := holdState(ro.PropertiesIn)
	defer release()

	in, out, perm := ro.PropertiesIn, ro.PropertiesOut, ro.PropertiesPermeate
	props := in.Params()
	set := func(v *model.Var, value float64) {
		if !v.Fixed() {
			v.SetValue(value)
		}
	}

	set(out.Temperature, in.Temperature.Value())
	set(perm.Temperature, in.Temperature.Value())

	dp := ro.DeltaP.Value()
	if dp >= 0 {
		dp = -0.5e5
		set(ro.DeltaP, dp)
	}
	set(out.Pressure, in.Pressure.Value()+dp)

	qIn := in.FlowVol().Eval()
	recovery := ro.RecoveryVol.Value()
	qPerm := recovery * qIn

	mfIn := in.MassFrac(seawater.TDS).Eval()
	mfPerm := 0.01 * mfIn
	rhoPerm := props.Density(model.Const(mfPerm)).Eval()
	totalPerm := qPerm * rhoPerm
	set(perm.FlowMass[seawater.TDS], totalPerm*mfPerm)
	set(perm.FlowMass[seawater.H2O], totalPerm*(1-mfPerm))

	for _, j := range seawater.Components {
		set(out.FlowMass[j], math.Max(in.FlowMass[j].Value()-perm.FlowMass[j].Value(), 1e-8))
	}

	h := ro.ChannelHeight.Value()
	eps := ro.SpacerPorosity.Value()
	v0 := ro.Velocity[0].Value()
	width := ro.Width.Value()
	if !ro.Width.Fixed() && v0 > 0 {
		width = qIn / (v0 * h * eps)
		ro.Width.SetValue(width)
	}
	qOut := out.FlowVol().Eval()
	set(ro.Velocity[1], qOut/(width*h*eps))

	mfOut := out.MassFrac(seawater.TDS).Eval()
	mfInt := [2]float64{1.1 * mfIn, 1.1 * mfOut}
	set(ro.MassFracInterface[0], mfInt[0])
	set(ro.MassFracInterface[1], mfInt[1])

	piPerm := perm.OsmoticPressure().Eval()
	concPerm := perm.ConcMass(seawater.TDS).Eval()
	pBulk := [2]float64{in.Pressure.Value(), out.Pressure.Value()}
	tIn := model.Const(in.Temperature.Value())
	a := ro.AComp.Value()
	bp := ro.BComp.Value()
	var fluxWater [2]float64
	for x := 0; x < 2; x++ {
		piInt := props.OsmoticPressure(tIn, model.Const(mfInt[x])).Eval()
		ndp := pBulk[x] - perm.Pressure.Value() - (piInt - piPerm)
		fluxWater[x] = a * waterDensity * ndp
		concInt := props.Density(model.Const(mfInt[x])).Eval() * mfInt[x]
		set(ro.FluxMassSolute[x], math.Max(bp*(concInt-concPerm), 1e-12))
	}
	if fluxWater[0] <= 0 {
		return fmt.Errorf("units: initialize %s: no positive water flux at the inlet (check pressures)", ro.Name())
	}
	if fluxWater[1] <= 0 {
		fluxWater[1] = 0.1 * fluxWater[0]
	}
	set(ro.FluxMassWater[0], fluxWater[0])
	set(ro.FluxMassWater[1], fluxWater[1])

	avgFlux := 0.5 * (fluxWater[0] + fluxWater[1])
	area := ro.Area.Value()
	if !ro.Area.Fixed() {
		area = perm.FlowMass[seawater.H2O].Value() / avgFlux
		ro.Area.SetValue(area)
	}
	set(ro.Length, area/width)

	dh := 4 * eps * h / (2 + 8*(1-eps))
	diff := props.Diffusivity().Eval()
	bulk := [2]*seawater.StateBlock{in, out}
	for x := 0; x < 2; x++ {
		rho := bulk[x].Density().Eval()
		mu := bulk[x].Viscosity().Eval()
		re := rho * ro.Velocity[x].Value() * dh / mu
		set(ro.ReynoldsNumber[x], re)
		sc := mu / (rho * diff)
		sh := 0.46 * math.Pow(re*sc, 0.36)
		set(ro.MassTransferCoeff[x], sh*diff/dh)
	}

	return initializeBlock(ro.Block, opts...)
}
