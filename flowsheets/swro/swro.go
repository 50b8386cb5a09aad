// Package swro assembles and drives the seawater reverse-osmosis train:
// feed, high-pressure pump, membrane, energy recovery device and two sinks,
// with process costing. It exposes the study pipeline as functions: build,
// specify, initialize, solve, then optionally release the design variables
// and optimize the levelized cost of water.
package swro

import (
	"fmt"
	"io"

	"github.com/aquasim-org/aquasim/costing"
	"github.com/aquasim-org/aquasim/flowsheet"
	"github.com/aquasim-org/aquasim/logger"
	"github.com/aquasim-org/aquasim/model"
	"github.com/aquasim-org/aquasim/properties/seawater"
	"github.com/aquasim-org/aquasim/solver"
	"github.com/aquasim-org/aquasim/units"
)

// Model is the assembled flowsheet with handles to every unit and stream.
type Model struct {
	Root *model.Block
	FS   *flowsheet.Flowsheet

	Properties *seawater.ParameterBlock
	Costing    *costing.Costing

	Feed     *units.Feed
	Pump     *units.PressureChanger
	RO       *units.ReverseOsmosis0D
	ERD      *units.PressureChanger
	Product  *units.Product
	Disposal *units.Product

	// Streams: feed->pump, pump->RO, RO permeate->product,
	// RO retentate->ERD, ERD->disposal.
	S01, S02, S03, S04, S05 *flowsheet.Arc
}

// Build assembles the flowsheet: property package, units, costing, arcs and
// scaling. The returned model has no specifications yet; call
// SetOperatingConditions next.
func Build() (*Model, error) {
	log := logger.Logger()
	root := model.NewBlock("m")
	fs := flowsheet.New(root, "fs", flowsheet.Config{Dynamic: false})

	props := seawater.NewParameterBlock(fs.Block, "properties")
	props.SetDefaultScaling("flow_mass_phase_comp", 1, seawater.Phase, seawater.H2O)
	props.SetDefaultScaling("flow_mass_phase_comp", 1e2, seawater.Phase, seawater.TDS)
	props.SetDefaultScaling("pressure", 1e-5)

	m := &Model{Root: root, FS: fs, Properties: props}
	m.Costing = costing.New(fs.Block, "costing")

	m.Feed = units.NewFeed(fs.Block, "feed", props)
	m.Pump = units.NewPump(fs.Block, "P1", props)
	m.RO = units.NewReverseOsmosis0D(fs.Block, "RO", props, units.ROConfig{})
	m.ERD = units.NewEnergyRecoveryDevice(fs.Block, "ERD", props)
	m.Product = units.NewProduct(fs.Block, "product", props)
	m.Disposal = units.NewProduct(fs.Block, "disposal", props)

	m.Costing.CostHighPressurePump(m.Pump)
	m.Costing.CostReverseOsmosis(m.RO)
	m.Costing.CostEnergyRecoveryDevice(m.ERD)
	m.Costing.CostProcess()
	productFlow := m.Product.Properties.FlowVol()
	m.Costing.AddAnnualWaterProduction(productFlow)
	m.Costing.AddLCOW()
	m.Costing.AddSpecificEnergyConsumption(productFlow)

	m.S01 = fs.NewArc("s01", m.Feed.Outlet, m.Pump.Inlet)
	m.S02 = fs.NewArc("s02", m.Pump.Outlet, m.RO.Inlet)
	m.S03 = fs.NewArc("s03", m.RO.Permeate, m.Product.Inlet)
	m.S04 = fs.NewArc("s04", m.RO.Retentate, m.ERD.Inlet)
	m.S05 = fs.NewArc("s05", m.ERD.Outlet, m.Disposal.Inlet)
	if err := fs.ExpandArcs(); err != nil {
		return nil, err
	}

	m.Pump.WorkMechanical.SetScalingFactor(1e-3)
	m.ERD.WorkMechanical.SetScalingFactor(1e-3)
	m.RO.Area.SetScalingFactor(1e-2)
	model.CalculateScalingFactors(root)

	log.Debug().Int("variables", len(root.Vars())).
		Int("equalities", len(model.ActiveEqualities(root))).
		Msg("flowsheet built")
	return m, nil
}

// OperatingConditions are the flowsheet specifications consumed by
// SetOperatingConditions.
type OperatingConditions struct {
	FeedFlowVol     float64 // m3/s
	FeedMassFracTDS float64
	FeedPressure    float64 // Pa
	FeedTemperature float64 // K

	PumpEfficiency    float64
	OperatingPressure float64 // Pa, pump outlet

	MembraneAComp    float64 // m/(s Pa)
	MembraneBComp    float64 // m/s
	ChannelHeight    float64 // m
	SpacerPorosity   float64
	PermeatePressure float64 // Pa
	InletVelocity    float64 // m/s
	RecoveryVol      float64

	ERDEfficiency     float64
	ERDOutletPressure float64 // Pa
}

// DefaultOperatingConditions returns the base case: 1 L/s of standard
// seawater pumped to 75 bar for 50 % recovery.
func DefaultOperatingConditions() OperatingConditions {
	return OperatingConditions{
		FeedFlowVol:       1e-3,
		FeedMassFracTDS:   0.035,
		FeedPressure:      101325,
		FeedTemperature:   298.15,
		PumpEfficiency:    0.8,
		OperatingPressure: 75e5,
		MembraneAComp:     4.2e-12,
		MembraneBComp:     3.5e-8,
		ChannelHeight:     1e-3,
		SpacerPorosity:    0.97,
		PermeatePressure:  101325,
		InletVelocity:     0.15,
		RecoveryVol:       0.5,
		ERDEfficiency:     0.8,
		ERDOutletPressure: 101325,
	}
}

// SetOperatingConditions fixes the flowsheet specifications and verifies the
// model is square. A nonzero degree-of-freedom count is returned as a typed
// *model.DegreesOfFreedomError.
func (m *Model) SetOperatingConditions(oc OperatingConditions) error {
	feed := m.Feed.Properties
	feed.Temperature.Fix(oc.FeedTemperature)
	feed.Pressure.Fix(oc.FeedPressure)
	if err := feed.CalculateState(seawater.StateArgs{
		FlowVol:     oc.FeedFlowVol,
		MassFracTDS: oc.FeedMassFracTDS,
		Hold:        true,
	}); err != nil {
		return fmt.Errorf("swro: feed state: %w", err)
	}

	m.Pump.Efficiency.Fix(oc.PumpEfficiency)
	m.Pump.PropertiesOut.Pressure.Fix(oc.OperatingPressure)

	m.RO.AComp.Fix(oc.MembraneAComp)
	m.RO.BComp.Fix(oc.MembraneBComp)
	m.RO.ChannelHeight.Fix(oc.ChannelHeight)
	m.RO.SpacerPorosity.Fix(oc.SpacerPorosity)
	m.RO.PropertiesPermeate.Pressure.Fix(oc.PermeatePressure)
	m.RO.Velocity[0].Fix(oc.InletVelocity)
	m.RO.RecoveryVol.Fix(oc.RecoveryVol)

	m.ERD.Efficiency.Fix(oc.ERDEfficiency)
	m.ERD.PropertiesOut.Pressure.Fix(oc.ERDOutletPressure)

	return model.AssertDegreesOfFreedom(m.Root, 0)
}

// InitializeSystem walks the train in flow order, propagating each solved
// outlet to the next inlet and initializing every unit, then seeds the
// costing variables. The flowsheet must be square.
func (m *Model) InitializeSystem(opts ...solver.Option) error {
	log := logger.Logger()

	if err := m.Feed.Initialize(opts...); err != nil {
		return err
	}
	m.S01.Propagate()
	if err := m.Pump.Initialize(opts...); err != nil {
		return err
	}
	m.S02.Propagate()
	if err := m.RO.Initialize(opts...); err != nil {
		return err
	}
	m.S03.Propagate()
	m.S04.Propagate()
	if err := m.ERD.Initialize(opts...); err != nil {
		return err
	}
	m.S05.Propagate()
	if err := m.Product.Initialize(opts...); err != nil {
		return err
	}
	if err := m.Disposal.Initialize(opts...); err != nil {
		return err
	}

	m.Costing.Initialize()
	log.Debug().Msg("flowsheet initialized")
	return nil
}

// Solve runs the flowsheet solve and requires optimal termination.
func (m *Model) Solve(opts ...solver.Option) (solver.Results, error) {
	res, err := solver.Solve(m.Root, opts...)
	if err != nil {
		return res, err
	}
	if err := solver.AssertOptimalTermination(res); err != nil {
		return res, err
	}
	log := logger.Logger()
	log.Info().
		Int("iterations", res.Iterations).
		Float64("residual", res.Residual).
		Msg("flowsheet solved")
	return res, nil
}

// OptimizeSetUp converts the square simulation into a design optimization:
// LCOW objective, pump pressure and membrane inlet velocity released as
// decisions, design bounds, and product quality and minimum-flux
// requirements. Exactly two degrees of freedom must remain.
func (m *Model) OptimizeSetUp() error {
	m.FS.Minimize("objective", m.Costing.LCOW)

	m.Pump.PropertiesOut.Pressure.Unfix()
	m.Pump.PropertiesOut.Pressure.SetBounds(10e5, 85e5)
	m.Pump.DeltaP.SetLB(0)

	m.RO.Velocity[0].Unfix()
	m.RO.Velocity[0].SetBounds(0.01, 1)
	m.RO.Area.SetBounds(1, 150)

	quality := m.FS.RequireLessOrEqual("eq_product_quality",
		m.Product.Properties.MassFrac(seawater.TDS), model.Const(500e-6))
	quality.SetScalingFactor(1e3)

	// at least 1 L/(m2 h) of water flux at the dilute end of the module
	m.FS.RequireGreaterOrEqual("eq_minimum_water_flux",
		m.RO.FluxMassWater[1], model.Const(1.0/3600))

	return model.AssertDegreesOfFreedom(m.Root, 2)
}

// Decisions returns the design variables released by OptimizeSetUp.
func (m *Model) Decisions() []*model.Var {
	return []*model.Var{m.Pump.PropertiesOut.Pressure, m.RO.Velocity[0]}
}

// Optimize minimizes the objective over the released design variables and
// requires optimal termination.
func (m *Model) Optimize(opts ...solver.Option) (solver.Results, error) {
	opts = append(opts, solver.WithDecisions(m.Decisions()...))
	res, err := solver.Solve(m.Root, opts...)
	if err != nil {
		return res, err
	}
	if err := solver.AssertOptimalTermination(res); err != nil {
		return res, err
	}
	log := logger.Logger()
	log.Info().
		Float64("objective", res.Objective).
		Int("evaluations", res.FunctionEvaluations).
		Msg("flowsheet optimized")
	return res, nil
}

// DisplaySystem writes the system-level report and returns the headline
// metrics keyed by name.
func (m *Model) DisplaySystem(w io.Writer) map[string]float64 {
	feedFlow := m.Feed.Properties.FlowVol().Eval()
	prodFlow := m.Product.Properties.FlowVol().Eval()
	prodTDS := m.Product.Properties.MassFrac(seawater.TDS).Eval()
	recovery := prodFlow / feedFlow
	out := map[string]float64{
		"feed_flow_vol":               feedFlow,
		"product_flow_vol":            prodFlow,
		"product_mass_frac_TDS":       prodTDS,
		"volumetric_recovery":         recovery,
		"LCOW":                        m.Costing.LCOW.Value(),
		"specific_energy_consumption": m.Costing.SpecificEnergyConsumption.Value(),
	}

	fmt.Fprintf(w, "---system metrics---\n")
	fmt.Fprintf(w, "feed flow:        %10.6f m3/s\n", feedFlow)
	fmt.Fprintf(w, "product flow:     %10.6f m3/s\n", prodFlow)
	fmt.Fprintf(w, "product TDS:      %10.3e kg/kg\n", prodTDS)
	fmt.Fprintf(w, "recovery:         %10.4f\n", recovery)
	fmt.Fprintf(w, "SEC:              %10.4f kWh/m3\n", out["specific_energy_consumption"])
	fmt.Fprintf(w, "LCOW:             %10.4f $/m3\n", out["LCOW"])
	return out
}

// DisplayDesign writes the equipment design report.
func (m *Model) DisplayDesign(w io.Writer) {
	fmt.Fprintf(w, "---design variables---\n")
	fmt.Fprintf(w, "pump outlet pressure: %10.2f bar\n", m.Pump.PropertiesOut.Pressure.Value()/1e5)
	fmt.Fprintf(w, "pump work:            %10.2f kW\n", m.Pump.WorkMechanical.Value()/1e3)
	fmt.Fprintf(w, "membrane area:        %10.2f m2\n", m.RO.Area.Value())
	fmt.Fprintf(w, "membrane width:       %10.2f m\n", m.RO.Width.Value())
	fmt.Fprintf(w, "membrane length:      %10.2f m\n", m.RO.Length.Value())
	fmt.Fprintf(w, "inlet velocity:       %10.4f m/s\n", m.RO.Velocity[0].Value())
	fmt.Fprintf(w, "ERD power recovered:  %10.2f kW\n", -m.ERD.WorkMechanical.Value()/1e3)
}

// DisplayState writes the stream table.
func (m *Model) DisplayState(w io.Writer) {
	fmt.Fprintf(w, "---stream table---\n")
	fmt.Fprintf(w, "%-10s %12s %12s %10s %10s\n",
		"stream", "H2O [kg/s]", "TDS [kg/s]", "T [K]", "P [bar]")
	rows := []struct {
		name string
		s    *seawater.StateBlock
	}{
		{"feed", m.Feed.Properties},
		{"to RO", m.Pump.PropertiesOut},
		{"permeate", m.RO.PropertiesPermeate},
		{"retentate", m.RO.PropertiesOut},
		{"disposal", m.Disposal.Properties},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%-10s %12.6f %12.6f %10.2f %10.3f\n",
			r.name,
			r.s.FlowMass[seawater.H2O].Value(),
			r.s.FlowMass[seawater.TDS].Value(),
			r.s.Temperature.Value(),
			r.s.Pressure.Value()/1e5)
	}
}
