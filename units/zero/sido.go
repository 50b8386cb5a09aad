package zero

import (
	"fmt"
	"io"
	"sort"

	"github.com/aquasim-org/aquasim/flowsheet"
	"github.com/aquasim-org/aquasim/model"
	"github.com/aquasim-org/aquasim/properties/water"
	"github.com/aquasim-org/aquasim/solver"
)

// SIDO is the single-inlet double-outlet base shared by zero-order units.
// Water splits by a recovery fraction, each solute by a removal fraction,
// and electricity demand scales with inlet volumetric flow.
type SIDO struct {
	*model.Block

	PropertiesIn        *water.StateBlock
	PropertiesTreated   *water.StateBlock
	PropertiesByproduct *water.StateBlock

	// RecoveryFracMassH2O is the water fraction reporting to the treated
	// outlet.
	RecoveryFracMassH2O *model.Var
	// RemovalFracMassSolute is the per-solute fraction reporting to the
	// byproduct outlet.
	RemovalFracMassSolute map[string]*model.Var
	// Electricity is the power demand [kW].
	Electricity *model.Var
	// EnergyElectricFlowVolInlet is the electricity intensity [kWh/m3].
	EnergyElectricFlowVolInlet *model.Var

	Inlet     *flowsheet.Port
	Treated   *flowsheet.Port
	Byproduct *flowsheet.Port
}

// NewSIDO creates a zero-order splitter named name under parent.
func NewSIDO(parent *model.Block, name string, props *water.ParameterBlock) *SIDO {
	b := parent.NewBlock(name)
	u := &SIDO{
		Block:                 b,
		RemovalFracMassSolute: make(map[string]*model.Var),
	}
	u.PropertiesIn = props.NewStateBlock(b, "properties_in")
	u.PropertiesTreated = props.NewStateBlock(b, "properties_treated")
	u.PropertiesByproduct = props.NewStateBlock(b, "properties_byproduct")

	u.RecoveryFracMassH2O = b.NewVar("recovery_frac_mass_H2O",
		model.WithInitial(0.8), model.WithBounds(1e-8, 1))
	for _, j := range props.Solutes() {
		u.RemovalFracMassSolute[j] = b.NewVar("removal_frac_mass_comp["+j+"]",
			model.WithInitial(0.01), model.WithBounds(0, 1))
	}
	u.Electricity = b.NewVar("electricity",
		model.WithInitial(1), model.WithLowerBound(0), model.WithUnits("kW"))
	u.EnergyElectricFlowVolInlet = b.NewVar("energy_electric_flow_vol_inlet",
		model.WithInitial(0.1), model.WithLowerBound(0), model.WithUnits("kWh/m3"))

	in, tr, by := u.PropertiesIn, u.PropertiesTreated, u.PropertiesByproduct
	b.Equal("eq_water_recovery",
		tr.FlowMass[water.H2O],
		model.Mul(u.RecoveryFracMassH2O, in.FlowMass[water.H2O]))
	for _, j := range props.Components() {
		b.Equal("eq_mass_balance["+j+"]",
			in.FlowMass[j], model.Add(tr.FlowMass[j], by.FlowMass[j]))
	}
	for _, j := range props.Solutes() {
		b.Equal("eq_solute_removal["+j+"]",
			by.FlowMass[j],
			model.Mul(u.RemovalFracMassSolute[j], in.FlowMass[j]))
	}
	// electricity [kW] from intensity [kWh/m3] and inlet flow [m3/h]
	b.Equal("eq_electricity",
		u.Electricity,
		model.Mul(u.EnergyElectricFlowVolInlet, model.Scale(3600, in.FlowVol())))

	u.Inlet = flowPort("inlet", in, props)
	u.Treated = flowPort("treated", tr, props)
	u.Byproduct = flowPort("byproduct", by, props)
	return u
}

func flowPort(name string, s *water.StateBlock, props *water.ParameterBlock) *flowsheet.Port {
	p := flowsheet.NewPort(name)
	for _, j := range props.Components() {
		p.Add("flow_mass_comp["+j+"]", s.FlowMass[j])
	}
	return p
}

// LoadParametersFromDatabase fixes the performance variables from the
// database entry for the given technology and subtype. Solutes missing from
// the entry get the default removal.
func (u *SIDO) LoadParametersFromDatabase(db *Database, technology, subtype string) error {
	p, err := db.UnitParameters(technology, subtype)
	if err != nil {
		return err
	}
	u.RecoveryFracMassH2O.Fix(p.RecoveryFracMassH2O)
	for j, v := range u.RemovalFracMassSolute {
		v.Fix(p.Removal(j))
	}
	u.EnergyElectricFlowVolInlet.Fix(p.EnergyElectricFlowVolInlet)
	return nil
}

// Initialize computes both outlets from the inlet and the fixed fractions,
// then solves the unit with the inlet held.
func (u *SIDO) Initialize(opts ...solver.Option) error {
	props := u.PropertiesIn.Params()

	var held []*model.Var
	for _, j := range props.Components() {
		if v := u.PropertiesIn.FlowMass[j]; !v.Fixed() {
			v.Fix()
			held = append(held, v)
		}
	}
	defer func() {
		for _, v := range held {
			v.Unfix()
		}
	}()

	in, tr, by := u.PropertiesIn, u.PropertiesTreated, u.PropertiesByproduct
	rec := u.RecoveryFracMassH2O.Value()
	if !tr.FlowMass[water.H2O].Fixed() {
		tr.FlowMass[water.H2O].SetValue(rec * in.FlowMass[water.H2O].Value())
	}
	if !by.FlowMass[water.H2O].Fixed() {
		by.FlowMass[water.H2O].SetValue((1 - rec) * in.FlowMass[water.H2O].Value())
	}
	for _, j := range props.Solutes() {
		rem := u.RemovalFracMassSolute[j].Value()
		if !by.FlowMass[j].Fixed() {
			by.FlowMass[j].SetValue(rem * in.FlowMass[j].Value())
		}
		if !tr.FlowMass[j].Fixed() {
			tr.FlowMass[j].SetValue((1 - rem) * in.FlowMass[j].Value())
		}
	}
	if !u.Electricity.Fixed() {
		u.Electricity.SetValue(
			u.EnergyElectricFlowVolInlet.Value() * 3600 * in.FlowVol().Eval())
	}

	model.CalculateScalingFactors(u.Block)
	res, err := solver.Solve(u.Block, opts...)
	if err != nil {
		return fmt.Errorf("zero: initialize %s: %w", u.Name(), err)
	}
	if err := solver.AssertOptimalTermination(res); err != nil {
		return fmt.Errorf("zero: initialize %s: %w", u.Name(), err)
	}
	return nil
}

// Report writes a performance summary: inlet/outlet flows, per-solute
// removal and electricity demand.
func (u *SIDO) Report(w io.Writer) {
	props := u.PropertiesIn.Params()
	fmt.Fprintf(w, "%s performance\n", u.Name())
	fmt.Fprintf(w, "  inlet flow:      %.6g m3/s\n", u.PropertiesIn.FlowVol().Eval())
	fmt.Fprintf(w, "  treated flow:    %.6g m3/s\n", u.PropertiesTreated.FlowVol().Eval())
	fmt.Fprintf(w, "  byproduct flow:  %.6g m3/s\n", u.PropertiesByproduct.FlowVol().Eval())
	fmt.Fprintf(w, "  water recovery:  %.4f\n", u.RecoveryFracMassH2O.Value())

	solutes := append([]string(nil), props.Solutes()...)
	sort.Strings(solutes)
	for _, j := range solutes {
		fmt.Fprintf(w, "  removal %-16s %.4f\n", j+":", u.RemovalFracMassSolute[j].Value())
	}
	fmt.Fprintf(w, "  electricity:     %.6g kW\n", u.Electricity.Value())
}
