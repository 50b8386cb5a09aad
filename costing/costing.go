// Package costing prices a flowsheet: unit capital costs, an electricity
// flow register, process-level aggregation and the derived metrics used to
// compare designs (levelized cost of water, specific energy consumption).
//
// Cost parameters are fixed variables, not constants, so a study can re-fix
// one (say the membrane price) and re-optimize without rebuilding the model.
// Every derived quantity is a variable tied to its definition by an equality
// constraint, which keeps the costing block square and lets the optimizer
// minimize a costing variable directly.
package costing

import (
	"fmt"
	"io"

	"github.com/aquasim-org/aquasim/model"
	"github.com/aquasim-org/aquasim/units"
)

const (
	hoursPerYear = 8760.0

	// erdCostExponent is the economy-of-scale exponent of the pressure
	// exchanger power law.
	erdCostExponent = 0.79
)

// Costing is the flowsheet-level costing block.
type Costing struct {
	*model.Block

	// Global cost parameters, fixed at construction.
	UtilizationFactor              *model.Var // plant availability
	ElectricityCost                *model.Var // $/kWh
	TotalInvestmentFactor          *model.Var // total capital per direct capital
	MaintenanceLaborChemicalFactor *model.Var // fraction of total capital per year
	CapitalRecoveryFactor          *model.Var // 1/yr
	ReverseOsmosisMembraneCost     *model.Var // $/m2
	ReverseOsmosisReplacementRate  *model.Var // membrane fraction replaced per year
	HighPressurePumpCost           *model.Var // $/W
	EnergyRecoveryDeviceCost       *model.Var // $/(m3/h)^0.79

	// Aggregates, created by CostProcess.
	AggregateCapitalCost        *model.Var // $
	TotalCapitalCost            *model.Var // $
	AggregateFixedOperatingCost *model.Var // $/yr
	MaintenanceLaborChemical    *model.Var // $/yr
	AggregateFlowElectricity    *model.Var // kW, net
	AggregateElectricityCost    *model.Var // $/yr
	TotalOperatingCost          *model.Var // $/yr

	// Metrics, created by the Add* methods.
	AnnualWaterProduction     *model.Var // m3/yr
	LCOW                      *model.Var // $/m3
	SpecificEnergyConsumption *model.Var // kWh/m3

	capital        []model.Expr
	fixedOperating []model.Expr
	electricity    []model.Expr // W, consumption positive
	derived        []derivedVar
}

type derivedVar struct {
	v   *model.Var
	rhs model.Expr
}

// New creates the costing block named name under parent with default cost
// parameters.
func New(parent *model.Block, name string) *Costing {
	b := parent.NewBlock(name)
	c := &Costing{Block: b}

	param := func(name string, value float64, unit string) *model.Var {
		v := b.NewVar(name, model.WithInitial(value), model.WithUnits(unit))
		v.Fix()
		return v
	}
	c.UtilizationFactor = param("utilization_factor", 0.9, "")
	c.ElectricityCost = param("electricity_cost", 0.07, "$/kWh")
	c.TotalInvestmentFactor = param("total_investment_factor", 2, "")
	c.MaintenanceLaborChemicalFactor = param("maintenance_labor_chemical_factor", 0.03, "1/yr")
	c.CapitalRecoveryFactor = param("capital_recovery_factor", 0.1, "1/yr")
	c.ReverseOsmosisMembraneCost = param("reverse_osmosis_membrane_cost", 30, "$/m2")
	c.ReverseOsmosisReplacementRate = param("reverse_osmosis_replacement_rate", 0.2, "1/yr")
	c.HighPressurePumpCost = param("high_pressure_pump_cost", 1.4, "$/W")
	c.EnergyRecoveryDeviceCost = param("energy_recovery_device_cost", 535, "$/(m3/h)^0.79")
	return c
}

// derive creates a variable defined by an equality constraint on the given
// block and records it for ordered initialization.
func (c *Costing) derive(b *model.Block, name string, rhs model.Expr, sf float64) *model.Var {
	v := b.NewVar(name)
	v.SetScalingFactor(sf)
	b.Equal("eq_"+name, v, rhs)
	c.derived = append(c.derived, derivedVar{v, rhs})
	return v
}

// UnitCosting holds the cost variables of one costed unit, living on a
// "costing" sub-block of the unit itself.
type UnitCosting struct {
	*model.Block

	// CapitalCost [$].
	CapitalCost *model.Var
	// FixedOperatingCost [$/yr]; nil when the unit has none.
	FixedOperatingCost *model.Var
}

func (c *Costing) newUnitCosting(unit *model.Block, capital model.Expr) *UnitCosting {
	b := unit.NewBlock("costing")
	uc := &UnitCosting{Block: b}
	uc.CapitalCost = c.derive(b, "capital_cost", capital, 1e-4)
	c.capital = append(c.capital, uc.CapitalCost)
	return uc
}

// CostHighPressurePump prices a pump at a cost per watt of shaft work and
// registers its electricity demand.
func (c *Costing) CostHighPressurePump(p *units.PressureChanger) *UnitCosting {
	uc := c.newUnitCosting(p.Block, model.Mul(c.HighPressurePumpCost, p.WorkMechanical))
	c.RegisterElectricityFlow(p.WorkMechanical)
	return uc
}

// CostEnergyRecoveryDevice prices a pressure exchanger with a power law on
// the inlet volumetric flow and credits its recovered electricity (the work
// of a turbine-type pressure changer is negative).
func (c *Costing) CostEnergyRecoveryDevice(erd *units.PressureChanger) *UnitCosting {
	flowHourly := model.Scale(3600, erd.PropertiesIn.FlowVol())
	capital := model.Mul(c.EnergyRecoveryDeviceCost, model.Pow(flowHourly, erdCostExponent))
	uc := c.newUnitCosting(erd.Block, capital)
	c.RegisterElectricityFlow(erd.WorkMechanical)
	return uc
}

// CostReverseOsmosis prices a membrane unit per unit area, with an annual
// replacement charge as fixed operating cost.
func (c *Costing) CostReverseOsmosis(ro *units.ReverseOsmosis0D) *UnitCosting {
	capital := model.Mul(c.ReverseOsmosisMembraneCost, ro.Area)
	uc := c.newUnitCosting(ro.Block, capital)
	uc.FixedOperatingCost = c.derive(uc.Block, "fixed_operating_cost",
		model.Mul(c.ReverseOsmosisReplacementRate, c.ReverseOsmosisMembraneCost, ro.Area), 1e-3)
	c.fixedOperating = append(c.fixedOperating, uc.FixedOperatingCost)
	return uc
}

// RegisterElectricityFlow adds a power draw [W] to the process electricity
// balance. Negative expressions are credits.
func (c *Costing) RegisterElectricityFlow(power model.Expr) {
	c.electricity = append(c.electricity, power)
}

// CostProcess aggregates the registered unit costs and flows into process
// totals. Call after all units are costed.
func (c *Costing) CostProcess() {
	c.AggregateCapitalCost = c.derive(c.Block, "aggregate_capital_cost",
		model.Sum(c.capital...), 1e-4)
	c.TotalCapitalCost = c.derive(c.Block, "total_capital_cost",
		model.Mul(c.TotalInvestmentFactor, c.AggregateCapitalCost), 1e-4)

	c.AggregateFixedOperatingCost = c.derive(c.Block, "aggregate_fixed_operating_cost",
		model.Sum(c.fixedOperating...), 1e-3)
	c.MaintenanceLaborChemical = c.derive(c.Block, "maintenance_labor_chemical",
		model.Mul(c.MaintenanceLaborChemicalFactor, c.TotalCapitalCost), 1e-3)

	c.AggregateFlowElectricity = c.derive(c.Block, "aggregate_flow_electricity",
		model.Scale(1e-3, model.Sum(c.electricity...)), 1)
	c.AggregateElectricityCost = c.derive(c.Block, "aggregate_electricity_cost",
		model.Mul(c.ElectricityCost, c.AggregateFlowElectricity,
			model.Scale(hoursPerYear, c.UtilizationFactor)), 1e-3)

	c.TotalOperatingCost = c.derive(c.Block, "total_operating_cost",
		model.Sum(c.AggregateFixedOperatingCost, c.MaintenanceLaborChemical,
			c.AggregateElectricityCost), 1e-3)
}

// AddAnnualWaterProduction registers the plant product stream [m3/s] and
// derives the annual production.
func (c *Costing) AddAnnualWaterProduction(productFlowVol model.Expr) {
	c.AnnualWaterProduction = c.derive(c.Block, "annual_water_production",
		model.Mul(model.Scale(3600*hoursPerYear, productFlowVol), c.UtilizationFactor), 1e-4)
}

// AddLCOW derives the levelized cost of water [$ per m3 of product].
// CostProcess and AddAnnualWaterProduction must have run first.
func (c *Costing) AddLCOW() {
	if c.TotalCapitalCost == nil || c.AnnualWaterProduction == nil {
		panic("costing: AddLCOW requires CostProcess and AddAnnualWaterProduction")
	}
	annualized := model.Add(
		model.Mul(c.CapitalRecoveryFactor, c.TotalCapitalCost),
		c.TotalOperatingCost)
	c.LCOW = c.derive(c.Block, "LCOW",
		model.Div(annualized, c.AnnualWaterProduction), 1)
}

// AddSpecificEnergyConsumption derives the net electricity use per m3 of
// product [kWh/m3]. CostProcess must have run first.
func (c *Costing) AddSpecificEnergyConsumption(productFlowVol model.Expr) {
	if c.AggregateFlowElectricity == nil {
		panic("costing: AddSpecificEnergyConsumption requires CostProcess")
	}
	c.SpecificEnergyConsumption = c.derive(c.Block, "specific_energy_consumption",
		model.Div(c.AggregateFlowElectricity, model.Scale(3600, productFlowVol)), 1)
}

// Initialize assigns every derived variable from its definition, in
// dependency order. Run after the process units are initialized.
func (c *Costing) Initialize() {
	for _, d := range c.derived {
		d.v.SetValue(d.rhs.Eval())
	}
}

// Report writes the process cost summary.
func (c *Costing) Report(w io.Writer) {
	p := func(label string, v *model.Var, unit string) {
		if v != nil {
			fmt.Fprintf(w, "  %-28s %12.4g %s\n", label, v.Value(), unit)
		}
	}
	fmt.Fprintf(w, "costing\n")
	p("total capital cost:", c.TotalCapitalCost, "$")
	p("total operating cost:", c.TotalOperatingCost, "$/yr")
	p("net electricity:", c.AggregateFlowElectricity, "kW")
	p("annual water production:", c.AnnualWaterProduction, "m3/yr")
	p("LCOW:", c.LCOW, "$/m3")
	p("specific energy consumption:", c.SpecificEnergyConsumption, "kWh/m3")
}
