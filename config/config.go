// Package config loads study case files in HCL. A case file overrides the
// base operating conditions and cost parameters block by block; anything it
// leaves out keeps its default. Pressure attributes can use the unit
// constants `bar` and `atm` in expressions.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/aquasim-org/aquasim/costing"
	"github.com/aquasim-org/aquasim/flowsheets/swro"
)

// FeedBlock overrides the feed stream conditions.
type FeedBlock struct {
	FlowVol     *float64 `hcl:"flow_vol,optional"`      // m3/s
	MassFracTDS *float64 `hcl:"mass_frac_tds,optional"` // kg/kg
	Temperature *float64 `hcl:"temperature,optional"`   // K
	Pressure    *float64 `hcl:"pressure,optional"`      // Pa
}

// PumpBlock overrides the high-pressure pump targets.
type PumpBlock struct {
	Efficiency        *float64 `hcl:"efficiency,optional"`
	OperatingPressure *float64 `hcl:"operating_pressure,optional"` // Pa
}

// MembraneBlock overrides the membrane specification.
type MembraneBlock struct {
	AComp            *float64 `hcl:"a_comp,optional"`            // m/(s Pa)
	BComp            *float64 `hcl:"b_comp,optional"`            // m/s
	ChannelHeight    *float64 `hcl:"channel_height,optional"`    // m
	SpacerPorosity   *float64 `hcl:"spacer_porosity,optional"`
	PermeatePressure *float64 `hcl:"permeate_pressure,optional"` // Pa
	InletVelocity    *float64 `hcl:"inlet_velocity,optional"`    // m/s
	Recovery         *float64 `hcl:"recovery,optional"`
}

// ERDBlock overrides the energy recovery device targets.
type ERDBlock struct {
	Efficiency     *float64 `hcl:"efficiency,optional"`
	OutletPressure *float64 `hcl:"outlet_pressure,optional"` // Pa
}

// CostingBlock overrides cost parameters.
type CostingBlock struct {
	MembraneCost      *float64 `hcl:"membrane_cost,optional"`    // $/m2
	ElectricityCost   *float64 `hcl:"electricity_cost,optional"` // $/kWh
	UtilizationFactor *float64 `hcl:"utilization_factor,optional"`
}

// Case is a parsed study case.
type Case struct {
	Feed     *FeedBlock     `hcl:"feed,block"`
	Pump     *PumpBlock     `hcl:"pump,block"`
	Membrane *MembraneBlock `hcl:"membrane,block"`
	ERD      *ERDBlock      `hcl:"erd,block"`
	Costing  *CostingBlock  `hcl:"costing,block"`
}

// evalContext exposes the unit constants available to case expressions.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"bar": cty.NumberFloatVal(1e5),
			"atm": cty.NumberFloatVal(101325),
		},
	}
}

// Parse decodes a case from HCL source. The filename is used in diagnostics.
func Parse(src []byte, filename string) (*Case, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: parse %s: %w", filename, diags)
	}
	var c Case
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &c); diags.HasErrors() {
		return nil, fmt.Errorf("config: decode %s: %w", filename, diags)
	}
	return &c, nil
}

// Load reads and parses a case file.
func Load(path string) (*Case, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(src, path)
}

func override(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

// OperatingConditions returns the default operating conditions with the
// case's overrides applied.
func (c *Case) OperatingConditions() swro.OperatingConditions {
	oc := swro.DefaultOperatingConditions()
	if c.Feed != nil {
		override(&oc.FeedFlowVol, c.Feed.FlowVol)
		override(&oc.FeedMassFracTDS, c.Feed.MassFracTDS)
		override(&oc.FeedTemperature, c.Feed.Temperature)
		override(&oc.FeedPressure, c.Feed.Pressure)
	}
	if c.Pump != nil {
		override(&oc.PumpEfficiency, c.Pump.Efficiency)
		override(&oc.OperatingPressure, c.Pump.OperatingPressure)
	}
	if c.Membrane != nil {
		override(&oc.MembraneAComp, c.Membrane.AComp)
		override(&oc.MembraneBComp, c.Membrane.BComp)
		override(&oc.ChannelHeight, c.Membrane.ChannelHeight)
		override(&oc.SpacerPorosity, c.Membrane.SpacerPorosity)
		override(&oc.PermeatePressure, c.Membrane.PermeatePressure)
		override(&oc.InletVelocity, c.Membrane.InletVelocity)
		override(&oc.RecoveryVol, c.Membrane.Recovery)
	}
	if c.ERD != nil {
		override(&oc.ERDEfficiency, c.ERD.Efficiency)
		override(&oc.ERDOutletPressure, c.ERD.OutletPressure)
	}
	return oc
}

// ApplyCosting re-fixes the cost parameters the case overrides.
func (c *Case) ApplyCosting(cost *costing.Costing) {
	if c.Costing == nil {
		return
	}
	if c.Costing.MembraneCost != nil {
		cost.ReverseOsmosisMembraneCost.Fix(*c.Costing.MembraneCost)
	}
	if c.Costing.ElectricityCost != nil {
		cost.ElectricityCost.Fix(*c.Costing.ElectricityCost)
	}
	if c.Costing.UtilizationFactor != nil {
		cost.UtilizationFactor.Fix(*c.Costing.UtilizationFactor)
	}
}
