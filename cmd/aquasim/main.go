// Command aquasim runs the seawater reverse-osmosis study: simulate the base
// case or optimize the design, optionally overriding conditions with an HCL
// case file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aquasim-org/aquasim/config"
	"github.com/aquasim-org/aquasim/flowsheets/swro"
	"github.com/aquasim-org/aquasim/solver"
	"github.com/aquasim-org/aquasim/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type runFlags struct {
	caseFile string
	tee      bool
	json     bool
}

func newRootCmd() *cobra.Command {
	flags := &runFlags{}
	root := &cobra.Command{
		Use:           "aquasim",
		Short:         "seawater reverse-osmosis flowsheet studies",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&flags.caseFile, "case", "", "HCL case file overriding the base study")
	root.PersistentFlags().BoolVar(&flags.tee, "tee", false, "stream solver iterations to stderr")
	root.PersistentFlags().BoolVar(&flags.json, "json", false, "print the exported variables as JSON")

	root.AddCommand(newSimulateCmd(flags), newOptimizeCmd(flags))
	return root
}

// simulate runs the pipeline through the square solve and reports.
func newSimulateCmd(flags *runFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "simulate",
		Short: "solve the base case",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := runSimulation(flags)
			if err != nil {
				return err
			}
			return report(cmd, flags, m)
		},
	}
}

// optimize additionally releases the design variables and minimizes LCOW.
func newOptimizeCmd(flags *runFlags) *cobra.Command {
	var rerunMembraneCost float64
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "minimize the levelized cost of water",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := runSimulation(flags)
			if err != nil {
				return err
			}
			if err := m.OptimizeSetUp(); err != nil {
				return err
			}
			if _, err := m.Optimize(solverOptions(flags)...); err != nil {
				return err
			}
			if err := report(cmd, flags, m); err != nil {
				return err
			}

			if rerunMembraneCost > 0 {
				fmt.Fprintf(cmd.OutOrStdout(),
					"\nre-optimizing with membrane cost %.0f $/m2\n", rerunMembraneCost)
				m.Costing.ReverseOsmosisMembraneCost.Fix(rerunMembraneCost)
				if _, err := m.Optimize(solverOptions(flags)...); err != nil {
					return err
				}
				return report(cmd, flags, m)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&rerunMembraneCost, "membrane-cost-rerun", 0,
		"re-optimize with this membrane cost [$/m2] and report both designs")
	return cmd
}

func solverOptions(flags *runFlags) []solver.Option {
	if flags.tee {
		return []solver.Option{solver.WithTee(os.Stderr)}
	}
	return nil
}

func runSimulation(flags *runFlags) (*swro.Model, error) {
	cs := &config.Case{}
	if flags.caseFile != "" {
		loaded, err := config.Load(flags.caseFile)
		if err != nil {
			return nil, err
		}
		cs = loaded
	}

	m, err := swro.Build()
	if err != nil {
		return nil, err
	}
	cs.ApplyCosting(m.Costing)
	if err := m.SetOperatingConditions(cs.OperatingConditions()); err != nil {
		return nil, err
	}
	if err := m.InitializeSystem(); err != nil {
		return nil, err
	}
	if _, err := m.Solve(solverOptions(flags)...); err != nil {
		return nil, err
	}
	return m, nil
}

func report(cmd *cobra.Command, flags *runFlags, m *swro.Model) error {
	out := cmd.OutOrStdout()
	if flags.json {
		return exportInterface(m).WriteJSON(out)
	}
	m.DisplaySystem(out)
	m.DisplayDesign(out)
	m.DisplayState(out)
	return nil
}

// exportInterface exposes the headline variables of the study.
func exportInterface(m *swro.Model) *ui.FlowsheetInterface {
	fi := ui.New("SWRO", "seawater reverse osmosis with energy recovery")
	fi.ExportVariable(m.Costing.LCOW, ui.VariableMeta{
		DisplayName: "Levelized cost of water"})
	fi.ExportVariable(m.Costing.SpecificEnergyConsumption, ui.VariableMeta{
		DisplayName: "Specific energy consumption"})
	fi.ExportVariable(m.Pump.PropertiesOut.Pressure, ui.VariableMeta{
		DisplayName: "Operating pressure"})
	fi.ExportVariable(m.Pump.WorkMechanical, ui.VariableMeta{
		DisplayName: "Pump work"})
	fi.ExportVariable(m.RO.Area, ui.VariableMeta{
		DisplayName: "Membrane area"})
	fi.ExportVariable(m.RO.Velocity[0], ui.VariableMeta{
		DisplayName: "Inlet crossflow velocity"})
	return fi
}
