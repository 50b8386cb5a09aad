// Package aquasim provides process-engineering flowsheet models built on a
// declarative algebraic-equation modeling framework.
//
// A flowsheet is assembled from unit models (feed, pump, membrane unit,
// energy recovery device, product sinks) connected by arcs; each unit
// declares state variables and nonlinear algebraic constraints relating its
// inlet and outlet conditions. The model is then specified (variables fixed
// to operating targets), initialized sequentially along the stream topology,
// and handed to a Newton-based solver.
//
// Packages:
//   - model: blocks, variables, expressions, constraints, degrees of freedom
//   - solver: square-system Newton solve and feasible-path optimization
//   - flowsheet: ports, arcs, arc expansion, state propagation
//   - properties: property packages (seawater, zero-order water basis)
//   - units: unit model library (incl. zero-order models under units/zero)
//   - costing: capital/operating cost correlations, LCOW and SEC metrics
//   - flowsheets/swro: a seawater reverse-osmosis train with energy recovery
package aquasim

import (
	"github.com/blang/semver/v4"
)

// Version of the aquasim module.
var Version = semver.MustParse("0.2.0")
