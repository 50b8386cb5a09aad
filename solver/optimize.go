package solver

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/aquasim-org/aquasim/model"
)

// solveOptimization runs the feasible-path strategy: the decision variables
// are temporarily fixed and moved by a Nelder-Mead search in normalized
// [0,1] coordinates, while the remaining square system is Newton-solved at
// every trial point. Inequality constraints and bounds on dependent
// variables are penalized in the outer objective; a final feasibility check
// gates the Optimal status.
func solveOptimization(b *model.Block, obj *model.Objective, cfg Config) (Results, error) {
	log := cfg.Logger.With().Str("block", b.Name()).Str("objective", obj.Name()).Logger()

	if len(cfg.Decisions) == 0 {
		return Results{}, errors.New("solver: model has an objective but no decision variables were declared (use WithDecisions)")
	}
	if err := model.AssertDegreesOfFreedom(b, len(cfg.Decisions)); err != nil {
		return Results{}, err
	}
	for _, d := range cfg.Decisions {
		if d.Fixed() {
			return Results{}, fmt.Errorf("solver: decision variable %s is fixed", d.Name())
		}
		if math.IsInf(d.LB(), 0) || math.IsInf(d.UB(), 0) || d.LB() >= d.UB() {
			return Results{}, fmt.Errorf("solver: decision variable %s must have finite bounds", d.Name())
		}
	}

	ineqs := model.ActiveInequalities(b)

	// dependent free variables with a finite bound are penalized too
	var bounded []*model.Var
	isDecision := make(map[*model.Var]bool, len(cfg.Decisions))
	for _, d := range cfg.Decisions {
		isDecision[d] = true
	}
	for _, v := range model.FreeVariables(b) {
		if !isDecision[v] && (!math.IsInf(v.LB(), -1) || !math.IsInf(v.UB(), 1)) {
			bounded = append(bounded, v)
		}
	}

	// hold decisions so the inner system is square
	for _, d := range cfg.Decisions {
		d.Fix()
	}
	defer func() {
		for _, d := range cfg.Decisions {
			d.Unfix()
		}
	}()

	setDecisions := func(u []float64) {
		for i, d := range cfg.Decisions {
			d.SetValue(d.LB() + clip(u[i], 0, 1)*(d.UB()-d.LB()))
		}
	}

	innerIters := 0
	evals := 0
	const badPoint = 1e8

	objFn := func(u []float64) float64 {
		evals++
		setDecisions(u)
		res, err := solveSquare(b, cfg)
		innerIters += res.Iterations
		if err != nil || !res.Ok() {
			return badPoint
		}

		f := obj.Value()
		for i := range u {
			if d := math.Max(u[i]-1, -u[i]); d > 0 {
				f += badPoint * d * d
			}
		}
		for _, c := range ineqs {
			f += penalty(cfg.PenaltyWeight, relativeViolation(c))
		}
		for _, v := range bounded {
			f += penalty(cfg.PenaltyWeight, boundViolation(v))
		}
		return f
	}

	u0 := make([]float64, len(cfg.Decisions))
	for i, d := range cfg.Decisions {
		u0[i] = clip((d.Value()-d.LB())/(d.UB()-d.LB()), 0.01, 0.99)
	}

	problem := optimize.Problem{Func: objFn}
	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-8,
			Iterations: 100,
		},
		FuncEvaluations: 5000,
	}
	result, err := optimize.Minimize(problem, u0, settings, &optimize.NelderMead{})
	if err != nil {
		return Results{Iterations: innerIters, FunctionEvaluations: evals}, fmt.Errorf("solver: outer search failed: %w", err)
	}

	// leave the model at the best point found, fully re-solved
	setDecisions(result.X)
	inner, err := solveSquare(b, cfg)
	innerIters += inner.Iterations
	if err != nil {
		return Results{Iterations: innerIters, FunctionEvaluations: evals}, err
	}
	if !inner.Ok() {
		return Results{
			TerminationCondition: inner.TerminationCondition,
			Iterations:           innerIters,
			Residual:             inner.Residual,
			FunctionEvaluations:  evals,
		}, nil
	}

	tc := Optimal
	for _, c := range ineqs {
		if relativeViolation(c) > cfg.FeasTol {
			log.Warn().Str("constraint", c.Name()).Float64("violation", c.Violation()).Msg("inequality violated at solution")
			tc = Infeasible
		}
	}
	for _, v := range bounded {
		if boundViolation(v) > cfg.FeasTol {
			log.Warn().Str("variable", v.Name()).Float64("value", v.Value()).Msg("bound violated at solution")
			tc = Infeasible
		}
	}

	log.Info().
		Float64("objective", obj.Value()).
		Int("evaluations", evals).
		Str("status", tc.String()).
		Msg("optimization finished")

	return Results{
		TerminationCondition: tc,
		Iterations:           innerIters,
		Residual:             inner.Residual,
		Objective:            obj.Value(),
		FunctionEvaluations:  evals,
	}, nil
}

// relativeViolation normalizes an inequality violation by the magnitude of
// its right-hand side so constraints on very different scales (mass
// fractions vs fluxes) are penalized comparably.
func relativeViolation(c *model.Constraint) float64 {
	v := c.Violation()
	if v == 0 {
		return 0
	}
	return v / (math.Abs(c.RHS().Eval()) + 1e-12)
}

func boundViolation(v *model.Var) float64 {
	scale := math.Max(math.Abs(v.Value()), 1)
	if d := v.Value() - v.UB(); d > 0 {
		return d / scale
	}
	if d := v.LB() - v.Value(); d > 0 {
		return d / scale
	}
	return 0
}

func penalty(mu, violation float64) float64 {
	if violation <= 0 {
		return 0
	}
	return mu * (violation + violation*violation)
}
