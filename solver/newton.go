package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/aquasim-org/aquasim/model"
)

// Solve solves the block's algebraic system. When the block carries an
// objective the optimization path is taken (see optimize.go); otherwise the
// system must be square and a damped Newton iteration runs until the scaled
// residual norm drops below tolerance.
//
// The returned error reports structural problems (degree-of-freedom
// mismatches, bad options); numerical failures are reported through the
// termination condition.
func Solve(b *model.Block, opts ...Option) (Results, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return Results{}, err
	}
	if obj := b.FindObjective(); obj != nil {
		return solveOptimization(b, obj, cfg)
	}
	return solveSquare(b, cfg)
}

func solveSquare(b *model.Block, cfg Config) (Results, error) {
	log := cfg.Logger.With().Str("block", b.Name()).Logger()

	free := model.FreeVariables(b)
	eqs := model.ActiveEqualities(b)
	if len(free) != len(eqs) {
		return Results{}, &model.DegreesOfFreedomError{
			Block:    b.Name(),
			Actual:   len(free) - len(eqs),
			Expected: 0,
		}
	}
	n := len(free)
	if n == 0 {
		return Results{TerminationCondition: Optimal}, nil
	}

	col := make(map[*model.Var]int, n)
	for i, v := range free {
		col[v] = i
	}

	jac := mat.NewDense(n, n, nil)
	rhs := mat.NewVecDense(n, nil)
	step := mat.NewVecDense(n, nil)
	x := make([]float64, n)

	norm := residualNorm(eqs)
	log.Debug().Int("size", n).Float64("residual", norm).Msg("newton start")

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		if math.IsNaN(norm) || math.IsInf(norm, 0) {
			return Results{TerminationCondition: Stalled, Iterations: iter, Residual: norm}, nil
		}
		if norm < cfg.Tolerance {
			log.Debug().Int("iterations", iter).Float64("residual", norm).Msg("newton converged")
			return Results{TerminationCondition: Optimal, Iterations: iter, Residual: norm}, nil
		}

		// scaled Jacobian and residual: row i is constraint i times its
		// scaling factor, column j is variable j divided by its factor
		jac.Zero()
		for i, c := range eqs {
			sfc := c.ScalingFactor()
			for v, dv := range model.Derivatives(c.Body()) {
				if j, ok := col[v]; ok {
					jac.Set(i, j, dv*sfc/v.ScalingFactor())
				}
			}
			rhs.SetVec(i, -c.Residual()*sfc)
		}

		var lu mat.LU
		lu.Factorize(jac)
		if err := lu.SolveVecTo(step, false, rhs); err != nil {
			log.Warn().Int("iteration", iter).Msg("singular jacobian")
			return Results{TerminationCondition: SingularJacobian, Iterations: iter, Residual: norm}, nil
		}

		for i, v := range free {
			x[i] = v.Value()
		}

		// backtracking line search on the scaled residual norm, clipping
		// each trial point into the variable bounds
		alpha := 1.0
		improved := false
		for ls := 0; ls < 30; ls++ {
			for i, v := range free {
				v.SetValue(clip(x[i]+alpha*step.AtVec(i)/v.ScalingFactor(), v.LB(), v.UB()))
			}
			trial := residualNorm(eqs)
			if trial < (1-1e-4*alpha)*norm {
				norm = trial
				improved = true
				break
			}
			alpha /= 2
		}
		if !improved {
			for i, v := range free {
				v.SetValue(x[i])
			}
			ev := log.Warn().Int("iteration", iter).Float64("residual", norm)
			if worst := worstEquality(eqs); worst != nil {
				ev = ev.Str("constraint", worst.Name())
				if site := worst.DeclarationSite(); site != "" {
					ev = ev.Str("declared_at", site)
				}
			}
			ev.Msg("line search stalled")
			return Results{TerminationCondition: Stalled, Iterations: iter, Residual: norm}, nil
		}

		if cfg.Tee != nil {
			fmt.Fprintf(cfg.Tee, "iter %3d  residual %.6e  step %.2g\n", iter+1, norm, alpha)
		}
	}

	log.Warn().Float64("residual", norm).Msg("iteration limit reached")
	return Results{TerminationCondition: MaxIterationsExceeded, Iterations: cfg.MaxIterations, Residual: norm}, nil
}

// worstEquality returns the constraint with the largest scaled residual.
func worstEquality(eqs []*model.Constraint) *model.Constraint {
	var worst *model.Constraint
	var max float64
	for _, c := range eqs {
		if r := math.Abs(c.Residual()) * c.ScalingFactor(); worst == nil || r > max {
			worst, max = c, r
		}
	}
	return worst
}

func residualNorm(eqs []*model.Constraint) float64 {
	var norm float64
	for _, c := range eqs {
		r := math.Abs(c.Residual()) * c.ScalingFactor()
		if r > norm || math.IsNaN(r) {
			norm = r
		}
	}
	return norm
}

func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
