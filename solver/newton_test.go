package solver_test

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasim-org/aquasim/model"
	"github.com/aquasim-org/aquasim/solver"
)

func TestSolveLinearSystem(t *testing.T) {
	m := model.NewBlock("m")
	x := m.NewVar("x", model.WithInitial(0))
	y := m.NewVar("y", model.WithInitial(0))
	m.Equal("c1", model.Add(x, y), model.Const(3))
	m.Equal("c2", model.Sub(x, y), model.Const(1))

	res, err := solver.Solve(m)
	require.NoError(t, err)
	require.NoError(t, solver.AssertOptimalTermination(res))
	assert.InDelta(t, 2.0, x.Value(), 1e-8)
	assert.InDelta(t, 1.0, y.Value(), 1e-8)
}

func TestSolveNonlinearSystem(t *testing.T) {
	m := model.NewBlock("m")
	x := m.NewVar("x", model.WithInitial(4))
	y := m.NewVar("y", model.WithInitial(2))
	// circle and line: x^2 + y^2 == 25, x - y == 1
	m.Equal("circle", model.Add(model.Mul(x, x), model.Mul(y, y)), model.Const(25))
	m.Equal("line", model.Sub(x, y), model.Const(1))

	res, err := solver.Solve(m)
	require.NoError(t, err)
	require.True(t, res.Ok(), "termination: %s", res.TerminationCondition)
	assert.InDelta(t, 4.0, x.Value(), 1e-6)
	assert.InDelta(t, 3.0, y.Value(), 1e-6)
}

// a stiff system in raw units converges once scaling factors are applied
func TestSolveScaledSystem(t *testing.T) {
	m := model.NewBlock("m")
	work := m.NewVar("work", model.WithInitial(1), model.WithUnits("W"))
	q := m.NewVar("q", model.WithInitial(1e-4), model.WithUnits("m3/s"))
	work.SetScalingFactor(1e-3)
	q.SetScalingFactor(1e3)

	// work == q * dP / eta with dP = 74e5 Pa, eta = 0.8
	m.Equal("eq_work", model.Mul(work, model.Const(0.8)), model.Mul(q, model.Const(74e5)))
	m.Equal("eq_q", q, model.Const(1e-3))
	model.CalculateScalingFactors(m)

	res, err := solver.Solve(m)
	require.NoError(t, err)
	require.True(t, res.Ok())
	assert.InDelta(t, 9250.0, work.Value(), 1e-3)
}

func TestSolveNotSquare(t *testing.T) {
	m := model.NewBlock("m")
	m.NewVar("x")
	m.NewVar("y")
	m.Equal("c", m.Var("x"), model.Const(1))

	_, err := solver.Solve(m)
	require.Error(t, err)

	var dofErr *model.DegreesOfFreedomError
	require.True(t, errors.As(err, &dofErr))
	assert.Equal(t, 1, dofErr.Actual)
}

func TestSolveSingular(t *testing.T) {
	m := model.NewBlock("m")
	x := m.NewVar("x")
	y := m.NewVar("y")
	m.Equal("c1", model.Add(x, y), model.Const(1))
	m.Equal("c2", model.Add(model.Mul(model.Const(2), x), model.Mul(model.Const(2), y)), model.Const(3))

	res, err := solver.Solve(m)
	require.NoError(t, err)
	assert.Equal(t, solver.SingularJacobian, res.TerminationCondition)
	assert.Error(t, solver.AssertOptimalTermination(res))
}

// re-solving a converged system is a no-op: zero Newton steps, values kept
func TestSolveIdempotent(t *testing.T) {
	m := model.NewBlock("m")
	x := m.NewVar("x", model.WithInitial(1))
	y := m.NewVar("y", model.WithInitial(1))
	m.Equal("circle", model.Add(model.Mul(x, x), model.Mul(y, y)), model.Const(25))
	m.Equal("line", model.Sub(x, y), model.Const(1))

	res, err := solver.Solve(m)
	require.NoError(t, err)
	require.True(t, res.Ok())
	x1, y1 := x.Value(), y.Value()

	res, err = solver.Solve(m)
	require.NoError(t, err)
	require.True(t, res.Ok())
	assert.Zero(t, res.Iterations)
	assert.Equal(t, x1, x.Value())
	assert.Equal(t, y1, y.Value())
}

func TestSolveRespectsBounds(t *testing.T) {
	m := model.NewBlock("m")
	x := m.NewVar("x", model.WithInitial(2), model.WithBounds(1e-8, 1e8))
	// sqrt keeps the iterates honest: x must stay positive
	m.Equal("c", model.Sqrt(x), model.Const(3))

	res, err := solver.Solve(m)
	require.NoError(t, err)
	require.True(t, res.Ok())
	assert.InDelta(t, 9.0, x.Value(), 1e-6)
}

func TestSolveZeroVariables(t *testing.T) {
	m := model.NewBlock("m")
	v := m.NewVar("v")
	v.Fix(3)

	res, err := solver.Solve(m)
	require.NoError(t, err)
	assert.True(t, res.Ok())
}

func TestSolveWithLogger(t *testing.T) {
	m := model.NewBlock("m")
	x := m.NewVar("x", model.WithInitial(0))
	m.Equal("c", x, model.Const(7))

	res, err := solver.Solve(m, solver.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	require.True(t, res.Ok())
	assert.InDelta(t, 7.0, x.Value(), 1e-10)
}

func TestSolveBadOptions(t *testing.T) {
	m := model.NewBlock("m")
	_, err := solver.Solve(m, solver.WithTolerance(-1))
	assert.Error(t, err)
	_, err = solver.Solve(m, solver.WithMaxIterations(0))
	assert.Error(t, err)
}
