package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockNaming(t *testing.T) {
	m := NewBlock("m")
	fs := m.NewBlock("fs")
	pump := fs.NewBlock("pump")
	w := pump.NewVar("work_mechanical", WithUnits("W"))

	assert.Equal(t, "m.fs.pump", pump.Name())
	assert.Equal(t, "m.fs.pump.work_mechanical", w.Name())
	assert.Equal(t, "work_mechanical", w.LocalName())
	assert.Same(t, m, pump.Root())
}

func TestDuplicateVariablePanics(t *testing.T) {
	b := NewBlock("m")
	b.NewVar("x")
	assert.Panics(t, func() { b.NewVar("x") })
}

func TestFixUnfix(t *testing.T) {
	b := NewBlock("m")
	v := b.NewVar("v", WithInitial(1))

	assert.False(t, v.Fixed())
	v.Fix(42)
	assert.True(t, v.Fixed())
	assert.Equal(t, 42.0, v.Value())
	v.Unfix()
	assert.False(t, v.Fixed())
	assert.Equal(t, 42.0, v.Value())

	v.Fix() // fix at current value
	assert.True(t, v.Fixed())
	assert.Equal(t, 42.0, v.Value())
}

func TestBoundsDefaultUnbounded(t *testing.T) {
	b := NewBlock("m")
	v := b.NewVar("v")
	assert.True(t, math.IsInf(v.LB(), -1))
	assert.True(t, math.IsInf(v.UB(), 1))
}

func TestConstraintResidualAndViolation(t *testing.T) {
	b := NewBlock("m")
	x := b.NewVar("x", WithInitial(3))

	eq := b.Equal("eq", x, Const(5))
	assert.InDelta(t, -2.0, eq.Residual(), 1e-12)
	assert.InDelta(t, 2.0, eq.Violation(), 1e-12)

	le := b.RequireLessOrEqual("le", x, Const(2))
	assert.InDelta(t, 1.0, le.Violation(), 1e-12)

	ge := b.RequireGreaterOrEqual("ge", x, Const(2))
	assert.Zero(t, ge.Violation())
}

func TestConstraintDeactivate(t *testing.T) {
	b := NewBlock("m")
	x := b.NewVar("x")
	c := b.Equal("eq", x, Const(1))

	require.Equal(t, 0, DegreesOfFreedom(b))
	c.Deactivate()
	assert.Equal(t, 1, DegreesOfFreedom(b))
	c.Activate()
	assert.Equal(t, 0, DegreesOfFreedom(b))
}

func TestSingleObjective(t *testing.T) {
	m := NewBlock("m")
	fs := m.NewBlock("fs")
	x := fs.NewVar("x")

	obj := fs.Minimize("objective", x)
	assert.Same(t, obj, m.FindObjective())
	assert.Panics(t, func() { m.Minimize("objective2", x) })

	m.DropObjective()
	assert.Nil(t, m.FindObjective())
}

func TestCalculateScalingFactors(t *testing.T) {
	b := NewBlock("m")
	w := b.NewVar("work", WithInitial(5e3))
	q := b.NewVar("q", WithInitial(1e-3))
	w.SetScalingFactor(1e-3)

	c := b.Equal("eq_work", w, Mul(q, Const(75e5)))
	scaled := b.Equal("eq_scaled", w, Const(0))
	scaled.SetScalingFactor(7)

	CalculateScalingFactors(b)

	// smallest variable factor in the constraint
	assert.Equal(t, 1e-3, c.ScalingFactor())
	// explicit factors are preserved
	assert.Equal(t, 7.0, scaled.ScalingFactor())
}

func TestSetDefaultScaling(t *testing.T) {
	m := NewBlock("m")
	a := m.NewBlock("a")
	b := m.NewBlock("b")
	v1 := a.NewVar("flow_mass")
	v2 := b.NewVar("flow_mass")
	v2.SetScalingFactor(5)

	SetDefaultScaling(m, "flow_mass", 1e2)

	assert.Equal(t, 1e2, v1.ScalingFactor())
	assert.Equal(t, 5.0, v2.ScalingFactor()) // explicit wins
}
