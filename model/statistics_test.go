package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDegreesOfFreedom(t *testing.T) {
	m := NewBlock("m")
	x := m.NewVar("x")
	y := m.NewVar("y")
	z := m.NewVar("z")
	m.Equal("c1", Add(x, y), Const(1))
	m.Equal("c2", Sub(x, y), z)

	assert.Equal(t, 1, DegreesOfFreedom(m))

	z.Fix(0)
	assert.Equal(t, 0, DegreesOfFreedom(m))

	// inequalities do not consume degrees of freedom
	m.RequireLessOrEqual("ineq", x, Const(10))
	assert.Equal(t, 0, DegreesOfFreedom(m))
}

func TestAssertDegreesOfFreedom(t *testing.T) {
	m := NewBlock("m")
	m.NewVar("x")
	m.NewVar("y")

	require.NoError(t, AssertDegreesOfFreedom(m, 2))

	err := AssertDegreesOfFreedom(m, 0)
	require.Error(t, err)

	var dofErr *DegreesOfFreedomError
	require.True(t, errors.As(err, &dofErr))
	assert.Equal(t, 2, dofErr.Actual)
	assert.Equal(t, 0, dofErr.Expected)
	assert.Contains(t, err.Error(), "2 degrees of freedom")
}
