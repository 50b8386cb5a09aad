package snapshot_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasim-org/aquasim/model"
	"github.com/aquasim-org/aquasim/snapshot"
)

func buildBlock() (*model.Block, *model.Var, *model.Var) {
	m := model.NewBlock("m")
	fs := m.NewBlock("fs")
	x := fs.NewVar("x", model.WithInitial(1.5))
	y := fs.NewVar("y", model.WithInitial(-2))
	y.Fix()
	return m, x, y
}

func TestTakeRestore(t *testing.T) {
	m, x, y := buildBlock()

	s := snapshot.Take(m)
	x.SetValue(99)
	y.Unfix()
	y.SetValue(99)

	require.NoError(t, s.Restore(m))
	assert.Equal(t, 1.5, x.Value())
	assert.Equal(t, -2.0, y.Value())
	assert.True(t, y.Fixed())
	assert.False(t, x.Fixed())
}

func TestRoundTripEncoding(t *testing.T) {
	m, _, _ := buildBlock()
	s := snapshot.Take(m)

	var buf bytes.Buffer
	require.NoError(t, s.WriteTo(&buf))

	got, err := snapshot.ReadFrom(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(s, got); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestRestoreMissingVariable(t *testing.T) {
	m, _, _ := buildBlock()
	s := snapshot.Take(m)

	other := model.NewBlock("other")
	assert.Error(t, s.Restore(other))
}
