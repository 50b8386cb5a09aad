package ui_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasim-org/aquasim/model"
	"github.com/aquasim-org/aquasim/ui"
)

func newInterface(t *testing.T) (*ui.FlowsheetInterface, *model.Var) {
	t.Helper()
	m := model.NewBlock("m")
	fs := m.NewBlock("fs")
	lcow := fs.NewVar("LCOW", model.WithInitial(0.54), model.WithUnits("$/m3"))

	fi := ui.New("SWRO", "seawater reverse osmosis with energy recovery")
	fi.ExportVariable(lcow, ui.VariableMeta{
		DisplayName: "Levelized cost of water",
		Description: "annualized cost per cubic meter of product",
	})
	return fi, lcow
}

func TestExportsRefreshValues(t *testing.T) {
	fi, lcow := newInterface(t)

	exports := fi.Exports()
	require.Len(t, exports, 1)
	assert.Equal(t, "m.fs.LCOW", exports[0].Name)
	assert.InDelta(t, 0.54, exports[0].Value, 1e-12)

	lcow.SetValue(0.48)
	assert.InDelta(t, 0.48, fi.Exports()[0].Value, 1e-12)
}

func TestDict(t *testing.T) {
	fi, _ := newInterface(t)
	d := fi.Dict()
	assert.Equal(t, "SWRO", d["name"])

	vars := d["variables"].(map[string]any)
	entry := vars["m.fs.LCOW"].(map[string]any)
	assert.Equal(t, "Levelized cost of water", entry["display_name"])
	assert.Equal(t, "$/m3", entry["units"])
}

func TestWriteJSON(t *testing.T) {
	fi, _ := newInterface(t)
	var buf bytes.Buffer
	require.NoError(t, fi.WriteJSON(&buf))

	var decoded struct {
		Name      string `json:"name"`
		Variables []struct {
			Name  string  `json:"name"`
			Value float64 `json:"value"`
		} `json:"variables"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "SWRO", decoded.Name)
	require.Len(t, decoded.Variables, 1)
	assert.InDelta(t, 0.54, decoded.Variables[0].Value, 1e-12)
}

func TestActions(t *testing.T) {
	fi := ui.New("SWRO", "")
	var order []string
	fi.AddAction(ui.ActionBuild, func() error {
		order = append(order, "build")
		return nil
	})
	fi.AddAction(ui.ActionSolve, func() error {
		order = append(order, "solve")
		return nil
	})

	// solving implies building
	require.NoError(t, fi.RunAction(ui.ActionSolve))
	assert.Equal(t, []string{"build", "solve"}, order)

	// build is not repeated
	require.NoError(t, fi.RunAction(ui.ActionSolve))
	assert.Equal(t, []string{"build", "solve", "solve"}, order)
}

func TestRunActionErrors(t *testing.T) {
	fi := ui.New("SWRO", "")
	assert.Error(t, fi.RunAction("teleport"))

	boom := errors.New("boom")
	fi.AddAction(ui.ActionBuild, func() error { return boom })
	err := fi.RunAction(ui.ActionBuild)
	assert.ErrorIs(t, err, boom)
}
