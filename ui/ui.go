// Package ui adapts a flowsheet for external front ends: it names the
// flowsheet, exposes its workflow as runnable actions, and exports selected
// variables with display metadata and live values as a plain dictionary or
// JSON.
package ui

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aquasim-org/aquasim/model"
)

// Standard workflow action names.
const (
	ActionBuild = "build"
	ActionSolve = "solve"
)

// VariableMeta is the display metadata attached to an exported variable.
type VariableMeta struct {
	DisplayName string
	Description string
}

// ExportedVariable is one variable exposed through the interface.
type ExportedVariable struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Description string  `json:"description,omitempty"`
	Units       string  `json:"units,omitempty"`
	Value       float64 `json:"value"`
	Fixed       bool    `json:"fixed"`

	v *model.Var
}

// FlowsheetInterface is the front-end contract of one flowsheet: identity,
// named workflow actions and an exported variable set.
type FlowsheetInterface struct {
	// Name and Description identify the flowsheet to a front end.
	Name        string
	Description string

	exports []*ExportedVariable
	byName  map[string]*ExportedVariable
	actions map[string]func() error
	ran     map[string]bool
}

// New creates a flowsheet interface with the given identity.
func New(name, description string) *FlowsheetInterface {
	return &FlowsheetInterface{
		Name:        name,
		Description: description,
		byName:      make(map[string]*ExportedVariable),
		actions:     make(map[string]func() error),
		ran:         make(map[string]bool),
	}
}

// AddAction registers a named workflow step.
func (fi *FlowsheetInterface) AddAction(name string, fn func() error) {
	fi.actions[name] = fn
}

// RunAction runs a registered action. Solving implies building: running
// ActionSolve first runs ActionBuild when it has not run yet.
func (fi *FlowsheetInterface) RunAction(name string) error {
	if name == ActionSolve && !fi.ran[ActionBuild] && fi.actions[ActionBuild] != nil {
		if err := fi.RunAction(ActionBuild); err != nil {
			return err
		}
	}
	fn, ok := fi.actions[name]
	if !ok {
		return fmt.Errorf("ui: flowsheet %q has no action %q", fi.Name, name)
	}
	if err := fn(); err != nil {
		return fmt.Errorf("ui: action %q: %w", name, err)
	}
	fi.ran[name] = true
	return nil
}

// ExportVariable exposes a model variable with display metadata. The dotted
// model name is the stable key.
func (fi *FlowsheetInterface) ExportVariable(v *model.Var, meta VariableMeta) *ExportedVariable {
	if prev, dup := fi.byName[v.Name()]; dup {
		prev.DisplayName = meta.DisplayName
		prev.Description = meta.Description
		return prev
	}
	ev := &ExportedVariable{
		Name:        v.Name(),
		DisplayName: meta.DisplayName,
		Description: meta.Description,
		Units:       v.Units(),
		v:           v,
	}
	fi.exports = append(fi.exports, ev)
	fi.byName[v.Name()] = ev
	return ev
}

// Exports returns the exported variables, refreshed from the model, in
// export order.
func (fi *FlowsheetInterface) Exports() []*ExportedVariable {
	for _, ev := range fi.exports {
		ev.Value = ev.v.Value()
		ev.Fixed = ev.v.Fixed()
	}
	return fi.exports
}

// Dict returns the interface as a plain map: identity plus the refreshed
// exported variables keyed by model name.
func (fi *FlowsheetInterface) Dict() map[string]any {
	vars := make(map[string]any, len(fi.exports))
	for _, ev := range fi.Exports() {
		vars[ev.Name] = map[string]any{
			"display_name": ev.DisplayName,
			"description":  ev.Description,
			"units":        ev.Units,
			"value":        ev.Value,
			"fixed":        ev.Fixed,
		}
	}
	return map[string]any{
		"name":        fi.Name,
		"description": fi.Description,
		"variables":   vars,
	}
}

// WriteJSON writes the refreshed exported variable set as JSON.
func (fi *FlowsheetInterface) WriteJSON(w io.Writer) error {
	payload := struct {
		Name        string              `json:"name"`
		Description string              `json:"description"`
		Variables   []*ExportedVariable `json:"variables"`
	}{fi.Name, fi.Description, fi.Exports()}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
