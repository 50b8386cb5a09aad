// Package flowsheet provides the container tying unit models together: a
// steady-state flowsheet block, ports exposing unit boundary variables, and
// arcs connecting ports.
//
// Declaring an arc records a directed stream between two ports; expanding
// the arcs materializes component-wise equality constraints between the
// connected variables. Expansion is where malformed connections fail.
package flowsheet

import (
	"fmt"

	"github.com/aquasim-org/aquasim/model"
)

// Config configures a flowsheet block.
type Config struct {
	// Dynamic flowsheets are not supported; the flag exists so callers state
	// the steady-state assumption explicitly.
	Dynamic bool
}

// Flowsheet is a model block holding unit models and stream connections. It
// is steady state: all balances are written at a single time point.
type Flowsheet struct {
	*model.Block

	arcs []*Arc
}

// New creates a flowsheet block named name under parent.
func New(parent *model.Block, name string, cfg Config) *Flowsheet {
	if cfg.Dynamic {
		panic("flowsheet: dynamic flowsheets are not supported")
	}
	return &Flowsheet{Block: parent.NewBlock(name)}
}

// Arcs returns the declared arcs in declaration order.
func (fs *Flowsheet) Arcs() []*Arc { return fs.arcs }

// NewArc declares a directed stream connection from a source port to a
// destination port. The connection has no effect on the model until
// ExpandArcs is called.
func (fs *Flowsheet) NewArc(name string, source, destination *Port) *Arc {
	a := &Arc{name: name, source: source, destination: destination, fs: fs}
	fs.arcs = append(fs.arcs, a)
	return a
}

// ExpandArcs converts every declared arc into equality constraints linking
// the source and destination port variables component-wise. Ports with
// mismatched variable sets fail here.
func (fs *Flowsheet) ExpandArcs() error {
	for _, a := range fs.arcs {
		if err := a.expand(); err != nil {
			return err
		}
	}
	return nil
}

// Port is an ordered, named set of boundary state variables exposed by a
// unit model (inlet, outlet, permeate, retentate).
type Port struct {
	name string
	keys []string
	vars map[string]*model.Var
}

// NewPort creates an empty port.
func NewPort(name string) *Port {
	return &Port{name: name, vars: make(map[string]*model.Var)}
}

// Name returns the port name.
func (p *Port) Name() string { return p.name }

// Add exposes a variable under the given key (for example
// "flow_mass_phase_comp[Liq,H2O]"). Keys must be unique within the port.
func (p *Port) Add(key string, v *model.Var) {
	if _, dup := p.vars[key]; dup {
		panic(fmt.Sprintf("flowsheet: key %q already present on port %s", key, p.name))
	}
	p.keys = append(p.keys, key)
	p.vars[key] = v
}

// Keys returns the port keys in declaration order.
func (p *Port) Keys() []string { return p.keys }

// Var returns the variable exposed under key, or nil.
func (p *Port) Var(key string) *model.Var { return p.vars[key] }

// Arc is a directed stream connection between two ports.
type Arc struct {
	name        string
	source      *Port
	destination *Port
	fs          *Flowsheet
	expanded    bool
}

// Name returns the arc name.
func (a *Arc) Name() string { return a.name }

// Source returns the source port.
func (a *Arc) Source() *Port { return a.source }

// Destination returns the destination port.
func (a *Arc) Destination() *Port { return a.destination }

func (a *Arc) expand() error {
	if a.expanded {
		return nil
	}
	if len(a.source.keys) != len(a.destination.keys) {
		return fmt.Errorf("flowsheet: arc %s connects ports with %d and %d variables",
			a.name, len(a.source.keys), len(a.destination.keys))
	}
	for _, key := range a.source.keys {
		dst := a.destination.Var(key)
		if dst == nil {
			return fmt.Errorf("flowsheet: arc %s: destination port %s has no variable %q",
				a.name, a.destination.name, key)
		}
		a.fs.Equal(fmt.Sprintf("%s_expanded[%s]", a.name, key), a.source.Var(key), dst)
	}
	a.expanded = true
	return nil
}

// Propagate copies the source port values onto the destination port
// variables as initial guesses. Fixed destination variables keep their
// values: propagation provides starting points, not specifications.
func (a *Arc) Propagate() {
	for _, key := range a.source.keys {
		if dst := a.destination.Var(key); dst != nil && !dst.Fixed() {
			dst.SetValue(a.source.Var(key).Value())
		}
	}
}
