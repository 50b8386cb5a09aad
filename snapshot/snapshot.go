// Package snapshot captures and restores the variable values of a model
// subtree.
//
// Snapshots checkpoint solved states: a flowsheet solution can be saved
// before an optimization pass and restored if a different starting point is
// needed. The binary encoding is CBOR.
package snapshot

import (
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"github.com/aquasim-org/aquasim/model"
)

// Snapshot holds variable values keyed by their dotted path relative to the
// block the snapshot was taken from.
type Snapshot struct {
	Values map[string]float64 `cbor:"values"`
	Fixed  map[string]bool    `cbor:"fixed"`
}

// Take captures the current values and fixed flags of every variable under
// b.
func Take(b *model.Block) *Snapshot {
	s := &Snapshot{
		Values: make(map[string]float64),
		Fixed:  make(map[string]bool),
	}
	prefix := b.Name() + "."
	for _, v := range b.Vars() {
		key := strings.TrimPrefix(v.Name(), prefix)
		s.Values[key] = v.Value()
		s.Fixed[key] = v.Fixed()
	}
	return s
}

// Restore writes the captured values and fixed flags back onto b's subtree.
// Every captured variable must still exist; a missing variable is an error
// so a snapshot is never silently applied to a different model shape.
func (s *Snapshot) Restore(b *model.Block) error {
	prefix := b.Name() + "."
	vars := make(map[string]*model.Var)
	for _, v := range b.Vars() {
		vars[strings.TrimPrefix(v.Name(), prefix)] = v
	}
	for key, val := range s.Values {
		v, ok := vars[key]
		if !ok {
			return fmt.Errorf("snapshot: variable %q not present on block %s", key, b.Name())
		}
		v.SetValue(val)
		if s.Fixed[key] {
			v.Fix()
		} else {
			v.Unfix()
		}
	}
	return nil
}

// WriteTo serializes the snapshot to w.
func (s *Snapshot) WriteTo(w io.Writer) error {
	return cbor.NewEncoder(w).Encode(s)
}

// ReadFrom deserializes a snapshot from r.
func ReadFrom(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	return &s, nil
}
