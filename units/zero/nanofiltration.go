package zero

import (
	"github.com/aquasim-org/aquasim/model"
	"github.com/aquasim-org/aquasim/properties/water"
)

// NanofiltrationZO is a zero-order nanofiltration unit.
type NanofiltrationZO struct {
	*SIDO
}

// NewNanofiltrationZO creates a nanofiltration unit named name under parent,
// with performance parameters from db.
func NewNanofiltrationZO(parent *model.Block, name string, props *water.ParameterBlock, db *Database) (*NanofiltrationZO, error) {
	u := &NanofiltrationZO{SIDO: NewSIDO(parent, name, props)}
	if err := u.LoadParametersFromDatabase(db, "nanofiltration", "default"); err != nil {
		return nil, err
	}
	return u, nil
}
