package zero

import (
	"github.com/aquasim-org/aquasim/model"
	"github.com/aquasim-org/aquasim/properties/water"
)

// MicroFiltrationZO is a zero-order microfiltration unit.
type MicroFiltrationZO struct {
	*SIDO
}

// NewMicroFiltrationZO creates a microfiltration unit named name under
// parent, with performance parameters from db.
func NewMicroFiltrationZO(parent *model.Block, name string, props *water.ParameterBlock, db *Database) (*MicroFiltrationZO, error) {
	u := &MicroFiltrationZO{SIDO: NewSIDO(parent, name, props)}
	if err := u.LoadParametersFromDatabase(db, "micro_filtration", "default"); err != nil {
		return nil, err
	}
	return u, nil
}
