package zero

import (
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed data/unit_parameters.yaml
var defaultParameters []byte

// UnitParameters are the performance parameters of one technology subtype.
type UnitParameters struct {
	// RecoveryFracMassH2O is the fraction of inlet water in the treated
	// outlet.
	RecoveryFracMassH2O float64 `yaml:"recovery_frac_mass_H2O"`
	// DefaultRemoval applies to solutes absent from RemovalFracMassComp.
	DefaultRemoval float64 `yaml:"default_removal_frac_mass_comp"`
	// RemovalFracMassComp is the fraction of each inlet solute sent to the
	// byproduct outlet, keyed by solute.
	RemovalFracMassComp map[string]float64 `yaml:"removal_frac_mass_comp"`
	// EnergyElectricFlowVolInlet is the electricity intensity [kWh/m3 of
	// inlet].
	EnergyElectricFlowVolInlet float64 `yaml:"energy_electric_flow_vol_inlet"`
}

// Removal returns the removal fraction for solute, falling back to the
// default removal when the solute is not listed.
func (p UnitParameters) Removal(solute string) float64 {
	if r, ok := p.RemovalFracMassComp[solute]; ok {
		return r
	}
	return p.DefaultRemoval
}

// Database is a parameter database for zero-order units, keyed by technology
// then subtype.
type Database struct {
	techs map[string]map[string]UnitParameters
}

// Load parses a database from YAML.
func Load(r io.Reader) (*Database, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("zero: read database: %w", err)
	}
	var techs map[string]map[string]UnitParameters
	if err := yaml.Unmarshal(raw, &techs); err != nil {
		return nil, fmt.Errorf("zero: parse database: %w", err)
	}
	return &Database{techs: techs}, nil
}

// DefaultDatabase returns the built-in parameter database.
func DefaultDatabase() *Database {
	var techs map[string]map[string]UnitParameters
	if err := yaml.Unmarshal(defaultParameters, &techs); err != nil {
		panic(fmt.Sprintf("zero: embedded database: %v", err))
	}
	return &Database{techs: techs}
}

// UnitParameters looks up the parameters for a technology and subtype. Pass
// "default" for the subtype to get the technology baseline.
func (db *Database) UnitParameters(technology, subtype string) (UnitParameters, error) {
	subs, ok := db.techs[technology]
	if !ok {
		return UnitParameters{}, fmt.Errorf("zero: unknown technology %q", technology)
	}
	p, ok := subs[subtype]
	if !ok {
		return UnitParameters{}, fmt.Errorf("zero: technology %q has no subtype %q", technology, subtype)
	}
	return p, nil
}

// Technologies returns the technologies present in the database.
func (db *Database) Technologies() []string {
	names := make([]string, 0, len(db.techs))
	for name := range db.techs {
		names = append(names, name)
	}
	return names
}
