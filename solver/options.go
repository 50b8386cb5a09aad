package solver

import (
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/aquasim-org/aquasim/logger"
	"github.com/aquasim-org/aquasim/model"
)

// Option alters the behavior of Solve. See the descriptions of functions
// returning instances of this type for implemented options.
type Option func(*Config) error

// Config is the solver configuration with the options applied.
type Config struct {
	Tolerance     float64
	MaxIterations int
	Tee           io.Writer
	Decisions     []*model.Var
	PenaltyWeight float64
	FeasTol       float64
	Logger        zerolog.Logger
}

// NewConfig returns a default Config with the given options applied.
func NewConfig(opts ...Option) (Config, error) {
	cfg := Config{
		Tolerance:     1e-8,
		MaxIterations: 100,
		PenaltyWeight: 10,
		FeasTol:       1e-5,
		Logger:        logger.Logger(),
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// WithTolerance sets the convergence tolerance on the scaled residual
// infinity norm.
func WithTolerance(tol float64) Option {
	return func(cfg *Config) error {
		if tol <= 0 {
			return errors.New("solver: tolerance must be positive")
		}
		cfg.Tolerance = tol
		return nil
	}
}

// WithMaxIterations sets the Newton iteration limit.
func WithMaxIterations(n int) Option {
	return func(cfg *Config) error {
		if n <= 0 {
			return errors.New("solver: iteration limit must be positive")
		}
		cfg.MaxIterations = n
		return nil
	}
}

// WithTee streams per-iteration progress to w, mirroring the solver's own
// log output.
func WithTee(w io.Writer) Option {
	return func(cfg *Config) error {
		cfg.Tee = w
		return nil
	}
}

// WithDecisions declares the decision variables of an optimization solve.
// The model's degrees of freedom must equal the number of decision
// variables, and every decision variable must be free and bounded.
func WithDecisions(vars ...*model.Var) Option {
	return func(cfg *Config) error {
		cfg.Decisions = vars
		return nil
	}
}

// WithLogger overrides the solver logger for this solve.
func WithLogger(l zerolog.Logger) Option {
	return func(cfg *Config) error {
		cfg.Logger = l
		return nil
	}
}

// WithPenaltyWeight sets the weight applied to relative inequality and bound
// violations in the outer optimization objective.
func WithPenaltyWeight(mu float64) Option {
	return func(cfg *Config) error {
		if mu <= 0 {
			return errors.New("solver: penalty weight must be positive")
		}
		cfg.PenaltyWeight = mu
		return nil
	}
}
