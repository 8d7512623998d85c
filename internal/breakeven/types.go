// Package breakeven finds the policy setting at which an income group's net
// transfer reaches a target, zero by default.
package breakeven

import (
	"fmt"

	"github.com/rgehrsitz/carbontax/internal/domain"
	"github.com/rgehrsitz/carbontax/internal/transform"
)

// OptimizationTarget names the parameter the solver moves
type OptimizationTarget string

const (
	OptimizeRedistribution OptimizationTarget = OptimizationTarget(transform.FieldRedistribution)
	OptimizeProgressivity  OptimizationTarget = OptimizationTarget(transform.FieldProgressivity)
	OptimizeRural          OptimizationTarget = OptimizationTarget(transform.FieldRural)
)

// Targets lists the parameters the solver accepts
var Targets = []OptimizationTarget{OptimizeRedistribution, OptimizeProgressivity, OptimizeRural}

// Constraints define the group and the search range
type Constraints struct {
	// Group is the 1-based decile, poorest first
	Group int `json:"group"`

	// Search range in the parameter's own unit; nil means 0 or 100
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`

	// TargetNet is the net transfer per household to reach
	TargetNet float64 `json:"target_net"`
}

// Bounds returns the search range with defaults applied
func (c Constraints) Bounds() (float64, float64) {
	lo, hi := 0.0, 100.0
	if c.Min != nil {
		lo = *c.Min
	}
	if c.Max != nil {
		hi = *c.Max
	}
	return lo, hi
}

// Validate checks that the range is inside [0,100] and not inverted
func (c Constraints) Validate() error {
	if c.Group < 1 {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   fmt.Sprintf("group must be 1 or more, got %d", c.Group),
		}
	}
	lo, hi := c.Bounds()
	if lo < 0 || hi > 100 {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   fmt.Sprintf("search range [%g, %g] must lie within [0, 100]", lo, hi),
		}
	}
	if lo > hi {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min cannot be greater than max",
		}
	}
	return nil
}

// OptimizationRequest defines one solver run
type OptimizationRequest struct {
	Base          domain.Parameters
	Reference     *domain.ReferenceData
	Target        OptimizationTarget
	Constraints   Constraints
	MaxIterations int     // Maximum bisection steps
	Tolerance     float64 // Accepted distance from TargetNet, per household
}

// OptimizationResult is the setting found and the net transfer around it
type OptimizationResult struct {
	Request         OptimizationRequest `json:"-"`
	Target          OptimizationTarget  `json:"target"`
	Group           int                 `json:"group"`
	Success         bool                `json:"success"`
	Iterations      int                 `json:"iterations"`
	ConvergenceInfo string              `json:"convergence_info"`

	// Value is the parameter setting found; on failure the end of the range
	// closest to the target
	Value       float64 `json:"value"`
	NetTransfer float64 `json:"net_transfer"`

	BaseValue float64 `json:"base_value"`
	BaseNet   float64 `json:"base_net"`
	NetAtMin  float64 `json:"net_at_min"`
	NetAtMax  float64 `json:"net_at_max"`
}

// Rising reports whether the group's net transfer grows with the parameter
func (r *OptimizationResult) Rising() bool {
	return r.NetAtMax > r.NetAtMin
}

// MultiGroupResult holds one result per decile for the same target
type MultiGroupResult struct {
	Target          OptimizationTarget   `json:"target"`
	Results         []OptimizationResult `json:"results"`
	Recommendations []string             `json:"recommendations"`
}

// SolverOptions configures the bisection
type SolverOptions struct {
	Tolerance     float64 // per-household currency units
	MaxIterations int
}

// DefaultSolverOptions returns a one-cent tolerance and 60 steps
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     0.01,
		MaxIterations: 60,
	}
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
