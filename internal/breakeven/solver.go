package breakeven

import (
	"context"
	"fmt"
	"math"

	"github.com/rgehrsitz/carbontax/internal/calculation"
	"github.com/rgehrsitz/carbontax/internal/domain"
	"github.com/rgehrsitz/carbontax/internal/transform"
)

// Solver searches one parameter for the value where a group breaks even
type Solver struct {
	CalcEngine *calculation.IncidenceEngine
	Options    SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(calcEngine *calculation.IncidenceEngine, options SolverOptions) *Solver {
	if calcEngine == nil {
		calcEngine = calculation.NewIncidenceEngine()
	}
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.IncidenceEngine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

// Optimize bisects the search range for the value where the group's net
// transfer per household equals the target. Net transfer is read in the decile
// view. When both ends of the range lie on the same side of the target the
// result is returned with Success false.
func (s *Solver) Optimize(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	if err := req.Constraints.Validate(); err != nil {
		return nil, err
	}
	if !isTarget(req.Target) {
		return nil, &BreakEvenError{
			Operation: "optimize",
			Message:   fmt.Sprintf("unsupported optimization target: %s (expected one of %v)", req.Target, Targets),
		}
	}
	if req.Reference == nil {
		return nil, &BreakEvenError{Operation: "optimize", Message: "reference data is required"}
	}
	if req.Constraints.Group > req.Reference.GroupCount() {
		return nil, &BreakEvenError{
			Operation: "optimize",
			Message:   fmt.Sprintf("group %d out of range (have %d groups)", req.Constraints.Group, req.Reference.GroupCount()),
		}
	}

	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance <= 0 {
		req.Tolerance = s.Options.Tolerance
	}

	result := &OptimizationResult{
		Request: req,
		Target:  req.Target,
		Group:   req.Constraints.Group,
	}
	result.BaseValue, _ = transform.ScalarValue(req.Base, string(req.Target))

	var err error
	if result.BaseNet, err = s.netAt(req, result.BaseValue); err != nil {
		return nil, err
	}

	lo, hi := req.Constraints.Bounds()
	if result.NetAtMin, err = s.netAt(req, lo); err != nil {
		return nil, err
	}
	if result.NetAtMax, err = s.netAt(req, hi); err != nil {
		return nil, err
	}

	target := req.Constraints.TargetNet
	fLo := result.NetAtMin - target
	fHi := result.NetAtMax - target

	switch {
	case math.Abs(fLo) <= req.Tolerance:
		return converged(result, lo, result.NetAtMin, "Target met at the lower bound"), nil
	case math.Abs(fHi) <= req.Tolerance:
		return converged(result, hi, result.NetAtMax, "Target met at the upper bound"), nil
	case sameSign(fLo, fHi):
		side := "above"
		if fLo < 0 {
			side = "below"
		}
		result.Value, result.NetTransfer = lo, result.NetAtMin
		if math.Abs(fHi) < math.Abs(fLo) {
			result.Value, result.NetTransfer = hi, result.NetAtMax
		}
		result.ConvergenceInfo = fmt.Sprintf("Net transfer stays %s the target across [%g, %g]", side, lo, hi)
		return result, nil
	}

	for result.Iterations < req.MaxIterations {
		result.Iterations++

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		mid := (lo + hi) / 2
		net, err := s.netAt(req, mid)
		if err != nil {
			return nil, err
		}
		f := net - target
		result.Value, result.NetTransfer = mid, net

		if math.Abs(f) <= req.Tolerance {
			return converged(result, mid, net, fmt.Sprintf("Converged within %g of the target", req.Tolerance)), nil
		}
		if sameSign(f, fLo) {
			lo, fLo = mid, f
		} else {
			hi = mid
		}
		if hi-lo < 1e-9 {
			return converged(result, mid, net, "Binary search converged"), nil
		}
	}

	result.ConvergenceInfo = fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)
	return result, nil
}

// netAt runs the model with the target parameter set to value and returns the
// group's net transfer
func (s *Solver) netAt(req OptimizationRequest, value float64) (float64, error) {
	edit, err := transform.NewScalarEdit(string(req.Target), value)
	if err != nil {
		return 0, &BreakEvenError{Operation: "evaluate", Message: "failed to build edit", Cause: err}
	}
	params, err := transform.ApplyEdits(req.Base, []transform.ParameterEdit{edit})
	if err != nil {
		return 0, &BreakEvenError{Operation: "evaluate", Message: "failed to apply edit", Cause: err}
	}
	params.TerritoryView = false

	result, err := s.CalcEngine.Compute(params, req.Reference)
	if err != nil {
		return 0, &BreakEvenError{Operation: "evaluate", Message: "failed to run model", Cause: err}
	}
	return groupNet(result, req.Constraints.Group), nil
}

func groupNet(result *domain.IncidenceResult, group int) float64 {
	return result.NetTransfer[group-1]
}

func converged(result *OptimizationResult, value, net float64, info string) *OptimizationResult {
	result.Success = true
	result.Value = value
	result.NetTransfer = net
	result.ConvergenceInfo = info
	return result
}

func sameSign(a, b float64) bool {
	return (a < 0) == (b < 0)
}

func isTarget(t OptimizationTarget) bool {
	for _, known := range Targets {
		if t == known {
			return true
		}
	}
	return false
}
