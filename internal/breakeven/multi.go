package breakeven

import (
	"context"
	"fmt"
	"strings"
)

// OptimizeAllGroups runs Optimize for every decile with the same target and
// range, then summarizes which groups break even inside it
func (s *Solver) OptimizeAllGroups(ctx context.Context, req OptimizationRequest) (*MultiGroupResult, error) {
	if req.Reference == nil {
		return nil, &BreakEvenError{Operation: "optimize_all_groups", Message: "reference data is required"}
	}

	multi := &MultiGroupResult{Target: req.Target}
	for g := 1; g <= req.Reference.GroupCount(); g++ {
		groupReq := req
		groupReq.Constraints.Group = g
		result, err := s.Optimize(ctx, groupReq)
		if err != nil {
			return nil, &BreakEvenError{
				Operation: "optimize_all_groups",
				Message:   fmt.Sprintf("group %d", g),
				Cause:     err,
			}
		}
		multi.Results = append(multi.Results, *result)
	}

	multi.Recommendations = generateRecommendations(multi)
	return multi, nil
}

func generateRecommendations(multi *MultiGroupResult) []string {
	var found, above, below []string
	for _, r := range multi.Results {
		name := fmt.Sprintf("%d", r.Group)
		switch {
		case r.Success:
			found = append(found, name)
		case r.NetAtMin >= r.Request.Constraints.TargetNet:
			above = append(above, name)
		default:
			below = append(below, name)
		}
	}

	lo, hi := 0.0, 100.0
	if len(multi.Results) > 0 {
		lo, hi = multi.Results[0].Request.Constraints.Bounds()
	}

	recommendations := []string{
		fmt.Sprintf("%d of %d groups reach the target for %s between %g and %g",
			len(found), len(multi.Results), multi.Target, lo, hi),
	}
	if len(above) > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("Groups %s stay above the target over the whole range", strings.Join(above, ", ")))
	}
	if len(below) > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("Groups %s stay below the target over the whole range", strings.Join(below, ", ")))
	}
	return recommendations
}
