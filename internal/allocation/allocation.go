// Package allocation keeps the subsidy allocation summing to exactly 100
// percent as individual programs are edited.
package allocation

import (
	"errors"
	"fmt"
	"math"

	"github.com/rgehrsitz/carbontax/internal/domain"
)

// Total is the sum every allocation must reach
const Total = 100

var (
	// ErrEmpty is returned when an allocation has no entries
	ErrEmpty = errors.New("subsidy allocation is empty")
	// ErrIndexOutOfRange is returned when the edited index does not exist
	ErrIndexOutOfRange = errors.New("subsidy index out of range")
)

// Sum returns the total percent of an allocation
func Sum(alloc []domain.SubsidyShare) int {
	total := 0
	for _, s := range alloc {
		total += s.Percent
	}
	return total
}

// Validate checks that an allocation is non-empty, non-negative and sums to 100
func Validate(alloc []domain.SubsidyShare) error {
	if len(alloc) == 0 {
		return ErrEmpty
	}
	for i, s := range alloc {
		if s.Percent < 0 {
			return fmt.Errorf("subsidy %d (%s) has negative percent %d", i, s.Name, s.Percent)
		}
	}
	if sum := Sum(alloc); sum != Total {
		return fmt.Errorf("subsidy allocation sums to %d, expected %d", sum, Total)
	}
	return nil
}

// Rebalance sets entry index to value and rescales the other entries so the
// allocation still sums to 100. The value is clamped to [0,100] and rounded to
// a whole percent. Untouched entries keep their relative weights; rounding
// residue goes to the largest untouched entry, never to the edited one.
// Applying the same edit twice gives the same result as applying it once.
func Rebalance(alloc []domain.SubsidyShare, index int, value float64) ([]domain.SubsidyShare, error) {
	if len(alloc) == 0 {
		return nil, ErrEmpty
	}
	if index < 0 || index >= len(alloc) {
		return nil, fmt.Errorf("%w: %d (have %d programs)", ErrIndexOutOfRange, index, len(alloc))
	}

	out := make([]domain.SubsidyShare, len(alloc))
	copy(out, alloc)

	// a lone program has to carry the whole allocation
	if len(out) == 1 {
		out[0].Percent = Total
		return out, nil
	}

	edited := int(math.Round(clamp(value, 0, Total)))
	out[index].Percent = edited

	if edited == Total {
		for i := range out {
			if i != index {
				out[i].Percent = 0
			}
		}
		return out, nil
	}

	remaining := float64(Total - edited)
	current := make([]float64, len(out))
	others := 0.0
	for i, s := range alloc {
		if i == index {
			continue
		}
		current[i] = math.Max(0, float64(s.Percent))
		others += current[i]
	}

	for i := range out {
		if i == index {
			continue
		}
		var share float64
		if others == 0 {
			share = remaining / float64(len(out)-1)
		} else {
			share = current[i] / others * remaining
		}
		out[i].Percent = int(math.Round(share))
	}

	settleResidual(out, index)
	return out, nil
}

// Normalize repairs an allocation that does not sum to 100 by rescaling every
// entry proportionally. Negative entries count as zero; an all-zero allocation
// is split evenly.
func Normalize(alloc []domain.SubsidyShare) ([]domain.SubsidyShare, error) {
	if len(alloc) == 0 {
		return nil, ErrEmpty
	}
	out := make([]domain.SubsidyShare, len(alloc))
	copy(out, alloc)

	total := 0.0
	for _, s := range alloc {
		total += math.Max(0, float64(s.Percent))
	}
	for i, s := range alloc {
		var share float64
		if total == 0 {
			share = float64(Total) / float64(len(out))
		} else {
			share = math.Max(0, float64(s.Percent)) / total * Total
		}
		out[i].Percent = int(math.Round(share))
	}

	settleResidual(out, -1)
	return out, nil
}

// settleResidual pushes 100 - sum onto the largest entry other than skip
// (lowest index on ties). A negative residual that would take that entry
// below zero spills onto the next largest.
func settleResidual(out []domain.SubsidyShare, skip int) {
	for diff := Total - Sum(out); diff != 0; diff = Total - Sum(out) {
		target := largest(out, skip, diff < 0)
		if target < 0 {
			return
		}
		next := out[target].Percent + diff
		if next < 0 {
			next = 0
		}
		out[target].Percent = next
	}
}

// largest returns the index of the largest entry other than skip. When
// positiveOnly is set, entries already at zero are ignored.
func largest(out []domain.SubsidyShare, skip int, positiveOnly bool) int {
	best := -1
	for i, s := range out {
		if i == skip || (positiveOnly && s.Percent <= 0) {
			continue
		}
		if best < 0 || s.Percent > out[best].Percent {
			best = i
		}
	}
	return best
}

// FromCatalog builds an even allocation over the catalog programs
func FromCatalog(catalog []string) []domain.SubsidyShare {
	if len(catalog) == 0 {
		return nil
	}
	alloc := make([]domain.SubsidyShare, len(catalog))
	for i, name := range catalog {
		alloc[i] = domain.SubsidyShare{Name: name}
	}
	out, _ := Normalize(alloc)
	return out
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
