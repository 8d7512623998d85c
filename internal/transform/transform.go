package transform

import (
	"fmt"

	"github.com/rgehrsitz/carbontax/internal/domain"
)

// ParameterEdit defines the interface for every change a user can make to the
// policy controls. An edit never mutates its input: Apply returns a new
// snapshot, so the UI can keep the previous one for undo or comparison.
type ParameterEdit interface {
	// Apply returns a modified copy of base.
	Apply(base domain.Parameters) (domain.Parameters, error)

	// Name returns a short identifier for this edit (e.g., "set_price").
	Name() string

	// Description returns a human-readable description of what this edit does.
	Description() string

	// Validate checks the edit against base without applying it.
	Validate(base domain.Parameters) error
}

// ApplyEdits applies a sequence of edits to base in order, each receiving the
// output of the previous one.
func ApplyEdits(base domain.Parameters, edits []ParameterEdit) (domain.Parameters, error) {
	current := base.Clone()

	for i, edit := range edits {
		if edit == nil {
			return domain.Parameters{}, fmt.Errorf("edit at index %d is nil", i)
		}

		if err := edit.Validate(current); err != nil {
			return domain.Parameters{}, fmt.Errorf("edit %s validation failed: %w", edit.Name(), err)
		}

		next, err := edit.Apply(current)
		if err != nil {
			return domain.Parameters{}, fmt.Errorf("edit %s failed: %w", edit.Name(), err)
		}

		current = next
	}

	return current, nil
}

// EditError represents an error that occurred while validating or applying an edit.
type EditError struct {
	EditName  string
	Operation string
	Reason    string
	Err       error
}

func (e *EditError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("edit %s (%s): %s: %v", e.EditName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("edit %s (%s): %s", e.EditName, e.Operation, e.Reason)
}

func (e *EditError) Unwrap() error {
	return e.Err
}

// NewEditError creates a new EditError.
func NewEditError(editName, operation, reason string, err error) error {
	return &EditError{
		EditName:  editName,
		Operation: operation,
		Reason:    reason,
		Err:       err,
	}
}
