package domain

import "errors"

// MutationStatus is the outcome of a save or delete.
type MutationStatus string

// Mutation outcomes.
const (
	MutationApplied MutationStatus = "applied"
	MutationInvalid MutationStatus = "invalid"
	MutationDenied  MutationStatus = "denied"
)

// MutationResult reports the outcome of a library change as a value.
// Validation and authorization failures are results, not errors.
type MutationResult struct {
	Status MutationStatus
	Reason string
}

// Applied reports whether the change took effect.
func (r MutationResult) Applied() bool {
	return r.Status == MutationApplied
}

// MutationResultFrom classifies err. It returns ok=false for errors that
// are neither validation nor authorization failures; callers should
// propagate those as errors.
func MutationResultFrom(err error) (MutationResult, bool) {
	switch {
	case err == nil:
		return MutationResult{Status: MutationApplied}, true
	case errors.Is(err, ErrValidation):
		return MutationResult{Status: MutationInvalid, Reason: err.Error()}, true
	case errors.Is(err, ErrUnauthorized):
		return MutationResult{Status: MutationDenied, Reason: err.Error()}, true
	default:
		return MutationResult{}, false
	}
}
