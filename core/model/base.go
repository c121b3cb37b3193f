package model

import "github.com/YuminosukeSato/featurizer/pkg/errors"

// BaseEstimator tracks whether a matrix model has been fitted.
type BaseEstimator struct {
	fitted bool
}

// IsFitted reports whether Fit has completed.
func (e *BaseEstimator) IsFitted() bool {
	return e.fitted
}

// SetFitted marks the model as fitted.
func (e *BaseEstimator) SetFitted() {
	e.fitted = true
}

// Reset returns the model to the unfitted state.
func (e *BaseEstimator) Reset() {
	e.fitted = false
}

// RequireFitted returns a NotFittedError naming modelName and method
// unless the model has been fitted.
func (e *BaseEstimator) RequireFitted(modelName, method string) error {
	if !e.fitted {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}
