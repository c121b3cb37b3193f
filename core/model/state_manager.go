package model

import (
	"github.com/YuminosukeSato/featurizer/pkg/errors"
)

// TrainingState is the state of an online estimator.
type TrainingState int

const (
	// Pending is the state before training begins.
	Pending TrainingState = iota
	// Training accepts Fit calls.
	Training
	// Finished is terminal; a transformer can be created.
	Finished
)

// String returns the state name.
func (s TrainingState) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Training:
		return "Training"
	case Finished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// FitResult tells the caller how to continue the training iteration.
type FitResult int

const (
	// Complete means the estimator needs no more data.
	Complete FitResult = iota
	// Continue requests the next item.
	Continue
	// ResetAndContinue requests the caller restart from the first item.
	ResetAndContinue
)

// String returns the result name.
func (r FitResult) String() string {
	switch r {
	case Complete:
		return "Complete"
	case Continue:
		return "Continue"
	case ResetAndContinue:
		return "ResetAndContinue"
	default:
		return "Unknown"
	}
}

// StateManager tracks the Pending -> Training -> Finished transitions of an
// estimator. Estimators embed it by composition.
//
// Transitions only move forward; Finish is idempotent.
type StateManager struct {
	state TrainingState
}

// NewStateManager creates a StateManager in Pending.
func NewStateManager() *StateManager {
	return &StateManager{state: Pending}
}

// State returns the current state.
func (s *StateManager) State() TrainingState {
	return s.state
}

// BeginTraining moves Pending to Training.
func (s *StateManager) BeginTraining() error {
	if s.state != Pending {
		return errors.NewInvalidStateError("BeginTraining", s.state.String(), "training already started")
	}
	s.state = Training
	return nil
}

// Finish moves the estimator to Finished from any state.
func (s *StateManager) Finish() {
	s.state = Finished
}

// IsFinished reports whether training has completed.
func (s *StateManager) IsFinished() bool {
	return s.state == Finished
}

// RequireTraining returns an InvalidState error unless the state is Training.
func (s *StateManager) RequireTraining(op string) error {
	if s.state != Training {
		return errors.NewInvalidStateError(op, s.state.String(), "estimator is not accepting training data")
	}
	return nil
}

// RequireFinished returns an InvalidState error unless training has finished.
func (s *StateManager) RequireFinished(op string) error {
	if s.state != Finished {
		return errors.NewInvalidStateError(op, s.state.String(), "training has not completed; call CompleteTraining first")
	}
	return nil
}
