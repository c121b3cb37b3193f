package model

// Estimator is an online-training object for values of type T.
//
// An estimator consumes a stream of nullable values through Fit until its
// state leaves Training, then manufactures exactly one kind of Transformer.
// Estimators are single-owner and not safe for concurrent use.
type Estimator[T Value] interface {
	// Fit consumes one value. It fails with InvalidState unless State is Training.
	Fit(v Nullable[T]) (FitResult, error)

	// FitBuffer consumes values in order and returns the result of the last
	// Fit. It stops early when a Fit returns anything other than Continue.
	FitBuffer(values []Nullable[T]) (FitResult, error)

	// OnDataCompleted signals that one full pass over the training data
	// has been consumed.
	OnDataCompleted() error

	// CompleteTraining forces the state to Finished. It is idempotent.
	CompleteTraining() error

	// State returns the current training state.
	State() TrainingState

	// CreateTransformer builds an independent transformer. It fails with
	// InvalidState unless State is Finished.
	CreateTransformer() (Transformer[T], error)
}
