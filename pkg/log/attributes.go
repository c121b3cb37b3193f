package log

// Featurizer and operation context.
const (
	// FeaturizerKey identifies the featurizer kind.
	// Examples: "BackwardFillImputer", "ForwardFillImputer"
	FeaturizerKey = "featurizer.name"

	// ValueTypeKey identifies the value type the featurizer is instantiated for.
	// Examples: "int64", "float32", "string"
	ValueTypeKey = "featurizer.value_type"

	// HandleKey carries an opaque boundary handle.
	HandleKey = "featurizer.handle"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies the package performing the operation.
	ComponentKey = "ml.component"

	// StateKey records the training state.
	StateKey = "training.state"
)

// Stream context.
const (
	// PendingKey records the number of buffered nulls not yet resolved.
	PendingKey = "stream.pending"

	// EmittedKey records the number of values emitted by a call.
	EmittedKey = "stream.emitted"

	// PolicyKey records the unresolved tail policy in effect.
	PolicyKey = "stream.tail_policy"

	// ItemsKey records the number of items in a training pass.
	ItemsKey = "data.items"

	// PassKey records the training pass number.
	PassKey = "training.pass"

	// ArchiveSizeKey records the size of a saved archive in bytes.
	ArchiveSizeKey = "archive.size_bytes"
)

// Error context.
const (
	// ErrorKindKey categorizes the error kind.
	ErrorKindKey = "error.kind"

	// StacktraceKey contains stack trace information for debugging.
	StacktraceKey = "error.stacktrace"
)

// Standard attribute values.
const (
	OperationFit               = "fit"
	OperationFitBuffer         = "fit_buffer"
	OperationDataCompleted     = "on_data_completed"
	OperationCompleteTraining  = "complete_training"
	OperationCreateTransformer = "create_transformer"
	OperationTransform         = "transform"
	OperationFlush             = "flush"
	OperationSave              = "save"
	OperationLoad              = "load"
)
