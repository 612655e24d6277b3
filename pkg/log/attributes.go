// Package log defines standard attribute keys for model-selection operations.
//
// Using these keys consistently enables log analysis and filtering across the
// whole pipeline: configuration loading, candidate initialization, grid
// search, and best-model selection. Keys follow a hierarchical naming
// convention (e.g. "model.name", "data.samples").

package log

// Model and Operation Context
// These attributes identify the candidate model and the operation performed.
const (
	// ModelNameKey identifies the estimator type as "module.class".
	// Examples: "linear.LinearRegression", "linear.Ridge"
	ModelNameKey = "model.name"

	// SerialNumberKey is the configuration key identifying one candidate
	// model descriptor, e.g. "module_0".
	SerialNumberKey = "model.serial_number"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "score", "search", "select"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "modelselection", "linear", "metrics"
	ComponentKey = "ml.component"

	// PhaseKey indicates the pipeline phase.
	// Examples: "initialization", "search", "evaluation", "selection"
	PhaseKey = "ml.phase"
)

// Data Shape
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"
)

// Search and Selection Metrics
// These attributes capture grid-search and selection results.
const (
	// GridSizeKey records the number of hyperparameter combinations tried.
	GridSizeKey = "search.grid_size"

	// CVFoldsKey records the number of cross-validation folds.
	CVFoldsKey = "search.cv_folds"

	// BestScoreKey records the best cross-validated score of a search run.
	BestScoreKey = "search.best_score"

	// BaseAccuracyKey records the accuracy floor candidates must exceed.
	BaseAccuracyKey = "selection.base_accuracy"

	// CandidatesKey records the number of candidate models considered.
	CandidatesKey = "selection.candidates"

	// TrainScoreKey records R² on the training split.
	TrainScoreKey = "metrics.train_score"

	// TestScoreKey records R² on the test split.
	TestScoreKey = "metrics.test_score"

	// ModelAccuracyKey records the harmonic-mean combined accuracy.
	ModelAccuracyKey = "metrics.model_accuracy"

	// TrainRMSEKey records root mean squared error on the training split.
	TrainRMSEKey = "metrics.train_rmse"

	// TestRMSEKey records root mean squared error on the test split.
	TestRMSEKey = "metrics.test_rmse"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Error Context
const (
	// ErrorTypeKey categorizes the type of error encountered.
	// Examples: "ConfigError", "ResolutionError", "SearchError"
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information for debugging.
	// Automatically populated by the error logging handler.
	StacktraceKey = "error.stacktrace"
)

// Standard attribute value constants for common operations.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationScore   = "score"
	OperationSearch  = "search"
	OperationSelect  = "select"

	PhaseInitialization = "initialization"
	PhaseSearch         = "search"
	PhaseEvaluation     = "evaluation"
	PhaseSelection      = "selection"
)
