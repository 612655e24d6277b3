// Package model provides the interfaces and base types shared by all
// estimators. Concrete regressors embed BaseEstimator and implement the
// interfaces below; the model-selection layer programs exclusively against
// them.
package model

// ParameterGetter is the interface for models that expose their hyperparameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}

// ParameterSetter is the interface for models that allow hyperparameter
// modification. Implementations reject unknown parameter names and values of
// the wrong type instead of ignoring them, so misspelled configuration keys
// fail loudly.
type ParameterSetter interface {
	// SetParams sets the model's hyperparameters.
	SetParams(params map[string]interface{}) error
}

// Cloner is the interface for models that can produce an unfitted copy of
// themselves carrying the same hyperparameters. Grid search relies on this to
// evaluate parameter combinations on fresh instances.
type Cloner interface {
	// Clone returns an unfitted copy with identical hyperparameters.
	Clone() Regressor
}
