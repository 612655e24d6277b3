// Package errors provides the error handling and warning system for modelforge.
// Every failure in the selection pipeline is represented by a typed error that
// carries its origin and, where available, the underlying cause and stack trace.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("modelforge-Warning: %v\n", w)
	}
)

// SetWarningHandler sets the warning handler for the whole library.
// Use it to silence or redirect warnings such as ConvergenceWarning.
//
// Example:
//
//	errors.SetWarningHandler(func(w error) {
//	    // ignore warnings
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// Warn raises a warning through the configured handler.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ConvergenceWarning is raised when an iterative solver stops before reaching
// its tolerance.
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
	Message    string
}

func (w *ConvergenceWarning) Error() string {
	if w.Message != "" {
		return fmt.Sprintf("%s failed to converge after %d iterations: %s", w.Algorithm, w.Iterations, w.Message)
	}
	return fmt.Sprintf("%s failed to converge after %d iterations. Consider increasing max_iter or adjusting parameters.", w.Algorithm, w.Iterations)
}

// MarshalZerologObject adds the structured warning fields to a zerolog event.
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Str("message", w.Message).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning creates a new ConvergenceWarning.
func NewConvergenceWarning(algorithm string, iterations int, message string) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations, Message: message}
}

// ===========================================================================
//
//	Selection pipeline errors
//
// ===========================================================================

// ConfigError is returned when the model configuration document cannot be
// read or does not describe a valid candidate set.
type ConfigError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("modelforge: invalid model config %q: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("modelforge: invalid model config %q: %s", e.Path, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ConfigError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).
		Str("reason", e.Reason).
		Str("type", "ConfigError")
}

// NewConfigError creates a new ConfigError with a stack trace attached.
func NewConfigError(path, reason string, err error) error {
	return errors.WithStack(&ConfigError{Path: path, Reason: reason, Err: err})
}

// ResolutionError is returned when a module/class reference from the
// configuration does not name a registered estimator or search routine.
type ResolutionError struct {
	Module string
	Class  string
	Reason string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("modelforge: cannot resolve %s.%s: %s", e.Module, e.Class, e.Reason)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ResolutionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("module", e.Module).
		Str("class", e.Class).
		Str("reason", e.Reason).
		Str("type", "ResolutionError")
}

// NewResolutionError creates a new ResolutionError with a stack trace attached.
func NewResolutionError(module, class, reason string) error {
	return errors.WithStack(&ResolutionError{Module: module, Class: class, Reason: reason})
}

// ConstructionError is returned when configured parameters cannot be applied
// to a constructed instance, typically because a parameter name is unknown or
// its value has the wrong type.
type ConstructionError struct {
	Target string
	Param  string
	Reason string
}

func (e *ConstructionError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("modelforge: cannot configure %s: parameter %q: %s", e.Target, e.Param, e.Reason)
	}
	return fmt.Sprintf("modelforge: cannot configure %s: %s", e.Target, e.Reason)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ConstructionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("target", e.Target).
		Str("param", e.Param).
		Str("reason", e.Reason).
		Str("type", "ConstructionError")
}

// NewConstructionError creates a new ConstructionError with a stack trace attached.
func NewConstructionError(target, param, reason string) error {
	return errors.WithStack(&ConstructionError{Target: target, Param: param, Reason: reason})
}

// SearchError wraps any failure during a hyperparameter search run: routine
// resolution, routine configuration, or the fit itself.
type SearchError struct {
	ModelName string
	Err       error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("modelforge: hyperparameter search failed for %s: %v", e.ModelName, e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *SearchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("type", "SearchError")
}

// NewSearchError creates a new SearchError with a stack trace attached.
func NewSearchError(modelName string, err error) error {
	return errors.WithStack(&SearchError{ModelName: modelName, Err: err})
}

// NoAcceptableModelError is returned when no candidate's score exceeds the
// base accuracy floor.
type NoAcceptableModelError struct {
	BaseAccuracy float64
	Candidates   int
}

func (e *NoAcceptableModelError) Error() string {
	return fmt.Sprintf("modelforge: none of %d candidate models exceeded base accuracy %v", e.Candidates, e.BaseAccuracy)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *NoAcceptableModelError) MarshalZerologObject(event *zerolog.Event) {
	event.Float64("base_accuracy", e.BaseAccuracy).
		Int("candidates", e.Candidates).
		Str("type", "NoAcceptableModelError")
}

// NewNoAcceptableModelError creates a new NoAcceptableModelError with a stack
// trace attached.
func NewNoAcceptableModelError(baseAccuracy float64, candidates int) error {
	return errors.WithStack(&NoAcceptableModelError{BaseAccuracy: baseAccuracy, Candidates: candidates})
}

// DegenerateMetricError is returned when a metric is mathematically undefined
// for the given inputs, such as the harmonic mean when the accuracies sum to
// zero.
type DegenerateMetricError struct {
	Metric    string
	Condition string
}

func (e *DegenerateMetricError) Error() string {
	return fmt.Sprintf("modelforge: %s is undefined: %s", e.Metric, e.Condition)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DegenerateMetricError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("metric", e.Metric).
		Str("condition", e.Condition).
		Str("type", "DegenerateMetricError")
}

// NewDegenerateMetricError creates a new DegenerateMetricError with a stack
// trace attached.
func NewDegenerateMetricError(metric, condition string) error {
	return errors.WithStack(&DegenerateMetricError{Metric: metric, Condition: condition})
}

// ===========================================================================
//
//	Estimator errors
//
// ===========================================================================

// NotFittedError is returned when Predict or Score is called on a model that
// has not been fitted yet.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("modelforge: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a new NotFittedError with a stack trace attached.
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// DimensionError is returned when input data does not have the expected shape.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("modelforge: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError creates a new DimensionError with a stack trace attached.
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// ValueError is returned when an argument value is invalid or out of range.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("modelforge: %s: %s", e.Op, e.Message)
}

// NewValueError creates a new ValueError with a stack trace attached.
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack attaches a stack trace to an error.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common sentinel errors
//
// ===========================================================================

var (
	// ErrEmptyData is returned when empty data is passed.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix is returned when a matrix cannot be inverted.
	ErrSingularMatrix = New("singular matrix")
)
