package modelselection

import (
	"sync"

	"github.com/YuminosukeSato/modelforge/linear"
	"github.com/YuminosukeSato/modelforge/pkg/errors"
)

// The registry replaces dynamic import-by-name: configuration documents refer
// to estimators and search routines by module and class, and the registry
// maps those references to constructors. Unknown references fail fast with a
// ResolutionError instead of silently resolving to nothing.

var (
	registryMu sync.RWMutex
	registry   = map[string]map[string]func() interface{}{}
)

// Register adds a constructor for the given module and class reference.
// Registering an existing reference replaces it.
func Register(module, class string, factory func() interface{}) {
	registryMu.Lock()
	defer registryMu.Unlock()

	classes, ok := registry[module]
	if !ok {
		classes = map[string]func() interface{}{}
		registry[module] = classes
	}
	classes[class] = factory
}

// Resolve looks up the constructor for a module/class reference.
func Resolve(module, class string) (func() interface{}, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	classes, ok := registry[module]
	if !ok {
		return nil, errors.NewResolutionError(module, class, "unknown module")
	}
	factory, ok := classes[class]
	if !ok {
		return nil, errors.NewResolutionError(module, class, "unknown class in module")
	}
	return factory, nil
}

func init() {
	Register("linear", "LinearRegression", func() interface{} { return linear.NewLinearRegression() })
	Register("linear", "Ridge", func() interface{} { return linear.NewRidge() })
	Register("linear", "Lasso", func() interface{} { return linear.NewLasso() })
	Register("modelselection", "GridSearchCV", func() interface{} { return NewGridSearchCV() })
}
