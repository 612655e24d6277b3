package modelselection

import (
	"sort"

	"github.com/YuminosukeSato/modelforge/core/model"
	"github.com/YuminosukeSato/modelforge/pkg/coerce"
	"github.com/YuminosukeSato/modelforge/pkg/errors"
	"github.com/YuminosukeSato/modelforge/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// Estimator is the full surface a candidate model must expose to take part
// in model selection.
type Estimator interface {
	model.Regressor
	model.ParameterGetter
	model.ParameterSetter
	model.Cloner
}

// SearchRoutine is the hyperparameter-search contract the factory drives.
// After a successful Fit, the best estimator, its parameters and its
// cross-validated score are available.
type SearchRoutine interface {
	model.ParameterSetter
	Fit(estimator Estimator, grid map[string][]interface{}, X, y mat.Matrix) error
	BestEstimator() Estimator
	BestParams() map[string]interface{}
	BestScore() float64
}

// GridSearchCV exhaustively evaluates every combination in a hyperparameter
// grid with k-fold cross-validation and refits the best combination on the
// full training data. The score is the mean validation R² across folds; ties
// keep the earlier combination.
type GridSearchCV struct {
	CV         int
	Shuffle    bool
	RandomSeed int
	Verbose    int

	bestEstimator Estimator
	bestParams    map[string]interface{}
	bestScore     float64

	logger log.Logger
}

// NewGridSearchCV creates a new grid search routine with 3-fold
// cross-validation.
func NewGridSearchCV() *GridSearchCV {
	return &GridSearchCV{
		CV:     3,
		logger: log.GetLoggerWithName("modelselection"),
	}
}

// SetParams sets the routine's properties. Unknown names are rejected.
func (gs *GridSearchCV) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "cv":
			n, ok := coerce.ToInt(value)
			if !ok {
				return errors.NewConstructionError("modelselection.GridSearchCV", key, "expected integer")
			}
			if n < 2 {
				return errors.NewConstructionError("modelselection.GridSearchCV", key, "cross-validation requires at least 2 folds")
			}
			gs.CV = n
		case "shuffle":
			b, ok := coerce.ToBool(value)
			if !ok {
				return errors.NewConstructionError("modelselection.GridSearchCV", key, "expected bool")
			}
			gs.Shuffle = b
		case "random_seed":
			n, ok := coerce.ToInt(value)
			if !ok {
				return errors.NewConstructionError("modelselection.GridSearchCV", key, "expected integer")
			}
			gs.RandomSeed = n
		case "verbose":
			n, ok := coerce.ToInt(value)
			if !ok {
				return errors.NewConstructionError("modelselection.GridSearchCV", key, "expected integer")
			}
			gs.Verbose = n
		default:
			return errors.NewConstructionError("modelselection.GridSearchCV", key, "unknown parameter")
		}
	}
	return nil
}

// GetParams returns the routine's properties.
func (gs *GridSearchCV) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"cv":          gs.CV,
		"shuffle":     gs.Shuffle,
		"random_seed": gs.RandomSeed,
		"verbose":     gs.Verbose,
	}
}

// Fit runs the search. Candidate combinations are evaluated sequentially in
// deterministic order (grid keys sorted, values in declaration order).
func (gs *GridSearchCV) Fit(estimator Estimator, grid map[string][]interface{}, X, y mat.Matrix) error {
	combos := expandGrid(grid)
	splitter := NewKFold(gs.CV, gs.Shuffle, gs.RandomSeed)
	folds := splitter.Split(X, y)

	if gs.Verbose >= 1 {
		gs.logger.Info("Grid search started",
			log.OperationKey, log.OperationSearch,
			log.GridSizeKey, len(combos),
			log.CVFoldsKey, splitter.GetNSplits(),
		)
	}

	var (
		bestScore  float64
		bestCombo  map[string]interface{}
		foundFirst bool
	)

	for _, combo := range combos {
		score, err := gs.crossValidate(estimator, combo, folds, X, y)
		if err != nil {
			return err
		}

		if gs.Verbose >= 2 {
			gs.logger.Info("Evaluated combination",
				log.OperationKey, log.OperationSearch,
				"params", combo,
				log.BestScoreKey, score,
			)
		}

		if !foundFirst || score > bestScore {
			bestScore = score
			bestCombo = combo
			foundFirst = true
		}
	}

	// Refit the winning combination on the full training data.
	final, err := cloneWithParams(estimator, bestCombo)
	if err != nil {
		return err
	}
	if err := errors.SafeExecute("GridSearchCV.Fit refit", func() error {
		return final.Fit(X, y)
	}); err != nil {
		return err
	}

	gs.bestEstimator = final
	gs.bestParams = bestCombo
	gs.bestScore = bestScore

	if gs.Verbose >= 1 {
		gs.logger.Info("Grid search completed",
			log.OperationKey, log.OperationSearch,
			log.BestScoreKey, bestScore,
			"best_params", bestCombo,
		)
	}
	return nil
}

// crossValidate scores one parameter combination as the mean validation R²
// over the folds.
func (gs *GridSearchCV) crossValidate(estimator Estimator, combo map[string]interface{}, folds []CVFold, X, y mat.Matrix) (float64, error) {
	var sum float64
	for _, fold := range folds {
		candidate, err := cloneWithParams(estimator, combo)
		if err != nil {
			return 0, err
		}

		trainX, trainY := extractSubset(X, y, fold.TrainIndices)
		testX, testY := extractSubset(X, y, fold.TestIndices)

		var score float64
		err = errors.SafeExecute("GridSearchCV.Fit fold", func() error {
			if err := candidate.Fit(trainX, trainY); err != nil {
				return err
			}
			s, err := candidate.Score(testX, testY)
			if err != nil {
				return err
			}
			score = s
			return nil
		})
		if err != nil {
			return 0, err
		}
		sum += score
	}
	return sum / float64(len(folds)), nil
}

// BestEstimator returns the refitted best model. Nil before Fit.
func (gs *GridSearchCV) BestEstimator() Estimator {
	return gs.bestEstimator
}

// BestParams returns the winning parameter combination. Nil before Fit.
func (gs *GridSearchCV) BestParams() map[string]interface{} {
	return gs.bestParams
}

// BestScore returns the mean cross-validated score of the winning
// combination.
func (gs *GridSearchCV) BestScore() float64 {
	return gs.bestScore
}

// cloneWithParams produces a fresh unfitted estimator with the given
// hyperparameters applied on top of the original's.
func cloneWithParams(estimator Estimator, params map[string]interface{}) (Estimator, error) {
	cloned, ok := estimator.Clone().(Estimator)
	if !ok {
		return nil, errors.NewConstructionError("GridSearchCV", "", "estimator clone does not support parameter configuration")
	}
	if len(params) > 0 {
		if err := cloned.SetParams(params); err != nil {
			return nil, err
		}
	}
	return cloned, nil
}

// expandGrid produces the cartesian product of the grid in deterministic
// order. An empty grid yields a single empty combination, which evaluates
// the estimator's defaults.
func expandGrid(grid map[string][]interface{}) []map[string]interface{} {
	keys := make([]string, 0, len(grid))
	for k := range grid {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	combos := []map[string]interface{}{{}}
	for _, key := range keys {
		values := grid[key]
		next := make([]map[string]interface{}, 0, len(combos)*len(values))
		for _, combo := range combos {
			for _, value := range values {
				extended := make(map[string]interface{}, len(combo)+1)
				for k, v := range combo {
					extended[k] = v
				}
				extended[key] = value
				next = append(next, extended)
			}
		}
		combos = next
	}
	return combos
}
