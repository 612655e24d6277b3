package modelselection

import (
	"math/rand/v2"
	"testing"

	"github.com/YuminosukeSato/modelforge/linear"
	"github.com/YuminosukeSato/modelforge/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// makeRegressionData builds a noisy linear dataset y = 1 + Σ (j+1)·0.5·x_j.
func makeRegressionData(nSamples, nFeatures int) (*mat.Dense, *mat.Dense) {
	r := rand.New(rand.NewPCG(42, 42))

	X := mat.NewDense(nSamples, nFeatures, nil)
	y := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		target := 1.0
		for j := 0; j < nFeatures; j++ {
			v := r.Float64()*10 - 5
			X.Set(i, j, v)
			target += float64(j+1) * 0.5 * v
		}
		y.Set(i, 0, target+r.NormFloat64()*0.01)
	}
	return X, y
}

func TestExpandGrid(t *testing.T) {
	grid := map[string][]interface{}{
		"alpha":         {0.1, 1.0},
		"fit_intercept": {true, false},
	}

	combos := expandGrid(grid)
	require.Len(t, combos, 4)

	// Keys iterate sorted, so alpha varies slowest.
	assert.Equal(t, map[string]interface{}{"alpha": 0.1, "fit_intercept": true}, combos[0])
	assert.Equal(t, map[string]interface{}{"alpha": 0.1, "fit_intercept": false}, combos[1])
	assert.Equal(t, map[string]interface{}{"alpha": 1.0, "fit_intercept": true}, combos[2])
	assert.Equal(t, map[string]interface{}{"alpha": 1.0, "fit_intercept": false}, combos[3])
}

func TestExpandGridEmpty(t *testing.T) {
	combos := expandGrid(nil)
	require.Len(t, combos, 1)
	assert.Empty(t, combos[0])
}

func TestGridSearchCVFit(t *testing.T) {
	X, y := makeRegressionData(120, 3)

	gs := NewGridSearchCV()
	grid := map[string][]interface{}{
		"alpha": {0.01, 10000.0},
	}

	err := gs.Fit(linear.NewRidge(), grid, X, y)
	require.NoError(t, err)

	// Heavy shrinkage ruins the fit, so the small alpha must win.
	assert.Equal(t, 0.01, gs.BestParams()["alpha"])
	assert.Greater(t, gs.BestScore(), 0.9)

	best := gs.BestEstimator()
	require.NotNil(t, best)
	score, err := best.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.9)
}

func TestGridSearchCVFitEmptyGrid(t *testing.T) {
	X, y := makeRegressionData(60, 2)

	gs := NewGridSearchCV()
	err := gs.Fit(linear.NewRidge(), nil, X, y)
	require.NoError(t, err)

	assert.Empty(t, gs.BestParams())
	require.NotNil(t, gs.BestEstimator())
}

func TestGridSearchCVFitInvalidParam(t *testing.T) {
	X, y := makeRegressionData(60, 2)

	gs := NewGridSearchCV()
	grid := map[string][]interface{}{
		"no_such_param": {1.0},
	}

	err := gs.Fit(linear.NewRidge(), grid, X, y)
	require.Error(t, err)

	var conErr *errors.ConstructionError
	assert.True(t, errors.As(err, &conErr))
}

func TestGridSearchCVSetParams(t *testing.T) {
	gs := NewGridSearchCV()
	err := gs.SetParams(map[string]interface{}{
		"cv":          5,
		"shuffle":     true,
		"random_seed": 42,
		"verbose":     2,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, gs.CV)
	assert.True(t, gs.Shuffle)
	assert.Equal(t, 42, gs.RandomSeed)
	assert.Equal(t, 2, gs.Verbose)

	err = gs.SetParams(map[string]interface{}{"folds": 3})
	require.Error(t, err)
	var conErr *errors.ConstructionError
	assert.True(t, errors.As(err, &conErr))
}

func TestGridSearchCVSetParamsInvalidCV(t *testing.T) {
	// Fewer than 2 folds cannot cross-validate; the value must be
	// rejected rather than quietly replaced with a default.
	for _, cv := range []int{-1, 0, 1} {
		gs := NewGridSearchCV()
		err := gs.SetParams(map[string]interface{}{"cv": cv})
		require.Error(t, err, "cv=%d", cv)

		var conErr *errors.ConstructionError
		assert.True(t, errors.As(err, &conErr))
		assert.Equal(t, 3, gs.CV, "rejected value must not overwrite the fold count")
	}
}
