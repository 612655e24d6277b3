package modelselection

import (
	"testing"

	"github.com/YuminosukeSato/modelforge/linear"
	"github.com/YuminosukeSato/modelforge/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFactory(t *testing.T, content string) *Factory {
	t.Helper()
	f, err := NewFactory(writeConfigFile(t, content))
	require.NoError(t, err)
	return f
}

const selectionConfig = `
grid_search:
  module: modelselection
  class: GridSearchCV
  params:
    cv: 3
model_selection:
  module_0:
    module: linear
    class: Ridge
    params:
      fit_intercept: true
    search_param_grid:
      alpha: [0.01, 1.0]
  module_1:
    module: linear
    class: Lasso
    search_param_grid:
      alpha: [0.01]
      max_iter: [2000]
`

func TestFactoryInitializedModels(t *testing.T) {
	f := newTestFactory(t, selectionConfig)

	models, err := f.InitializedModels()
	require.NoError(t, err)
	require.Len(t, models, 2)

	// Serial-number order.
	assert.Equal(t, "module_0", models[0].SerialNumber)
	assert.Equal(t, "module_1", models[1].SerialNumber)

	assert.Equal(t, "linear.Ridge", models[0].Name)
	ridge, ok := models[0].Model.(*linear.Ridge)
	require.True(t, ok)
	assert.False(t, ridge.IsFitted())
	assert.Len(t, models[0].ParamGrid["alpha"], 2)

	assert.Equal(t, "linear.Lasso", models[1].Name)
	_, ok = models[1].Model.(*linear.Lasso)
	require.True(t, ok)
}

func TestFactoryInitializedModelsUnknownClass(t *testing.T) {
	f := newTestFactory(t, `
grid_search:
  module: modelselection
  class: GridSearchCV
model_selection:
  module_0:
    module: linear
    class: RandomForest
    search_param_grid:
      alpha: [1.0]
`)

	_, err := f.InitializedModels()
	require.Error(t, err)

	var resErr *errors.ResolutionError
	assert.True(t, errors.As(err, &resErr))
}

func TestFactoryInitializedModelsBadParam(t *testing.T) {
	f := newTestFactory(t, `
grid_search:
  module: modelselection
  class: GridSearchCV
model_selection:
  module_0:
    module: linear
    class: Ridge
    params:
      n_estimators: 100
    search_param_grid:
      alpha: [1.0]
`)

	_, err := f.InitializedModels()
	require.Error(t, err)

	var conErr *errors.ConstructionError
	assert.True(t, errors.As(err, &conErr))
}

func TestFactorySearchBestParams(t *testing.T) {
	f := newTestFactory(t, selectionConfig)
	X, y := makeRegressionData(90, 2)

	models, err := f.InitializedModels()
	require.NoError(t, err)

	searched, err := f.SearchBestParams(models[0], X, y)
	require.NoError(t, err)

	assert.Equal(t, "module_0", searched.SerialNumber)
	assert.Equal(t, 0.01, searched.BestParams["alpha"])
	assert.Greater(t, searched.BestScore, 0.9)
	require.NotNil(t, searched.BestModel)

	score, err := searched.BestModel.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.9)
}

func TestFactorySearchBestParamsAll(t *testing.T) {
	f := newTestFactory(t, selectionConfig)
	X, y := makeRegressionData(90, 2)

	models, err := f.InitializedModels()
	require.NoError(t, err)

	results, err := f.SearchBestParamsAll(models, X, y)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "module_0", results[0].SerialNumber)
	assert.Equal(t, "module_1", results[1].SerialNumber)
}

func TestFactorySearchBestParamsAllAbortsOnFailure(t *testing.T) {
	f := newTestFactory(t, `
grid_search:
  module: modelselection
  class: GridSearchCV
model_selection:
  module_0:
    module: linear
    class: Ridge
    search_param_grid:
      bogus: [1.0]
`)
	X, y := makeRegressionData(60, 2)

	models, err := f.InitializedModels()
	require.NoError(t, err)

	_, err = f.SearchBestParamsAll(models, X, y)
	require.Error(t, err)

	var searchErr *errors.SearchError
	require.True(t, errors.As(err, &searchErr))
	assert.Contains(t, err.Error(), "module_0")
}

func TestFactoryBestModel(t *testing.T) {
	f := newTestFactory(t, selectionConfig)
	X, y := makeRegressionData(90, 2)

	best, err := f.BestModel(X, y, 0.5)
	require.NoError(t, err)

	assert.Greater(t, best.BestScore, 0.5)
	require.NotNil(t, best.BestModel)

	score, err := best.BestModel.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.9)
}

func TestFactoryBestModelNoneAcceptable(t *testing.T) {
	f := newTestFactory(t, selectionConfig)
	X, y := makeRegressionData(90, 2)

	_, err := f.BestModel(X, y, 0.99999)
	require.Error(t, err)

	var noErr *errors.NoAcceptableModelError
	assert.True(t, errors.As(err, &noErr))
}

func TestFactoryUnknownSearchRoutine(t *testing.T) {
	f := newTestFactory(t, `
grid_search:
  module: modelselection
  class: RandomizedSearchCV
model_selection:
  module_0:
    module: linear
    class: Ridge
    search_param_grid:
      alpha: [1.0]
`)
	X, y := makeRegressionData(60, 2)

	models, err := f.InitializedModels()
	require.NoError(t, err)

	_, err = f.SearchBestParams(models[0], X, y)
	require.Error(t, err)

	var resErr *errors.ResolutionError
	assert.True(t, errors.As(err, &resErr))
}

func TestApplyParams(t *testing.T) {
	est, err := ApplyParams("linear", "Ridge", map[string]interface{}{
		"alpha":         0.5,
		"fit_intercept": false,
	})
	require.NoError(t, err)

	ridge, ok := est.(*linear.Ridge)
	require.True(t, ok)
	assert.Equal(t, 0.5, ridge.Alpha())
	assert.Equal(t, false, ridge.GetParams()["fit_intercept"])
}
