// Package modelforge provides configuration-driven model selection for
// regression in Go.
//
// ModelForge reads a YAML document describing candidate models and their
// hyperparameter grids, runs cross-validated grid search over every
// candidate, and picks the best model against a caller-supplied accuracy
// floor. The estimators follow a scikit-learn-like API over gonum matrices.
//
// # Quick Start
//
// Describe the candidates in YAML:
//
//	grid_search:
//	  module: modelselection
//	  class: GridSearchCV
//	  params:
//	    cv: 5
//	model_selection:
//	  module_0:
//	    module: linear
//	    class: Ridge
//	    search_param_grid:
//	      alpha: [0.01, 0.1, 1.0]
//	  module_1:
//	    module: linear
//	    class: Lasso
//	    search_param_grid:
//	      alpha: [0.01, 0.1]
//
// Then run the pipeline:
//
//	factory, err := modelselection.NewFactory("model.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	best, err := factory.BestModel(X, y, 0.7)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("best: %s score=%.4f params=%v\n",
//	    best.SerialNumber, best.BestScore, best.BestParams)
//
// # Packages
//
//   - modelselection: configuration loading, the estimator registry,
//     cross-validated grid search and the selection policy
//   - linear: LinearRegression, Ridge and Lasso estimators
//   - preprocessing: feature scaling
//   - metrics: regression metrics (MSE, RMSE, MAE, R²)
//   - core/model: estimator interfaces and shared state
//   - pkg/errors: typed errors with stack traces
//   - pkg/log: structured logging
//
// Estimators implement Fit, Predict and Score over gonum mat.Matrix values
// and expose their hyperparameters through GetParams and SetParams so the
// configuration layer can construct them by name.
package modelforge
