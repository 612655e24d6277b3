package linear

import (
	"math"

	"github.com/YuminosukeSato/modelforge/core/model"
	"github.com/YuminosukeSato/modelforge/metrics"
	"github.com/YuminosukeSato/modelforge/pkg/coerce"
	"github.com/YuminosukeSato/modelforge/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Lasso is a linear regression model with L1 regularization, fitted with
// cyclic coordinate descent. The objective is
//
//	(1/2n)·||y - Xw - b||² + alpha·||w||₁
type Lasso struct {
	model.BaseEstimator

	alpha        float64
	maxIter      int
	tol          float64
	fitIntercept bool

	weights   *mat.VecDense
	intercept float64
	nFeatures int
	nIter     int
}

// NewLasso creates a new Lasso model with alpha=1.0, max_iter=1000 and
// tol=1e-4.
func NewLasso() *Lasso {
	return &Lasso{alpha: 1.0, maxIter: 1000, tol: 1e-4, fitIntercept: true}
}

// Fit trains the model with cyclic coordinate descent and soft-thresholding.
// Raises a ConvergenceWarning if max_iter is reached before the coefficient
// updates fall below tol.
func (ls *Lasso) Fit(X, y mat.Matrix) error {
	n, c := X.Dims()
	ry, cy := y.Dims()

	if n == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "Lasso.Fit")
	}
	if ry != n {
		return errors.NewDimensionError("Lasso.Fit", n, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("Lasso.Fit", "y must be a column vector")
	}
	if ls.alpha < 0 {
		return errors.NewValueError("Lasso.Fit", "alpha must be non-negative")
	}
	if ls.maxIter <= 0 {
		return errors.NewValueError("Lasso.Fit", "max_iter must be positive")
	}

	ls.nFeatures = c

	// Column-major copy of X and per-column mean squares.
	cols := make([][]float64, c)
	z := make([]float64, c)
	for j := 0; j < c; j++ {
		col := make([]float64, n)
		var sumSq float64
		for i := 0; i < n; i++ {
			v := X.At(i, j)
			col[i] = v
			sumSq += v * v
		}
		cols[j] = col
		z[j] = sumSq / float64(n)
	}

	w := make([]float64, c)
	var b float64

	// Residual r = y - Xw - b; starts at y with w=0, b=0.
	resid := make([]float64, n)
	for i := 0; i < n; i++ {
		resid[i] = y.At(i, 0)
	}

	converged := false
	for iter := 0; iter < ls.maxIter; iter++ {
		var maxDelta float64

		if ls.fitIntercept {
			var meanResid float64
			for i := 0; i < n; i++ {
				meanResid += resid[i]
			}
			meanResid /= float64(n)
			if meanResid != 0 {
				b += meanResid
				for i := 0; i < n; i++ {
					resid[i] -= meanResid
				}
				maxDelta = math.Max(maxDelta, math.Abs(meanResid))
			}
		}

		for j := 0; j < c; j++ {
			if z[j] == 0 {
				continue
			}

			// rho = (1/n)·Σ xᵢⱼ(rᵢ + wⱼxᵢⱼ), the correlation of column j
			// with the residual excluding its own contribution.
			var rho float64
			col := cols[j]
			for i := 0; i < n; i++ {
				rho += col[i] * (resid[i] + w[j]*col[i])
			}
			rho /= float64(n)

			next := softThreshold(rho, ls.alpha) / z[j]
			delta := next - w[j]
			if delta != 0 {
				for i := 0; i < n; i++ {
					resid[i] -= delta * col[i]
				}
				w[j] = next
				maxDelta = math.Max(maxDelta, math.Abs(delta))
			}
		}

		ls.nIter = iter + 1
		if maxDelta < ls.tol {
			converged = true
			break
		}
	}

	if !converged {
		errors.Warn(errors.NewConvergenceWarning("Lasso", ls.maxIter, ""))
	}

	ls.weights = mat.NewVecDense(c, w)
	ls.intercept = b
	ls.SetFitted()
	return nil
}

// softThreshold is the soft-thresholding operator S(v, t) = sign(v)·max(|v|-t, 0).
func softThreshold(v, t float64) float64 {
	if v > t {
		return v - t
	}
	if v < -t {
		return v + t
	}
	return 0
}

// Predict computes predictions for the input data.
func (ls *Lasso) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !ls.IsFitted() {
		return nil, errors.NewNotFittedError("Lasso", "Predict")
	}

	r, c := X.Dims()
	if c != ls.nFeatures {
		return nil, errors.NewDimensionError("Lasso.Predict", ls.nFeatures, c, 1)
	}

	return predictLinear(X, r, c, ls.weights, ls.intercept), nil
}

// Score returns the coefficient of determination R² of the prediction.
func (ls *Lasso) Score(X, y mat.Matrix) (float64, error) {
	pred, err := ls.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMatrix(y, pred)
}

// Weights returns the learned coefficients.
func (ls *Lasso) Weights() []float64 {
	if ls.weights == nil {
		return nil
	}
	return ls.weights.RawVector().Data
}

// Intercept returns the learned intercept.
func (ls *Lasso) Intercept() float64 {
	return ls.intercept
}

// NIter returns the number of coordinate descent iterations run.
func (ls *Lasso) NIter() int {
	return ls.nIter
}

// GetParams returns the model's hyperparameters.
func (ls *Lasso) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"alpha":         ls.alpha,
		"max_iter":      ls.maxIter,
		"tol":           ls.tol,
		"fit_intercept": ls.fitIntercept,
	}
}

// SetParams sets the model's hyperparameters. Unknown names are rejected.
func (ls *Lasso) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "alpha":
			f, ok := coerce.ToFloat(value)
			if !ok {
				return errors.NewConstructionError("linear.Lasso", key, "expected number")
			}
			ls.alpha = f
		case "max_iter":
			n, ok := coerce.ToInt(value)
			if !ok {
				return errors.NewConstructionError("linear.Lasso", key, "expected integer")
			}
			ls.maxIter = n
		case "tol":
			f, ok := coerce.ToFloat(value)
			if !ok {
				return errors.NewConstructionError("linear.Lasso", key, "expected number")
			}
			ls.tol = f
		case "fit_intercept":
			b, ok := coerce.ToBool(value)
			if !ok {
				return errors.NewConstructionError("linear.Lasso", key, "expected bool")
			}
			ls.fitIntercept = b
		default:
			return errors.NewConstructionError("linear.Lasso", key, "unknown parameter")
		}
	}
	return nil
}

// Clone returns an unfitted copy with identical hyperparameters.
func (ls *Lasso) Clone() model.Regressor {
	return &Lasso{
		alpha:        ls.alpha,
		maxIter:      ls.maxIter,
		tol:          ls.tol,
		fitIntercept: ls.fitIntercept,
	}
}
