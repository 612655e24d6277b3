// Package linear provides the linear regression estimators available to the
// model-selection registry: ordinary least squares, Ridge, and Lasso.
package linear

import (
	"github.com/YuminosukeSato/modelforge/core/model"
	"github.com/YuminosukeSato/modelforge/core/parallel"
	"github.com/YuminosukeSato/modelforge/metrics"
	"github.com/YuminosukeSato/modelforge/pkg/coerce"
	"github.com/YuminosukeSato/modelforge/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Row count above which matrix assembly is parallelized.
const parallelThreshold = 1000

// LinearRegression is an ordinary least squares regression model.
type LinearRegression struct {
	model.BaseEstimator

	fitIntercept bool

	weights   *mat.VecDense
	intercept float64
	nFeatures int
}

// NewLinearRegression creates a new linear regression model.
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{fitIntercept: true}
}

// Fit trains the model using the normal equations w = (XᵀX)⁻¹Xᵀy.
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "LinearRegression.Fit")
	}
	if ry != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LinearRegression.Fit", "y must be a column vector")
	}

	lr.nFeatures = c

	XFit := designMatrix(X, lr.fitIntercept)

	var XT mat.Dense
	XT.CloneFrom(XFit.T())

	var XTX mat.Dense
	XTX.Mul(&XT, XFit)

	var XTXInv mat.Dense
	if err := XTXInv.Inverse(&XTX); err != nil {
		return errors.Wrap(errors.ErrSingularMatrix, "LinearRegression.Fit")
	}

	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	var XTy mat.VecDense
	XTy.MulVec(&XT, yVec)

	_, cols := XFit.Dims()
	solved := mat.NewVecDense(cols, nil)
	solved.MulVec(&XTXInv, &XTy)

	if lr.fitIntercept {
		lr.intercept = solved.AtVec(0)
		lr.weights = mat.NewVecDense(c, nil)
		for i := 0; i < c; i++ {
			lr.weights.SetVec(i, solved.AtVec(i+1))
		}
	} else {
		lr.intercept = 0
		lr.weights = mat.VecDenseCopyOf(solved)
	}

	lr.SetFitted()
	return nil
}

// Predict computes predictions for the input data.
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}

	r, c := X.Dims()
	if c != lr.nFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.nFeatures, c, 1)
	}

	return predictLinear(X, r, c, lr.weights, lr.intercept), nil
}

// Score returns the coefficient of determination R² of the prediction.
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	pred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMatrix(y, pred)
}

// Weights returns the learned coefficients.
func (lr *LinearRegression) Weights() []float64 {
	if lr.weights == nil {
		return nil
	}
	return lr.weights.RawVector().Data
}

// Intercept returns the learned intercept.
func (lr *LinearRegression) Intercept() float64 {
	return lr.intercept
}

// GetParams returns the model's hyperparameters.
func (lr *LinearRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"fit_intercept": lr.fitIntercept,
	}
}

// SetParams sets the model's hyperparameters. Unknown names are rejected.
func (lr *LinearRegression) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "fit_intercept":
			b, ok := coerce.ToBool(value)
			if !ok {
				return errors.NewConstructionError("linear.LinearRegression", key, "expected bool")
			}
			lr.fitIntercept = b
		default:
			return errors.NewConstructionError("linear.LinearRegression", key, "unknown parameter")
		}
	}
	return nil
}

// Clone returns an unfitted copy with identical hyperparameters.
func (lr *LinearRegression) Clone() model.Regressor {
	return &LinearRegression{fitIntercept: lr.fitIntercept}
}

// designMatrix prepends a column of ones when an intercept is fitted.
func designMatrix(X mat.Matrix, fitIntercept bool) *mat.Dense {
	r, c := X.Dims()

	if !fitIntercept {
		return mat.DenseCopyOf(X)
	}

	out := mat.NewDense(r, c+1, nil)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			out.Set(i, 0, 1.0)
			for j := 0; j < c; j++ {
				out.Set(i, j+1, X.At(i, j))
			}
		}
	})
	return out
}

// predictLinear computes X*w + intercept as an r×1 matrix.
func predictLinear(X mat.Matrix, r, c int, weights *mat.VecDense, intercept float64) *mat.Dense {
	predictions := mat.NewDense(r, 1, nil)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			sum := intercept
			for j := 0; j < c; j++ {
				sum += X.At(i, j) * weights.AtVec(j)
			}
			predictions.Set(i, 0, sum)
		}
	})
	return predictions
}
