package linear

import (
	"github.com/YuminosukeSato/modelforge/core/model"
	"github.com/YuminosukeSato/modelforge/metrics"
	"github.com/YuminosukeSato/modelforge/pkg/coerce"
	"github.com/YuminosukeSato/modelforge/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Ridge is a linear regression model with L2 regularization.
// The intercept is never penalized.
type Ridge struct {
	model.BaseEstimator

	alpha        float64
	fitIntercept bool

	weights   *mat.VecDense
	intercept float64
	nFeatures int
}

// NewRidge creates a new Ridge model with the default regularization
// strength alpha=1.0.
func NewRidge() *Ridge {
	return &Ridge{alpha: 1.0, fitIntercept: true}
}

// Fit trains the model by solving (XᵀX + αI)w = Xᵀy.
func (rd *Ridge) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "Ridge.Fit")
	}
	if ry != r {
		return errors.NewDimensionError("Ridge.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("Ridge.Fit", "y must be a column vector")
	}
	if rd.alpha < 0 {
		return errors.NewValueError("Ridge.Fit", "alpha must be non-negative")
	}

	rd.nFeatures = c

	XFit := designMatrix(X, rd.fitIntercept)
	_, cols := XFit.Dims()

	var XT mat.Dense
	XT.CloneFrom(XFit.T())

	var A mat.Dense
	A.Mul(&XT, XFit)

	// Add the L2 penalty on the diagonal, skipping the intercept column.
	start := 0
	if rd.fitIntercept {
		start = 1
	}
	for j := start; j < cols; j++ {
		A.Set(j, j, A.At(j, j)+rd.alpha)
	}

	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	var XTy mat.VecDense
	XTy.MulVec(&XT, yVec)

	solved := mat.NewVecDense(cols, nil)
	if err := solved.SolveVec(&A, &XTy); err != nil {
		return errors.Wrap(errors.ErrSingularMatrix, "Ridge.Fit")
	}

	if rd.fitIntercept {
		rd.intercept = solved.AtVec(0)
		rd.weights = mat.NewVecDense(c, nil)
		for i := 0; i < c; i++ {
			rd.weights.SetVec(i, solved.AtVec(i+1))
		}
	} else {
		rd.intercept = 0
		rd.weights = mat.VecDenseCopyOf(solved)
	}

	rd.SetFitted()
	return nil
}

// Predict computes predictions for the input data.
func (rd *Ridge) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !rd.IsFitted() {
		return nil, errors.NewNotFittedError("Ridge", "Predict")
	}

	r, c := X.Dims()
	if c != rd.nFeatures {
		return nil, errors.NewDimensionError("Ridge.Predict", rd.nFeatures, c, 1)
	}

	return predictLinear(X, r, c, rd.weights, rd.intercept), nil
}

// Score returns the coefficient of determination R² of the prediction.
func (rd *Ridge) Score(X, y mat.Matrix) (float64, error) {
	pred, err := rd.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMatrix(y, pred)
}

// Alpha returns the regularization strength.
func (rd *Ridge) Alpha() float64 {
	return rd.alpha
}

// Weights returns the learned coefficients.
func (rd *Ridge) Weights() []float64 {
	if rd.weights == nil {
		return nil
	}
	return rd.weights.RawVector().Data
}

// Intercept returns the learned intercept.
func (rd *Ridge) Intercept() float64 {
	return rd.intercept
}

// GetParams returns the model's hyperparameters.
func (rd *Ridge) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"alpha":         rd.alpha,
		"fit_intercept": rd.fitIntercept,
	}
}

// SetParams sets the model's hyperparameters. Unknown names are rejected.
func (rd *Ridge) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "alpha":
			f, ok := coerce.ToFloat(value)
			if !ok {
				return errors.NewConstructionError("linear.Ridge", key, "expected number")
			}
			rd.alpha = f
		case "fit_intercept":
			b, ok := coerce.ToBool(value)
			if !ok {
				return errors.NewConstructionError("linear.Ridge", key, "expected bool")
			}
			rd.fitIntercept = b
		default:
			return errors.NewConstructionError("linear.Ridge", key, "unknown parameter")
		}
	}
	return nil
}

// Clone returns an unfitted copy with identical hyperparameters.
func (rd *Ridge) Clone() model.Regressor {
	return &Ridge{alpha: rd.alpha, fitIntercept: rd.fitIntercept}
}
