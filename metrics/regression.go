// Package metrics provides the regression scoring functions used by model
// evaluation and selection.
package metrics

import (
	"math"

	"github.com/YuminosukeSato/modelforge/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// MSE computes the mean squared error between true and predicted values.
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MSE", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MSE", n, yPred.Len(), 0)
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}

	return sum / float64(n), nil
}

// RMSE computes the root mean squared error between true and predicted values.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE computes the mean absolute error between true and predicted values.
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MAE", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MAE", n, yPred.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}

	return sum / float64(n), nil
}

// R2Score computes the coefficient of determination R².
// Returns an error when yTrue has no variance, since R² is undefined there.
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("R2Score", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("R2Score", n, yPred.Len(), 0)
	}

	var yMean float64
	for i := 0; i < n; i++ {
		yMean += yTrue.AtVec(i)
	}
	yMean /= float64(n)

	// Total sum of squares and residual sum of squares.
	var tss, rss float64
	for i := 0; i < n; i++ {
		yTrueVal := yTrue.AtVec(i)
		yPredVal := yPred.AtVec(i)

		tss += (yTrueVal - yMean) * (yTrueVal - yMean)
		rss += (yTrueVal - yPredVal) * (yTrueVal - yPredVal)
	}

	if tss == 0 {
		return 0, errors.Newf("R2Score: total sum of squares is zero (no variance in yTrue)")
	}

	// R² = 1 - RSS/TSS
	return 1 - rss/tss, nil
}

// columnVec converts an n×1 matrix into a VecDense.
func columnVec(op string, m mat.Matrix) (*mat.VecDense, error) {
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewValueError(op, "empty matrix")
	}
	if c != 1 {
		return nil, errors.NewValueError(op, "must be a column vector (n×1 matrix)")
	}

	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v, nil
}

// MSEMatrix computes MSE for column-vector matrices.
func MSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	tv, err := columnVec("MSEMatrix", yTrue)
	if err != nil {
		return 0, err
	}
	pv, err := columnVec("MSEMatrix", yPred)
	if err != nil {
		return 0, err
	}
	return MSE(tv, pv)
}

// RMSEMatrix computes RMSE for column-vector matrices.
func RMSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	mse, err := MSEMatrix(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// R2ScoreMatrix computes R² for column-vector matrices.
func R2ScoreMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	tv, err := columnVec("R2ScoreMatrix", yTrue)
	if err != nil {
		return 0, err
	}
	pv, err := columnVec("R2ScoreMatrix", yPred)
	if err != nil {
		return 0, err
	}
	return R2Score(tv, pv)
}
