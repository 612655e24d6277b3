package modelselection

import (
	"testing"

	"github.com/YuminosukeSato/modelforge/core/model"
	"github.com/YuminosukeSato/modelforge/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func searchedModels(scores ...float64) []SearchedModel {
	results := make([]SearchedModel, len(scores))
	for i, score := range scores {
		results[i] = SearchedModel{
			SerialNumber: "module_" + string(rune('0'+i)),
			BestScore:    score,
		}
	}
	return results
}

func TestSelectBest(t *testing.T) {
	tests := []struct {
		name         string
		scores       []float64
		baseAccuracy float64
		wantSerial   string
		wantScore    float64
	}{
		{
			name:         "later better model wins",
			scores:       []float64{0.5, 0.7, 0.65, 0.9},
			baseAccuracy: 0.6,
			wantSerial:   "module_3",
			wantScore:    0.9,
		},
		{
			name:         "early winner survives weaker successors",
			scores:       []float64{0.9, 0.5},
			baseAccuracy: 0.6,
			wantSerial:   "module_0",
			wantScore:    0.9,
		},
		{
			name:         "floor rises with each qualifier",
			scores:       []float64{0.7, 0.9, 0.8},
			baseAccuracy: 0.6,
			wantSerial:   "module_1",
			wantScore:    0.9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best, err := SelectBest(searchedModels(tt.scores...), tt.baseAccuracy)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSerial, best.SerialNumber)
			assert.Equal(t, tt.wantScore, best.BestScore)
		})
	}
}

func TestSelectBestNoneAcceptable(t *testing.T) {
	_, err := SelectBest(searchedModels(0.1, 0.3, 0.5), 0.6)
	require.Error(t, err)

	var noErr *errors.NoAcceptableModelError
	require.True(t, errors.As(err, &noErr))
	assert.Contains(t, err.Error(), "3 candidate")
}

func TestSelectBestRequiresStrictImprovement(t *testing.T) {
	// A score equal to the base accuracy does not qualify.
	_, err := SelectBest(searchedModels(0.6), 0.6)
	require.Error(t, err)

	var noErr *errors.NoAcceptableModelError
	assert.True(t, errors.As(err, &noErr))
}

func TestCombinedAccuracy(t *testing.T) {
	tests := []struct {
		name     string
		trainAcc float64
		testAcc  float64
		want     float64
	}{
		{"equal accuracies", 0.8, 0.8, 0.8},
		{"imbalance penalized", 0.9, 0.3, 0.45},
		{"perfect fit", 1.0, 1.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CombinedAccuracy(tt.trainAcc, tt.testAcc)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestCombinedAccuracyDegenerate(t *testing.T) {
	_, err := CombinedAccuracy(0, 0)
	require.Error(t, err)

	var degErr *errors.DegenerateMetricError
	assert.True(t, errors.As(err, &degErr))
}

// stubRegressor returns canned predictions so train/test accuracies are
// exact. The split is told apart by row count.
type stubRegressor struct {
	trainPred *mat.Dense
	testPred  *mat.Dense
}

func (s *stubRegressor) Fit(X, y mat.Matrix) error { return nil }

func (s *stubRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	rows, _ := X.Dims()
	trainRows, _ := s.trainPred.Dims()
	if rows == trainRows {
		return s.trainPred, nil
	}
	return s.testPred, nil
}

func (s *stubRegressor) Score(X, y mat.Matrix) (float64, error) { return 0, nil }

// evaluationSplit is a fixed split with simple sums of squares: the train
// target has total variance 10, the test target 5.
func evaluationSplit() (XTrain, yTrain, XTest, yTest *mat.Dense) {
	XTrain = mat.NewDense(5, 1, []float64{0, 1, 2, 3, 4})
	yTrain = mat.NewDense(5, 1, []float64{0, 1, 2, 3, 4})
	XTest = mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	yTest = mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	return XTrain, yTrain, XTest, yTest
}

func TestEvaluateRegressionModels(t *testing.T) {
	XTrain, yTrain, XTest, yTest := evaluationSplit()

	// Train R² = 1 - 0.8/10 = 0.92, test R² = 1 - 0.5/5 = 0.9.
	// Gap 0.02 stays under the guard; combined ≈ 0.9099.
	good := &stubRegressor{
		trainPred: mat.NewDense(5, 1, []float64{0.4, 0.6, 2.4, 2.6, 4.4}),
		testPred:  mat.NewDense(4, 1, []float64{0.5, 1, 2, 2.5}),
	}

	report, err := EvaluateRegressionModels([]model.Regressor{good}, XTrain, yTrain, XTest, yTest, 0.5)
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, 0, report.Index)
	assert.InDelta(t, 0.92, report.TrainAccuracy, 1e-12)
	assert.InDelta(t, 0.9, report.TestAccuracy, 1e-12)
	assert.InDelta(t, 2*0.92*0.9/(0.92+0.9), report.ModelAccuracy, 1e-12)
	assert.Greater(t, report.TrainRMSE, 0.0)
	assert.Greater(t, report.TestRMSE, 0.0)
}

func TestEvaluateRegressionModelsOverfitGuard(t *testing.T) {
	XTrain, yTrain, XTest, yTest := evaluationSplit()

	// Train R² = 1.0 but test R² = 0.9: the 0.1 gap trips the guard even
	// though the combined accuracy clears the floor.
	overfit := &stubRegressor{
		trainPred: mat.NewDense(5, 1, []float64{0, 1, 2, 3, 4}),
		testPred:  mat.NewDense(4, 1, []float64{0.5, 1, 2, 2.5}),
	}

	report, err := EvaluateRegressionModels([]model.Regressor{overfit}, XTrain, yTrain, XTest, yTest, 0.5)
	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestEvaluateRegressionModelsLastQualifierWins(t *testing.T) {
	XTrain, yTrain, XTest, yTest := evaluationSplit()

	first := &stubRegressor{
		// Train R² = 0.92, test R² = 0.9.
		trainPred: mat.NewDense(5, 1, []float64{0.4, 0.6, 2.4, 2.6, 4.4}),
		testPred:  mat.NewDense(4, 1, []float64{0.5, 1, 2, 2.5}),
	}
	second := &stubRegressor{
		// Train R² = 0.995, test R² = 0.992: beats the raised floor.
		trainPred: mat.NewDense(5, 1, []float64{0.1, 1.1, 2.1, 3.1, 4.1}),
		testPred:  mat.NewDense(4, 1, []float64{0.1, 1.1, 1.9, 2.9}),
	}

	report, err := EvaluateRegressionModels([]model.Regressor{first, second}, XTrain, yTrain, XTest, yTest, 0.5)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, 1, report.Index)
	assert.Greater(t, report.ModelAccuracy, 0.98)
}

func TestEvaluateRegressionModelsNoneQualify(t *testing.T) {
	XTrain, yTrain, XTest, yTest := evaluationSplit()

	weak := &stubRegressor{
		trainPred: mat.NewDense(5, 1, []float64{0.4, 0.6, 2.4, 2.6, 4.4}),
		testPred:  mat.NewDense(4, 1, []float64{0.5, 1, 2, 2.5}),
	}

	report, err := EvaluateRegressionModels([]model.Regressor{weak}, XTrain, yTrain, XTest, yTest, 0.9999)
	require.NoError(t, err)
	assert.Nil(t, report)
}
