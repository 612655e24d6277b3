package modelselection

import (
	"fmt"
	"math"
	"strings"

	"github.com/YuminosukeSato/modelforge/core/model"
	"github.com/YuminosukeSato/modelforge/metrics"
	"github.com/YuminosukeSato/modelforge/pkg/errors"
	"github.com/YuminosukeSato/modelforge/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// MaxTrainTestGap is the overfitting guard: a candidate whose train and test
// accuracies differ by this much or more is rejected regardless of its
// combined accuracy.
const MaxTrainTestGap = 0.05

// SelectBest scans search results in order and picks a winner with a greedy
// strictly-increasing walk: a result qualifies only if its score strictly
// exceeds the current floor, which starts at baseAccuracy and is raised to
// each qualifying score. The last qualifier wins, so a candidate appearing
// after a strong one must beat the raised floor, not the original.
//
// Returns NoAcceptableModelError if no result exceeds the initial floor.
func SelectBest(results []SearchedModel, baseAccuracy float64) (*BestModel, error) {
	logger := log.GetLoggerWithName("modelselection")

	var best *BestModel
	floor := baseAccuracy

	for i := range results {
		result := results[i]
		if result.BestScore > floor {
			floor = result.BestScore
			best = &BestModel{
				SerialNumber: result.SerialNumber,
				Model:        result.Model,
				BestModel:    result.BestModel,
				BestParams:   result.BestParams,
				BestScore:    result.BestScore,
			}
			logger.Info("Acceptable model found",
				log.OperationKey, log.OperationSelect,
				log.SerialNumberKey, result.SerialNumber,
				log.BestScoreKey, result.BestScore,
			)
		}
	}

	if best == nil {
		return nil, errors.NewNoAcceptableModelError(baseAccuracy, len(results))
	}

	logger.Info("Best model selected",
		log.OperationKey, log.OperationSelect,
		log.SerialNumberKey, best.SerialNumber,
		log.BestScoreKey, best.BestScore,
	)
	return best, nil
}

// MetricInfo reports the evaluation of one model on held-out data.
type MetricInfo struct {
	ModelName     string
	Model         model.Regressor
	TrainRMSE     float64
	TestRMSE      float64
	TrainAccuracy float64
	TestAccuracy  float64
	ModelAccuracy float64
	Index         int
}

// CombinedAccuracy returns the harmonic mean 2·a·b/(a+b) of the train and
// test accuracies. It penalizes large train/test gaps harder than the
// arithmetic mean. Fails with DegenerateMetricError when the accuracies sum
// to zero.
func CombinedAccuracy(trainAcc, testAcc float64) (float64, error) {
	if trainAcc+testAcc == 0 {
		return 0, errors.NewDegenerateMetricError("harmonic mean", "train and test accuracy sum to zero")
	}
	return 2 * trainAcc * testAcc / (trainAcc + testAcc), nil
}

// EvaluateRegressionModels compares fitted models on train and test splits.
// For each model it computes train/test R², train/test RMSE, and the
// harmonic-mean combined accuracy. A candidate qualifies when its combined
// accuracy reaches the current floor AND its train/test accuracy gap stays
// under MaxTrainTestGap; each qualifier raises the floor to its combined
// accuracy, and the last qualifier is reported.
//
// Returns (nil, nil) when no candidate qualifies.
func EvaluateRegressionModels(models []model.Regressor, XTrain, yTrain, XTest, yTest mat.Matrix, baseAccuracy float64) (*MetricInfo, error) {
	logger := log.GetLoggerWithName("modelselection")

	var report *MetricInfo
	floor := baseAccuracy

	for i, m := range models {
		trainPred, err := m.Predict(XTrain)
		if err != nil {
			return nil, err
		}
		testPred, err := m.Predict(XTest)
		if err != nil {
			return nil, err
		}

		trainAcc, err := metrics.R2ScoreMatrix(yTrain, trainPred)
		if err != nil {
			return nil, err
		}
		testAcc, err := metrics.R2ScoreMatrix(yTest, testPred)
		if err != nil {
			return nil, err
		}

		trainRMSE, err := metrics.RMSEMatrix(yTrain, trainPred)
		if err != nil {
			return nil, err
		}
		testRMSE, err := metrics.RMSEMatrix(yTest, testPred)
		if err != nil {
			return nil, err
		}

		combined, err := CombinedAccuracy(trainAcc, testAcc)
		if err != nil {
			return nil, err
		}
		gap := math.Abs(testAcc - trainAcc)

		logger.Info("Evaluated model",
			log.OperationKey, log.OperationScore,
			log.PhaseKey, log.PhaseEvaluation,
			log.TrainScoreKey, trainAcc,
			log.TestScoreKey, testAcc,
			log.TrainRMSEKey, trainRMSE,
			log.TestRMSEKey, testRMSE,
			log.ModelAccuracyKey, combined,
		)

		if combined >= floor && gap < MaxTrainTestGap {
			floor = combined
			report = &MetricInfo{
				ModelName:     modelName(m),
				Model:         m,
				TrainRMSE:     trainRMSE,
				TestRMSE:      testRMSE,
				TrainAccuracy: trainAcc,
				TestAccuracy:  testAcc,
				ModelAccuracy: combined,
				Index:         i,
			}
			logger.Info("Acceptable model found",
				log.OperationKey, log.OperationSelect,
				log.ModelNameKey, report.ModelName,
				log.ModelAccuracyKey, combined,
			)
		}
	}

	if report == nil {
		logger.Info("No model found with higher accuracy than base accuracy",
			log.OperationKey, log.OperationSelect,
			log.BaseAccuracyKey, baseAccuracy,
		)
	}
	return report, nil
}

// modelName derives a display name from the concrete estimator type,
// e.g. "linear.Ridge".
func modelName(m model.Regressor) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", m), "*")
}
