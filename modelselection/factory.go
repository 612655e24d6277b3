package modelselection

import (
	"sort"

	"github.com/YuminosukeSato/modelforge/pkg/errors"
	"github.com/YuminosukeSato/modelforge/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// InitializedModel pairs a constructed, unfitted estimator with its serial
// number and hyperparameter grid from the configuration.
type InitializedModel struct {
	SerialNumber string
	Name         string
	Model        Estimator
	ParamGrid    map[string][]interface{}
}

// SearchedModel is the outcome of a hyperparameter search for one candidate.
// Model is the original unfitted estimator; BestModel is the refitted winner.
type SearchedModel struct {
	SerialNumber string
	Model        Estimator
	BestModel    Estimator
	BestParams   map[string]interface{}
	BestScore    float64
}

// BestModel is the candidate the selection policy picked.
type BestModel struct {
	SerialNumber string
	Model        Estimator
	BestModel    Estimator
	BestParams   map[string]interface{}
	BestScore    float64
}

// ApplyParams resolves and constructs an estimator, then applies base
// parameters. A nil params map leaves the instance at its defaults.
func ApplyParams(module, class string, params map[string]interface{}) (Estimator, error) {
	factory, err := Resolve(module, class)
	if err != nil {
		return nil, err
	}
	instance := factory()
	est, ok := instance.(Estimator)
	if !ok {
		return nil, errors.NewResolutionError(module, class, "registered type is not a regression estimator")
	}
	if len(params) > 0 {
		if err := est.SetParams(params); err != nil {
			return nil, err
		}
	}
	return est, nil
}

// Factory drives the full pipeline: construct every candidate from the
// configuration, run the configured search routine over each one, and hand
// the results to the selection policy.
type Factory struct {
	configPath string
	config     *Config
	logger     log.Logger
}

// NewFactory loads and validates the configuration at configPath.
func NewFactory(configPath string) (*Factory, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return &Factory{
		configPath: configPath,
		config:     cfg,
		logger:     log.GetLoggerWithName("modelselection"),
	}, nil
}

// Config returns the parsed configuration.
func (f *Factory) Config() *Config {
	return f.config
}

// InitializedModels constructs every candidate named in the configuration,
// ordered by serial number. Construction is all-or-nothing: the first
// resolution or parameter failure aborts the whole batch.
func (f *Factory) InitializedModels() ([]InitializedModel, error) {
	serials := make([]string, 0, len(f.config.ModelSelection))
	for serial := range f.config.ModelSelection {
		serials = append(serials, serial)
	}
	sort.Strings(serials)

	models := make([]InitializedModel, 0, len(serials))
	for _, serial := range serials {
		spec := f.config.ModelSelection[serial]
		est, err := ApplyParams(spec.Module, spec.Class, spec.Params)
		if err != nil {
			return nil, err
		}
		f.logger.Info("Model initialized",
			log.PhaseKey, log.PhaseInitialization,
			log.SerialNumberKey, serial,
			log.ModelNameKey, spec.Name(),
		)
		models = append(models, InitializedModel{
			SerialNumber: serial,
			Name:         spec.Name(),
			Model:        est,
			ParamGrid:    spec.SearchParamGrid,
		})
	}
	return models, nil
}

// searchRoutine constructs the configured search routine with its parameters
// applied. A fresh routine is built per candidate so no search state leaks
// between runs.
func (f *Factory) searchRoutine() (SearchRoutine, error) {
	spec := f.config.GridSearch
	factory, err := Resolve(spec.Module, spec.Class)
	if err != nil {
		return nil, err
	}
	instance := factory()
	routine, ok := instance.(SearchRoutine)
	if !ok {
		return nil, errors.NewResolutionError(spec.Module, spec.Class, "registered type is not a search routine")
	}
	if len(spec.Params) > 0 {
		if err := routine.SetParams(spec.Params); err != nil {
			return nil, err
		}
	}
	return routine, nil
}

// SearchBestParams runs the configured search routine over one candidate's
// hyperparameter grid. Failures are wrapped as SearchError with the
// candidate's serial number.
func (f *Factory) SearchBestParams(m InitializedModel, X, y mat.Matrix) (*SearchedModel, error) {
	routine, err := f.searchRoutine()
	if err != nil {
		return nil, err
	}

	logger := f.logger.With(
		log.SerialNumberKey, m.SerialNumber,
		log.ModelNameKey, m.Name,
	)
	logger.Info("Hyperparameter search started",
		log.OperationKey, log.OperationSearch,
		log.PhaseKey, log.PhaseSearch,
	)

	if err := routine.Fit(m.Model, m.ParamGrid, X, y); err != nil {
		return nil, errors.NewSearchError(m.SerialNumber, err)
	}

	logger.Info("Hyperparameter search finished",
		log.OperationKey, log.OperationSearch,
		log.BestScoreKey, routine.BestScore(),
	)
	return &SearchedModel{
		SerialNumber: m.SerialNumber,
		Model:        m.Model,
		BestModel:    routine.BestEstimator(),
		BestParams:   routine.BestParams(),
		BestScore:    routine.BestScore(),
	}, nil
}

// SearchBestParamsAll searches every candidate in serial-number order,
// aborting on the first failure.
func (f *Factory) SearchBestParamsAll(models []InitializedModel, X, y mat.Matrix) ([]SearchedModel, error) {
	results := make([]SearchedModel, 0, len(models))
	for _, m := range models {
		searched, err := f.SearchBestParams(m, X, y)
		if err != nil {
			return nil, err
		}
		results = append(results, *searched)
	}
	return results, nil
}

// BestModel runs the whole pipeline: initialize every candidate, search each
// one's grid on (X, y), and select the winner against baseAccuracy.
func (f *Factory) BestModel(X, y mat.Matrix, baseAccuracy float64) (*BestModel, error) {
	models, err := f.InitializedModels()
	if err != nil {
		return nil, err
	}
	f.logger.Info("Candidate models initialized",
		log.PhaseKey, log.PhaseInitialization,
		log.CandidatesKey, len(models),
	)

	results, err := f.SearchBestParamsAll(models, X, y)
	if err != nil {
		return nil, err
	}

	return SelectBest(results, baseAccuracy)
}
