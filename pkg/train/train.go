// Package train wires the whole batch pipeline together: load the
// bundled dataset, optionally standardize features, split with a fixed
// seed, fit a random forest, report held-out accuracy, persist the
// fitted model. Single shot, no retries; any step error aborts the run.
package train

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mir-owahed/iris-mlops/pkg/artifact"
	"github.com/mir-owahed/iris-mlops/pkg/dataset"
	"github.com/mir-owahed/iris-mlops/pkg/model"
	"github.com/mir-owahed/iris-mlops/pkg/pipeline"
	"github.com/mir-owahed/iris-mlops/pkg/preprocess"
)

// Result summarizes a completed training run.
type Result struct {
	RunID        string
	Accuracy     float64
	Report       model.ClassReport
	ModelPath    string
	TrainSamples int
	TestSamples  int
	FitDuration  time.Duration
	Duration     time.Duration
}

// Runner executes the pipeline for one configuration.
type Runner struct {
	cfg Config
	log *slog.Logger
}

// NewRunner validates cfg up front so Run can only fail on real work.
func NewRunner(cfg Config, log *slog.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Runner{cfg: cfg, log: log}, nil
}

// Run executes load -> scale -> split -> fit -> evaluate -> persist and
// prints the held-out accuracy to stdout. The artifact file exists at
// cfg.ModelPath iff Run returns nil.
func (r *Runner) Run() (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.NewString(), ModelPath: r.cfg.ModelPath}
	log := r.log.With("run_id", res.RunID)

	ds, err := dataset.LoadIris()
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	log.Info("dataset loaded",
		"samples", ds.NumSamples(),
		"features", ds.NumFeatures(),
		"classes", ds.NumClasses())

	split, err := dataset.TrainTestSplit(ds, r.cfg.TestRatio, r.cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	res.TrainSamples = len(split.XTrain)
	res.TestSamples = len(split.XTest)
	log.Info("split done",
		"train", res.TrainSamples,
		"test", res.TestSamples,
		"seed", r.cfg.Seed)

	XTrain, XTest := split.XTrain, split.XTest
	if r.cfg.Scale {
		pipe := pipeline.New(preprocess.NewStandardScaler())
		XTrain, err = pipe.FitTransform(XTrain)
		if err != nil {
			return nil, fmt.Errorf("train: %w", err)
		}
		XTest = pipe.Transform(XTest)
		log.Info("features standardized")
	}

	forest := model.NewRandomForest(
		model.WithNEstimators(r.cfg.Trees),
		model.WithForestMaxDepth(r.cfg.MaxDepth),
		model.WithForestMinSamplesSplit(r.cfg.MinSamplesSplit),
		model.WithBootstrap(true),
		model.WithSeed(r.cfg.Seed),
	)
	fitStart := time.Now()
	if err := forest.Fit(XTrain, split.YTrain); err != nil {
		return nil, fmt.Errorf("train: fit: %w", err)
	}
	res.FitDuration = time.Since(fitStart)
	log.Info("forest fitted", "trees", r.cfg.Trees, "took", res.FitDuration)

	preds := forest.Predict(XTest)
	res.Accuracy = model.Accuracy(split.YTest, preds)
	cm, err := model.ConfusionMatrix(split.YTest, preds, ds.NumClasses())
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	res.Report = model.PrecisionRecallF1(cm)
	log.Info("evaluated", "accuracy", res.Accuracy)
	fmt.Printf("Accuracy: %.4f\n", res.Accuracy)

	if err := artifact.Save(r.cfg.ModelPath, forest); err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	log.Info("model persisted", "path", r.cfg.ModelPath)

	res.Duration = time.Since(start)
	return res, nil
}
