package train

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mir-owahed/iris-mlops/pkg/artifact"
	"github.com/mir-owahed/iris-mlops/pkg/dataset"
	"github.com/mir-owahed/iris-mlops/pkg/model"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ModelPath = filepath.Join(t.TempDir(), "app", "model.gob")
	return cfg
}

func TestRunCanonical(t *testing.T) {
	cfg := testConfig(t)

	runner, err := NewRunner(cfg, quietLogger())
	require.NoError(t, err)

	res, err := runner.Run()
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 120, res.TrainSamples)
	assert.Equal(t, 30, res.TestSamples)
	assert.GreaterOrEqual(t, res.Accuracy, 0.0)
	assert.LessOrEqual(t, res.Accuracy, 1.0)
	// seed 42, 100 trees: comfortably above this floor every run
	assert.GreaterOrEqual(t, res.Accuracy, 0.80)

	_, err = os.Stat(cfg.ModelPath)
	require.NoError(t, err, "artifact must exist after a successful run")
}

func TestRunDeterministic(t *testing.T) {
	cfg := testConfig(t)
	cfg.Trees = 25

	runner, err := NewRunner(cfg, quietLogger())
	require.NoError(t, err)

	a, err := runner.Run()
	require.NoError(t, err)
	b, err := runner.Run()
	require.NoError(t, err)

	assert.Equal(t, a.Accuracy, b.Accuracy)
}

func TestRunArtifactRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	cfg.Trees = 25

	runner, err := NewRunner(cfg, quietLogger())
	require.NoError(t, err)
	_, err = runner.Run()
	require.NoError(t, err)

	restored := &model.RandomForest{}
	require.NoError(t, artifact.Load(cfg.ModelPath, restored))
	require.Len(t, restored.Trees, 25)

	// reloaded model predicts a label for every held-out sample
	ds, err := dataset.LoadIris()
	require.NoError(t, err)
	split, err := dataset.TrainTestSplit(ds, cfg.TestRatio, cfg.Seed)
	require.NoError(t, err)

	preds := restored.Predict(split.XTest)
	require.Len(t, preds, len(split.XTest))
	for _, p := range preds {
		assert.Contains(t, []int{0, 1, 2}, p)
	}
	assert.GreaterOrEqual(t, model.Accuracy(split.YTest, preds), 0.80)
}

func TestRunRecreatesDeletedArtifact(t *testing.T) {
	cfg := testConfig(t)
	cfg.Trees = 10

	runner, err := NewRunner(cfg, quietLogger())
	require.NoError(t, err)
	_, err = runner.Run()
	require.NoError(t, err)

	require.NoError(t, os.Remove(cfg.ModelPath))

	_, err = runner.Run()
	require.NoError(t, err)
	_, err = os.Stat(cfg.ModelPath)
	assert.NoError(t, err)
}

func TestRunWithScaling(t *testing.T) {
	cfg := testConfig(t)
	cfg.Trees = 25
	cfg.Scale = true

	runner, err := NewRunner(cfg, quietLogger())
	require.NoError(t, err)

	res, err := runner.Run()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Accuracy, 0.80)
}

func TestRunUnwritableModelPath(t *testing.T) {
	cfg := testConfig(t)
	cfg.Trees = 5

	// make the artifact's parent path a regular file
	blocker := filepath.Join(t.TempDir(), "app")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	cfg.ModelPath = filepath.Join(blocker, "model.gob")

	runner, err := NewRunner(cfg, quietLogger())
	require.NoError(t, err)

	_, err = runner.Run()
	require.Error(t, err)

	_, statErr := os.Stat(cfg.ModelPath)
	assert.Error(t, statErr, "no truncated artifact expected")
}

func TestNewRunnerRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Trees = 0
	_, err := NewRunner(cfg, quietLogger())
	assert.Error(t, err)
}
