// Command train runs the iris training pipeline once and exits.
//
// Usage:
//
//	go run ./cmd/train
//	go run ./cmd/train --config config.yaml
//	go run ./cmd/train --seed 42 --trees 100 --model-path app/model.gob
//
// Exit status is 0 when the model was trained and persisted, non-zero
// otherwise, so CI can gate image build and push on it.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mir-owahed/iris-mlops/pkg/train"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		modelPath  string
		seed       int64
		trees      int
		scale      bool
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:           "train",
		Short:         "Train a random forest on the bundled iris dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := train.LoadConfig(configPath)
			if err != nil {
				return err
			}
			// flags win over config file
			if cmd.Flags().Changed("model-path") {
				cfg.ModelPath = modelPath
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			if cmd.Flags().Changed("trees") {
				cfg.Trees = trees
			}
			if cmd.Flags().Changed("scale") {
				cfg.Scale = scale
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}

			logger := newLogger(cfg.LogLevel)
			runner, err := train.NewRunner(cfg, logger)
			if err != nil {
				return err
			}
			res, err := runner.Run()
			if err != nil {
				return err
			}
			logger.Info("run complete",
				"run_id", res.RunID,
				"accuracy", res.Accuracy,
				"model", res.ModelPath,
				"took", res.Duration)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to yaml config")
	cmd.Flags().StringVar(&modelPath, "model-path", "app/model.gob", "where to write the fitted model")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed for split and forest")
	cmd.Flags().IntVar(&trees, "trees", 100, "number of trees in the forest")
	cmd.Flags().BoolVar(&scale, "scale", false, "standardize features before fitting")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	})
	return cmd
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
