package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/doubletfilter/internal/architecture"
	"github.com/tensorplex-labs/doubletfilter/internal/config"
	"github.com/tensorplex-labs/doubletfilter/internal/datafile"
	"github.com/tensorplex-labs/doubletfilter/internal/evaluation"
	"github.com/tensorplex-labs/doubletfilter/internal/inference"
	"github.com/tensorplex-labs/doubletfilter/internal/training"
	"github.com/tensorplex-labs/doubletfilter/internal/utils/logger"
)

// checkpoints are exported as <MODEL_NAME><model>_epoch<N>.onnx
var epochPattern = regexp.MustCompile(`_epoch(\d+)\.onnx$`)

type replay struct {
	runtime     *inference.Runtime
	callback    *evaluation.ROCCallback
	train       evaluation.Dataset
	inputs      []string
	labels      int
	checkpoints map[int]string
	evaluated   int
}

func (r *replay) rocAtEpochEnd(ctx context.Context, epoch int) error {
	path, ok := r.checkpoints[epoch]
	if !ok {
		return fmt.Errorf("no checkpoint for epoch %d", epoch)
	}
	predictor, err := r.runtime.NewPredictor(path, r.inputs, r.labels)
	if err != nil {
		return err
	}
	if _, err := r.callback.OnEpochEnd(ctx, epoch, predictor, r.train); err != nil {
		return err
	}
	r.evaluated++
	return nil
}

func main() {
	dir := flag.String("dir", "", "directory holding the per-epoch ONNX checkpoints (default LOG_DIR)")
	data := flag.String("data", "", "training dataset file (.json, .json.zst, .json.gz)")
	name := flag.String("model", "big_doublet_model", "catalog model the checkpoints were trained from")
	channels := flag.Int("channels", architecture.DoubletChannels, "pad channels of the model")
	logger.Init()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if *data == "" {
		log.Fatal().Msg("--data is required")
	}
	if *dir == "" {
		*dir = cfg.LogDir
	}

	m, err := architecture.Build(*name, cfg.Hyperparams(), cfg.Dims(*channels))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build model")
	}

	checkpoints, epochs, err := findCheckpoints(*dir, cfg.ModelName+*name)
	if err != nil {
		log.Fatal().Err(err).Str("dir", *dir).Msg("Failed to list checkpoints")
	}
	if len(epochs) == 0 {
		log.Fatal().Str("dir", *dir).Msg("No checkpoints found")
	}

	labels, err := m.OutputUnits()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to size model output")
	}

	train, err := datafile.LoadDataset(*data)
	if err != nil {
		log.Fatal().Err(err).Str("path", *data).Msg("Failed to load dataset")
	}

	rt, err := inference.NewRuntime(&cfg.InferenceEnvConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start ONNX runtime")
	}
	defer rt.Close()

	r := &replay{
		runtime:     rt,
		callback:    evaluation.NewROCCallback(),
		train:       train,
		inputs:      m.Inputs,
		labels:      labels,
		checkpoints: checkpoints,
	}
	runner := training.NewRunner(training.NewEpochCallback(cfg.EvalEvery, r.rocAtEpochEnd))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("run", runner.RunID).Str("model", *name).Int("checkpoints", len(epochs)).Msg("Replaying checkpoints")
	failures := 0
	for _, epoch := range epochs {
		if err := runner.EpochEnd(ctx, epoch); err != nil {
			failures++
		}
		if ctx.Err() != nil {
			log.Warn().Msg("Interrupted, stopping replay")
			break
		}
	}
	if r.evaluated == 0 {
		log.Warn().Int("eval_every", cfg.EvalEvery).Ints("epochs", epochs).Msg("No checkpoint was evaluated")
	}
	logger.Sugar().Infow("replay finished", "run", runner.RunID, "epochs", len(epochs),
		"evaluated", r.evaluated, "failures", failures)
}

// findCheckpoints maps epoch numbers to checkpoint files for the given prefix.
func findCheckpoints(dir, prefix string) (map[int]string, []int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, prefix+"*.onnx"))
	if err != nil {
		return nil, nil, err
	}

	checkpoints := make(map[int]string, len(paths))
	epochs := make([]int, 0, len(paths))
	for _, path := range paths {
		match := epochPattern.FindStringSubmatch(filepath.Base(path))
		if match == nil {
			log.Debug().Str("path", path).Msg("Skipping file without epoch")
			continue
		}
		epoch, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if _, dup := checkpoints[epoch]; !dup {
			epochs = append(epochs, epoch)
		}
		checkpoints[epoch] = path
	}
	slices.Sort(epochs)
	return checkpoints, epochs, nil
}
