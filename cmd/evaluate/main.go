package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"

	"github.com/tensorplex-labs/doubletfilter/internal/config"
	"github.com/tensorplex-labs/doubletfilter/internal/datafile"
	"github.com/tensorplex-labs/doubletfilter/internal/evaluation"
	"github.com/tensorplex-labs/doubletfilter/internal/utils/logger"
)

func main() {
	scores := flag.String("scores", "", "score file with predictions and one-hot labels (.json, .json.zst, .json.gz)")
	grid := flag.Int("grid", 0, "number of thresholds to scan (default THRESHOLD_GRID)")
	plot := flag.Bool("plot", false, "print the accuracy of every threshold as a bar chart")
	logger.Init()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if *scores == "" {
		log.Fatal().Msg("--scores is required")
	}
	if *grid <= 0 {
		*grid = cfg.ThresholdGrid
	}

	yTrue, yPred, err := datafile.LoadScores(*scores)
	if err != nil {
		log.Fatal().Err(err).Str("path", *scores).Msg("Failed to load scores")
	}

	best, err := evaluation.MaxBinaryAccuracyOnMatrix(yTrue, yPred, *grid)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to find best threshold")
	}

	logSummary(log.Logger, best, yTrue, yPred, *grid)

	if *plot {
		labels := mat.Col(nil, evaluation.PositiveColumn, yTrue)
		predictions := mat.Col(nil, evaluation.PositiveColumn, yPred)
		scan, err := evaluation.ScanThresholds(predictions, labels, *grid)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to scan thresholds")
		}
		evaluation.PlotThresholdScanTerminal(os.Stdout, scan, "Binary accuracy per threshold")
	}
}

// logSummary reports the best threshold. Single-class files still get one, only the
// roc_auc field is left out.
func logSummary(l zerolog.Logger, best evaluation.ThresholdResult, yTrue, yPred *mat.Dense, grid int) {
	samples, _ := yTrue.Dims()
	event := l.Info()
	if roc, err := evaluation.MacroROCAUC(yTrue, yPred); err != nil {
		l.Warn().Err(err).Msg("ROC-AUC not available")
	} else {
		event = event.Float64("roc_auc", roc)
	}
	event.
		Int("samples", samples).
		Int("grid", grid).
		Float64("accuracy", best.Accuracy).
		Float64("threshold", best.Threshold).
		Msgf("best accuracy %.4f at threshold %.4f", best.Accuracy, best.Threshold)
}
