package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/doubletfilter/internal/architecture"
	"github.com/tensorplex-labs/doubletfilter/internal/config"
	"github.com/tensorplex-labs/doubletfilter/internal/utils/logger"
)

type target struct {
	name     string
	channels int
}

// the two topologies the training scripts render by default, with their pad channels
var defaultModels = []target{
	{"big_doublet_model", 8},
	{"separate_conv_doublet_model", 4},
}

func main() {
	name := flag.String("model", "", "catalog model to describe (default: big_doublet_model and separate_conv_doublet_model)")
	channels := flag.Int("channels", architecture.DoubletChannels, "pad channels when --model is set")
	out := flag.String("out", "", "directory for the JSON model descriptions (default LOG_DIR)")
	list := flag.Bool("list", false, "list the catalog and exit")
	logger.Init()
	defer logger.Sync()

	if *list {
		for _, n := range architecture.Names() {
			fmt.Println(n)
		}
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if *out == "" {
		*out = cfg.LogDir
	}

	targets := defaultModels
	if *name != "" {
		targets = []target{{*name, *channels}}
	}

	failed := false
	for _, t := range targets {
		if err := describe(cfg, t.name, t.channels, *out); err != nil {
			log.Error().Err(err).Str("model", t.name).Msg("Failed to describe model")
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func describe(cfg *config.AppConfig, name string, channels int, dir string) error {
	m, err := architecture.Build(name, cfg.Hyperparams(), cfg.Dims(channels))
	if err != nil {
		return err
	}
	if err := m.Summary(os.Stdout); err != nil {
		return err
	}

	path := filepath.Join(dir, fmt.Sprintf("%s%s.json", cfg.ModelName, name))
	if err := m.Save(path); err != nil {
		return err
	}
	log.Info().Str("model", name).Int("channels", channels).Str("path", path).Msg("Saved model description")
	return nil
}
