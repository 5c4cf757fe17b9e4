package main

import (
	"fmt"

	waveform "github.com/protodune/waveform_go/pkg"
)

func printConfiguration(config waveform.Configuration, logger waveform.Logger) {
	logger.Info(fmt.Sprintf("Files in: %v", config.Filenames), "config")
	logger.Info(fmt.Sprintf("Format: %s", config.Format), "config")
	logger.Info(fmt.Sprintf("APAs: %s", config.Apas), "config")
	logger.Info(fmt.Sprintf("Colour scale max: %g", config.CMax), "config")
	if config.TMin != nil {
		logger.Info(fmt.Sprintf("Time min: %g", *config.TMin), "config")
	}
	if config.TMax != nil {
		logger.Info(fmt.Sprintf("Time max: %g", *config.TMax), "config")
	}
	logger.Info(fmt.Sprintf("Use channel number: %t", config.UseChannelNumber), "config")
	logger.Info(fmt.Sprintf("Show hits: %t", config.ShowHits), "config")
	logger.Info(fmt.Sprintf("Collection only: %t", config.CollectionOnly), "config")
	logger.Info(fmt.Sprintf("Save name: %s", config.SaveName), "config")
	logger.Info(fmt.Sprintf("Figure size: %v", config.FigSize), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
}
