package main

import (
	"fmt"

	waveform "github.com/protodune/waveform_go/pkg"
)

func printConfiguration(config waveform.Configuration, logger waveform.Logger) {
	logger.Info(fmt.Sprintf("Files in: %v", config.Filenames), "config")
	logger.Info(fmt.Sprintf("APAs: %s", config.Apas), "config")
	logger.Info(fmt.Sprintf("View: %s, side: %s", config.View, config.Side), "config")
	logger.Info(fmt.Sprintf("Lookahead: %d", config.Lookahead), "config")
	logger.Info(fmt.Sprintf("Threshold: %d", config.Threshold), "config")
	logger.Info(fmt.Sprintf("NContig: %d", config.NContig), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
	logger.Info(fmt.Sprintf("DB driver: %s", config.DBDriver), "config")
	if config.DBDriver == "mysql" {
		logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
		logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	} else {
		logger.Info(fmt.Sprintf("DB file: %s", config.DB), "config")
	}
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
}
