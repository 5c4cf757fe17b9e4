package waveform

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Configuration struct {
	Verbosity        int       `json:"verbosity" yaml:"verbosity"`
	Filenames        []string  `json:"filenames" yaml:"filenames"`
	Format           string    `json:"format" yaml:"format"`
	Apas             string    `json:"apas" yaml:"apas"`
	CMax             float64   `json:"cmax" yaml:"cmax"`
	TMin             *float64  `json:"tmin" yaml:"tmin"`
	TMax             *float64  `json:"tmax" yaml:"tmax"`
	UseChannelNumber bool      `json:"use_channel_number" yaml:"use_channel_number"`
	ShowHits         bool      `json:"show_hits" yaml:"show_hits"`
	CollectionOnly   bool      `json:"collection_only" yaml:"collection_only"`
	Batch            bool      `json:"batch" yaml:"batch"`
	SaveName         string    `json:"save_name" yaml:"save_name"`
	FigSize          []float64 `json:"figsize" yaml:"figsize"`
	DPI              int       `json:"dpi" yaml:"dpi"`
	View             string    `json:"view" yaml:"view"`
	Side             string    `json:"side" yaml:"side"`
	Lookahead        int       `json:"lookahead" yaml:"lookahead"`
	Threshold        int       `json:"threshold" yaml:"threshold"`
	NContig          int       `json:"ncontig" yaml:"ncontig"`
	NumWorkers       int       `json:"num_workers" yaml:"num_workers"`
	DBDriver         string    `json:"db_driver" yaml:"db_driver"`
	DB               string    `json:"db" yaml:"db"`
	Host             string    `json:"host" yaml:"host"`
	User             string    `json:"user" yaml:"user"`
	Passwd           string    `json:"pass" yaml:"pass"`
	DBName           string    `json:"dbname" yaml:"dbname"`
	FileOut          string    `json:"file_out" yaml:"file_out"`
	CompressionLevel int       `json:"compression_level" yaml:"compression_level"`
}

var configuration = DefaultConfiguration()

// DefaultConfiguration returns the settings used when no file or flag overrides them.
func DefaultConfiguration() Configuration {
	return Configuration{
		Verbosity:        0,
		Format:           "offline",
		Apas:             "3,1",
		CMax:             20,
		FigSize:          []float64{6.4, 4.8},
		DPI:              200,
		View:             "z",
		Side:             "both",
		Lookahead:        20,
		Threshold:        10,
		NContig:          10,
		NumWorkers:       4,
		DBDriver:         "sqlite",
		Host:             "localhost",
		DBName:           "protodune",
		CompressionLevel: 4,
	}
}

func GetConfiguration() Configuration {
	return configuration
}

func SetConfiguration(config Configuration) {
	configuration = config
}

// LoadConfiguration returns the defaults overridden by filename, a JSON or
// YAML file chosen by extension. An empty filename gives the defaults.
func LoadConfiguration(filename string) (Configuration, error) {
	config := DefaultConfiguration()
	if filename == "" {
		return config, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, &ErrOpenFile{Filename: filename, Err: err}
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return config, err
	}
	return config, nil
}
