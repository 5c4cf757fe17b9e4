// evtdisp draws pedestal-subtracted event displays of ProtoDUNE waveform dumps.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	waveform "github.com/protodune/waveform_go/pkg"
)

const defaultSaveName = "evtdisp.png"

var (
	logger         waveform.SlogLogger
	configuration  waveform.Configuration
	configFilename string
)

var rootCmd = &cobra.Command{
	Use:   "evtdisp --filenames FILE[,FILE...]",
	Short: "Draw event displays of ProtoDUNE waveform dumps",
	Long: `Loads one or more waveform dumps, subtracts the median pedestal of every
channel and draws one heat map per APA and view, optionally with hits on top.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runEventDisplay,
}

func init() {
	logger = waveform.NewLogger(os.Stdout, os.Stderr)

	f := rootCmd.Flags()
	f.StringVar(&configFilename, "config", "", "Configuration file path (JSON or YAML)")
	f.StringSlice("filenames", nil, "Input file name list, comma separated")
	f.String("filename", "", "Single input file name")
	f.String("apas", "3,1", "Comma-separated list of APAs to show (ranges like 1-3 allowed)")
	f.Float64("cmax", 20, "Maximum value for the colour scale")
	f.Float64("tmin", 0, "Minimum value of time to show, in ticks since first time in file")
	f.Float64("tmax", 0, "Maximum value of time to show, in ticks since first time in file")
	f.Bool("use-channel-number", false, "Use offline channel numbers on the y axis")
	f.Bool("show-hits", false, `Show hits from a file with the same name as the input, but with "waveform" replaced by "hits"`)
	f.Bool("batch", false, "Don't display anything on screen (useful if saving many event displays to file)")
	f.String("save-name", "", "Name of image file to save event display to")
	f.String("format", "offline", "Input format: online or offline")
	f.Bool("collection-only", false, "Only show collection view")
	f.Float64Slice("figsize", []float64{6.4, 4.8}, "Width and height of figure in inches")
	f.Int("dpi", 200, "Resolution of raster images")
	f.Int("verbosity", 0, "Verbosity level")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func runEventDisplay(cmd *cobra.Command, args []string) error {
	var err error
	configuration, err = waveform.LoadConfiguration(configFilename)
	if err != nil {
		return fmt.Errorf("error reading configuration file: %w", err)
	}
	if err := applyFlags(cmd, &configuration); err != nil {
		return err
	}
	waveform.SetConfiguration(configuration)
	waveform.SetLogger(logger)

	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Reading configuration file: %s", configFilename), "main")
		printConfiguration(configuration, logger)
	}

	if len(configuration.Filenames) == 0 {
		return fmt.Errorf("no input files: use --filenames")
	}
	format, err := waveform.ParseFormat(configuration.Format)
	if err != nil {
		return err
	}
	apas, err := waveform.StringToIntList(configuration.Apas)
	if err != nil {
		return err
	}

	all, err := waveform.LoadFiles(configuration.Filenames, format)
	if err != nil {
		return fmt.Errorf("error loading waveforms: %w", err)
	}
	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Loaded %d channels with %d samples", all.Len(), all.NSamples()), "main")
	}

	views, err := waveform.BuildEventViews(all, apas, configuration.CollectionOnly)
	if err != nil {
		return err
	}

	var hits []waveform.Hit
	if configuration.ShowHits {
		hits, err = waveform.LoadHitsFor(configuration.Filenames)
		if err != nil {
			return fmt.Errorf("error loading hits: %w", err)
		}
	}

	opts := waveform.DisplayOptionsFromConfig(configuration)
	opts.Title = waveform.TitleFromFilenames(configuration.Filenames)
	display, err := waveform.NewEventDisplay(views, hits, opts)
	if err != nil {
		return err
	}

	saveName := configuration.SaveName
	if saveName == "" {
		saveName = defaultSaveName
	}
	if err := display.Save(saveName); err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("Event display saved to %s", saveName), "main")
	if !configuration.Batch {
		logger.Info("No interactive display available, open the saved image instead", "main")
	}
	return nil
}

// applyFlags copies the flags given on the command line over the configuration.
func applyFlags(cmd *cobra.Command, config *waveform.Configuration) error {
	f := cmd.Flags()
	var err error
	if f.Changed("filenames") {
		if config.Filenames, err = f.GetStringSlice("filenames"); err != nil {
			return err
		}
	}
	if f.Changed("filename") {
		name, err := f.GetString("filename")
		if err != nil {
			return err
		}
		config.Filenames = append(config.Filenames, name)
	}
	if f.Changed("apas") {
		if config.Apas, err = f.GetString("apas"); err != nil {
			return err
		}
	}
	if f.Changed("cmax") {
		if config.CMax, err = f.GetFloat64("cmax"); err != nil {
			return err
		}
	}
	if f.Changed("tmin") {
		tmin, err := f.GetFloat64("tmin")
		if err != nil {
			return err
		}
		config.TMin = &tmin
	}
	if f.Changed("tmax") {
		tmax, err := f.GetFloat64("tmax")
		if err != nil {
			return err
		}
		config.TMax = &tmax
	}
	if f.Changed("use-channel-number") {
		if config.UseChannelNumber, err = f.GetBool("use-channel-number"); err != nil {
			return err
		}
	}
	if f.Changed("show-hits") {
		if config.ShowHits, err = f.GetBool("show-hits"); err != nil {
			return err
		}
	}
	if f.Changed("batch") {
		if config.Batch, err = f.GetBool("batch"); err != nil {
			return err
		}
	}
	if f.Changed("save-name") {
		if config.SaveName, err = f.GetString("save-name"); err != nil {
			return err
		}
	}
	if f.Changed("format") {
		if config.Format, err = f.GetString("format"); err != nil {
			return err
		}
	}
	if f.Changed("collection-only") {
		if config.CollectionOnly, err = f.GetBool("collection-only"); err != nil {
			return err
		}
	}
	if f.Changed("figsize") {
		if config.FigSize, err = f.GetFloat64Slice("figsize"); err != nil {
			return err
		}
		if len(config.FigSize) != 2 {
			return fmt.Errorf("--figsize needs width and height, got %v", config.FigSize)
		}
	}
	if f.Changed("dpi") {
		if config.DPI, err = f.GetInt("dpi"); err != nil {
			return err
		}
	}
	if f.Changed("verbosity") {
		if config.Verbosity, err = f.GetInt("verbosity"); err != nil {
			return err
		}
	}
	return nil
}
