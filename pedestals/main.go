// pedestals tracks the pedestal of every channel of a detector view with the
// frugal streaming estimator and stores the result.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	waveform "github.com/protodune/waveform_go/pkg"
	"github.com/protodune/waveform_go/pkg/h5writer"
)

var (
	logger         waveform.SlogLogger
	configuration  waveform.Configuration
	configFilename string
	runNumber      int
	plotChannel    int
	plotOut        string
	quiet          bool
)

var rootCmd = &cobra.Command{
	Use:   "pedestals --filename FILE",
	Short: "Track channel pedestals with the frugal streaming estimator",
	Long: `Computes, for every channel of the selected APA view, the median pedestal,
the frugal pedestal with hit suppression and the noise around it. The
results can be printed, stored in a database and written to HDF5.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runPedestals,
}

func init() {
	logger = waveform.NewLogger(os.Stdout, os.Stderr)

	f := rootCmd.Flags()
	f.StringVar(&configFilename, "config", "", "Configuration file path (JSON or YAML)")
	f.String("filename", "", "Input file name")
	f.String("format", "offline", "Input format: online or offline")
	f.String("apas", "3", "APAs to process (ranges like 1-3 allowed)")
	f.String("view", "z", "View: u, v or z")
	f.String("side", "both", "Collection side: wall, cryo or both")
	f.Int("lookahead", 20, "Samples ahead checked for an upcoming hit")
	f.Int("threshold", 10, "ADC counts above the pedestal that start a hit")
	f.Int("ncontig", 10, "Net samples above or below the pedestal before it moves")
	f.Int("workers", 4, "Number of worker goroutines")
	f.String("db-driver", "sqlite", "Database driver: sqlite or mysql")
	f.String("db", "", "SQLite database file; results are not stored if empty and the driver is sqlite")
	f.String("h5-out", "", "HDF5 output file for pedestal-subtracted views and pedestals")
	f.Int("compression", 4, "Deflate level of the HDF5 output")
	f.Int("verbosity", 0, "Verbosity level")
	f.IntVar(&runNumber, "run", -1, "Run number (taken from the file name if not given)")
	f.IntVar(&plotChannel, "plot-channel", -1, "Offline channel whose pedestal trace is plotted")
	f.StringVar(&plotOut, "plot-out", "pedestal.png", "Output image of --plot-channel")
	f.BoolVar(&quiet, "quiet", false, "Do not print the pedestal table")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func runPedestals(cmd *cobra.Command, args []string) error {
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
		printConfiguration(configuration, logger)
	}

	if len(configuration.Filenames) != 1 {
		return fmt.Errorf("exactly one input file is needed, got %d", len(configuration.Filenames))
	}
	filename := configuration.Filenames[0]
	format, err := waveform.ParseFormat(configuration.Format)
	if err != nil {
		return err
	}
	apas, err := waveform.StringToIntList(configuration.Apas)
	if err != nil {
		return err
	}
	view, err := waveform.ParseView(configuration.View)
	if err != nil {
		return err
	}
	side, err := waveform.ParseSide(configuration.Side)
	if err != nil {
		return err
	}
	params := waveform.SigKillParams{
		Lookahead: configuration.Lookahead,
		Threshold: configuration.Threshold,
		NContig:   configuration.NContig,
	}

	info, _ := waveform.ParseEventFilename(filename)
	if runNumber >= 0 {
		info.Run = runNumber
	}

	all, err := waveform.LoadWaveforms(filename, format)
	if err != nil {
		return fmt.Errorf("error loading waveforms: %w", err)
	}

	var writer *h5writer.Writer
	if configuration.FileOut != "" {
		writer, err = h5writer.NewWriter(configuration.FileOut, configuration.CompressionLevel)
		if err != nil {
			return err
		}
		defer func() {
			if writer != nil {
				writer.Close()
			}
		}()
		if err := writer.WriteEvent(info); err != nil {
			return err
		}
	}

	var peds []waveform.PedestalSummary
	for _, apa := range apas {
		sel, err := waveform.SelectAPA(all, apa, view, side)
		if err != nil {
			return err
		}
		results, err := waveform.TrackPedestals(info.Run, sel, params, configuration.NumWorkers)
		if err != nil {
			return err
		}
		summaries := waveform.Summaries(results)
		if failed := len(results) - len(summaries); failed > 0 {
			logger.Error(fmt.Sprintf("%d channels of apa %d failed", failed, apa))
		}
		peds = append(peds, summaries...)

		if writer != nil {
			sub, err := waveform.PedSub(sel)
			if err != nil {
				return err
			}
			if err := writer.WriteView(h5writer.ViewName(apa, view, side), sub); err != nil {
				return err
			}
		}
		if plotChannel >= 0 {
			if idx := waveform.ViewIndex(sel, plotChannel); idx >= 0 {
				if err := plotTrace(sel.Rows[idx], results[idx], params); err != nil {
					return err
				}
			}
		}
	}

	if !quiet {
		printPedestals(peds)
	}

	if writer != nil {
		if err := writer.WritePedestals(peds); err != nil {
			return err
		}
		err := writer.Close()
		writer = nil
		if err != nil {
			return fmt.Errorf("error closing %q: %w", configuration.FileOut, err)
		}
		logger.Info(fmt.Sprintf("Wrote %s", configuration.FileOut), "main")
	}

	if configuration.DBDriver == "mysql" || configuration.DB != "" {
		if err := storePedestals(peds); err != nil {
			return err
		}
	}
	return nil
}

func storePedestals(peds []waveform.PedestalSummary) error {
	db, err := waveform.OpenDatabase(configuration)
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()
	if err := waveform.CreateSchema(db); err != nil {
		return err
	}
	return waveform.InsertPedestals(db, peds)
}

func printPedestals(peds []waveform.PedestalSummary) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "run\tevent\tchannel\tmedian\tfrugal\trms\t")
	for _, p := range peds {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%.1f\t%.1f\t%.2f\t\n", p.Run, p.Event, p.Channel, p.Median, p.Frugal, p.RMS)
	}
	tw.Flush()
}

func plotTrace(row waveform.Row, result waveform.ChannelResult, params waveform.SigKillParams) error {
	if result.Error {
		return fmt.Errorf("pedestal of channel %d failed, nothing to plot", row.Channel)
	}
	median := make([]float64, len(row.ADC))
	for i := range median {
		median[i] = result.Summary.Median
	}
	title := fmt.Sprintf("Channel %d (lookahead %d, threshold %d, ncontig %d)",
		row.Channel, params.Lookahead, params.Threshold, params.NContig)
	p, err := waveform.PlotSteps(title, []waveform.Trace{
		{Name: "raw", Values: row.ADC},
		{Name: "median", Values: median},
		{Name: "frugal", Values: waveform.FrugalPedestal(row.ADC)},
		{Name: "frugal sigkill", Values: result.Baseline},
	})
	if err != nil {
		return err
	}
	if err := p.Save(8*vg.Inch, 4*vg.Inch, plotOut); err != nil {
		return fmt.Errorf("error saving %q: %w", plotOut, err)
	}
	logger.Info(fmt.Sprintf("Pedestal trace of channel %d saved to %s", row.Channel, plotOut), "main")
	return nil
}

func applyFlags(cmd *cobra.Command, config *waveform.Configuration) error {
	f := cmd.Flags()
	var err error
	if f.Changed("filename") {
		name, err := f.GetString("filename")
		if err != nil {
			return err
		}
		config.Filenames = []string{name}
	}
	for flag, dst := range map[string]*string{
		"format":    &config.Format,
		"apas":      &config.Apas,
		"view":      &config.View,
		"side":      &config.Side,
		"db-driver": &config.DBDriver,
		"db":        &config.DB,
		"h5-out":    &config.FileOut,
	} {
		if f.Changed(flag) {
			if *dst, err = f.GetString(flag); err != nil {
				return err
			}
		}
	}
	for flag, dst := range map[string]*int{
		"lookahead":   &config.Lookahead,
		"threshold":   &config.Threshold,
		"ncontig":     &config.NContig,
		"workers":     &config.NumWorkers,
		"compression": &config.CompressionLevel,
		"verbosity":   &config.Verbosity,
	} {
		if f.Changed(flag) {
			if *dst, err = f.GetInt(flag); err != nil {
				return err
			}
		}
	}
	// The event display default of two APAs makes no sense here
	if !f.Changed("apas") && configFilename == "" {
		config.Apas, _ = f.GetString("apas")
	}
	return nil
}
