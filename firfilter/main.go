// firfilter designs the low-pass FIR filter used on collection waveforms and
// optionally applies it to one channel.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	waveform "github.com/protodune/waveform_go/pkg"
)

var (
	logger     waveform.SlogLogger
	ntaps      int
	multiplier float64
	doRounding bool
	response   int
	filename   string
	format     string
	channel    int
	out        string
	verbosity  int
)

var rootCmd = &cobra.Command{
	Use:          "firfilter",
	Short:        "Design a windowed-sinc low-pass filter and apply it to a channel",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runFilter,
}

func init() {
	logger = waveform.NewLogger(os.Stdout, os.Stderr)

	f := rootCmd.Flags()
	f.IntVar(&ntaps, "ntaps", 32, "Number of filter taps")
	f.Float64Var(&multiplier, "multiplier", 1, "Scale factor of the coefficients")
	f.BoolVar(&doRounding, "round", false, "Round the scaled coefficients to integers")
	f.IntVar(&response, "response", 0, "Print the gain at N/2+1 frequencies from an N-point FFT")
	f.StringVar(&filename, "filename", "", "Waveform file holding the channel to filter")
	f.StringVar(&format, "format", "offline", "Input format: online or offline")
	f.IntVar(&channel, "channel", -1, "Offline channel to filter")
	f.StringVar(&out, "out", "filtered.png", "Image of the raw and filtered channel")
	f.IntVar(&verbosity, "verbosity", 0, "Verbosity level")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func runFilter(cmd *cobra.Command, args []string) error {
	config := waveform.GetConfiguration()
	config.Verbosity = verbosity
	waveform.SetConfiguration(config)
	waveform.SetLogger(logger)

	coeffs, err := waveform.MakeFilter(ntaps, multiplier, doRounding)
	if err != nil {
		return err
	}
	fmt.Println("Coefficients:")
	for i, c := range coeffs {
		fmt.Printf("%3d %g\n", i, c)
	}

	if response > 0 {
		gain, err := waveform.FrequencyResponse(coeffs, response)
		if err != nil {
			return err
		}
		fmt.Println("Frequency response (fraction of Nyquist, gain):")
		for i, g := range gain {
			fmt.Printf("%.4f %g\n", float64(i)/float64(len(gain)-1), g/multiplier)
		}
	}

	if filename == "" {
		return nil
	}
	if channel < 0 {
		return fmt.Errorf("--channel is needed with --filename")
	}
	f, err := waveform.ParseFormat(format)
	if err != nil {
		return err
	}
	w, err := waveform.LoadWaveforms(filename, f)
	if err != nil {
		return err
	}
	raw, err := w.Channel(channel)
	if err != nil {
		return err
	}
	filtered := waveform.ApplyFilter(coeffs, raw, multiplier)

	p, err := waveform.PlotSteps(fmt.Sprintf("Channel %d, %d taps", channel, ntaps), []waveform.Trace{
		{Name: "raw", Values: raw},
		{Name: "filtered", Values: filtered},
	})
	if err != nil {
		return err
	}
	if err := p.Save(8*vg.Inch, 4*vg.Inch, out); err != nil {
		return fmt.Errorf("error saving %q: %w", out, err)
	}
	logger.Info(fmt.Sprintf("Filtered channel %d saved to %s", channel, out), "main")
	return nil
}
