package cmd

import (
	"io"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sasic-place/sasic-place/place/design"
)

var (
	designPath    string // Design YAML (fabric + netlist)
	configPath    string // Optional run configuration YAML
	logLevel      string // Log verbosity level
	histogramBins int    // Buckets in report histograms
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "sasic-place",
	Short: "Placement and clock tree synthesis for structured-ASIC fabrics",
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// expandPath resolves a leading ~ in user-supplied paths.
func expandPath(path string) (string, error) {
	p, err := homedir.Expand(path)
	if err != nil {
		return "", errors.Wrapf(err, "expanding %s", path)
	}
	return p, nil
}

func loadDesign(path string) (*design.Design, error) {
	if path == "" {
		return nil, errors.New("--design is required")
	}
	p, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	return design.Load(p)
}

// writeOutput creates path and hands it to write.
func writeOutput(path string, write func(io.Writer) error) error {
	p, err := expandPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(p)
	if err != nil {
		return errors.Wrap(err, "creating output")
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "closing %s", p)
}

func addCommonFlags(c *cobra.Command) {
	c.Flags().StringVar(&designPath, "design", "", "Design YAML with fabric and netlist")
	c.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	c.Flags().IntVar(&histogramBins, "bins", 10, "Number of histogram buckets in the report")
}

// init sets up CLI flags and subcommands
func init() {
	addPlaceFlags(placeCmd)
	addCheckFlags(checkCmd)
	addSweepFlags(sweepCmd)

	rootCmd.AddCommand(placeCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(sweepCmd)
}
