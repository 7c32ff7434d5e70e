package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/bpvar-cli/internal/config"
	"github.com/KaramelBytes/bpvar-cli/internal/exitcode"
	"github.com/KaramelBytes/bpvar-cli/internal/logging"
	"github.com/KaramelBytes/bpvar-cli/internal/model"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logFormat string

	// Loaded configuration
	cfg *cfgpkg.Global
	log = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "bpvar",
	Short: "bpvar: blood pressure variability analysis for ABPM spreadsheets",
	Long: `bpvar reads ambulatory blood pressure exports (xlsx, csv), detects the column layout,
and computes per-patient variability, nocturnal dipping and morning surge metrics
together with a cohort summary.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(exitCode(err))
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.bpvar/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text|json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Default()
	}
	cfg = c

	format := cfg.LogFormat
	if logFormat != "" {
		format = logFormat
	}
	log = logging.Setup(format)
	if debug {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}
}

// inputError marks failures reading or decoding the input file.
type inputError struct{ err error }

func (e *inputError) Error() string { return e.err.Error() }
func (e *inputError) Unwrap() error { return e.err }

// errPartial is returned after a cancelled run has written its partial result.
var errPartial = errors.New("analysis interrupted: partial result written")

func exitCode(err error) int {
	var (
		ce *model.ConfigurationError
		me *model.MappingError
		ie *inputError
	)
	switch {
	case errors.Is(err, errPartial):
		return exitcode.PartialResult
	case errors.As(err, &ce):
		return exitcode.ConfigError
	case errors.As(err, &me):
		return exitcode.MappingError
	case errors.As(err, &ie):
		return exitcode.InputError
	}
	return exitcode.UsageError
}
