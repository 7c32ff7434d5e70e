package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/bpvar-cli/internal/engine"
	"github.com/KaramelBytes/bpvar-cli/internal/model"
	"github.com/KaramelBytes/bpvar-cli/internal/report"
	"github.com/KaramelBytes/bpvar-cli/internal/segment"
	"github.com/KaramelBytes/bpvar-cli/internal/utils"
)

var (
	anaOutputPath string
	anaFormat     string
	anaFlags      analysisFlags
)

// analysisFlags are shared by analyze and analyze-batch.
type analysisFlags struct {
	sheet     sheetFlags
	maps      []string
	accept    bool
	day       string
	night     string
	morning   string
	minSample int
	workers   int
	quiet     bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze an ABPM export and report per-patient and cohort metrics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ec, err := anaFlags.config(cmd)
		if err != nil {
			return err
		}
		format, err := outputFormat(anaFormat, anaOutputPath, anaOutputPath != "")
		if err != nil {
			return err
		}
		overrides, err := parseOverrides(anaFlags.maps)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		res, err := anaFlags.analyze(ctx, args[0], ec, overrides)
		if err != nil {
			return err
		}
		if err := writeResult(res, format, anaOutputPath); err != nil {
			return err
		}
		if res.Summary.Partial {
			return errPartial
		}
		return nil
	},
}

// config merges command flags over the loaded configuration.
func (af *analysisFlags) config(cmd *cobra.Command) (engine.Config, error) {
	ec := cfg.Engine()
	f := cmd.Flags()
	for _, w := range []struct {
		flag string
		val  string
		dst  *segment.Window
	}{
		{"day", af.day, &ec.Windows.Day},
		{"night", af.night, &ec.Windows.Night},
		{"morning", af.morning, &ec.Windows.Morning},
	} {
		if !f.Changed(w.flag) {
			continue
		}
		win, err := parseWindow(w.val)
		if err != nil {
			return ec, &model.ConfigurationError{Key: w.flag, Reason: err.Error()}
		}
		*w.dst = win
	}
	if f.Changed("min-sample") {
		ec.MinSampleSize = af.minSample
	}
	if f.Changed("workers") {
		ec.Workers = af.workers
	}
	return ec, ec.Validate()
}

// analyze reads, maps and analyses one file.
func (af *analysisFlags) analyze(ctx context.Context, path string, ec engine.Config, overrides map[model.LogicalField]string) (*engine.Result, error) {
	table, err := readTable(path, af.sheet)
	if err != nil {
		return nil, err
	}
	mapping, _, err := confirmMapping(table, overrides, af.accept)
	if err != nil {
		return nil, err
	}
	log.Debug().Interface("mapping", mapping).Msg("column mapping confirmed")

	var opts engine.Options
	if !af.quiet {
		opts.Progress = func(p engine.Progress) {
			fmt.Fprintf(os.Stderr, "\r[%d/%d] %s", p.Done, p.Total, p.PatientID)
			if p.Done == p.Total {
				fmt.Fprintln(os.Stderr)
			}
		}
	}
	return engine.Run(ctx, table, mapping, ec, log, opts)
}

// outputFormat resolves the report format from the flag, the output file
// extension and the configured default, in that order.
func outputFormat(flag, outPath string, toFile bool) (string, error) {
	format := strings.ToLower(strings.TrimSpace(flag))
	if format == "" && outPath != "" {
		switch strings.ToLower(filepath.Ext(outPath)) {
		case ".json":
			format = "json"
		case ".xlsx":
			format = "xlsx"
		}
	}
	if format == "" {
		format = cfg.OutputFormat
	}
	switch format {
	case "markdown", "md":
		return "markdown", nil
	case "json":
		return "json", nil
	case "xlsx":
		if !toFile {
			return "", fmt.Errorf("--format xlsx requires --output")
		}
		return "xlsx", nil
	}
	return "", fmt.Errorf("unsupported --format: %s (use markdown|json|xlsx)", format)
}

func writeResult(res *engine.Result, format, outPath string) error {
	var data []byte
	switch format {
	case "xlsx":
		if err := report.WriteXLSX(res, outPath); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote workbook to %s\n", outPath)
		return nil
	case "json":
		b, err := report.JSON(res)
		if err != nil {
			return err
		}
		data = b
	default:
		data = []byte(report.Markdown(res))
	}
	if outPath == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := utils.SafeWriteFile(outPath, data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("✓ Wrote analysis to %s\n", outPath)
	return nil
}

func (af *analysisFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&af.sheet.sheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	f.IntVar(&af.sheet.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	f.StringVar(&af.sheet.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (auto-detect if omitted)")
	f.IntVar(&af.sheet.maxRows, "max-rows", 0, "maximum data rows to read (0 = unlimited)")
	f.StringArrayVar(&af.maps, "map", nil, "column override field=Header (repeatable), e.g. --map systolic=SYS")
	f.BoolVar(&af.accept, "accept", false, "accept low-confidence column suggestions without confirmation")
	f.StringVar(&af.day, "day", "", "day window in hours, e.g. 8-22")
	f.StringVar(&af.night, "night", "", "night window in hours, e.g. 0-6")
	f.StringVar(&af.morning, "morning", "", "morning window in hours, e.g. 8-10")
	f.IntVar(&af.minSample, "min-sample", 0, "minimum readings per period for SD/CV/ARV")
	f.IntVar(&af.workers, "workers", 0, "patients analyzed concurrently")
	f.BoolVarP(&af.quiet, "quiet", "q", false, "suppress progress output")
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	analyzeCmd.Flags().StringVarP(&anaFormat, "format", "f", "", "output format: markdown|json|xlsx (default from config or --output extension)")
	anaFlags.register(analyzeCmd)
}
