package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	abOutDir string
	abFormat string
	abFlags  analysisFlags
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple ABPM exports, writing one report per file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		seen := map[string]struct{}{}
		for _, arg := range args {
			matches, _ := filepath.Glob(arg)
			if len(matches) == 0 {
				// treat as literal path if exists
				if _, err := os.Stat(arg); err == nil {
					matches = []string{arg}
				}
			}
			for _, m := range matches {
				if _, ok := seen[m]; ok {
					continue
				}
				seen[m] = struct{}{}
				files = append(files, m)
			}
		}
		if len(files) == 0 {
			return &inputError{fmt.Errorf("no input files matched")}
		}
		sort.Strings(files)

		ec, err := abFlags.config(cmd)
		if err != nil {
			return err
		}
		format, err := outputFormat(abFormat, "", true)
		if err != nil {
			return err
		}
		overrides, err := parseOverrides(abFlags.maps)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(abOutDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		total := len(files)
		partial := false
		for i, path := range files {
			if ctx.Err() != nil {
				fmt.Printf("⚠ Interrupted, skipped %d remaining files\n", total-i)
				partial = true
				break
			}
			if !abFlags.quiet {
				fmt.Printf("[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			res, err := abFlags.analyze(ctx, path, ec, overrides)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(path), err)
			}
			if err := writeResult(res, format, batchOutput(abOutDir, path, format)); err != nil {
				return err
			}
			partial = partial || res.Summary.Partial
		}
		if partial {
			return errPartial
		}
		return nil
	},
}

// batchOutput picks a report path in dir named after the input file,
// adding a __N suffix when inputs from different directories share a name.
func batchOutput(dir, input, format string) string {
	ext := map[string]string{"markdown": ".md", "json": ".json", "xlsx": ".xlsx"}[format]
	base := filepath.Base(input)
	safe := strings.TrimSuffix(base, filepath.Ext(base))
	out := filepath.Join(dir, safe+".bpv"+ext)
	if _, err := os.Stat(out); err != nil {
		return out
	}
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d.bpv%s", safe, idx, ext))
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			if !abFlags.quiet {
				fmt.Printf("⚠ Detected existing report, writing to %s to avoid overwrite.\n", filepath.Base(cand))
			}
			return cand
		}
	}
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "bpvar-reports", "directory for per-file reports")
	analyzeBatchCmd.Flags().StringVarP(&abFormat, "format", "f", "", "report format: markdown|json|xlsx (default from config)")
	abFlags.register(analyzeBatchCmd)
}
