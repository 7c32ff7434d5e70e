package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/bpvar-cli/internal/headers"
	"github.com/KaramelBytes/bpvar-cli/internal/report"
	"github.com/KaramelBytes/bpvar-cli/internal/utils"
)

var (
	detSheet sheetFlags
	detJSON  bool
)

var detectCmd = &cobra.Command{
	Use:   "detect <file>",
	Short: "Suggest which columns hold patient id, time and pressures",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := readTable(args[0], detSheet)
		if err != nil {
			return err
		}
		vocab, err := cfg.Vocabulary()
		if err != nil {
			return err
		}
		s := headers.Classify(table.Headers, vocab, cfg.ConfidenceThreshold)
		if detJSON {
			b, err := utils.PrettyJSON(struct {
				Headers    []string `json:"headers"`
				Suggestion any      `json:"suggestion"`
				Mapping    any      `json:"mapping"`
			}{table.Headers, s, s.Mapping()})
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		}
		fmt.Printf("File: %s (%d columns, %d rows)\n", table.Name, len(table.Headers), len(table.Rows))
		fmt.Print(report.Suggestion(s))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
	detectCmd.Flags().StringVar(&detSheet.sheetName, "sheet-name", "", "XLSX: sheet name to inspect")
	detectCmd.Flags().IntVar(&detSheet.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	detectCmd.Flags().StringVar(&detSheet.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (auto-detect if omitted)")
	detectCmd.Flags().BoolVar(&detJSON, "json", false, "print the suggestion as JSON")
}
