package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/bpvar-cli/internal/sample"
)

var (
	smpOutput   string
	smpPatients int
	smpDays     int
	smpSeed     uint64
	smpLang     string
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write a synthetic ABPM workbook for trying out the analysis",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opt := sample.DefaultOptions()
		opt.Patients = smpPatients
		opt.MaxDays = smpDays
		opt.Seed = smpSeed
		opt.Language = smpLang
		t, err := sample.Generate(opt)
		if err != nil {
			return err
		}
		if err := sample.WriteXLSX(t, smpOutput); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote %d readings for %d patients to %s\n", len(t.Rows), smpPatients, smpOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)
	def := sample.DefaultOptions()
	sampleCmd.Flags().StringVarP(&smpOutput, "output", "o", "sample_bp_data.xlsx", "workbook to write")
	sampleCmd.Flags().IntVar(&smpPatients, "patients", def.Patients, "number of patients")
	sampleCmd.Flags().IntVar(&smpDays, "days", def.MaxDays, "maximum recording days per patient")
	sampleCmd.Flags().Uint64Var(&smpSeed, "seed", def.Seed, "random seed")
	sampleCmd.Flags().StringVar(&smpLang, "lang", def.Language, "header language: tr|en")
}
