package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/agenda-vta/internal/clinic"
	"github.com/ziadkadry99/agenda-vta/internal/reports"
	"github.com/ziadkadry99/agenda-vta/internal/stats"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write today's clinic report workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogger(cfg)

		database, err := openDatabase(cfg, false)
		if err != nil {
			return err
		}
		defer database.Close()

		exporter := reports.NewExporter(stats.NewSQLProvider(database), clinic.NewStore(database))
		f, err := exporter.Build(context.Background())
		if err != nil {
			return err
		}
		defer f.Close()

		out := exportOut
		if out == "" {
			out = exporter.Filename()
		}
		if err := f.SaveAs(out); err != nil {
			return fmt.Errorf("saving %s: %w", out, err)
		}
		fmt.Printf("Wrote %s\n", out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default: relatorio_vta_<date>.xlsx)")
	rootCmd.AddCommand(exportCmd)
}
