package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/agenda-vta/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an agendavta configuration with an interactive wizard",
	Long:  `Runs an interactive wizard that asks for the routing mode, port and site directory and writes the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s (mode %s, port %d)\n", cfgFile, cfg.Mode, cfg.Port)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
