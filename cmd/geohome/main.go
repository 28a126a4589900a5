package main

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "geohome",
	Short:         "Property inspection API",
	SilenceUsage:  true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file (default $GEOHOME_CONFIG)")

	rootCmd.AddCommand(serveCmd, migrateCmd, userCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd)
	userCmd.AddCommand(userAddCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
