package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gmahli/fsaas/core/fleet"
	"github.com/gmahli/fsaas/pkg/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export related commands",
}

var exportSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Write the system settings as a dated JSON file",
	RunE:  runExportSettings,
}

var exportFleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Write the demo fleet telemetry as CSV to stdout",
	RunE:  runExportFleet,
}

func init() {
	exportSettingsCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default fsaas-config-<date>.json)")
	exportCmd.AddCommand(exportSettingsCmd)
	exportCmd.AddCommand(exportFleetCmd)
	rootCmd.AddCommand(exportCmd)
}

func runExportSettings(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Root())
	if err != nil {
		return err
	}
	path := exportOut
	if path == "" {
		path = export.SettingsFilename(time.Now())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteSettingsJSON(f, cfg.Settings); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func runExportFleet(cmd *cobra.Command, args []string) error {
	return export.WriteFleetCSV(cmd.OutOrStdout(), fleet.DemoFleet(time.Now()))
}
