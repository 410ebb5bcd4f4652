package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gmahli/fsaas/core/fleet"
	"github.com/gmahli/fsaas/core/sim"
	"github.com/gmahli/fsaas/infra/logger"
)

var scenarioVehicle string

var scenarioCmd = &cobra.Command{
	Use:   "scenario [theft|route_violation|sensor_degradation|normal_delivery]",
	Short: "Inject a demo scenario into a standalone fleet and print the alerts",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenario,
}

func init() {
	scenarioCmd.Flags().StringVar(&scenarioVehicle, "vehicle", "VHC-001", "target vehicle")
	rootCmd.AddCommand(scenarioCmd)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := sim.ParseScenario(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd.Root())
	if err != nil {
		return err
	}

	logg := logger.New("scenario-command")
	store := fleet.NewStore()
	store.SetVehicles(fleet.DemoFleet(time.Now()))

	runner := sim.NewRunner(store, cfg.Scenario, nil, nil, nil, logg)
	defer runner.Close()

	if err := runner.Trigger(scenarioVehicle, sc); err != nil {
		return err
	}
	// Wait out the hold window so delayed continuations land.
	deadline := time.Now().Add(time.Duration(cfg.Scenario.HoldMS)*time.Millisecond + time.Second)
	for runner.Running(scenarioVehicle) && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}

	alerts := store.VehicleAlerts(scenarioVehicle)
	if len(alerts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no alerts raised")
		return nil
	}
	for _, a := range alerts {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-8s  %s\n", a.Timestamp.Format(time.RFC3339), a.Severity, a.Message)
	}
	return nil
}
