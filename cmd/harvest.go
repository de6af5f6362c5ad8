package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// newHarvestCmd creates the 'harvest' subcommand, an operator tool that runs
// the Gmail link harvester standalone and prints its result.
func newHarvestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Runs the Gmail link harvester and prints the result",
		Long: `Scans the configured inbox for candidate event links and prints the
harvest result as JSON. Useful for checking credentials and tuning the
query without running a full collection.`,

		RunE: runHarvestCommand,
	}
	return cmd
}

func runHarvestCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	result, err := appInstance.Harvester().Harvest(cmd.Context())
	if err != nil {
		return fmt.Errorf("harvest: %w", err)
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(payload))
	return nil
}
