package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Manage bulk boundary datasets",
}

var datasetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List fully cached datasets",
	RunE:  runDatasetsList,
}

var datasetsFetchCmd = &cobra.Command{
	Use:   "fetch [polity-id]",
	Short: "Download a polity's boundary dataset",
	Long: `Downloads every file of the polity's boundary dataset. Interrupted
downloads resume from the last cached file.`,
	Args: cobra.ExactArgs(1),
	RunE: runDatasetsFetch,
}

func init() {
	datasetsCmd.AddCommand(datasetsListCmd)
	datasetsCmd.AddCommand(datasetsFetchCmd)
	rootCmd.AddCommand(datasetsCmd)
}

func runDatasetsList(cmd *cobra.Command, _ []string) error {
	completed, err := current.datasets.Completed(cmd.Context())
	if err != nil {
		return err
	}
	if len(completed) == 0 {
		cmd.Println("No complete datasets.")
		return nil
	}
	for _, id := range completed {
		cmd.Printf("  - %s\n", id)
	}
	return nil
}

func runDatasetsFetch(cmd *cobra.Command, args []string) error {
	empireID := args[0]
	manifestURL := current.settings.BoundaryManifestURL(empireID)

	if err := current.datasets.Ensure(cmd.Context(), empireID, manifestURL); err != nil {
		return fmt.Errorf("fetching dataset %s: %w", empireID, err)
	}
	cmd.Printf("Dataset %s complete.\n", empireID)
	return nil
}
