package cli

import (
	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List content providers",
	Long: `Lists the providers aggregated by the backend plus the direct
providers queried by this client, with the tier each one joins.`,
	RunE: runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, _ []string) error {
	backend, err := current.gateway.Sources(cmd.Context())
	if err != nil {
		return err
	}

	if len(backend) > 0 {
		cmd.Println("Backend sources:")
		for _, name := range backend {
			cmd.Printf("  - %s\n", name)
		}
	} else if current.offline.IsOffline() {
		cmd.Println("Backend sources: unavailable offline")
	} else {
		cmd.Println("Backend sources: none reported")
	}

	cmd.Println("Direct providers:")
	for _, provider := range current.providers {
		cmd.Printf("  - %s (tier %d)\n", provider.Name(), provider.Tier())
	}
	return nil
}
