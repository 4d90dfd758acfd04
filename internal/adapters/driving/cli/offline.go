package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var offlineCmd = &cobra.Command{
	Use:   "offline [on|off|status]",
	Short: "Show or set offline mode",
	Long: `Offline mode serves everything from the durable caches and never
touches the network. The setting persists in the config file; the
running process also drops to offline automatically when connectivity
is lost, but it never comes back online on its own.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"on", "off", "status"},
	RunE:      runOffline,
}

func init() {
	rootCmd.AddCommand(offlineCmd)
}

func runOffline(cmd *cobra.Command, args []string) error {
	action := "status"
	if len(args) == 1 {
		action = args[0]
	}

	switch action {
	case "status":
		if current.offline.IsOffline() {
			cmd.Println("Offline mode: on")
		} else {
			cmd.Println("Offline mode: off")
		}
		return nil
	case "on", "off":
		enabled := action == "on"
		if err := current.config.Set("offline", enabled); err != nil {
			return fmt.Errorf("persisting offline mode: %w", err)
		}
		current.offline.SetOffline(enabled)
		cmd.Printf("Offline mode: %s\n", action)
		return nil
	default:
		return fmt.Errorf("unknown argument %q, want on, off or status", action)
	}
}
