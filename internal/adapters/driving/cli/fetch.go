package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ancientnerds/relica/internal/core/domain"
	"github.com/ancientnerds/relica/internal/core/ports/driving"
)

var (
	fetchLat      float64
	fetchLon      float64
	fetchLocation string
	fetchEmpire   string
	fetchTexts    bool
	fetchJSON     bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [site name]",
	Short: "Fetch tiered content for a site or historical polity",
	Long: `Fetches content for an entity across the priority tiers: media first,
then 3D models, then maps, artifacts and artworks. Texts are fetched
only with --texts. For polities the boundary dataset is prefetched
in the background.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Float64Var(&fetchLat, "lat", 0, "site latitude")
	fetchCmd.Flags().Float64Var(&fetchLon, "lon", 0, "site longitude")
	fetchCmd.Flags().StringVar(&fetchLocation, "location", "", "disambiguating place name, e.g. country")
	fetchCmd.Flags().StringVar(&fetchEmpire, "empire", "", "polity ID instead of a site name")
	fetchCmd.Flags().BoolVar(&fetchTexts, "texts", false, "also fetch books, papers and myths")
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "output the aggregate as JSON")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	var identity domain.EntityIdentity
	switch {
	case fetchEmpire != "":
		identity = domain.EntityIdentity{
			Name:     fetchEmpire,
			Kind:     domain.KindEmpire,
			EmpireID: fetchEmpire,
		}
	case len(args) == 1:
		identity = domain.EntityIdentity{
			Name:     args[0],
			Location: fetchLocation,
			Lat:      fetchLat,
			Lon:      fetchLon,
			Kind:     domain.KindSite,
		}
	default:
		return errors.New("a site name or --empire is required")
	}

	ctx := cmd.Context()
	orchestrator := current.orchestrator

	orchestrator.Select(ctx, identity)
	if fetchTexts {
		if err := orchestrator.RequestTier(ctx, 4); err != nil {
			return fmt.Errorf("requesting texts: %w", err)
		}
	}
	if err := orchestrator.Wait(ctx); err != nil {
		return err
	}

	snapshot := orchestrator.Snapshot()
	if fetchJSON {
		data, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling snapshot: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	outputSnapshot(cmd, snapshot)
	return nil
}

func outputSnapshot(cmd *cobra.Command, snapshot driving.AggregateSnapshot) {
	if snapshot.Identity != nil {
		cmd.Printf("%s (%s)\n", snapshot.Identity.Name, snapshot.Identity.Kind)
	}
	if snapshot.Hero != nil {
		cmd.Printf("Hero: %s (%s)\n", snapshot.Hero.Title, snapshot.Hero.Full)
	}
	cmd.Println()

	total := 0
	for _, tab := range domain.AllTabs {
		items := snapshot.Grouped[tab]
		total += len(items)
		if len(items) == 0 {
			continue
		}
		cmd.Printf("%s (%d):\n", tab, len(items))
		for i, item := range items {
			if i == 5 {
				cmd.Printf("  ... and %d more\n", len(items)-i)
				break
			}
			title := item.Title
			if title == "" {
				title = item.ID
			}
			cmd.Printf("  - %s", title)
			if item.Source != "" {
				cmd.Printf(" [%s]", item.Source)
			}
			cmd.Println()
		}
	}

	if total == 0 {
		cmd.Println("No content found.")
	}
}
