package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ancientnerds/relica/internal/core/domain"
)

var (
	searchLimit   int
	searchJSON    bool
	searchTypes   []string
	searchSources []string
	searchTimeout int
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search aggregated content by free text",
	Long: `Searches the unified backend across all providers. Results are
memoised in-process, so repeating a query within the session is free.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum number of items")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringSliceVar(&searchTypes, "types", nil, "restrict to content types (photo, map, 3d_model, ...)")
	searchCmd.Flags().StringSliceVar(&searchSources, "sources", nil, "restrict to providers")
	searchCmd.Flags().IntVar(&searchTimeout, "timeout", 0, "backend aggregation timeout in seconds")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	types, err := parseContentTypes(searchTypes)
	if err != nil {
		return err
	}

	req := domain.SearchRequest{
		Query:          args[0],
		ContentTypes:   types,
		Sources:        searchSources,
		Limit:          searchLimit,
		TimeoutSeconds: searchTimeout,
	}

	resp, err := current.gateway.Search(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, merr := json.MarshalIndent(resp, "", "  ")
		if merr != nil {
			return fmt.Errorf("failed to marshal results: %w", merr)
		}
		cmd.Println(string(data))
		return nil
	}

	return outputSearchTable(cmd, resp)
}

func outputSearchTable(cmd *cobra.Command, resp *domain.ContentSearchResponse) error {
	if len(resp.Items) == 0 {
		if current.offline.IsOffline() {
			cmd.Println("No results (offline).")
		} else {
			cmd.Println("No results found.")
		}
		return nil
	}

	header := fmt.Sprintf("%d results from %d sources in %dms",
		resp.TotalCount, len(resp.SourcesSearched), resp.SearchTimeMs)
	if resp.Cached {
		header += " (cached)"
	}
	cmd.Println(header)
	if len(resp.SourcesFailed) > 0 {
		cmd.Printf("Sources failed: %s\n", strings.Join(resp.SourcesFailed, ", "))
	}
	cmd.Println()

	for i, item := range resp.Items {
		title := item.Title
		if title == "" {
			title = item.ID
		}
		cmd.Printf("  [%d] %s (%s, %s)\n", i+1, title, item.ContentType, item.Source)
		if item.URL != "" {
			cmd.Printf("      %s\n", item.URL)
		}
	}
	return nil
}

// parseContentTypes validates the --types values against the taxonomy.
func parseContentTypes(raw []string) ([]domain.ContentType, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	valid := make(map[domain.ContentType]bool, len(domain.AllContentTypes))
	for _, ct := range domain.AllContentTypes {
		valid[ct] = true
	}

	types := make([]domain.ContentType, 0, len(raw))
	for _, r := range raw {
		ct := domain.ContentType(strings.ToLower(strings.TrimSpace(r)))
		if !valid[ct] {
			return nil, fmt.Errorf("%w: content type %q", domain.ErrUnsupportedType, r)
		}
		types = append(types, ct)
	}
	return types, nil
}
