package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ancientnerds/relica/internal/core/ports/driven"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the durable caches",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache contents",
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached blobs and datasets",
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	blobs := current.store.BlobStore()

	for _, ns := range []string{driven.NamespaceHero, driven.NamespaceDatasets} {
		keys, err := blobs.Keys(ctx, ns)
		if err != nil {
			return fmt.Errorf("listing %s blobs: %w", ns, err)
		}
		cmd.Printf("%s blobs: %d\n", ns, len(keys))
	}

	completed, err := current.datasets.Completed(ctx)
	if err != nil {
		return fmt.Errorf("listing datasets: %w", err)
	}
	cmd.Printf("complete datasets: %d\n", len(completed))
	for _, id := range completed {
		cmd.Printf("  - %s\n", id)
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	blobs := current.store.BlobStore()
	datasets := current.store.DatasetStore()

	removed := 0
	for _, ns := range []string{driven.NamespaceHero, driven.NamespaceDatasets} {
		keys, err := blobs.Keys(ctx, ns)
		if err != nil {
			return fmt.Errorf("listing %s blobs: %w", ns, err)
		}
		for _, key := range keys {
			if err := blobs.Delete(ctx, ns, key); err != nil {
				return fmt.Errorf("deleting blob %s/%s: %w", ns, key, err)
			}
			removed++
		}
	}

	completed, err := current.datasets.Completed(ctx)
	if err != nil {
		return fmt.Errorf("listing datasets: %w", err)
	}
	for _, id := range completed {
		if err := datasets.Delete(ctx, id); err != nil {
			return fmt.Errorf("deleting dataset %s: %w", id, err)
		}
	}

	cmd.Printf("Removed %d blobs and %d datasets.\n", removed, len(completed))
	return nil
}
