package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ancientnerds/relica/internal/adapters/driven/cache/memo"
	"github.com/ancientnerds/relica/internal/adapters/driven/config/file"
	"github.com/ancientnerds/relica/internal/adapters/driven/gateway"
	"github.com/ancientnerds/relica/internal/adapters/driven/storage/sqlite"
	"github.com/ancientnerds/relica/internal/connectors/encyclo"
	"github.com/ancientnerds/relica/internal/connectors/modelhaven"
	"github.com/ancientnerds/relica/internal/connectors/oldmaps"
	"github.com/ancientnerds/relica/internal/core/ports/driven"
	"github.com/ancientnerds/relica/internal/core/services"
	"github.com/ancientnerds/relica/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	configDir    string
	verbose      bool
	forceOffline bool
)

// app holds the services wired for one invocation.
type app struct {
	config       *file.ConfigStore
	settings     file.Settings
	store        *sqlite.Store
	offline      *services.OfflineService
	gateway      driven.Gateway
	providers    []driven.Provider
	datasets     *services.DatasetService
	orchestrator *services.Orchestrator
	stopWatch    func() error
}

// current is the wired application, set by PersistentPreRunE.
var current *app

var rootCmd = &cobra.Command{
	Use:   "relica",
	Short: "Explore aggregated content for archaeological sites and empires",
	Long: `Relica aggregates photos, maps, 3D models, artifacts and texts for
archaeological sites and historical polities from a unified backend and
direct providers, caching everything it touches for offline browsing.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return initApp()
	},
	PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
		return closeApp()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.relica)")
	rootCmd.PersistentFlags().BoolVar(&forceOffline, "offline", false, "force offline mode for this invocation")
}

// initApp wires the adapters and services for this invocation.
func initApp() error {
	logger.SetVerbose(verbose)

	config, err := file.NewConfigStore(configDir)
	if err != nil {
		return err
	}
	settings, err := file.ResolveSettings(config)
	if err != nil {
		return err
	}
	if settings.Verbose {
		logger.SetVerbose(true)
	}

	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return err
	}

	offline := services.NewOfflineService(settings.Offline || forceOffline, store.BlobStore(), nil)

	// Config edits while running toggle the mode without a restart.
	stopWatch, err := config.Watch(func() {
		if reloaded, rerr := file.ResolveSettings(config); rerr == nil {
			offline.SetOffline(reloaded.Offline || forceOffline)
		}
	})
	if err != nil {
		logger.Warn("Config watching unavailable: %v", err)
		stopWatch = nil
	}

	gw := gateway.New(settings.GatewayURL, memo.New(), offline)
	providers := []driven.Provider{
		oldmaps.New(settings.OldMapsURL, offline),
		modelhaven.New(settings.ModelHavenURL, offline),
		encyclo.New(settings.EncycloURL, offline),
	}
	datasets := services.NewDatasetService(store.DatasetStore(), offline)
	orchestrator := services.NewOrchestrator(gw, offline,
		services.WithProviders(providers...),
		services.WithHeroCache(store.BlobStore()),
		services.WithBoundaryPrefetch(datasets, settings.BoundaryManifestURL),
	)

	current = &app{
		config:       config,
		settings:     settings,
		store:        store,
		offline:      offline,
		gateway:      gw,
		providers:    providers,
		datasets:     datasets,
		orchestrator: orchestrator,
		stopWatch:    stopWatch,
	}
	return nil
}

// closeApp releases the wired resources.
func closeApp() error {
	if current == nil {
		return nil
	}
	if current.stopWatch != nil {
		_ = current.stopWatch()
	}
	err := current.store.Close()
	current = nil
	return err
}
