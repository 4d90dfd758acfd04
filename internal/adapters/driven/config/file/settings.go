package file

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/ancientnerds/relica/internal/core/ports/driven"
)

// Settings are the resolved runtime settings. Resolution order is
// defaults, then the config file, then environment variables, later
// sources winning.
type Settings struct {
	// GatewayURL is the unified backend aggregation endpoint.
	GatewayURL string `env:"RELICA_GATEWAY_URL"`

	// DataDir holds the durable caches. Empty means ~/.relica/data.
	DataDir string `env:"RELICA_DATA_DIR"`

	// Offline forces offline mode from startup.
	Offline bool `env:"RELICA_OFFLINE"`

	// Verbose enables debug logging.
	Verbose bool `env:"RELICA_VERBOSE"`

	// OldMapsURL is the historical map provider endpoint.
	OldMapsURL string `env:"RELICA_OLDMAPS_URL"`

	// ModelHavenURL is the 3D model provider endpoint.
	ModelHavenURL string `env:"RELICA_MODELHAVEN_URL"`

	// EncycloURL is the encyclopaedia provider endpoint.
	EncycloURL string `env:"RELICA_ENCYCLO_URL"`

	// BoundaryBaseURL is the base URL for polity boundary datasets.
	// The manifest for polity X lives at {base}/{X}/manifest.json.
	BoundaryBaseURL string `env:"RELICA_BOUNDARY_BASE_URL"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		GatewayURL:      "https://api.ancientnerds.com",
		OldMapsURL:      "https://search.oldmaps.org",
		ModelHavenURL:   "https://api.modelhaven.com",
		EncycloURL:      "https://api.encyclo.org/v1",
		BoundaryBaseURL: "https://data.ancientnerds.com/boundaries",
	}
}

// ResolveSettings layers the config file and environment over the
// defaults.
func ResolveSettings(store driven.ConfigStore) (Settings, error) {
	s := DefaultSettings()

	if v := store.GetString("gateway.url"); v != "" {
		s.GatewayURL = v
	}
	if v := store.GetString("cache.data_dir"); v != "" {
		s.DataDir = v
	}
	if _, ok := store.Get("offline"); ok {
		s.Offline = store.GetBool("offline")
	}
	if _, ok := store.Get("verbose"); ok {
		s.Verbose = store.GetBool("verbose")
	}
	if v := store.GetString("providers.oldmaps.url"); v != "" {
		s.OldMapsURL = v
	}
	if v := store.GetString("providers.modelhaven.url"); v != "" {
		s.ModelHavenURL = v
	}
	if v := store.GetString("providers.encyclo.url"); v != "" {
		s.EncycloURL = v
	}
	if v := store.GetString("boundaries.base_url"); v != "" {
		s.BoundaryBaseURL = v
	}

	if err := env.Parse(&s); err != nil {
		return s, fmt.Errorf("parsing environment: %w", err)
	}
	return s, nil
}

// BoundaryManifestURL derives the manifest URL for a polity ID.
func (s Settings) BoundaryManifestURL(empireID string) string {
	return s.BoundaryBaseURL + "/" + empireID + "/manifest.json"
}
