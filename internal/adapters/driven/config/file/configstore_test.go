package file

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("gateway.url", "https://gw.test"))

	val, ok := store.Get("gateway.url")
	assert.True(t, ok)
	assert.Equal(t, "https://gw.test", val)
	assert.Equal(t, "https://gw.test", store.GetString("gateway.url"))

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_PersistsAcrossInstances(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("offline", true))
	require.NoError(t, store.Set("cache.budget_mb", int64(256)))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.True(t, reopened.GetBool("offline"))
	assert.Equal(t, 256, reopened.GetInt("cache.budget_mb"))
}

func TestConfigStore_NestedTablesFlattenToDotKeys(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(
		"[providers.oldmaps]\nurl = \"https://maps.test\"\n"), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "https://maps.test", store.GetString("providers.oldmaps.url"))
}

func TestConfigStore_WatchReloadsOnWrite(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	var reloads atomic.Int32
	stop, err := store.Watch(func() { reloads.Add(1) })
	require.NoError(t, err)
	defer stop() //nolint:errcheck

	require.NoError(t, os.WriteFile(store.Path(), []byte("offline = true\n"), 0600))

	assert.Eventually(t, func() bool {
		return reloads.Load() > 0 && store.GetBool("offline")
	}, 5*time.Second, 20*time.Millisecond, "write should trigger a reload")
}

func TestResolveSettings_FileThenEnvironment(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("gateway.url", "https://from-file.test"))
	require.NoError(t, store.Set("providers.encyclo.url", "https://encyclo-file.test"))

	t.Setenv("RELICA_GATEWAY_URL", "https://from-env.test")
	t.Setenv("RELICA_OFFLINE", "true")

	settings, err := ResolveSettings(store)
	require.NoError(t, err)

	assert.Equal(t, "https://from-env.test", settings.GatewayURL, "environment wins over file")
	assert.Equal(t, "https://encyclo-file.test", settings.EncycloURL, "file wins over defaults")
	assert.True(t, settings.Offline)
	assert.Equal(t, DefaultSettings().OldMapsURL, settings.OldMapsURL, "untouched keys keep defaults")
}

func TestSettings_BoundaryManifestURL(t *testing.T) {
	s := Settings{BoundaryBaseURL: "https://data.test/boundaries"}
	assert.Equal(t, "https://data.test/boundaries/roman-empire/manifest.json",
		s.BoundaryManifestURL("roman-empire"))
}
