package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collegefinder/internal/catalog"
	"collegefinder/internal/eventbus"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	svc := NewConfigService(filepath.Join(t.TempDir(), "nope.toml"))
	cfg, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestDefaultsHaveNoRequestTimeout(t *testing.T) {
	cfg := DefaultConfig()
	assert.Zero(t, cfg.API.Timeout)
	require.NoError(t, cfg.Validate())

	path := filepath.Join(t.TempDir(), "config.toml")
	svc := NewConfigService(path)
	require.NoError(t, svc.Save(cfg))
	loaded, err := svc.Load()
	require.NoError(t, err)
	assert.Zero(t, loaded.API.Timeout)
}

func TestLoadFromPathMissingFileErrors(t *testing.T) {
	svc := NewConfigService("")
	_, err := svc.LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	svc := NewConfigService(path)

	cfg := DefaultConfig()
	cfg.API.Token = "secret"
	cfg.Browse.Debounce = Duration(150 * time.Millisecond)
	cfg.UI.LastQuery = "state=Delhi,Karnataka&stream=Law"
	cfg.Links = []catalog.Link{{Title: "Pune", Query: "city=Pune"}}
	require.NoError(t, svc.Save(cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[api]
base_url = "https://portal.example/api"
timeout = "2s"

[browse]
debounce = "500ms"

[[links]]
title = "Law in Delhi"
query = "state=Delhi&stream=Law"
`), 0o644))

	cfg, err := NewConfigService(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "https://portal.example/api", cfg.API.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.API.Timeout.Std())
	assert.Equal(t, 500*time.Millisecond, cfg.Browse.Debounce.Std())
	assert.Equal(t, 20, cfg.Browse.PageSize)
	assert.Equal(t, 5, cfg.Browse.MaxPages)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, []catalog.Link{{Title: "Law in Delhi", Query: "state=Delhi&stream=Law"}}, cfg.Links)
}

func TestLoadRejectsBadFiles(t *testing.T) {
	cases := map[string]string{
		"unknown key":  "[api]\nbase_uri = \"x\"\n",
		"bad duration": "[browse]\ndebounce = \"soon\"\n",
		"bad page":     "[browse]\npage_size = 0\n",
		"syntax":       "[api\n",
		"no base url":  "[api]\nbase_url = \"\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := NewConfigService(path).Load()
			assert.Error(t, err)
		})
	}
}

func TestConfigChangedPersistsLastQuery(t *testing.T) {
	bus := eventbus.New(nil)
	defer bus.Close()

	path := filepath.Join(t.TempDir(), "config.toml")
	svc := NewConfigServiceWithBus(path, bus)

	bus.Publish(eventbus.ConfigChangedEvent{LastQuery: "goal=Exams"})

	require.Eventually(t, func() bool {
		cfg, err := svc.Load()
		return err == nil && cfg.UI.LastQuery == "goal=Exams"
	}, time.Second, 10*time.Millisecond)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if p := DefaultPath(); filepath.IsAbs(p) {
		assert.Equal(t, "config.toml", filepath.Base(p))
		assert.Equal(t, "collegefinder", filepath.Base(filepath.Dir(p)))
	}
	assert.Equal(t, DefaultPath(), NewConfigService("").Path())
}
