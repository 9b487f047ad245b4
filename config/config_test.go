package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultProviderURL, cfg.ProviderURL)
	assert.Equal(t, DefaultRouterAddress, cfg.RouterAddress.Hex())
	assert.Equal(t, DefaultCORSOrigin, cfg.CORSOrigin)
	assert.Equal(t, DefaultNetworkName, cfg.NetworkName)
	assert.EqualValues(t, DefaultChainID, cfg.ChainID)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.RPCTimeout)
	assert.False(t, cfg.Debug())
	assert.Equal(t, "0.0.0.0:5000", cfg.ListenAddr())
}

func TestLoadFromEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("WEB3_PROVIDER_URL", "http://127.0.0.1:8545")
	t.Setenv("PANCAKESWAP_ROUTER", "0x10ed43c718714eb63d5aa57b78b54704e256024e")
	t.Setenv("CORS_ORIGIN", "https://game.example")
	t.Setenv("PORT", "8080")
	t.Setenv("FLASK_ENV", "development")
	t.Setenv("RPC_TIMEOUT", "5s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8545", cfg.ProviderURL)
	assert.Equal(t, "0x10ED43C718714eb63d5aA57B78B54704E256024E", cfg.RouterAddress.Hex())
	assert.Equal(t, "https://game.example", cfg.CORSOrigin)
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.Debug())
	assert.Equal(t, 5*time.Second, cfg.RPCTimeout)
}

func TestLoadFromFile(t *testing.T) {
	chdirTemp(t)
	path := filepath.Join(t.TempDir(), "quest.yaml")
	require.NoError(t, os.WriteFile(path, []byte("network_name: Local Devnet\nchain_id: 1337\nmetrics_addr: \":9090\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Local Devnet", cfg.NetworkName)
	assert.EqualValues(t, 1337, cfg.ChainID)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	chdirTemp(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"router":  {"PANCAKESWAP_ROUTER": "not-an-address"},
		"port":    {"PORT": "70000"},
		"timeout": {"RPC_TIMEOUT": "0s"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			chdirTemp(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
