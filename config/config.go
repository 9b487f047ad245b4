package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

const (
	DefaultProviderURL   = "https://data-seed-prebsc-1-s1.binance.org:8545/"
	DefaultRouterAddress = "0x9Ac64Cc6e4415144C455BD8E4837Fea55603e5c3"
	DefaultCORSOrigin    = "http://localhost:3000"
	DefaultNetworkName   = "BSC Testnet"
	DefaultChainID       = 97
	DefaultPort          = 5000
)

// Config holds the application configuration
type Config struct {
	ProviderURL   string
	RouterAddress common.Address
	CORSOrigin    string
	NetworkName   string
	ChainID       int64
	Port          int
	Env           string
	LogLevel      string
	MetricsAddr   string
	RPCTimeout    time.Duration
}

// Debug reports whether the process runs in development mode.
func (c *Config) Debug() bool {
	return strings.EqualFold(c.Env, "development")
}

// ListenAddr is the address the HTTP API binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}

// Load reads configuration from environment variables and an optional config file.
// Pass an empty path to search for .token-quest.yaml in $HOME and the working directory.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".token-quest")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME")
		v.AddConfigPath(".")
	}

	// Set default values
	v.SetDefault("provider_url", DefaultProviderURL)
	v.SetDefault("router_address", DefaultRouterAddress)
	v.SetDefault("cors_origin", DefaultCORSOrigin)
	v.SetDefault("network_name", DefaultNetworkName)
	v.SetDefault("chain_id", DefaultChainID)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("env", "production")
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("rpc_timeout", 30*time.Second)

	// The env names are the ones the front-end deployment already uses.
	bindings := map[string][]string{
		"provider_url":   {"WEB3_PROVIDER_URL"},
		"router_address": {"PANCAKESWAP_ROUTER", "ROUTER_ADDRESS"},
		"cors_origin":    {"CORS_ORIGIN"},
		"network_name":   {"NETWORK_NAME"},
		"chain_id":       {"CHAIN_ID"},
		"port":           {"PORT"},
		"env":            {"APP_ENV", "FLASK_ENV"},
		"log_level":      {"LOG_LEVEL"},
		"metrics_addr":   {"METRICS_ADDR"},
		"rpc_timeout":    {"RPC_TIMEOUT"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	// Config file is optional unless explicitly requested
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	router := strings.TrimSpace(v.GetString("router_address"))
	if !common.IsHexAddress(router) {
		return nil, fmt.Errorf("invalid router address: %q", router)
	}

	cfg := &Config{
		ProviderURL:   strings.TrimSpace(v.GetString("provider_url")),
		RouterAddress: common.HexToAddress(router),
		CORSOrigin:    v.GetString("cors_origin"),
		NetworkName:   v.GetString("network_name"),
		ChainID:       v.GetInt64("chain_id"),
		Port:          v.GetInt("port"),
		Env:           v.GetString("env"),
		LogLevel:      v.GetString("log_level"),
		MetricsAddr:   v.GetString("metrics_addr"),
		RPCTimeout:    v.GetDuration("rpc_timeout"),
	}

	if cfg.ProviderURL == "" {
		return nil, fmt.Errorf("RPC provider URL not set. Please set WEB3_PROVIDER_URL")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.RPCTimeout <= 0 {
		return nil, fmt.Errorf("rpc timeout must be positive, got %s", cfg.RPCTimeout)
	}

	return cfg, nil
}
