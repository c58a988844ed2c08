// Package config handles application configuration.
//
// Values are resolved in order: defaults, the xmrseed.conf file in the
// data directory, then command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Klingon-tech/xmrseed/pkg/types"
)

// NetworkType identifies the address network.
type NetworkType string

const (
	Mainnet  NetworkType = "mainnet"
	Testnet  NetworkType = "testnet"
	Stagenet NetworkType = "stagenet"
)

// Types returns the address network for n.
func (n NetworkType) Types() (types.Network, error) {
	return types.ParseNetwork(string(n))
}

// Config holds daemon and CLI runtime configuration.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// RPC server
	RPC RPCConfig

	// Wallet
	Wallet WalletConfig

	// Logging
	Log LogConfig

	// Maintenance (not persisted in config file)
	Reindex bool
}

// RPCConfig holds RPC server settings.
type RPCConfig struct {
	Enabled     bool     `conf:"rpc.enabled"`
	Addr        string   `conf:"rpc.addr"`
	Port        int      `conf:"rpc.port"`
	AllowedIPs  []string `conf:"rpc.allowed"`
	CORSOrigins []string `conf:"rpc.cors"` // Allowed CORS origins ("*" = all).
}

// WalletConfig holds keystore settings.
type WalletConfig struct {
	Language       string `conf:"wallet.language"`        // Default mnemonic language.
	KDFMemory      uint32 `conf:"wallet.kdf_memory"`      // Argon2id memory in KiB.
	KDFIterations  uint32 `conf:"wallet.kdf_iterations"`  // Argon2id passes.
	KDFParallelism uint8  `conf:"wallet.kdf_parallelism"` // Argon2id lanes.
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// ListenAddr returns the RPC listen address as host:port.
func (r RPCConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", r.Addr, r.Port)
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.xmrseed
//	macOS:   ~/Library/Application Support/Xmrseed
//	Windows: %APPDATA%\Xmrseed
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".xmrseed"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Xmrseed")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "Xmrseed")
		}
		return filepath.Join(home, "AppData", "Roaming", "Xmrseed")
	default:
		return filepath.Join(home, ".xmrseed")
	}
}

// NetworkDataDir returns the network-specific data directory.
func (c *Config) NetworkDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// KeystoreDir returns the wallet keystore directory.
func (c *Config) KeystoreDir() string {
	return filepath.Join(c.NetworkDataDir(), "keystore")
}

// IndexDir returns the address index database directory.
func (c *Config) IndexDir() string {
	return filepath.Join(c.NetworkDataDir(), "index")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "xmrseed.conf")
}
