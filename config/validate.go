package config

import (
	"fmt"
	"net"

	"github.com/Klingon-tech/xmrseed/internal/wallet"
)

// Validate checks runtime config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if _, err := cfg.Network.Types(); err != nil || cfg.Network == "" {
		return fmt.Errorf("network must be %q, %q or %q", Mainnet, Testnet, Stagenet)
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("datadir must not be empty")
	}
	if cfg.RPC.Port < 0 || cfg.RPC.Port > 65535 {
		return fmt.Errorf("rpc.port must be in range [0, 65535]")
	}
	for i, ip := range cfg.RPC.AllowedIPs {
		if net.ParseIP(ip) == nil {
			if _, _, err := net.ParseCIDR(ip); err != nil {
				return fmt.Errorf("rpc.allowed[%d] %q is not an IP or CIDR", i, ip)
			}
		}
	}

	if _, err := wallet.LookupLanguageName(cfg.Wallet.Language); err != nil {
		return fmt.Errorf("wallet.language: %w", err)
	}
	if cfg.Wallet.KDFMemory < 8*uint32(cfg.Wallet.KDFParallelism) {
		return fmt.Errorf("wallet.kdf_memory must be at least 8 KiB per lane")
	}
	if cfg.Wallet.KDFIterations == 0 {
		return fmt.Errorf("wallet.kdf_iterations must be positive")
	}
	if cfg.Wallet.KDFParallelism == 0 {
		return fmt.Errorf("wallet.kdf_parallelism must be positive")
	}

	switch cfg.Log.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be trace, debug, info, warn or error")
	}
	return nil
}

// EncryptionParams returns the keystore KDF parameters.
func (w WalletConfig) EncryptionParams() wallet.EncryptionParams {
	return wallet.EncryptionParams{
		Memory:      w.KDFMemory,
		Iterations:  w.KDFIterations,
		Parallelism: w.KDFParallelism,
	}
}
