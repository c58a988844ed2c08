// Package node wires the keystore, the address index and the RPC server
// into a service that can be embedded in any binary.
package node

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Klingon-tech/xmrseed/config"
	klog "github.com/Klingon-tech/xmrseed/internal/log"
	"github.com/Klingon-tech/xmrseed/internal/rpc"
	"github.com/Klingon-tech/xmrseed/internal/storage"
	"github.com/Klingon-tech/xmrseed/internal/wallet"
	"github.com/Klingon-tech/xmrseed/pkg/types"
	"github.com/rs/zerolog"
)

// Node is a fully-initialized xmrseed service.
type Node struct {
	cfg     *config.Config
	network types.Network
	logger  zerolog.Logger

	db       storage.DB
	keystore *wallet.Keystore
	index    *wallet.AddressIndex

	rpcServer *rpc.Server
}

// New creates and initializes a new Node. It opens the keystore and the
// index and builds the RPC server, but does not start listening. Call
// Start() for that.
func New(cfg *config.Config) (*Node, error) {
	// ── 1. Init logger ──────────────────────────────────────────────
	logFile := expandHome(cfg.Log.File)
	if logFile == "" {
		logsDir := cfg.LogsDir()
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return nil, fmt.Errorf("creating logs dir: %w", err)
		}
		logFile = filepath.Join(logsDir, "xmrseedd.log")
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, logFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	logger := klog.WithComponent("node")

	network, err := cfg.Network.Types()
	if err != nil {
		return nil, err
	}
	wl, err := wallet.LookupLanguageName(cfg.Wallet.Language)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("network", network.String()).
		Str("language", wl.Name()).
		Str("datadir", cfg.DataDir).
		Msg("Starting xmrseed service")

	// ── 2. Keystore ─────────────────────────────────────────────────
	ks, err := wallet.NewKeystore(cfg.KeystoreDir(), cfg.Wallet.EncryptionParams())
	if err != nil {
		return nil, fmt.Errorf("open keystore at %s: %w", cfg.KeystoreDir(), err)
	}

	// ── 3. Address index ────────────────────────────────────────────
	db, err := storage.NewBadger(cfg.IndexDir())
	if err != nil {
		return nil, fmt.Errorf("open index at %s: %w", cfg.IndexDir(), err)
	}
	idx := wallet.NewAddressIndex(db)
	klog.Storage.Info().Str("path", cfg.IndexDir()).Msg("Index opened")

	n := &Node{
		cfg:      cfg,
		network:  network,
		logger:   logger,
		db:       db,
		keystore: ks,
		index:    idx,
	}

	if cfg.Reindex {
		count, err := idx.Reindex(ks)
		if err != nil {
			n.Stop()
			return nil, fmt.Errorf("reindex: %w", err)
		}
		logger.Info().Int("addresses", count).Msg("Address index rebuilt")
	}

	// ── 4. RPC ──────────────────────────────────────────────────────
	if cfg.RPC.Enabled {
		n.rpcServer = rpc.New(cfg.RPC.ListenAddr(), network, cfg.RPC)
		n.rpcServer.SetKeystore(ks)
		n.rpcServer.SetAddressIndex(idx)
		n.rpcServer.SetDefaultLanguage(wl)
	}

	return n, nil
}

// Start binds the RPC listener.
func (n *Node) Start() error {
	if n.rpcServer != nil {
		if err := n.rpcServer.Start(); err != nil {
			return err
		}
	}
	n.logger.Info().
		Str("rpc", n.RPCAddr()).
		Msg("Service started successfully")
	return nil
}

// Stop performs graceful shutdown in reverse order.
func (n *Node) Stop() {
	if n.rpcServer != nil {
		if err := n.rpcServer.Stop(); err != nil {
			n.logger.Warn().Err(err).Msg("RPC shutdown")
		}
	}
	if n.db != nil {
		if err := n.db.Close(); err != nil {
			n.logger.Warn().Err(err).Msg("Index close")
		}
		n.db = nil
	}
	n.logger.Info().Msg("Goodbye!")
}

// RPCAddr returns the address the RPC server is listening on.
func (n *Node) RPCAddr() string {
	if n.rpcServer == nil {
		return ""
	}
	return n.rpcServer.Addr()
}

// Keystore returns the wallet keystore.
func (n *Node) Keystore() *wallet.Keystore { return n.keystore }

// Index returns the address index.
func (n *Node) Index() *wallet.AddressIndex { return n.index }

// Network returns the network the service defaults to.
func (n *Node) Network() types.Network { return n.network }
