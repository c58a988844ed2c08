package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	klog "github.com/Klingon-tech/xmrseed/internal/log"
	"github.com/Klingon-tech/xmrseed/pkg/types"
)

// Keystore errors.
var (
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrWalletExists      = errors.New("wallet already exists")
	ErrInvalidWalletName = errors.New("invalid wallet name")
)

const (
	walletExt     = ".wallet"
	walletVersion = 1
)

// keystoreFile is the on-disk JSON format for an encrypted wallet. Public
// keys are stored in the clear so addresses can be listed without the
// password.
type keystoreFile struct {
	Version       int               `json:"version"`
	CreatedAt     time.Time         `json:"created_at"`
	Language      uint8             `json:"language"`
	Network       types.Network     `json:"network"`
	Fingerprint   string            `json:"fingerprint"`
	EncryptedSeed []byte            `json:"encrypted_seed"`
	Subaddresses  []SubaddressEntry `json:"subaddresses"`
	NextIndex     map[uint32]uint32 `json:"next_index"` // account -> next unused index
}

// SubaddressEntry records a derived address in the wallet metadata.
type SubaddressEntry struct {
	SubaddressIndex
	Label   string `json:"label,omitempty"`
	Address string `json:"address"`
}

// WalletInfo is the public summary of a wallet file.
type WalletInfo struct {
	Name        string        `json:"name"`
	Network     types.Network `json:"network"`
	Language    string        `json:"language"`
	Fingerprint string        `json:"fingerprint"`
	Address     string        `json:"address"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Keystore manages encrypted wallet files in a directory.
type Keystore struct {
	path   string
	params EncryptionParams

	mu sync.Mutex
}

// NewKeystore opens a keystore directory, creating it if needed.
func NewKeystore(path string, params EncryptionParams) (*Keystore, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	return &Keystore{path: path, params: params}, nil
}

// Path returns the keystore directory.
func (ks *Keystore) Path() string { return ks.path }

func (ks *Keystore) walletPath(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidWalletName, name)
	}
	return filepath.Join(ks.path, name+walletExt), nil
}

// Create seals seed into a new wallet file and records its primary address.
func (ks *Keystore) Create(name string, seed Seed, wl *Wordlist, net types.Network, password []byte) (*WalletInfo, error) {
	path, err := ks.walletPath(name)
	if err != nil {
		return nil, err
	}

	keys, err := DeriveMasterKeys(seed[:])
	if err != nil {
		return nil, err
	}
	defer keys.Wipe()
	primary, err := keys.Address(net, SubaddressIndex{})
	if err != nil {
		return nil, err
	}

	sealed, err := Encrypt(seed[:], password, ks.params)
	if err != nil {
		return nil, fmt.Errorf("encrypt seed: %w", err)
	}

	kf := keystoreFile{
		Version:       walletVersion,
		CreatedAt:     time.Now().UTC(),
		Language:      wl.ID(),
		Network:       net,
		Fingerprint:   keys.Fingerprint(),
		EncryptedSeed: sealed,
		Subaddresses:  []SubaddressEntry{{Label: "primary", Address: primary.String()}},
		NextIndex:     map[uint32]uint32{0: 1},
	}

	ks.mu.Lock()
	defer ks.mu.Unlock()
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %q", ErrWalletExists, name)
	}
	if err := ks.writeFile(path, &kf); err != nil {
		return nil, err
	}

	klog.WithFingerprint(kf.Fingerprint).Info().Str("wallet", name).Str("network", net.String()).Msg("Wallet created")
	return kf.info(name), nil
}

// Load decrypts a wallet and returns its seed and language.
// The caller must Wipe the seed.
func (ks *Keystore) Load(name string, password []byte) (Seed, *Wordlist, error) {
	kf, err := ks.read(name)
	if err != nil {
		return Seed{}, nil, err
	}
	wl, err := LookupLanguage(kf.Language)
	if err != nil {
		return Seed{}, nil, err
	}
	raw, err := Decrypt(kf.EncryptedSeed, password)
	if err != nil {
		return Seed{}, nil, fmt.Errorf("decrypt wallet %q: %w", name, err)
	}
	defer clear(raw)
	seed, err := SeedFromBytes(raw)
	if err != nil {
		return Seed{}, nil, err
	}
	return seed, wl, nil
}

// LoadKeys decrypts a wallet and derives its master keys.
// The caller must Wipe the keys.
func (ks *Keystore) LoadKeys(name string, password []byte) (*MasterKeys, error) {
	seed, _, err := ks.Load(name, password)
	if err != nil {
		return nil, err
	}
	defer seed.Wipe()
	return DeriveMasterKeys(seed[:])
}

// Info returns the public summary of a wallet.
func (ks *Keystore) Info(name string) (*WalletInfo, error) {
	kf, err := ks.read(name)
	if err != nil {
		return nil, err
	}
	return kf.info(name), nil
}

// NewSubaddress derives the next unused subaddress in account and records it.
func (ks *Keystore) NewSubaddress(name string, password []byte, account uint32, label string) (SubaddressEntry, error) {
	keys, err := ks.LoadKeys(name, password)
	if err != nil {
		return SubaddressEntry{}, err
	}
	defer keys.Wipe()

	path, err := ks.walletPath(name)
	if err != nil {
		return SubaddressEntry{}, err
	}

	ks.mu.Lock()
	defer ks.mu.Unlock()
	kf, err := ks.readFile(path)
	if err != nil {
		return SubaddressEntry{}, err
	}
	if keys.Fingerprint() != kf.Fingerprint {
		return SubaddressEntry{}, fmt.Errorf("wallet %q: key fingerprint mismatch", name)
	}

	idx := SubaddressIndex{Account: account, Index: kf.NextIndex[account]}
	addr, err := keys.Address(kf.Network, idx)
	if err != nil {
		return SubaddressEntry{}, err
	}
	entry := SubaddressEntry{SubaddressIndex: idx, Label: label, Address: addr.String()}
	if err := kf.addSubaddress(entry); err != nil {
		return SubaddressEntry{}, err
	}
	if err := ks.writeFile(path, kf); err != nil {
		return SubaddressEntry{}, err
	}

	klog.WithFingerprint(kf.Fingerprint).Debug().Str("wallet", name).Stringer("subaddress", idx).Msg("Subaddress added")
	return entry, nil
}

// AddSubaddress records an externally derived entry. Re-adding the same
// entry is a no-op.
func (ks *Keystore) AddSubaddress(name string, entry SubaddressEntry) error {
	path, err := ks.walletPath(name)
	if err != nil {
		return err
	}
	ks.mu.Lock()
	defer ks.mu.Unlock()
	kf, err := ks.readFile(path)
	if err != nil {
		return err
	}
	if err := kf.addSubaddress(entry); err != nil {
		return err
	}
	return ks.writeFile(path, kf)
}

// Subaddresses returns the recorded addresses sorted by (account, index).
func (ks *Keystore) Subaddresses(name string) ([]SubaddressEntry, error) {
	kf, err := ks.read(name)
	if err != nil {
		return nil, err
	}
	out := append([]SubaddressEntry(nil), kf.Subaddresses...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Account != out[j].Account {
			return out[i].Account < out[j].Account
		}
		return out[i].Index < out[j].Index
	})
	return out, nil
}

// List returns the names of all wallets in the keystore.
func (ks *Keystore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.path)
	if err != nil {
		return nil, fmt.Errorf("read keystore dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(e.Name(), walletExt); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a wallet file.
func (ks *Keystore) Delete(name string) error {
	path, err := ks.walletPath(name)
	if err != nil {
		return err
	}
	ks.mu.Lock()
	defer ks.mu.Unlock()
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %q", ErrWalletNotFound, name)
		}
		return fmt.Errorf("delete wallet: %w", err)
	}
	return nil
}

func (kf *keystoreFile) info(name string) *WalletInfo {
	info := &WalletInfo{
		Name:        name,
		Network:     kf.Network,
		Fingerprint: kf.Fingerprint,
		CreatedAt:   kf.CreatedAt,
	}
	if wl, err := LookupLanguage(kf.Language); err == nil {
		info.Language = wl.Name()
	}
	for _, e := range kf.Subaddresses {
		if e.IsPrimary() {
			info.Address = e.Address
		}
	}
	return info
}

func (kf *keystoreFile) addSubaddress(entry SubaddressEntry) error {
	for _, e := range kf.Subaddresses {
		if e.SubaddressIndex == entry.SubaddressIndex {
			if e.Address == entry.Address {
				return nil
			}
			return fmt.Errorf("subaddress %s already recorded with a different address", entry.SubaddressIndex)
		}
	}
	kf.Subaddresses = append(kf.Subaddresses, entry)
	if kf.NextIndex == nil {
		kf.NextIndex = make(map[uint32]uint32)
	}
	if next := kf.NextIndex[entry.Account]; entry.Index >= next {
		kf.NextIndex[entry.Account] = entry.Index + 1
	}
	return nil
}

func (ks *Keystore) read(name string) (*keystoreFile, error) {
	path, err := ks.walletPath(name)
	if err != nil {
		return nil, err
	}
	ks.mu.Lock()
	defer ks.mu.Unlock()
	return ks.readFile(path)
}

func (ks *Keystore) writeFile(path string, kf *keystoreFile) error {
	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal wallet: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}
	return nil
}

func (ks *Keystore) readFile(path string) (*keystoreFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrWalletNotFound, strings.TrimSuffix(filepath.Base(path), walletExt))
		}
		return nil, fmt.Errorf("read wallet: %w", err)
	}
	var kf keystoreFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse wallet: %w", err)
	}
	if kf.Version != walletVersion {
		return nil, fmt.Errorf("unsupported wallet version: %d", kf.Version)
	}
	return &kf, nil
}
