package wallet

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/zeebo/blake3"

	klog "github.com/Klingon-tech/xmrseed/internal/log"
	"github.com/Klingon-tech/xmrseed/internal/storage"
	"github.com/Klingon-tech/xmrseed/pkg/types"
)

// ErrNotIndexed is returned by Lookup for an address the index has not seen.
var ErrNotIndexed = errors.New("address not indexed")

// AddressIndex maps addresses back to the wallet and subaddress index that
// derived them.
//
// Key layout (all under the "i/" prefix namespace):
//
//	Address: "a/<blake3(address)[:16] hex>"            → JSON IndexEntry
//	Wallet:  "w/<wallet>/<account4><index4>"          → address string
//
// Account and index are big-endian so a wallet scan comes back in
// (account, index) order.
type AddressIndex struct {
	db *storage.PrefixDB
}

// IndexEntry is the record stored for each address.
type IndexEntry struct {
	Wallet  string        `json:"wallet"`
	Network types.Network `json:"network"`
	SubaddressIndex
	Address string `json:"address"`
}

// NewAddressIndex creates an index backed by db.
func NewAddressIndex(db storage.DB) *AddressIndex {
	return &AddressIndex{db: storage.NewPrefixDB(db, []byte("i/"))}
}

func addressKey(address string) []byte {
	sum := blake3.Sum256([]byte(address))
	return []byte("a/" + hex.EncodeToString(sum[:16]))
}

func walletKeyPrefix(wallet string) []byte {
	return []byte("w/" + wallet + "/")
}

func walletKey(wallet string, idx SubaddressIndex) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint32(buf[:4], idx.Account)
	binary.BigEndian.PutUint32(buf[4:], idx.Index)
	return append(walletKeyPrefix(wallet), buf[:]...)
}

// Put records an address. Both keys are written in one batch.
func (ai *AddressIndex) Put(e IndexEntry) error {
	if e.Wallet == "" || e.Address == "" {
		return fmt.Errorf("index entry needs wallet and address")
	}
	if strings.Contains(e.Wallet, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidWalletName, e.Wallet)
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal index entry: %w", err)
	}
	b := ai.db.NewBatch()
	if err := b.Put(addressKey(e.Address), data); err != nil {
		return err
	}
	if err := b.Put(walletKey(e.Wallet, e.SubaddressIndex), []byte(e.Address)); err != nil {
		return err
	}
	if err := b.Commit(); err != nil {
		return fmt.Errorf("index address: %w", err)
	}
	return nil
}

// Lookup returns the entry for address.
func (ai *AddressIndex) Lookup(address string) (IndexEntry, error) {
	data, err := ai.db.Get(addressKey(address))
	if errors.Is(err, storage.ErrNotFound) {
		return IndexEntry{}, ErrNotIndexed
	}
	if err != nil {
		return IndexEntry{}, fmt.Errorf("lookup address: %w", err)
	}
	var e IndexEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return IndexEntry{}, fmt.Errorf("corrupt index entry: %w", err)
	}
	// Guards against a hash collision on the truncated key.
	if e.Address != address {
		return IndexEntry{}, ErrNotIndexed
	}
	return e, nil
}

// walletRef is one wallet key: the subaddress slot and the address it holds.
type walletRef struct {
	wallet  string
	idx     SubaddressIndex
	address string
}

// parseWalletKey splits "w/<wallet>/<account4><index4>".
func parseWalletKey(key []byte) (string, SubaddressIndex, bool) {
	if len(key) < 2+1+8 || string(key[:2]) != "w/" || key[len(key)-9] != '/' {
		return "", SubaddressIndex{}, false
	}
	idx := SubaddressIndex{
		Account: binary.BigEndian.Uint32(key[len(key)-8:]),
		Index:   binary.BigEndian.Uint32(key[len(key)-4:]),
	}
	return string(key[2 : len(key)-9]), idx, true
}

// walletRefs returns the wallet keys under prefix.
func (ai *AddressIndex) walletRefs(prefix []byte) ([]walletRef, error) {
	var refs []walletRef
	err := ai.db.ForEach(prefix, func(key, value []byte) error {
		name, idx, ok := parseWalletKey(key)
		if !ok {
			return nil
		}
		refs = append(refs, walletRef{wallet: name, idx: idx, address: string(value)})
		return nil
	})
	return refs, err
}

// WalletAddresses returns every indexed address of a wallet in
// (account, index) order. Addresses that another wallet holds the lookup
// entry for are skipped.
func (ai *AddressIndex) WalletAddresses(wallet string) ([]IndexEntry, error) {
	refs, err := ai.walletRefs(walletKeyPrefix(wallet))
	if err != nil {
		return nil, err
	}

	entries := make([]IndexEntry, 0, len(refs))
	for _, r := range refs {
		e, err := ai.Lookup(r.address)
		if err != nil {
			klog.Index.Warn().Err(err).Str("wallet", wallet).Msg("Dangling wallet index key")
			continue
		}
		if e.Wallet != wallet {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// DeleteWallet removes every address of a wallet from the index. An
// address that another wallet also holds is handed over to that wallet
// instead of being dropped.
func (ai *AddressIndex) DeleteWallet(wallet string) error {
	refs, err := ai.walletRefs(walletKeyPrefix(wallet))
	if err != nil {
		return err
	}

	var owned []IndexEntry
	b := ai.db.NewBatch()
	for _, r := range refs {
		if err := b.Delete(walletKey(wallet, r.idx)); err != nil {
			return err
		}
		e, err := ai.Lookup(r.address)
		if err != nil || e.Wallet != wallet {
			continue
		}
		if err := b.Delete(addressKey(r.address)); err != nil {
			return err
		}
		owned = append(owned, e)
	}
	if err := b.Commit(); err != nil {
		return fmt.Errorf("delete wallet index: %w", err)
	}
	if len(owned) == 0 {
		return nil
	}

	others, err := ai.walletRefs([]byte("w/"))
	if err != nil {
		return err
	}
	for _, e := range owned {
		for _, r := range others {
			if r.address != e.Address {
				continue
			}
			next := IndexEntry{Wallet: r.wallet, Network: e.Network, SubaddressIndex: r.idx, Address: e.Address}
			if err := ai.Put(next); err != nil {
				return err
			}
			break
		}
	}
	return nil
}

// IndexWallet records every address the keystore holds for a wallet.
func (ai *AddressIndex) IndexWallet(ks *Keystore, name string) (int, error) {
	info, err := ks.Info(name)
	if err != nil {
		return 0, err
	}
	subs, err := ks.Subaddresses(name)
	if err != nil {
		return 0, err
	}
	for _, s := range subs {
		e := IndexEntry{Wallet: name, Network: info.Network, SubaddressIndex: s.SubaddressIndex, Address: s.Address}
		if err := ai.Put(e); err != nil {
			return 0, err
		}
	}
	klog.Index.Debug().Str("wallet", name).Int("addresses", len(subs)).Msg("Wallet indexed")
	return len(subs), nil
}

// Reindex drops the whole index and rebuilds it from every wallet in the
// keystore.
func (ai *AddressIndex) Reindex(ks *Keystore) (int, error) {
	names, err := ks.List()
	if err != nil {
		return 0, err
	}
	if err := ai.db.DeleteAll(); err != nil {
		return 0, fmt.Errorf("clear index: %w", err)
	}
	total := 0
	for _, name := range names {
		n, err := ai.IndexWallet(ks, name)
		if err != nil {
			return total, fmt.Errorf("index wallet %q: %w", name, err)
		}
		total += n
	}
	return total, nil
}
