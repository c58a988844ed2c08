package wallet

import (
	"fmt"

	klog "github.com/Klingon-tech/xmrseed/internal/log"
	"github.com/Klingon-tech/xmrseed/pkg/types"
)

// GenerateMnemonic returns a fresh 25-word phrase in the given language.
func GenerateMnemonic(language uint8) (string, error) {
	wl, err := LookupLanguage(language)
	if err != nil {
		return "", err
	}
	seed, err := NewSeed()
	if err != nil {
		return "", err
	}
	defer seed.Wipe()

	m, err := EncodeMnemonic(seed, wl)
	if err != nil {
		return "", err
	}
	klog.Wallet.Debug().Str("language", wl.Name()).Msg("Generated mnemonic")
	return m.String(), nil
}

// GenerateAddress derives the address for (account, index) from a
// mnemonic. The language is detected from the words. (0, 0) yields the
// standard address; any other index yields a subaddress.
func GenerateAddress(mnemonic string, network uint8, account, index uint32) (string, error) {
	defer klog.Benchmark("generate_address")()

	net := types.Network(network)
	if _, err := types.Prefix(net, types.KindStandard); err != nil {
		return "", err
	}

	addr, err := DeriveAddress(mnemonic, net, SubaddressIndex{Account: account, Index: index})
	if err != nil {
		return "", err
	}
	return addr.Encode()
}

// DeriveAddress is GenerateAddress returning the structured address.
func DeriveAddress(mnemonic string, net types.Network, idx SubaddressIndex) (types.Address, error) {
	seed, wl, err := DecodeMnemonic(mnemonic, nil)
	if err != nil {
		return types.Address{}, fmt.Errorf("decode mnemonic: %w", err)
	}
	defer seed.Wipe()

	keys, err := DeriveMasterKeys(seed[:])
	if err != nil {
		return types.Address{}, err
	}
	defer keys.Wipe()

	addr, err := keys.Address(net, idx)
	if err != nil {
		return types.Address{}, err
	}
	klog.WithFingerprint(keys.Fingerprint()).Debug().
		Str("language", wl.Name()).
		Str("network", net.String()).
		Stringer("subaddress", idx).
		Msg("Derived address")
	return addr, nil
}
