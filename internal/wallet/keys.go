package wallet

import (
	"fmt"

	"github.com/Klingon-tech/xmrseed/pkg/crypto"
)

// MasterKeys holds the wallet's spend and view key pairs.
type MasterKeys struct {
	Spend crypto.KeyPair
	View  crypto.KeyPair
}

// DeriveMasterKeys derives the key pairs from a 32-byte seed:
// spend = seed mod l, view = Hs(spend).
func DeriveMasterKeys(seed []byte) (*MasterKeys, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidSeed, SeedSize, len(seed))
	}
	spend, err := crypto.ScalarFromBytesModOrder(seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	spendBytes := spend.Bytes()
	defer clear(spendBytes)
	view := crypto.HashToScalar(spendBytes)

	return &MasterKeys{
		Spend: spend.KeyPair(),
		View:  view.KeyPair(),
	}, nil
}

// Fingerprint returns the short public identifier for the wallet.
func (mk *MasterKeys) Fingerprint() string {
	return crypto.Fingerprint(mk.Spend.Public, mk.View.Public)
}

// Wipe zeroes both private keys.
func (mk *MasterKeys) Wipe() {
	mk.Spend.Zero()
	mk.View.Zero()
}
