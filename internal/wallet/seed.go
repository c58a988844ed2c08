package wallet

import (
	"fmt"

	"github.com/Klingon-tech/xmrseed/pkg/crypto"
)

// SeedSize is the length of a wallet seed in bytes.
const SeedSize = 32

// Seed is the 32-byte secret a mnemonic encodes. Reducing it mod l gives
// the private spend key.
type Seed [SeedSize]byte

// NewSeed returns a random seed. Generated seeds are canonical scalars, so
// the seed bytes equal the spend key bytes.
func NewSeed() (Seed, error) {
	var s Seed
	k, err := crypto.GenerateKey()
	if err != nil {
		return s, fmt.Errorf("generate seed: %w", err)
	}
	defer k.Zero()
	b := k.Bytes()
	copy(s[:], b)
	clear(b)
	return s, nil
}

// SeedFromBytes copies b into a Seed.
func SeedFromBytes(b []byte) (Seed, error) {
	var s Seed
	if len(b) != SeedSize {
		return s, fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidSeed, SeedSize, len(b))
	}
	copy(s[:], b)
	return s, nil
}

// Wipe zeroes the seed.
func (s *Seed) Wipe() {
	clear(s[:])
}
