// Package crypto provides the curve and hash primitives used for
// CryptoNote-style key derivation.
package crypto

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// HashSize is the length of a Keccak-256 digest in bytes.
const HashSize = 32

// Keccak256 computes the legacy (pre-FIPS padding) Keccak-256 digest of the
// concatenation of the given byte slices.
func Keccak256(data ...[]byte) [HashSize]byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out [HashSize]byte
	h.Sum(out[:0])
	return out
}

// HashToScalar computes Hs(data) = Keccak256(data) mod l.
func HashToScalar(data ...[]byte) *PrivateKey {
	digest := Keccak256(data...)
	defer wipe(digest[:])
	// A 32-byte input can't fail the length check.
	k, _ := ScalarFromBytesModOrder(digest[:])
	return k
}

// Fingerprint returns a short, non-secret identifier for a public key pair.
// It is used in logs and index keys so that wallets can be told apart
// without printing keys.
func Fingerprint(spend, view PublicKey) string {
	h := blake3.New()
	h.Write(spend[:])
	h.Write(view[:])
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:4])
}

// wipe zeroes b in place.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
