package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"filippo.io/edwards25519"
)

// KeySize is the length of an encoded scalar or point in bytes.
const KeySize = 32

// PrivateKey is a scalar modulo the ed25519 group order l. It is always
// held in reduced form.
type PrivateKey struct {
	s *edwards25519.Scalar
}

// PublicKey is a compressed Edwards25519 point.
type PublicKey [KeySize]byte

// KeyPair is a private scalar together with its public point.
type KeyPair struct {
	Private *PrivateKey
	Public  PublicKey
}

// GenerateKey returns a uniformly random scalar.
func GenerateKey() (*PrivateKey, error) {
	var buf [64]byte
	defer wipe(buf[:])
	if _, err := rand.Read(buf[:]); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	s, err := edwards25519.NewScalar().SetUniformBytes(buf[:])
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &PrivateKey{s: s}, nil
}

// ScalarFromBytesModOrder interprets b as a 32-byte little-endian integer
// and reduces it modulo l.
func ScalarFromBytesModOrder(b []byte) (*PrivateKey, error) {
	if len(b) != KeySize {
		return nil, fmt.Errorf("scalar must be %d bytes, got %d", KeySize, len(b))
	}
	var wide [64]byte
	defer wipe(wide[:])
	copy(wide[:], b)
	s, err := edwards25519.NewScalar().SetUniformBytes(wide[:])
	if err != nil {
		return nil, fmt.Errorf("reduce scalar: %w", err)
	}
	return &PrivateKey{s: s}, nil
}

// PrivateKeyFromCanonical parses a reduced 32-byte scalar. Non-canonical
// encodings are rejected.
func PrivateKeyFromCanonical(b []byte) (*PrivateKey, error) {
	s, err := edwards25519.NewScalar().SetCanonicalBytes(b)
	if err != nil {
		return nil, fmt.Errorf("parse scalar: %w", err)
	}
	return &PrivateKey{s: s}, nil
}

// Bytes returns the 32-byte little-endian encoding of the scalar.
// The caller owns the returned slice and should wipe it when done.
func (k *PrivateKey) Bytes() []byte {
	return k.s.Bytes()
}

// Add returns k + o mod l as a new key.
func (k *PrivateKey) Add(o *PrivateKey) *PrivateKey {
	return &PrivateKey{s: edwards25519.NewScalar().Add(k.s, o.s)}
}

// Equal reports whether two scalars are equal in constant time.
func (k *PrivateKey) Equal(o *PrivateKey) bool {
	return k.s.Equal(o.s) == 1
}

// PublicKey returns k·G.
func (k *PrivateKey) PublicKey() PublicKey {
	var pub PublicKey
	copy(pub[:], new(edwards25519.Point).ScalarBaseMult(k.s).Bytes())
	return pub
}

// KeyPair returns the key together with its public point.
func (k *PrivateKey) KeyPair() KeyPair {
	return KeyPair{Private: k, Public: k.PublicKey()}
}

// Zero overwrites the scalar with zero.
func (k *PrivateKey) Zero() {
	if k == nil || k.s == nil {
		return
	}
	k.s.Set(edwards25519.NewScalar())
}

// Zero wipes the private half of the pair.
func (kp *KeyPair) Zero() {
	kp.Private.Zero()
}

// PublicKeyFromBytes parses and validates a compressed point.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	var pub PublicKey
	if len(b) != KeySize {
		return pub, fmt.Errorf("public key must be %d bytes, got %d", KeySize, len(b))
	}
	if _, err := new(edwards25519.Point).SetBytes(b); err != nil {
		return pub, fmt.Errorf("parse point: %w", err)
	}
	copy(pub[:], b)
	return pub, nil
}

// String returns the hex encoding of the point.
func (p PublicKey) String() string {
	return hex.EncodeToString(p[:])
}

// point decodes p into a curve point.
func (p PublicKey) point() (*edwards25519.Point, error) {
	pt, err := new(edwards25519.Point).SetBytes(p[:])
	if err != nil {
		return nil, fmt.Errorf("decode point %s: %w", p, err)
	}
	return pt, nil
}

// AddPoints returns a + b.
func AddPoints(a, b PublicKey) (PublicKey, error) {
	pa, err := a.point()
	if err != nil {
		return PublicKey{}, err
	}
	pb, err := b.point()
	if err != nil {
		return PublicKey{}, err
	}
	var out PublicKey
	copy(out[:], new(edwards25519.Point).Add(pa, pb).Bytes())
	return out, nil
}

// ScalarMult returns k·p.
func ScalarMult(k *PrivateKey, p PublicKey) (PublicKey, error) {
	pt, err := p.point()
	if err != nil {
		return PublicKey{}, err
	}
	var out PublicKey
	copy(out[:], new(edwards25519.Point).ScalarMult(k.s, pt).Bytes())
	return out, nil
}
