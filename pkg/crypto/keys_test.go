package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex: %v", err)
	}
	return b
}

func TestScalarFromBytesModOrder(t *testing.T) {
	// l = 2^252 + 27742317777372353535851937790883648493
	order := mustHex(t, "edd3f55c1a631258d69cf7a2def9de1400000000000000000000000000000010")

	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "zero",
			input: make([]byte, 32),
			want:  "0000000000000000000000000000000000000000000000000000000000000000",
		},
		{
			name:  "order reduces to zero",
			input: order,
			want:  "0000000000000000000000000000000000000000000000000000000000000000",
		},
		{
			name:  "all ones",
			input: bytes.Repeat([]byte{0xff}, 32),
			want:  "1c95988d7431ecd670cf7d73f45befc6feffffffffffffffffffffffffffff0f",
		},
		{
			name:  "sequential bytes",
			input: mustHex(t, "0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20"),
			want:  "275a174ad03fe2575cd01bc64f1a51e61012131415161718191a1b1c1d1e1f00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := ScalarFromBytesModOrder(tt.input)
			if err != nil {
				t.Fatalf("ScalarFromBytesModOrder() error: %v", err)
			}
			if got := hex.EncodeToString(k.Bytes()); got != tt.want {
				t.Errorf("reduced = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestScalarFromBytesModOrder_BadLength(t *testing.T) {
	for _, n := range []int{0, 31, 33, 64} {
		if _, err := ScalarFromBytesModOrder(make([]byte, n)); err == nil {
			t.Errorf("ScalarFromBytesModOrder(%d bytes) should fail", n)
		}
	}
}

func TestPrivateKeyFromCanonical(t *testing.T) {
	if _, err := PrivateKeyFromCanonical(bytes.Repeat([]byte{0xff}, 32)); err == nil {
		t.Error("non-canonical scalar should be rejected")
	}
	k, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error: %v", err)
	}
	k2, err := PrivateKeyFromCanonical(k.Bytes())
	if err != nil {
		t.Fatalf("PrivateKeyFromCanonical() error: %v", err)
	}
	if !k.Equal(k2) {
		t.Error("canonical round-trip changed the scalar")
	}
}

func TestPublicKey(t *testing.T) {
	one := make([]byte, 32)
	one[0] = 1
	two := make([]byte, 32)
	two[0] = 2

	tests := []struct {
		name   string
		scalar []byte
		want   string
	}{
		{"zero is identity", make([]byte, 32), "0100000000000000000000000000000000000000000000000000000000000000"},
		{"one is base point", one, "5866666666666666666666666666666666666666666666666666666666666666"},
		{"two", two, "c9a3f86aae465f0e56513864510f3997561fa2c9e85ea21dc2292309f3cd6022"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := ScalarFromBytesModOrder(tt.scalar)
			if err != nil {
				t.Fatalf("ScalarFromBytesModOrder() error: %v", err)
			}
			if got := k.PublicKey().String(); got != tt.want {
				t.Errorf("PublicKey() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPointArithmetic(t *testing.T) {
	a, _ := GenerateKey()
	b, _ := GenerateKey()

	// a·G + b·G == (a+b)·G
	sum, err := AddPoints(a.PublicKey(), b.PublicKey())
	if err != nil {
		t.Fatalf("AddPoints() error: %v", err)
	}
	if sum != a.Add(b).PublicKey() {
		t.Error("a·G + b·G != (a+b)·G")
	}

	// a·(b·G) == b·(a·G)
	ab, err := ScalarMult(a, b.PublicKey())
	if err != nil {
		t.Fatalf("ScalarMult() error: %v", err)
	}
	ba, err := ScalarMult(b, a.PublicKey())
	if err != nil {
		t.Fatalf("ScalarMult() error: %v", err)
	}
	if ab != ba {
		t.Error("a·(b·G) != b·(a·G)")
	}
}

func TestPublicKeyFromBytes(t *testing.T) {
	k, _ := GenerateKey()
	pub := k.PublicKey()

	got, err := PublicKeyFromBytes(pub[:])
	if err != nil {
		t.Fatalf("PublicKeyFromBytes() error: %v", err)
	}
	if got != pub {
		t.Error("PublicKeyFromBytes round-trip mismatch")
	}

	if _, err := PublicKeyFromBytes(pub[:31]); err == nil {
		t.Error("short public key should be rejected")
	}
	// y = 2 is not on the curve.
	bad := make([]byte, 32)
	bad[0] = 2
	if _, err := PublicKeyFromBytes(bad); err == nil {
		t.Error("off-curve point should be rejected")
	}
}

func TestZero(t *testing.T) {
	k, _ := GenerateKey()
	kp := k.KeyPair()
	kp.Zero()

	if !bytes.Equal(k.Bytes(), make([]byte, 32)) {
		t.Errorf("Zero() left %x", k.Bytes())
	}

	var nilKey *PrivateKey
	nilKey.Zero() // must not panic
}
