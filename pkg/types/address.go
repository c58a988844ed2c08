// Package types defines the address format and its encoding.
package types

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Klingon-tech/xmrseed/pkg/crypto"
)

// Address errors.
var (
	ErrUnsupportedNetwork = errors.New("unsupported network")
	ErrChecksumMismatch   = errors.New("checksum mismatch")
)

// Sizes of address components in bytes.
const (
	PaymentIDSize = 8
	ChecksumSize  = 4
)

// Network selects the address prefix family.
type Network uint8

const (
	Mainnet  Network = 0
	Testnet  Network = 1
	Stagenet Network = 2
)

// String returns the network name.
func (n Network) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case Testnet:
		return "testnet"
	case Stagenet:
		return "stagenet"
	default:
		return fmt.Sprintf("network(%d)", uint8(n))
	}
}

// MarshalText encodes the network by name.
func (n Network) MarshalText() ([]byte, error) {
	if _, ok := prefixes[n]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedNetwork, uint8(n))
	}
	return []byte(n.String()), nil
}

// UnmarshalText decodes a network name.
func (n *Network) UnmarshalText(text []byte) error {
	parsed, err := ParseNetwork(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// ParseNetwork resolves a network name.
func ParseNetwork(s string) (Network, error) {
	switch s {
	case "mainnet", "":
		return Mainnet, nil
	case "testnet":
		return Testnet, nil
	case "stagenet":
		return Stagenet, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedNetwork, s)
	}
}

// AddressKind distinguishes standard, integrated and subaddress encodings.
type AddressKind uint8

const (
	KindStandard AddressKind = iota
	KindIntegrated
	KindSubaddress
)

// String returns the kind name.
func (k AddressKind) String() string {
	switch k {
	case KindStandard:
		return "standard"
	case KindIntegrated:
		return "integrated"
	case KindSubaddress:
		return "subaddress"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// prefixes maps (network, kind) to the address prefix tag.
var prefixes = map[Network]map[AddressKind]uint64{
	Mainnet:  {KindStandard: 18, KindIntegrated: 19, KindSubaddress: 42},
	Testnet:  {KindStandard: 53, KindIntegrated: 54, KindSubaddress: 63},
	Stagenet: {KindStandard: 24, KindIntegrated: 25, KindSubaddress: 36},
}

// Prefix returns the prefix tag for a network and kind.
func Prefix(net Network, kind AddressKind) (uint64, error) {
	kinds, ok := prefixes[net]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedNetwork, net)
	}
	p, ok := kinds[kind]
	if !ok {
		return 0, fmt.Errorf("%w: %s has no %s addresses", ErrUnsupportedNetwork, net, kind)
	}
	return p, nil
}

// lookupPrefix is the inverse of Prefix.
func lookupPrefix(tag uint64) (Network, AddressKind, bool) {
	for net, kinds := range prefixes {
		for kind, p := range kinds {
			if p == tag {
				return net, kind, true
			}
		}
	}
	return 0, 0, false
}

// Address is a decoded public address.
type Address struct {
	Network   Network
	Kind      AddressKind
	SpendKey  crypto.PublicKey
	ViewKey   crypto.PublicKey
	PaymentID [PaymentIDSize]byte // Integrated addresses only.
}

// NewAddress builds a standard or subaddress address.
func NewAddress(net Network, kind AddressKind, spend, view crypto.PublicKey) (Address, error) {
	if kind == KindIntegrated {
		return Address{}, fmt.Errorf("integrated addresses need a payment id")
	}
	if _, err := Prefix(net, kind); err != nil {
		return Address{}, err
	}
	return Address{Network: net, Kind: kind, SpendKey: spend, ViewKey: view}, nil
}

// NewIntegratedAddress builds an integrated address carrying a payment id.
func NewIntegratedAddress(net Network, spend, view crypto.PublicKey, paymentID [PaymentIDSize]byte) (Address, error) {
	if _, err := Prefix(net, KindIntegrated); err != nil {
		return Address{}, err
	}
	return Address{Network: net, Kind: KindIntegrated, SpendKey: spend, ViewKey: view, PaymentID: paymentID}, nil
}

// Bytes returns the checksummed binary form:
// varint(prefix) | spend(32) | view(32) | [payment_id(8)] | checksum(4).
func (a Address) Bytes() ([]byte, error) {
	tag, err := Prefix(a.Network, a.Kind)
	if err != nil {
		return nil, err
	}
	data := make([]byte, 0, binary.MaxVarintLen64+2*crypto.KeySize+PaymentIDSize+ChecksumSize)
	data = binary.AppendUvarint(data, tag)
	data = append(data, a.SpendKey[:]...)
	data = append(data, a.ViewKey[:]...)
	if a.Kind == KindIntegrated {
		data = append(data, a.PaymentID[:]...)
	}
	sum := crypto.Keccak256(data)
	return append(data, sum[:ChecksumSize]...), nil
}

// Encode returns the base58 string form.
func (a Address) Encode() (string, error) {
	data, err := a.Bytes()
	if err != nil {
		return "", err
	}
	return Base58Encode(data), nil
}

// String returns the base58 address, or an empty string if the network
// and kind do not form a valid prefix.
func (a Address) String() string {
	s, err := a.Encode()
	if err != nil {
		return ""
	}
	return s
}

// PaymentIDHex returns the hex payment id, or "" for non-integrated addresses.
func (a Address) PaymentIDHex() string {
	if a.Kind != KindIntegrated {
		return ""
	}
	return hex.EncodeToString(a.PaymentID[:])
}

// MarshalJSON encodes the address as a base58 string.
func (a Address) MarshalJSON() ([]byte, error) {
	s, err := a.Encode()
	if err != nil {
		return nil, err
	}
	return json.Marshal(s)
}

// UnmarshalJSON decodes a base58 address string.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress decodes and verifies a base58 address string.
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return Address{}, fmt.Errorf("empty address")
	}
	data, err := Base58Decode(s)
	if err != nil {
		return Address{}, err
	}

	if len(data) <= ChecksumSize {
		return Address{}, fmt.Errorf("address too short: %d bytes", len(data))
	}
	body := data[:len(data)-ChecksumSize]
	sum := crypto.Keccak256(body)
	if !bytes.Equal(sum[:ChecksumSize], data[len(body):]) {
		return Address{}, ErrChecksumMismatch
	}

	tag, n := binary.Uvarint(body)
	if n <= 0 {
		return Address{}, fmt.Errorf("invalid address prefix")
	}
	net, kind, ok := lookupPrefix(tag)
	if !ok {
		return Address{}, fmt.Errorf("%w: unknown prefix %d", ErrUnsupportedNetwork, tag)
	}

	want := n + 2*crypto.KeySize
	if kind == KindIntegrated {
		want += PaymentIDSize
	}
	if len(body) != want {
		return Address{}, fmt.Errorf("%s address must be %d bytes, got %d", kind, want+ChecksumSize, len(data))
	}

	a := Address{Network: net, Kind: kind}
	off := n
	if a.SpendKey, err = crypto.PublicKeyFromBytes(data[off : off+crypto.KeySize]); err != nil {
		return Address{}, fmt.Errorf("spend key: %w", err)
	}
	off += crypto.KeySize
	if a.ViewKey, err = crypto.PublicKeyFromBytes(data[off : off+crypto.KeySize]); err != nil {
		return Address{}, fmt.Errorf("view key: %w", err)
	}
	off += crypto.KeySize
	if kind == KindIntegrated {
		copy(a.PaymentID[:], data[off:off+PaymentIDSize])
	}
	return a, nil
}

// ParsePaymentID parses a 16-character hex payment id.
func ParsePaymentID(s string) ([PaymentIDSize]byte, error) {
	var pid [PaymentIDSize]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return pid, fmt.Errorf("invalid payment id: %w", err)
	}
	if len(b) != PaymentIDSize {
		return pid, fmt.Errorf("payment id must be %d bytes, got %d", PaymentIDSize, len(b))
	}
	copy(pid[:], b)
	return pid, nil
}
