package wallet

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/Klingon-tech/xmrseed/pkg/crypto"
	"github.com/Klingon-tech/xmrseed/pkg/types"
)

// subaddressDomain separates subaddress hashing from other uses of Hs.
var subaddressDomain = []byte("SubAddr\x00")

// SubaddressIndex addresses a subaddress by (account, index).
type SubaddressIndex struct {
	Account uint32 `json:"account"`
	Index   uint32 `json:"index"`
}

// IsPrimary reports whether the index is (0, 0), the main address.
func (i SubaddressIndex) IsPrimary() bool {
	return i.Account == 0 && i.Index == 0
}

func (i SubaddressIndex) String() string {
	return fmt.Sprintf("%d/%d", i.Account, i.Index)
}

// ParseSubaddressIndex parses decimal account and index strings.
func ParseSubaddressIndex(account, index string) (SubaddressIndex, error) {
	a, err := strconv.ParseUint(account, 10, 32)
	if err != nil {
		return SubaddressIndex{}, fmt.Errorf("%w: account %q", ErrInvalidIndex, account)
	}
	i, err := strconv.ParseUint(index, 10, 32)
	if err != nil {
		return SubaddressIndex{}, fmt.Errorf("%w: index %q", ErrInvalidIndex, index)
	}
	return SubaddressIndex{Account: uint32(a), Index: uint32(i)}, nil
}

// subaddressOffset computes m = Hs("SubAddr\0" || view || account || index).
func (mk *MasterKeys) subaddressOffset(idx SubaddressIndex) *crypto.PrivateKey {
	view := mk.View.Private.Bytes()
	defer clear(view)
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[:4], idx.Account)
	binary.LittleEndian.PutUint32(buf[4:], idx.Index)
	return crypto.HashToScalar(subaddressDomain, view, buf[:])
}

// Subaddress returns the public spend and view keys for idx.
// (0, 0) is the main address and yields the master public keys.
// Otherwise D = spend_pub + m·G and C = view·D.
func (mk *MasterKeys) Subaddress(idx SubaddressIndex) (spend, view crypto.PublicKey, kind types.AddressKind, err error) {
	if idx.IsPrimary() {
		return mk.Spend.Public, mk.View.Public, types.KindStandard, nil
	}
	m := mk.subaddressOffset(idx)
	defer m.Zero()

	spend, err = crypto.AddPoints(mk.Spend.Public, m.PublicKey())
	if err != nil {
		return spend, view, kind, fmt.Errorf("subaddress spend key: %w", err)
	}
	view, err = crypto.ScalarMult(mk.View.Private, spend)
	if err != nil {
		return spend, view, kind, fmt.Errorf("subaddress view key: %w", err)
	}
	return spend, view, types.KindSubaddress, nil
}

// SubaddressSecretSpend returns the private spend key for idx, spend + m.
// The caller must Zero the result.
func (mk *MasterKeys) SubaddressSecretSpend(idx SubaddressIndex) *crypto.PrivateKey {
	if idx.IsPrimary() {
		return mk.Spend.Private.Add(zeroScalar())
	}
	m := mk.subaddressOffset(idx)
	defer m.Zero()
	return mk.Spend.Private.Add(m)
}

// Address encodes the address for idx on net.
func (mk *MasterKeys) Address(net types.Network, idx SubaddressIndex) (types.Address, error) {
	spend, view, kind, err := mk.Subaddress(idx)
	if err != nil {
		return types.Address{}, err
	}
	return types.NewAddress(net, kind, spend, view)
}

func zeroScalar() *crypto.PrivateKey {
	// 32 zero bytes are always a canonical scalar.
	k, _ := crypto.PrivateKeyFromCanonical(make([]byte, crypto.KeySize))
	return k
}
