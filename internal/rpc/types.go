package rpc

import (
	"time"

	"github.com/Klingon-tech/xmrseed/internal/wallet"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeNotFound       = -32000
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      interface{} `json:"id"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ── Mnemonic ────────────────────────────────────────────────────────────

// MnemonicGenerateParam is used by mnemonic_generate.
type MnemonicGenerateParam struct {
	Language string `json:"language,omitempty"`
}

// MnemonicGenerateResult is the result of mnemonic_generate.
type MnemonicGenerateResult struct {
	Mnemonic string `json:"mnemonic"`
	Language string `json:"language"`
}

// MnemonicParam is used by mnemonic_validate.
type MnemonicParam struct {
	Mnemonic string `json:"mnemonic"`
}

// MnemonicValidateResult is the result of mnemonic_validate. Position is
// set when a word is not in any bundled list.
type MnemonicValidateResult struct {
	Valid    bool   `json:"valid"`
	Language string `json:"language,omitempty"`
	Error    string `json:"error,omitempty"`
	Position *int   `json:"position,omitempty"`
}

// LanguageInfo describes one bundled wordlist.
type LanguageInfo struct {
	ID        uint8  `json:"id"`
	Name      string `json:"name"`
	Words     int    `json:"words"`
	PrefixLen int    `json:"prefix_len"`
}

// ── Address ─────────────────────────────────────────────────────────────

// AddressGenerateParam is used by address_generate.
type AddressGenerateParam struct {
	Mnemonic string `json:"mnemonic"`
	Network  string `json:"network,omitempty"`
	Account  uint32 `json:"account"`
	Index    uint32 `json:"index"`
}

// AddressGenerateResult is the result of address_generate.
type AddressGenerateResult struct {
	Address string `json:"address"`
	Kind    string `json:"kind"`
	Network string `json:"network"`
}

// AddressParam is used by endpoints that take a single address.
type AddressParam struct {
	Address string `json:"address"`
}

// AddressDecodeResult is the result of address_decode.
type AddressDecodeResult struct {
	Network   string `json:"network"`
	Kind      string `json:"kind"`
	SpendKey  string `json:"spend_key"`
	ViewKey   string `json:"view_key"`
	PaymentID string `json:"payment_id,omitempty"`
}

// MakeIntegratedParam is used by address_makeIntegrated.
type MakeIntegratedParam struct {
	Address   string `json:"address"`
	PaymentID string `json:"payment_id"`
}

// AddressResult wraps a single encoded address.
type AddressResult struct {
	Address string `json:"address"`
}

// ── Wallet ──────────────────────────────────────────────────────────────

// WalletCreateParam is used by wallet_create.
type WalletCreateParam struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Language string `json:"language,omitempty"`
	Network  string `json:"network,omitempty"`
}

// WalletCreateResult is the result of wallet_create. The mnemonic is
// returned once and never stored in the clear.
type WalletCreateResult struct {
	Mnemonic    string `json:"mnemonic"`
	Address     string `json:"address"`
	Fingerprint string `json:"fingerprint"`
}

// WalletImportParam is used by wallet_import.
type WalletImportParam struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Mnemonic string `json:"mnemonic"`
	Network  string `json:"network,omitempty"`
}

// WalletImportResult is the result of wallet_import.
type WalletImportResult struct {
	Address     string `json:"address"`
	Language    string `json:"language"`
	Fingerprint string `json:"fingerprint"`
}

// WalletListResult is the result of wallet_list.
type WalletListResult struct {
	Wallets []WalletSummary `json:"wallets"`
}

// WalletSummary is one entry of wallet_list.
type WalletSummary struct {
	Name        string    `json:"name"`
	Network     string    `json:"network"`
	Language    string    `json:"language"`
	Fingerprint string    `json:"fingerprint"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"created_at"`
}

// WalletAuthParam is used by endpoints that decrypt a wallet.
type WalletAuthParam struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// WalletNameParam is used by endpoints that only read public metadata.
type WalletNameParam struct {
	Name string `json:"name"`
}

// WalletNewSubaddressParam is used by wallet_newSubaddress.
type WalletNewSubaddressParam struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Account  uint32 `json:"account"`
	Label    string `json:"label,omitempty"`
}

// SubaddressResult describes one wallet address.
type SubaddressResult struct {
	Address string `json:"address"`
	Account uint32 `json:"account"`
	Index   uint32 `json:"index"`
	Label   string `json:"label,omitempty"`
}

// WalletAddressesResult is the result of wallet_listAddresses.
type WalletAddressesResult struct {
	Addresses []SubaddressResult `json:"addresses"`
}

// IndexLookupResult is the result of index_lookup.
type IndexLookupResult struct {
	Wallet  string `json:"wallet"`
	Network string `json:"network"`
	Account uint32 `json:"account"`
	Index   uint32 `json:"index"`
}

// DeleteResult is the result of wallet_delete.
type DeleteResult struct {
	Deleted bool `json:"deleted"`
}

func subaddressResult(e wallet.SubaddressEntry) SubaddressResult {
	return SubaddressResult{
		Address: e.Address,
		Account: e.Account,
		Index:   e.Index,
		Label:   e.Label,
	}
}
