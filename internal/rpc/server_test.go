package rpc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/Klingon-tech/xmrseed/config"
	klog "github.com/Klingon-tech/xmrseed/internal/log"
	"github.com/Klingon-tech/xmrseed/internal/storage"
	"github.com/Klingon-tech/xmrseed/internal/wallet"
	"github.com/Klingon-tech/xmrseed/pkg/types"
)

// Seed 0x01..0x20 and the addresses derived from it.
const (
	vectorMnemonic = "object anxiety asked stockpile saucepan skew ailments journal listen elite chlorine dotted kernels thaw vapidly pram mouth paradise unfit elite guarded biplane vivid aspire asked"
	vectorPrimary  = "49T93d3Ln11hArGczMaKT7FP46UKfwm1EP4oUtUL1yMvScvJNrKaYpgSzFf4AContMDX2PZkHNv4LRaQaLLZdLkM7GZyybZ"
	vectorTestnet  = "9zzgXshc4N7hArGczMaKT7FP46UKfwm1EP4oUtUL1yMvScvJNrKaYpgSzFf4AContMDX2PZkHNv4LRaQaLLZdLkM7DzqTAB"
	vectorSub01    = "89jhX2VXKx8i8zgwVPpu5bgTANRbn5LfvC2rrfbKKEWxY3EstT2ziE2XSoWBs2A1i1Pumh4EABwXdfxmficrZaBtDX3wk2T"
	vectorSub11    = "8AeoS5AvRoGEKYQDjcYNzmeLS65N4RUweG8w576ssp27WFCyQr5jvaJQN5HBFzWEEeEXbyYSTCPThhct2TQc5EFQGVeN3XL"
	vectorIntegr   = "4K9p4RrqPGXhArGczMaKT7FP46UKfwm1EP4oUtUL1yMvScvJNrKaYpgSzFf4AContMDX2PZkHNv4LRaQaLLZdLkMACcVoykqpGUU2mGP9o"
	vectorSpendPub = "ce92350b547b6cf028df0618bf9aba55f949930059308d83ebd727e13472ed99"
	vectorViewPub  = "2af11bf7d0ccd19b5de75b29525e364ad691ff7cfe1d5d92ee1dfedf15303e37"
	zeroMnemonic   = "abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey"
	zeroMainnet    = "41fJjQDhryD11111111111111111111111111111111112N1GuTZeagfRbbKcALdcZev4QXGGuoLh2x36LhaxLSxCc2YDhi"
)

// testEnv holds all components for an RPC test.
type testEnv struct {
	server   *Server
	keystore *wallet.Keystore
	index    *wallet.AddressIndex
	url      string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return setupTestEnvWithConfig(t, config.RPCConfig{})
}

func setupTestEnvWithConfig(t *testing.T, rpcCfg config.RPCConfig) *testEnv {
	t.Helper()
	klog.Init("error", false, "")

	ks, err := wallet.NewKeystore(t.TempDir(), wallet.EncryptionParams{Memory: 64, Iterations: 1, Parallelism: 1})
	if err != nil {
		t.Fatalf("create keystore: %v", err)
	}
	idx := wallet.NewAddressIndex(storage.NewMemory())

	srv := New("127.0.0.1:0", types.Mainnet, rpcCfg)
	srv.SetKeystore(ks)
	srv.SetAddressIndex(idx)
	if err := srv.Start(); err != nil {
		t.Fatalf("start rpc: %v", err)
	}
	t.Cleanup(func() { srv.Stop() })

	return &testEnv{
		server:   srv,
		keystore: ks,
		index:    idx,
		url:      "http://" + srv.Addr() + "/",
	}
}

// rpcCall sends a JSON-RPC request and returns the parsed response.
func rpcCall(t *testing.T, url, method string, params interface{}) Response {
	t.Helper()
	req := Request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	}
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", method, err)
	}
	defer resp.Body.Close()

	var rpcResp Response
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return rpcResp
}

// callResult performs a call that must succeed and decodes its result.
func callResult(t *testing.T, url, method string, params, target interface{}) {
	t.Helper()
	resp := rpcCall(t, url, method, params)
	if resp.Error != nil {
		t.Fatalf("%s error: %d %s", method, resp.Error.Code, resp.Error.Message)
	}
	data, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
}

// callError performs a call that must fail with code.
func callError(t *testing.T, url, method string, params interface{}, code int) *Error {
	t.Helper()
	resp := rpcCall(t, url, method, params)
	if resp.Error == nil {
		t.Fatalf("%s should fail, got %v", method, resp.Result)
	}
	if resp.Error.Code != code {
		t.Fatalf("%s code = %d (%s), want %d", method, resp.Error.Code, resp.Error.Message, code)
	}
	return resp.Error
}

// ── Tests ───────────────────────────────────────────────────────────────

func TestRPC_MnemonicGenerate(t *testing.T) {
	env := setupTestEnv(t)

	var gen MnemonicGenerateResult
	callResult(t, env.url, "mnemonic_generate", nil, &gen)
	if gen.Language != "English" {
		t.Errorf("language = %s, want English", gen.Language)
	}
	if n := len(strings.Fields(gen.Mnemonic)); n != 25 {
		t.Fatalf("mnemonic has %d words, want 25", n)
	}

	var val MnemonicValidateResult
	callResult(t, env.url, "mnemonic_validate", MnemonicParam{Mnemonic: gen.Mnemonic}, &val)
	if !val.Valid || val.Language != "English" {
		t.Errorf("generated mnemonic not valid: %+v", val)
	}
}

func TestRPC_MnemonicGenerate_UnsupportedLanguage(t *testing.T) {
	env := setupTestEnv(t)
	callError(t, env.url, "mnemonic_generate", MnemonicGenerateParam{Language: "Klingon"}, CodeInvalidParams)
}

func TestRPC_MnemonicValidate_Invalid(t *testing.T) {
	env := setupTestEnv(t)

	words := strings.Fields(vectorMnemonic)
	words[4] = "qzxword"
	var val MnemonicValidateResult
	callResult(t, env.url, "mnemonic_validate", MnemonicParam{Mnemonic: strings.Join(words, " ")}, &val)
	if val.Valid || val.Error == "" {
		t.Errorf("expected invalid result, got %+v", val)
	}
	if val.Position == nil || *val.Position != 5 {
		t.Errorf("position = %v, want 5", val.Position)
	}

	var short MnemonicValidateResult
	callResult(t, env.url, "mnemonic_validate", MnemonicParam{Mnemonic: "abbey abbey"}, &short)
	if short.Valid || short.Error == "" || short.Position != nil {
		t.Errorf("short mnemonic result = %+v", short)
	}
}

func TestRPC_MnemonicLanguages(t *testing.T) {
	env := setupTestEnv(t)

	var langs []LanguageInfo
	callResult(t, env.url, "mnemonic_languages", nil, &langs)
	if len(langs) == 0 || langs[0].Name != "English" || langs[0].Words != 1626 || langs[0].PrefixLen != 3 {
		t.Errorf("languages = %+v", langs)
	}
}

func TestRPC_AddressGenerate(t *testing.T) {
	env := setupTestEnv(t)

	tests := []struct {
		name   string
		params AddressGenerateParam
		want   string
		kind   string
	}{
		{"default network", AddressGenerateParam{Mnemonic: vectorMnemonic}, vectorPrimary, "standard"},
		{"testnet", AddressGenerateParam{Mnemonic: vectorMnemonic, Network: "testnet"}, vectorTestnet, "standard"},
		{"subaddress", AddressGenerateParam{Mnemonic: vectorMnemonic, Account: 1, Index: 1}, vectorSub11, "subaddress"},
		{"zero seed", AddressGenerateParam{Mnemonic: zeroMnemonic}, zeroMainnet, "standard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res AddressGenerateResult
			callResult(t, env.url, "address_generate", tt.params, &res)
			if res.Address != tt.want || res.Kind != tt.kind {
				t.Errorf("address_generate = %+v, want %s (%s)", res, tt.want, tt.kind)
			}
		})
	}
}

func TestRPC_AddressGenerate_Errors(t *testing.T) {
	env := setupTestEnv(t)

	words := strings.Fields(vectorMnemonic)
	words[24] = words[0]

	tests := []struct {
		name   string
		params interface{}
	}{
		{"no params", nil},
		{"empty mnemonic", AddressGenerateParam{}},
		{"bad network", AddressGenerateParam{Mnemonic: vectorMnemonic, Network: "regtest"}},
		{"bad checksum", AddressGenerateParam{Mnemonic: strings.Join(words, " ")}},
		{"short", AddressGenerateParam{Mnemonic: "abbey abbey abbey"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			callError(t, env.url, "address_generate", tt.params, CodeInvalidParams)
		})
	}
}

func TestRPC_AddressDecode(t *testing.T) {
	env := setupTestEnv(t)

	var res AddressDecodeResult
	callResult(t, env.url, "address_decode", AddressParam{Address: vectorPrimary}, &res)
	if res.Network != "mainnet" || res.Kind != "standard" || res.PaymentID != "" {
		t.Errorf("decode = %+v", res)
	}
	if res.SpendKey != vectorSpendPub || res.ViewKey != vectorViewPub {
		t.Errorf("keys = %s / %s", res.SpendKey, res.ViewKey)
	}

	callResult(t, env.url, "address_decode", AddressParam{Address: vectorIntegr}, &res)
	if res.Kind != "integrated" || res.PaymentID != "0123456789abcdef" {
		t.Errorf("integrated decode = %+v", res)
	}

	corrupt := vectorPrimary[:len(vectorPrimary)-1] + "a"
	callError(t, env.url, "address_decode", AddressParam{Address: corrupt}, CodeInvalidParams)
}

func TestRPC_AddressMakeIntegrated(t *testing.T) {
	env := setupTestEnv(t)

	var res AddressResult
	callResult(t, env.url, "address_makeIntegrated", MakeIntegratedParam{Address: vectorPrimary, PaymentID: "0123456789abcdef"}, &res)
	if res.Address != vectorIntegr {
		t.Errorf("address = %s, want %s", res.Address, vectorIntegr)
	}

	callError(t, env.url, "address_makeIntegrated", MakeIntegratedParam{Address: vectorSub11, PaymentID: "0123456789abcdef"}, CodeInvalidParams)
	callError(t, env.url, "address_makeIntegrated", MakeIntegratedParam{Address: vectorPrimary, PaymentID: "0123"}, CodeInvalidParams)
}

func TestRPC_MethodNotFound(t *testing.T) {
	env := setupTestEnv(t)
	callError(t, env.url, "chain_getInfo", nil, CodeMethodNotFound)
}

func TestRPC_InvalidParams(t *testing.T) {
	env := setupTestEnv(t)
	callError(t, env.url, "address_decode", "not-an-object", CodeInvalidParams)
	callError(t, env.url, "address_decode", nil, CodeInvalidParams)
}

func TestRPC_InvalidJSON(t *testing.T) {
	env := setupTestEnv(t)

	resp, err := http.Post(env.url, "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	var rpcResp Response
	json.NewDecoder(resp.Body).Decode(&rpcResp)
	if rpcResp.Error == nil || rpcResp.Error.Code != CodeParseError {
		t.Errorf("expected parse error, got %+v", rpcResp.Error)
	}
}

func TestRPC_WrongVersion(t *testing.T) {
	env := setupTestEnv(t)

	body := `{"jsonrpc":"1.0","method":"mnemonic_generate","id":7}`
	resp, err := http.Post(env.url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	var rpcResp Response
	json.NewDecoder(resp.Body).Decode(&rpcResp)
	if rpcResp.Error == nil || rpcResp.Error.Code != CodeInvalidRequest {
		t.Errorf("expected invalid request, got %+v", rpcResp.Error)
	}
}

func TestRPC_BodyTooLarge(t *testing.T) {
	env := setupTestEnv(t)

	body := `{"jsonrpc":"2.0","method":"mnemonic_validate","params":{"mnemonic":"` +
		strings.Repeat("a", maxBodySize) + `"},"id":1}`
	resp, err := http.Post(env.url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	var rpcResp Response
	json.NewDecoder(resp.Body).Decode(&rpcResp)
	if rpcResp.Error == nil || rpcResp.Error.Code != CodeInvalidRequest {
		t.Errorf("expected invalid request, got %+v", rpcResp.Error)
	}
}

func TestRPC_GetMethodNotAllowed(t *testing.T) {
	env := setupTestEnv(t)

	resp, err := http.Get(env.url)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var rpcResp Response
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rpcResp.Error == nil || rpcResp.Error.Code != CodeInvalidRequest {
		t.Errorf("expected invalid request error, got %+v", rpcResp.Error)
	}
}

func TestRPC_IPFilter_Allowed(t *testing.T) {
	env := setupTestEnvWithConfig(t, config.RPCConfig{AllowedIPs: []string{"127.0.0.1"}})
	var res AddressDecodeResult
	callResult(t, env.url, "address_decode", AddressParam{Address: vectorPrimary}, &res)
}

func TestRPC_IPFilter_Blocked(t *testing.T) {
	env := setupTestEnvWithConfig(t, config.RPCConfig{AllowedIPs: []string{"10.0.0.0/8"}})

	resp, err := http.Post(env.url, "application/json", strings.NewReader(`{"jsonrpc":"2.0","method":"wallet_list","id":1}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestRPC_CORS_SpecificOrigin(t *testing.T) {
	env := setupTestEnvWithConfig(t, config.RPCConfig{CORSOrigins: []string{"http://localhost:3000"}})

	tests := []struct {
		origin string
		want   string
	}{
		{"http://localhost:3000", "http://localhost:3000"},
		{"http://evil.example", ""},
	}
	for _, tt := range tests {
		req, _ := http.NewRequest(http.MethodPost, env.url, strings.NewReader(`{"jsonrpc":"2.0","method":"wallet_list","id":1}`))
		req.Header.Set("Origin", tt.origin)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		resp.Body.Close()
		if got := resp.Header.Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origin %s: Allow-Origin = %q, want %q", tt.origin, got, tt.want)
		}
	}
}

func TestRPC_CORS_Preflight(t *testing.T) {
	env := setupTestEnvWithConfig(t, config.RPCConfig{CORSOrigins: []string{"*"}})

	req, _ := http.NewRequest(http.MethodOptions, env.url, nil)
	req.Header.Set("Origin", "http://anywhere.example")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Methods"); got != "POST, OPTIONS" {
		t.Errorf("Allow-Methods = %q", got)
	}
}

func TestRPC_Disabled(t *testing.T) {
	klog.Init("error", false, "")
	srv := New("127.0.0.1:0", types.Stagenet)
	if err := srv.Start(); err != nil {
		t.Fatalf("start rpc: %v", err)
	}
	t.Cleanup(func() { srv.Stop() })
	url := "http://" + srv.Addr() + "/"

	callError(t, url, "wallet_list", nil, CodeInternalError)
	callError(t, url, "index_lookup", AddressParam{Address: vectorPrimary}, CodeInternalError)

	// The server network is the default for stateless calls.
	var res AddressGenerateResult
	callResult(t, url, "address_generate", AddressGenerateParam{Mnemonic: vectorMnemonic}, &res)
	if res.Network != "stagenet" {
		t.Errorf("network = %s, want stagenet", res.Network)
	}
}
