package rpc

import (
	"encoding/json"
	"testing"
)

// FuzzRPCRequestUnmarshal tests that arbitrary JSON does not panic
// when parsed as a JSON-RPC 2.0 request.
func FuzzRPCRequestUnmarshal(f *testing.F) {
	f.Add([]byte(`{"jsonrpc":"2.0","method":"mnemonic_generate","params":null,"id":1}`))
	f.Add([]byte(`{"jsonrpc":"2.0","method":"address_decode","params":{"address":"abc"},"id":"test"}`))
	f.Add([]byte(`{}`))
	f.Add([]byte(`null`))
	f.Add([]byte(`{"method":"","params":[]}`))
	f.Add([]byte(`{"jsonrpc":"2.0","method":"address_generate","params":[1,2,3],"id":999}`))

	f.Fuzz(func(t *testing.T, data []byte) {
		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			return
		}
		_ = req.Method
		_ = req.ID
	})
}

// FuzzParseMnemonicParam feeds arbitrary phrases through mnemonic_validate's
// handler. It must never panic and never report an invalid phrase as valid
// without a language.
func FuzzParseMnemonicParam(f *testing.F) {
	f.Add("abbey abbey abbey")
	f.Add("object anxiety asked stockpile saucepan skew ailments journal listen elite chlorine dotted kernels thaw vapidly pram mouth paradise unfit elite guarded biplane vivid aspire asked")
	f.Add("")
	f.Add("zoom zones zombie " + "abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey abbey zoom")

	s := New("127.0.0.1:0", 0)
	f.Fuzz(func(t *testing.T, phrase string) {
		res, rpcErr := s.handleMnemonicValidate(&Request{Params: map[string]string{"mnemonic": phrase}})
		if rpcErr != nil {
			t.Fatalf("unexpected rpc error: %+v", rpcErr)
		}
		v := res.(*MnemonicValidateResult)
		if v.Valid && v.Language == "" {
			t.Fatalf("valid result without language for %q", phrase)
		}
	})
}
