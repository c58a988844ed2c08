package rpc

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/xmrseed/internal/wallet"
	"github.com/Klingon-tech/xmrseed/pkg/types"
)

func (s *Server) handleMnemonicGenerate(req *Request) (interface{}, *Error) {
	var params MnemonicGenerateParam
	if req.Params != nil {
		if err := parseParams(req, &params); err != nil {
			return nil, err
		}
	}
	wl, rpcErr := s.resolveLanguage(params.Language)
	if rpcErr != nil {
		return nil, rpcErr
	}

	mnemonic, err := wallet.GenerateMnemonic(wl.ID())
	if err != nil {
		return nil, errorFor("generate mnemonic", err)
	}
	return &MnemonicGenerateResult{Mnemonic: mnemonic, Language: wl.Name()}, nil
}

func (s *Server) handleMnemonicValidate(req *Request) (interface{}, *Error) {
	var params MnemonicParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	m, err := wallet.ParseMnemonic(params.Mnemonic)
	if err != nil {
		result := &MnemonicValidateResult{Error: err.Error()}
		var uw *wallet.UnknownWordError
		if errors.As(err, &uw) {
			pos := uw.Position
			result.Position = &pos
		}
		return result, nil
	}
	return &MnemonicValidateResult{Valid: true, Language: m.Wordlist().Name()}, nil
}

func (s *Server) handleMnemonicLanguages(_ *Request) (interface{}, *Error) {
	var out []LanguageInfo
	for _, wl := range wallet.Languages() {
		out = append(out, LanguageInfo{
			ID:        wl.ID(),
			Name:      wl.Name(),
			Words:     wl.Len(),
			PrefixLen: wl.PrefixLen(),
		})
	}
	return out, nil
}

func (s *Server) handleAddressGenerate(req *Request) (interface{}, *Error) {
	var params AddressGenerateParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	if params.Mnemonic == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "mnemonic is required"}
	}
	net, rpcErr := s.resolveNetwork(params.Network)
	if rpcErr != nil {
		return nil, rpcErr
	}

	idx := wallet.SubaddressIndex{Account: params.Account, Index: params.Index}
	addr, err := wallet.DeriveAddress(params.Mnemonic, net, idx)
	if err != nil {
		return nil, errorFor("derive address", err)
	}
	encoded, err := addr.Encode()
	if err != nil {
		return nil, errorFor("encode address", err)
	}
	return &AddressGenerateResult{
		Address: encoded,
		Kind:    addr.Kind.String(),
		Network: addr.Network.String(),
	}, nil
}

func (s *Server) handleAddressDecode(req *Request) (interface{}, *Error) {
	var params AddressParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	addr, err := types.ParseAddress(params.Address)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid address: %v", err)}
	}
	return &AddressDecodeResult{
		Network:   addr.Network.String(),
		Kind:      addr.Kind.String(),
		SpendKey:  addr.SpendKey.String(),
		ViewKey:   addr.ViewKey.String(),
		PaymentID: addr.PaymentIDHex(),
	}, nil
}

func (s *Server) handleAddressMakeIntegrated(req *Request) (interface{}, *Error) {
	var params MakeIntegratedParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	addr, err := types.ParseAddress(params.Address)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid address: %v", err)}
	}
	if addr.Kind != types.KindStandard {
		return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("integrated addresses need a standard address, got %s", addr.Kind)}
	}
	pid, err := types.ParsePaymentID(params.PaymentID)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	integrated, err := types.NewIntegratedAddress(addr.Network, addr.SpendKey, addr.ViewKey, pid)
	if err != nil {
		return nil, errorFor("make integrated address", err)
	}
	encoded, err := integrated.Encode()
	if err != nil {
		return nil, errorFor("encode address", err)
	}
	return &AddressResult{Address: encoded}, nil
}
