package rpc

import (
	"github.com/Klingon-tech/xmrseed/internal/wallet"
)

func (s *Server) requireWallet() *Error {
	if s.keystore == nil {
		return &Error{Code: CodeInternalError, Message: "wallet not enabled"}
	}
	return nil
}

func (s *Server) requireIndex() *Error {
	if s.index == nil {
		return &Error{Code: CodeInternalError, Message: "address index not enabled"}
	}
	return nil
}

// indexWallet refreshes the index entries of one wallet. Index failures are
// logged; the keystore stays authoritative and --reindex repairs it.
func (s *Server) indexWallet(name string) {
	if s.index == nil {
		return
	}
	if _, err := s.index.IndexWallet(s.keystore, name); err != nil {
		s.logger.Warn().Err(err).Str("wallet", name).Msg("Address index update failed")
	}
}

func (s *Server) handleWalletCreate(req *Request) (interface{}, *Error) {
	if err := s.requireWallet(); err != nil {
		return nil, err
	}

	var params WalletCreateParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	if params.Name == "" || params.Password == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "name and password are required"}
	}
	wl, rpcErr := s.resolveLanguage(params.Language)
	if rpcErr != nil {
		return nil, rpcErr
	}
	net, rpcErr := s.resolveNetwork(params.Network)
	if rpcErr != nil {
		return nil, rpcErr
	}

	seed, err := wallet.NewSeed()
	if err != nil {
		return nil, errorFor("generate seed", err)
	}
	defer seed.Wipe()

	mnemonic, err := wallet.EncodeMnemonic(seed, wl)
	if err != nil {
		return nil, errorFor("encode mnemonic", err)
	}

	info, err := s.keystore.Create(params.Name, seed, wl, net, []byte(params.Password))
	if err != nil {
		return nil, errorFor("create wallet", err)
	}
	s.indexWallet(params.Name)

	return &WalletCreateResult{
		Mnemonic:    mnemonic.String(),
		Address:     info.Address,
		Fingerprint: info.Fingerprint,
	}, nil
}

func (s *Server) handleWalletImport(req *Request) (interface{}, *Error) {
	if err := s.requireWallet(); err != nil {
		return nil, err
	}

	var params WalletImportParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	if params.Name == "" || params.Password == "" || params.Mnemonic == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "name, password and mnemonic are required"}
	}
	net, rpcErr := s.resolveNetwork(params.Network)
	if rpcErr != nil {
		return nil, rpcErr
	}

	seed, wl, err := wallet.DecodeMnemonic(params.Mnemonic, nil)
	if err != nil {
		return nil, errorFor("invalid mnemonic", err)
	}
	defer seed.Wipe()

	info, err := s.keystore.Create(params.Name, seed, wl, net, []byte(params.Password))
	if err != nil {
		return nil, errorFor("import wallet", err)
	}
	s.indexWallet(params.Name)

	return &WalletImportResult{
		Address:     info.Address,
		Language:    info.Language,
		Fingerprint: info.Fingerprint,
	}, nil
}

func (s *Server) handleWalletList(_ *Request) (interface{}, *Error) {
	if err := s.requireWallet(); err != nil {
		return nil, err
	}

	names, err := s.keystore.List()
	if err != nil {
		return nil, errorFor("list wallets", err)
	}

	result := &WalletListResult{Wallets: make([]WalletSummary, 0, len(names))}
	for _, name := range names {
		info, err := s.keystore.Info(name)
		if err != nil {
			s.logger.Warn().Err(err).Str("wallet", name).Msg("Skipping unreadable wallet")
			continue
		}
		result.Wallets = append(result.Wallets, WalletSummary{
			Name:        info.Name,
			Network:     info.Network.String(),
			Language:    info.Language,
			Fingerprint: info.Fingerprint,
			Address:     info.Address,
			CreatedAt:   info.CreatedAt,
		})
	}
	return result, nil
}

func (s *Server) handleWalletDelete(req *Request) (interface{}, *Error) {
	if err := s.requireWallet(); err != nil {
		return nil, err
	}

	var params WalletAuthParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	if params.Name == "" || params.Password == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "name and password are required"}
	}

	// Deleting requires proof of the password.
	seed, _, err := s.keystore.Load(params.Name, []byte(params.Password))
	if err != nil {
		return nil, errorFor("load wallet", err)
	}
	seed.Wipe()

	if err := s.keystore.Delete(params.Name); err != nil {
		return nil, errorFor("delete wallet", err)
	}
	if s.index != nil {
		if err := s.index.DeleteWallet(params.Name); err != nil {
			s.logger.Warn().Err(err).Str("wallet", params.Name).Msg("Address index cleanup failed")
		}
	}
	return &DeleteResult{Deleted: true}, nil
}

func (s *Server) handleWalletNewSubaddress(req *Request) (interface{}, *Error) {
	if err := s.requireWallet(); err != nil {
		return nil, err
	}

	var params WalletNewSubaddressParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	if params.Name == "" || params.Password == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "name and password are required"}
	}

	entry, err := s.keystore.NewSubaddress(params.Name, []byte(params.Password), params.Account, params.Label)
	if err != nil {
		return nil, errorFor("new subaddress", err)
	}

	if s.index != nil {
		info, err := s.keystore.Info(params.Name)
		if err == nil {
			err = s.index.Put(wallet.IndexEntry{
				Wallet:          params.Name,
				Network:         info.Network,
				SubaddressIndex: entry.SubaddressIndex,
				Address:         entry.Address,
			})
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("wallet", params.Name).Msg("Address index update failed")
		}
	}

	result := subaddressResult(entry)
	return &result, nil
}

func (s *Server) handleWalletListAddresses(req *Request) (interface{}, *Error) {
	if err := s.requireWallet(); err != nil {
		return nil, err
	}

	var params WalletNameParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	if params.Name == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "name is required"}
	}

	entries, err := s.keystore.Subaddresses(params.Name)
	if err != nil {
		return nil, errorFor("list addresses", err)
	}
	result := &WalletAddressesResult{Addresses: make([]SubaddressResult, 0, len(entries))}
	for _, e := range entries {
		result.Addresses = append(result.Addresses, subaddressResult(e))
	}
	return result, nil
}

func (s *Server) handleIndexLookup(req *Request) (interface{}, *Error) {
	if err := s.requireIndex(); err != nil {
		return nil, err
	}

	var params AddressParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	if params.Address == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "address is required"}
	}

	e, err := s.index.Lookup(params.Address)
	if err != nil {
		return nil, errorFor("lookup", err)
	}
	return &IndexLookupResult{
		Wallet:  e.Wallet,
		Network: e.Network.String(),
		Account: e.Account,
		Index:   e.Index,
	}, nil
}
