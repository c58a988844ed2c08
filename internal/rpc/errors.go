package rpc

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/xmrseed/internal/wallet"
	"github.com/Klingon-tech/xmrseed/pkg/types"
)

// clientErrors are failures caused by the request rather than the server.
var clientErrors = []error{
	wallet.ErrUnsupportedLanguage,
	wallet.ErrMalformedLength,
	wallet.ErrUnknownWord,
	wallet.ErrChecksumMismatch,
	wallet.ErrInvalidSeed,
	wallet.ErrInvalidIndex,
	wallet.ErrUnsupportedNetwork,
	wallet.ErrInvalidEncoding,
	wallet.ErrWalletExists,
	wallet.ErrInvalidWalletName,
	types.ErrInvalidBase58,
}

// errorFor converts a library error into a JSON-RPC error.
func errorFor(context string, err error) *Error {
	code := CodeInternalError
	switch {
	case errors.Is(err, wallet.ErrWalletNotFound), errors.Is(err, wallet.ErrNotIndexed):
		code = CodeNotFound
	case errors.Is(err, wallet.ErrWrongPassword):
		return &Error{Code: CodeInvalidParams, Message: "invalid wallet name or password"}
	default:
		for _, target := range clientErrors {
			if errors.Is(err, target) {
				code = CodeInvalidParams
				break
			}
		}
	}
	return &Error{Code: code, Message: fmt.Sprintf("%s: %v", context, err)}
}
