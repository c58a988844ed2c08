// Command libxmrseed builds the C shared library:
//
//	go build -buildmode=c-shared -o libxmrseed.so ./cmd/libxmrseed
//
// Every returned string is allocated with malloc and must be released
// with free_string. A NULL return means the call failed.
package main

/*
#include <stdint.h>
#include <stdlib.h>
*/
import "C"

import (
	"errors"
	"unsafe"

	klog "github.com/Klingon-tech/xmrseed/internal/log"
	"github.com/Klingon-tech/xmrseed/internal/wallet"
)

//export generate_mnemonic
func generate_mnemonic(language C.uint8_t) *C.char {
	mnemonic, err := wallet.GenerateMnemonic(uint8(language))
	if err != nil {
		klog.FFI.Debug().Str("kind", errorKind(err)).Msg("generate_mnemonic failed")
		return nil
	}
	return C.CString(mnemonic)
}

//export generate_address
func generate_address(mnemonic *C.char, network C.uint8_t, account, index C.uint32_t) *C.char {
	if mnemonic == nil {
		klog.FFI.Debug().Str("kind", "null_argument").Msg("generate_address failed")
		return nil
	}
	addr, err := wallet.GenerateAddress(C.GoString(mnemonic), uint8(network), uint32(account), uint32(index))
	if err != nil {
		klog.FFI.Debug().Str("kind", errorKind(err)).Msg("generate_address failed")
		return nil
	}
	return C.CString(addr)
}

//export free_string
func free_string(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}

// errorKind names the failure without echoing any input.
func errorKind(err error) string {
	switch {
	case errors.Is(err, wallet.ErrUnsupportedLanguage):
		return "unsupported_language"
	case errors.Is(err, wallet.ErrUnsupportedNetwork):
		return "unsupported_network"
	case errors.Is(err, wallet.ErrMalformedLength):
		return "malformed_length"
	case errors.Is(err, wallet.ErrUnknownWord):
		return "unknown_word"
	case errors.Is(err, wallet.ErrChecksumMismatch):
		return "checksum_mismatch"
	case errors.Is(err, wallet.ErrInvalidEncoding):
		return "invalid_encoding"
	case errors.Is(err, wallet.ErrInvalidSeed):
		return "invalid_seed"
	case errors.Is(err, wallet.ErrInvalidIndex):
		return "invalid_index"
	default:
		return "internal"
	}
}

func main() {}
