package wallet

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/xmrseed/pkg/types"
)

// Wallet errors. Callers match them with errors.Is.
var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrMalformedLength     = errors.New("malformed mnemonic length")
	ErrUnknownWord         = errors.New("unknown word")
	ErrChecksumMismatch    = types.ErrChecksumMismatch
	ErrInvalidSeed         = errors.New("invalid seed")
	ErrInvalidIndex        = errors.New("invalid subaddress index")
	ErrUnsupportedNetwork  = types.ErrUnsupportedNetwork
	ErrInvalidEncoding     = errors.New("invalid mnemonic encoding")
)

// UnknownWordError reports the 1-based position of a word that is not in
// the wordlist. The word itself is never included.
type UnknownWordError struct {
	Position int
}

func (e *UnknownWordError) Error() string {
	return fmt.Sprintf("unknown word at position %d", e.Position)
}

// Is reports a match against ErrUnknownWord.
func (e *UnknownWordError) Is(target error) bool {
	return target == ErrUnknownWord
}
