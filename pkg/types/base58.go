package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// ErrInvalidBase58 is returned for malformed base58 input.
var ErrInvalidBase58 = errors.New("invalid base58")

// Block base58 works on 8-byte big-endian blocks, each encoded to a fixed
// number of characters so the output length depends only on input length.
const (
	fullBlockSize        = 8
	fullEncodedBlockSize = 11
)

// encodedBlockSizes maps a block length in bytes to its encoded length.
var encodedBlockSizes = [fullBlockSize + 1]int{0, 2, 3, 5, 6, 7, 9, 10, 11}

// decodedBlockSizes is the inverse of encodedBlockSizes. -1 = invalid.
var decodedBlockSizes [fullEncodedBlockSize + 1]int

func init() {
	for i := range decodedBlockSizes {
		decodedBlockSizes[i] = -1
	}
	for size, enc := range encodedBlockSizes {
		decodedBlockSizes[enc] = size
	}
}

// Base58Encode encodes data using block base58.
func Base58Encode(data []byte) string {
	full := len(data) / fullBlockSize
	rem := len(data) % fullBlockSize

	var sb strings.Builder
	sb.Grow(full*fullEncodedBlockSize + encodedBlockSizes[rem])
	for i := 0; i < full; i++ {
		encodeBlock(&sb, data[i*fullBlockSize:(i+1)*fullBlockSize])
	}
	if rem > 0 {
		encodeBlock(&sb, data[full*fullBlockSize:])
	}
	return sb.String()
}

// encodeBlock writes one block, left-padded with the zero digit.
func encodeBlock(sb *strings.Builder, block []byte) {
	// Leading zero bytes come back as '1' digits; strip them and re-pad
	// to the fixed width.
	digits := strings.TrimLeft(base58.Encode(block), "1")
	for i := len(digits); i < encodedBlockSizes[len(block)]; i++ {
		sb.WriteByte('1')
	}
	sb.WriteString(digits)
}

// Base58Decode decodes a block base58 string.
func Base58Decode(s string) ([]byte, error) {
	if len(s) == 0 {
		return nil, nil
	}
	full := len(s) / fullEncodedBlockSize
	rem := len(s) % fullEncodedBlockSize
	if decodedBlockSizes[rem] < 0 {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidBase58, len(s))
	}

	out := make([]byte, 0, full*fullBlockSize+decodedBlockSizes[rem])
	for i := 0; i < full; i++ {
		block, err := decodeBlock(s[i*fullEncodedBlockSize:(i+1)*fullEncodedBlockSize], fullBlockSize)
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
	}
	if rem > 0 {
		block, err := decodeBlock(s[full*fullEncodedBlockSize:], decodedBlockSizes[rem])
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
	}
	return out, nil
}

// decodeBlock decodes one encoded block into exactly size bytes.
func decodeBlock(enc string, size int) ([]byte, error) {
	raw, err := base58.Decode(enc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBase58, err)
	}
	// Strip the zero bytes produced by leading '1' digits, then check the
	// value fits the block.
	i := 0
	for i < len(raw) && raw[i] == 0 {
		i++
	}
	raw = raw[i:]
	if len(raw) > size {
		return nil, fmt.Errorf("%w: block %q overflows %d bytes", ErrInvalidBase58, enc, size)
	}
	block := make([]byte, size)
	copy(block[size-len(raw):], raw)
	return block, nil
}
