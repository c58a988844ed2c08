// Package wallet implements CryptoNote mnemonic seeds, key derivation and
// encrypted wallet storage.
package wallet

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"strings"
)

// Mnemonic word counts.
const (
	mnemonicDataWords = SeedSize / 4 * 3
	MnemonicWords     = mnemonicDataWords + 1
	// Legacy phrases omit the checksum word.
	legacyMnemonicWords = mnemonicDataWords
)

// Mnemonic is an encoded seed phrase.
type Mnemonic struct {
	words []string
	wl    *Wordlist
}

// Words returns a copy of the phrase words.
func (m Mnemonic) Words() []string {
	out := make([]string, len(m.words))
	copy(out, m.words)
	return out
}

// Wordlist returns the language the phrase is written in.
func (m Mnemonic) Wordlist() *Wordlist { return m.wl }

// String joins the words with single spaces.
func (m Mnemonic) String() string {
	return strings.Join(m.words, " ")
}

// EncodeMnemonic encodes seed as 24 data words followed by a checksum word.
//
// Each little-endian uint32 x of the seed yields three words:
// w1 = x mod n, w2 = (x/n + w1) mod n, w3 = (x/n/n + w2) mod n.
func EncodeMnemonic(seed Seed, wl *Wordlist) (Mnemonic, error) {
	if wl == nil {
		return Mnemonic{}, fmt.Errorf("%w: nil wordlist", ErrUnsupportedLanguage)
	}
	n := uint32(wl.Len())
	words := make([]string, 0, MnemonicWords)
	for i := 0; i < SeedSize; i += 4 {
		x := binary.LittleEndian.Uint32(seed[i:])
		w1 := x % n
		w2 := (x/n + w1) % n
		w3 := (x/n/n + w2) % n
		words = append(words, wl.Word(int(w1)), wl.Word(int(w2)), wl.Word(int(w3)))
	}
	words = append(words, checksumWord(words, wl))
	return Mnemonic{words: words, wl: wl}, nil
}

// checksumWord picks the data word at crc32(prefixes) mod 24.
func checksumWord(words []string, wl *Wordlist) string {
	var sb strings.Builder
	for _, w := range words[:mnemonicDataWords] {
		sb.WriteString(wl.prefix(w))
	}
	sum := crc32.ChecksumIEEE([]byte(sb.String()))
	return words[sum%uint32(mnemonicDataWords)]
}

// DecodeMnemonic parses a 25-word phrase, or a legacy 24-word phrase
// without checksum, back into its seed. A nil wl detects the language.
// Words may be abbreviated to their unique prefix.
func DecodeMnemonic(phrase string, wl *Wordlist) (Seed, *Wordlist, error) {
	var seed Seed
	words := strings.Fields(strings.ToLower(phrase))
	if len(words) != MnemonicWords && len(words) != legacyMnemonicWords {
		return seed, nil, fmt.Errorf("%w: got %d words, want %d or %d",
			ErrMalformedLength, len(words), MnemonicWords, legacyMnemonicWords)
	}

	if wl == nil {
		var err error
		if wl, err = detectLanguage(words); err != nil {
			return seed, nil, err
		}
	}

	indices := make([]uint32, mnemonicDataWords)
	defer clear(indices)
	canonical := make([]string, mnemonicDataWords)
	defer clear(canonical)
	for i, w := range words[:mnemonicDataWords] {
		idx, ok := wl.Index(w)
		if !ok {
			return seed, nil, &UnknownWordError{Position: i + 1}
		}
		indices[i] = uint32(idx)
		canonical[i] = wl.Word(idx)
	}

	if len(words) == MnemonicWords {
		if _, ok := wl.Index(words[mnemonicDataWords]); !ok {
			return seed, nil, &UnknownWordError{Position: MnemonicWords}
		}
		want := checksumWord(canonical, wl)
		if wl.prefix(words[mnemonicDataWords]) != wl.prefix(want) {
			return seed, nil, ErrChecksumMismatch
		}
	}

	n := uint64(wl.Len())
	for i := 0; i < mnemonicDataWords; i += 3 {
		w1, w2, w3 := uint64(indices[i]), uint64(indices[i+1]), uint64(indices[i+2])
		x := w1 + n*((n-w1+w2)%n) + n*n*((n-w2+w3)%n)
		if x > 0xffffffff || x%n != w1 {
			seed.Wipe()
			return seed, nil, fmt.Errorf("%w: word group %d", ErrInvalidEncoding, i/3+1)
		}
		binary.LittleEndian.PutUint32(seed[i/3*4:], uint32(x))
	}
	return seed, wl, nil
}

// ParseMnemonic decodes phrase and re-encodes it in canonical form, with
// full words and a recomputed checksum.
func ParseMnemonic(phrase string) (Mnemonic, error) {
	seed, wl, err := DecodeMnemonic(phrase, nil)
	if err != nil {
		return Mnemonic{}, err
	}
	defer seed.Wipe()
	return EncodeMnemonic(seed, wl)
}

// ValidateMnemonic reports whether phrase decodes.
func ValidateMnemonic(phrase string) bool {
	seed, _, err := DecodeMnemonic(phrase, nil)
	seed.Wipe()
	return err == nil
}
