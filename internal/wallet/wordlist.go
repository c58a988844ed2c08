package wallet

import (
	_ "embed"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Language identifiers. Only languages with bundled word data are usable;
// the rest are reserved ids that fail with ErrUnsupportedLanguage.
const (
	LangGerman     uint8 = 0
	LangEnglish    uint8 = 1
	LangSpanish    uint8 = 2
	LangFrench     uint8 = 3
	LangItalian    uint8 = 4
	LangDutch      uint8 = 5
	LangPortuguese uint8 = 6
	LangRussian    uint8 = 7
	LangChinese    uint8 = 8
	LangJapanese   uint8 = 9
	LangEsperanto  uint8 = 10
	LangLojban     uint8 = 11
	LangEnglishOld uint8 = 12
)

var languageNames = map[uint8]string{
	LangGerman:     "German",
	LangEnglish:    "English",
	LangSpanish:    "Spanish",
	LangFrench:     "French",
	LangItalian:    "Italian",
	LangDutch:      "Dutch",
	LangPortuguese: "Portuguese",
	LangRussian:    "Russian",
	LangChinese:    "Chinese",
	LangJapanese:   "Japanese",
	LangEsperanto:  "Esperanto",
	LangLojban:     "Lojban",
	LangEnglishOld: "EnglishOld",
}

//go:embed wordlists/english.txt
var englishData string

// Wordlist is an immutable language wordlist.
type Wordlist struct {
	id        uint8
	name      string
	prefixLen int
	words     []string
	index     map[string]int
	prefixes  map[string]int
}

// Name returns the language name.
func (wl *Wordlist) Name() string { return wl.name }

// ID returns the language id.
func (wl *Wordlist) ID() uint8 { return wl.id }

// Len returns the number of words.
func (wl *Wordlist) Len() int { return len(wl.words) }

// Word returns the word at index i.
func (wl *Wordlist) Word(i int) string { return wl.words[i] }

// PrefixLen returns the number of leading runes that identify a word.
func (wl *Wordlist) PrefixLen() int { return wl.prefixLen }

// Index returns the position of word in the list. An exact match is tried
// first, then a match on the word's unique prefix.
func (wl *Wordlist) Index(word string) (int, bool) {
	if i, ok := wl.index[word]; ok {
		return i, true
	}
	if utf8.RuneCountInString(word) < wl.prefixLen {
		return 0, false
	}
	i, ok := wl.prefixes[wl.prefix(word)]
	return i, ok
}

// prefix returns the first PrefixLen runes of word, or word if shorter.
func (wl *Wordlist) prefix(word string) string {
	n := 0
	for i := range word {
		if n == wl.prefixLen {
			return word[:i]
		}
		n++
	}
	return word
}

// registry holds the bundled wordlists in detection order.
var registry []*Wordlist

func init() {
	registry = []*Wordlist{
		mustLoadWordlist(LangEnglish, englishData, 1626, 3),
	}
}

// mustLoadWordlist parses embedded word data. Corrupt data is a build
// defect, so it panics.
func mustLoadWordlist(id uint8, data string, size, prefixLen int) *Wordlist {
	wl, err := loadWordlist(id, data, size, prefixLen)
	if err != nil {
		panic(err)
	}
	return wl
}

func loadWordlist(id uint8, data string, size, prefixLen int) (*Wordlist, error) {
	name := languageNames[id]
	words := strings.Fields(data)
	if len(words) < 2 || len(words) != size {
		return nil, fmt.Errorf("wordlist %s: want %d words, got %d", name, size, len(words))
	}

	wl := &Wordlist{
		id:        id,
		name:      name,
		prefixLen: prefixLen,
		words:     words,
		index:     make(map[string]int, len(words)),
		prefixes:  make(map[string]int, len(words)),
	}
	for i, w := range words {
		if _, dup := wl.index[w]; dup {
			return nil, fmt.Errorf("wordlist %s: duplicate word %q", name, w)
		}
		wl.index[w] = i
		p := wl.prefix(w)
		if j, dup := wl.prefixes[p]; dup {
			return nil, fmt.Errorf("wordlist %s: words %d and %d share prefix %q", name, j, i, p)
		}
		wl.prefixes[p] = i
	}
	return wl, nil
}

// LookupLanguage returns the wordlist for a language id.
func LookupLanguage(id uint8) (*Wordlist, error) {
	for _, wl := range registry {
		if wl.id == id {
			return wl, nil
		}
	}
	if name, ok := languageNames[id]; ok {
		return nil, fmt.Errorf("%w: %s has no bundled wordlist", ErrUnsupportedLanguage, name)
	}
	return nil, fmt.Errorf("%w: id %d", ErrUnsupportedLanguage, id)
}

// LookupLanguageName resolves a language by case-insensitive name.
func LookupLanguageName(name string) (*Wordlist, error) {
	for id, n := range languageNames {
		if strings.EqualFold(n, name) {
			return LookupLanguage(id)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, name)
}

// Languages returns the bundled wordlists.
func Languages() []*Wordlist {
	out := make([]*Wordlist, len(registry))
	copy(out, registry)
	return out
}

// detectLanguage returns the first bundled list that knows every word.
func detectLanguage(words []string) (*Wordlist, error) {
	var best *Wordlist
	bestPos := -1
	for _, wl := range registry {
		pos := firstUnknown(wl, words)
		if pos < 0 {
			return wl, nil
		}
		if pos > bestPos {
			best, bestPos = wl, pos
		}
	}
	if best == nil {
		return nil, ErrUnsupportedLanguage
	}
	return nil, &UnknownWordError{Position: bestPos + 1}
}

// firstUnknown returns the index of the first word wl does not know, or -1.
func firstUnknown(wl *Wordlist, words []string) int {
	for i, w := range words {
		if _, ok := wl.Index(w); !ok {
			return i
		}
	}
	return -1
}
