package wallet

import (
	"errors"
	"strings"
	"testing"

	"github.com/Klingon-tech/xmrseed/pkg/types"
)

var zeroMnemonic = strings.TrimSpace(strings.Repeat("abbey ", 25))

func TestGenerateMnemonic(t *testing.T) {
	phrase, err := GenerateMnemonic(LangEnglish)
	if err != nil {
		t.Fatalf("GenerateMnemonic() error: %v", err)
	}
	if n := len(strings.Fields(phrase)); n != MnemonicWords {
		t.Errorf("word count = %d, want %d", n, MnemonicWords)
	}
	if !ValidateMnemonic(phrase) {
		t.Error("generated mnemonic should validate")
	}

	other, _ := GenerateMnemonic(LangEnglish)
	if phrase == other {
		t.Error("two generated mnemonics should not be identical")
	}
}

func TestGenerateMnemonic_Unsupported(t *testing.T) {
	for _, id := range []uint8{LangGerman, LangChinese, 200} {
		if _, err := GenerateMnemonic(id); !errors.Is(err, ErrUnsupportedLanguage) {
			t.Errorf("GenerateMnemonic(%d) error = %v, want ErrUnsupportedLanguage", id, err)
		}
	}
}

func TestGenerateAddress(t *testing.T) {
	tests := []struct {
		name           string
		mnemonic       string
		network        uint8
		account, index uint32
		want           string
	}{
		{"zero mainnet", zeroMnemonic, 0, 0, 0,
			"41fJjQDhryD11111111111111111111111111111111112N1GuTZeagfRbbKcALdcZev4QXGGuoLh2x36LhaxLSxCc2YDhi"},
		{"zero testnet", zeroMnemonic, 1, 0, 0,
			"9sCrDesy9LK11111111111111111111111111111111112N1GuTZeagfRbbKcALdcZev4QXGGuoLh2x36LhaxLSxCZ3Viua"},
		{"zero stagenet", zeroMnemonic, 2, 0, 0,
			"51sLpF8fWaK11111111111111111111111111111111112N1GuTZeagfRbbKcALdcZev4QXGGuoLh2x36LhaxLSxCZiDpfU"},
		{"zero subaddress", zeroMnemonic, 0, 0, 1,
			"87dfWXdpHGC6swe5ZZvgCZA9YcgvuYKk5XgKnrpBgXe1BqbMwPHPdETeaUA8hdDAzXFBdkbkor6dCjNmjDH5i6MeBXoCBYy"},
		{"counting mainnet", vectorMnemonic, 0, 0, 0,
			"49T93d3Ln11hArGczMaKT7FP46UKfwm1EP4oUtUL1yMvScvJNrKaYpgSzFf4AContMDX2PZkHNv4LRaQaLLZdLkM7GZyybZ"},
		{"counting testnet", vectorMnemonic, 1, 0, 0,
			"9zzgXshc4N7hArGczMaKT7FP46UKfwm1EP4oUtUL1yMvScvJNrKaYpgSzFf4AContMDX2PZkHNv4LRaQaLLZdLkM7DzqTAB"},
		{"counting stagenet", vectorMnemonic, 2, 0, 0,
			"59fB8TxJRc7hArGczMaKT7FP46UKfwm1EP4oUtUL1yMvScvJNrKaYpgSzFf4AContMDX2PZkHNv4LRaQaLLZdLkM7HBtzXq"},
		{"counting 1/1", vectorMnemonic, 0, 1, 1,
			"8AeoS5AvRoGEKYQDjcYNzmeLS65N4RUweG8w576ssp27WFCyQr5jvaJQN5HBFzWEEeEXbyYSTCPThhct2TQc5EFQGVeN3XL"},
		{"ones mainnet", strings.Repeat("foamy solved soggy ", 8) + "soggy", 0, 0, 0,
			"49voQEbjouUQSDikRWKUt1PGbS47TBde4hiGyftN46CvTDd8LXCaimjHRGtofCJwY5Ed5QhYwc12P15AH5w7SxUAMCz1nr1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateAddress(tt.mnemonic, tt.network, tt.account, tt.index)
			if err != nil {
				t.Fatalf("GenerateAddress() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("GenerateAddress() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGenerateAddress_Deterministic(t *testing.T) {
	a1, err := GenerateAddress(vectorMnemonic, 0, 3, 9)
	if err != nil {
		t.Fatalf("GenerateAddress() error: %v", err)
	}
	a2, _ := GenerateAddress(vectorMnemonic, 0, 3, 9)
	if a1 != a2 {
		t.Error("GenerateAddress() is not deterministic")
	}
}

func TestGenerateAddress_Errors(t *testing.T) {
	tests := []struct {
		name     string
		mnemonic string
		network  uint8
		want     error
	}{
		{"unknown network", vectorMnemonic, 3, ErrUnsupportedNetwork},
		{"short phrase", "abbey abbey abbey", 0, ErrMalformedLength},
		{"bad checksum", strings.Repeat("abbey ", 24) + "zoom", 0, ErrChecksumMismatch},
		{"unknown word", strings.Replace(vectorMnemonic, "object", "qzxqzx", 1), 0, ErrUnknownWord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateAddress(tt.mnemonic, tt.network, 0, 0)
			if !errors.Is(err, tt.want) {
				t.Fatalf("GenerateAddress() error = %v, want %v", err, tt.want)
			}
			if got != "" {
				t.Errorf("GenerateAddress() returned %q on error", got)
			}
		})
	}
}

func TestGenerate_Roundtrip(t *testing.T) {
	phrase, err := GenerateMnemonic(LangEnglish)
	if err != nil {
		t.Fatalf("GenerateMnemonic() error: %v", err)
	}
	for _, net := range []types.Network{types.Mainnet, types.Testnet, types.Stagenet} {
		for _, idx := range []SubaddressIndex{{0, 0}, {0, 5}, {2, 0}} {
			s, err := GenerateAddress(phrase, uint8(net), idx.Account, idx.Index)
			if err != nil {
				t.Fatalf("GenerateAddress() error: %v", err)
			}
			addr, err := types.ParseAddress(s)
			if err != nil {
				t.Fatalf("ParseAddress(%s) error: %v", s, err)
			}
			if addr.Network != net {
				t.Errorf("network = %s, want %s", addr.Network, net)
			}
			wantKind := types.KindSubaddress
			if idx.IsPrimary() {
				wantKind = types.KindStandard
			}
			if addr.Kind != wantKind {
				t.Errorf("%s: kind = %s, want %s", idx, addr.Kind, wantKind)
			}
		}
	}
}
