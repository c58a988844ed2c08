// derive_key.go prints the master keys and primary addresses for a
// hex-encoded 32-byte seed file.
// Usage: go run scripts/derive_key.go <seedfile>
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/Klingon-tech/xmrseed/internal/wallet"
	"github.com/Klingon-tech/xmrseed/pkg/types"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: derive_key <seedfile>")
		os.Exit(1)
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	seedBytes, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	keys, err := wallet.DeriveMasterKeys(seedBytes)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer keys.Wipe()

	fmt.Printf("spend_pub=%s\n", keys.Spend.Public)
	fmt.Printf("view_pub=%s\n", keys.View.Public)
	fmt.Printf("fingerprint=%s\n", keys.Fingerprint())
	for _, net := range []types.Network{types.Mainnet, types.Testnet, types.Stagenet} {
		addr, err := keys.Address(net, wallet.SubaddressIndex{})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("%s=%s\n", net, addr)
	}
}
