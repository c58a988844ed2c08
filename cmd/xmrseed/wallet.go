package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/Klingon-tech/xmrseed/internal/rpc"
	"github.com/Klingon-tech/xmrseed/internal/wallet"
)

func cmdWallet(args []string, g globals) {
	if len(args) < 1 {
		fatal("Usage: xmrseed wallet <create|import|list|address|new-address> [flags]")
	}

	switch args[0] {
	case "create":
		cmdWalletCreate(args[1:], g)
	case "import":
		cmdWalletImport(args[1:], g)
	case "list":
		cmdWalletList(g)
	case "address":
		cmdWalletAddress(args[1:], g)
	case "new-address":
		cmdWalletNewAddress(args[1:], g)
	default:
		fatal("Unknown wallet command: %s\nUsage: xmrseed wallet <create|import|list|address|new-address> [flags]", args[0])
	}
}

func openKeystore(g globals) *wallet.Keystore {
	ks, err := wallet.NewKeystore(g.keystoreDir(), wallet.DefaultParams())
	if err != nil {
		fatal("open keystore: %v", err)
	}
	return ks
}

func cmdWalletCreate(args []string, g globals) {
	fs := flag.NewFlagSet("wallet create", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	language := fs.String("language", "English", "Wordlist language")
	fs.Parse(args)

	if *name == "" {
		fatal("Usage: xmrseed wallet create --name <name> [--language <name>]")
	}
	wl, err := wallet.LookupLanguageName(*language)
	if err != nil {
		fatal("%v", err)
	}

	password := readNewPassword()
	defer clear(password)

	if g.rpcURL != "" {
		var result rpc.WalletCreateResult
		err := rpcClient(g).Call("wallet_create", rpc.WalletCreateParam{
			Name:     *name,
			Password: string(password),
			Language: wl.Name(),
			Network:  g.network.String(),
		}, &result)
		if err != nil {
			fatal("wallet_create: %s", rpcErrorMessage(err))
		}
		printCreated(*name, result.Mnemonic, result.Address)
		return
	}

	seed, err := wallet.NewSeed()
	if err != nil {
		fatal("generate seed: %v", err)
	}
	defer seed.Wipe()

	mnemonic, err := wallet.EncodeMnemonic(seed, wl)
	if err != nil {
		fatal("encode mnemonic: %v", err)
	}

	info, err := openKeystore(g).Create(*name, seed, wl, g.network, password)
	if err != nil {
		fatal("create wallet: %v", err)
	}
	printCreated(*name, mnemonic.String(), info.Address)
}

func printCreated(name, mnemonic, address string) {
	fmt.Println("Mnemonic (write this down!):")
	fmt.Printf("  %s\n\n", mnemonic)
	fmt.Printf("Wallet created: %s\n", name)
	fmt.Printf("Address: %s\n", address)
}

func cmdWalletImport(args []string, g globals) {
	fs := flag.NewFlagSet("wallet import", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	mnemonic := fs.String("mnemonic", "", "25-word mnemonic (prompted if omitted)")
	fs.Parse(args)

	if *name == "" {
		fatal("Usage: xmrseed wallet import --name <name> [--mnemonic \"word1 word2 ...\"]")
	}

	phrase := *mnemonic
	if phrase == "" {
		var err error
		if phrase, err = readMnemonic(os.Stdin); err != nil {
			fatal("read mnemonic: %v", err)
		}
	}

	// Validate before asking for a password.
	seed, wl, err := wallet.DecodeMnemonic(phrase, nil)
	if err != nil {
		fatal("invalid mnemonic: %v", err)
	}
	defer seed.Wipe()

	password := readNewPassword()
	defer clear(password)

	if g.rpcURL != "" {
		var result rpc.WalletImportResult
		err := rpcClient(g).Call("wallet_import", rpc.WalletImportParam{
			Name:     *name,
			Password: string(password),
			Mnemonic: phrase,
			Network:  g.network.String(),
		}, &result)
		if err != nil {
			fatal("wallet_import: %s", rpcErrorMessage(err))
		}
		fmt.Printf("Wallet imported: %s\n", *name)
		fmt.Printf("Address: %s\n", result.Address)
		return
	}

	info, err := openKeystore(g).Create(*name, seed, wl, g.network, password)
	if err != nil {
		fatal("import wallet: %v", err)
	}
	fmt.Printf("Wallet imported: %s\n", *name)
	fmt.Printf("Address: %s\n", info.Address)
}

func cmdWalletList(g globals) {
	if g.rpcURL != "" {
		var result rpc.WalletListResult
		if err := rpcClient(g).Call("wallet_list", nil, &result); err != nil {
			fatal("wallet_list: %s", rpcErrorMessage(err))
		}
		if len(result.Wallets) == 0 {
			fmt.Println("No wallets found.")
			return
		}
		for _, w := range result.Wallets {
			fmt.Printf("%-16s %-9s %s  %s\n", w.Name, w.Network, w.Fingerprint, w.Address)
		}
		return
	}

	ks := openKeystore(g)
	names, err := ks.List()
	if err != nil {
		fatal("list wallets: %v", err)
	}
	if len(names) == 0 {
		fmt.Println("No wallets found.")
		return
	}
	for _, name := range names {
		info, err := ks.Info(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", name, err)
			continue
		}
		fmt.Printf("%-16s %-9s %s  %s\n", info.Name, info.Network, info.Fingerprint, info.Address)
	}
}

func cmdWalletAddress(args []string, g globals) {
	fs := flag.NewFlagSet("wallet address", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Wallet name")
	fs.Parse(args)

	if *walletName == "" {
		fatal("Usage: xmrseed wallet address --wallet <name>")
	}

	var addrs []rpc.SubaddressResult
	if g.rpcURL != "" {
		var result rpc.WalletAddressesResult
		if err := rpcClient(g).Call("wallet_listAddresses", rpc.WalletNameParam{Name: *walletName}, &result); err != nil {
			fatal("wallet_listAddresses: %s", rpcErrorMessage(err))
		}
		addrs = result.Addresses
	} else {
		entries, err := openKeystore(g).Subaddresses(*walletName)
		if err != nil {
			fatal("list addresses: %v", err)
		}
		for _, e := range entries {
			addrs = append(addrs, rpc.SubaddressResult{Address: e.Address, Account: e.Account, Index: e.Index, Label: e.Label})
		}
	}

	if len(addrs) == 0 {
		fmt.Println("No addresses found.")
		return
	}
	for _, a := range addrs {
		line := fmt.Sprintf("  [%d/%d] %s", a.Account, a.Index, a.Address)
		if a.Label != "" {
			line += "  (" + a.Label + ")"
		}
		fmt.Println(line)
	}
}

func cmdWalletNewAddress(args []string, g globals) {
	fs := flag.NewFlagSet("wallet new-address", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Wallet name")
	account := fs.String("account", "0", "Subaddress account")
	label := fs.String("label", "", "Label for the new address")
	fs.Parse(args)

	if *walletName == "" {
		fatal("Usage: xmrseed wallet new-address --wallet <name> [--account N] [--label <label>]")
	}
	acct, err := strconv.ParseUint(*account, 10, 32)
	if err != nil {
		fatal("%v: account %q", wallet.ErrInvalidIndex, *account)
	}

	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	defer clear(password)

	var entry rpc.SubaddressResult
	if g.rpcURL != "" {
		err := rpcClient(g).Call("wallet_newSubaddress", rpc.WalletNewSubaddressParam{
			Name:     *walletName,
			Password: string(password),
			Account:  uint32(acct),
			Label:    *label,
		}, &entry)
		if err != nil {
			fatal("wallet_newSubaddress: %s", rpcErrorMessage(err))
		}
	} else {
		e, err := openKeystore(g).NewSubaddress(*walletName, password, uint32(acct), *label)
		if err != nil {
			fatal("new subaddress: %v", err)
		}
		entry = rpc.SubaddressResult{Address: e.Address, Account: e.Account, Index: e.Index, Label: e.Label}
	}

	fmt.Printf("New address [%d/%d]: %s\n", entry.Account, entry.Index, entry.Address)
}
