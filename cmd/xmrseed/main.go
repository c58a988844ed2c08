// xmrseed is a command-line tool for mnemonics, addresses and wallets.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/Klingon-tech/xmrseed/config"
	"github.com/Klingon-tech/xmrseed/internal/rpc"
	"github.com/Klingon-tech/xmrseed/internal/rpcclient"
	"github.com/Klingon-tech/xmrseed/internal/wallet"
	"github.com/Klingon-tech/xmrseed/pkg/types"
	"golang.org/x/term"
)

// globals holds flags that appear before the subcommand.
type globals struct {
	rpcURL  string // Empty = operate on the local keystore.
	dataDir string
	network types.Network
}

// keystoreDir returns the keystore path matching xmrseedd's layout:
// <datadir>/<network>/keystore
func (g globals) keystoreDir() string {
	return filepath.Join(g.dataDir, g.network.String(), "keystore")
}

// parseGlobals scans --rpc, --datadir and --network before the subcommand
// and returns the remaining arguments.
func parseGlobals(args []string) (globals, []string, error) {
	g := globals{dataDir: config.DefaultDataDir(), network: types.Mainnet}
	for len(args) > 0 {
		var name, value string
		switch {
		case strings.HasPrefix(args[0], "--") && strings.Contains(args[0], "="):
			name, value, _ = strings.Cut(args[0][2:], "=")
			args = args[1:]
		case (args[0] == "--rpc" || args[0] == "--datadir" || args[0] == "--network") && len(args) > 1:
			name, value = args[0][2:], args[1]
			args = args[2:]
		case args[0] == "--testnet":
			name, value = "network", "testnet"
			args = args[1:]
		case args[0] == "--stagenet":
			name, value = "network", "stagenet"
			args = args[1:]
		default:
			return g, args, nil
		}

		switch name {
		case "rpc":
			g.rpcURL = value
		case "datadir":
			g.dataDir = value
		case "network":
			n, err := types.ParseNetwork(strings.ToLower(value))
			if err != nil {
				return g, nil, err
			}
			g.network = n
		default:
			return g, nil, fmt.Errorf("unknown global flag --%s", name)
		}
	}
	return g, args, nil
}

func main() {
	g, args, err := parseGlobals(os.Args[1:])
	if err != nil {
		fatal("%v", err)
	}
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "mnemonic":
		cmdMnemonic(cmdArgs)
	case "address":
		cmdAddress(cmdArgs, g)
	case "decode":
		cmdDecode(cmdArgs)
	case "integrated":
		cmdIntegrated(cmdArgs)
	case "wallet":
		cmdWallet(cmdArgs, g)
	case "version", "--version", "-v":
		fmt.Println("xmrseed version " + config.Version)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: xmrseed [global flags] <command> [flags]

Global flags:
  --rpc <url>         Use a running xmrseedd for wallet commands
                      (e.g. http://127.0.0.1:18090)
  --datadir <path>    Data directory (default: ~/.xmrseed)
  --network <net>     mainnet (default), testnet or stagenet
  --testnet           Shorthand for --network=testnet
  --stagenet          Shorthand for --network=stagenet

Commands:
  mnemonic new [--language <name>]
                                  Generate a 25-word mnemonic
  mnemonic check [words...]       Validate a mnemonic (stdin if omitted)
  address [--mnemonic "..."] [--account N] [--index N]
                                  Derive an address (mnemonic from stdin if omitted)
  decode <address>                Show the keys and network of an address
  integrated <address> <payment-id>
                                  Build an integrated address (16 hex chars)

  wallet create --name <n> [--language <name>]
                                  Create a new wallet
  wallet import --name <n> [--mnemonic "..."]
                                  Import a wallet from a mnemonic
  wallet list                     List wallets
  wallet address --wallet <w>     List wallet addresses
  wallet new-address --wallet <w> [--account N] [--label <l>]
                                  Derive the next subaddress
`)
}

// ── mnemonic ────────────────────────────────────────────────────────────

func cmdMnemonic(args []string) {
	if len(args) < 1 {
		fatal("Usage: xmrseed mnemonic <new|check> [flags]")
	}

	switch args[0] {
	case "new":
		fs := flag.NewFlagSet("mnemonic new", flag.ExitOnError)
		language := fs.String("language", "English", "Wordlist language")
		fs.Parse(args[1:])

		wl, err := wallet.LookupLanguageName(*language)
		if err != nil {
			fatal("%v", err)
		}
		mnemonic, err := wallet.GenerateMnemonic(wl.ID())
		if err != nil {
			fatal("generate mnemonic: %v", err)
		}
		fmt.Println(mnemonic)

	case "check":
		phrase := strings.Join(args[1:], " ")
		if phrase == "" {
			var err error
			if phrase, err = readMnemonic(os.Stdin); err != nil {
				fatal("read mnemonic: %v", err)
			}
		}
		m, err := wallet.ParseMnemonic(phrase)
		if err != nil {
			fatal("invalid mnemonic: %v", err)
		}
		fmt.Printf("Valid %s mnemonic\n", m.Wordlist().Name())
		if canonical := m.String(); canonical != strings.Join(strings.Fields(strings.ToLower(phrase)), " ") {
			fmt.Printf("Canonical form:\n  %s\n", canonical)
		}

	default:
		fatal("Unknown mnemonic command: %s\nUsage: xmrseed mnemonic <new|check> [flags]", args[0])
	}
}

// ── address ─────────────────────────────────────────────────────────────

func cmdAddress(args []string, g globals) {
	fs := flag.NewFlagSet("address", flag.ExitOnError)
	mnemonic := fs.String("mnemonic", "", "25-word mnemonic (read from stdin if omitted)")
	account := fs.String("account", "0", "Subaddress account")
	index := fs.String("index", "0", "Subaddress index")
	fs.Parse(args)

	idx, err := wallet.ParseSubaddressIndex(*account, *index)
	if err != nil {
		fatal("%v", err)
	}

	phrase := *mnemonic
	if phrase == "" {
		if phrase, err = readMnemonic(os.Stdin); err != nil {
			fatal("read mnemonic: %v", err)
		}
	}

	addr, err := wallet.DeriveAddress(phrase, g.network, idx)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Println(addr.String())
}

func cmdDecode(args []string) {
	if len(args) != 1 {
		fatal("Usage: xmrseed decode <address>")
	}
	addr, err := types.ParseAddress(args[0])
	if err != nil {
		fatal("invalid address: %v", err)
	}
	fmt.Print(describeAddress(addr))
}

// describeAddress formats the fields of a decoded address.
func describeAddress(addr types.Address) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Network:    %s\n", addr.Network)
	fmt.Fprintf(&b, "Kind:       %s\n", addr.Kind)
	fmt.Fprintf(&b, "Spend key:  %s\n", addr.SpendKey)
	fmt.Fprintf(&b, "View key:   %s\n", addr.ViewKey)
	if pid := addr.PaymentIDHex(); pid != "" {
		fmt.Fprintf(&b, "Payment ID: %s\n", pid)
	}
	return b.String()
}

func cmdIntegrated(args []string) {
	if len(args) != 2 {
		fatal("Usage: xmrseed integrated <address> <payment-id>")
	}
	addr, err := types.ParseAddress(args[0])
	if err != nil {
		fatal("invalid address: %v", err)
	}
	if addr.Kind != types.KindStandard {
		fatal("integrated addresses need a standard address, got %s", addr.Kind)
	}
	pid, err := types.ParsePaymentID(args[1])
	if err != nil {
		fatal("%v", err)
	}
	integrated, err := types.NewIntegratedAddress(addr.Network, addr.SpendKey, addr.ViewKey, pid)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Println(integrated.String())
}

// ── Input helpers ───────────────────────────────────────────────────────

// readMnemonic reads a phrase from r. A terminal gets a prompt and one
// line; a pipe is read to EOF.
func readMnemonic(r *os.File) (string, error) {
	if term.IsTerminal(int(r.Fd())) {
		fmt.Fprint(os.Stderr, "Enter mnemonic: ")
		line, err := bufio.NewReader(r).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
	return readAll(r)
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil {
		return "", err
	}
	phrase := strings.TrimSpace(string(data))
	if phrase == "" {
		return "", errors.New("no mnemonic given")
	}
	return phrase, nil
}

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

// readNewPassword prompts twice and requires both entries to match.
func readNewPassword() []byte {
	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	if string(password) != string(confirm) {
		fatal("passwords do not match")
	}
	if len(password) == 0 {
		fatal("password must not be empty")
	}
	return password
}

// rpcClient returns a client for g.rpcURL.
func rpcClient(g globals) *rpcclient.Client {
	return rpcclient.New(g.rpcURL)
}

// rpcErrorMessage strips the JSON-RPC envelope from server errors.
func rpcErrorMessage(err error) string {
	var rpcErr *rpcclient.RPCError
	if errors.As(err, &rpcErr) {
		if rpcErr.Code == rpc.CodeNotFound {
			return "not found: " + rpcErr.Message
		}
		return rpcErr.Message
	}
	return err.Error()
}

// ── Error helper ────────────────────────────────────────────────────────

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
