// Rekeys an encrypted wallet file: decrypts with the old password and
// re-encrypts with a new one (fresh salt and nonce).
// Usage: go run ./cmd/rekeywallet -in wallet.cmw -out wallet-new.cmw
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Saloniii30/Campus-Market/internal/crypto"

	"golang.org/x/term"
)

func main() {
	in := flag.String("in", "", "path to the existing wallet file")
	out := flag.String("out", "", "path for the re-encrypted wallet file")
	flag.Parse()

	if *in == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "both -in and -out are required")
		os.Exit(1)
	}

	oldPassword, err := readPassword("Enter current wallet password: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer clear(oldPassword)

	walletFile, walletData, err := crypto.DecryptWallet(*in, oldPassword)
	if err != nil {
		fmt.Fprintln(os.Stderr, "decrypt failed:", err)
		os.Exit(1)
	}
	defer clear(walletData.PrivateKey)

	newPassword, err := readPassword("Enter new wallet password: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer clear(newPassword)

	if err := crypto.EncryptWallet(*out, walletFile.Network, walletFile.Address, walletFile.QR, walletData, newPassword); err != nil {
		fmt.Fprintln(os.Stderr, "encrypt failed:", err)
		os.Exit(1)
	}

	fmt.Println("wallet re-encrypted:", *out)
}

func readPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, fmt.Errorf("stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("password cannot be empty")
	}
	return raw, nil
}
