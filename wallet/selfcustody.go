package wallet

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	walletfile "github.com/Saloniii30/Campus-Market/internal/crypto"
	"github.com/Saloniii30/Campus-Market/internal/model"

	algocrypto "github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/skip2/go-qrcode"
)

const networkAlgorand = "algorand"

// SelfCustodySigner generates and holds the keypair locally. The private key
// lives encrypted in a single well-known wallet file and is decrypted only
// for the duration of a signing call.
type SelfCustodySigner struct {
	filePath string
	password func() ([]byte, error) // returns a fresh copy; signer zeroes it
}

// NewSelfCustodySigner creates a self-custody strategy over the wallet file
// at filePath. password supplies the file encryption password on demand.
func NewSelfCustodySigner(filePath string, password func() ([]byte, error)) *SelfCustodySigner {
	return &SelfCustodySigner{filePath: filePath, password: password}
}

// Connect restores the persisted wallet if one exists, otherwise generates a
// fresh keypair and persists it encrypted. Never interactive beyond the
// startup password prompt, so there is no cancellation path here.
func (s *SelfCustodySigner) Connect(ctx context.Context) (Account, error) {
	if acct, err := s.Restore(ctx); err == nil {
		return acct, nil
	} else if !errors.Is(err, ErrNoSession) {
		return Account{}, err
	}

	// Generate new Algorand keypair
	kp := algocrypto.GenerateAccount()
	defer clear(kp.PrivateKey)

	address := kp.Address.String()

	qrCode, err := generateQRCode(address)
	if err != nil {
		return Account{}, fmt.Errorf("failed to generate QR code: %w", err)
	}

	walletData := &model.WalletData{
		PrivateKey: kp.PrivateKey,
		CreatedAt:  time.Now().Format(time.RFC3339),
	}

	passwordBytes, err := s.password()
	if err != nil {
		return Account{}, err
	}
	defer clear(passwordBytes)

	if err := walletfile.EncryptWallet(s.filePath, networkAlgorand, address, qrCode, walletData, passwordBytes); err != nil {
		return Account{}, fmt.Errorf("failed to encrypt wallet: %w", err)
	}

	return Account{Address: address}, nil
}

// Restore reads the address from the persisted wallet file without
// decrypting key material.
func (s *SelfCustodySigner) Restore(ctx context.Context) (Account, error) {
	address, err := walletfile.ReadWalletAddress(s.filePath)
	if err != nil {
		if errors.Is(err, walletfile.ErrNoWalletFile) {
			return Account{}, ErrNoSession
		}
		return Account{}, fmt.Errorf("failed to read wallet address: %w", err)
	}
	return Account{Address: address}, nil
}

// Sign decrypts the private key, signs each transaction in-process, and
// wipes the key material before returning.
func (s *SelfCustodySigner) Sign(ctx context.Context, txns []types.Transaction) ([][]byte, error) {
	passwordBytes, err := s.password()
	if err != nil {
		return nil, err
	}
	defer clear(passwordBytes)

	walletFile, walletData, err := walletfile.DecryptWallet(s.filePath, passwordBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt wallet: %w", err)
	}
	defer clear(walletData.PrivateKey)

	if len(walletData.PrivateKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key length")
	}

	sk := ed25519.PrivateKey(walletData.PrivateKey)

	// Verify the key still derives the persisted address
	kp, err := algocrypto.AccountFromPrivateKey(sk)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	if kp.Address.String() != walletFile.Address {
		return nil, fmt.Errorf("private key does not match wallet address")
	}

	signed := make([][]byte, 0, len(txns))
	for _, txn := range txns {
		_, stx, err := algocrypto.SignTransaction(sk, txn)
		if err != nil {
			return nil, fmt.Errorf("failed to sign transaction: %w", err)
		}
		signed = append(signed, stx)
	}
	return signed, nil
}

// Disconnect deletes the persisted key material.
func (s *SelfCustodySigner) Disconnect(ctx context.Context) error {
	return walletfile.RemoveWallet(s.filePath)
}

// WalletQR returns the stored QR code (base64 PNG) for the persisted address.
func (s *SelfCustodySigner) WalletQR() (string, error) {
	walletFile, err := walletfile.ReadWalletFile(s.filePath)
	if err != nil {
		return "", err
	}
	return walletFile.QR, nil
}

// generateQRCode generates a QR code of the address in base64
func generateQRCode(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	return base64.StdEncoding.EncodeToString(png), nil
}
