package crypto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Saloniii30/Campus-Market/internal/model"
)

// ErrNoWalletFile is returned when the wallet file does not exist or is empty.
var ErrNoWalletFile = errors.New("wallet file does not exist")

// DecryptWallet reads and decrypts a .cmw file
// password must be []byte for security (caller should zero it after use)
func DecryptWallet(filePath string, password []byte) (*model.WalletFile, *model.WalletData, error) {
	walletFile, err := ReadWalletFile(filePath)
	if err != nil {
		return nil, nil, err
	}

	// Decode salt, nonce and ciphertext
	salt, err := base64.StdEncoding.DecodeString(walletFile.Salt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	nonce, err := base64.StdEncoding.DecodeString(walletFile.Nonce)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode nonce: %w", err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(walletFile.CipherText)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	aesGCM, err := newGCM(password, salt)
	if err != nil {
		return nil, nil, err
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, nil, errors.New("invalid password")
	}
	defer clear(plaintext) // wipe decrypted bytes from memory

	var walletData model.WalletData
	if err := json.Unmarshal(plaintext, &walletData); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal wallet data: %w", err)
	}

	return walletFile, &walletData, nil
}

// ReadWalletAddress reads only the address from a .cmw file (without decryption)
func ReadWalletAddress(filePath string) (string, error) {
	walletFile, err := ReadWalletFile(filePath)
	if err != nil {
		return "", err
	}
	return walletFile.Address, nil
}

// ReadWalletFile reads the wallet file metadata (address, QR, cipher envelope)
// without decrypting key material.
func ReadWalletFile(filePath string) (*model.WalletFile, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoWalletFile
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	if fileInfo.Size() == 0 {
		return nil, ErrNoWalletFile
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Skip UTF-8 BOM if present (wallet files created by older builds)
	if len(fileData) >= 3 && fileData[0] == 0xEF && fileData[1] == 0xBB && fileData[2] == 0xBF {
		fileData = fileData[3:]
	}

	var walletFile model.WalletFile
	if err := json.Unmarshal(fileData, &walletFile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet file: %w", err)
	}
	return &walletFile, nil
}
