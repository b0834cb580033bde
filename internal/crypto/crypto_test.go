package crypto

import (
	"path/filepath"
	"testing"

	"github.com/Saloniii30/Campus-Market/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWalletPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "wallet"+WalletFileExt)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	path := testWalletPath(t)
	password := []byte("correct horse battery staple")

	key := make([]byte, 64)
	for i := range key {
		key[i] = byte(i)
	}
	data := &model.WalletData{PrivateKey: key, CreatedAt: "2026-01-01T00:00:00Z"}

	err := EncryptWallet(path, "algorand", "SOMEADDRESS", "qr-base64", data, password)
	require.NoError(t, err)

	walletFile, decrypted, err := DecryptWallet(path, password)
	require.NoError(t, err)
	assert.Equal(t, "algorand", walletFile.Network)
	assert.Equal(t, "SOMEADDRESS", walletFile.Address)
	assert.Equal(t, key, decrypted.PrivateKey)
	assert.Equal(t, data.CreatedAt, decrypted.CreatedAt)
}

func TestDecryptWrongPassword(t *testing.T) {
	path := testWalletPath(t)

	data := &model.WalletData{PrivateKey: make([]byte, 64)}
	require.NoError(t, EncryptWallet(path, "algorand", "ADDR", "", data, []byte("right")))

	_, _, err := DecryptWallet(path, []byte("wrong"))
	assert.EqualError(t, err, "invalid password")
}

func TestReadWalletAddressWithoutDecryption(t *testing.T) {
	path := testWalletPath(t)

	data := &model.WalletData{PrivateKey: make([]byte, 64)}
	require.NoError(t, EncryptWallet(path, "algorand", "ADDR123", "", data, []byte("pw")))

	address, err := ReadWalletAddress(path)
	require.NoError(t, err)
	assert.Equal(t, "ADDR123", address)
}

func TestDecryptMissingFile(t *testing.T) {
	_, _, err := DecryptWallet(testWalletPath(t), []byte("pw"))
	assert.ErrorIs(t, err, ErrNoWalletFile)
}

func TestEncryptRefusesOverwrite(t *testing.T) {
	path := testWalletPath(t)
	data := &model.WalletData{PrivateKey: make([]byte, 64)}

	require.NoError(t, EncryptWallet(path, "algorand", "ADDR", "", data, []byte("pw")))
	err := EncryptWallet(path, "algorand", "OTHER", "", data, []byte("pw"))
	assert.Error(t, err)
}

func TestEncryptRejectsWrongExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.txt")
	data := &model.WalletData{PrivateKey: make([]byte, 64)}

	err := EncryptWallet(path, "algorand", "ADDR", "", data, []byte("pw"))
	assert.Error(t, err)
}

func TestRemoveWallet(t *testing.T) {
	path := testWalletPath(t)
	data := &model.WalletData{PrivateKey: make([]byte, 64)}
	require.NoError(t, EncryptWallet(path, "algorand", "ADDR", "", data, []byte("pw")))

	require.NoError(t, RemoveWallet(path))
	_, err := ReadWalletAddress(path)
	assert.ErrorIs(t, err, ErrNoWalletFile)

	// Removing again is not an error
	assert.NoError(t, RemoveWallet(path))
}
