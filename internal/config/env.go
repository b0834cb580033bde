package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Wallet modes selectable via WALLET_MODE.
const (
	ModeSelfCustody = "selfcustody"
	ModeDelegated   = "delegated"
)

// Config contains all configuration parameters for the application.
// Note: the wallet password is prompted at runtime and stored in memory -
// use GetWalletPasswordBytes()
type Config struct {
	Port           string `envconfig:"PORT" default:"8080"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat      string `envconfig:"LOG_FORMAT" default:"text"` // text|json
	WalletMode     string `envconfig:"WALLET_MODE" default:"selfcustody"`
	WalletFilePath string `envconfig:"WALLET_FILE_PATH"`
	BridgeURL      string `envconfig:"WALLET_BRIDGE_URL"`
	BridgeSession  string `envconfig:"WALLET_BRIDGE_SESSION_FILE" default:".bridge-session"`
	AlgodURL       string `envconfig:"ALGOD_URL" default:"https://testnet-api.4160.nodely.dev"`
	AlgodToken     string `envconfig:"ALGOD_TOKEN" default:""`
	USDCAssetID    uint64 `envconfig:"USDC_ASSET_ID" default:"10458941"`
	StoreURL       string `envconfig:"STORE_URL"`
	StoreAPIKey    string `envconfig:"STORE_API_KEY"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	cfg = &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	switch cfg.WalletMode {
	case ModeSelfCustody:
		if cfg.WalletFilePath == "" {
			return errors.New("WALLET_FILE_PATH is required in selfcustody mode")
		}
	case ModeDelegated:
		if cfg.BridgeURL == "" {
			return errors.New("WALLET_BRIDGE_URL is required in delegated mode")
		}
	default:
		return fmt.Errorf("unknown WALLET_MODE %q", cfg.WalletMode)
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetWalletMode returns the configured signing strategy
func GetWalletMode() string {
	return Get().WalletMode
}

// GetWalletFilePath returns path to the .cmw wallet file from configuration
func GetWalletFilePath() string {
	return Get().WalletFilePath
}

// GetBridgeURL returns the external wallet bridge URL from configuration
func GetBridgeURL() string {
	return Get().BridgeURL
}

// GetBridgeSessionFile returns the path where the bridge session id is persisted
func GetBridgeSessionFile() string {
	return Get().BridgeSession
}

// GetAlgodURL returns the algod node URL from configuration
func GetAlgodURL() string {
	return Get().AlgodURL
}

// GetAlgodToken returns the algod API token from configuration
func GetAlgodToken() string {
	return Get().AlgodToken
}

// GetUSDCAssetID returns the USDC ASA index from configuration
func GetUSDCAssetID() uint64 {
	return Get().USDCAssetID
}

// GetStoreURL returns the record store base URL from configuration
func GetStoreURL() string {
	return Get().StoreURL
}

// GetStoreAPIKey returns the record store API key from configuration
func GetStoreAPIKey() string {
	return Get().StoreAPIKey
}

var passwordBytes []byte

// PromptForPassword prompts the user for the wallet password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
// Call this at startup before the server begins handling requests.
// Only needed in selfcustody mode.
func PromptForPassword() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, "Enter wallet password: ")
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return errors.New("password cannot be empty")
	}

	passwordBytes = make([]byte, len(raw))
	copy(passwordBytes, raw)
	clear(raw)
	return nil
}

// GetWalletPasswordBytes returns the password stored in memory (from PromptForPassword).
// Returns an error if the password was not set.
// Caller must zero the returned slice after use for security.
func GetWalletPasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}
