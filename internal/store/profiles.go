// Package store is a thin client for the hosted record store. Only the
// profile wallet_address field is touched here; product, review, and bargain
// records belong to the storefront backend.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Saloniii30/Campus-Market/internal/config"
)

// ErrWalletNotOnFile means the profile exists but has no connected wallet.
var ErrWalletNotOnFile = errors.New("no wallet address on profile")

// Client is a PostgREST-style record store client.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// New creates a record store client from configuration.
func New() *Client {
	return &Client{
		baseURL: config.GetStoreURL(),
		apiKey:  config.GetStoreAPIKey(),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// GetSellerWalletAddress reads the wallet_address field of a seller profile.
func (c *Client) GetSellerWalletAddress(userID string) (string, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/profiles?id=eq.%s&select=wallet_address",
		c.baseURL, url.QueryEscape(userID))

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to get profile: status %d", resp.StatusCode)
	}

	var rows []struct {
		WalletAddress string `json:"wallet_address"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return "", fmt.Errorf("failed to decode profile: %w", err)
	}

	if len(rows) == 0 || rows[0].WalletAddress == "" {
		return "", ErrWalletNotOnFile
	}
	return rows[0].WalletAddress, nil
}

// SaveWalletAddress writes the connected account address to a user profile.
func (c *Client) SaveWalletAddress(userID, address string) error {
	endpoint := fmt.Sprintf("%s/rest/v1/profiles?id=eq.%s",
		c.baseURL, url.QueryEscape(userID))

	body, err := json.Marshal(map[string]string{"wallet_address": address})
	if err != nil {
		return fmt.Errorf("failed to marshal profile update: %w", err)
	}

	req, err := http.NewRequest(http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to update profile: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}
