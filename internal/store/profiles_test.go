package store

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(srv *httptest.Server) *Client {
	return &Client{
		baseURL: srv.URL,
		apiKey:  "test-key",
		client:  &http.Client{Timeout: time.Second},
	}
}

func TestGetSellerWalletAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/profiles", r.URL.Path)
		assert.Equal(t, "eq.seller-1", r.URL.Query().Get("id"))
		assert.Equal(t, "test-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"wallet_address":"SELLERADDR"}]`)
	}))
	defer srv.Close()

	address, err := testClient(srv).GetSellerWalletAddress("seller-1")
	require.NoError(t, err)
	assert.Equal(t, "SELLERADDR", address)
}

func TestGetSellerWalletAddressNotOnFile(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no profile row", `[]`},
		{"empty address", `[{"wallet_address":""}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := testClient(srv).GetSellerWalletAddress("seller-1")
			assert.ErrorIs(t, err, ErrWalletNotOnFile)
		})
	}
}

func TestGetSellerWalletAddressServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv).GetSellerWalletAddress("seller-1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrWalletNotOnFile)
}

func TestSaveWalletAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.user-1", r.URL.Query().Get("id"))
		assert.Equal(t, "return=minimal", r.Header.Get("Prefer"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "NEWADDR", body["wallet_address"])

		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	assert.NoError(t, testClient(srv).SaveWalletAddress("user-1", "NEWADDR"))
}
