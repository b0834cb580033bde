package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Saloniii30/Campus-Market/wallet"

	"github.com/google/uuid"
)

const (
	// How often to ask the relay whether an interactive request was resolved.
	approvalPollInterval = 2 * time.Second
	// How often to verify the session is still honored by the wallet side.
	sessionWatchInterval = 30 * time.Second
)

// WalletBridge talks to a wallet-connect style relay over HTTP. The relay
// pairs this process with the user's wallet app: connect requests surface in
// the app via a pairing URI, signing requests await in-app approval. The
// bridge implements wallet.Bridge.
//
// The session identifier is persisted to a small file so a still-valid
// session survives process restarts (silent reconnect).
type WalletBridge struct {
	baseURL     string
	sessionFile string
	client      *http.Client

	mu           sync.Mutex
	sessionID    string
	onDisconnect func()
	watchCancel  context.CancelFunc
}

// NewWalletBridge creates a bridge client for the given relay URL.
// sessionFile is where the current session id is persisted.
func NewWalletBridge(baseURL, sessionFile string) *WalletBridge {
	return &WalletBridge{
		baseURL:     strings.TrimRight(baseURL, "/"),
		sessionFile: sessionFile,
		// No overall client timeout: interactive requests legitimately await
		// human action; cancellation comes from the caller's context.
		client: &http.Client{},
	}
}

type sessionResponse struct {
	Status   string   `json:"status"` // pending|approved|cancelled|closed
	URI      string   `json:"uri,omitempty"`
	Accounts []string `json:"accounts,omitempty"`
}

type signResponse struct {
	Status string   `json:"status"` // pending|approved|rejected|cancelled
	Stxns  [][]byte `json:"stxns,omitempty"`
}

// Connect creates a relay session and polls until the user approves it in
// their wallet app.
func (b *WalletBridge) Connect(ctx context.Context) ([]string, error) {
	id := uuid.NewString()

	var sess sessionResponse
	body := map[string]string{"id": id}
	if err := b.do(ctx, http.MethodPost, "/v1/sessions", body, &sess); err != nil {
		return nil, fmt.Errorf("%w: %v", wallet.ErrConnection, err)
	}

	b.mu.Lock()
	b.sessionID = id
	b.mu.Unlock()

	accounts, err := b.awaitApproval(ctx, id)
	if err != nil {
		b.clearSession()
		return nil, err
	}

	if err := os.WriteFile(b.sessionFile, []byte(id), 0600); err != nil {
		return nil, fmt.Errorf("%w: failed to persist session: %v", wallet.ErrConnection, err)
	}
	b.startWatch()
	return accounts, nil
}

// Reconnect silently resumes the persisted session, if the wallet still
// honors it.
func (b *WalletBridge) Reconnect(ctx context.Context) ([]string, error) {
	raw, err := os.ReadFile(b.sessionFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, wallet.ErrNoSession
		}
		return nil, fmt.Errorf("%w: %v", wallet.ErrConnection, err)
	}
	id := strings.TrimSpace(string(raw))
	if id == "" {
		return nil, wallet.ErrNoSession
	}

	var sess sessionResponse
	if err := b.do(ctx, http.MethodGet, "/v1/sessions/"+id, nil, &sess); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, wallet.ErrNoSession
		}
		return nil, fmt.Errorf("%w: %v", wallet.ErrConnection, err)
	}
	if sess.Status != "approved" || len(sess.Accounts) == 0 {
		return nil, wallet.ErrNoSession
	}

	b.mu.Lock()
	b.sessionID = id
	b.mu.Unlock()
	b.startWatch()
	return sess.Accounts, nil
}

// SignTransactionGroup forwards the unsigned transactions and polls until
// the user approves, rejects, or cancels in the wallet app.
func (b *WalletBridge) SignTransactionGroup(ctx context.Context, unsigned [][]byte) ([][]byte, error) {
	b.mu.Lock()
	sessionID := b.sessionID
	b.mu.Unlock()
	if sessionID == "" {
		return nil, wallet.ErrNotConnected
	}

	requestID := uuid.NewString()
	body := map[string]any{"id": requestID, "txns": unsigned}
	if err := b.do(ctx, http.MethodPost, "/v1/sessions/"+sessionID+"/requests", body, nil); err != nil {
		return nil, err
	}

	path := "/v1/sessions/" + sessionID + "/requests/" + requestID
	ticker := time.NewTicker(approvalPollInterval)
	defer ticker.Stop()

	for {
		var resp signResponse
		if err := b.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
			return nil, err
		}

		switch resp.Status {
		case "approved":
			return resp.Stxns, nil
		case "rejected":
			return nil, wallet.ErrSigningRejected
		case "cancelled":
			return nil, wallet.ErrUserCancelled
		}

		select {
		case <-ctx.Done():
			return nil, wallet.ErrUserCancelled
		case <-ticker.C:
		}
	}
}

// Disconnect closes the relay session and forgets the persisted id.
func (b *WalletBridge) Disconnect(ctx context.Context) error {
	b.mu.Lock()
	id := b.sessionID
	b.mu.Unlock()
	if id == "" {
		return nil
	}

	err := b.do(ctx, http.MethodDelete, "/v1/sessions/"+id, nil, nil)
	b.clearSession()
	if err != nil && !errors.Is(err, errNotFound) {
		return fmt.Errorf("failed to close bridge session: %w", err)
	}
	return nil
}

// OnDisconnect registers the remote-teardown callback.
func (b *WalletBridge) OnDisconnect(fn func()) {
	b.mu.Lock()
	b.onDisconnect = fn
	b.mu.Unlock()
}

// awaitApproval polls the session until the user resolves it.
func (b *WalletBridge) awaitApproval(ctx context.Context, id string) ([]string, error) {
	ticker := time.NewTicker(approvalPollInterval)
	defer ticker.Stop()

	for {
		var sess sessionResponse
		if err := b.do(ctx, http.MethodGet, "/v1/sessions/"+id, nil, &sess); err != nil {
			return nil, fmt.Errorf("%w: %v", wallet.ErrConnection, err)
		}

		switch sess.Status {
		case "approved":
			if len(sess.Accounts) == 0 {
				return nil, fmt.Errorf("%w: session approved without accounts", wallet.ErrConnection)
			}
			return sess.Accounts, nil
		case "cancelled", "closed":
			return nil, wallet.ErrUserCancelled
		}

		select {
		case <-ctx.Done():
			return nil, wallet.ErrUserCancelled
		case <-ticker.C:
		}
	}
}

// startWatch polls session liveness in the background and fires the
// disconnect callback when the wallet side closes it.
func (b *WalletBridge) startWatch() {
	b.mu.Lock()
	if b.watchCancel != nil {
		b.watchCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.watchCancel = cancel
	id := b.sessionID
	b.mu.Unlock()

	go func() {
		ticker := time.NewTicker(sessionWatchInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			var sess sessionResponse
			err := b.do(ctx, http.MethodGet, "/v1/sessions/"+id, nil, &sess)
			if errors.Is(err, errNotFound) || (err == nil && sess.Status == "closed") {
				b.mu.Lock()
				cb := b.onDisconnect
				b.mu.Unlock()
				b.clearSession()
				if cb != nil {
					cb()
				}
				return
			}
		}
	}()
}

func (b *WalletBridge) clearSession() {
	b.mu.Lock()
	b.sessionID = ""
	if b.watchCancel != nil {
		b.watchCancel()
		b.watchCancel = nil
	}
	b.mu.Unlock()
	os.Remove(b.sessionFile)
}

var errNotFound = errors.New("not found")

// do performs one JSON request against the relay.
func (b *WalletBridge) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("bridge request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("bridge returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode bridge response: %w", err)
		}
	}
	return nil
}
