// Package wallet owns the user's chain account: connection lifecycle,
// persistence across restarts, signing, and payment submission.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/algorand/go-algorand-sdk/v2/types"
)

// State is the session lifecycle state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
)

// Account is the active chain account. Delegated sessions carry no key
// material; self-custody keys stay encrypted on disk and are never held here.
type Account struct {
	Address string
}

// Signer is the signing strategy behind a Session: self-custody (local
// encrypted keypair) or delegated (external wallet bridge).
type Signer interface {
	// Connect establishes a signing-capable account, interactively if needed.
	Connect(ctx context.Context) (Account, error)

	// Restore re-establishes a prior session without user interaction.
	// Returns ErrNoSession if there is nothing to restore.
	Restore(ctx context.Context) (Account, error)

	// Sign returns the signed encoding of each transaction, in order.
	Sign(ctx context.Context, txns []types.Transaction) ([][]byte, error)

	// Disconnect tears down the session and clears persisted material.
	Disconnect(ctx context.Context) error
}

// remoteNotifier is implemented by signers whose session can be torn down
// from the far side (wallet app revokes access).
type remoteNotifier interface {
	OnRemoteDisconnect(fn func())
}

// QRProvider is implemented by signers that persist a QR rendering of the
// active address.
type QRProvider interface {
	WalletQR() (string, error)
}

// Session is the single source of truth for the active account. One Session
// per process, constructed at startup and passed to consumers.
type Session struct {
	mu           sync.Mutex
	state        State
	account      Account
	busy         bool // interactive connect/sign awaiting the user
	onDisconnect func()

	signer Signer
	logger *slog.Logger
}

// NewSession creates a disconnected session over the given signing strategy.
func NewSession(signer Signer, logger *slog.Logger) *Session {
	s := &Session{
		state:  StateDisconnected,
		signer: signer,
		logger: logger,
	}
	if n, ok := signer.(remoteNotifier); ok {
		n.OnRemoteDisconnect(s.remoteDisconnected)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Account returns the active account. Zero value when not connected.
func (s *Session) Account() Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account
}

// OnDisconnect registers fn to be invoked exactly once when the session is
// torn down from the remote side. Re-register after each teardown.
func (s *Session) OnDisconnect(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDisconnect = fn
}

// Connect establishes the account. Idempotent: when already connected it
// returns the existing account without re-prompting. A user abort resolves
// to ErrUserCancelled and the session returns to disconnected.
func (s *Session) Connect(ctx context.Context) (Account, error) {
	s.mu.Lock()
	if s.state == StateConnected {
		acct := s.account
		s.mu.Unlock()
		return acct, nil
	}
	if s.busy {
		s.mu.Unlock()
		return Account{}, ErrSigningInProgress
	}
	s.busy = true
	s.state = StateConnecting
	s.mu.Unlock()

	acct, err := s.signer.Connect(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		s.state = StateDisconnected
		if errors.Is(err, ErrUserCancelled) {
			s.logger.Info("wallet connect cancelled by user")
			return Account{}, ErrUserCancelled
		}
		if !errors.Is(err, ErrConnection) {
			err = fmt.Errorf("%w: %v", ErrConnection, err)
		}
		return Account{}, err
	}

	s.state = StateConnected
	s.account = acct
	s.logger.Info("wallet connected", "address", acct.Address)
	return acct, nil
}

// QR returns a base64 PNG QR code of the active address, for receiving
// funds. Empty when not connected or rendering fails.
func (s *Session) QR() string {
	s.mu.Lock()
	address := s.account.Address
	s.mu.Unlock()
	if address == "" {
		return ""
	}

	if p, ok := s.signer.(QRProvider); ok {
		if qr, err := p.WalletQR(); err == nil && qr != "" {
			return qr
		}
	}
	qr, err := generateQRCode(address)
	if err != nil {
		return ""
	}
	return qr
}

// Restore attempts silent session restoration at startup. Best-effort:
// callers typically log and swallow the error.
func (s *Session) Restore(ctx context.Context) (Account, error) {
	s.mu.Lock()
	if s.state != StateDisconnected || s.busy {
		acct := s.account
		s.mu.Unlock()
		return acct, nil
	}
	s.busy = true
	s.state = StateConnecting
	s.mu.Unlock()

	acct, err := s.signer.Restore(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		s.state = StateDisconnected
		return Account{}, err
	}

	s.state = StateConnected
	s.account = acct
	s.logger.Info("wallet session restored", "address", acct.Address)
	return acct, nil
}

// Sign signs the transactions with the active account. Valid only when
// connected. Rejection by the external wallet maps to ErrSigningRejected;
// a user abort to ErrUserCancelled with no state change.
func (s *Session) Sign(ctx context.Context, txns []types.Transaction) ([][]byte, error) {
	s.mu.Lock()
	if s.state != StateConnected {
		s.mu.Unlock()
		return nil, ErrNotConnected
	}
	if s.busy {
		s.mu.Unlock()
		return nil, ErrSigningInProgress
	}
	s.busy = true
	signer := s.signer
	s.mu.Unlock()

	signed, err := signer.Sign(ctx, txns)

	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
	return signed, err
}

// Disconnect tears down the session and transitions to disconnected
// unconditionally. Idempotent. The signer teardown error is returned but
// the local state is cleared regardless.
func (s *Session) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	wasConnected := s.state == StateConnected
	s.state = StateDisconnected
	s.account = Account{}
	s.mu.Unlock()

	if !wasConnected {
		return nil
	}
	if err := s.signer.Disconnect(ctx); err != nil {
		s.logger.Warn("wallet teardown failed", "error", err)
		return err
	}
	s.logger.Info("wallet disconnected")
	return nil
}

// remoteDisconnected handles teardown initiated from the wallet side.
func (s *Session) remoteDisconnected() {
	s.mu.Lock()
	cb := s.onDisconnect
	s.onDisconnect = nil
	s.state = StateDisconnected
	s.account = Account{}
	s.mu.Unlock()

	s.logger.Info("wallet session closed by remote")
	if cb != nil {
		cb()
	}
}
