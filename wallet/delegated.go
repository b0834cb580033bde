package wallet

import (
	"context"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/encoding/msgpack"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

// Bridge is the external wallet session: the user-controlled app that holds
// the key and performs signing on request. Connect and SignTransactionGroup
// are interactive and may await human action indefinitely; the bridge maps a
// user abort to ErrUserCancelled and an explicit refusal to
// ErrSigningRejected.
type Bridge interface {
	// Connect opens a new session, interactively. Returns the approved
	// account addresses.
	Connect(ctx context.Context) ([]string, error)

	// Reconnect silently restores a prior session. Returns ErrNoSession if
	// no valid session exists.
	Reconnect(ctx context.Context) ([]string, error)

	// SignTransactionGroup forwards the unsigned transactions for approval
	// and returns the signed blobs in the same order.
	SignTransactionGroup(ctx context.Context, unsigned [][]byte) ([][]byte, error)

	// Disconnect closes the session on the remote side.
	Disconnect(ctx context.Context) error

	// OnDisconnect registers a callback fired when the remote side closes
	// the session.
	OnDisconnect(fn func())
}

// DelegatedSigner delegates all key operations to an external wallet via a
// Bridge. No private key material ever enters the process.
type DelegatedSigner struct {
	bridge Bridge
}

// NewDelegatedSigner creates a delegated strategy over the given bridge.
func NewDelegatedSigner(bridge Bridge) *DelegatedSigner {
	return &DelegatedSigner{bridge: bridge}
}

// Connect opens an interactive session with the external wallet.
func (d *DelegatedSigner) Connect(ctx context.Context) (Account, error) {
	accounts, err := d.bridge.Connect(ctx)
	if err != nil {
		return Account{}, err
	}
	if len(accounts) == 0 {
		return Account{}, fmt.Errorf("%w: wallet approved no accounts", ErrConnection)
	}
	return Account{Address: accounts[0]}, nil
}

// Restore silently resumes a prior session, if the wallet still honors it.
func (d *DelegatedSigner) Restore(ctx context.Context) (Account, error) {
	accounts, err := d.bridge.Reconnect(ctx)
	if err != nil {
		return Account{}, err
	}
	if len(accounts) == 0 {
		return Account{}, ErrNoSession
	}
	return Account{Address: accounts[0]}, nil
}

// Sign forwards the canonical transaction encodings to the wallet and awaits
// operator approval.
func (d *DelegatedSigner) Sign(ctx context.Context, txns []types.Transaction) ([][]byte, error) {
	unsigned := make([][]byte, 0, len(txns))
	for i := range txns {
		unsigned = append(unsigned, msgpack.Encode(&txns[i]))
	}

	signed, err := d.bridge.SignTransactionGroup(ctx, unsigned)
	if err != nil {
		return nil, err
	}
	if len(signed) != len(txns) {
		return nil, fmt.Errorf("wallet returned %d signed transactions, want %d", len(signed), len(txns))
	}
	return signed, nil
}

// Disconnect closes the remote session.
func (d *DelegatedSigner) Disconnect(ctx context.Context) error {
	return d.bridge.Disconnect(ctx)
}

// OnRemoteDisconnect wires remote teardown notifications through to the
// session.
func (d *DelegatedSigner) OnRemoteDisconnect(fn func()) {
	d.bridge.OnDisconnect(fn)
}
