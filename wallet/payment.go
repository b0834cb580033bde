package wallet

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Saloniii30/Campus-Market/internal/common"

	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

// Asset identifies what is being transferred: the native coin (ID 0) or an
// Algorand Standard Asset with its own decimal precision.
type Asset struct {
	ID       uint64 // 0 = native ALGO
	Decimals int
}

// AssetAlgo is the native asset, denominated in microalgos.
var AssetAlgo = Asset{ID: 0, Decimals: common.AlgoDecimals}

// ASA builds a fungible-token asset reference.
func ASA(id uint64, decimals int) Asset {
	return Asset{ID: id, Decimals: decimals}
}

// Intent is an immutable payment request. Amount is a decimal string in
// display units of the asset (e.g. "3.5" ALGO); conversion to base units
// rounds half up.
type Intent struct {
	Sender    string
	Recipient string
	Amount    string
	Asset     Asset
	Note      []byte
}

// ReceiptStatus is the settlement state of a submitted transaction.
type ReceiptStatus string

const (
	StatusSubmitted ReceiptStatus = "submitted"
	StatusConfirmed ReceiptStatus = "confirmed"
	StatusFailed    ReceiptStatus = "failed"
)

// Receipt is the network-assigned identity of a submitted transaction.
type Receipt struct {
	TxID   string        `json:"txId"`
	Status ReceiptStatus `json:"status"`
}

// Network is the chain node collaborator. Implementations enforce a bounded
// timeout and map unreachability to ErrNetworkUnavailable.
type Network interface {
	// SuggestedParams fetches a fresh fee/validity-window snapshot. Never
	// cache the result beyond a single transaction build.
	SuggestedParams(ctx context.Context) (types.SuggestedParams, error)

	// SubmitRaw broadcasts signed transaction bytes and returns the
	// transaction ID. Node refusal maps to ErrSubmissionRejected.
	SubmitRaw(ctx context.Context, stx []byte) (string, error)

	// PendingInfo reports the confirmation state of a transaction:
	// the round it was confirmed in (0 while pending) and the pool error,
	// if the node dropped it.
	PendingInfo(ctx context.Context, txID string) (confirmedRound uint64, poolError string, err error)
}

// Payer turns a payment intent into a submitted, identifiable transaction.
// It performs no automatic retries: resubmitting against stale parameters is
// a correctness hazard, so the caller decides whether to rebuild and retry.
type Payer struct {
	session *Session
	network Network
	logger  *slog.Logger
}

// NewPayer creates a Payer over the given session and network node.
func NewPayer(session *Session, network Network, logger *slog.Logger) *Payer {
	return &Payer{session: session, network: network, logger: logger}
}

// Pay validates the intent, fetches fresh network parameters, builds the
// appropriately-typed transaction, signs through the session, submits, and
// returns a Receipt in submitted state. Any failure before submission leaves
// nothing on the network. A user abort during signing returns
// ErrUserCancelled; callers treat it as "never happened".
func (p *Payer) Pay(ctx context.Context, intent Intent) (*Receipt, error) {
	baseUnits, err := p.validate(intent)
	if err != nil {
		return nil, err
	}

	params, err := p.network.SuggestedParams(ctx)
	if err != nil {
		return nil, err
	}

	var txn types.Transaction
	if intent.Asset.ID == 0 {
		txn, err = transaction.MakePaymentTxn(intent.Sender, intent.Recipient, baseUnits, intent.Note, "", params)
	} else {
		txn, err = transaction.MakeAssetTransferTxn(intent.Sender, intent.Recipient, baseUnits, intent.Note, params, "", intent.Asset.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}

	signed, err := p.session.Sign(ctx, []types.Transaction{txn})
	if err != nil {
		// No submission after a signing failure, whatever the reason
		return nil, err
	}

	txID, err := p.network.SubmitRaw(ctx, signed[0])
	if err != nil {
		return nil, err
	}

	p.logger.Info("payment submitted",
		"txId", txID,
		"recipient", intent.Recipient,
		"amount", intent.Amount,
		"asset", intent.Asset.ID,
	)
	return &Receipt{TxID: txID, Status: StatusSubmitted}, nil
}

// Confirm reports the settlement status of a previously submitted
// transaction. One network round per call; polling cadence is the caller's.
func (p *Payer) Confirm(ctx context.Context, txID string) (ReceiptStatus, error) {
	if txID == "" {
		return "", fmt.Errorf("%w: empty transaction id", ErrInvalidIntent)
	}

	round, poolErr, err := p.network.PendingInfo(ctx, txID)
	if err != nil {
		return "", err
	}
	if poolErr != "" {
		return StatusFailed, nil
	}
	if round > 0 {
		return StatusConfirmed, nil
	}
	return StatusSubmitted, nil
}

// validate checks the intent against the active account and returns the
// amount in base units.
func (p *Payer) validate(intent Intent) (uint64, error) {
	acct := p.session.Account()
	if acct.Address == "" {
		return 0, ErrNotConnected
	}
	if intent.Sender != acct.Address {
		return 0, fmt.Errorf("%w: sender does not match the connected account", ErrInvalidIntent)
	}
	if _, err := types.DecodeAddress(intent.Recipient); err != nil {
		return 0, fmt.Errorf("%w: invalid recipient address", ErrInvalidIntent)
	}

	baseUnits, err := common.ToBaseUnits(intent.Amount, intent.Asset.Decimals)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid amount %q", ErrInvalidIntent, intent.Amount)
	}
	if baseUnits == 0 {
		return 0, fmt.Errorf("%w: amount must be positive", ErrInvalidIntent)
	}
	return baseUnits, nil
}
