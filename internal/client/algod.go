package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/Saloniii30/Campus-Market/internal/config"
	"github.com/Saloniii30/Campus-Market/wallet"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/algod"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

// Parameter fetch and submission use a bounded timeout; unreachability maps
// to wallet.ErrNetworkUnavailable so callers can decide on retry.
const defaultRequestTimeout = 15 * time.Second

// AlgodClient is a client for the Algorand node REST API. It implements
// wallet.Network.
type AlgodClient struct {
	algod   *algod.Client
	timeout time.Duration
}

// NewAlgodClient creates a new algod client from configuration.
func NewAlgodClient() (*AlgodClient, error) {
	c, err := algod.MakeClient(config.GetAlgodURL(), config.GetAlgodToken())
	if err != nil {
		return nil, fmt.Errorf("failed to create algod client: %w", err)
	}
	return &AlgodClient{algod: c, timeout: defaultRequestTimeout}, nil
}

// SuggestedParams fetches the current fee schedule and validity window.
func (c *AlgodClient) SuggestedParams(ctx context.Context) (types.SuggestedParams, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params, err := c.algod.SuggestedParams().Do(ctx)
	if err != nil {
		if isUnreachable(err) {
			return types.SuggestedParams{}, fmt.Errorf("%w: %v", wallet.ErrNetworkUnavailable, err)
		}
		return types.SuggestedParams{}, fmt.Errorf("failed to get suggested params: %w", err)
	}
	return params, nil
}

// SubmitRaw broadcasts signed transaction bytes.
func (c *AlgodClient) SubmitRaw(ctx context.Context, stx []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	txID, err := c.algod.SendRawTransaction(stx).Do(ctx)
	if err != nil {
		if isUnreachable(err) {
			return "", fmt.Errorf("%w: %v", wallet.ErrNetworkUnavailable, err)
		}
		// The node accepted the connection but refused the transaction
		return "", fmt.Errorf("%w: %v", wallet.ErrSubmissionRejected, err)
	}
	return txID, nil
}

// PendingInfo reports the confirmation state of a transaction.
func (c *AlgodClient) PendingInfo(ctx context.Context, txID string) (uint64, string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	info, _, err := c.algod.PendingTransactionInformation(txID).Do(ctx)
	if err != nil {
		if isUnreachable(err) {
			return 0, "", fmt.Errorf("%w: %v", wallet.ErrNetworkUnavailable, err)
		}
		return 0, "", fmt.Errorf("failed to get pending transaction info: %w", err)
	}
	return info.ConfirmedRound, info.PoolError, nil
}

// AccountBalance gets the ALGO (microalgos) and USDC (base units) balance of
// the given address.
func (c *AlgodClient) AccountBalance(ctx context.Context, address string) (algoMicro uint64, usdcBase uint64, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	info, err := c.algod.AccountInformation(address).Do(ctx)
	if err != nil {
		if isUnreachable(err) {
			return 0, 0, fmt.Errorf("%w: %v", wallet.ErrNetworkUnavailable, err)
		}
		return 0, 0, fmt.Errorf("failed to get account information: %w", err)
	}

	usdcAssetID := config.GetUSDCAssetID()
	for _, holding := range info.Assets {
		if holding.AssetId == usdcAssetID {
			usdcBase = holding.Amount
			break
		}
	}
	return info.Amount, usdcBase, nil
}

// isUnreachable reports whether the error indicates the node could not be
// reached at all, as opposed to a node-side refusal.
func isUnreachable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
