// Package market orchestrates storefront checkout: it resolves the seller's
// wallet from the record store and drives the payment through the wallet
// session.
package market

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Saloniii30/Campus-Market/internal/common"
	"github.com/Saloniii30/Campus-Market/internal/model"
	"github.com/Saloniii30/Campus-Market/internal/store"
	"github.com/Saloniii30/Campus-Market/wallet"
)

// ErrSellerWalletMissing means the seller has not connected a wallet yet, so
// there is no payment recipient.
var ErrSellerWalletMissing = errors.New("seller has not connected a wallet yet")

// ErrUnsupportedCurrency means the requested currency is not ALGO or USDC.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// ProfileStore is the slice of the record store the checkout needs.
type ProfileStore interface {
	GetSellerWalletAddress(userID string) (string, error)
	SaveWalletAddress(userID, address string) error
}

// Checkout turns a storefront purchase into an on-chain payment.
type Checkout struct {
	session     *wallet.Session
	payer       *wallet.Payer
	profiles    ProfileStore
	usdcAssetID uint64
	logger      *slog.Logger
}

// NewCheckout wires the checkout over the active session and record store.
func NewCheckout(session *wallet.Session, payer *wallet.Payer, profiles ProfileStore, usdcAssetID uint64, logger *slog.Logger) *Checkout {
	return &Checkout{
		session:     session,
		payer:       payer,
		profiles:    profiles,
		usdcAssetID: usdcAssetID,
		logger:      logger,
	}
}

// Connect establishes the wallet session and records the connected address
// on the user's profile. The profile write is best-effort: a store failure
// must not undo a successful connect.
func (c *Checkout) Connect(ctx context.Context, userID string) (wallet.Account, error) {
	acct, err := c.session.Connect(ctx)
	if err != nil {
		return wallet.Account{}, err
	}

	if userID != "" {
		if err := c.profiles.SaveWalletAddress(userID, acct.Address); err != nil {
			c.logger.Error("failed to save wallet address", "userId", userID, "error", err)
		}
	}
	return acct, nil
}

// Pay resolves the seller's wallet address and submits the payment.
func (c *Checkout) Pay(ctx context.Context, req *model.PayRequest) (*wallet.Receipt, error) {
	acct := c.session.Account()
	if acct.Address == "" {
		return nil, wallet.ErrNotConnected
	}

	sellerAddress, err := c.profiles.GetSellerWalletAddress(req.SellerUserID)
	if err != nil {
		if errors.Is(err, store.ErrWalletNotOnFile) {
			return nil, ErrSellerWalletMissing
		}
		return nil, fmt.Errorf("failed to resolve seller wallet: %w", err)
	}

	asset, err := c.asset(req.Currency)
	if err != nil {
		return nil, err
	}

	intent := wallet.Intent{
		Sender:    acct.Address,
		Recipient: sellerAddress,
		Amount:    req.Amount,
		Asset:     asset,
		Note:      []byte(fmt.Sprintf("CampusMarket: %s (%s)", req.ProductTitle, req.ProductID)),
	}

	return c.payer.Pay(ctx, intent)
}

// Confirm reports the settlement status of a submitted payment.
func (c *Checkout) Confirm(ctx context.Context, txID string) (wallet.ReceiptStatus, error) {
	return c.payer.Confirm(ctx, txID)
}

func (c *Checkout) asset(currency string) (wallet.Asset, error) {
	switch currency {
	case "", "ALGO":
		return wallet.AssetAlgo, nil
	case "USDC":
		return wallet.ASA(c.usdcAssetID, common.USDCDecimals), nil
	default:
		return wallet.Asset{}, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, currency)
	}
}
