package market

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Saloniii30/Campus-Market/internal/common"
	"github.com/Saloniii30/Campus-Market/internal/model"
	"github.com/Saloniii30/Campus-Market/wallet"
)

// BalanceNode reads account holdings from the chain node.
type BalanceNode interface {
	AccountBalance(ctx context.Context, address string) (algoMicro uint64, usdcBase uint64, err error)
}

// RateSource quotes the ALGO/USD exchange rate.
type RateSource interface {
	GetAlgoToUSDRate() (string, error)
}

// BalanceService reports the connected account's holdings with a fiat quote
// for display on the storefront.
type BalanceService struct {
	session *wallet.Session
	node    BalanceNode
	rates   RateSource
}

// NewBalanceService creates a balance service over the active session.
func NewBalanceService(session *wallet.Session, node BalanceNode, rates RateSource) *BalanceService {
	return &BalanceService{session: session, node: node, rates: rates}
}

// GetBalance gets the wallet balance
func (s *BalanceService) GetBalance(ctx context.Context) (*model.BalanceResponse, error) {
	acct := s.session.Account()
	if acct.Address == "" {
		return nil, wallet.ErrNotConnected
	}

	algoMicro, usdcBase, err := s.node.AccountBalance(ctx, acct.Address)
	if err != nil {
		return nil, err
	}

	// Convert to display strings (no float precision loss)
	algo := common.MicroToAlgo(algoMicro)
	usdc := common.FormatBaseUnits(usdcBase, common.USDCDecimals)

	rate, err := s.rates.GetAlgoToUSDRate()
	if err != nil {
		return nil, fmt.Errorf("failed to get rate: %w", err)
	}

	// Calculate USD (float is fine for display, not for critical operations)
	algoFloat, _ := strconv.ParseFloat(algo, 64)
	rateFloat, _ := strconv.ParseFloat(rate, 64)
	usd := fmt.Sprintf("%.2f", algoFloat*rateFloat)

	return &model.BalanceResponse{
		Address: acct.Address,
		Algo:    algo,
		USDC:    usdc,
		Rate:    rate,
		USD:     usd,
	}, nil
}
