package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Saloniii30/Campus-Market/internal/model"
	"github.com/Saloniii30/Campus-Market/market"
	"github.com/Saloniii30/Campus-Market/wallet"
)

// WalletHandler serves wallet session endpoints
type WalletHandler struct {
	session  *wallet.Session
	checkout *market.Checkout
	balance  *market.BalanceService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(session *wallet.Session, checkout *market.Checkout, balance *market.BalanceService) *WalletHandler {
	return &WalletHandler{
		session:  session,
		checkout: checkout,
		balance:  balance,
	}
}

type connectRequest struct {
	UserID string `json:"userId"`
}

// Connect handles POST /wallet/connect
// @Summary      Connect wallet
// @Description  Establishes the signing-capable account (generates or restores in self-custody mode, pairs with the wallet app in delegated mode) and records the address on the user's profile
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      connectRequest  false  "Current user"
// @Success      200      {object}  model.ConnectResponse
// @Router       /wallet/connect [post]
func (h *WalletHandler) Connect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req connectRequest
	if r.Body != nil {
		// Body is optional; a missing user id just skips the profile write
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	acct, err := h.checkout.Connect(r.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, wallet.ErrUserCancelled) {
			// Benign: the user backed out, report as a non-failure
			writeJSON(w, http.StatusOK, model.ConnectResponse{
				Success: false,
				Message: "Connection cancelled",
			})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ConnectResponse{
		Success: true,
		Message: "Wallet connected successfully",
		Address: acct.Address,
		QR:      h.session.QR(),
	})
}

// Disconnect handles POST /wallet/disconnect
// @Summary      Disconnect wallet
// @Description  Tears down the session and clears persisted key material
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.ConnectResponse
// @Router       /wallet/disconnect [post]
func (h *WalletHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	if err := h.session.Disconnect(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ConnectResponse{
		Success: true,
		Message: "Wallet disconnected",
	})
}

// Status handles GET /wallet/status
// @Summary      Session status
// @Description  Reports the wallet session state and active address
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.StatusResponse
// @Router       /wallet/status [get]
func (h *WalletHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, model.StatusResponse{
		State:   string(h.session.State()),
		Address: h.session.Account().Address,
	})
}

// GetBalance handles GET /wallet/balance
// @Summary      Get wallet balance (USD = ALGO * rate)
// @Description  Gets ALGO and USDC balance of the connected account with the ALGO/USD rate
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.BalanceResponse
// @Router       /wallet/balance [get]
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	balance, err := h.balance.GetBalance(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, balance)
}
