package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Saloniii30/Campus-Market/internal/model"
	"github.com/Saloniii30/Campus-Market/market"
	"github.com/Saloniii30/Campus-Market/wallet"
)

// MarketHandler serves checkout endpoints
type MarketHandler struct {
	checkout *market.Checkout
}

// NewMarketHandler creates a new MarketHandler
func NewMarketHandler(checkout *market.Checkout) *MarketHandler {
	return &MarketHandler{checkout: checkout}
}

// Pay handles POST /market/pay
// @Summary      Pay for a product
// @Description  Sends an ALGO or USDC payment to the seller's connected wallet
// @Tags         market
// @Accept       json
// @Produce      json
// @Param        request  body      model.PayRequest  true  "Payment data"
// @Success      200      {object}  model.PayResponse
// @Router       /market/pay [post]
func (h *MarketHandler) Pay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.PayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	receipt, err := h.checkout.Pay(r.Context(), &req)
	if err != nil {
		if errors.Is(err, wallet.ErrUserCancelled) {
			// The user backed out in the wallet app: no receipt, no failure
			writeJSON(w, http.StatusOK, model.PayResponse{Status: "cancelled"})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.PayResponse{
		TxID:   receipt.TxID,
		Status: string(receipt.Status),
	})
}

// Confirm handles GET /market/confirm
// @Summary      Confirm a payment
// @Description  Reports the settlement status of a submitted transaction
// @Tags         market
// @Produce      json
// @Param        txId  query     string  true  "Transaction ID"
// @Success      200   {object}  model.ConfirmResponse
// @Router       /market/confirm [get]
func (h *MarketHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	txID := r.URL.Query().Get("txId")
	status, err := h.checkout.Confirm(r.Context(), txID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ConfirmResponse{
		TxID:   txID,
		Status: string(status),
	})
}
