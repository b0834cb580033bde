package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Saloniii30/Campus-Market/internal/model"
	"github.com/Saloniii30/Campus-Market/market"
	"github.com/Saloniii30/Campus-Market/wallet"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps the wallet/market error taxonomy to HTTP statuses so the
// UI can render the right messaging.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := ""

	switch {
	case errors.Is(err, wallet.ErrInvalidIntent),
		errors.Is(err, market.ErrUnsupportedCurrency):
		status = http.StatusBadRequest
		code = "INVALID_INTENT"
	case errors.Is(err, wallet.ErrNotConnected):
		status = http.StatusConflict
		code = "NOT_CONNECTED"
	case errors.Is(err, wallet.ErrSigningInProgress):
		status = http.StatusConflict
		code = "SIGNING_IN_PROGRESS"
	case errors.Is(err, market.ErrSellerWalletMissing):
		status = http.StatusConflict
		code = "SELLER_WALLET_MISSING"
	case errors.Is(err, wallet.ErrSigningRejected):
		status = http.StatusUnprocessableEntity
		code = "SIGNING_REJECTED"
	case errors.Is(err, wallet.ErrSubmissionRejected):
		status = http.StatusUnprocessableEntity
		code = "SUBMISSION_REJECTED"
	case errors.Is(err, wallet.ErrNetworkUnavailable),
		errors.Is(err, wallet.ErrConnection):
		status = http.StatusServiceUnavailable
		code = "NETWORK_UNAVAILABLE"
	}

	writeJSON(w, status, model.ErrorResponse{Error: err.Error(), Code: code})
}
