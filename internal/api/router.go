package api

import (
	"net/http"

	"github.com/Saloniii30/Campus-Market/internal/handler"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers
func SetupRouter(walletHandler *handler.WalletHandler, marketHandler *handler.MarketHandler) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Wallet session endpoints
	mux.HandleFunc("/wallet/connect", walletHandler.Connect)
	mux.HandleFunc("/wallet/disconnect", walletHandler.Disconnect)
	mux.HandleFunc("/wallet/status", walletHandler.Status)
	mux.HandleFunc("/wallet/balance", walletHandler.GetBalance)

	// Checkout endpoints
	mux.HandleFunc("/market/pay", marketHandler.Pay)
	mux.HandleFunc("/market/confirm", marketHandler.Confirm)

	return mux
}
