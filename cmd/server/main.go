package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Saloniii30/Campus-Market/internal/api"
	"github.com/Saloniii30/Campus-Market/internal/client"
	"github.com/Saloniii30/Campus-Market/internal/config"
	"github.com/Saloniii30/Campus-Market/internal/handler"
	"github.com/Saloniii30/Campus-Market/internal/logging"
	"github.com/Saloniii30/Campus-Market/internal/store"
	"github.com/Saloniii30/Campus-Market/market"
	"github.com/Saloniii30/Campus-Market/wallet"

	"github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(config.Get().LogLevel, config.Get().LogFormat)

	signer, err := buildSigner()
	if err != nil {
		logger.Error("failed to build wallet signer", "error", err)
		os.Exit(1)
	}

	session := wallet.NewSession(signer, logger)
	session.OnDisconnect(func() {
		logger.Warn("wallet session revoked by the wallet app")
	})

	// Silent session restoration: best-effort, never interactive
	restoreCtx, cancelRestore := context.WithTimeout(context.Background(), 15*time.Second)
	if _, err := session.Restore(restoreCtx); err != nil && !errors.Is(err, wallet.ErrNoSession) {
		logger.Debug("session restore skipped", "error", err)
	}
	cancelRestore()

	algodClient, err := client.NewAlgodClient()
	if err != nil {
		logger.Error("failed to create algod client", "error", err)
		os.Exit(1)
	}

	profiles := store.New()
	payer := wallet.NewPayer(session, algodClient, logger)
	checkout := market.NewCheckout(session, payer, profiles, config.GetUSDCAssetID(), logger)
	balance := market.NewBalanceService(session, algodClient, client.NewCoinGeckoClient())

	router := api.SetupRouter(
		handler.NewWalletHandler(session, checkout, balance),
		handler.NewMarketHandler(checkout),
	)

	srv := &http.Server{
		Addr:              ":" + config.GetPort(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", config.GetPort(), "mode", config.GetWalletMode())
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// buildSigner selects the signing strategy from configuration.
func buildSigner() (wallet.Signer, error) {
	switch config.GetWalletMode() {
	case config.ModeSelfCustody:
		// The wallet file password is prompted once at startup
		if err := config.PromptForPassword(); err != nil {
			return nil, err
		}
		return wallet.NewSelfCustodySigner(config.GetWalletFilePath(), config.GetWalletPasswordBytes), nil
	case config.ModeDelegated:
		bridge := client.NewWalletBridge(config.GetBridgeURL(), config.GetBridgeSessionFile())
		return wallet.NewDelegatedSigner(bridge), nil
	default:
		return nil, fmt.Errorf("unknown wallet mode %q", config.GetWalletMode())
	}
}
