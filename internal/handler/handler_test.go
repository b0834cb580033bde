package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Saloniii30/Campus-Market/market"
	"github.com/Saloniii30/Campus-Market/wallet"

	algocrypto "github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSigner struct {
	account    wallet.Account
	connectErr error
	signErr    error
}

func (f *fakeSigner) Connect(ctx context.Context) (wallet.Account, error) {
	if f.connectErr != nil {
		return wallet.Account{}, f.connectErr
	}
	return f.account, nil
}

func (f *fakeSigner) Restore(ctx context.Context) (wallet.Account, error) {
	return f.account, nil
}

func (f *fakeSigner) Sign(ctx context.Context, txns []types.Transaction) ([][]byte, error) {
	if f.signErr != nil {
		return nil, f.signErr
	}
	return [][]byte{{0x01}}, nil
}

func (f *fakeSigner) Disconnect(ctx context.Context) error { return nil }

type fakeNetwork struct{}

func (f *fakeNetwork) SuggestedParams(ctx context.Context) (types.SuggestedParams, error) {
	return types.SuggestedParams{
		Fee:             1000,
		GenesisID:       "testnet-v1.0",
		GenesisHash:     make([]byte, 32),
		FirstRoundValid: 1000,
		LastRoundValid:  2000,
		FlatFee:         true,
		MinFee:          1000,
	}, nil
}

func (f *fakeNetwork) SubmitRaw(ctx context.Context, stx []byte) (string, error) {
	return "TX123", nil
}

func (f *fakeNetwork) PendingInfo(ctx context.Context, txID string) (uint64, string, error) {
	return 500, "", nil
}

type fakeProfiles struct {
	sellerAddress string
	sellerErr     error
}

func (f *fakeProfiles) GetSellerWalletAddress(userID string) (string, error) {
	if f.sellerErr != nil {
		return "", f.sellerErr
	}
	return f.sellerAddress, nil
}

func (f *fakeProfiles) SaveWalletAddress(userID, address string) error { return nil }

type fakeNode struct{}

func (f *fakeNode) AccountBalance(ctx context.Context, address string) (uint64, uint64, error) {
	return 3500000, 1250000, nil
}

type fakeRates struct{}

func (f *fakeRates) GetAlgoToUSDRate() (string, error) { return "0.25", nil }

type fixture struct {
	session *wallet.Session
	wallets *WalletHandler
	markets *MarketHandler
}

func newFixture(t *testing.T, signer *fakeSigner, profiles *fakeProfiles) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	session := wallet.NewSession(signer, logger)
	payer := wallet.NewPayer(session, &fakeNetwork{}, logger)
	checkout := market.NewCheckout(session, payer, profiles, 10458941, logger)
	balance := market.NewBalanceService(session, &fakeNode{}, &fakeRates{})

	return &fixture{
		session: session,
		wallets: NewWalletHandler(session, checkout, balance),
		markets: NewMarketHandler(checkout),
	}
}

func testAddress(t *testing.T) string {
	t.Helper()
	return algocrypto.GenerateAccount().Address.String()
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestConnectEndpoint(t *testing.T) {
	buyer := testAddress(t)
	f := newFixture(t, &fakeSigner{account: wallet.Account{Address: buyer}}, &fakeProfiles{})

	req := httptest.NewRequest(http.MethodPost, "/wallet/connect", strings.NewReader(`{"userId":"user-1"}`))
	rec := httptest.NewRecorder()
	f.wallets.Connect(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, buyer, body["address"])
	assert.NotEmpty(t, body["qr"])
}

func TestConnectEndpointCancelled(t *testing.T) {
	f := newFixture(t, &fakeSigner{connectErr: wallet.ErrUserCancelled}, &fakeProfiles{})

	req := httptest.NewRequest(http.MethodPost, "/wallet/connect", nil)
	rec := httptest.NewRecorder()
	f.wallets.Connect(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "a user abort is not an HTTP failure")
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
}

func TestConnectEndpointRejectsGet(t *testing.T) {
	f := newFixture(t, &fakeSigner{}, &fakeProfiles{})

	rec := httptest.NewRecorder()
	f.wallets.Connect(rec, httptest.NewRequest(http.MethodGet, "/wallet/connect", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStatusEndpoint(t *testing.T) {
	buyer := testAddress(t)
	f := newFixture(t, &fakeSigner{account: wallet.Account{Address: buyer}}, &fakeProfiles{})

	rec := httptest.NewRecorder()
	f.wallets.Status(rec, httptest.NewRequest(http.MethodGet, "/wallet/status", nil))
	body := decodeBody(t, rec)
	assert.Equal(t, "disconnected", body["state"])

	_, err := f.session.Connect(context.Background())
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	f.wallets.Status(rec, httptest.NewRequest(http.MethodGet, "/wallet/status", nil))
	body = decodeBody(t, rec)
	assert.Equal(t, "connected", body["state"])
	assert.Equal(t, buyer, body["address"])
}

func TestDisconnectEndpoint(t *testing.T) {
	f := newFixture(t, &fakeSigner{account: wallet.Account{Address: testAddress(t)}}, &fakeProfiles{})

	_, err := f.session.Connect(context.Background())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	f.wallets.Disconnect(rec, httptest.NewRequest(http.MethodPost, "/wallet/disconnect", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, wallet.StateDisconnected, f.session.State())
}

func TestBalanceEndpoint(t *testing.T) {
	f := newFixture(t, &fakeSigner{account: wallet.Account{Address: testAddress(t)}}, &fakeProfiles{})

	_, err := f.session.Connect(context.Background())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	f.wallets.GetBalance(rec, httptest.NewRequest(http.MethodGet, "/wallet/balance", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "3.500000", body["algo"])
	assert.Equal(t, "1.250000", body["usdc"])
	assert.Equal(t, "0.88", body["algo_amount_in_usd"])
}

func TestBalanceEndpointNotConnected(t *testing.T) {
	f := newFixture(t, &fakeSigner{}, &fakeProfiles{})

	rec := httptest.NewRecorder()
	f.wallets.GetBalance(rec, httptest.NewRequest(http.MethodGet, "/wallet/balance", nil))
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "NOT_CONNECTED", decodeBody(t, rec)["code"])
}

func payBody(amount, currency string) io.Reader {
	return strings.NewReader(`{
		"productId": "p-1",
		"productTitle": "Bike",
		"sellerUserId": "seller-1",
		"amount": "` + amount + `",
		"currency": "` + currency + `"
	}`)
}

func TestPayEndpoint(t *testing.T) {
	f := newFixture(t,
		&fakeSigner{account: wallet.Account{Address: testAddress(t)}},
		&fakeProfiles{sellerAddress: testAddress(t)},
	)

	_, err := f.session.Connect(context.Background())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	f.markets.Pay(rec, httptest.NewRequest(http.MethodPost, "/market/pay", payBody("3.5", "ALGO")))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "TX123", body["txId"])
	assert.Equal(t, "submitted", body["status"])
}

func TestPayEndpointCancelled(t *testing.T) {
	f := newFixture(t,
		&fakeSigner{account: wallet.Account{Address: testAddress(t)}, signErr: wallet.ErrUserCancelled},
		&fakeProfiles{sellerAddress: testAddress(t)},
	)

	_, err := f.session.Connect(context.Background())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	f.markets.Pay(rec, httptest.NewRequest(http.MethodPost, "/market/pay", payBody("3.5", "ALGO")))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cancelled", decodeBody(t, rec)["status"])
}

func TestPayEndpointInvalidAmount(t *testing.T) {
	f := newFixture(t,
		&fakeSigner{account: wallet.Account{Address: testAddress(t)}},
		&fakeProfiles{sellerAddress: testAddress(t)},
	)

	_, err := f.session.Connect(context.Background())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	f.markets.Pay(rec, httptest.NewRequest(http.MethodPost, "/market/pay", payBody("0", "ALGO")))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INTENT", decodeBody(t, rec)["code"])
}

func TestPayEndpointNotConnected(t *testing.T) {
	f := newFixture(t, &fakeSigner{}, &fakeProfiles{sellerAddress: testAddress(t)})

	rec := httptest.NewRecorder()
	f.markets.Pay(rec, httptest.NewRequest(http.MethodPost, "/market/pay", payBody("1", "ALGO")))
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "NOT_CONNECTED", decodeBody(t, rec)["code"])
}

func TestConfirmEndpoint(t *testing.T) {
	f := newFixture(t,
		&fakeSigner{account: wallet.Account{Address: testAddress(t)}},
		&fakeProfiles{},
	)

	rec := httptest.NewRecorder()
	f.markets.Confirm(rec, httptest.NewRequest(http.MethodGet, "/market/confirm?txId=TX123", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "TX123", body["txId"])
	assert.Equal(t, "confirmed", body["status"])
}

func TestConfirmEndpointMissingTxID(t *testing.T) {
	f := newFixture(t, &fakeSigner{}, &fakeProfiles{})

	rec := httptest.NewRecorder()
	f.markets.Confirm(rec, httptest.NewRequest(http.MethodGet, "/market/confirm", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INTENT", decodeBody(t, rec)["code"])
}
