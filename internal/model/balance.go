package model

// BalanceResponse represents response for GET /wallet/balance
type BalanceResponse struct {
	Address string `json:"address"`
	Algo    string `json:"algo"`
	USDC    string `json:"usdc"`
	Rate    string `json:"rate"`
	USD     string `json:"algo_amount_in_usd"`
}
