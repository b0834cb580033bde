package model

// PayRequest represents request for POST /market/pay
type PayRequest struct {
	ProductID    string `json:"productId" binding:"required"`
	ProductTitle string `json:"productTitle" binding:"required"`
	SellerUserID string `json:"sellerUserId" binding:"required"`
	Amount       string `json:"amount" binding:"required"` // display units, e.g. "3.5"
	Currency     string `json:"currency"`                  // "ALGO" (default) or "USDC"
}

// PayResponse represents response for POST /market/pay
type PayResponse struct {
	TxID   string `json:"txId"`
	Status string `json:"status"` // submitted|cancelled
}

// ConfirmResponse represents response for GET /market/confirm
type ConfirmResponse struct {
	TxID   string `json:"txId"`
	Status string `json:"status"` // submitted|confirmed|failed
}
