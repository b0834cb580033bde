package model

// ConnectResponse represents response for POST /wallet/connect
type ConnectResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Address string `json:"address,omitempty"`
	QR      string `json:"qr,omitempty"` // base64 PNG of the address or pairing URI
}

// StatusResponse represents response for GET /wallet/status
type StatusResponse struct {
	State   string `json:"state"` // disconnected|connecting|connected
	Address string `json:"address,omitempty"`
}
