package dto

// Business is the backend's business record; only the owner reference matters to the proxy.
type Business struct {
	ID           string `json:"_id"`
	UserID       RefID  `json:"userId"`
	BusinessName string `json:"businessName,omitempty"`
}

// BusinessProxyResponse is what GET /api/business/{id} returns.
type BusinessProxyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}
