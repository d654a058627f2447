package dto

type CreateOrderRequest struct {
	LeadResponseID string `json:"leadResponseId"`
}

type LeadDetails struct {
	Keyword  string `json:"keyword"`
	Location string `json:"location,omitempty"`
}

// LeadOrder is the payment order the backend creates for accepting a lead.
// Amount is in the currency's minor unit.
type LeadOrder struct {
	Success       bool        `json:"success,omitempty"`
	Message       string      `json:"message,omitempty"`
	OrderID       string      `json:"orderId"`
	Amount        int64       `json:"amount"`
	Currency      string      `json:"currency"`
	RazorpayKeyID string      `json:"razorpayKeyId"`
	LeadDetails   LeadDetails `json:"leadDetails"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	LeadResponseID    string `json:"leadResponseId"`
}

type VerifyPaymentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LeadEvent is the payload of lead_accepted / lead_rejected socket emits.
type LeadEvent struct {
	LeadResponseID string `json:"leadResponseId"`
}
