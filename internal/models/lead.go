package models

import "time"

// Lead is a consumer service request matched to vendors by the backend.
type Lead struct {
	ID           string    `json:"_id"`
	Keyword      string    `json:"keyword"`
	Category     string    `json:"category,omitempty"`
	Description  string    `json:"description,omitempty"`
	Location     string    `json:"location,omitempty"`
	CustomerName string    `json:"customerName,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

const (
	LeadResponsePending  = "pending"
	LeadResponseAccepted = "accepted"
	LeadResponseRejected = "rejected"
)

// LeadResponse is the per-vendor offer record for a lead.
type LeadResponse struct {
	ID     string `json:"_id"`
	Status string `json:"status"`
}

// LeadOffer pairs a lead with the vendor's response record, as pushed in a new_lead event.
type LeadOffer struct {
	Lead         Lead         `json:"lead"`
	LeadResponse LeadResponse `json:"leadResponse"`
}
