package models

import "time"

// Category is a browsable directory category owned by the backend.
type Category struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Icon      string    `json:"icon,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Review is a consumer review awaiting or past moderation.
type Review struct {
	ID        string    `json:"_id"`
	VendorID  string    `json:"vendorId"`
	UserName  string    `json:"userName,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Ticket is a support ticket raised by a user or vendor.
type Ticket struct {
	ID         string    `json:"_id"`
	Subject    string    `json:"subject"`
	Message    string    `json:"message"`
	Status     string    `json:"status"`
	RaisedBy   string    `json:"raisedBy,omitempty"`
	Resolution string    `json:"resolution,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
}

// Notification is an operator broadcast.
type Notification struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Audience  string    `json:"audience"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// KYCSubmission is the backend's view of a vendor verification request.
type KYCSubmission struct {
	ID           string    `json:"_id"`
	VendorID     string    `json:"vendorId,omitempty"`
	BusinessName string    `json:"businessName"`
	AadharNumber string    `json:"aadharNumber"`
	GSTNumber    string    `json:"gstNumber"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Pincode      string    `json:"pincode"`
	VideoURL     string    `json:"videoUrl,omitempty"`
	Status       string    `json:"status"`
	Reason       string    `json:"reason,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

// AdminStats are the platform counters shown on the operator dashboard.
type AdminStats struct {
	TotalUsers     int `json:"totalUsers"`
	TotalVendors   int `json:"totalVendors"`
	VerifiedVendor int `json:"verifiedVendors"`
	PendingKYC     int `json:"pendingKyc"`
	TotalLeads     int `json:"totalLeads"`
	OpenTickets    int `json:"openTickets"`
}
