package models

import (
	"time"

	"github.com/google/uuid"
)

// VendorProfile is the public listing of a business as served by the backend.
type VendorProfile struct {
	ID           string    `json:"_id"`
	UserID       string    `json:"userId"`
	BusinessName string    `json:"businessName"`
	OwnerName    string    `json:"ownerName,omitempty"`
	Category     string    `json:"category,omitempty"`
	Description  string    `json:"description,omitempty"`
	Address      string    `json:"address,omitempty"`
	City         string    `json:"city,omitempty"`
	State        string    `json:"state,omitempty"`
	Pincode      string    `json:"pincode,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	Website      string    `json:"website,omitempty"`
	Photos       []string  `json:"photos,omitempty"`
	Rating       float64   `json:"rating"`
	ReviewCount  int       `json:"reviewCount"`
	IsVerified   bool      `json:"isVerified"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

// BusinessDetails are the vendor fields kept in the managed database rather than the backend.
type BusinessDetails struct {
	VendorID            string    `json:"vendorId"`
	NumberOfEmployees   string    `json:"numberOfEmployees"`
	YearlyTurnover      string    `json:"yearlyTurnover"`
	YearOfEstablishment int       `json:"yearOfEstablishment"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// ServiceCategory is a row of the service_categories table.
type ServiceCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

const (
	KYCPending  = "pending"
	KYCApproved = "approved"
	KYCRejected = "rejected"
)

// VendorKYC is the managed-database record of a vendor's verification documents.
type VendorKYC struct {
	ID           uuid.UUID `json:"id"`
	VendorID     string    `json:"vendorId"`
	AadharNumber string    `json:"aadharNumber"`
	GSTNumber    string    `json:"gstNumber"`
	Pincode      string    `json:"pincode"`
	VideoURL     string    `json:"videoUrl,omitempty"`
	Status       string    `json:"status"`
	SubmittedAt  time.Time `json:"submittedAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
