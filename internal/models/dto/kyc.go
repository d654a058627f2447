package dto

type KYCRequest struct {
	BusinessName string `json:"businessName" validate:"required,min=2,max=120"`
	AadharNumber string `json:"aadharNumber" validate:"required,len=12,numeric"`
	GSTNumber    string `json:"gstNumber" validate:"required,gstin"`
	Address      string `json:"address" validate:"required,min=5"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	Pincode      string `json:"pincode" validate:"required,len=6,numeric"`
	VideoURL     string `json:"videoUrl,omitempty" validate:"omitempty,url"`
}

type KYCReviewRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}
