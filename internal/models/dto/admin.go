package dto

type CategoryRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=60"`
	Slug     string `json:"slug,omitempty" validate:"omitempty,slug"`
	Icon     string `json:"icon,omitempty" validate:"omitempty,url"`
	IsActive *bool  `json:"isActive,omitempty"`
}

type RejectReviewRequest struct {
	Reason string `json:"reason,omitempty"`
}

type SolveTicketRequest struct {
	Resolution string `json:"resolution" validate:"required,min=3"`
}

type NotificationRequest struct {
	Title    string `json:"title" validate:"required,max=120"`
	Message  string `json:"message" validate:"required,max=1000"`
	Audience string `json:"audience" validate:"required,oneof=all vendors users"`
}
