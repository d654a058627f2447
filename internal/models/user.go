package models

import "time"

// User captures application-facing fields for an authenticated identity.
type User struct {
	ID        string    `json:"_id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	IsBlocked bool      `json:"isBlocked,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
