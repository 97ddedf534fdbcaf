package dto

import "time"

type ProfileRequest struct {
	DisplayName string `json:"display_name"`
	Birthdate   string `json:"birthdate"`
	Gender      string `json:"gender"`
	City        string `json:"city"`
	Religion    string `json:"religion"`
	Education   string `json:"education"`
	Occupation  string `json:"occupation"`
	Bio         string `json:"bio"`
}

type ProfileResponse struct {
	UserID         int64     `json:"user_id"`
	DisplayName    string    `json:"display_name"`
	Age            int       `json:"age"`
	Gender         string    `json:"gender"`
	City           string    `json:"city"`
	Religion       string    `json:"religion"`
	Education      string    `json:"education"`
	Occupation     string    `json:"occupation"`
	Bio            string    `json:"bio"`
	ApprovalStatus string    `json:"approval_status"`
	RejectReason   string    `json:"reject_reason,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}
