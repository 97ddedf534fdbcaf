package dto

import "time"

type RejectProfileRequest struct {
	Reason string `json:"reason"`
}

type InviteRequest struct {
	Email string `json:"email"`
}

type InvitationResponse struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type InvitationsResponse struct {
	Items []InvitationResponse `json:"items"`
}

type PreapproveEmailRequest struct {
	Email string `json:"email"`
}
