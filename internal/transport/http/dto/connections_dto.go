package dto

import "time"

type ConnectionResponse struct {
	ID           int64     `json:"id"`
	TargetUserID int64     `json:"target_user_id"`
	DisplayName  string    `json:"display_name"`
	Age          int       `json:"age"`
	City         string    `json:"city"`
	MatchedAt    time.Time `json:"matched_at"`
}

type ConnectionsResponse struct {
	Items []ConnectionResponse `json:"items"`
}

type UnmatchRequest struct {
	TargetUserID int64 `json:"target_user_id"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}
