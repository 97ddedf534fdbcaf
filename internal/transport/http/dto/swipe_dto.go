package dto

import "time"

type SwipeRequest struct {
	TargetID int64 `json:"target_id"`
}

type SwipeResponse struct {
	OK             bool       `json:"ok"`
	IsMutualMatch  bool       `json:"is_mutual_match"`
	AlreadyLiked   bool       `json:"already_liked,omitempty"`
	MatchedAt      *time.Time `json:"matched_at,omitempty"`
	ConnectionID   int64      `json:"connection_id,omitempty"`
	DailyLikeCount int        `json:"daily_like_count"`
	RemainingLikes int        `json:"remaining_likes"`
	ResetAt        time.Time  `json:"reset_at"`
}

type QuotaResponse struct {
	DailyLikeCount int       `json:"daily_like_count"`
	RemainingLikes int       `json:"remaining_likes"`
	ResetAt        time.Time `json:"reset_at"`
}
