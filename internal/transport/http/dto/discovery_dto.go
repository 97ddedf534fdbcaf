package dto

type FeedItemResponse struct {
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
	Age         int    `json:"age"`
	City        string `json:"city"`
	Religion    string `json:"religion"`
	Education   string `json:"education"`
	Occupation  string `json:"occupation"`
	Bio         string `json:"bio"`
	Score       int    `json:"score"`
}

type FeedResponse struct {
	Items []FeedItemResponse `json:"items"`
}
