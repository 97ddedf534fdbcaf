package dto

import "time"

type PhotoResponse struct {
	ID         int64     `json:"id"`
	Position   int       `json:"position"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type PhotosResponse struct {
	Items []PhotoResponse `json:"items"`
}
