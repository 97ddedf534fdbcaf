package dto

import "time"

type SendMessageRequest struct {
	Body string `json:"body"`
}

type MessageResponse struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	SenderUserID   int64     `json:"sender_user_id"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

type MessagesResponse struct {
	Items []MessageResponse `json:"items"`
}

type ConversationResponse struct {
	ID           int64     `json:"id"`
	ConnectionID int64     `json:"connection_id"`
	CreatedAt    time.Time `json:"created_at"`
}
