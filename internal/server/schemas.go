package server

import "time"

// chatRequest is one message to the assistant. A missing session id
// starts a new session.
type chatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}

type createBillRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount" binding:"required,gt=0"`
	DueDate     time.Time `json:"due_date" binding:"required"`
	Category    string    `json:"category" binding:"required"`
	Frequency   string    `json:"frequency" binding:"omitempty,oneof=one_time weekly monthly quarterly annually"`
	Vendor      string    `json:"vendor"`
	Notes       string    `json:"notes"`
}
