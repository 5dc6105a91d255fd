package domain

import "time"

type Donation struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	EventID    *uint     `json:"event_id,omitempty"`
	EventTitle string    `json:"event_title,omitempty"`
	Amount     float64   `json:"amount"`
	Message    string    `json:"message,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
