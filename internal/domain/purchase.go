package domain

import "time"

type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "card"
	PaymentPaypal PaymentMethod = "paypal"
	PaymentBizum  PaymentMethod = "bizum"
	PaymentWallet PaymentMethod = "wallet"
)

type Purchase struct {
	ID            uint          `json:"id"`
	UserID        *uint         `json:"user_id,omitempty"`
	EventID       uint          `json:"event_id"`
	EventTitle    string        `json:"event_title,omitempty"`
	TicketCount   int           `json:"ticket_count"`
	UnitPrice     float64       `json:"unit_price"`
	Total         float64       `json:"total"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Donation      float64       `json:"donation,omitempty"`
	Tickets       []Ticket      `json:"tickets,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

type Ticket struct {
	ID             uint    `json:"id"`
	PurchaseID     uint    `json:"purchase_id"`
	EventID        uint    `json:"event_id"`
	EventTitle     string  `json:"event_title,omitempty"`
	UserID         *uint   `json:"user_id,omitempty"`
	TicketTypeID   *uint   `json:"ticket_type_id,omitempty"`
	TicketTypeName string  `json:"ticket_type_name,omitempty"`
	RaffleNumber   *int    `json:"raffle_number,omitempty"`
	Price          float64 `json:"price"`
	Code           string  `json:"code"`
	Used           bool    `json:"used"`
}

type Payment struct {
	ID        uint          `json:"id"`
	UserID    *uint         `json:"user_id,omitempty"`
	Method    PaymentMethod `json:"method"`
	Holder    string        `json:"holder,omitempty"`
	CardLast4 string        `json:"card_last4,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}
