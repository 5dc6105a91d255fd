package domain

import "time"

type EventType string

const (
	EventConcert EventType = "concert"
	EventDinner  EventType = "dinner"
	EventRaffle  EventType = "raffle"
	EventDrawing EventType = "drawing"
)

// IsRaffle reports whether tickets for the event are numbered raffle entries
// instead of priced ticket types.
func (t EventType) IsRaffle() bool {
	return t == EventRaffle || t == EventDrawing
}

type Event struct {
	ID                 uint      `json:"id"`
	Title              string    `json:"title"`
	Date               time.Time `json:"date"`
	Time               string    `json:"time"`
	Location           string    `json:"location"`
	Type               EventType `json:"type"`
	Status             string    `json:"status"`
	Capacity           int       `json:"capacity"`
	RemainingTickets   int       `json:"remaining_tickets"`
	Sold               int       `json:"sold"`
	BasePrice          float64   `json:"base_price"`
	Price              float64   `json:"price"`
	FundraisingGoal    float64   `json:"fundraising_goal"`
	CurrentFundraising float64   `json:"current_fundraising"`
	Description        string    `json:"description"`
	ImageURL           string    `json:"image_url"`

	TicketTypes   []TicketType   `json:"ticket_types,omitempty"`
	RaffleNumbers []RaffleNumber `json:"raffle_numbers,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TicketType struct {
	ID        uint    `json:"id"`
	EventID   uint    `json:"event_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Color     string  `json:"color"`
	Total     int     `json:"total"`
	Remaining int     `json:"remaining"`
}

type RaffleNumber struct {
	EventID   uint `json:"event_id"`
	Number    int  `json:"number"`
	Available bool `json:"available"`
}
