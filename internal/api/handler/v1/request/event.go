package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type TicketTierRequest struct {
	ID       *uint   `json:"id,omitempty"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Color    string  `json:"color,omitempty"`
	Quantity int     `json:"quantity"`
}

func (req TicketTierRequest) Validate() error {
	return validation.ValidateStruct(
		&req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Price, validation.Min(0.0)),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1)),
	)
}

type CreateEventRequest struct {
	Title           string              `json:"title"`
	Date            string              `json:"date"` // RFC 3339
	Time            string              `json:"time,omitempty"`
	Location        string              `json:"location"`
	Type            string              `json:"type"`
	Capacity        int                 `json:"capacity"`
	BasePrice       float64             `json:"base_price"`
	FundraisingGoal float64             `json:"fundraising_goal"`
	Description     string              `json:"description,omitempty"`
	ImageURL        string              `json:"image_url,omitempty"`
	TicketTypes     []TicketTierRequest `json:"ticket_types,omitempty"`
}

func (req *CreateEventRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Date, validation.Required, validation.Date("2006-01-02T15:04:05Z07:00")),
		validation.Field(&req.Location, validation.Required),
		validation.Field(&req.Type, validation.Required, validation.In("concert", "dinner", "raffle", "drawing")),
		validation.Field(&req.Capacity, validation.Min(0)),
		validation.Field(&req.BasePrice, validation.Min(0.0)),
		validation.Field(&req.FundraisingGoal, validation.Min(0.0)),
	)
	if err != nil {
		return err
	}

	for _, tier := range req.TicketTypes {
		if err := tier.Validate(); err != nil {
			return err
		}
	}

	return nil
}

type UpdateEventRequest struct {
	Title           string              `json:"title"`
	Date            string              `json:"date"`
	Time            string              `json:"time,omitempty"`
	Location        string              `json:"location"`
	Type            string              `json:"type"`
	Capacity        int                 `json:"capacity"`
	BasePrice       float64             `json:"base_price"`
	FundraisingGoal float64             `json:"fundraising_goal"`
	Description     string              `json:"description,omitempty"`
	ImageURL        string              `json:"image_url,omitempty"`
	Status          string              `json:"status,omitempty"`
	TicketTypes     []TicketTierRequest `json:"ticket_types,omitempty"`
}

func (req *UpdateEventRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Date, validation.Required, validation.Date("2006-01-02T15:04:05Z07:00")),
		validation.Field(&req.Location, validation.Required),
		validation.Field(&req.Type, validation.Required, validation.In("concert", "dinner", "raffle", "drawing")),
		validation.Field(&req.Capacity, validation.Min(0)),
		validation.Field(&req.BasePrice, validation.Min(0.0)),
		validation.Field(&req.FundraisingGoal, validation.Min(0.0)),
		validation.Field(&req.Status, validation.In("active", "sold_out", "finished", "cancelled")),
	)
	if err != nil {
		return err
	}

	for _, tier := range req.TicketTypes {
		if err := tier.Validate(); err != nil {
			return err
		}
	}

	return nil
}
