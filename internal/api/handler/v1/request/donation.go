package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type DonateRequest struct {
	EventID *uint   `json:"event_id,omitempty"`
	Amount  float64 `json:"amount"`
	Message string  `json:"message,omitempty"`
}

func (req *DonateRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Amount, validation.Required, validation.Min(0.01)),
		validation.Field(&req.Message, validation.Length(0, 500)),
	)
}

type TopUpWalletRequest struct {
	Amount float64 `json:"amount"`
}

func (req *TopUpWalletRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Amount, validation.Required, validation.Min(0.01)),
	)
}

type MembershipRequest struct {
	Active bool `json:"active"`
}
