package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var (
	errLineNeedsOneTarget = errors.New("each line must name either a ticket type or a raffle number")
	errGuestNeedsEmail    = errors.New("guest checkout requires a buyer email")
)

type PurchaseLineRequest struct {
	TicketTypeID *uint   `json:"ticket_type_id,omitempty"`
	RaffleNumber *int    `json:"raffle_number,omitempty"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price,omitempty"`
}

func (req PurchaseLineRequest) Validate() error {
	if (req.TicketTypeID == nil) == (req.RaffleNumber == nil) {
		return errLineNeedsOneTarget
	}

	if req.RaffleNumber != nil {
		return validation.Validate(*req.RaffleNumber, validation.Min(1))
	}

	return validation.ValidateStruct(
		&req,
		validation.Field(&req.Quantity, validation.Required, validation.Min(1)),
		validation.Field(&req.UnitPrice, validation.Min(0.0)),
	)
}

type BuyerRequest struct {
	Email      string `json:"email"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	NationalID string `json:"national_id,omitempty"`
	Address    string `json:"address,omitempty"`
}

type PurchaseRequest struct {
	EventID       uint                  `json:"event_id"`
	Lines         []PurchaseLineRequest `json:"lines"`
	Donation      float64               `json:"donation,omitempty"`
	PaymentMethod string                `json:"payment_method"`
	CardHolder    string                `json:"card_holder,omitempty"`
	CardNumber    string                `json:"card_number,omitempty"`
	Buyer         *BuyerRequest         `json:"buyer,omitempty"`
}

func (req *PurchaseRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required),
		validation.Field(&req.Lines, validation.Required, validation.Length(1, 0)),
		validation.Field(&req.Donation, validation.Min(0.0)),
		validation.Field(&req.PaymentMethod, validation.Required, validation.In("card", "paypal", "bizum", "wallet")),
	)
	if err != nil {
		return err
	}

	for _, line := range req.Lines {
		if err := line.Validate(); err != nil {
			return err
		}
	}

	if req.Buyer != nil {
		if req.Buyer.Email == "" {
			return errGuestNeedsEmail
		}
		if err := validation.Validate(req.Buyer.Email, is.Email); err != nil {
			return err
		}
	}

	return nil
}

type ScanTicketRequest struct {
	Code string `json:"code"`
}

func (req *ScanTicketRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Code, validation.Required),
	)
}
