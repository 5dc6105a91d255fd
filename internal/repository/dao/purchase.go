package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotEnoughTickets     = errors.New("not enough tickets available")
	ErrInsufficientWallet   = errors.New("insufficient wallet balance")
	ErrTicketNotFound       = errors.New("ticket not found")
	ErrTicketAlreadyUsed    = errors.New("ticket already used")
	ErrPurchaseWithoutLines = errors.New("purchase contains no tickets")
)

// RaffleNumberTakenError names the first requested number that was no longer
// available; the whole purchase is rejected.
type RaffleNumberTakenError struct {
	Number int
}

func (e *RaffleNumberTakenError) Error() string {
	return fmt.Sprintf("raffle number %d is no longer available", e.Number)
}

// TicketTypeSoldOutError names the tier that could not cover the requested
// quantity.
type TicketTypeSoldOutError struct {
	Name string
}

func (e *TicketTypeSoldOutError) Error() string {
	return fmt.Sprintf("not enough %q tickets available", e.Name)
}

type Purchase struct {
	ID uint `gorm:"primaryKey"`

	UserID  *uint `gorm:"index"`
	EventID uint  `gorm:"not null;index"`

	TicketCount   int     `gorm:"not null"`
	UnitPrice     float64 `gorm:"not null"`
	Total         float64 `gorm:"not null"`
	PaymentMethod string  `gorm:"not null"`

	Tickets []Ticket `gorm:"foreignKey:PurchaseID"`

	CreatedAt time.Time `gorm:"not null"`
}

type Ticket struct {
	ID uint `gorm:"primaryKey"`

	PurchaseID uint `gorm:"not null;index"`
	EventID    uint `gorm:"not null;index"`
	UserID     *uint

	TicketTypeID *uint
	RaffleNumber *int

	Price float64 `gorm:"not null"`
	Code  string  `gorm:"unique;not null"`
	Used  bool    `gorm:"not null;default:false"`
}

type Payment struct {
	ID uint `gorm:"primaryKey"`

	UserID    *uint
	Method    string `gorm:"not null"`
	Holder    string
	CardLast4 string

	CreatedAt time.Time `gorm:"not null"`
}

type PurchaseDAO struct {
	db *gorm.DB
}

func NewPurchaseDAO(db *gorm.DB) *PurchaseDAO {
	return &PurchaseDAO{
		db: db,
	}
}

// RecordPurchase runs the whole checkout in one transaction: conditional
// inventory decrements, raffle claims, purchase and ticket rows, fundraising
// increment, wallet debit or cosmetic payment row, optional donation. Any
// failed guard rolls everything back, so first writer wins and inventory is
// never overstated.
func (d *PurchaseDAO) RecordPurchase(ctx context.Context, purchase Purchase, donation float64, payment *Payment) (Purchase, error) {
	if len(purchase.Tickets) == 0 {
		return Purchase{}, ErrPurchaseWithoutLines
	}

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Event{}).
			Where("id = ? AND remaining_tickets >= ?", purchase.EventID, purchase.TicketCount).
			UpdateColumn("remaining_tickets", gorm.Expr("remaining_tickets - ?", purchase.TicketCount))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&Event{}).Where("id = ?", purchase.EventID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrEventNotFound
			}

			return ErrNotEnoughTickets
		}

		err := tx.Model(&Event{}).
			Where("id = ?", purchase.EventID).
			UpdateColumn("current_fundraising", gorm.Expr("current_fundraising + ?", purchase.Total+donation)).
			Error
		if err != nil {
			return err
		}

		typeQuantities := make(map[uint]int)
		for _, ticket := range purchase.Tickets {
			if ticket.RaffleNumber != nil {
				claim := tx.Model(&RaffleNumber{}).
					Where("event_id = ? AND number = ? AND available", purchase.EventID, *ticket.RaffleNumber).
					UpdateColumn("available", false)
				if claim.Error != nil {
					return claim.Error
				}
				if claim.RowsAffected == 0 {
					return &RaffleNumberTakenError{Number: *ticket.RaffleNumber}
				}
			} else if ticket.TicketTypeID != nil {
				typeQuantities[*ticket.TicketTypeID]++
			}
		}

		for typeID, quantity := range typeQuantities {
			decrement := tx.Model(&TicketType{}).
				Where("id = ? AND event_id = ? AND remaining >= ?", typeID, purchase.EventID, quantity).
				UpdateColumn("remaining", gorm.Expr("remaining - ?", quantity))
			if decrement.Error != nil {
				return decrement.Error
			}
			if decrement.RowsAffected == 0 {
				var tier TicketType
				if err := tx.First(&tier, typeID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return ErrTicketTypeNotFound
					}

					return err
				}

				return &TicketTypeSoldOutError{Name: tier.Name}
			}
		}

		if purchase.PaymentMethod == "wallet" {
			if purchase.UserID == nil {
				return ErrUserNotFound
			}

			debit := tx.Model(&User{}).
				Where("id = ? AND wallet_balance >= ?", *purchase.UserID, purchase.Total+donation).
				UpdateColumn("wallet_balance", gorm.Expr("wallet_balance - ?", purchase.Total+donation))
			if debit.Error != nil {
				return debit.Error
			}
			if debit.RowsAffected == 0 {
				return ErrInsufficientWallet
			}
		} else if payment != nil {
			if err := tx.Create(payment).Error; err != nil {
				return err
			}
		}

		tickets := purchase.Tickets
		purchase.Tickets = nil
		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}

		for i := range tickets {
			tickets[i].PurchaseID = purchase.ID
			tickets[i].EventID = purchase.EventID
			tickets[i].UserID = purchase.UserID
			if err := tx.Create(&tickets[i]).Error; err != nil {
				return err
			}
		}
		purchase.Tickets = tickets

		if donation > 0 && purchase.UserID != nil {
			eventID := purchase.EventID
			record := Donation{
				UserID:    *purchase.UserID,
				EventID:   &eventID,
				Amount:    donation,
				CreatedAt: time.Now(),
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return Purchase{}, err
	}

	return purchase, nil
}

// PurchaseRow is a purchase joined to its event title for the account page.
type PurchaseRow struct {
	ID            uint
	UserID        *uint
	EventID       uint
	EventTitle    string
	TicketCount   int
	UnitPrice     float64
	Total         float64
	PaymentMethod string
	CreatedAt     time.Time
}

func (d *PurchaseDAO) FindByUserID(ctx context.Context, userID uint) ([]PurchaseRow, error) {
	var rows []PurchaseRow

	err := d.db.WithContext(ctx).
		Table("purchases").
		Select("purchases.*, events.title AS event_title").
		Joins("JOIN events ON events.id = purchases.event_id").
		Where("purchases.user_id = ?", userID).
		Order("purchases.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// TicketRow is a ticket joined to event and tier names for display.
type TicketRow struct {
	ID             uint
	PurchaseID     uint
	EventID        uint
	EventTitle     string
	UserID         *uint
	TicketTypeID   *uint
	TicketTypeName *string
	RaffleNumber   *int
	Price          float64
	Code           string
	Used           bool
}

func (d *PurchaseDAO) FindTicketsByUserID(ctx context.Context, userID uint) ([]TicketRow, error) {
	var rows []TicketRow

	err := d.db.WithContext(ctx).
		Table("tickets").
		Select("tickets.*, events.title AS event_title, ticket_types.name AS ticket_type_name").
		Joins("JOIN events ON events.id = tickets.event_id").
		Joins("LEFT JOIN ticket_types ON ticket_types.id = tickets.ticket_type_id").
		Where("tickets.user_id = ?", userID).
		Order("tickets.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// MarkTicketUsed flips the used flag exactly once. The conditional update
// makes a double scan at the door lose cleanly.
func (d *PurchaseDAO) MarkTicketUsed(ctx context.Context, code string) (TicketRow, error) {
	result := d.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("code = ? AND NOT used", code).
		UpdateColumn("used", true)
	if result.Error != nil {
		return TicketRow{}, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := d.db.WithContext(ctx).Model(&Ticket{}).Where("code = ?", code).Count(&count).Error; err != nil {
			return TicketRow{}, err
		}
		if count == 0 {
			return TicketRow{}, ErrTicketNotFound
		}

		return TicketRow{}, ErrTicketAlreadyUsed
	}

	return d.findTicketRowByCode(ctx, code)
}

func (d *PurchaseDAO) findTicketRowByCode(ctx context.Context, code string) (TicketRow, error) {
	var row TicketRow

	err := d.db.WithContext(ctx).
		Table("tickets").
		Select("tickets.*, events.title AS event_title, ticket_types.name AS ticket_type_name").
		Joins("JOIN events ON events.id = tickets.event_id").
		Joins("LEFT JOIN ticket_types ON ticket_types.id = tickets.ticket_type_id").
		Where("tickets.code = ?", code).
		Scan(&row).Error
	if err != nil {
		return TicketRow{}, err
	}
	if row.ID == 0 {
		return TicketRow{}, ErrTicketNotFound
	}

	return row, nil
}
