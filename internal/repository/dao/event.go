package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrTicketTypeNotFound = errors.New("ticket type not found")
)

// TierBelowSoldError rejects a tier quantity reduction that would drop the
// quantity below the number of tickets already sold for that tier.
type TierBelowSoldError struct {
	Name string
	Sold int
}

func (e *TierBelowSoldError) Error() string {
	return fmt.Sprintf("cannot reduce %q below the %d tickets already sold", e.Name, e.Sold)
}

// CapacityBelowSoldError rejects a capacity reduction that would drop the
// event's capacity below the number of tickets already sold.
type CapacityBelowSoldError struct {
	Sold int
}

func (e *CapacityBelowSoldError) Error() string {
	return fmt.Sprintf("cannot reduce capacity below the %d tickets already sold", e.Sold)
}

type Event struct {
	ID uint `gorm:"primaryKey"`

	Title    string    `gorm:"not null"`
	Date     time.Time `gorm:"not null"`
	Location string
	Type     string `gorm:"not null"` // "concert", "dinner", "raffle" or "drawing"
	Status   string `gorm:"not null;default:active"`

	Capacity         int `gorm:"not null"`
	RemainingTickets int `gorm:"not null"`

	BasePrice          float64 `gorm:"not null"`
	FundraisingGoal    float64 `gorm:"not null;default:0"`
	CurrentFundraising float64 `gorm:"not null;default:0"`

	Description string
	ImageURL    string

	TicketTypes   []TicketType   `gorm:"foreignKey:EventID"`
	RaffleNumbers []RaffleNumber `gorm:"foreignKey:EventID"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type TicketType struct {
	ID      uint `gorm:"primaryKey"`
	EventID uint `gorm:"not null;index"`

	Name  string  `gorm:"not null"`
	Price float64 `gorm:"not null"`
	Color string

	Total     int `gorm:"not null"`
	Remaining int `gorm:"not null"`
}

// RaffleNumber is one row per number, keyed by (event_id, number), so a claim
// is a single conditional UPDATE instead of a whole-document rewrite.
type RaffleNumber struct {
	EventID   uint `gorm:"primaryKey;autoIncrement:false"`
	Number    int  `gorm:"primaryKey;autoIncrement:false"`
	Available bool `gorm:"not null;default:true"`
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

// Insert writes the event together with its ticket types and raffle numbers.
func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindAll(ctx context.Context) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Preload("TicketTypes", func(db *gorm.DB) *gorm.DB {
			return db.Order("ticket_types.id ASC")
		}).
		Preload("RaffleNumbers", func(db *gorm.DB) *gorm.DB {
			return db.Order("raffle_numbers.number ASC")
		}).
		Order("date ASC").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).
		Preload("TicketTypes", func(db *gorm.DB) *gorm.DB {
			return db.Order("ticket_types.id ASC")
		}).
		Preload("RaffleNumbers", func(db *gorm.DB) *gorm.DB {
			return db.Order("raffle_numbers.number ASC")
		}).
		First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

// Update rewrites the event's own columns and reconciles its ticket tiers.
// Tier reductions below the sold count fail the whole update; capacity and
// remaining tickets are re-derived from the tiers afterwards so that
// sold = capacity - remaining survives the edit.
func (d *EventDAO) Update(ctx context.Context, event Event, tiers []TicketType) (Event, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current Event
		if err := tx.First(&current, event.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}

			return err
		}

		for _, tier := range tiers {
			if tier.ID == 0 {
				tier.EventID = event.ID
				tier.Remaining = tier.Total
				if err := tx.Create(&tier).Error; err != nil {
					return err
				}

				continue
			}

			// remaining = total - sold, guarded so sold never exceeds the
			// new total. RowsAffected == 0 means the reduction went below
			// the sold count (or the tier vanished).
			result := tx.Model(&TicketType{}).
				Where("id = ? AND event_id = ? AND total - remaining <= ?", tier.ID, event.ID, tier.Total).
				Updates(map[string]interface{}{
					"name":      tier.Name,
					"price":     tier.Price,
					"color":     tier.Color,
					"total":     tier.Total,
					"remaining": gorm.Expr("? - (total - remaining)", tier.Total),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				var existing TicketType
				if err := tx.First(&existing, tier.ID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return ErrTicketTypeNotFound
					}

					return err
				}

				return &TierBelowSoldError{Name: existing.Name, Sold: existing.Total - existing.Remaining}
			}
		}

		updates := map[string]interface{}{
			"title":            event.Title,
			"date":             event.Date,
			"location":         event.Location,
			"fundraising_goal": event.FundraisingGoal,
			"description":      event.Description,
			"image_url":        event.ImageURL,
		}

		// An omitted status keeps whatever is stored.
		if event.Status != "" {
			updates["status"] = event.Status
		}

		query := tx.Model(&Event{}).Where("id = ?", event.ID)
		guarded := false

		if len(tiers) > 0 {
			// Derive capacity and base price from the tiers; keep the sold
			// count intact by shifting remaining with the capacity.
			var derived struct {
				Capacity int
				MinPrice float64
			}
			err := tx.Model(&TicketType{}).
				Select("COALESCE(SUM(total), 0) AS capacity, COALESCE(MIN(price), 0) AS min_price").
				Where("event_id = ?", event.ID).
				Scan(&derived).Error
			if err != nil {
				return err
			}

			updates["capacity"] = derived.Capacity
			updates["remaining_tickets"] = gorm.Expr("? - (capacity - remaining_tickets)", derived.Capacity)
			updates["base_price"] = derived.MinPrice
		} else if current.Capacity != event.Capacity {
			updates["capacity"] = event.Capacity
			updates["remaining_tickets"] = gorm.Expr("? - (capacity - remaining_tickets)", event.Capacity)
			updates["base_price"] = event.BasePrice

			// Shrinking can never go below the sold count. The guard makes
			// RowsAffected == 0 when it would.
			query = query.Where("capacity - remaining_tickets <= ?", event.Capacity)
			guarded = true

			if current.Type == "raffle" || current.Type == "drawing" {
				if event.Capacity > current.Capacity {
					// Growth mints the new number range. Claimed numbers are
					// never regenerated.
					for n := current.Capacity + 1; n <= event.Capacity; n++ {
						if err := tx.Create(&RaffleNumber{EventID: event.ID, Number: n, Available: true}).Error; err != nil {
							return err
						}
					}
				} else {
					// Shrinking retires the unclaimed numbers above the new
					// range; rolled back with the rest if the guard fails.
					err := tx.Where("event_id = ? AND number > ? AND available", event.ID, event.Capacity).
						Delete(&RaffleNumber{}).Error
					if err != nil {
						return err
					}
				}
			}
		} else {
			updates["base_price"] = event.BasePrice
		}

		result := query.Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if guarded && result.RowsAffected == 0 {
			return &CapacityBelowSoldError{Sold: current.Capacity - current.RemainingTickets}
		}

		return nil
	})
	if err != nil {
		return Event{}, err
	}

	return d.FindByID(ctx, event.ID)
}

func (d *EventDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&RaffleNumber{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&TicketType{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&Event{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrEventNotFound
		}

		return nil
	})
}
