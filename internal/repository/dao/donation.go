package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Donation struct {
	ID uint `gorm:"primaryKey"`

	UserID  uint  `gorm:"not null;index"`
	EventID *uint `gorm:"index"`

	Amount  float64 `gorm:"not null"`
	Message string  `gorm:"size:500"`

	CreatedAt time.Time `gorm:"not null"`
}

type DonationDAO struct {
	db *gorm.DB
}

func NewDonationDAO(db *gorm.DB) *DonationDAO {
	return &DonationDAO{
		db: db,
	}
}

// Insert writes the donation and, when tied to an event, bumps that event's
// running total in the same transaction.
func (d *DonationDAO) Insert(ctx context.Context, donation Donation) (Donation, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if donation.EventID != nil {
			result := tx.Model(&Event{}).
				Where("id = ?", *donation.EventID).
				UpdateColumn("current_fundraising", gorm.Expr("current_fundraising + ?", donation.Amount))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrEventNotFound
			}
		}

		return tx.Create(&donation).Error
	})
	if err != nil {
		return Donation{}, err
	}

	return donation, nil
}

// DonationRow is a donation joined to its event title, when tied to one.
type DonationRow struct {
	ID         uint
	UserID     uint
	EventID    *uint
	EventTitle *string
	Amount     float64
	Message    string
	CreatedAt  time.Time
}

func (d *DonationDAO) FindByUserID(ctx context.Context, userID uint) ([]DonationRow, error) {
	var rows []DonationRow

	err := d.db.WithContext(ctx).
		Table("donations").
		Select("donations.*, events.title AS event_title").
		Joins("LEFT JOIN events ON events.id = donations.event_id").
		Where("donations.user_id = ?", userID).
		Order("donations.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (d *DonationDAO) SumByUserID(ctx context.Context, userID uint) (float64, error) {
	var total float64

	err := d.db.WithContext(ctx).
		Model(&Donation{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ?", userID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}

	return total, nil
}
