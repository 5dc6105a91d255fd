package repository

import (
	"context"
	"fmt"

	"github.com/solvida/charity-api/internal/domain"
	"github.com/solvida/charity-api/internal/repository/dao"
)

type DonationDAO interface {
	Insert(ctx context.Context, donation dao.Donation) (dao.Donation, error)
	FindByUserID(ctx context.Context, userID uint) ([]dao.DonationRow, error)
	SumByUserID(ctx context.Context, userID uint) (float64, error)
}

type DonationRepository struct {
	dao DonationDAO
}

func NewDonationRepository(dao DonationDAO) *DonationRepository {
	return &DonationRepository{
		dao: dao,
	}
}

func (r *DonationRepository) Create(ctx context.Context, donation domain.Donation) (domain.Donation, error) {
	created, err := r.dao.Insert(ctx, dao.Donation{
		UserID:  donation.UserID,
		EventID: donation.EventID,
		Amount:  donation.Amount,
		Message: donation.Message,
	})
	if err != nil {
		return domain.Donation{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return domain.Donation{
		ID:        created.ID,
		UserID:    created.UserID,
		EventID:   created.EventID,
		Amount:    created.Amount,
		Message:   created.Message,
		CreatedAt: created.CreatedAt,
	}, nil
}

func (r *DonationRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Donation, error) {
	rows, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	donations := make([]domain.Donation, 0, len(rows))
	for _, row := range rows {
		donation := domain.Donation{
			ID:        row.ID,
			UserID:    row.UserID,
			EventID:   row.EventID,
			Amount:    row.Amount,
			Message:   row.Message,
			CreatedAt: row.CreatedAt,
		}
		if row.EventTitle != nil {
			donation.EventTitle = *row.EventTitle
		}

		donations = append(donations, donation)
	}

	return donations, nil
}

func (r *DonationRepository) SumByUserID(ctx context.Context, userID uint) (float64, error) {
	total, err := r.dao.SumByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.SumByUserID -> %w", err)
	}

	return total, nil
}
