package service

import (
	"context"
	"fmt"

	"github.com/solvida/charity-api/internal/domain"
)

type DonationRepository interface {
	Create(ctx context.Context, donation domain.Donation) (domain.Donation, error)
}

type DonationService struct {
	repo DonationRepository
}

func NewDonationService(repo DonationRepository) *DonationService {
	return &DonationService{
		repo: repo,
	}
}

// Donate records a standalone donation, optionally tied to an event, in
// which case the event's running total moves with it.
func (s *DonationService) Donate(ctx context.Context, userID uint, eventID *uint, amount float64, message string) (domain.Donation, error) {
	if amount <= 0 {
		return domain.Donation{}, ErrInvalidAmount
	}

	donation, err := s.repo.Create(ctx, domain.Donation{
		UserID:  userID,
		EventID: eventID,
		Amount:  amount,
		Message: message,
	})
	if err != nil {
		return domain.Donation{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return donation, nil
}
