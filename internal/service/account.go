package service

import (
	"context"
	"fmt"

	"github.com/solvida/charity-api/internal/domain"
)

type AccountUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type AccountPurchaseRepository interface {
	FindByUserID(ctx context.Context, userID uint) ([]domain.Purchase, error)
	FindTicketsByUserID(ctx context.Context, userID uint) ([]domain.Ticket, error)
}

type AccountDonationRepository interface {
	FindByUserID(ctx context.Context, userID uint) ([]domain.Donation, error)
	SumByUserID(ctx context.Context, userID uint) (float64, error)
}

// AccountService assembles the account page: profile, purchases, tickets and
// donations are queried independently, the way the page renders them.
type AccountService struct {
	userRepo     AccountUserRepository
	purchaseRepo AccountPurchaseRepository
	donationRepo AccountDonationRepository
}

func NewAccountService(userRepo AccountUserRepository, purchaseRepo AccountPurchaseRepository, donationRepo AccountDonationRepository) *AccountService {
	return &AccountService{
		userRepo:     userRepo,
		purchaseRepo: purchaseRepo,
		donationRepo: donationRepo,
	}
}

func (s *AccountService) GetAccount(ctx context.Context, userID uint) (domain.Account, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return domain.Account{}, fmt.Errorf("s.userRepo.FindByID -> %w", err)
	}

	purchases, err := s.purchaseRepo.FindByUserID(ctx, userID)
	if err != nil {
		return domain.Account{}, fmt.Errorf("s.purchaseRepo.FindByUserID -> %w", err)
	}

	tickets, err := s.purchaseRepo.FindTicketsByUserID(ctx, userID)
	if err != nil {
		return domain.Account{}, fmt.Errorf("s.purchaseRepo.FindTicketsByUserID -> %w", err)
	}

	donations, err := s.donationRepo.FindByUserID(ctx, userID)
	if err != nil {
		return domain.Account{}, fmt.Errorf("s.donationRepo.FindByUserID -> %w", err)
	}

	total, err := s.donationRepo.SumByUserID(ctx, userID)
	if err != nil {
		return domain.Account{}, fmt.Errorf("s.donationRepo.SumByUserID -> %w", err)
	}

	return domain.Account{
		User:          user,
		Purchases:     purchases,
		Tickets:       tickets,
		Donations:     donations,
		DonationTotal: total,
	}, nil
}
